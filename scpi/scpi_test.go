package scpi

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loop() (*instrument.Loopback, *Instrument) {
	lb := instrument.NewLoopback()
	return lb, New(instrument.NewConnection(lb))
}

func TestIdentify(t *testing.T) {
	lb, in := loop()
	lb.Reply("TEKTRONIX,DPO4104,C000001,CF:91.1CT FV:v2.48")
	idn, err := in.Identify()
	require.NoError(t, err)
	assert.Equal(t, "TEKTRONIX,DPO4104,C000001,CF:91.1CT FV:v2.48", idn)
	assert.Equal(t, []string{"*IDN?"}, lb.Writes())
}

func TestCommonCommands(t *testing.T) {
	lb, in := loop()
	require.NoError(t, in.Reset())
	require.NoError(t, in.Clear())
	require.NoError(t, in.Trigger())
	require.NoError(t, in.WaitToContinue())
	assert.Equal(t, []string{"*RST", "*CLS", "*TRG", "*WAI"}, lb.Writes())
}

func TestSelfTest(t *testing.T) {
	lb, in := loop()
	lb.Reply("0")
	ok, err := in.SelfTestOK()
	require.NoError(t, err)
	assert.True(t, ok)

	lb.Reply("-330")
	ok, err = in.SelfTestOK()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckErrorQueueEmpty(t *testing.T) {
	lb, in := loop()
	lb.Reply("0")
	errs, err := in.CheckErrorQueue()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"SYST:ERR:CODE:ALL?"}, lb.Writes())
}

func TestCheckErrorQueueReportsCodes(t *testing.T) {
	lb, in := loop()
	lb.Reply("-222,-113")
	errs, err := in.CheckErrorQueue()
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, -222, errs[0].Code)
	assert.Contains(t, errs[0].Error(), "data out of range")
	assert.Equal(t, -113, errs[1].Code)
}

func TestRegisteredErrorCodes(t *testing.T) {
	lb, in := loop()
	in.RegisterErrorCodes(map[ErrorCode]string{604: "measurement overrange"})
	lb.Reply("604")
	errs, err := in.CheckErrorQueue()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "measurement overrange")
}

func TestAutoErrorCheck(t *testing.T) {
	lb, in := loop()
	in.SetErrorCheck(true)

	lb.Reply("0")
	require.NoError(t, in.Command("FREQ 1000"))
	assert.Equal(t, []string{"FREQ 1000", "SYST:ERR:CODE:ALL?"}, lb.Writes())

	lb.Reply("-222")
	err := in.Command("FREQ 1E9")
	require.Error(t, err)
	var ierr *instrument.InstrumentError
	assert.ErrorAs(t, err, &ierr)
	assert.Equal(t, -222, ierr.Code)
}

func TestDisplayBrightnessBounds(t *testing.T) {
	lb, in := loop()
	require.NoError(t, in.SetDisplayBrightness(0.4))
	assert.Equal(t, "DISP:BRIG 0.4", lb.LastWrite())

	var rerr *instrument.RangeError
	assert.ErrorAs(t, in.SetDisplayBrightness(1.5), &rerr)
	assert.Equal(t, "DISP:BRIG 0.4", lb.LastWrite())
}

func TestDisplayText(t *testing.T) {
	lb, in := loop()
	require.NoError(t, in.DisplayText("hello"))
	assert.Equal(t, `DISP:TEXT "HELLO"`, lb.LastWrite())
}
