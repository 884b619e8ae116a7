package hp

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supply() (*instrument.Loopback, *HP6632B) {
	lb := instrument.NewLoopback()
	return lb, New(instrument.NewConnection(lb))
}

func TestVoltageProgramming(t *testing.T) {
	lb, hp := supply()
	require.NoError(t, hp.SetVoltage(12.0))
	assert.Equal(t, "VOLT 12", lb.LastWrite())

	require.NoError(t, hp.SetVoltage(units.New(3300, units.Millivolt)))
	assert.Equal(t, "VOLT 3.3", lb.LastWrite())

	lb.Reply("+1.20000000E+01")
	q, err := hp.Voltage()
	require.NoError(t, err)
	assert.InDelta(t, 12, q.Value, 1e-9)
	assert.Equal(t, units.Volt, q.Unit)
}

func TestVoltageOutsideRange(t *testing.T) {
	lb, hp := supply()
	var rerr *instrument.RangeError
	require.ErrorAs(t, hp.SetVoltage(25.0), &rerr)
	require.ErrorAs(t, hp.SetVoltage(-1.0), &rerr)
	assert.Empty(t, lb.Writes())
}

func TestCurrentLimit(t *testing.T) {
	lb, hp := supply()
	require.NoError(t, hp.SetCurrent(units.New(500, units.Milliampere)))
	assert.Equal(t, "CURR 0.5", lb.LastWrite())

	var rerr *instrument.RangeError
	require.ErrorAs(t, hp.SetCurrent(6.0), &rerr)
	assert.Len(t, lb.Writes(), 1)
}

func TestMeasuredReadings(t *testing.T) {
	lb, hp := supply()
	lb.Reply("+4.99862000E+00")
	q, err := hp.MeasuredVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 4.99862, q.Value, 1e-9)
	assert.Equal(t, units.Volt, q.Unit)

	lb.Reply("+1.02000000E-01")
	q, err = hp.MeasuredCurrent()
	require.NoError(t, err)
	assert.InDelta(t, 0.102, q.Value, 1e-9)
	assert.Equal(t, units.Ampere, q.Unit)

	assert.Equal(t, []string{"MEAS:VOLT?", "MEAS:CURR?"}, lb.Writes())
}

func TestOutputAndProtection(t *testing.T) {
	lb, hp := supply()
	require.NoError(t, hp.SetOutputEnabled(true))
	assert.Equal(t, "OUTP 1", lb.LastWrite())

	lb.Reply("0")
	on, err := hp.OutputEnabled()
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, hp.SetOvercurrentProtection(true))
	assert.Equal(t, "CURR:PROT:STAT 1", lb.LastWrite())

	require.NoError(t, hp.ClearProtection())
	assert.Equal(t, "OUTP:PROT:CLE", lb.LastWrite())
}

func TestDeviceErrorCodes(t *testing.T) {
	lb, hp := supply()
	hp.SetErrorCheck(true)
	lb.Reply("604")
	err := hp.Command("MEAS:CURR?")
	require.Error(t, err)
	var ierr *instrument.InstrumentError
	require.ErrorAs(t, err, &ierr)
	assert.Contains(t, ierr.Error(), "measurement overrange")
}
