package scpi

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fgen() (*instrument.Loopback, *FunctionGenerator) {
	lb := instrument.NewLoopback()
	return lb, NewFunctionGenerator(instrument.NewConnection(lb))
}

func TestFrequencyBoundsFromInstrument(t *testing.T) {
	lb, f := fgen()
	lb.Reply("1E-6")
	lb.Reply("3.0E+7")
	require.NoError(t, f.SetFrequency(units.New(10, units.Megahertz)))
	assert.Equal(t, []string{"FREQ:MIN?", "FREQ:MAX?", "FREQ 1E+07"}, lb.Writes())
}

func TestFrequencyAboveInstrumentMax(t *testing.T) {
	lb, f := fgen()
	lb.Reply("1E-6")
	lb.Reply("3.0E+7")
	var rerr *instrument.RangeError
	require.ErrorAs(t, f.SetFrequency(units.New(45, units.Megahertz)), &rerr)
	assert.Equal(t, []string{"FREQ:MIN?", "FREQ:MAX?"}, lb.Writes())
}

func TestFunctionEnum(t *testing.T) {
	lb, f := fgen()
	require.NoError(t, f.SetFunction(WaveSquare))
	assert.Equal(t, "FUNC SQU", lb.LastWrite())

	lb.Reply("SIN")
	fn, err := f.Function()
	require.NoError(t, err)
	assert.Equal(t, WaveSine, fn)

	var rerr *instrument.RangeError
	assert.ErrorAs(t, f.SetFunction("SAWTOOTH"), &rerr)
}

func TestAmplitudeModePair(t *testing.T) {
	lb, f := fgen()
	require.NoError(t, f.SetAmplitude(0.5, RMS))
	assert.Equal(t, []string{"VOLT:UNIT VRMS", "VOLT 0.5"}, lb.Writes())

	lb.Reply("VRMS")
	lb.Reply("0.5")
	v, mode, err := f.Amplitude()
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
	assert.Equal(t, RMS, mode)
}

func TestPhaseUnsupported(t *testing.T) {
	_, f := fgen()
	_, err := f.Phase()
	assert.ErrorIs(t, err, instrument.ErrUnsupported)
	assert.ErrorIs(t, f.SetPhase(90), instrument.ErrUnsupported)
}

func TestOutputEnable(t *testing.T) {
	lb, f := fgen()
	require.NoError(t, f.SetOutputEnabled(true))
	assert.Equal(t, "OUTP ON", lb.LastWrite())

	lb.Reply("1")
	on, err := f.OutputEnabled()
	require.NoError(t, err)
	assert.True(t, on)
}
