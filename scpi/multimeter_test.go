package scpi

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dmm() (*instrument.Loopback, *Multimeter) {
	lb := instrument.NewLoopback()
	return lb, NewMultimeter(instrument.NewConnection(lb))
}

func TestParseConfMode(t *testing.T) {
	cases := []struct {
		raw  string
		want MeasurementMode
	}{
		{`"VOLT +1.000000E+01,+3.000000E-06"`, ModeVoltageDC},
		{`"VOLT:AC +1.000000E+01,+3.000000E-06"`, ModeVoltageAC},
		{`"CURR +1.000000E-01"`, ModeCurrentDC},
		{`FRES +1.000000E+02,+1.000000E-01`, ModeFourPtResistance},
		{`"FREQ"`, ModeFrequency},
	}
	for _, c := range cases {
		mode, err := parseConfMode(c.raw)
		require.NoError(t, err, "raw %q", c.raw)
		assert.Equal(t, c.want, mode, "raw %q", c.raw)
	}

	_, err := parseConfMode(`"SQUAWK 1"`)
	var perr *instrument.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestSetMode(t *testing.T) {
	lb, m := dmm()
	require.NoError(t, m.SetMode(ModeResistance))
	assert.Equal(t, "CONF:RES", lb.LastWrite())

	var rerr *instrument.RangeError
	assert.ErrorAs(t, m.SetMode("SQUAWK"), &rerr)
	assert.Equal(t, "CONF:RES", lb.LastWrite())
}

func TestMeasureAttachesUnits(t *testing.T) {
	lb, m := dmm()
	lb.Reply("+4.27150000E-01")
	q, err := m.Measure(ModeVoltageDC)
	require.NoError(t, err)
	assert.InDelta(t, 0.42715, q.Value, 1e-9)
	assert.Equal(t, units.Volt, q.Unit)
	assert.Equal(t, []string{"MEAS:VOLT:DC?"}, lb.Writes())
}

func TestMeasureCurrentMode(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"FREQ +1.000000E+03"`)
	lb.Reply("+9.99857000E+02")
	q, err := m.Measure("")
	require.NoError(t, err)
	assert.Equal(t, units.Hertz, q.Unit)
	assert.Equal(t, []string{"CONF?", "MEAS:FREQ?"}, lb.Writes())
}

func TestInputRange(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"VOLT +1.000000E+01,+3.000000E-06"`)
	q, err := m.InputRange()
	require.NoError(t, err)
	assert.InDelta(t, 10, q.Value, 1e-9)
	assert.Equal(t, units.Volt, q.Unit)
}

func TestSetInputRangeSymbolic(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"VOLT +1.000000E+01"`)
	require.NoError(t, m.SetInputRange("AUTO"))
	assert.Equal(t, "CONF:VOLT:DC AUTO", lb.LastWrite())
}

func TestSetInputRangeNumeric(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"VOLT +1.000000E+01"`)
	require.NoError(t, m.SetInputRange(units.New(100, units.Millivolt)))
	assert.Equal(t, "CONF:VOLT:DC 0.1", lb.LastWrite())
}

func TestResolution(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"VOLT +1.000000E+01,+3.000000E-06"`)
	lb.Reply("+3.000000E-06")
	q, err := m.Resolution()
	require.NoError(t, err)
	assert.InDelta(t, 3e-6, q.Value, 1e-15)
	assert.Equal(t, units.Volt, q.Unit)
	assert.Equal(t, []string{"CONF?", "VOLT:DC:RES?"}, lb.Writes())
}

func TestSetResolution(t *testing.T) {
	lb, m := dmm()
	lb.Reply(`"VOLT +1.000000E+01"`)
	require.NoError(t, m.SetResolution("MIN"))
	assert.Equal(t, "VOLT:DC:RES MIN", lb.LastWrite())

	lb.Reply(`"VOLT +1.000000E+01"`)
	var rerr *instrument.RangeError
	assert.ErrorAs(t, m.SetResolution("AUTO"), &rerr)
}

func TestTriggerSource(t *testing.T) {
	lb, m := dmm()
	require.NoError(t, m.SetTriggerSource(TriggerExternal))
	assert.Equal(t, "TRIG:SOUR EXT", lb.LastWrite())

	lb.Reply("IMM")
	src, err := m.TriggerSource()
	require.NoError(t, err)
	assert.Equal(t, TriggerImmediate, src)
}

func TestSampleCount(t *testing.T) {
	lb, m := dmm()
	lb.Reply("10")
	n, err := m.SampleCount()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []string{"SAMP:COUN?"}, lb.Writes())
}
