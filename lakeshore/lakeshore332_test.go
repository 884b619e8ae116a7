package lakeshore

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func controller() (*instrument.Loopback, *LS332) {
	lb := instrument.NewLoopback()
	return lb, New(instrument.NewConnection(lb))
}

func TestSensorAddressing(t *testing.T) {
	_, ls := controller()
	s, err := ls.Sensor("A")
	require.NoError(t, err)
	assert.Equal(t, "A", s.Name())

	s, err = ls.Sensor(" b ")
	require.NoError(t, err)
	assert.Equal(t, "B", s.Name())

	_, err = ls.Sensor("C")
	var rerr *instrument.RangeError
	assert.ErrorAs(t, err, &rerr)
}

func TestSensorTemperature(t *testing.T) {
	lb, ls := controller()
	s, err := ls.Sensor("A")
	require.NoError(t, err)

	lb.Reply("+77.350")
	q, err := s.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, 77.35, q.Value, 1e-9)
	assert.Equal(t, units.Kelvin, q.Unit)
	assert.Equal(t, []string{"KRDG? A"}, lb.Writes())

	lb.Reply("-195.800")
	q, err = s.TemperatureCelsius()
	require.NoError(t, err)
	assert.Equal(t, units.Celsius, q.Unit)
	assert.Equal(t, "CRDG? A", lb.LastWrite())
}

func TestHeater(t *testing.T) {
	lb, ls := controller()
	lb.Reply("+43.7")
	frac, err := ls.HeaterOutput()
	require.NoError(t, err)
	assert.InDelta(t, 0.437, frac, 1e-9)
	assert.Equal(t, []string{"HTR?"}, lb.Writes())

	lb.Reply("0")
	st, err := ls.HeaterStatus()
	require.NoError(t, err)
	assert.Equal(t, HeaterOK, st)

	lb.Reply("2")
	st, err = ls.HeaterStatus()
	require.NoError(t, err)
	assert.Equal(t, HeaterShort, st)
	assert.Equal(t, "short", st.String())

	lb.Reply("7")
	_, err = ls.HeaterStatus()
	var perr *instrument.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoopSetpoint(t *testing.T) {
	lb, ls := controller()
	l, err := ls.Loop(0)
	require.NoError(t, err)

	lb.Reply("+4.200")
	q, err := l.Setpoint()
	require.NoError(t, err)
	assert.InDelta(t, 4.2, q.Value, 1e-9)
	assert.Equal(t, units.Kelvin, q.Unit)
	assert.Equal(t, []string{"SETP? 1"}, lb.Writes())

	require.NoError(t, l.SetSetpoint(units.New(0, units.Celsius)))
	assert.Equal(t, "SETP 1,273.15", lb.LastWrite())

	require.NoError(t, l.SetSetpoint(77.0))
	assert.Equal(t, "SETP 1,77", lb.LastWrite())

	_, err = ls.Loop(2)
	var rerr *instrument.RangeError
	assert.ErrorAs(t, err, &rerr)
}

func TestPID(t *testing.T) {
	lb, ls := controller()
	l, err := ls.Loop(1)
	require.NoError(t, err)

	lb.Reply("+50.0,+20.0,+0.0")
	pid, err := l.PID()
	require.NoError(t, err)
	assert.Equal(t, PID{P: 50, I: 20, D: 0}, pid)
	assert.Equal(t, []string{"PID? 2"}, lb.Writes())

	require.NoError(t, l.SetPID(PID{P: 40, I: 15, D: 2.5}))
	assert.Equal(t, "PID 2,40,15,2.5", lb.LastWrite())

	lb.Reply("+50.0,+20.0")
	_, err = l.PID()
	var perr *instrument.ParseError
	assert.ErrorAs(t, err, &perr)
}
