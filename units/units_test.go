package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearConversion(t *testing.T) {
	q, err := New(14.7, Gigahertz).To(Hertz)
	require.NoError(t, err)
	assert.InDelta(t, 14.7e9, q.Value, 1)
	assert.Equal(t, Hertz, q.Unit)

	q, err = New(500, Millivolt).To(Volt)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, q.Value, 1e-12)
}

func TestTemperatureConversion(t *testing.T) {
	q, err := New(0, Celsius).To(Kelvin)
	require.NoError(t, err)
	assert.InDelta(t, 273.15, q.Value, 1e-9)

	q, err = New(32, Fahrenheit).To(Celsius)
	require.NoError(t, err)
	assert.InDelta(t, 0, q.Value, 1e-9)

	q, err = New(212, Fahrenheit).To(Kelvin)
	require.NoError(t, err)
	assert.InDelta(t, 373.15, q.Value, 1e-9)

	// round trip
	q, err = New(77, Kelvin).To(Fahrenheit)
	require.NoError(t, err)
	back, err := q.To(Kelvin)
	require.NoError(t, err)
	assert.InDelta(t, 77, back.Value, 1e-9)
}

func TestIncompatibleDimensions(t *testing.T) {
	_, err := New(1, Volt).To(Hertz)
	require.Error(t, err)
	var cerr *ConversionError
	assert.ErrorAs(t, err, &cerr)
}

func TestAssume(t *testing.T) {
	// a bare number and an explicit quantity in the default unit agree
	a, err := Assume(1500.0, Hertz)
	require.NoError(t, err)
	b, err := Assume(New(1.5, Kilohertz), Hertz)
	require.NoError(t, err)
	assert.InDelta(t, a.Value, b.Value, 1e-9)

	c, err := Assume(42, Volt)
	require.NoError(t, err)
	assert.Equal(t, 42.0, c.Value)

	_, err = Assume("1.5", Hertz)
	assert.Error(t, err)

	_, err = Assume(New(1, Volt), Hertz)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	q, err := Parse("1.234", Volt)
	require.NoError(t, err)
	assert.Equal(t, New(1.234, Volt), q)

	q, err = Parse("14.7 GHz", Hertz)
	require.NoError(t, err)
	assert.InDelta(t, 14.7e9, q.Value, 1)

	q, err = Parse("-1.5e-3", Second)
	require.NoError(t, err)
	assert.InDelta(t, -0.0015, q.Value, 1e-12)

	q, err = Parse("100kHz", Hertz)
	require.NoError(t, err)
	assert.InDelta(t, 1e5, q.Value, 1e-6)

	_, err = Parse("fast", Hertz)
	assert.Error(t, err)

	_, err = Parse("1.2 parsecs", Hertz)
	assert.Error(t, err)
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "1.5 kHz", New(1.5, Kilohertz).String())
	assert.Equal(t, "42", New(42, One).String())
}
