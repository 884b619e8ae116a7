package gpib

import (
	"testing"

	"github.com/labtoolkit/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguresAdapter(t *testing.T) {
	lb := instrument.NewLoopback()
	_, err := New(lb, 19, false)
	require.NoError(t, err)
	w := lb.Writes()
	assert.Contains(t, w, "++addr 19")
	assert.Contains(t, w, "++mode 1")
	assert.Contains(t, w, "++auto 1")
	assert.NotContains(t, w, "++clr")
}

func TestNewWithClear(t *testing.T) {
	lb := instrument.NewLoopback()
	_, err := New(lb, 6, true)
	require.NoError(t, err)
	assert.Equal(t, "++clr", lb.LastWrite())
}

func TestAR488SkipsEEPROMCommands(t *testing.T) {
	lb := instrument.NewLoopback()
	_, err := New(lb, 6, false, WithAR488())
	require.NoError(t, err)
	assert.NotContains(t, lb.Writes(), "++verbose 0")
	assert.NotContains(t, lb.Writes(), "++savecfg 0")
}

func TestAddressValidation(t *testing.T) {
	lb := instrument.NewLoopback()
	_, err := New(lb, 31, false)
	assert.Error(t, err)

	_, err = New(lb, 6, false, WithSecondaryAddress(50))
	assert.Error(t, err)

	lb = instrument.NewLoopback()
	_, err = New(lb, 6, false, WithSecondaryAddress(96))
	require.NoError(t, err)
	assert.Contains(t, lb.Writes(), "++addr 6 96")
}

func TestControllerQuery(t *testing.T) {
	lb := instrument.NewLoopback()
	a, err := New(lb, 6, false)
	require.NoError(t, err)

	lb.Reply("Prologix GPIB-USB Controller version 6.107")
	ver, err := a.Version()
	require.NoError(t, err)
	assert.Equal(t, "Prologix GPIB-USB Controller version 6.107", ver)
	assert.Equal(t, "++ver", lb.LastWrite())
}

func TestInstrumentTrafficPassesThrough(t *testing.T) {
	lb := instrument.NewLoopback()
	a, err := New(lb, 6, false)
	require.NoError(t, err)

	conn := instrument.NewConnection(a)
	lb.Reply("SRS,DS345,12345,1.04")
	idn, err := conn.Query("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, "SRS,DS345,12345,1.04", idn)
	assert.Equal(t, "*IDN?", lb.LastWrite())
}
