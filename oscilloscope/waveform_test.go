package oscilloscope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescale(t *testing.T) {
	raw := []float64{0, 100, -100}
	got := Rescale(raw, 25, 0.01, 1.5)
	assert.InDelta(t, 1.25, got[0], 1e-12)
	assert.InDelta(t, 2.25, got[1], 1e-12)
	assert.InDelta(t, 0.25, got[2], 1e-12)
}

func TestTimeAxis(t *testing.T) {
	ts := TimeAxis(-1e-3, 1e-6, 3)
	require.Len(t, ts, 3)
	assert.InDelta(t, -1e-3, ts[0], 1e-15)
	assert.InDelta(t, -1e-3+2e-6, ts[2], 1e-15)

	assert.Empty(t, TimeAxis(0, 1, -5))
}

func TestToFloats(t *testing.T) {
	assert.Equal(t, []float64{-2, 0, 16}, ToFloats([]int{-2, 0, 16}))
}

func TestWriteCSV(t *testing.T) {
	w := &Waveform{
		Source: "CH1",
		Times:  []float64{0, 1e-6},
		Values: []float64{1.25, 2.25},
	}
	var sb strings.Builder
	require.NoError(t, w.WriteCSV(&sb))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time_s,CH1_v", lines[0])
	assert.Contains(t, lines[1], "1.25e+00")
}

func TestWaveformString(t *testing.T) {
	w := &Waveform{Source: "MATH", Values: make([]float64, 10)}
	assert.Equal(t, "MATH: 10 points", w.String())
}
