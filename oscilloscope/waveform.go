// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package oscilloscope holds the waveform types shared by the
// oscilloscope drivers.
package oscilloscope

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Waveform is one acquired trace, rescaled to physical units: Times in
// seconds, Values in volts.
type Waveform struct {
	Source string // native name of the data source, e.g. "CH1"
	Times  []float64
	Values []float64
}

// Len returns the number of points in the trace.
func (w *Waveform) Len() int { return len(w.Values) }

// String implements fmt.Stringer for log output.
func (w *Waveform) String() string {
	return fmt.Sprintf("%s: %d points", w.Source, len(w.Values))
}

// WriteCSV writes the trace as two-column CSV with a header row.
func (w *Waveform) WriteCSV(out io.Writer) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"time_s", w.Source + "_v"}); err != nil {
		return err
	}
	for i, v := range w.Values {
		var t float64
		if i < len(w.Times) {
			t = w.Times[i]
		}
		rec := []string{
			strconv.FormatFloat(t, 'e', -1, 64),
			strconv.FormatFloat(v, 'e', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Rescale converts raw digitizer levels to physical values using the
// instrument's scaling triple: value = (raw - offset) * scale + zero.
func Rescale(raw []float64, offset, scale, zero float64) []float64 {
	out := make([]float64, len(raw))
	for i, r := range raw {
		out[i] = (r-offset)*scale + zero
	}
	return out
}

// ToFloats widens integer samples for rescaling.
func ToFloats(raw []int) []float64 {
	out := make([]float64, len(raw))
	for i, r := range raw {
		out[i] = float64(r)
	}
	return out
}

// TimeAxis reconstructs the x axis from start time, increment and point
// count; the axis is never transferred from the instrument.
func TimeAxis(start, incr float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*incr
	}
	return out
}
