// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package srs provides drivers for Stanford Research Systems
// instruments.
package srs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/param"
	"github.com/labtoolkit/instrument/scpi"
	"github.com/labtoolkit/instrument/units"
)

// DS345 drives the SRS DS345, a 30 MHz synthesized function generator.
// The DS345 predates SCPI proper; its command set is terse and encodes
// the output function as a digit rather than a mnemonic.
type DS345 struct {
	*scpi.Instrument
}

// New returns a DS345 driver on the given connection.
func New(conn *instrument.Connection) *DS345 {
	return &DS345{Instrument: scpi.New(conn)}
}

// Function is one of the DS345 output functions, encoded on the wire
// as a single digit.
type Function string

const (
	Sinusoid  Function = "0"
	Square    Function = "1"
	Triangle  Function = "2"
	Ramp      Function = "3"
	Noise     Function = "4"
	Arbitrary Function = "5"
)

var ds345Params = struct {
	freq     param.Unitful
	offset   param.Unitful
	phase    param.Unitful
	function param.Enum[Function]
}{
	freq:     param.Unitful{Key: "FREQ", Unit: units.Hertz},
	offset:   param.Unitful{Key: "OFFS", Unit: units.Volt},
	phase:    param.Unitful{Key: "PHSE", Unit: units.Degree},
	function: param.Enum[Function]{Key: "FUNC", Values: []Function{Sinusoid, Square, Triangle, Ramp, Noise, Arbitrary}},
}

// Frequency returns the output frequency.
func (ds *DS345) Frequency() (units.Quantity, error) {
	return ds345Params.freq.Get(ds)
}

// SetFrequency sets the output frequency. Accepts a units.Quantity in
// any frequency unit, or a bare number interpreted as hertz.
func (ds *DS345) SetFrequency(v any) error {
	return ds345Params.freq.Set(ds, v)
}

// Offset returns the DC offset voltage.
func (ds *DS345) Offset() (units.Quantity, error) {
	return ds345Params.offset.Get(ds)
}

// SetOffset sets the DC offset voltage.
func (ds *DS345) SetOffset(v any) error {
	return ds345Params.offset.Set(ds, v)
}

// Phase returns the waveform phase in degrees.
func (ds *DS345) Phase() (units.Quantity, error) {
	return ds345Params.phase.Get(ds)
}

// SetPhase sets the waveform phase in degrees.
func (ds *DS345) SetPhase(v any) error {
	return ds345Params.phase.Set(ds, v)
}

// Function returns the selected output function.
func (ds *DS345) Function() (Function, error) {
	return ds345Params.function.Get(ds)
}

// SetFunction selects the output function.
func (ds *DS345) SetFunction(f Function) error {
	return ds345Params.function.Set(ds, f)
}

// amplSuffix maps a voltage mode to the two-letter suffix the DS345
// appends to AMPL values.
var amplSuffix = map[scpi.VoltageMode]string{
	scpi.PeakToPeak: "VP",
	scpi.RMS:        "VR",
	scpi.DBm:        "DB",
}

// Amplitude returns the output amplitude and the unit mode it is
// expressed in. The DS345 reports amplitude as a number with a
// two-letter suffix, e.g. "1.234VP".
func (ds *DS345) Amplitude() (float64, scpi.VoltageMode, error) {
	raw, err := ds.Query("AMPL?")
	if err != nil {
		return 0, "", err
	}
	for mode, suffix := range amplSuffix {
		if strings.HasSuffix(raw, suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(raw, suffix), 64)
			if err != nil {
				return 0, "", &instrument.ParseError{Cmd: "AMPL?", Raw: raw, Err: err}
			}
			return v, mode, nil
		}
	}
	return 0, "", &instrument.ParseError{
		Cmd: "AMPL?", Raw: raw,
		Err: fmt.Errorf("unrecognized amplitude suffix"),
	}
}

// SetAmplitude sets the output amplitude in the given voltage mode.
func (ds *DS345) SetAmplitude(v float64, mode scpi.VoltageMode) error {
	suffix, ok := amplSuffix[mode]
	if !ok {
		return &instrument.RangeError{
			Key: "AMPL", Value: mode,
			Msg: "must be one of VPP, VRMS, DBM",
		}
	}
	return ds.Command("AMPL %G%s", v, suffix)
}
