// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"fmt"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/param"
	"github.com/labtoolkit/instrument/units"
)

// WaveFunction selects the output waveform shape of a function
// generator.
type WaveFunction string

const (
	WaveSine     WaveFunction = "SIN"
	WaveSquare   WaveFunction = "SQU"
	WaveTriangle WaveFunction = "TRI"
	WaveRamp     WaveFunction = "RAMP"
	WaveNoise    WaveFunction = "NOIS"
)

// VoltageMode is how an output amplitude is expressed.
type VoltageMode string

const (
	PeakToPeak VoltageMode = "VPP"
	RMS        VoltageMode = "VRMS"
	DBm        VoltageMode = "DBM"
)

var fgenParams = struct {
	frequency param.Unitful
	function  param.Enum[WaveFunction]
	offset    param.Unitful
	voltUnit  param.Enum[VoltageMode]
}{
	frequency: param.Unitful{
		Key: "FREQ", Unit: units.Hertz,
		MinQuery: "FREQ:MIN", MaxQuery: "FREQ:MAX",
	},
	function: param.Enum[WaveFunction]{
		Key:    "FUNC",
		Values: []WaveFunction{WaveSine, WaveSquare, WaveTriangle, WaveRamp, WaveNoise},
	},
	offset:   param.Unitful{Key: "VOLT:OFFS", Unit: units.Volt},
	voltUnit: param.Enum[VoltageMode]{Key: "VOLT:UNIT", Values: []VoltageMode{PeakToPeak, RMS, DBm}},
}

// FunctionGenerator drives function generators that follow the standard
// SCPI SOURce vocabulary.
type FunctionGenerator struct {
	*Instrument
}

// NewFunctionGenerator returns a generic SCPI function generator on the
// given connection.
func NewFunctionGenerator(conn *instrument.Connection) *FunctionGenerator {
	return &FunctionGenerator{Instrument: New(conn)}
}

// Frequency returns the output frequency in Hz.
func (f *FunctionGenerator) Frequency() (units.Quantity, error) {
	return fgenParams.frequency.Get(f)
}

// SetFrequency sets the output frequency. Bare numbers are Hz; the
// instrument's own FREQ:MIN/FREQ:MAX limits are enforced before the
// write.
func (f *FunctionGenerator) SetFrequency(v any) error {
	return fgenParams.frequency.Set(f, v)
}

// Function returns the output waveform shape.
func (f *FunctionGenerator) Function() (WaveFunction, error) {
	return fgenParams.function.Get(f)
}

// SetFunction sets the output waveform shape.
func (f *FunctionGenerator) SetFunction(fn WaveFunction) error {
	return fgenParams.function.Set(f, fn)
}

// Offset returns the output offset voltage.
func (f *FunctionGenerator) Offset() (units.Quantity, error) {
	return fgenParams.offset.Get(f)
}

// SetOffset sets the output offset voltage; bare numbers are volts.
func (f *FunctionGenerator) SetOffset(v any) error {
	return fgenParams.offset.Set(f, v)
}

// Amplitude returns the output amplitude magnitude together with the
// voltage mode it is expressed in.
func (f *FunctionGenerator) Amplitude() (float64, VoltageMode, error) {
	mode, err := fgenParams.voltUnit.Get(f)
	if err != nil {
		return 0, "", err
	}
	p := param.Float{Key: "VOLT"}
	v, err := p.Get(f)
	if err != nil {
		return 0, "", err
	}
	return v, mode, nil
}

// SetAmplitude sets the output amplitude in the given voltage mode. Two
// commands are written: the unit selection, then the magnitude.
func (f *FunctionGenerator) SetAmplitude(magnitude float64, mode VoltageMode) error {
	if err := fgenParams.voltUnit.Set(f, mode); err != nil {
		return err
	}
	return f.Command("VOLT %G", magnitude)
}

// Phase is not part of the generic SCPI source vocabulary; models with
// phase control implement it in their own drivers.
func (f *FunctionGenerator) Phase() (units.Quantity, error) {
	return units.Quantity{}, fmt.Errorf("phase: %w", instrument.ErrUnsupported)
}

// SetPhase is not supported on the generic driver.
func (f *FunctionGenerator) SetPhase(any) error {
	return fmt.Errorf("phase: %w", instrument.ErrUnsupported)
}

// OutputEnabled reports whether the front-panel output is on.
func (f *FunctionGenerator) OutputEnabled() (bool, error) {
	return param.Bool{Key: "OUTP"}.Get(f)
}

// SetOutputEnabled switches the front-panel output.
func (f *FunctionGenerator) SetOutputEnabled(on bool) error {
	return param.Bool{Key: "OUTP"}.Set(f, on)
}
