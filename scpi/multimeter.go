// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/param"
	"github.com/labtoolkit/instrument/units"
)

// MeasurementMode selects what a multimeter measures. The values are
// the standard SCPI CONFigure/MEASure function mnemonics.
type MeasurementMode string

const (
	ModeCapacitance      MeasurementMode = "CAP"
	ModeContinuity       MeasurementMode = "CONT"
	ModeCurrentAC        MeasurementMode = "CURR:AC"
	ModeCurrentDC        MeasurementMode = "CURR:DC"
	ModeDiode            MeasurementMode = "DIOD"
	ModeFrequency        MeasurementMode = "FREQ"
	ModeFourPtResistance MeasurementMode = "FRES"
	ModePeriod           MeasurementMode = "PER"
	ModeResistance       MeasurementMode = "RES"
	ModeTemperature      MeasurementMode = "TEMP"
	ModeVoltageAC        MeasurementMode = "VOLT:AC"
	ModeVoltageDC        MeasurementMode = "VOLT:DC"
)

// MeasurementModes lists every mode accepted by SetMode and Measure.
var MeasurementModes = []MeasurementMode{
	ModeCapacitance, ModeContinuity, ModeCurrentAC, ModeCurrentDC,
	ModeDiode, ModeFrequency, ModeFourPtResistance, ModePeriod,
	ModeResistance, ModeTemperature, ModeVoltageAC, ModeVoltageDC,
}

// modeUnits gives the unit attached to readings in each mode.
var modeUnits = map[MeasurementMode]units.Unit{
	ModeCapacitance:      units.Farad,
	ModeContinuity:       units.Ohm,
	ModeCurrentAC:        units.Ampere,
	ModeCurrentDC:        units.Ampere,
	ModeDiode:            units.Volt,
	ModeFrequency:        units.Hertz,
	ModeFourPtResistance: units.Ohm,
	ModePeriod:           units.Second,
	ModeResistance:       units.Ohm,
	ModeTemperature:      units.Celsius,
	ModeVoltageAC:        units.Volt,
	ModeVoltageDC:        units.Volt,
}

// TriggerSource selects what initiates a multimeter reading.
type TriggerSource string

const (
	TriggerImmediate TriggerSource = "IMM"
	TriggerExternal  TriggerSource = "EXT"
	TriggerBus       TriggerSource = "BUS"
)

var triggerSource = param.Enum[TriggerSource]{
	Key:    "TRIG:SOUR",
	Values: []TriggerSource{TriggerImmediate, TriggerExternal, TriggerBus},
}

// Multimeter drives any multimeter that follows the standard SCPI
// measurement vocabulary (CONFigure, MEASure, TRIGger, SAMPle).
type Multimeter struct {
	*Instrument
}

// NewMultimeter returns a generic SCPI multimeter on the given
// connection.
func NewMultimeter(conn *instrument.Connection) *Multimeter {
	return &Multimeter{Instrument: New(conn)}
}

// Mode returns the measurement function the instrument is configured
// for.
func (m *Multimeter) Mode() (MeasurementMode, error) {
	raw, err := m.Query("CONF?")
	if err != nil {
		return "", err
	}
	return parseConfMode(raw)
}

// parseConfMode extracts the function mnemonic from a CONF? response,
// which looks like `"VOLT +1.000000E+01,+3.000000E-06"` including the
// quotes on most meters.
func parseConfMode(raw string) (MeasurementMode, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if i := strings.IndexAny(s, " ,"); i >= 0 {
		s = s[:i]
	}
	mode := MeasurementMode(strings.ToUpper(s))
	// Meters report plain VOLT/CURR for the DC functions.
	switch mode {
	case "VOLT":
		mode = ModeVoltageDC
	case "CURR":
		mode = ModeCurrentDC
	}
	for _, known := range MeasurementModes {
		if mode == known {
			return mode, nil
		}
	}
	return "", &instrument.ParseError{
		Cmd: "CONF?", Raw: raw,
		Err: fmt.Errorf("unknown measurement function %q", s),
	}
}

// SetMode configures the measurement function.
func (m *Multimeter) SetMode(mode MeasurementMode) error {
	for _, known := range MeasurementModes {
		if mode == known {
			return m.Command("CONF:%s", string(mode))
		}
	}
	return &instrument.RangeError{
		Key: "CONF", Value: string(mode),
		Msg: fmt.Sprintf("must be one of %v", MeasurementModes),
	}
}

// Measure performs a single measurement in the given mode and returns
// the reading with that mode's units attached. An empty mode measures
// with the currently configured function.
func (m *Multimeter) Measure(mode MeasurementMode) (units.Quantity, error) {
	if mode == "" {
		var err error
		if mode, err = m.Mode(); err != nil {
			return units.Quantity{}, err
		}
	}
	unit, ok := modeUnits[mode]
	if !ok {
		return units.Quantity{}, &instrument.RangeError{
			Key: "MEAS", Value: string(mode),
			Msg: fmt.Sprintf("must be one of %v", MeasurementModes),
		}
	}
	v, err := query.Float64f(m, "MEAS:%s?", string(mode))
	if err != nil {
		return units.Quantity{}, err
	}
	return units.New(v, unit), nil
}

// InputRange returns the configured measurement range for the current
// mode, in that mode's units.
func (m *Multimeter) InputRange() (units.Quantity, error) {
	raw, err := m.Query("CONF?")
	if err != nil {
		return units.Quantity{}, err
	}
	mode, err := parseConfMode(raw)
	if err != nil {
		return units.Quantity{}, err
	}
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return units.Quantity{}, &instrument.ParseError{
			Cmd: "CONF?", Raw: raw,
			Err: fmt.Errorf("response carries no range field"),
		}
	}
	s = s[i+1:]
	if j := strings.IndexByte(s, ','); j >= 0 {
		s = s[:j]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return units.Quantity{}, &instrument.ParseError{Cmd: "CONF?", Raw: raw, Err: err}
	}
	return units.New(v, modeUnits[mode]), nil
}

// SetInputRange configures the measurement range for the current mode.
// The value may be a bare number or quantity in the mode's units, or
// one of the symbolic ranges "AUTO", "MIN", "MAX", "DEF".
func (m *Multimeter) SetInputRange(v any) error {
	mode, err := m.Mode()
	if err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		switch strings.ToUpper(s) {
		case "AUTO", "MIN", "MAX", "DEF":
			return m.Command("CONF:%s %s", string(mode), strings.ToUpper(s))
		}
		return &instrument.RangeError{
			Key: "CONF:" + string(mode), Value: s,
			Msg: "symbolic range must be AUTO, MIN, MAX, or DEF",
		}
	}
	q, err := units.Assume(v, modeUnits[mode])
	if err != nil {
		return fmt.Errorf("CONF:%s: %w", string(mode), err)
	}
	return m.Command("CONF:%s %G", string(mode), q.Value)
}

// Resolution returns the measurement resolution for the current mode,
// in that mode's units.
func (m *Multimeter) Resolution() (units.Quantity, error) {
	mode, err := m.Mode()
	if err != nil {
		return units.Quantity{}, err
	}
	v, err := query.Float64f(m, "%s:RES?", string(mode))
	if err != nil {
		return units.Quantity{}, err
	}
	return units.New(v, modeUnits[mode]), nil
}

// SetResolution configures the measurement resolution for the current
// mode. The value may be a bare number or quantity in the mode's
// units, or one of the symbolic values "MIN", "MAX", "DEF".
func (m *Multimeter) SetResolution(v any) error {
	mode, err := m.Mode()
	if err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		switch strings.ToUpper(s) {
		case "MIN", "MAX", "DEF":
			return m.Command("%s:RES %s", string(mode), strings.ToUpper(s))
		}
		return &instrument.RangeError{
			Key: string(mode) + ":RES", Value: s,
			Msg: "symbolic resolution must be MIN, MAX, or DEF",
		}
	}
	q, err := units.Assume(v, modeUnits[mode])
	if err != nil {
		return fmt.Errorf("%s:RES: %w", string(mode), err)
	}
	return m.Command("%s:RES %G", string(mode), q.Value)
}

// TriggerSource returns what initiates a reading.
func (m *Multimeter) TriggerSource() (TriggerSource, error) {
	return triggerSource.Get(m)
}

// SetTriggerSource configures what initiates a reading.
func (m *Multimeter) SetTriggerSource(src TriggerSource) error {
	return triggerSource.Set(m, src)
}

// SampleCount returns the number of readings taken per trigger.
func (m *Multimeter) SampleCount() (int, error) {
	return query.Int(m, "SAMP:COUN?")
}

// SetSampleCount configures the number of readings taken per trigger.
func (m *Multimeter) SetSampleCount(n int) error {
	if n < 1 {
		return &instrument.RangeError{Key: "SAMP:COUN", Value: n, Msg: "must be at least 1"}
	}
	return m.Command("SAMP:COUN %d", n)
}
