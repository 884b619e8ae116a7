// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package units provides a small physical-quantity type for instrument
// properties. A Quantity pairs a magnitude with a unit tag; conversion
// is only defined between units of the same dimension. Properties that
// accept a Quantity also accept bare numbers, which assume the
// property's default unit (see Assume).
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dimension identifies what a unit measures. Conversion across
// dimensions is an error.
type Dimension int

const (
	Dimensionless Dimension = iota
	Frequency
	Voltage
	Current
	Resistance
	Time
	Temperature
	Power
	Angle
	Capacitance
)

// Unit is a symbolic unit tag. Scale converts a magnitude in this unit
// to the dimension's base unit; Offset handles the affine temperature
// scales.
type Unit struct {
	Symbol string
	Dim    Dimension
	Scale  float64
	Offset float64
}

var (
	One = Unit{Symbol: "", Dim: Dimensionless, Scale: 1}

	Hertz     = Unit{Symbol: "Hz", Dim: Frequency, Scale: 1}
	Kilohertz = Unit{Symbol: "kHz", Dim: Frequency, Scale: 1e3}
	Megahertz = Unit{Symbol: "MHz", Dim: Frequency, Scale: 1e6}
	Gigahertz = Unit{Symbol: "GHz", Dim: Frequency, Scale: 1e9}

	Volt      = Unit{Symbol: "V", Dim: Voltage, Scale: 1}
	Millivolt = Unit{Symbol: "mV", Dim: Voltage, Scale: 1e-3}

	Ampere      = Unit{Symbol: "A", Dim: Current, Scale: 1}
	Milliampere = Unit{Symbol: "mA", Dim: Current, Scale: 1e-3}

	Ohm     = Unit{Symbol: "ohm", Dim: Resistance, Scale: 1}
	Kiloohm = Unit{Symbol: "kohm", Dim: Resistance, Scale: 1e3}

	Second      = Unit{Symbol: "s", Dim: Time, Scale: 1}
	Millisecond = Unit{Symbol: "ms", Dim: Time, Scale: 1e-3}
	Microsecond = Unit{Symbol: "us", Dim: Time, Scale: 1e-6}
	Nanosecond  = Unit{Symbol: "ns", Dim: Time, Scale: 1e-9}

	Kelvin     = Unit{Symbol: "K", Dim: Temperature, Scale: 1}
	Celsius    = Unit{Symbol: "degC", Dim: Temperature, Scale: 1, Offset: 273.15}
	Fahrenheit = Unit{Symbol: "degF", Dim: Temperature, Scale: 5.0 / 9.0, Offset: 459.67}

	Watt      = Unit{Symbol: "W", Dim: Power, Scale: 1}
	Milliwatt = Unit{Symbol: "mW", Dim: Power, Scale: 1e-3}

	Degree = Unit{Symbol: "deg", Dim: Angle, Scale: 1}

	Farad      = Unit{Symbol: "F", Dim: Capacitance, Scale: 1}
	Microfarad = Unit{Symbol: "uF", Dim: Capacitance, Scale: 1e-6}
)

// bySymbol is consulted when parsing instrument responses that carry a
// textual unit suffix.
var bySymbol = map[string]Unit{}

func init() {
	for _, u := range []Unit{
		Hertz, Kilohertz, Megahertz, Gigahertz,
		Volt, Millivolt,
		Ampere, Milliampere,
		Ohm, Kiloohm,
		Second, Millisecond, Microsecond, Nanosecond,
		Kelvin, Celsius, Fahrenheit,
		Watt, Milliwatt,
		Degree,
		Farad, Microfarad,
	} {
		bySymbol[strings.ToLower(u.Symbol)] = u
	}
}

// ConversionError is returned when converting between incompatible
// dimensions.
type ConversionError struct {
	From, To Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %q: incompatible dimensions",
		e.From.Symbol, e.To.Symbol)
}

// Quantity is a magnitude with a unit tag.
type Quantity struct {
	Value float64
	Unit  Unit
}

// New returns a Quantity with the given magnitude and unit.
func New(v float64, u Unit) Quantity {
	return Quantity{Value: v, Unit: u}
}

func (q Quantity) String() string {
	if q.Unit.Symbol == "" {
		return strconv.FormatFloat(q.Value, 'G', -1, 64)
	}
	return fmt.Sprintf("%G %s", q.Value, q.Unit.Symbol)
}

// To converts the quantity to the target unit. Conversion is a pure
// function of the two units; incompatible dimensions return a
// ConversionError.
func (q Quantity) To(u Unit) (Quantity, error) {
	if q.Unit.Dim != u.Dim {
		return Quantity{}, &ConversionError{From: q.Unit, To: u}
	}
	base := (q.Value + q.Unit.Offset) * q.Unit.Scale
	return Quantity{Value: base/u.Scale - u.Offset, Unit: u}, nil
}

// Assume coerces a value that may or may not carry a unit. Bare numbers
// (float64, float32, or any integer type) assume the default unit; a
// Quantity is converted to the default unit, failing if the dimensions
// are incompatible. Any other type is a TypeError for the caller.
func Assume(v any, def Unit) (Quantity, error) {
	switch x := v.(type) {
	case Quantity:
		return x.To(def)
	case float64:
		return Quantity{Value: x, Unit: def}, nil
	case float32:
		return Quantity{Value: float64(x), Unit: def}, nil
	case int:
		return Quantity{Value: float64(x), Unit: def}, nil
	case int64:
		return Quantity{Value: float64(x), Unit: def}, nil
	case uint:
		return Quantity{Value: float64(x), Unit: def}, nil
	default:
		return Quantity{}, fmt.Errorf("cannot interpret %T as a quantity", v)
	}
}

// Response strings look like "12", "-1.5e-3", or "14.7 GHz", with any
// amount of whitespace between magnitude and unit.
var quantityRe = regexp.MustCompile(`^([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\s*([a-zA-Z]+)?$`)

// Parse splits a magnitude-and-unit string. If no unit suffix is
// present, the default unit is assumed; a recognized suffix is
// converted to the default unit.
func Parse(s string, def Unit) (Quantity, error) {
	m := quantityRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Quantity{}, fmt.Errorf("could not split %q into value and units", s)
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, err
	}
	if m[2] == "" {
		return Quantity{Value: val, Unit: def}, nil
	}
	u, ok := bySymbol[strings.ToLower(m[2])]
	if !ok {
		return Quantity{}, fmt.Errorf("unknown unit %q in %q", m[2], s)
	}
	return Quantity{Value: val, Unit: u}.To(def)
}
