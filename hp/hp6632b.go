// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package hp provides drivers for Hewlett-Packard / Agilent
// instruments.
package hp

import (
	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/param"
	"github.com/labtoolkit/instrument/scpi"
	"github.com/labtoolkit/instrument/units"
)

// HP6632B drives the HP/Agilent 6632B system DC power supply, a single
// output rated 20 V / 5 A.
type HP6632B struct {
	*scpi.Instrument
}

// Device-specific codes the 663x series reports on top of the SCPI
// standard table.
var errorCodes = map[scpi.ErrorCode]string{
	1:   "non-volatile RAM RD0 section checksum failed",
	2:   "non-volatile RAM CONFIG section checksum failed",
	4:   "non-volatile RAM CAL section checksum failed",
	5:   "non-volatile RAM STATE section checksum failed",
	10:  "RAM selftest failed",
	80:  "digital I/O selftest failed",
	601: "too many sweep points",
	602: "command only applies to RS-232 interface",
	603: "fetch of CURR or VOLT incompatible with last acquisition",
	604: "measurement overrange",
}

// New returns an HP6632B driver on the given connection.
func New(conn *instrument.Connection) *HP6632B {
	in := scpi.New(conn)
	in.RegisterErrorCodes(errorCodes)
	return &HP6632B{Instrument: in}
}

var (
	voltMin = units.Quantity{Value: 0, Unit: units.Volt}
	voltMax = units.Quantity{Value: 20.475, Unit: units.Volt}
	currMin = units.Quantity{Value: -0.1238, Unit: units.Ampere}
	currMax = units.Quantity{Value: 5.1188, Unit: units.Ampere}

	voltage = param.Unitful{Key: "VOLT", Unit: units.Volt, Min: &voltMin, Max: &voltMax}
	current = param.Unitful{Key: "CURR", Unit: units.Ampere, Min: &currMin, Max: &currMax}
	output  = param.Bool{Key: "OUTP", True: "1", False: "0"}
	ocp     = param.Bool{Key: "CURR:PROT:STAT", True: "1", False: "0"}
)

// Voltage returns the programmed output voltage.
func (hp *HP6632B) Voltage() (units.Quantity, error) {
	return voltage.Get(hp)
}

// SetVoltage programs the output voltage. Accepts a units.Quantity in
// any voltage unit, or a bare number interpreted as volts. Values
// outside the supply's programmable range are rejected locally.
func (hp *HP6632B) SetVoltage(v any) error {
	return voltage.Set(hp, v)
}

// Current returns the programmed current limit.
func (hp *HP6632B) Current() (units.Quantity, error) {
	return current.Get(hp)
}

// SetCurrent programs the current limit. Accepts a units.Quantity in
// any current unit, or a bare number interpreted as amperes.
func (hp *HP6632B) SetCurrent(v any) error {
	return current.Set(hp, v)
}

// MeasuredVoltage returns the voltage measured at the output
// terminals.
func (hp *HP6632B) MeasuredVoltage() (units.Quantity, error) {
	v, err := query.Float64(hp, "MEAS:VOLT?")
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v, Unit: units.Volt}, nil
}

// MeasuredCurrent returns the current measured at the output
// terminals.
func (hp *HP6632B) MeasuredCurrent() (units.Quantity, error) {
	v, err := query.Float64(hp, "MEAS:CURR?")
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v, Unit: units.Ampere}, nil
}

// OutputEnabled reports whether the output is on.
func (hp *HP6632B) OutputEnabled() (bool, error) {
	return output.Get(hp)
}

// SetOutputEnabled turns the output on or off.
func (hp *HP6632B) SetOutputEnabled(on bool) error {
	return output.Set(hp, on)
}

// OvercurrentProtection reports whether overcurrent protection is
// enabled. When tripped, the output latches off until ClearProtection.
func (hp *HP6632B) OvercurrentProtection() (bool, error) {
	return ocp.Get(hp)
}

// SetOvercurrentProtection enables or disables overcurrent protection.
func (hp *HP6632B) SetOvercurrentProtection(on bool) error {
	return ocp.Set(hp, on)
}

// ClearProtection resets a tripped protection latch and re-enables the
// output.
func (hp *HP6632B) ClearProtection() error {
	return hp.Command("OUTP:PROT:CLE")
}
