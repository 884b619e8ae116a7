// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package scpi implements the command surface shared by SCPI-1999
// compliant instruments: the IEEE 488.2 common commands, the system
// error queue, and generic multimeter and function generator drivers
// for instruments that follow the standard vocabulary.
package scpi

import (
	"fmt"
	"strings"

	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/param"
)

// Instrument is the base for all SCPI-compliant drivers. It wraps a
// Connection and optionally checks the instrument's error queue after
// every command, surfacing device-reported errors that would otherwise
// go unnoticed until the next front-panel visit.
type Instrument struct {
	conn       *instrument.Connection
	checkAfter bool
	extraCodes map[ErrorCode]string
}

// New returns an Instrument speaking SCPI over the given connection.
func New(conn *instrument.Connection) *Instrument {
	return &Instrument{conn: conn}
}

// Connection exposes the underlying connection, e.g. for binary block
// reads that bypass the line protocol.
func (in *Instrument) Connection() *instrument.Connection { return in.conn }

// SetErrorCheck enables or disables draining the error queue after
// every command and query. Checking costs one extra round trip per
// operation.
func (in *Instrument) SetErrorCheck(on bool) { in.checkAfter = on }

// RegisterErrorCodes adds device-specific codes on top of the SCPI 1999
// table, used when rendering instrument-reported errors.
func (in *Instrument) RegisterErrorCodes(codes map[ErrorCode]string) {
	if in.extraCodes == nil {
		in.extraCodes = make(map[ErrorCode]string, len(codes))
	}
	for code, msg := range codes {
		in.extraCodes[code] = msg
	}
}

// Command sends one command and, if error checking is enabled, verifies
// the instrument accepted it.
func (in *Instrument) Command(format string, a ...any) error {
	if err := in.conn.Command(format, a...); err != nil {
		return err
	}
	return in.maybeCheck()
}

// Query performs one query round trip and, if error checking is
// enabled, verifies the instrument accepted it. Query satisfies
// query.Querier.
func (in *Instrument) Query(cmd string) (string, error) {
	s, err := in.conn.Query(cmd)
	if err != nil {
		return s, err
	}
	return s, in.maybeCheck()
}

func (in *Instrument) maybeCheck() error {
	if !in.checkAfter {
		return nil
	}
	return in.errorQueueAsError()
}

// Identify returns the instrument identification string from *IDN?.
func (in *Instrument) Identify() (string, error) {
	return query.String(in, "*IDN?")
}

// Reset restores the instrument to its power-on defaults.
func (in *Instrument) Reset() error { return in.Command("*RST") }

// Clear clears the status byte and the error queue.
func (in *Instrument) Clear() error { return in.Command("*CLS") }

// Trigger sends a bus trigger.
func (in *Instrument) Trigger() error { return in.Command("*TRG") }

// WaitToContinue instructs the instrument to finish all pending
// operations before executing further commands.
func (in *Instrument) WaitToContinue() error { return in.Command("*WAI") }

// OperationComplete reports whether all pending operations have
// finished.
func (in *Instrument) OperationComplete() (bool, error) {
	return query.Bool(in, "*OPC?")
}

// SelfTestOK runs the instrument self test and reports whether it
// passed.
func (in *Instrument) SelfTestOK() (bool, error) {
	n, err := query.Int(in, "*TST?")
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// SCPIVersion returns the SCPI standard version the instrument
// implements, e.g. "1999.0".
func (in *Instrument) SCPIVersion() (string, error) {
	return query.String(in, "SYST:VERS?")
}

// LineFrequency returns the AC line frequency setting in Hz.
func (in *Instrument) LineFrequency() (float64, error) {
	return query.Float64(in, "SYST:LFR?")
}

// SetLineFrequency configures the AC line frequency in Hz, usually 50
// or 60.
func (in *Instrument) SetLineFrequency(hz float64) error {
	return in.Command("SYST:LFR %G", hz)
}

var (
	zero = 0.0
	one  = 1.0

	displayBrightness = param.Float{Key: "DISP:BRIG", Min: &zero, Max: &one}
	displayContrast   = param.Float{Key: "DISP:CONT", Min: &zero, Max: &one}
)

// DisplayBrightness returns the front-panel brightness, 0 (dark) to 1.
func (in *Instrument) DisplayBrightness() (float64, error) {
	return displayBrightness.Get(in)
}

// SetDisplayBrightness sets the front-panel brightness; values outside
// [0, 1] are rejected locally.
func (in *Instrument) SetDisplayBrightness(v float64) error {
	return displayBrightness.Set(in, v)
}

// DisplayContrast returns the front-panel contrast, 0 to 1.
func (in *Instrument) DisplayContrast() (float64, error) {
	return displayContrast.Get(in)
}

// SetDisplayContrast sets the front-panel contrast; values outside
// [0, 1] are rejected locally.
func (in *Instrument) SetDisplayContrast(v float64) error {
	return displayContrast.Set(in, v)
}

// DisplayText writes a message to the instrument display.
func (in *Instrument) DisplayText(msg string) error {
	return in.Command(`DISP:TEXT %q`, strings.ToUpper(msg))
}

var _ param.Client = (*Instrument)(nil)
var _ fmt.Stringer = ErrorCode(0)
