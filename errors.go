// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package instrument

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates a property or operation the connected
// instrument's firmware does not expose. It is distinct from a
// zero-value read.
var ErrUnsupported = errors.New("operation not supported by this instrument")

// RangeError reports a set value rejected by local validation. When a
// RangeError is returned, nothing was written to the instrument.
type RangeError struct {
	Key   string // command mnemonic the value was destined for
	Value any
	Msg   string // human-readable constraint, e.g. "must be in [0, 1]"
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Key, e.Msg)
}

// ParseError reports an instrument response that could not be decoded
// into the expected type. Parse errors are surfaced immediately and
// never retried, since re-sending commands to physical hardware without
// operator judgment is unsafe.
type ParseError struct {
	Cmd string // the query that produced the response
	Raw string // the raw response text
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse response %q to %q: %s", e.Raw, e.Cmd, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InstrumentError is an error reported by the instrument itself through
// its error queue.
type InstrumentError struct {
	Code int
	Msg  string
}

func (e *InstrumentError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("instrument reported error %d", e.Code)
	}
	return fmt.Sprintf("instrument reported error %d: %s", e.Code, e.Msg)
}
