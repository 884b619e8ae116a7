// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"strconv"
	"strings"

	"github.com/labtoolkit/instrument"
	"go.uber.org/multierr"
)

// ErrorCode is an error code as defined by SCPI 1999.0. Codes that are
// 0 mod 100 are generic; positive codes are device-specific.
type ErrorCode int

// NoError is the code reported by an empty error queue.
const NoError ErrorCode = 0

// SCPI 1999.0 command error block (-100s) plus the execution, device
// and query blocks used by the drivers in this module.
const (
	CommandError                 ErrorCode = -100
	InvalidCharacter             ErrorCode = -101
	SyntaxError                  ErrorCode = -102
	InvalidSeparator             ErrorCode = -103
	DataTypeError                ErrorCode = -104
	ParameterNotAllowed          ErrorCode = -108
	MissingParameter             ErrorCode = -109
	CommandHeaderError           ErrorCode = -110
	UndefinedHeader              ErrorCode = -113
	UnexpectedNumberOfParameters ErrorCode = -115
	NumericDataError             ErrorCode = -120
	SuffixError                  ErrorCode = -130
	InvalidSuffix                ErrorCode = -131
	InvalidStringData            ErrorCode = -151

	ExecutionError   ErrorCode = -200
	ParameterError   ErrorCode = -220
	SettingsConflict ErrorCode = -221
	DataOutOfRange   ErrorCode = -222
	HardwareError    ErrorCode = -240
	HardwareMissing  ErrorCode = -241

	SystemError    ErrorCode = -310
	MemoryError    ErrorCode = -311
	SelfTestFailed ErrorCode = -330
	QueueOverflow  ErrorCode = -350

	QueryError       ErrorCode = -400
	QueryInterrupted ErrorCode = -410

	PowerOn ErrorCode = -500
)

var errorCodeText = map[ErrorCode]string{
	CommandError:                 "command error",
	InvalidCharacter:             "invalid character",
	SyntaxError:                  "syntax error",
	InvalidSeparator:             "invalid separator",
	DataTypeError:                "data type error",
	ParameterNotAllowed:          "parameter not allowed",
	MissingParameter:             "missing parameter",
	CommandHeaderError:           "command header error",
	UndefinedHeader:              "undefined header",
	UnexpectedNumberOfParameters: "unexpected number of parameters",
	NumericDataError:             "numeric data error",
	SuffixError:                  "suffix error",
	InvalidSuffix:                "invalid suffix",
	InvalidStringData:            "invalid string data",
	ExecutionError:               "execution error",
	ParameterError:               "parameter error",
	SettingsConflict:             "settings conflict",
	DataOutOfRange:               "data out of range",
	HardwareError:                "hardware error",
	HardwareMissing:              "hardware missing",
	SystemError:                  "system error",
	MemoryError:                  "memory error",
	SelfTestFailed:               "self-test failed",
	QueueOverflow:                "queue overflow",
	QueryError:                   "query error",
	QueryInterrupted:             "query interrupted",
	PowerOn:                      "power on",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeText[c]; ok {
		return s
	}
	return "error " + strconv.Itoa(int(c))
}

// CheckErrorQueue drains the instrument error queue, returning one
// InstrumentError per reported non-zero code. An empty queue returns a
// nil slice.
func (in *Instrument) CheckErrorQueue() ([]*instrument.InstrumentError, error) {
	// Bypass the wrapped Query so an enabled error check cannot
	// recurse into itself.
	raw, err := in.conn.Query("SYST:ERR:CODE:ALL?")
	if err != nil {
		return nil, err
	}
	var errs []*instrument.InstrumentError
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, &instrument.ParseError{Cmd: "SYST:ERR:CODE:ALL?", Raw: raw, Err: err}
		}
		code := ErrorCode(n)
		if code == NoError {
			continue
		}
		errs = append(errs, &instrument.InstrumentError{Code: n, Msg: in.describe(code)})
	}
	return errs, nil
}

func (in *Instrument) describe(code ErrorCode) string {
	if msg, ok := in.extraCodes[code]; ok {
		return msg
	}
	if msg, ok := errorCodeText[code]; ok {
		return msg
	}
	return ""
}

// errorQueueAsError folds any queued instrument errors into a single
// error value for the auto-check path.
func (in *Instrument) errorQueueAsError() error {
	errs, err := in.CheckErrorQueue()
	if err != nil {
		return err
	}
	var combined error
	for _, e := range errs {
		combined = multierr.Append(combined, e)
	}
	return combined
}
