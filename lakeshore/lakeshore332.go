// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package lakeshore provides drivers for Lake Shore cryogenic
// temperature controllers.
package lakeshore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/scpi"
	"github.com/labtoolkit/instrument/units"
	"go.bug.st/serial"
)

// LS332 drives the Lake Shore model 332 cryogenic temperature
// controller. It carries two sensor inputs, addressed natively as "A"
// and "B", and two control loops addressed as 1 and 2.
type LS332 struct {
	*scpi.Instrument
}

// New returns an LS332 driver on the given connection.
func New(conn *instrument.Connection) *LS332 {
	return &LS332{Instrument: scpi.New(conn)}
}

// OpenSerial opens the controller's RS-232 port with the fixed framing
// the 332 requires: seven data bits, odd parity, one stop bit. Only
// the baud rate varies (300, 1200, or 9600).
func OpenSerial(port string, baud int) (serial.Port, error) {
	return instrument.OpenSerial(port, baud,
		instrument.WithDataBits(7),
		instrument.WithParity(serial.OddParity),
		instrument.WithStopBits(serial.OneStopBit),
		instrument.WithReadTimeout(time.Second),
	)
}

// Sensor is one temperature input.
type Sensor struct {
	ls   *LS332
	name string
}

// Name returns the native input name, "A" or "B".
func (s *Sensor) Name() string { return s.name }

// Sensor returns the input with the given name. Valid names are "A"
// and "B"; lowercase is accepted.
func (ls *LS332) Sensor(name string) (*Sensor, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n != "A" && n != "B" {
		return nil, &instrument.RangeError{
			Key: "sensor", Value: name,
			Msg: `must be "A" or "B"`,
		}
	}
	return &Sensor{ls: ls, name: n}, nil
}

// Temperature returns the input reading in kelvin.
func (s *Sensor) Temperature() (units.Quantity, error) {
	v, err := query.Float64f(s.ls, "KRDG? %s", s.name)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v, Unit: units.Kelvin}, nil
}

// TemperatureCelsius returns the input reading in degrees Celsius
// using the instrument's own conversion.
func (s *Sensor) TemperatureCelsius() (units.Quantity, error) {
	v, err := query.Float64f(s.ls, "CRDG? %s", s.name)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v, Unit: units.Celsius}, nil
}

// HeaterStatus is the heater output error condition.
type HeaterStatus int

const (
	HeaterOK HeaterStatus = iota
	HeaterOpenLoad
	HeaterShort
)

func (h HeaterStatus) String() string {
	switch h {
	case HeaterOK:
		return "ok"
	case HeaterOpenLoad:
		return "open load"
	case HeaterShort:
		return "short"
	}
	return fmt.Sprintf("HeaterStatus(%d)", int(h))
}

// HeaterOutput returns the heater output as a fraction of full scale
// in [0, 1].
func (ls *LS332) HeaterOutput() (float64, error) {
	pct, err := query.Float64(ls, "HTR?")
	if err != nil {
		return 0, err
	}
	return pct / 100, nil
}

// HeaterStatus returns the heater error condition.
func (ls *LS332) HeaterStatus() (HeaterStatus, error) {
	raw, err := ls.Query("HTRST?")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &instrument.ParseError{Cmd: "HTRST?", Raw: raw, Err: err}
	}
	if n < 0 || n > 2 {
		return 0, &instrument.ParseError{
			Cmd: "HTRST?", Raw: raw,
			Err: fmt.Errorf("status %d out of range", n),
		}
	}
	return HeaterStatus(n), nil
}

// Loop is one control loop, addressed natively as 1 or 2.
type Loop struct {
	ls  *LS332
	idx int
}

// Loop returns the control loop with the given zero-based index.
func (ls *LS332) Loop(idx int) (*Loop, error) {
	if idx < 0 || idx > 1 {
		return nil, &instrument.RangeError{
			Key: "loop", Value: idx,
			Msg: "must be 0 or 1",
		}
	}
	return &Loop{ls: ls, idx: idx + 1}, nil
}

// Setpoint returns the loop control setpoint in the loop's configured
// units, reported here as kelvin.
func (l *Loop) Setpoint() (units.Quantity, error) {
	v, err := query.Float64f(l.ls, "SETP? %d", l.idx)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v, Unit: units.Kelvin}, nil
}

// SetSetpoint sets the loop control setpoint. Accepts a temperature
// units.Quantity or a bare number interpreted as kelvin.
func (l *Loop) SetSetpoint(v any) error {
	q, err := units.Assume(v, units.Kelvin)
	if err != nil {
		return err
	}
	k, err := q.To(units.Kelvin)
	if err != nil {
		return err
	}
	return l.ls.Command("SETP %d,%G", l.idx, k.Value)
}

// PID holds the loop control parameters: proportional gain,
// integral reset in repeats per minute, and derivative rate.
type PID struct {
	P, I, D float64
}

// PID returns the loop's control parameters.
func (l *Loop) PID() (PID, error) {
	raw, err := l.ls.Query(fmt.Sprintf("PID? %d", l.idx))
	if err != nil {
		return PID{}, err
	}
	fields := strings.Split(raw, ",")
	if len(fields) != 3 {
		return PID{}, &instrument.ParseError{
			Cmd: "PID?", Raw: raw,
			Err: fmt.Errorf("expected 3 fields, got %d", len(fields)),
		}
	}
	var out [3]float64
	for i, f := range fields {
		out[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return PID{}, &instrument.ParseError{Cmd: "PID?", Raw: raw, Err: err}
		}
	}
	return PID{P: out[0], I: out[1], D: out[2]}, nil
}

// SetPID sets the loop's control parameters.
func (l *Loop) SetPID(p PID) error {
	return l.ls.Command("PID %d,%G,%G,%G", l.idx, p.P, p.I, p.D)
}
