// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package instrument

import (
	"time"

	"go.bug.st/serial"
)

// SerialOption adjusts the serial mode before the port is opened.
type SerialOption func(*serial.Mode, *time.Duration)

// WithDataBits sets the number of data bits per character.
func WithDataBits(n int) SerialOption {
	return func(m *serial.Mode, _ *time.Duration) { m.DataBits = n }
}

// WithParity sets the parity mode.
func WithParity(p serial.Parity) SerialOption {
	return func(m *serial.Mode, _ *time.Duration) { m.Parity = p }
}

// WithStopBits sets the number of stop bits.
func WithStopBits(s serial.StopBits) SerialOption {
	return func(m *serial.Mode, _ *time.Duration) { m.StopBits = s }
}

// WithReadTimeout sets the read timeout on the opened port. Without a
// timeout, reads block until the instrument responds.
func WithReadTimeout(d time.Duration) SerialOption {
	return func(_ *serial.Mode, t *time.Duration) { *t = d }
}

// OpenSerial opens the named serial port with 8N1 framing at the given
// baud rate unless overridden by options. The returned port is suitable
// as the transport for NewConnection.
func OpenSerial(port string, baud int, opts ...SerialOption) (serial.Port, error) {
	mode := serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	var timeout time.Duration
	for _, opt := range opts {
		opt(&mode, &timeout)
	}
	p, err := serial.Open(port, &mode)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		if err := p.SetReadTimeout(timeout); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}
