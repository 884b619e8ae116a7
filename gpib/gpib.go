// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package gpib drives Prologix-style GPIB-USB adapters. The adapter
// multiplexes one serial link between its own configuration protocol
// (lines starting with "++") and the instrument traffic, so an Adapter
// is an io.ReadWriter that an instrument.Connection can sit on
// directly.
package gpib

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// Adapter is a GPIB controller-in-charge talking to one instrument
// address. It is configured for read-after-write, so instrument
// queries are a plain write-then-read with no interleaved controller
// commands.
type Adapter struct {
	rw            io.ReadWriter
	br            *bufio.Reader
	addr          int
	secondaryAddr int // 0 when unset
	term          byte
	debug         bool
	ar488         bool // Arduino AR488 compatibility, see WithAR488
}

// Option applies an option to the adapter.
type Option func(*Adapter)

// WithSecondaryAddress addresses an instrument behind a secondary GPIB
// address, which must be in the range 96 to 126 inclusive.
func WithSecondaryAddress(addr int) Option {
	return func(a *Adapter) { a.secondaryAddr = addr }
}

// WithDebug causes controller commands to be logged.
func WithDebug() Option { return func(a *Adapter) { a.debug = true } }

// WithAR488 alters the init commands for compatibility with the
// Arduino-based AR488 firmware, which chokes on 'verbose' and
// 'savecfg'.
func WithAR488() Option { return func(a *Adapter) { a.ar488 = true } }

// New configures the adapter on the given serial link as a controller
// addressing the instrument at addr. Enable clear to send the Selected
// Device Clear message during setup.
func New(rw io.ReadWriter, addr int, clear bool, opts ...Option) (*Adapter, error) {
	a := Adapter{
		rw:   rw,
		addr: addr,
		term: '\n',
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.br = bufio.NewReader(rw)

	if a.addr < 0 || a.addr > 30 {
		return nil, fmt.Errorf("invalid primary address %d (must be 0-30)", a.addr)
	}
	addrCmd := fmt.Sprintf("addr %d", a.addr)
	if a.secondaryAddr != 0 {
		if a.secondaryAddr < 96 || a.secondaryAddr > 126 {
			return nil, fmt.Errorf("invalid secondary address %d (must be 96-126)", a.secondaryAddr)
		}
		addrCmd = fmt.Sprintf("addr %d %d", a.addr, a.secondaryAddr)
	}

	cmds := []string{}
	if !a.ar488 {
		cmds = append(cmds,
			"verbose 0",
			"savecfg 0", // don't wear the adapter's EEPROM with our settings
		)
	}
	cmds = append(cmds,
		addrCmd,
		"mode 1", // controller-in-charge
		"auto 1", // read-after-write, so queries need no ++read
		"eoi 1",
		"eos 0",
		"read_tmo_ms 500",
		fmt.Sprintf("eot_char %d", a.term),
		"eot_enable 1",
	)
	if clear {
		cmds = append(cmds, "clr")
	}
	for _, cmd := range cmds {
		if err := a.CommandController(cmd); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// Write passes instrument data through to the GPIB bus.
func (a *Adapter) Write(p []byte) (n int, err error) {
	return a.rw.Write(p)
}

// Read reads instrument data from the GPIB bus.
func (a *Adapter) Read(p []byte) (n int, err error) {
	return a.br.Read(p)
}

// CommandController sends one command to the adapter itself rather
// than the instrument, by prepending the "++" escape.
func (a *Adapter) CommandController(cmd string) error {
	cmd = fmt.Sprintf("++%s%c", strings.ToLower(strings.TrimSpace(cmd)), a.term)
	if a.debug {
		log.Printf("gpib ctl %q", cmd)
	}
	_, err := a.rw.Write([]byte(cmd))
	return err
}

// QueryController sends one command to the adapter and returns its
// one-line response.
func (a *Adapter) QueryController(cmd string) (string, error) {
	if err := a.CommandController(cmd); err != nil {
		return "", err
	}
	s, err := a.br.ReadString(a.term)
	if err == io.EOF && s != "" {
		err = nil
	}
	if a.debug {
		log.Printf("gpib ctl response %q", s)
	}
	return strings.TrimSpace(s), err
}

// Version returns the adapter firmware version string.
func (a *Adapter) Version() (string, error) {
	return a.QueryController("ver")
}

// Address returns the GPIB address the adapter currently targets.
func (a *Adapter) Address() (string, error) {
	return a.QueryController("addr")
}

// SetAddress retargets the adapter at a different primary address.
func (a *Adapter) SetAddress(addr int) error {
	if addr < 0 || addr > 30 {
		return fmt.Errorf("invalid primary address %d (must be 0-30)", addr)
	}
	if err := a.CommandController(fmt.Sprintf("addr %d", addr)); err != nil {
		return err
	}
	a.addr = addr
	return nil
}

// ServiceRequest reports whether the SRQ line is asserted.
func (a *Adapter) ServiceRequest() (bool, error) {
	s, err := a.QueryController("srq")
	if err != nil {
		return false, err
	}
	return s == "1", nil
}

// ClearDevice sends the Selected Device Clear message to the addressed
// instrument.
func (a *Adapter) ClearDevice() error {
	return a.CommandController("clr")
}

// Local returns the instrument front panel to local control.
func (a *Adapter) Local() error {
	return a.CommandController("loc")
}
