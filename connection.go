// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package instrument provides the line-oriented command/query plumbing
// shared by all SCPI-style instrument drivers in this module. A
// Connection owns exactly one transport; interleaving commands from
// multiple goroutines is not supported, since the protocol carries no
// request IDs.
package instrument

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Connection models one exclusive, blocking connection to an
// instrument. Every query is a single round trip: write one command,
// read one terminated line.
type Connection struct {
	rw    io.ReadWriter
	br    *bufio.Reader
	term  byte
	delay time.Duration
	debug bool // if true, log commands and responses. Set via WithDebug().
}

// Option applies an option to the connection.
type Option func(*Connection)

// NewConnection wraps the given transport, which can be a serial port,
// a TCP connection, or a Loopback for testing. Optionally connection
// configuration can be included using an Option.
func NewConnection(rw io.ReadWriter, opts ...Option) *Connection {
	c := Connection{
		rw:   rw,
		term: '\n',
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.br = bufio.NewReader(rw)
	return &c
}

// WithTerminator sets the line terminator appended to commands and
// expected at the end of responses. The default is a newline.
func WithTerminator(term byte) Option {
	return func(c *Connection) { c.term = term }
}

// WithWriteDelay inserts a fixed pause before each write, for
// instruments that drop characters when commands arrive back to back.
func WithWriteDelay(d time.Duration) Option {
	return func(c *Connection) { c.delay = d }
}

// WithDebug causes commands and responses to be logged.
func WithDebug() Option {
	return func(c *Connection) { c.debug = true }
}

// Write writes the given raw bytes to the transport.
func (c *Connection) Write(p []byte) (n int, err error) {
	return c.rw.Write(p)
}

// Read reads raw bytes from the transport into the given byte slice.
func (c *Connection) Read(p []byte) (n int, err error) {
	return c.br.Read(p)
}

// Command formats according to a format specifier if provided and sends
// the resulting command to the instrument. All leading and trailing
// whitespace is removed before appending the terminator.
func (c *Connection) Command(format string, a ...any) error {
	cmd := format
	if a != nil {
		cmd = fmt.Sprintf(format, a...)
	}
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), c.term)
	if c.debug {
		log.Printf("cmd %q", cmd)
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	_, err := io.WriteString(c.rw, cmd)
	return err
}

// Query sends the given command to the instrument and reads one
// terminated line in response. The returned string has the terminator
// and surrounding whitespace stripped. Query satisfies query.Querier
// from github.com/gotmc/query, so the typed helpers in that package can
// be used directly on a Connection or anything embedding one.
func (c *Connection) Query(cmd string) (string, error) {
	if err := c.Command(cmd); err != nil {
		return "", fmt.Errorf("error writing query %q: %w", cmd, err)
	}
	s, err := c.ReadLine()
	if err != nil {
		return s, &ParseError{Cmd: cmd, Raw: s, Err: err}
	}
	if c.debug {
		log.Printf("query %q: %q", cmd, s)
	}
	return s, nil
}

// ReadLine reads up to the next terminator and returns the line with
// the terminator and surrounding whitespace removed. An EOF with data
// already read is treated as a complete line, since some adapters drop
// the final terminator.
func (c *Connection) ReadLine() (string, error) {
	s, err := c.br.ReadString(c.term)
	if err == io.EOF && s != "" {
		err = nil
	}
	return strings.TrimSpace(s), err
}

// Close closes the underlying transport if it supports closing.
func (c *Connection) Close() error {
	if cl, ok := c.rw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
