// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package instrument

import (
	"bytes"
	"io"
	"strings"
)

// Loopback is an in-memory transport for exercising drivers without
// hardware. Writes are recorded; reads are served from a queue of
// canned responses loaded with Reply and ReplyRaw. Once the queue is
// drained, reads return io.EOF.
type Loopback struct {
	writes []string
	buf    bytes.Buffer
}

// NewLoopback returns an empty loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Reply queues a newline-terminated response line.
func (l *Loopback) Reply(s string) {
	l.buf.WriteString(s)
	l.buf.WriteByte('\n')
}

// ReplyRaw queues raw response bytes, e.g. a binary block.
func (l *Loopback) ReplyRaw(p []byte) {
	l.buf.Write(p)
}

// Write records the command with trailing terminators removed.
func (l *Loopback) Write(p []byte) (int, error) {
	l.writes = append(l.writes, strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

// Read serves queued response bytes.
func (l *Loopback) Read(p []byte) (int, error) {
	if l.buf.Len() == 0 {
		return 0, io.EOF
	}
	return l.buf.Read(p)
}

// Writes returns every command written so far, in order.
func (l *Loopback) Writes() []string {
	return l.writes
}

// LastWrite returns the most recent command, or "" if none was sent.
func (l *Loopback) LastWrite() string {
	if len(l.writes) == 0 {
		return ""
	}
	return l.writes[len(l.writes)-1]
}
