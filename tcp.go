// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package instrument

import (
	"net"
	"time"
)

// OpenTCP dials the instrument at addr ("host:port"). Many bench
// instruments expose a raw SCPI socket, commonly on port 5025 or 5555.
// The dial timeout also becomes the per-read deadline refresh interval:
// a zero timeout disables both.
func OpenTCP(addr string, timeout time.Duration) (net.Conn, error) {
	if timeout == 0 {
		return net.Dial("tcp", addr)
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &deadlineConn{Conn: conn, timeout: timeout}, nil
}

// deadlineConn refreshes the read deadline before every read so a dead
// instrument surfaces as a transport timeout instead of a hung caller.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
