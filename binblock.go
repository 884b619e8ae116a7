// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package instrument

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// ReadBinaryBlock reads an IEEE 488.2 definite-length block from the
// instrument. The framing is:
//
//	#<n><count><payload>
//
// where <n> is a single ASCII digit giving the number of digits in
// <count>, and <count> is the payload byte count. The trailing line
// terminator, if any, is left in the read buffer for the caller.
func (c *Connection) ReadBinaryBlock() ([]byte, error) {
	start, err := c.br.ReadByte()
	if err != nil {
		return nil, err
	}
	if start != '#' {
		return nil, fmt.Errorf("invalid binary block: want leading '#', got %q", start)
	}
	d, err := c.br.ReadByte()
	if err != nil {
		return nil, err
	}
	if d < '1' || d > '9' {
		return nil, fmt.Errorf("invalid binary block: bad digit count %q", d)
	}
	digits := make([]byte, d-'0')
	if _, err := io.ReadFull(c.br, digits); err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(string(digits))
	if err != nil {
		return nil, fmt.Errorf("invalid binary block length %q: %w", digits, err)
	}
	payload := make([]byte, count)
	if _, err := io.ReadFull(c.br, payload); err != nil {
		return nil, fmt.Errorf("short binary block: want %d bytes: %w", count, err)
	}
	return payload, nil
}

// DecodeSamples decodes a binary block payload as fixed-width integers
// of the given byte width (1 or 2) and byte order. The payload length
// must be a multiple of the width.
func DecodeSamples(data []byte, width int, signed bool, order binary.ByteOrder) ([]int, error) {
	if width != 1 && width != 2 {
		return nil, fmt.Errorf("unsupported sample width %d", width)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("payload length %d is not a multiple of width %d", len(data), width)
	}
	samples := make([]int, len(data)/width)
	for i := range samples {
		switch {
		case width == 1 && signed:
			samples[i] = int(int8(data[i]))
		case width == 1:
			samples[i] = int(data[i])
		case signed:
			samples[i] = int(int16(order.Uint16(data[2*i:])))
		default:
			samples[i] = int(order.Uint16(data[2*i:]))
		}
	}
	return samples, nil
}
