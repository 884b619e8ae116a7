// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package tektronix provides drivers for Tektronix oscilloscopes.
package tektronix

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/oscilloscope"
	"github.com/labtoolkit/instrument/param"
	"github.com/labtoolkit/instrument/scpi"
	"go.uber.org/multierr"
)

const (
	numChannels = 4
	numRefs     = 4

	// The DPO4104 shares one "current data source" register across all
	// waveform commands and needs a moment to latch a new selection.
	// Firmware 2.48 additionally drops the first query after an
	// encoding change. These settling delays are a documented
	// workaround, not a correctness guarantee.
	sourceSettle   = 10 * time.Millisecond
	encodingSettle = 20 * time.Millisecond
)

// DPO4104 drives the Tektronix DPO4104, a four-channel oscilloscope
// with analog bandwidths from 100 MHz to 1 GHz.
type DPO4104 struct {
	*scpi.Instrument
}

// New returns a DPO4104 driver on the given connection.
func New(conn *instrument.Connection) *DPO4104 {
	return &DPO4104{Instrument: scpi.New(conn)}
}

// Coupling is a channel input coupling mode.
type Coupling string

const (
	CouplingAC     Coupling = "AC"
	CouplingDC     Coupling = "DC"
	CouplingGround Coupling = "GND"
)

// DataSource is one selectable waveform source: a channel, a reference
// memory, or the math channel. It borrows the parent driver's
// connection and holds only its native source name, so two sources with
// the same name are interchangeable.
type DataSource struct {
	tek  *DPO4104
	name string
}

// Name returns the native source name used in commands, e.g. "CH1" or
// "REF2".
func (d *DataSource) Name() string { return d.name }

// Channel returns the analog channel with the given zero-based index.
// The DPO4104 addresses channels 1-4 natively.
func (tek *DPO4104) Channel(idx int) (*Channel, error) {
	if idx < 0 || idx >= numChannels {
		return nil, &instrument.RangeError{
			Key: "channel", Value: idx,
			Msg: fmt.Sprintf("must be in [0, %d]", numChannels-1),
		}
	}
	return &Channel{
		DataSource: DataSource{tek: tek, name: fmt.Sprintf("CH%d", idx+1)},
		idx:        idx + 1,
	}, nil
}

// Ref returns the reference memory with the given zero-based index.
func (tek *DPO4104) Ref(idx int) (*DataSource, error) {
	if idx < 0 || idx >= numRefs {
		return nil, &instrument.RangeError{
			Key: "ref", Value: idx,
			Msg: fmt.Sprintf("must be in [0, %d]", numRefs-1),
		}
	}
	return &DataSource{tek: tek, name: fmt.Sprintf("REF%d", idx+1)}, nil
}

// Math returns the math channel data source.
func (tek *DPO4104) Math() *DataSource {
	return &DataSource{tek: tek, name: "MATH"}
}

// DataSourceName returns the source currently selected for waveform
// transfer.
func (tek *DPO4104) DataSourceName() (string, error) {
	return query.String(tek, "DAT:SOU?")
}

// SetDataSource selects the source for waveform transfer and waits for
// the instrument to latch it.
func (tek *DPO4104) SetDataSource(name string) error {
	if err := tek.Command("DAT:SOU %s", name); err != nil {
		return err
	}
	time.Sleep(sourceSettle)
	return nil
}

// selected runs fn with this source selected for waveform transfer. If
// a different source was selected before, it is restored afterwards on
// every exit path, including errors from fn.
func (d *DataSource) selected(fn func() error) (err error) {
	prev, err := d.tek.DataSourceName()
	if err != nil {
		return err
	}
	if prev != d.name {
		if err := d.tek.SetDataSource(d.name); err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, d.tek.SetDataSource(prev))
		}()
	}
	return fn()
}

// WaveformEncoding selects how CURV? payloads are transferred.
type WaveformEncoding int

const (
	// EncodingBinary transfers signed big-endian integers in a
	// definite-length block, DataWidth bytes per point.
	EncodingBinary WaveformEncoding = iota
	// EncodingASCII transfers comma-separated decimal text. Slow, but
	// useful when debugging a transport.
	EncodingASCII
)

// ReadWaveform transfers this source's trace and rescales it to
// physical units using the instrument's waveform preamble: y = (raw -
// yoff) * ymult + yzero, x = xzero + i*xincr for the reported point
// count.
func (d *DataSource) ReadWaveform(enc WaveformEncoding) (*oscilloscope.Waveform, error) {
	var wf *oscilloscope.Waveform
	err := d.selected(func() (err error) {
		// Widen the transfer window to the full record; restore the
		// caller's stop point afterwards.
		oldStop, err := query.String(d.tek, "DAT:STOP?")
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, d.tek.Command("DAT:STOP %s", oldStop))
		}()
		if err := d.tek.Command("DAT:STOP %d", 10000000); err != nil {
			return err
		}

		raw, err := d.transfer(enc)
		if err != nil {
			return err
		}

		yoff, err := query.Float64(d.tek, "WFMP:YOF?")
		if err != nil {
			return err
		}
		ymult, err := query.Float64(d.tek, "WFMP:YMU?")
		if err != nil {
			return err
		}
		yzero, err := query.Float64(d.tek, "WFMP:YZE?")
		if err != nil {
			return err
		}
		xzero, err := query.Float64(d.tek, "WFMP:XZE?")
		if err != nil {
			return err
		}
		xincr, err := query.Float64(d.tek, "WFMP:XIN?")
		if err != nil {
			return err
		}
		ptcnt, err := query.Int(d.tek, "WFMP:NR_P?")
		if err != nil {
			return err
		}

		wf = &oscilloscope.Waveform{
			Source: d.name,
			Times:  oscilloscope.TimeAxis(xzero, xincr, ptcnt),
			Values: oscilloscope.Rescale(raw, yoff, ymult, yzero),
		}
		return nil
	})
	return wf, err
}

// transfer pulls the raw digitizer levels in the requested encoding.
func (d *DataSource) transfer(enc WaveformEncoding) ([]float64, error) {
	conn := d.tek.Connection()
	switch enc {
	case EncodingASCII:
		if err := d.tek.Command("DAT:ENC ASCI"); err != nil {
			return nil, err
		}
		time.Sleep(encodingSettle)
		raw, err := d.tek.Query("CURV?")
		if err != nil {
			return nil, err
		}
		fields := strings.Split(raw, ",")
		out := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, &instrument.ParseError{Cmd: "CURV?", Raw: raw, Err: err}
			}
			out[i] = v
		}
		return out, nil
	case EncodingBinary:
		if err := d.tek.Command("DAT:ENC RIB"); err != nil {
			return nil, err
		}
		time.Sleep(encodingSettle)
		width, err := d.tek.DataWidth()
		if err != nil {
			return nil, err
		}
		// The block reply must be the next thing read off the wire, so
		// bypass the wrapped Command: its error check would consume the
		// head of the block as a response line.
		if err := conn.Command("CURV?"); err != nil {
			return nil, err
		}
		block, err := conn.ReadBinaryBlock()
		if err != nil {
			return nil, err
		}
		samples, err := instrument.DecodeSamples(block, width, true, binary.BigEndian)
		if err != nil {
			return nil, err
		}
		// Consume the terminator following the block, if any.
		_, _ = conn.ReadLine()
		return oscilloscope.ToFloats(samples), nil
	default:
		return nil, fmt.Errorf("unknown waveform encoding %d", enc)
	}
}

// Channel is one analog input channel. It extends DataSource with the
// vertical settings addressed through the channel's native index.
type Channel struct {
	DataSource
	idx int // native 1-based index
}

func (ch *Channel) coupling() param.Enum[Coupling] {
	return param.Enum[Coupling]{
		Key:    fmt.Sprintf("CH%d:COUPL", ch.idx),
		Values: []Coupling{CouplingAC, CouplingDC, CouplingGround},
	}
}

// Coupling returns the channel input coupling.
func (ch *Channel) Coupling() (Coupling, error) {
	return ch.coupling().Get(ch.tek)
}

// SetCoupling sets the channel input coupling.
func (ch *Channel) SetCoupling(c Coupling) error {
	return ch.coupling().Set(ch.tek, c)
}

// Scale returns the vertical scale in volts per division.
func (ch *Channel) Scale() (float64, error) {
	return query.Float64f(ch.tek, "CH%d:SCA?", ch.idx)
}

// SetScale sets the vertical scale in volts per division.
func (ch *Channel) SetScale(voltsPerDiv float64) error {
	return ch.tek.Command("CH%d:SCA %G", ch.idx, voltsPerDiv)
}

// Position returns the vertical position in divisions.
func (ch *Channel) Position() (float64, error) {
	return query.Float64f(ch.tek, "CH%d:POS?", ch.idx)
}

// SetPosition sets the vertical position in divisions.
func (ch *Channel) SetPosition(divs float64) error {
	return ch.tek.Command("CH%d:POS %G", ch.idx, divs)
}

// BandwidthLimit returns the channel bandwidth limit in hertz.
func (ch *Channel) BandwidthLimit() (float64, error) {
	return query.Float64f(ch.tek, "CH%d:BAN?", ch.idx)
}

// SetBandwidthLimit sets the channel bandwidth limit in hertz. The
// scope rounds to the nearest supported limit.
func (ch *Channel) SetBandwidthLimit(hz float64) error {
	return ch.tek.Command("CH%d:BAN %G", ch.idx, hz)
}

// SetFullBandwidth removes the channel bandwidth limit.
func (ch *Channel) SetFullBandwidth() error {
	return ch.tek.Command("CH%d:BAN FULL", ch.idx)
}

// RecordLength returns the acquisition record length in points.
func (tek *DPO4104) RecordLength() (int, error) {
	return query.Int(tek, "HOR:RECO?")
}

// SetRecordLength sets the acquisition record length in points.
func (tek *DPO4104) SetRecordLength(points int) error {
	return tek.Command("HOR:RECO %d", points)
}

// AcquisitionRunning reports whether the scope is acquiring.
func (tek *DPO4104) AcquisitionRunning() (bool, error) {
	return query.Bool(tek, "ACQ:STATE?")
}

// SetAcquisitionRunning starts or stops acquisition.
func (tek *DPO4104) SetAcquisitionRunning(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return tek.Command("ACQ:STATE %d", v)
}

// AcquisitionContinuous reports whether the scope is in run/stop mode
// (true) or single-sequence mode (false).
func (tek *DPO4104) AcquisitionContinuous() (bool, error) {
	s, err := query.String(tek, "ACQ:STOPA?")
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(s, "RUNST"), nil
}

// SetAcquisitionContinuous switches between run/stop and single
// sequence acquisition.
func (tek *DPO4104) SetAcquisitionContinuous(on bool) error {
	mode := "SEQ"
	if on {
		mode = "RUNST"
	}
	return tek.Command("ACQ:STOPA %s", mode)
}

var dataWidth = param.Int{Key: "DATA:WIDTH", Valid: []int{1, 2}}

// DataWidth returns the number of bytes per point for waveform
// transfers.
func (tek *DPO4104) DataWidth() (int, error) {
	return dataWidth.Get(tek)
}

// SetDataWidth sets the number of bytes per point for waveform
// transfers. Only widths of 1 or 2 are supported.
func (tek *DPO4104) SetDataWidth(width int) error {
	return dataWidth.Set(tek, width)
}
