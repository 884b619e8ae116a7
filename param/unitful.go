// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package param

import (
	"fmt"

	"github.com/labtoolkit/instrument"
	"github.com/labtoolkit/instrument/units"
)

// Unitful is a numeric property carrying a physical unit. The
// instrument is assumed to exchange bare magnitudes in Unit; callers
// may pass bare numbers (assumed to be in Unit) or unitful quantities,
// which are converted before encoding.
//
// Bounds come in two flavors: fixed Min/Max quantities, or MinQuery /
// MaxQuery mnemonics (e.g. "VOLT:MIN") queried from the instrument at
// set time, for properties whose limits depend on other settings.
type Unitful struct {
	Key      string
	SetKey   string
	Unit     units.Unit
	Min      *units.Quantity
	Max      *units.Quantity
	MinQuery string
	MaxQuery string
	Format   string // verb for the set magnitude, %G unless set
	Access   Access
}

// Get queries the property and attaches the default unit. Responses
// with an explicit unit suffix are converted.
func (p Unitful) Get(c Client) (units.Quantity, error) {
	if p.Access == WriteOnly {
		return units.Quantity{}, fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return units.Quantity{}, err
	}
	q, err := units.Parse(s, p.Unit)
	if err != nil {
		return units.Quantity{}, &instrument.ParseError{Cmd: p.Key + "?", Raw: s, Err: err}
	}
	return q, nil
}

// Set coerces the value to the property's unit, checks the bounds, and
// writes the magnitude. Coercion and bounds failures happen before any
// command is written; bound queries are reads only.
func (p Unitful) Set(c Client, v any) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	q, err := units.Assume(v, p.Unit)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Key, err)
	}
	min, max, err := p.bounds(c)
	if err != nil {
		return err
	}
	if min != nil && q.Value < min.Value {
		return &instrument.RangeError{
			Key: p.Key, Value: q,
			Msg: fmt.Sprintf("below minimum %s", *min),
		}
	}
	if max != nil && q.Value > max.Value {
		return &instrument.RangeError{
			Key: p.Key, Value: q,
			Msg: fmt.Sprintf("above maximum %s", *max),
		}
	}
	format := p.Format
	if format == "" {
		format = "%G"
	}
	return c.Command("%s "+format, setKey(p.Key, p.SetKey), q.Value)
}

// Bounds returns the property's current minimum and maximum in the
// property's unit, querying the instrument where the property declares
// bound queries. A nil bound means unconstrained on that side.
func (p Unitful) Bounds(c Client) (min, max *units.Quantity, err error) {
	return p.bounds(c)
}

func (p Unitful) bounds(c Client) (min, max *units.Quantity, err error) {
	// Fixed bounds may be declared in any compatible unit; compare in
	// the property's unit.
	if p.Min != nil {
		q, err := p.Min.To(p.Unit)
		if err != nil {
			return nil, nil, err
		}
		min = &q
	}
	if p.Max != nil {
		q, err := p.Max.To(p.Unit)
		if err != nil {
			return nil, nil, err
		}
		max = &q
	}
	if p.MinQuery != "" {
		q, err := p.queryBound(c, p.MinQuery)
		if err != nil {
			return nil, nil, err
		}
		min = &q
	}
	if p.MaxQuery != "" {
		q, err := p.queryBound(c, p.MaxQuery)
		if err != nil {
			return nil, nil, err
		}
		max = &q
	}
	return min, max, nil
}

func (p Unitful) queryBound(c Client, key string) (units.Quantity, error) {
	s, err := c.Query(key + "?")
	if err != nil {
		return units.Quantity{}, err
	}
	q, err := units.Parse(s, p.Unit)
	if err != nil {
		return units.Quantity{}, &instrument.ParseError{Cmd: key + "?", Raw: s, Err: err}
	}
	return q, nil
}
