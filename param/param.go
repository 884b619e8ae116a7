// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package param binds instrument settings to SCPI command mnemonics.
// Each property is a declarative spec (mnemonic, codec, constraints)
// defined once per driver and consumed by generic accessors: Get issues
// "<KEY>?" and decodes one response line, Set validates the value
// locally and writes "<KEY> <value>". Validation failures never reach
// the instrument.
package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gotmc/query"
	"github.com/labtoolkit/instrument"
)

// Access restricts which accessors a property exposes.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

var (
	// ErrReadOnly is returned by Set on a read-only property.
	ErrReadOnly = errors.New("property is read-only")
	// ErrWriteOnly is returned by Get on a write-only property.
	ErrWriteOnly = errors.New("property is write-only")
)

// Sender writes one command to the instrument without reading a
// response.
type Sender interface {
	Command(format string, a ...any) error
}

// Client is the connection surface a property needs: one-shot commands
// and single-line queries. instrument.Connection satisfies it, as does
// anything embedding one.
type Client interface {
	Sender
	query.Querier
}

func setKey(key, override string) string {
	if override != "" {
		return override
	}
	return key
}

// Bool is a boolean property encoded with a pair of instrument tokens,
// "ON"/"OFF" unless overridden.
type Bool struct {
	Key    string
	SetKey string // distinct set mnemonic for asymmetric properties
	True   string
	False  string
	Access Access
}

func (p Bool) tokens() (string, string) {
	t, f := p.True, p.False
	if t == "" {
		t = "ON"
	}
	if f == "" {
		f = "OFF"
	}
	return t, f
}

// Get queries the property and compares the response against the two
// tokens. Anything else is a parse error.
func (p Bool) Get(c Client) (bool, error) {
	if p.Access == WriteOnly {
		return false, fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	t, f := p.tokens()
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return false, err
	}
	switch s {
	case t, "1":
		return true, nil
	case f, "0":
		return false, nil
	}
	return false, &instrument.ParseError{
		Cmd: p.Key + "?", Raw: s,
		Err: fmt.Errorf("want %q or %q", t, f),
	}
}

// Set writes the token for the given value.
func (p Bool) Set(c Sender, v bool) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	t, f := p.tokens()
	tok := f
	if v {
		tok = t
	}
	return c.Command("%s %s", setKey(p.Key, p.SetKey), tok)
}

// Int is an integer property with an optional valid set.
type Int struct {
	Key    string
	SetKey string
	Valid  []int // nil accepts any int
	Access Access
}

// Get queries and decodes the property as an integer.
func (p Int) Get(c Client) (int, error) {
	if p.Access == WriteOnly {
		return 0, fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &instrument.ParseError{Cmd: p.Key + "?", Raw: s, Err: err}
	}
	return n, nil
}

// Set validates membership in the valid set, then writes the value.
func (p Int) Set(c Sender, v int) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	if p.Valid != nil {
		ok := false
		for _, allowed := range p.Valid {
			if v == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return &instrument.RangeError{
				Key: p.Key, Value: v,
				Msg: fmt.Sprintf("must be one of %v", p.Valid),
			}
		}
	}
	return c.Command("%s %d", setKey(p.Key, p.SetKey), v)
}

// Float is a dimensionless numeric property with optional inclusive
// bounds.
type Float struct {
	Key    string
	SetKey string
	Min    *float64
	Max    *float64
	Format string // verb for the set value, %G unless set
	Access Access
}

// Get queries and decodes the property as a float64.
func (p Float) Get(c Client) (float64, error) {
	if p.Access == WriteOnly {
		return 0, fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &instrument.ParseError{Cmd: p.Key + "?", Raw: s, Err: err}
	}
	return f, nil
}

// Set checks the bounds, then writes the value.
func (p Float) Set(c Sender, v float64) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	if p.Min != nil && v < *p.Min {
		return &instrument.RangeError{
			Key: p.Key, Value: v,
			Msg: fmt.Sprintf("below minimum %G", *p.Min),
		}
	}
	if p.Max != nil && v > *p.Max {
		return &instrument.RangeError{
			Key: p.Key, Value: v,
			Msg: fmt.Sprintf("above maximum %G", *p.Max),
		}
	}
	format := p.Format
	if format == "" {
		format = "%G"
	}
	return c.Command("%s "+format, setKey(p.Key, p.SetKey), v)
}

// Enum is a symbolic property whose accepted values exactly match the
// declared set. T is a defined string type whose values are the wire
// tokens.
type Enum[T ~string] struct {
	Key    string
	SetKey string
	Values []T
	Access Access
}

func (p Enum[T]) member(v T) bool {
	for _, allowed := range p.Values {
		if v == allowed {
			return true
		}
	}
	return false
}

// Get queries the property and checks the response against the declared
// set.
func (p Enum[T]) Get(c Client) (T, error) {
	var zero T
	if p.Access == WriteOnly {
		return zero, fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return zero, err
	}
	v := T(strings.TrimSpace(s))
	if !p.member(v) {
		return zero, &instrument.ParseError{
			Cmd: p.Key + "?", Raw: s,
			Err: fmt.Errorf("not in declared set %v", p.Values),
		}
	}
	return v, nil
}

// Set validates membership, then writes the token.
func (p Enum[T]) Set(c Sender, v T) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	if !p.member(v) {
		return &instrument.RangeError{
			Key: p.Key, Value: string(v),
			Msg: fmt.Sprintf("must be one of %v", p.Values),
		}
	}
	return c.Command("%s %s", setKey(p.Key, p.SetKey), string(v))
}

// String is a free-text property, optionally quote-delimited on the
// wire.
type String struct {
	Key    string
	SetKey string
	Quoted bool
	Access Access
}

// Get queries the property and strips the quotes if the property is
// quoted.
func (p String) Get(c Client) (string, error) {
	if p.Access == WriteOnly {
		return "", fmt.Errorf("%s: %w", p.Key, ErrWriteOnly)
	}
	s, err := c.Query(p.Key + "?")
	if err != nil {
		return "", err
	}
	if p.Quoted {
		s = strings.Trim(s, `"`)
	}
	return s, nil
}

// Set writes the string, quoting it if the property is quoted.
func (p String) Set(c Sender, v string) error {
	if p.Access == ReadOnly {
		return fmt.Errorf("%s: %w", p.Key, ErrReadOnly)
	}
	if p.Quoted {
		return c.Command("%s %q", setKey(p.Key, p.SetKey), v)
	}
	return c.Command("%s %s", setKey(p.Key, p.SetKey), v)
}
