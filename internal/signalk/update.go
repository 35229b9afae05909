// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import (
	"errors"
	"fmt"
)

const (
	// MaxCapacity bounds the number of paths any Update can hold. The
	// entries live in a fixed array so an Update is a plain value: copying
	// it copies its data and never shares storage with the original.
	MaxCapacity = 24

	// DefaultCapacity is used when no capacity option is given.
	DefaultCapacity = 16
)

var (
	ErrUpdateFull   = errors.New("signalk: update is full")
	ErrInvalidPath  = errors.New("signalk: invalid path")
	ErrInvalidValue = errors.New("signalk: cannot set none value")
)

type entry struct {
	path  Path
	value Value
}

// Update is one bus message: a source, a timestamp, a context and an ordered
// set of (Path, Value) pairs without duplicate paths.
type Update struct {
	source    Source
	timestamp Timestamp
	context   Context
	capacity  int
	size      int
	entries   [MaxCapacity]entry
}

// Option configures NewUpdate.
type Option func(*Update)

// WithCapacity sets the declared capacity, clamped to [1, MaxCapacity].
func WithCapacity(n int) Option {
	return func(u *Update) {
		switch {
		case n < 1:
			n = 1
		case n > MaxCapacity:
			n = MaxCapacity
		}
		u.capacity = n
	}
}

// WithContext overrides the default Self context.
func WithContext(c Context) Option {
	return func(u *Update) {
		u.context = c
	}
}

// NewUpdate returns an empty update.
func NewUpdate(src Source, ts Timestamp, opts ...Option) Update {
	u := Update{
		source:    src,
		timestamp: ts,
		context:   Self,
		capacity:  DefaultCapacity,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func (u *Update) Source() Source       { return u.source }
func (u *Update) Timestamp() Timestamp { return u.timestamp }
func (u *Update) Context() Context     { return u.context }
func (u *Update) Size() int            { return u.size }
func (u *Update) Capacity() int        { return u.capacity }

// At returns the i-th entry in insertion order. It panics when i is out of
// [0, Size()), like a slice index.
func (u *Update) At(i int) (Path, Value) {
	if i < 0 || i >= u.size {
		panic(fmt.Sprintf("signalk: entry %d out of range [0,%d)", i, u.size))
	}
	e := u.entries[i]
	return e.path, e.value
}

func (u *Update) indexOf(p Path) int {
	for i := 0; i < u.size; i++ {
		if u.entries[i].path == p {
			return i
		}
	}
	return -1
}

// Set stores v at p. An existing entry for p is overwritten in place; a new
// path is appended unless the update is full, in which case nothing is
// written and ErrUpdateFull is returned.
func (u *Update) Set(p Path, v Value) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	if v.IsNone() {
		return fmt.Errorf("%w: %s", ErrInvalidValue, p)
	}
	if i := u.indexOf(p); i >= 0 {
		u.entries[i].value = v
		return nil
	}
	if u.size >= u.capacity {
		return fmt.Errorf("%w: capacity %d, dropping %s", ErrUpdateFull, u.capacity, p)
	}
	u.entries[u.size] = entry{path: p, value: v}
	u.size++
	return nil
}

// Lookup returns the value at p, or None.
func (u *Update) Lookup(p Path) Value {
	if i := u.indexOf(p); i >= 0 {
		return u.entries[i].value
	}
	return None
}

func (u *Update) Has(p Path) bool {
	return u.indexOf(p) >= 0
}
