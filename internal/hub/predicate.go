// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hub

import "github.com/relabs-tech/marine_gateway/internal/signalk"

// Predicate selects the updates a subscriber receives.
type Predicate func(u *signalk.Update) bool

func All() Predicate {
	return func(*signalk.Update) bool { return true }
}

func ContextIs(c signalk.Context) Predicate {
	return func(u *signalk.Update) bool { return u.Context() == c }
}

func InputIs(in signalk.Input) Predicate {
	return func(u *signalk.Update) bool { return u.Source().Input() == in }
}

func SourceTypeIs(t signalk.SourceType) Predicate {
	return func(u *signalk.Update) bool { return u.Source().Type() == t }
}

func Not(p Predicate) Predicate {
	return func(u *signalk.Update) bool { return !p(u) }
}

// And matches when every predicate matches. And() matches everything.
func And(ps ...Predicate) Predicate {
	return func(u *signalk.Update) bool {
		for _, p := range ps {
			if !p(u) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches. Or() matches nothing.
func Or(ps ...Predicate) Predicate {
	return func(u *signalk.Update) bool {
		for _, p := range ps {
			if p(u) {
				return true
			}
		}
		return false
	}
}
