// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package hub routes canonical updates from producers to subscribers.
//
// Publish is synchronous: every matching subscriber has returned before
// Publish returns, and subscribers must copy out whatever they keep.
package hub

import (
	"errors"
	"fmt"
	"sync"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// DefaultMaxSubscribers is the subscriber table size used by New when limit <= 0.
const DefaultMaxSubscribers = 16

var ErrTooManySubscribers = errors.New("hub: subscriber table full")

// Subscriber receives updates. The pointer is only valid during the call.
type Subscriber interface {
	UpdateReceived(u *signalk.Update)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(u *signalk.Update)

func (f SubscriberFunc) UpdateReceived(u *signalk.Update) { f(u) }

type subscription struct {
	match Predicate
	sub   Subscriber
}

// Hub is safe for concurrent Subscribe and Publish.
type Hub struct {
	mu   sync.Mutex
	max  int
	subs []subscription
}

// New returns a hub accepting at most limit subscribers.
func New(limit int) *Hub {
	if limit <= 0 {
		limit = DefaultMaxSubscribers
	}
	return &Hub{max: limit, subs: make([]subscription, 0, limit)}
}

// Subscribe registers s for updates matching p. A nil predicate matches all.
func (h *Hub) Subscribe(p Predicate, s Subscriber) error {
	if s == nil {
		return errors.New("hub: nil subscriber")
	}
	if p == nil {
		p = All()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs) >= h.max {
		return fmt.Errorf("%w: max %d", ErrTooManySubscribers, h.max)
	}
	h.subs = append(h.subs, subscription{match: p, sub: s})
	return nil
}

// Publish delivers u to every matching subscriber in subscription order.
func (h *Hub) Publish(u *signalk.Update) {
	// The table only grows and never reallocates past max, so a slice header
	// taken under the lock is a stable snapshot.
	h.mu.Lock()
	subs := h.subs
	h.mu.Unlock()

	for _, s := range subs {
		if s.match(u) {
			s.sub.UpdateReceived(u)
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
