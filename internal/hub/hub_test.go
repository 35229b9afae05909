// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hub

import (
	"errors"
	"sync"
	"testing"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

func newUpdate(in signalk.Input, ctx signalk.Context) signalk.Update {
	src := signalk.NMEA0183Source(in, "II", "HDM")
	return signalk.NewUpdate(src, signalk.UnixTimestamp(0), signalk.WithContext(ctx))
}

func TestPublishSkipsOtherContext(t *testing.T) {
	h := New(4)
	called := 0
	if err := h.Subscribe(ContextIs(signalk.Self), SubscriberFunc(func(*signalk.Update) { called++ })); err != nil {
		t.Fatal(err)
	}
	u := newUpdate(signalk.InputNMEA0183Port1, "vessels.other")
	h.Publish(&u)
	if called != 0 {
		t.Fatalf("subscriber called %d times for foreign context", called)
	}
	u = newUpdate(signalk.InputNMEA0183Port1, signalk.Self)
	h.Publish(&u)
	if called != 1 {
		t.Fatalf("called=%d want 1", called)
	}
}

func TestPublishOrder(t *testing.T) {
	h := New(3)
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		if err := h.Subscribe(nil, SubscriberFunc(func(*signalk.Update) { got = append(got, i) })); err != nil {
			t.Fatal(err)
		}
	}
	u := newUpdate(signalk.InputNMEA2000, signalk.Self)
	h.Publish(&u)
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("order=%v want [0 1 2]", got)
	}
}

func TestSubscribeLimit(t *testing.T) {
	h := New(2)
	noop := SubscriberFunc(func(*signalk.Update) {})
	for i := 0; i < 2; i++ {
		if err := h.Subscribe(All(), noop); err != nil {
			t.Fatalf("Subscribe %d: %v", i, err)
		}
	}
	if err := h.Subscribe(All(), noop); !errors.Is(err, ErrTooManySubscribers) {
		t.Fatalf("err=%v want ErrTooManySubscribers", err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len()=%d want 2", h.Len())
	}
}

func TestPredicates(t *testing.T) {
	n2k := newUpdate(signalk.InputNMEA2000, signalk.Self)
	port1 := newUpdate(signalk.InputNMEA0183Port1, signalk.Self)

	notN2K := Not(InputIs(signalk.InputNMEA2000))
	if notN2K(&n2k) || !notN2K(&port1) {
		t.Fatalf("Not(InputIs) mismatch")
	}
	both := And(ContextIs(signalk.Self), InputIs(signalk.InputNMEA0183Port1))
	if !both(&port1) || both(&n2k) {
		t.Fatalf("And mismatch")
	}
	either := Or(InputIs(signalk.InputNMEA2000), InputIs(signalk.InputNMEA0183Port1))
	if !either(&port1) || !either(&n2k) {
		t.Fatalf("Or mismatch")
	}
	if Or()(&port1) {
		t.Fatalf("empty Or matched")
	}
	if !And()(&port1) {
		t.Fatalf("empty And did not match")
	}
	if !SourceTypeIs(signalk.SourceNMEA0183)(&port1) {
		t.Fatalf("SourceTypeIs mismatch")
	}
}

func TestConcurrentSubscribePublish(t *testing.T) {
	h := New(64)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 32; i++ {
			_ = h.Subscribe(All(), SubscriberFunc(func(*signalk.Update) {}))
		}
	}()
	go func() {
		defer wg.Done()
		u := newUpdate(signalk.InputSensor, signalk.Self)
		for i := 0; i < 100; i++ {
			h.Publish(&u)
		}
	}()
	wg.Wait()
	if h.Len() != 32 {
		t.Fatalf("Len()=%d want 32", h.Len())
	}
}
