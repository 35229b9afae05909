// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalDelta(t *testing.T) {
	u := NewUpdate(NMEA2000Source(InputNMEA2000, 127257, 3, 17), UnixMilliTimestamp(0, 5))
	if err := u.SetNavigationAttitude(Attitude{Roll: Known(0.1), Pitch: Known(-0.2)}); err != nil {
		t.Fatal(err)
	}
	if err := u.SetElectricalBatteryVoltage("house", 12.5); err != nil {
		t.Fatal(err)
	}

	b, err := MarshalDelta(&u)
	if err != nil {
		t.Fatalf("MarshalDelta: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"context":"vessels.self"`,
		`"timestamp":"1970-01-01T00:00:00.005Z"`,
		`"pgn":127257`,
		`"src":17`,
		`{"path":"navigation.attitude","value":{"roll":0.1,"pitch":-0.2}}`,
		`{"path":"electrical.batteries.house.voltage","value":12.5}`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("delta %s\nmissing %s", s, want)
		}
	}
	if strings.Contains(s, "yaw") {
		t.Fatalf("unknown yaw rendered: %s", s)
	}
}

func TestMarshalDeltaPosition(t *testing.T) {
	u := NewUpdate(testSource, UnixTimestamp(0))
	if err := u.SetNavigationPosition(Position{Latitude: 37.5, Longitude: -122.25}); err != nil {
		t.Fatal(err)
	}
	b, err := MarshalDelta(&u)
	if err != nil {
		t.Fatal(err)
	}
	var d struct {
		Updates []struct {
			Source struct {
				Talker   string `json:"talker"`
				Sentence string `json:"sentence"`
			} `json:"source"`
			Values []struct {
				Path  string `json:"path"`
				Value struct {
					Latitude  float64  `json:"latitude"`
					Longitude float64  `json:"longitude"`
					Altitude  *float64 `json:"altitude"`
				} `json:"value"`
			} `json:"values"`
		} `json:"updates"`
	}
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	if len(d.Updates) != 1 || len(d.Updates[0].Values) != 1 {
		t.Fatalf("unexpected shape: %s", b)
	}
	got := d.Updates[0]
	if got.Source.Talker != "GP" || got.Source.Sentence != "RMC" {
		t.Fatalf("source=%+v", got.Source)
	}
	v := got.Values[0].Value
	if v.Latitude != 37.5 || v.Longitude != -122.25 || v.Altitude != nil {
		t.Fatalf("position=%+v", v)
	}
}
