// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import "encoding/json"

// Delta is the JSON shape of one Update:
//
//	{"context":"vessels.self","updates":[{"source":{...},"timestamp":"...","values":[...]}]}
type Delta struct {
	Context Context       `json:"context"`
	Updates []DeltaUpdate `json:"updates"`
}

type DeltaUpdate struct {
	Source    DeltaSource  `json:"source"`
	Timestamp string       `json:"timestamp"`
	Values    []DeltaValue `json:"values"`
}

type DeltaSource struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Talker   string `json:"talker,omitempty"`
	Sentence string `json:"sentence,omitempty"`
	PGN      uint32 `json:"pgn,omitempty"`
	Priority uint8  `json:"priority,omitempty"`
	Src      *uint8 `json:"src,omitempty"`
}

type DeltaValue struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type jsonPosition struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

type jsonAttitude struct {
	Roll  *float64 `json:"roll,omitempty"`
	Pitch *float64 `json:"pitch,omitempty"`
	Yaw   *float64 `json:"yaw,omitempty"`
}

type jsonBattery struct {
	Voltage     *float64 `json:"voltage,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

func floatPtr(f Float) *float64 {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

func deltaSource(s Source) DeltaSource {
	ds := DeltaSource{Type: s.Type().String(), Label: s.Input().String()}
	switch s.Type() {
	case SourceNMEA0183:
		ds.Talker = s.Talker()
		ds.Sentence = s.Sentence()
	case SourceNMEA2000:
		ds.PGN = s.PGN()
		ds.Priority = s.Priority()
		addr := s.Address()
		ds.Src = &addr
	case SourceSensor:
		ds.Label = s.Input().String() + "." + s.Label()
	}
	return ds
}

// jsonValue returns the encodable form of v. Unknown numbers encode as null.
func jsonValue(v Value) any {
	switch v.Kind() {
	case KindNumber:
		return floatPtr(v.num[0])
	case KindPosition:
		p, _ := v.Position()
		return jsonPosition{Latitude: p.Latitude, Longitude: p.Longitude, Altitude: floatPtr(p.Altitude)}
	case KindAttitude:
		a, _ := v.Attitude()
		return jsonAttitude{Roll: floatPtr(a.Roll), Pitch: floatPtr(a.Pitch), Yaw: floatPtr(a.Yaw)}
	case KindBattery:
		b, _ := v.Battery()
		return jsonBattery{Voltage: floatPtr(b.Voltage), Current: floatPtr(b.Current), Temperature: floatPtr(b.Temperature)}
	case KindString:
		return v.str
	}
	return nil
}

// ToDelta converts u into its JSON document form.
func ToDelta(u *Update) Delta {
	du := DeltaUpdate{
		Source:    deltaSource(u.Source()),
		Timestamp: u.Timestamp().String(),
		Values:    make([]DeltaValue, 0, u.Size()),
	}
	for i := 0; i < u.Size(); i++ {
		p, v := u.At(i)
		du.Values = append(du.Values, DeltaValue{Path: p.String(), Value: jsonValue(v)})
	}
	return Delta{Context: u.Context(), Updates: []DeltaUpdate{du}}
}

// MarshalDelta renders u as a SignalK delta document.
func MarshalDelta(u *Update) ([]byte, error) {
	return json.Marshal(ToDelta(u))
}
