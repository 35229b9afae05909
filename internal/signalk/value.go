// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import "math"

// Float is a numeric field that may be unknown. The zero value is unknown.
// It is the only representation of "unknown number" used by the codecs:
// check Known() or Get(), never compare against a magic value.
type Float struct {
	v     float64
	known bool
}

// Known wraps v. NaN and infinities are stored as unknown.
func Known(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{v: v, known: true}
}

func (f Float) Known() bool { return f.known }

func (f Float) Get() (float64, bool) { return f.v, f.known }

// OrNaN returns the value, or NaN when unknown.
func (f Float) OrNaN() float64 {
	if !f.known {
		return math.NaN()
	}
	return f.v
}

// Position in decimal degrees; Altitude in meters.
type Position struct {
	Latitude  float64
	Longitude float64
	Altitude  Float
}

// Attitude angles in radians.
type Attitude struct {
	Roll  Float
	Pitch Float
	Yaw   Float
}

// Battery is the compound state of one battery: volts, amperes, kelvin.
type Battery struct {
	Voltage     Float
	Current     Float
	Temperature Float
}

// Kind tags the content of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindNumber
	KindPosition
	KindAttitude
	KindBattery
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindPosition:
		return "position"
	case KindAttitude:
		return "attitude"
	case KindBattery:
		return "battery"
	case KindString:
		return "string"
	}
	return "invalid"
}

// Value is a tagged union of the values a path can carry. The zero Value is
// None, which is what lookups of absent paths return.
type Value struct {
	kind Kind
	num  [3]Float
	str  string
}

// None is the "field absent" value.
var None = Value{}

func NumberValue(v float64) Value {
	return Value{kind: KindNumber, num: [3]Float{Known(v)}}
}

func PositionValue(p Position) Value {
	return Value{kind: KindPosition, num: [3]Float{Known(p.Latitude), Known(p.Longitude), p.Altitude}}
}

func AttitudeValue(a Attitude) Value {
	return Value{kind: KindAttitude, num: [3]Float{a.Roll, a.Pitch, a.Yaw}}
}

func BatteryValue(b Battery) Value {
	return Value{kind: KindBattery, num: [3]Float{b.Voltage, b.Current, b.Temperature}}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNone() bool { return v.kind == KindNone }

// Number returns the numeric content; ok is false for other kinds and for
// NaN numbers.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num[0].Get()
}

func (v Value) Position() (Position, bool) {
	if v.kind != KindPosition {
		return Position{}, false
	}
	return Position{Latitude: v.num[0].OrNaN(), Longitude: v.num[1].OrNaN(), Altitude: v.num[2]}, true
}

func (v Value) Attitude() (Attitude, bool) {
	if v.kind != KindAttitude {
		return Attitude{}, false
	}
	return Attitude{Roll: v.num[0], Pitch: v.num[1], Yaw: v.num[2]}, true
}

func (v Value) Battery() (Battery, bool) {
	if v.kind != KindBattery {
		return Battery{}, false
	}
	return Battery{Voltage: v.num[0], Current: v.num[1], Temperature: v.num[2]}, true
}

// Text returns the string content.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Equal compares kind and content. None equals only None; a real value never
// equals None.
func (v Value) Equal(o Value) bool {
	return v == o
}
