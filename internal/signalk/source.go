// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import (
	"fmt"
	"time"
)

// Input identifies the physical line an update arrived on.
type Input uint8

const (
	InputUnknown Input = iota
	InputNMEA0183Port1
	InputNMEA0183Port2
	InputNMEA2000
	InputSensor
)

func (i Input) String() string {
	switch i {
	case InputNMEA0183Port1:
		return "nmea0183.1"
	case InputNMEA0183Port2:
		return "nmea0183.2"
	case InputNMEA2000:
		return "nmea2000"
	case InputSensor:
		return "sensor"
	}
	return "unknown"
}

// SourceType says which protocol-specific fields of a Source are meaningful.
type SourceType uint8

const (
	SourceUnknown SourceType = iota
	SourceNMEA0183
	SourceNMEA2000
	SourceSensor
)

func (t SourceType) String() string {
	switch t {
	case SourceNMEA0183:
		return "NMEA0183"
	case SourceNMEA2000:
		return "NMEA2000"
	case SourceSensor:
		return "sensor"
	}
	return "unknown"
}

// Source describes who produced an update. It is immutable: each constructor
// sets only the fields of its protocol, so changing the source type always
// starts from cleared protocol fields.
type Source struct {
	typ   SourceType
	input Input
	label string

	talker   string
	sentence string

	pgn      uint32
	priority uint8
	address  uint8
}

// NMEA0183Source is a sentence received on input, e.g. talker "GP", sentence "RMC".
func NMEA0183Source(input Input, talker, sentence string) Source {
	return Source{typ: SourceNMEA0183, input: input, talker: talker, sentence: sentence}
}

// NMEA2000Source is a PGN received from the bus node at address.
func NMEA2000Source(input Input, pgn uint32, priority, address uint8) Source {
	return Source{typ: SourceNMEA2000, input: input, pgn: pgn, priority: priority, address: address}
}

// SensorSource is a locally attached sensor, e.g. label "bmp280".
func SensorSource(input Input, label string) Source {
	return Source{typ: SourceSensor, input: input, label: label}
}

func (s Source) Type() SourceType { return s.typ }
func (s Source) Input() Input     { return s.input }
func (s Source) Label() string    { return s.label }
func (s Source) Talker() string   { return s.talker }
func (s Source) Sentence() string { return s.sentence }
func (s Source) PGN() uint32      { return s.pgn }
func (s Source) Priority() uint8  { return s.priority }
func (s Source) Address() uint8   { return s.address }

func (s Source) String() string {
	switch s.typ {
	case SourceNMEA0183:
		return fmt.Sprintf("%s:%s%s", s.input, s.talker, s.sentence)
	case SourceNMEA2000:
		return fmt.Sprintf("%s:%d@%d", s.input, s.pgn, s.address)
	case SourceSensor:
		return fmt.Sprintf("%s:%s", s.input, s.label)
	}
	return s.input.String()
}

// Context names the vessel an update is about.
type Context string

// Self is the context of the vessel the gateway is installed on.
const Self Context = "vessels.self"

// NoMillis marks a Timestamp whose sub-second part is not known.
const NoMillis int16 = -1

// Timestamp is unix seconds plus optional milliseconds.
type Timestamp struct {
	sec    int64
	millis int16
}

// UnixTimestamp returns a timestamp with unknown milliseconds.
func UnixTimestamp(sec int64) Timestamp {
	return Timestamp{sec: sec, millis: NoMillis}
}

// UnixMilliTimestamp returns a timestamp with known milliseconds. Values
// outside [0, 999] are stored as NoMillis.
func UnixMilliTimestamp(sec int64, millis int16) Timestamp {
	if millis < 0 || millis > 999 {
		millis = NoMillis
	}
	return Timestamp{sec: sec, millis: millis}
}

// TimestampOf converts t with millisecond resolution.
func TimestampOf(t time.Time) Timestamp {
	return UnixMilliTimestamp(t.Unix(), int16(t.Nanosecond()/int(time.Millisecond)))
}

func (t Timestamp) Seconds() int64 { return t.sec }

// Millis returns the sub-second milliseconds, or NoMillis.
func (t Timestamp) Millis() int16 { return t.millis }

func (t Timestamp) HasMillis() bool { return t.millis != NoMillis }

// Time converts to time.Time in UTC, truncating unknown milliseconds to zero.
func (t Timestamp) Time() time.Time {
	ms := int64(0)
	if t.HasMillis() {
		ms = int64(t.millis)
	}
	return time.Unix(t.sec, ms*int64(time.Millisecond)).UTC()
}

// String renders ISO8601, with milliseconds only when known.
func (t Timestamp) String() string {
	if t.HasMillis() {
		return t.Time().Format("2006-01-02T15:04:05.000Z")
	}
	return t.Time().Format("2006-01-02T15:04:05Z")
}
