// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmea2000 converts between NMEA2000 messages and canonical updates.
//
// Only single-frame PGNs are handled here; fast-packet reassembly happens in
// the CAN stack before messages reach the decoder.
package nmea2000

import (
	"errors"
	"fmt"
)

var (
	ErrShortPayload = errors.New("nmea2000: payload too short")
	ErrBadFrame     = errors.New("nmea2000: malformed frame")
)

// BroadcastAddress is the destination of messages sent to every node.
const BroadcastAddress uint8 = 0xFF

// Header is the addressing part of a message, carried in the 29-bit CAN id.
type Header struct {
	Priority    uint8
	PGN         uint32
	Source      uint8
	Destination uint8
}

// Message is one NMEA2000 message.
type Message struct {
	Header
	Data []byte
}

func (m Message) String() string {
	return fmt.Sprintf("pgn=%d(%s) prio=%d src=%d dst=%d data=% X",
		m.PGN, PGNName(m.PGN), m.Priority, m.Source, m.Destination, m.Data)
}
