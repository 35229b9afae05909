// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

const (
	// CANEffFlag marks an extended (29-bit) identifier in a SocketCAN frame id.
	CANEffFlag uint32 = 0x80000000
	// CANEffMask selects the 29 identifier bits.
	CANEffMask uint32 = 0x1FFFFFFF
)

// CANID packs h into a 29-bit identifier:
//
//	bits 26-28 priority, 24-25 data page, 16-23 PDU format,
//	8-15 PDU specific, 0-7 source address
//
// For PDU1 PGNs (PDU format < 240) the PDU specific byte is the destination.
func CANID(h Header) uint32 {
	id := uint32(h.Priority&0x7)<<26 | (h.PGN&0x3FFFF)<<8 | uint32(h.Source)
	if uint8(h.PGN>>8) < 240 {
		id = id&^0xFF00 | uint32(h.Destination)<<8
	}
	return id
}

// ParseCANID unpacks a 29-bit identifier. PDU2 messages are broadcast, so
// their destination is BroadcastAddress.
func ParseCANID(id uint32) Header {
	id &= CANEffMask
	h := Header{
		Priority: uint8((id >> 26) & 0x7),
		Source:   uint8(id),
	}
	pf := uint8(id >> 16)
	ps := uint8(id >> 8)
	dp := uint32(id>>24) & 0x3
	pgn := dp<<16 | uint32(pf)<<8
	if pf < 240 {
		h.Destination = ps
		h.PGN = pgn
	} else {
		h.Destination = BroadcastAddress
		h.PGN = pgn | uint32(ps)
	}
	return h
}
