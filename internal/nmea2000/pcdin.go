// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/relabs-tech/marine_gateway/internal/nmea0183"
)

// Seasmart $PCDIN framing of NMEA2000 messages over text links:
//
//	$PCDIN,<pgn 6 hex>,<timestamp 8 hex>,<source 2 hex>,<data hex>*CS

const pcdinPrefix = "$PCDIN,"

// MaxPCDINData is the largest payload a fast-packet message can carry.
const MaxPCDINData = 223

// IsPCDIN reports whether line is a $PCDIN sentence.
func IsPCDIN(line string) bool {
	return strings.HasPrefix(line, pcdinPrefix)
}

// EncodePCDIN frames m with the sender's timestamp.
func EncodePCDIN(m Message, timestamp uint32) string {
	var b strings.Builder
	b.Grow(len(pcdinPrefix) + 20 + 2*len(m.Data) + 3)
	fmt.Fprintf(&b, "%s%06X,%08X,%02X,", pcdinPrefix, m.PGN&0xFFFFFF, timestamp, m.Source)
	for _, c := range m.Data {
		fmt.Fprintf(&b, "%02X", c)
	}
	return nmea0183.AppendChecksum(b.String())
}

// DecodePCDIN parses a $PCDIN sentence. The checksum is required. Priority
// is not carried by the frame and is set to the PGN's default.
func DecodePCDIN(line string) (Message, uint32, error) {
	line = strings.TrimSpace(line)
	if !IsPCDIN(line) {
		return Message{}, 0, fmt.Errorf("%w: not a $PCDIN sentence", ErrBadFrame)
	}
	if !nmea0183.HasChecksum(line) || !nmea0183.IsValid(line) {
		return Message{}, 0, fmt.Errorf("%w: checksum", ErrBadFrame)
	}
	body := line[len(pcdinPrefix):strings.IndexByte(line, '*')]
	f := strings.Split(body, ",")
	if len(f) != 4 || len(f[0]) != 6 || len(f[1]) != 8 || len(f[2]) != 2 {
		return Message{}, 0, fmt.Errorf("%w: field layout %q", ErrBadFrame, body)
	}
	pgn, err := strconv.ParseUint(f[0], 16, 32)
	if err != nil {
		return Message{}, 0, fmt.Errorf("%w: pgn: %v", ErrBadFrame, err)
	}
	ts, err := strconv.ParseUint(f[1], 16, 32)
	if err != nil {
		return Message{}, 0, fmt.Errorf("%w: timestamp: %v", ErrBadFrame, err)
	}
	src, err := strconv.ParseUint(f[2], 16, 8)
	if err != nil {
		return Message{}, 0, fmt.Errorf("%w: source: %v", ErrBadFrame, err)
	}
	data, err := hex.DecodeString(f[3])
	if err != nil {
		return Message{}, 0, fmt.Errorf("%w: data: %v", ErrBadFrame, err)
	}
	if len(data) > MaxPCDINData {
		return Message{}, 0, fmt.Errorf("%w: %d data bytes", ErrBadFrame, len(data))
	}
	m := Message{
		Header: Header{
			Priority:    DefaultPriority(uint32(pgn)),
			PGN:         uint32(pgn),
			Source:      uint8(src),
			Destination: BroadcastAddress,
		},
		Data: data,
	}
	return m, uint32(ts), nil
}
