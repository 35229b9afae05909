// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea0183

import (
	"math"
	"strconv"
	"strings"
)

// Sentence builds one outgoing sentence field by field:
//
//	NewSentence("II", "HDM").AddFloat(123.4, 1).AddString("M").String()
//	// "$IIHDM,123.4,M*26"
type Sentence struct {
	b strings.Builder
}

// NewSentence starts "$<talker><code>".
func NewSentence(talker, code string) *Sentence {
	s := &Sentence{}
	s.b.Grow(82)
	s.b.WriteByte('$')
	s.b.WriteString(talker)
	s.b.WriteString(code)
	return s
}

func (s *Sentence) AddString(v string) *Sentence {
	s.b.WriteByte(',')
	s.b.WriteString(v)
	return s
}

// AddFloat appends v with a fixed number of decimals. NaN leaves the field
// empty.
func (s *Sentence) AddFloat(v float64, decimals int) *Sentence {
	s.b.WriteByte(',')
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	var buf [32]byte
	s.b.Write(strconv.AppendFloat(buf[:0], v, 'f', decimals, 64))
	return s
}

func (s *Sentence) AddEmpty() *Sentence {
	s.b.WriteByte(',')
	return s
}

// String returns the sentence with its checksum, without line terminator.
func (s *Sentence) String() string {
	return AppendChecksum(s.b.String())
}
