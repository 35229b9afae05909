// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea0183

import "strings"

const hexDigits = "0123456789ABCDEF"

// Checksum XORs every byte after the leading '$' or '!' up to the first '*'
// (or the end of s when there is none).
func Checksum(s string) byte {
	start := 0
	if len(s) > 0 && (s[0] == '$' || s[0] == '!') {
		start = 1
	}
	var cs byte
	for i := start; i < len(s); i++ {
		if s[i] == '*' {
			break
		}
		cs ^= s[i]
	}
	return cs
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// ReadChecksum parses the two hex digits after '*'. ok is false when there is
// no '*' or the digits are missing or not hex.
func ReadChecksum(s string) (cs byte, ok bool) {
	i := strings.IndexByte(s, '*')
	if i < 0 || i+2 >= len(s) {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

// HasChecksum reports whether s carries a '*' checksum delimiter.
func HasChecksum(s string) bool {
	return strings.IndexByte(s, '*') >= 0
}

// IsValid checks the start delimiter and, when present, the checksum. A
// sentence without '*' is accepted: many talkers omit the checksum. A '*'
// followed by anything but two hex digits is rejected.
func IsValid(s string) bool {
	if len(s) == 0 || (s[0] != '$' && s[0] != '!') {
		return false
	}
	if !HasChecksum(s) {
		return true
	}
	cs, ok := ReadChecksum(s)
	return ok && cs == Checksum(s)
}

// AppendChecksum returns s with "*HH" appended. s must not already contain '*'.
func AppendChecksum(s string) string {
	cs := Checksum(s)
	return s + "*" + string([]byte{hexDigits[cs>>4], hexDigits[cs&0x0F]})
}
