// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"strconv"
	"strings"
)

// UnknownInstance is sent for battery names missing from the table.
const UnknownInstance uint8 = 0xFF

// Instances maps battery names to NMEA2000 instance numbers. Names are
// matched case-insensitively.
type Instances map[string]uint8

// DefaultInstances is engine=0, house=1.
func DefaultInstances() Instances {
	return Instances{"engine": 0, "house": 1}
}

// Number returns the instance for name, or UnknownInstance.
func (t Instances) Number(name string) uint8 {
	if n, ok := t[name]; ok {
		return n
	}
	for k, n := range t {
		if strings.EqualFold(k, name) {
			return n
		}
	}
	return UnknownInstance
}

// Name returns the name for instance n. Instances missing from the table are
// named by their decimal number. When several names share a number the
// lexically smallest wins so the result is stable.
func (t Instances) Name(n uint8) string {
	name := ""
	for k, v := range t {
		if v == n && (name == "" || k < name) {
			name = k
		}
	}
	if name == "" {
		return strconv.Itoa(int(n))
	}
	return name
}
