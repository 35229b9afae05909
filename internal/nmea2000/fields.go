// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"encoding/binary"
	"math"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// Field codecs. Numeric fields are little endian with a fixed resolution of
// 1/div. The top raw values of each width are reserved: all ones means "not
// available", all ones minus one means "out of range". Both decode as an
// unknown signalk.Float, and unknown floats encode as "not available".

const (
	naU8  = 0xFF
	naU16 = 0xFFFF
	naU32 = 0xFFFFFFFF
	naI16 = 0x7FFF
	naI32 = 0x7FFFFFFF

	maxU8  = 0xFD
	maxU16 = 0xFFFD
	maxU32 = 0xFFFFFFFD
	maxI16 = 0x7FFD
	maxI32 = 0x7FFFFFFD
)

func getU16(data []byte, off int, div float64) signalk.Float {
	raw := binary.LittleEndian.Uint16(data[off:])
	if raw > maxU16 {
		return signalk.Float{}
	}
	return signalk.Known(float64(raw) / div)
}

func getI16(data []byte, off int, div float64) signalk.Float {
	raw := int16(binary.LittleEndian.Uint16(data[off:]))
	if raw > maxI16 {
		return signalk.Float{}
	}
	return signalk.Known(float64(raw) / div)
}

func getU32(data []byte, off int, div float64) signalk.Float {
	raw := binary.LittleEndian.Uint32(data[off:])
	if raw > maxU32 {
		return signalk.Float{}
	}
	return signalk.Known(float64(raw) / div)
}

func getI32(data []byte, off int, div float64) signalk.Float {
	raw := int32(binary.LittleEndian.Uint32(data[off:]))
	if raw > maxI32 {
		return signalk.Float{}
	}
	return signalk.Known(float64(raw) / div)
}

func getU8(data []byte, off int, div float64) signalk.Float {
	raw := data[off]
	if raw > maxU8 {
		return signalk.Float{}
	}
	return signalk.Known(float64(raw) / div)
}

// scaleFloat multiplies a known value by k, for fields whose unit is coarser
// than the canonical one (hectopascal, 10 m steps).
func scaleFloat(f signalk.Float, k float64) signalk.Float {
	v, ok := f.Get()
	if !ok {
		return f
	}
	return signalk.Known(v * k)
}

// scaled rounds v*div and clamps it to [lo, hi].
func scaled(v, div, lo, hi float64) float64 {
	r := math.Round(v * div)
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}

func putU16(data []byte, off int, f signalk.Float, div float64) {
	v, ok := f.Get()
	if !ok {
		binary.LittleEndian.PutUint16(data[off:], naU16)
		return
	}
	binary.LittleEndian.PutUint16(data[off:], uint16(scaled(v, div, 0, maxU16)))
}

// fullTurn is 2pi at the 1e-4 rad resolution of direction fields.
const fullTurn = 62832

// putAngle writes a direction in [0, 2pi). The value is rounded before it
// wraps, so a direction just under 2pi is sent as 0 rather than as 2pi.
func putAngle(data []byte, off int, f signalk.Float) {
	v, ok := f.Get()
	if !ok {
		binary.LittleEndian.PutUint16(data[off:], naU16)
		return
	}
	raw := math.Mod(math.Round(signalk.NormalizeDirectionRad(v)*10000), fullTurn)
	binary.LittleEndian.PutUint16(data[off:], uint16(raw))
}

func putI16(data []byte, off int, f signalk.Float, div float64) {
	v, ok := f.Get()
	if !ok {
		binary.LittleEndian.PutUint16(data[off:], naI16)
		return
	}
	binary.LittleEndian.PutUint16(data[off:], uint16(int16(scaled(v, div, -maxI16, maxI16))))
}

func putU32(data []byte, off int, f signalk.Float, div float64) {
	v, ok := f.Get()
	if !ok {
		binary.LittleEndian.PutUint32(data[off:], naU32)
		return
	}
	binary.LittleEndian.PutUint32(data[off:], uint32(scaled(v, div, 0, maxU32)))
}

func putI32(data []byte, off int, f signalk.Float, div float64) {
	v, ok := f.Get()
	if !ok {
		binary.LittleEndian.PutUint32(data[off:], naI32)
		return
	}
	binary.LittleEndian.PutUint32(data[off:], uint32(int32(scaled(v, div, -maxI32, maxI32))))
}

func putU8(data []byte, off int, f signalk.Float, div float64) {
	v, ok := f.Get()
	if !ok {
		data[off] = naU8
		return
	}
	data[off] = uint8(scaled(v, div, 0, maxU8))
}

// newPayload returns an 8-byte single frame payload filled with 0xFF, the
// value of reserved bits and unused bytes.
func newPayload() []byte {
	return []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
}

func need(data []byte, n int) error {
	if len(data) < n {
		return ErrShortPayload
	}
	return nil
}
