// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmea0183 converts between NMEA0183 sentences and canonical updates.
package nmea0183

import (
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// Decoder turns sentences received on one input line into updates. It keeps
// no state between calls: every Decode returns an independent value.
type Decoder struct {
	input    signalk.Input
	capacity int
}

// NewDecoder returns a decoder tagging its updates with input.
func NewDecoder(input signalk.Input) *Decoder {
	return &Decoder{input: input, capacity: signalk.DefaultCapacity}
}

func (d *Decoder) Input() signalk.Input { return d.input }

// SetCapacity sets the capacity of the updates Decode returns. Values are
// clamped to [1, signalk.MaxCapacity].
func (d *Decoder) SetCapacity(n int) { d.capacity = n }

// SplitAddress returns the talker and sentence code of a framed sentence,
// e.g. ("GP", "RMC") or ("P", "CDIN") for proprietary sentences.
func SplitAddress(line string) (talker, code string) {
	if len(line) < 2 {
		return "", ""
	}
	addr := line[1:]
	if i := strings.IndexAny(addr, ",*"); i >= 0 {
		addr = addr[:i]
	}
	switch {
	case strings.HasPrefix(addr, "P"):
		return "P", addr[1:]
	case len(addr) >= 3:
		return addr[:2], addr[2:]
	}
	return "", addr
}

// field returns f[i] or "" when i is out of range.
func field(f []string, i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return f[i]
}

// Decode parses one sentence. Sentences that fail validation, that are not
// understood, or that carry no usable data yield an update with Size() 0.
func (d *Decoder) Decode(line string, ts signalk.Timestamp) signalk.Update {
	line = strings.TrimSpace(line)
	talker, code := SplitAddress(line)
	u := signalk.NewUpdate(signalk.NMEA0183Source(d.input, talker, code), ts, signalk.WithCapacity(d.capacity))
	if talker == "" || code == "" || !IsValid(line) {
		return u
	}
	if !HasChecksum(line) {
		line = AppendChecksum(line)
	}
	s, err := nmea.Parse(line)
	if err != nil {
		return u
	}

	var ok bool
	switch m := s.(type) {
	case nmea.RMC:
		ok = decodeRMC(&u, m)
	case nmea.MWV:
		ok = decodeMWV(&u, m)
	case nmea.HDM:
		ok = decodeHeading(&u, m.Fields, m.Heading, signalk.NavigationHeadingMagnetic)
	case nmea.HDT:
		ok = decodeHeading(&u, m.Fields, m.Heading, signalk.NavigationHeadingTrue)
	case nmea.DPT:
		ok = decodeDPT(&u, m)
	case nmea.VHW:
		ok = decodeVHW(&u, m)
	}
	if !ok {
		// never hand out a half-filled update
		return signalk.NewUpdate(u.Source(), ts, signalk.WithCapacity(d.capacity))
	}
	return u
}

// RMC: time, status, lat, N/S, lon, E/W, sog knots, cog degrees, date, ...
func decodeRMC(u *signalk.Update, m nmea.RMC) bool {
	if m.Validity != nmea.ValidRMC {
		return false
	}
	if field(m.Fields, 2) == "" || field(m.Fields, 4) == "" {
		return false
	}
	if err := u.SetNavigationPosition(signalk.Position{Latitude: m.Latitude, Longitude: m.Longitude}); err != nil {
		return false
	}
	if field(m.Fields, 6) != "" {
		if err := u.SetNavigationSpeedOverGround(m.Speed * signalk.KnotsToMS); err != nil {
			return false
		}
	}
	if field(m.Fields, 7) != "" {
		if err := u.SetNavigationCourseOverGroundTrue(m.Course * signalk.DegToRad); err != nil {
			return false
		}
	}
	return true
}

// MWV: angle, R/T, speed, unit K/M/N/S, status.
func decodeMWV(u *signalk.Update, m nmea.MWV) bool {
	if field(m.Fields, 4) != "A" {
		return false
	}
	if field(m.Fields, 0) == "" || field(m.Fields, 2) == "" {
		return false
	}
	var speed float64
	switch m.WindSpeedUnit {
	case "K":
		speed = m.WindSpeed * signalk.KmhToMS
	case "M":
		speed = m.WindSpeed
	case "N":
		speed = m.WindSpeed * signalk.KnotsToMS
	case "S":
		speed = m.WindSpeed * signalk.MphToMS
	default:
		return false
	}
	angle := signalk.NormalizeAngle(m.WindAngle) * signalk.DegToRad

	switch m.Reference {
	case "R":
		return u.SetEnvironmentWindAngleApparent(angle) == nil &&
			u.SetEnvironmentWindSpeedApparent(speed) == nil
	case "T":
		return u.SetEnvironmentWindAngleTrueWater(angle) == nil &&
			u.SetEnvironmentWindSpeedTrue(speed) == nil
	}
	return false
}

func decodeHeading(u *signalk.Update, fields []string, deg float64, k signalk.Key) bool {
	if field(fields, 0) == "" {
		return false
	}
	return u.Set(signalk.NewPath(k), signalk.NumberValue(signalk.NormalizeDirection(deg)*signalk.DegToRad)) == nil
}

// DPT: depth below transducer, offset (+ to waterline, - to keel), range.
func decodeDPT(u *signalk.Update, m nmea.DPT) bool {
	if field(m.Fields, 0) == "" {
		return false
	}
	return setDepth(u, m.Depth, m.Offset)
}

func setDepth(u *signalk.Update, depth, offset float64) bool {
	if err := u.SetEnvironmentDepthBelowTransducer(depth); err != nil {
		return false
	}
	switch {
	case offset < 0:
		return u.SetEnvironmentDepthTransducerToKeel(-offset) == nil &&
			u.SetEnvironmentDepthBelowKeel(depth+offset) == nil
	case offset > 0:
		return u.SetEnvironmentDepthSurfaceToTransducer(offset) == nil &&
			u.SetEnvironmentDepthBelowSurface(depth+offset) == nil
	}
	return true
}

// VHW: heading T, T, heading M, M, speed knots, N, speed km/h, K.
func decodeVHW(u *signalk.Update, m nmea.VHW) bool {
	switch {
	case field(m.Fields, 4) != "":
		return u.SetNavigationSpeedThroughWater(m.SpeedThroughWaterKnots*signalk.KnotsToMS) == nil
	case field(m.Fields, 6) != "":
		return u.SetNavigationSpeedThroughWater(m.SpeedThroughWaterKPH*signalk.KmhToMS) == nil
	}
	return false
}
