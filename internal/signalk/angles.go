// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import "math"

// Unit conversion factors to SI.
const (
	KnotsToMS = 1852.0 / 3600.0
	KmhToMS   = 1000.0 / 3600.0
	MphToMS   = 1609.344 / 3600.0

	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi

	// KelvinOffset converts between celsius and kelvin.
	KelvinOffset = 273.15
)

// NormalizeAngle maps degrees into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// NormalizeDirection maps degrees into [0, 360).
func NormalizeDirection(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// -tiny + 360 rounds to 360 in float64
	if d >= 360 {
		d = 0
	}
	return d
}

// NormalizeAngleRad maps radians into (-pi, pi].
func NormalizeAngleRad(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// NormalizeDirectionRad maps radians into [0, 2pi).
func NormalizeDirectionRad(rad float64) float64 {
	d := math.Mod(rad, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d >= 2*math.Pi {
		d = 0
	}
	return d
}
