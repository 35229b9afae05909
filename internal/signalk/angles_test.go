// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import (
	"math"
	"testing"
)

func TestNormalizeAngleRange(t *testing.T) {
	for x := -1080.0; x <= 1080; x += 7.5 {
		a := NormalizeAngle(x)
		if a <= -180 || a > 180 {
			t.Fatalf("NormalizeAngle(%v)=%v out of (-180,180]", x, a)
		}
		d := NormalizeDirection(x)
		if d < 0 || d >= 360 {
			t.Fatalf("NormalizeDirection(%v)=%v out of [0,360)", x, d)
		}
	}
}

func TestNormalizePeriodic(t *testing.T) {
	for _, x := range []float64{-359.5, -180, -90.25, 0, 12.5, 179.9, 180, 270} {
		for k := -3; k <= 3; k++ {
			y := x + float64(k)*360
			if got, want := NormalizeAngle(y), NormalizeAngle(x); math.Abs(got-want) > 1e-9 {
				t.Fatalf("NormalizeAngle(%v)=%v want %v", y, got, want)
			}
			if got, want := NormalizeDirection(y), NormalizeDirection(x); math.Abs(got-want) > 1e-9 {
				t.Fatalf("NormalizeDirection(%v)=%v want %v", y, got, want)
			}
		}
	}
}

func TestNormalizeBoundaries(t *testing.T) {
	cases := []struct {
		in, angle, dir float64
	}{
		{180, 180, 180},
		{-180, 180, 180},
		{360, 0, 0},
		{-90, -90, 270},
		{540, 180, 180},
	}
	for _, tc := range cases {
		if got := NormalizeAngle(tc.in); got != tc.angle {
			t.Fatalf("NormalizeAngle(%v)=%v want %v", tc.in, got, tc.angle)
		}
		if got := NormalizeDirection(tc.in); got != tc.dir {
			t.Fatalf("NormalizeDirection(%v)=%v want %v", tc.in, got, tc.dir)
		}
	}
}

func TestNormalizeRad(t *testing.T) {
	if got := NormalizeAngleRad(3 * math.Pi / 2); math.Abs(got+math.Pi/2) > 1e-12 {
		t.Fatalf("NormalizeAngleRad(3pi/2)=%v", got)
	}
	if got := NormalizeDirectionRad(-math.Pi / 2); math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Fatalf("NormalizeDirectionRad(-pi/2)=%v", got)
	}
}
