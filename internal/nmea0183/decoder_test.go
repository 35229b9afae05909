// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea0183

import (
	"math"
	"testing"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

var ts0 = signalk.UnixTimestamp(1479256879)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDecodeRMC(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode("$GPRMC,004119.000,A,3751.3385,N,12227.4913,W,5.02,235.24,141116,,,D*75", ts0)
	if u.Size() != 3 {
		t.Fatalf("Size()=%d want 3", u.Size())
	}
	if got := u.NavigationSpeedOverGround(); !approx(got, 2.582, 1e-3) {
		t.Fatalf("sog=%v want 2.582", got)
	}
	if got := u.NavigationCourseOverGroundTrue(); !approx(got, 4.106, 1e-3) {
		t.Fatalf("cog=%v want 4.106", got)
	}
	pos, ok := u.NavigationPosition()
	if !ok {
		t.Fatalf("no position")
	}
	// ddmm.mmmm: 37 deg 51.3385 min, 122 deg 27.4913 min W. The minutes are
	// divided by 60, so this is not 37.513385/-122.274913, the digits read
	// as plain decimal degrees.
	if !approx(pos.Latitude, 37.8556417, 1e-6) || !approx(pos.Longitude, -122.4581883, 1e-6) {
		t.Fatalf("position=%+v", pos)
	}
	src := u.Source()
	if src.Talker() != "GP" || src.Sentence() != "RMC" || src.Input() != signalk.InputNMEA0183Port1 {
		t.Fatalf("source=%s", src)
	}
	if u.Timestamp() != ts0 {
		t.Fatalf("timestamp=%s", u.Timestamp())
	}
}

func TestDecodeRMCInvalidFix(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode("$IIRMC,,V,,,,,,,,009,W,N*2A", ts0)
	if u.Size() != 0 {
		t.Fatalf("Size()=%d want 0", u.Size())
	}
}

func TestDecodeBadChecksum(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode("$GPRMC,004119.000,A,3751.3385,N,12227.4913,W,5.02,235.24,141116,,,D*00", ts0)
	if u.Size() != 0 {
		t.Fatalf("Size()=%d want 0", u.Size())
	}
}

func TestDecodeWithoutChecksum(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port2)
	u := d.Decode("$IIHDM,123.4,M\r\n", ts0)
	if u.Size() != 1 {
		t.Fatalf("Size()=%d want 1", u.Size())
	}
	if got := u.NavigationHeadingMagnetic() * signalk.RadToDeg; !approx(got, 123.4, 1e-9) {
		t.Fatalf("heading=%v", got)
	}
}

func TestDecodeMWV(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		apparent bool
		angleDeg float64
		speedMS  float64
	}{
		{"apparent knots", "IIMWV,045.0,R,10.0,N,A", true, 45, 10 * signalk.KnotsToMS},
		{"apparent port side", "IIMWV,270.0,R,5.0,M,A", true, -90, 5},
		{"true kmh", "IIMWV,190.0,T,36.0,K,A", false, -170, 10},
		{"true mph", "IIMWV,180.0,T,10.0,S,A", false, 180, 10 * signalk.MphToMS},
	}
	d := NewDecoder(signalk.InputNMEA0183Port1)
	for _, tc := range cases {
		u := d.Decode(nmeaLine(tc.payload), ts0)
		if u.Size() != 2 {
			t.Fatalf("%s: Size()=%d want 2", tc.name, u.Size())
		}
		angle, speed := u.EnvironmentWindAngleTrueWater(), u.EnvironmentWindSpeedTrue()
		if tc.apparent {
			angle, speed = u.EnvironmentWindAngleApparent(), u.EnvironmentWindSpeedApparent()
		}
		if !approx(angle*signalk.RadToDeg, tc.angleDeg, 1e-9) {
			t.Fatalf("%s: angle=%v want %v", tc.name, angle*signalk.RadToDeg, tc.angleDeg)
		}
		if !approx(speed, tc.speedMS, 1e-9) {
			t.Fatalf("%s: speed=%v want %v", tc.name, speed, tc.speedMS)
		}
	}
}

func TestDecodeMWVInvalidStatus(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	if u := d.Decode(nmeaLine("IIMWV,045.0,R,10.0,N,V"), ts0); u.Size() != 0 {
		t.Fatalf("Size()=%d want 0", u.Size())
	}
}

func TestDecodeDPT(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode(nmeaLine("SDDPT,42.0,-2.25,100.0"), ts0)
	if u.Size() != 3 {
		t.Fatalf("Size()=%d want 3", u.Size())
	}
	if u.EnvironmentDepthBelowTransducer() != 42 ||
		u.EnvironmentDepthTransducerToKeel() != 2.25 ||
		u.EnvironmentDepthBelowKeel() != 39.75 {
		t.Fatalf("depths %v %v %v", u.EnvironmentDepthBelowTransducer(),
			u.EnvironmentDepthTransducerToKeel(), u.EnvironmentDepthBelowKeel())
	}

	u = d.Decode(nmeaLine("SDDPT,10.0,0.5,100.0"), ts0)
	if u.EnvironmentDepthSurfaceToTransducer() != 0.5 || u.EnvironmentDepthBelowSurface() != 10.5 {
		t.Fatalf("positive offset not applied: size %d", u.Size())
	}
}

func TestDecodeHDTAndVHW(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode(nmeaLine("HEHDT,90.0,T"), ts0)
	if got := u.NavigationHeadingTrue(); !approx(got, math.Pi/2, 1e-12) {
		t.Fatalf("headingTrue=%v", got)
	}
	u = d.Decode(nmeaLine("VWVHW,,T,,M,5.0,N,9.3,K"), ts0)
	if got := u.NavigationSpeedThroughWater(); !approx(got, 5*signalk.KnotsToMS, 1e-12) {
		t.Fatalf("stw=%v", got)
	}
	u = d.Decode(nmeaLine("VWVHW,,T,,M,,N,9.3,K"), ts0)
	if got := u.NavigationSpeedThroughWater(); !approx(got, 9.3*signalk.KmhToMS, 1e-12) {
		t.Fatalf("stw from km/h=%v", got)
	}
}

func TestDecodeUnknownSentence(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	u := d.Decode(nmeaLine("GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1"), ts0)
	if u.Size() != 0 {
		t.Fatalf("Size()=%d want 0", u.Size())
	}
	if u.Source().Sentence() != "GSA" {
		t.Fatalf("source sentence=%q", u.Source().Sentence())
	}
}

func TestDecodeGarbage(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA0183Port1)
	for _, in := range []string{"", "$", "$*", "\x00\xff", "$GPRMC", "$GPRMC,,,,,,*ZZ"} {
		if u := d.Decode(in, ts0); u.Size() != 0 {
			t.Fatalf("Decode(%q) Size()=%d want 0", in, u.Size())
		}
	}
}

func TestSplitAddress(t *testing.T) {
	cases := []struct{ in, talker, code string }{
		{"$GPRMC,1", "GP", "RMC"},
		{"$PCDIN,01F", "P", "CDIN"},
		{"!AIVDM*11", "AI", "VDM"},
	}
	for _, tc := range cases {
		talker, code := SplitAddress(tc.in)
		if talker != tc.talker || code != tc.code {
			t.Fatalf("SplitAddress(%q)=%q,%q", tc.in, talker, code)
		}
	}
}
