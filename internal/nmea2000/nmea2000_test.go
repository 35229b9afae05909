// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

var ts0 = signalk.UnixTimestamp(1479256879)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func msg(pgn uint32, data []byte) Message {
	return Message{Header: Header{Priority: DefaultPriority(pgn), PGN: pgn, Source: 35, Destination: BroadcastAddress}, Data: data}
}

func TestCANID(t *testing.T) {
	cases := []struct {
		name string
		h    Header
		id   uint32
	}{
		{"pdu2 broadcast", Header{Priority: 2, PGN: 129026, Source: 35, Destination: BroadcastAddress}, 0x09F80223},
		{"pdu1 addressed", Header{Priority: 6, PGN: 59904, Source: 35, Destination: 0x42}, 0x18EA4223},
	}
	for _, tc := range cases {
		if got := CANID(tc.h); got != tc.id {
			t.Fatalf("%s: CANID=%#x want %#x", tc.name, got, tc.id)
		}
		if got := ParseCANID(tc.id | CANEffFlag); got != tc.h {
			t.Fatalf("%s: ParseCANID=%+v want %+v", tc.name, got, tc.h)
		}
	}
}

func TestDecodeWaterDepth(t *testing.T) {
	data := []byte{0xFF, 0x68, 0x10, 0x00, 0x00, 0x36, 0xF7, 0xFF}
	d := NewDecoder(signalk.InputNMEA2000, nil)
	u := d.Decode(msg(PGNWaterDepth, data), ts0)
	if u.Size() != 3 {
		t.Fatalf("Size()=%d want 3", u.Size())
	}
	if got := u.EnvironmentDepthBelowTransducer(); got != 42 {
		t.Fatalf("belowTransducer=%v want 42", got)
	}
	if got := u.EnvironmentDepthTransducerToKeel(); got != 2.25 {
		t.Fatalf("transducerToKeel=%v want 2.25", got)
	}
	if got := u.EnvironmentDepthBelowKeel(); got != 39.75 {
		t.Fatalf("belowKeel=%v want 39.75", got)
	}
	src := u.Source()
	if src.PGN() != PGNWaterDepth || src.Address() != 35 || src.Priority() != 3 {
		t.Fatalf("source=%s prio %d", src, src.Priority())
	}
}

func TestWaterDepthBuildLayout(t *testing.T) {
	p := WaterDepth{SID: 0xFF, Depth: signalk.Known(42), Offset: signalk.Known(-2.25)}
	want := []byte{0xFF, 0x68, 0x10, 0x00, 0x00, 0x36, 0xF7, 0xFF}
	if got := p.Build(); !bytes.Equal(got, want) {
		t.Fatalf("Build=% X want % X", got, want)
	}
}

func TestCOGSOGRoundTrip(t *testing.T) {
	in := COGSOGRapid{SID: 1, Reference: HeadingTrue, COG: signalk.Known(1), SOG: signalk.Known(3)}
	d := NewDecoder(signalk.InputNMEA2000, nil)
	u := d.Decode(msg(PGNCOGSOGRapid, in.Build()), ts0)
	if u.Size() != 2 {
		t.Fatalf("Size()=%d want 2", u.Size())
	}

	e := NewEncoder(EncoderConfig{Source: 7})
	e.Encode(&u)
	out := e.Drain()
	if len(out) != 1 || out[0].PGN != PGNCOGSOGRapid {
		t.Fatalf("encoded %v", out)
	}
	if out[0].Source != 7 || out[0].Priority != 2 {
		t.Fatalf("header %+v", out[0].Header)
	}
	var p COGSOGRapid
	if err := p.Parse(out[0].Data); err != nil {
		t.Fatal(err)
	}
	cog, _ := p.COG.Get()
	sog, _ := p.SOG.Get()
	if p.Reference != HeadingTrue || !approx(cog, 1, 1e-4) || !approx(sog, 3, 0.01) {
		t.Fatalf("round trip cog=%v sog=%v ref=%d", cog, sog, p.Reference)
	}
}

func TestDecodeCOGSOGMagneticKeepsSOGOnly(t *testing.T) {
	in := COGSOGRapid{Reference: HeadingMagnetic, COG: signalk.Known(1), SOG: signalk.Known(3)}
	u := NewDecoder(signalk.InputNMEA2000, nil).Decode(msg(PGNCOGSOGRapid, in.Build()), ts0)
	if u.Size() != 1 || u.Has(signalk.NewPath(signalk.NavigationCourseOverGroundTrue)) {
		t.Fatalf("Size()=%d, magnetic cog must not be written as true", u.Size())
	}
}

func TestDecodeWindReferences(t *testing.T) {
	cases := []struct {
		ref   WindReference
		angle float64
		speed signalk.Key
		dir   signalk.Key
		want  float64
	}{
		{WindTrueNorth, 3 * math.Pi / 2, signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindDirectionTrue, 3 * math.Pi / 2},
		{WindMagnetic, 1, signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindDirectionMagnetic, 1},
		{WindApparent, 3 * math.Pi / 2, signalk.EnvironmentWindSpeedApparent, signalk.EnvironmentWindAngleApparent, -math.Pi / 2},
		{WindTrueBoat, 4, signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindAngleTrueGround, 4 - 2*math.Pi},
		{WindTrueWater, 0.5, signalk.EnvironmentWindSpeedTrue, signalk.EnvironmentWindAngleTrueWater, 0.5},
	}
	d := NewDecoder(signalk.InputNMEA2000, nil)
	for _, tc := range cases {
		in := WindData{Speed: signalk.Known(6.5), Angle: signalk.Known(tc.angle), Reference: tc.ref}
		u := d.Decode(msg(PGNWindData, in.Build()), ts0)
		if u.Size() != 2 {
			t.Fatalf("ref %d: Size()=%d want 2", tc.ref, u.Size())
		}
		if got := u.Number(signalk.NewPath(tc.speed)); !approx(got, 6.5, 1e-9) {
			t.Fatalf("ref %d: speed=%v", tc.ref, got)
		}
		if got := u.Number(signalk.NewPath(tc.dir)); !approx(got, tc.want, 1e-4) {
			t.Fatalf("ref %d: angle=%v want %v", tc.ref, got, tc.want)
		}

		// and back again
		e := NewEncoder(EncoderConfig{})
		e.Encode(&u)
		out := e.Drain()
		if len(out) != 1 {
			t.Fatalf("ref %d: encoded %d messages", tc.ref, len(out))
		}
		var back WindData
		if err := back.Parse(out[0].Data); err != nil {
			t.Fatal(err)
		}
		if back.Reference != tc.ref {
			t.Fatalf("reference %d encoded as %d", tc.ref, back.Reference)
		}
	}
}

func TestDecodeVesselHeading(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA2000, nil)
	mag := VesselHeading{Heading: signalk.Known(1.5), Variation: signalk.Known(-0.05), Reference: HeadingMagnetic}
	u := d.Decode(msg(PGNVesselHeading, mag.Build()), ts0)
	if u.Size() != 2 || !approx(u.NavigationHeadingMagnetic(), 1.5, 1e-4) || !approx(u.NavigationMagneticVariation(), -0.05, 1e-4) {
		t.Fatalf("magnetic heading decode: size %d", u.Size())
	}
	tru := VesselHeading{Heading: signalk.Known(0.25), Reference: HeadingTrue}
	u = d.Decode(msg(PGNVesselHeading, tru.Build()), ts0)
	if u.Size() != 1 || !approx(u.NavigationHeadingTrue(), 0.25, 1e-4) {
		t.Fatalf("true heading decode: size %d", u.Size())
	}
	na := VesselHeading{Reference: HeadingMagnetic}
	if u := d.Decode(msg(PGNVesselHeading, na.Build()), ts0); u.Size() != 0 {
		t.Fatalf("n/a heading decoded to %d entries", u.Size())
	}
}

func TestDecodeRudderAndAttitude(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA2000, nil)
	r := Rudder{Position: signalk.Known(-0.1)}
	u := d.Decode(msg(PGNRudder, r.Build()), ts0)
	if !approx(u.SteeringRudderAngle(), -0.1, 1e-4) {
		t.Fatalf("rudder=%v", u.SteeringRudderAngle())
	}
	if u := d.Decode(msg(PGNRudder, (&Rudder{}).Build()), ts0); u.Size() != 0 {
		t.Fatalf("n/a rudder decoded")
	}

	a := Attitude{Pitch: signalk.Known(0.02), Roll: signalk.Known(-0.3)}
	u = d.Decode(msg(PGNAttitude, a.Build()), ts0)
	att, ok := u.NavigationAttitude()
	if !ok || att.Yaw.Known() {
		t.Fatalf("attitude=%+v ok=%v", att, ok)
	}
	if roll, _ := att.Roll.Get(); !approx(roll, -0.3, 1e-4) {
		t.Fatalf("roll=%v", roll)
	}
}

func TestBatteryStatus(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA2000, nil)
	in := BatteryStatus{Instance: 1, Voltage: signalk.Known(12.8), Current: signalk.Known(-4.2), Temperature: signalk.Known(295.15)}
	u := d.Decode(msg(PGNBatteryStatus, in.Build()), ts0)
	if u.Size() != 3 {
		t.Fatalf("Size()=%d want 3", u.Size())
	}
	if !approx(u.ElectricalBatteryVoltage("house"), 12.8, 1e-9) || !approx(u.ElectricalBatteryCurrent("house"), -4.2, 1e-9) {
		t.Fatalf("house battery %v V %v A", u.ElectricalBatteryVoltage("house"), u.ElectricalBatteryCurrent("house"))
	}

	in.Instance = 9
	u = d.Decode(msg(PGNBatteryStatus, in.Build()), ts0)
	if math.IsNaN(u.ElectricalBatteryVoltage("9")) {
		t.Fatalf("unknown instance not named by number")
	}

	e := NewEncoder(EncoderConfig{})
	v := signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, "adc"), ts0)
	if err := v.SetElectricalBatteryVoltage("Engine", 13.1); err != nil {
		t.Fatal(err)
	}
	if err := v.SetElectricalBatteryVoltage("dinghy", 12.1); err != nil {
		t.Fatal(err)
	}
	e.Encode(&v)
	out := e.Drain()
	if len(out) != 2 {
		t.Fatalf("encoded %d messages", len(out))
	}
	if out[0].Data[0] != 0 || out[1].Data[0] != UnknownInstance {
		t.Fatalf("instances %d %d want 0 255", out[0].Data[0], out[1].Data[0])
	}
	if out[0].Priority != 6 {
		t.Fatalf("priority %d want 6", out[0].Priority)
	}
}

func TestEnvironmentalParameters(t *testing.T) {
	in := EnvironmentalParameters{Pressure: signalk.Known(102400), OutsideTemperature: signalk.Known(288.15)}
	u := NewDecoder(signalk.InputNMEA2000, nil).Decode(msg(PGNEnvironmentalParameters, in.Build()), ts0)
	if u.Size() != 2 {
		t.Fatalf("Size()=%d want 2", u.Size())
	}
	if got := u.EnvironmentOutsidePressure(); got != 102400 {
		t.Fatalf("pressure=%v", got)
	}
	if !approx(u.EnvironmentOutsideTemperature(), 288.15, 1e-9) {
		t.Fatalf("temperature=%v", u.EnvironmentOutsideTemperature())
	}
}

func TestDecodeRejects(t *testing.T) {
	d := NewDecoder(signalk.InputNMEA2000, nil)
	cases := []Message{
		msg(PGNWaterDepth, []byte{0xFF, 0x01}),
		msg(PGNSystemTime, newPayload()),
		msg(60928, newPayload()),
		msg(PGNPositionRapid, []byte{0xFF, 0xFF, 0xFF, 0x7F, 0xFF, 0xFF, 0xFF, 0x7F}),
	}
	for _, m := range cases {
		if u := d.Decode(m, ts0); u.Size() != 0 {
			t.Fatalf("pgn %d: Size()=%d want 0", m.PGN, u.Size())
		}
	}
}

func TestEncoderQueueBound(t *testing.T) {
	e := NewEncoder(EncoderConfig{QueueSize: 2})
	u := signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, "x"), ts0)
	if err := u.SetNavigationHeadingTrue(1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		e.Encode(&u)
	}
	if n := len(e.Messages()); n != 2 {
		t.Fatalf("queued %d want 2", n)
	}
	if e.Dropped() != 3 {
		t.Fatalf("Dropped()=%d want 3", e.Dropped())
	}
	e.Flush()
	if n := len(e.Messages()); n != 0 {
		t.Fatalf("queued %d after Flush", n)
	}
}

func TestEncodePairsRequireBothHalves(t *testing.T) {
	e := NewEncoder(EncoderConfig{})
	u := signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, "x"), ts0)
	if err := u.SetNavigationCourseOverGroundTrue(1); err != nil {
		t.Fatal(err)
	}
	if err := u.SetEnvironmentWindAngleApparent(0.3); err != nil {
		t.Fatal(err)
	}
	e.Encode(&u)
	if out := e.Drain(); len(out) != 0 {
		t.Fatalf("encoded %v", out)
	}
}

func TestPCDIN(t *testing.T) {
	m := msg(PGNWaterDepth, []byte{0xFF, 0x68, 0x10, 0x00, 0x00, 0x36, 0xF7, 0xFF})
	s := EncodePCDIN(m, 1)
	if s != "$PCDIN,01F50B,00000001,23,FF6810000036F7FF*2B" {
		t.Fatalf("EncodePCDIN=%q", s)
	}
	got, ts, err := DecodePCDIN(s + "\r\n")
	if err != nil {
		t.Fatalf("DecodePCDIN: %v", err)
	}
	if ts != 1 || got.PGN != m.PGN || got.Source != m.Source || !bytes.Equal(got.Data, m.Data) {
		t.Fatalf("DecodePCDIN=%v ts=%d", got, ts)
	}

	bad := s[:len(s)-2] + "00"
	if _, _, err := DecodePCDIN(bad); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("bad checksum err=%v", err)
	}
	if _, _, err := DecodePCDIN("$PCDIN,01F50B,00000001,23,FF6810000036F7FF"); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("missing checksum err=%v", err)
	}
}

func sensorUpdate() signalk.Update {
	return signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, "x"), ts0)
}

// encodeDecode runs u through the encoder and decodes the single message it
// produces.
func encodeDecode(t *testing.T, u *signalk.Update, pgn uint32) signalk.Update {
	t.Helper()
	e := NewEncoder(EncoderConfig{Source: 35})
	e.Encode(u)
	out := e.Drain()
	if len(out) != 1 || out[0].PGN != pgn {
		t.Fatalf("encoded %v want one %d", out, pgn)
	}
	return NewDecoder(signalk.InputNMEA2000, nil).Decode(out[0], ts0)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		pgn   uint32
		set   func(u *signalk.Update) error
		check func(u *signalk.Update) bool
	}{
		{"rudder", PGNRudder,
			func(u *signalk.Update) error { return u.SetSteeringRudderAngle(-0.1) },
			func(u *signalk.Update) bool { return approx(u.SteeringRudderAngle(), -0.1, 1e-4) }},
		{"heading magnetic", PGNVesselHeading,
			func(u *signalk.Update) error {
				if err := u.SetNavigationHeadingMagnetic(1.5); err != nil {
					return err
				}
				return u.SetNavigationMagneticVariation(-0.05)
			},
			func(u *signalk.Update) bool {
				return u.Size() == 2 && approx(u.NavigationHeadingMagnetic(), 1.5, 1e-4) &&
					approx(u.NavigationMagneticVariation(), -0.05, 1e-4)
			}},
		{"heading true", PGNVesselHeading,
			func(u *signalk.Update) error { return u.SetNavigationHeadingTrue(0.25) },
			func(u *signalk.Update) bool {
				return u.Size() == 1 && approx(u.NavigationHeadingTrue(), 0.25, 1e-4)
			}},
		{"attitude", PGNAttitude,
			func(u *signalk.Update) error {
				return u.SetNavigationAttitude(signalk.Attitude{
					Yaw:   signalk.Known(0.7),
					Pitch: signalk.Known(0.02),
					Roll:  signalk.Known(-0.3),
				})
			},
			func(u *signalk.Update) bool {
				a, ok := u.NavigationAttitude()
				yaw, _ := a.Yaw.Get()
				pitch, _ := a.Pitch.Get()
				roll, _ := a.Roll.Get()
				return ok && approx(yaw, 0.7, 1e-4) && approx(pitch, 0.02, 1e-4) && approx(roll, -0.3, 1e-4)
			}},
		{"speed through water", PGNSpeedWater,
			func(u *signalk.Update) error { return u.SetNavigationSpeedThroughWater(3.21) },
			func(u *signalk.Update) bool { return approx(u.NavigationSpeedThroughWater(), 3.21, 1e-9) }},
		{"position", PGNPositionRapid,
			func(u *signalk.Update) error {
				return u.SetNavigationPosition(signalk.Position{Latitude: 37.8556417, Longitude: -122.4581883})
			},
			func(u *signalk.Update) bool {
				p, ok := u.NavigationPosition()
				return ok && approx(p.Latitude, 37.8556417, 1e-7) && approx(p.Longitude, -122.4581883, 1e-7)
			}},
	}
	for _, tc := range cases {
		u := sensorUpdate()
		if err := tc.set(&u); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		back := encodeDecode(t, &u, tc.pgn)
		if back.Size() == 0 || !tc.check(&back) {
			t.Fatalf("%s: decoded %d entries, values differ", tc.name, back.Size())
		}
	}
}

func TestDecodeSpeedWaterNotAvailable(t *testing.T) {
	var na SpeedWater
	u := NewDecoder(signalk.InputNMEA2000, nil).Decode(msg(PGNSpeedWater, na.Build()), ts0)
	if u.Size() != 0 {
		t.Fatalf("n/a speed decoded to %d entries", u.Size())
	}
}

func TestDirectionsJustBelowFullTurnWrapToZero(t *testing.T) {
	const almost = 2*math.Pi - 1e-5

	u := sensorUpdate()
	if err := u.SetNavigationHeadingMagnetic(almost); err != nil {
		t.Fatal(err)
	}
	back := encodeDecode(t, &u, PGNVesselHeading)
	if back.Size() != 1 || back.NavigationHeadingMagnetic() != 0 {
		t.Fatalf("heading decoded size %d value %v want 0", back.Size(), back.NavigationHeadingMagnetic())
	}

	u = sensorUpdate()
	if err := u.SetNavigationCourseOverGroundTrue(almost); err != nil {
		t.Fatal(err)
	}
	if err := u.SetNavigationSpeedOverGround(2); err != nil {
		t.Fatal(err)
	}
	back = encodeDecode(t, &u, PGNCOGSOGRapid)
	if back.NavigationCourseOverGroundTrue() != 0 {
		t.Fatalf("cog=%v want 0", back.NavigationCourseOverGroundTrue())
	}

	u = sensorUpdate()
	if err := u.SetEnvironmentWindDirectionTrue(almost); err != nil {
		t.Fatal(err)
	}
	if err := u.SetEnvironmentWindSpeedOverGround(5); err != nil {
		t.Fatal(err)
	}
	back = encodeDecode(t, &u, PGNWindData)
	if back.EnvironmentWindDirectionTrue() != 0 {
		t.Fatalf("wind direction=%v want 0", back.EnvironmentWindDirectionTrue())
	}

	p := VesselHeading{Heading: signalk.Known(almost)}
	if raw := binary.LittleEndian.Uint16(p.Build()[1:]); raw != 0 {
		t.Fatalf("raw heading %d want 0", raw)
	}
}
