// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"encoding/binary"
	"time"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

const (
	PGNSystemTime              uint32 = 126992
	PGNRudder                  uint32 = 127245
	PGNVesselHeading           uint32 = 127250
	PGNAttitude                uint32 = 127257
	PGNBatteryStatus           uint32 = 127508
	PGNSpeedWater              uint32 = 128259
	PGNWaterDepth              uint32 = 128267
	PGNPositionRapid           uint32 = 129025
	PGNCOGSOGRapid             uint32 = 129026
	PGNWindData                uint32 = 130306
	PGNEnvironmentalParameters uint32 = 130310
)

type pgnInfo struct {
	name     string
	priority uint8
}

var pgnTable = map[uint32]pgnInfo{
	PGNSystemTime:              {"System Time", 3},
	PGNRudder:                  {"Rudder", 2},
	PGNVesselHeading:           {"Vessel Heading", 2},
	PGNAttitude:                {"Attitude", 3},
	PGNBatteryStatus:           {"Battery Status", 6},
	PGNSpeedWater:              {"Speed, Water referenced", 2},
	PGNWaterDepth:              {"Water Depth", 3},
	PGNPositionRapid:           {"Position, Rapid Update", 2},
	PGNCOGSOGRapid:             {"COG & SOG, Rapid Update", 2},
	PGNWindData:                {"Wind Data", 2},
	PGNEnvironmentalParameters: {"Environmental Parameters", 5},
}

// PGNName returns a human readable name, or "unknown".
func PGNName(pgn uint32) string {
	if info, ok := pgnTable[pgn]; ok {
		return info.name
	}
	return "unknown"
}

// DefaultPriority is the priority a PGN is sent with; 6 for unknown PGNs.
func DefaultPriority(pgn uint32) uint8 {
	if info, ok := pgnTable[pgn]; ok {
		return info.priority
	}
	return 6
}

// HeadingReference is the 2-bit direction reference of 127250 and 129026.
type HeadingReference uint8

const (
	HeadingTrue     HeadingReference = 0
	HeadingMagnetic HeadingReference = 1
	HeadingError    HeadingReference = 2
	HeadingNA       HeadingReference = 3
)

// WindReference is the 3-bit reference of 130306.
type WindReference uint8

const (
	WindTrueNorth   WindReference = 0 // ground referenced to true north
	WindMagnetic    WindReference = 1 // ground referenced to magnetic north
	WindApparent    WindReference = 2
	WindTrueBoat    WindReference = 3 // true, boat referenced, ground speed
	WindTrueWater   WindReference = 4 // true, boat referenced, water speed
	WindReferenceNA WindReference = 7
)

// SystemTime is PGN 126992.
type SystemTime struct {
	SID     uint8
	Source  uint8 // 0 GPS, 1 GLONASS, 2 radio station, 3 local cesium, ...
	Days    uint16
	Seconds signalk.Float // since midnight
}

func (p *SystemTime) Parse(data []byte) error {
	if err := need(data, 8); err != nil {
		return err
	}
	p.SID = data[0]
	p.Source = data[1] & 0x0F
	p.Days = binary.LittleEndian.Uint16(data[2:])
	p.Seconds = getU32(data, 4, 10000)
	return nil
}

// Time returns the UTC time; ok is false when either part is not available.
func (p *SystemTime) Time() (t time.Time, ok bool) {
	sec, ok := p.Seconds.Get()
	if !ok || p.Days > maxU16 {
		return time.Time{}, false
	}
	d := time.Duration(p.Days)*24*time.Hour + time.Duration(sec*float64(time.Second))
	return time.Unix(0, 0).UTC().Add(d), true
}

// Rudder is PGN 127245. Angles in radians, positive to starboard.
type Rudder struct {
	Instance       uint8
	DirectionOrder uint8
	AngleOrder     signalk.Float
	Position       signalk.Float
}

func (p *Rudder) Parse(data []byte) error {
	if err := need(data, 6); err != nil {
		return err
	}
	p.Instance = data[0]
	p.DirectionOrder = data[1] & 0x07
	p.AngleOrder = getI16(data, 2, 10000)
	p.Position = getI16(data, 4, 10000)
	return nil
}

func (p *Rudder) Build() []byte {
	b := newPayload()
	b[0] = p.Instance
	b[1] = p.DirectionOrder&0x07 | 0xF8
	putI16(b, 2, p.AngleOrder, 10000)
	putI16(b, 4, p.Position, 10000)
	return b
}

// VesselHeading is PGN 127250. Angles in radians.
type VesselHeading struct {
	SID       uint8
	Heading   signalk.Float
	Deviation signalk.Float
	Variation signalk.Float
	Reference HeadingReference
}

func (p *VesselHeading) Parse(data []byte) error {
	if err := need(data, 8); err != nil {
		return err
	}
	p.SID = data[0]
	p.Heading = getU16(data, 1, 10000)
	p.Deviation = getI16(data, 3, 10000)
	p.Variation = getI16(data, 5, 10000)
	p.Reference = HeadingReference(data[7] & 0x03)
	return nil
}

func (p *VesselHeading) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putAngle(b, 1, p.Heading)
	putI16(b, 3, p.Deviation, 10000)
	putI16(b, 5, p.Variation, 10000)
	b[7] = uint8(p.Reference)&0x03 | 0xFC
	return b
}

// Attitude is PGN 127257. Angles in radians.
type Attitude struct {
	SID   uint8
	Yaw   signalk.Float
	Pitch signalk.Float
	Roll  signalk.Float
}

func (p *Attitude) Parse(data []byte) error {
	if err := need(data, 7); err != nil {
		return err
	}
	p.SID = data[0]
	p.Yaw = getI16(data, 1, 10000)
	p.Pitch = getI16(data, 3, 10000)
	p.Roll = getI16(data, 5, 10000)
	return nil
}

func (p *Attitude) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putI16(b, 1, p.Yaw, 10000)
	putI16(b, 3, p.Pitch, 10000)
	putI16(b, 5, p.Roll, 10000)
	return b
}

// BatteryStatus is PGN 127508: volts, amperes, kelvin.
type BatteryStatus struct {
	Instance    uint8
	Voltage     signalk.Float
	Current     signalk.Float
	Temperature signalk.Float
	SID         uint8
}

func (p *BatteryStatus) Parse(data []byte) error {
	if err := need(data, 8); err != nil {
		return err
	}
	p.Instance = data[0]
	p.Voltage = getI16(data, 1, 100)
	p.Current = getI16(data, 3, 10)
	p.Temperature = getU16(data, 5, 100)
	p.SID = data[7]
	return nil
}

func (p *BatteryStatus) Build() []byte {
	b := newPayload()
	b[0] = p.Instance
	putI16(b, 1, p.Voltage, 100)
	putI16(b, 3, p.Current, 10)
	putU16(b, 5, p.Temperature, 100)
	b[7] = p.SID
	return b
}

// SpeedWater is PGN 128259. Speeds in m/s.
type SpeedWater struct {
	SID              uint8
	WaterReferenced  signalk.Float
	GroundReferenced signalk.Float
	ReferenceType    uint8 // 0 paddle wheel, 1 pitot, 2 doppler, 3 correlation, 4 EM
}

func (p *SpeedWater) Parse(data []byte) error {
	if err := need(data, 6); err != nil {
		return err
	}
	p.SID = data[0]
	p.WaterReferenced = getU16(data, 1, 100)
	p.GroundReferenced = getU16(data, 3, 100)
	p.ReferenceType = data[5]
	return nil
}

func (p *SpeedWater) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putU16(b, 1, p.WaterReferenced, 100)
	putU16(b, 3, p.GroundReferenced, 100)
	b[5] = p.ReferenceType
	return b
}

// WaterDepth is PGN 128267. Depth below transducer and offset in meters;
// a positive offset is the distance to the waterline, a negative one to the
// keel. Range is the sounder range in meters.
type WaterDepth struct {
	SID    uint8
	Depth  signalk.Float
	Offset signalk.Float
	Range  signalk.Float
}

func (p *WaterDepth) Parse(data []byte) error {
	if err := need(data, 7); err != nil {
		return err
	}
	p.SID = data[0]
	p.Depth = getU32(data, 1, 100)
	p.Offset = getI16(data, 5, 1000)
	if len(data) > 7 {
		p.Range = scaleFloat(getU8(data, 7, 1), 10)
	} else {
		p.Range = signalk.Float{}
	}
	return nil
}

func (p *WaterDepth) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putU32(b, 1, p.Depth, 100)
	putI16(b, 5, p.Offset, 1000)
	putU8(b, 7, p.Range, 0.1)
	return b
}

// PositionRapid is PGN 129025, decimal degrees.
type PositionRapid struct {
	Latitude  signalk.Float
	Longitude signalk.Float
}

func (p *PositionRapid) Parse(data []byte) error {
	if err := need(data, 8); err != nil {
		return err
	}
	p.Latitude = getI32(data, 0, 1e7)
	p.Longitude = getI32(data, 4, 1e7)
	return nil
}

func (p *PositionRapid) Build() []byte {
	b := newPayload()
	putI32(b, 0, p.Latitude, 1e7)
	putI32(b, 4, p.Longitude, 1e7)
	return b
}

// COGSOGRapid is PGN 129026. COG in radians, SOG in m/s.
type COGSOGRapid struct {
	SID       uint8
	Reference HeadingReference
	COG       signalk.Float
	SOG       signalk.Float
}

func (p *COGSOGRapid) Parse(data []byte) error {
	if err := need(data, 6); err != nil {
		return err
	}
	p.SID = data[0]
	p.Reference = HeadingReference(data[1] & 0x03)
	p.COG = getU16(data, 2, 10000)
	p.SOG = getU16(data, 4, 100)
	return nil
}

func (p *COGSOGRapid) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	b[1] = uint8(p.Reference)&0x03 | 0xFC
	putAngle(b, 2, p.COG)
	putU16(b, 4, p.SOG, 100)
	return b
}

// WindData is PGN 130306. Speed in m/s, angle in radians [0, 2pi).
type WindData struct {
	SID       uint8
	Speed     signalk.Float
	Angle     signalk.Float
	Reference WindReference
}

func (p *WindData) Parse(data []byte) error {
	if err := need(data, 6); err != nil {
		return err
	}
	p.SID = data[0]
	p.Speed = getU16(data, 1, 100)
	p.Angle = getU16(data, 3, 10000)
	p.Reference = WindReference(data[5] & 0x07)
	return nil
}

func (p *WindData) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putU16(b, 1, p.Speed, 100)
	putAngle(b, 3, p.Angle)
	b[5] = uint8(p.Reference)&0x07 | 0xF8
	return b
}

// EnvironmentalParameters is PGN 130310. Temperatures in kelvin, pressure in
// pascal (sent in hectopascal).
type EnvironmentalParameters struct {
	SID                uint8
	WaterTemperature   signalk.Float
	OutsideTemperature signalk.Float
	Pressure           signalk.Float
}

func (p *EnvironmentalParameters) Parse(data []byte) error {
	if err := need(data, 7); err != nil {
		return err
	}
	p.SID = data[0]
	p.WaterTemperature = getU16(data, 1, 100)
	p.OutsideTemperature = getU16(data, 3, 100)
	p.Pressure = scaleFloat(getU16(data, 5, 1), 100)
	return nil
}

func (p *EnvironmentalParameters) Build() []byte {
	b := newPayload()
	b[0] = p.SID
	putU16(b, 1, p.WaterTemperature, 100)
	putU16(b, 3, p.OutsideTemperature, 100)
	putU16(b, 5, p.Pressure, 0.01)
	return b
}
