// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"math"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// Decoder turns messages from one bus into updates. Each Decode returns an
// independent value; the decoder keeps no per-message state.
type Decoder struct {
	input     signalk.Input
	instances Instances
	capacity  int
}

// NewDecoder returns a decoder tagging its updates with input. A nil table
// uses DefaultInstances.
func NewDecoder(input signalk.Input, instances Instances) *Decoder {
	if instances == nil {
		instances = DefaultInstances()
	}
	return &Decoder{input: input, instances: instances, capacity: signalk.DefaultCapacity}
}

// SetCapacity sets the capacity of the updates Decode returns. Values are
// clamped to [1, signalk.MaxCapacity].
func (d *Decoder) SetCapacity(n int) { d.capacity = n }

// Decode converts m. Unsupported PGNs, short payloads and messages whose
// fields are all "not available" yield an update with Size() 0.
func (d *Decoder) Decode(m Message, ts signalk.Timestamp) signalk.Update {
	src := signalk.NMEA2000Source(d.input, m.PGN, m.Priority, m.Source)
	u := signalk.NewUpdate(src, ts, signalk.WithCapacity(d.capacity))

	var ok bool
	switch m.PGN {
	case PGNSystemTime:
		// parsed for validation only, the gateway clock is not set from the bus
		var p SystemTime
		_ = p.Parse(m.Data)
	case PGNRudder:
		ok = decodeRudder(&u, m.Data)
	case PGNVesselHeading:
		ok = decodeVesselHeading(&u, m.Data)
	case PGNAttitude:
		ok = decodeAttitude(&u, m.Data)
	case PGNBatteryStatus:
		ok = d.decodeBatteryStatus(&u, m.Data)
	case PGNSpeedWater:
		ok = decodeSpeedWater(&u, m.Data)
	case PGNWaterDepth:
		ok = decodeWaterDepth(&u, m.Data)
	case PGNPositionRapid:
		ok = decodePositionRapid(&u, m.Data)
	case PGNCOGSOGRapid:
		ok = decodeCOGSOGRapid(&u, m.Data)
	case PGNWindData:
		ok = decodeWindData(&u, m.Data)
	case PGNEnvironmentalParameters:
		ok = decodeEnvironmentalParameters(&u, m.Data)
	}
	if !ok {
		return signalk.NewUpdate(src, ts, signalk.WithCapacity(d.capacity))
	}
	return u
}

// setKnown writes f at k when known. It reports whether the update is still
// consistent: an unknown field is not a failure, a rejected write is.
func setKnown(u *signalk.Update, k signalk.Key, f signalk.Float) (wrote, ok bool) {
	v, known := f.Get()
	if !known {
		return false, true
	}
	if err := u.Set(signalk.NewPath(k), signalk.NumberValue(v)); err != nil {
		return false, false
	}
	return true, true
}

func decodeRudder(u *signalk.Update, data []byte) bool {
	var p Rudder
	if p.Parse(data) != nil {
		return false
	}
	wrote, ok := setKnown(u, signalk.SteeringRudderAngle, p.Position)
	return wrote && ok
}

func decodeVesselHeading(u *signalk.Update, data []byte) bool {
	var p VesselHeading
	if p.Parse(data) != nil {
		return false
	}
	h, ok := p.Heading.Get()
	if !ok || h < 0 || h > 2*math.Pi {
		return false
	}
	switch p.Reference {
	case HeadingMagnetic:
		if u.SetNavigationHeadingMagnetic(h) != nil {
			return false
		}
		_, ok = setKnown(u, signalk.NavigationMagneticVariation, p.Variation)
		return ok
	case HeadingTrue:
		return u.SetNavigationHeadingTrue(h) == nil
	}
	return false
}

func decodeAttitude(u *signalk.Update, data []byte) bool {
	var p Attitude
	if p.Parse(data) != nil {
		return false
	}
	if !p.Yaw.Known() && !p.Pitch.Known() && !p.Roll.Known() {
		return false
	}
	return u.SetNavigationAttitude(signalk.Attitude{Roll: p.Roll, Pitch: p.Pitch, Yaw: p.Yaw}) == nil
}

func (d *Decoder) decodeBatteryStatus(u *signalk.Update, data []byte) bool {
	var p BatteryStatus
	if p.Parse(data) != nil {
		return false
	}
	name := d.instances.Name(p.Instance)
	n := 0
	for _, f := range []struct {
		k signalk.Key
		v signalk.Float
	}{
		{signalk.ElectricalBatteriesVoltage, p.Voltage},
		{signalk.ElectricalBatteriesCurrent, p.Current},
		{signalk.ElectricalBatteriesTemperature, p.Temperature},
	} {
		v, known := f.v.Get()
		if !known {
			continue
		}
		if u.Set(signalk.NewIndexedPath(f.k, name), signalk.NumberValue(v)) != nil {
			return false
		}
		n++
	}
	return n > 0
}

func decodeSpeedWater(u *signalk.Update, data []byte) bool {
	var p SpeedWater
	if p.Parse(data) != nil {
		return false
	}
	wrote, ok := setKnown(u, signalk.NavigationSpeedThroughWater, p.WaterReferenced)
	return wrote && ok
}

func decodeWaterDepth(u *signalk.Update, data []byte) bool {
	var p WaterDepth
	if p.Parse(data) != nil {
		return false
	}
	depth, ok := p.Depth.Get()
	if !ok {
		return false
	}
	if u.SetEnvironmentDepthBelowTransducer(depth) != nil {
		return false
	}
	offset, ok := p.Offset.Get()
	switch {
	case !ok:
		return true
	case offset < 0:
		return u.SetEnvironmentDepthTransducerToKeel(-offset) == nil &&
			u.SetEnvironmentDepthBelowKeel(depth+offset) == nil
	case offset > 0:
		return u.SetEnvironmentDepthSurfaceToTransducer(offset) == nil &&
			u.SetEnvironmentDepthBelowSurface(depth+offset) == nil
	}
	return true
}

func decodePositionRapid(u *signalk.Update, data []byte) bool {
	var p PositionRapid
	if p.Parse(data) != nil {
		return false
	}
	lat, ok1 := p.Latitude.Get()
	lon, ok2 := p.Longitude.Get()
	if !ok1 || !ok2 {
		return false
	}
	return u.SetNavigationPosition(signalk.Position{Latitude: lat, Longitude: lon}) == nil
}

// COG is only written for the true reference; the canonical model has no
// magnetic course path. SOG does not depend on the reference.
func decodeCOGSOGRapid(u *signalk.Update, data []byte) bool {
	var p COGSOGRapid
	if p.Parse(data) != nil {
		return false
	}
	n := 0
	if p.Reference == HeadingTrue {
		wrote, ok := setKnown(u, signalk.NavigationCourseOverGroundTrue, p.COG)
		if !ok {
			return false
		}
		if wrote {
			n++
		}
	}
	wrote, ok := setKnown(u, signalk.NavigationSpeedOverGround, p.SOG)
	if !ok {
		return false
	}
	if wrote {
		n++
	}
	return n > 0
}

func decodeWindData(u *signalk.Update, data []byte) bool {
	var p WindData
	if p.Parse(data) != nil {
		return false
	}
	speed, ok1 := p.Speed.Get()
	angle, ok2 := p.Angle.Get()
	if !ok1 || !ok2 {
		return false
	}
	var speedKey, angleKey signalk.Key
	switch p.Reference {
	case WindTrueNorth:
		speedKey, angleKey = signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindDirectionTrue
		angle = signalk.NormalizeDirectionRad(angle)
	case WindMagnetic:
		speedKey, angleKey = signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindDirectionMagnetic
		angle = signalk.NormalizeDirectionRad(angle)
	case WindApparent:
		speedKey, angleKey = signalk.EnvironmentWindSpeedApparent, signalk.EnvironmentWindAngleApparent
		angle = signalk.NormalizeAngleRad(angle)
	case WindTrueBoat:
		speedKey, angleKey = signalk.EnvironmentWindSpeedOverGround, signalk.EnvironmentWindAngleTrueGround
		angle = signalk.NormalizeAngleRad(angle)
	case WindTrueWater:
		speedKey, angleKey = signalk.EnvironmentWindSpeedTrue, signalk.EnvironmentWindAngleTrueWater
		angle = signalk.NormalizeAngleRad(angle)
	default:
		return false
	}
	return u.Set(signalk.NewPath(speedKey), signalk.NumberValue(speed)) == nil &&
		u.Set(signalk.NewPath(angleKey), signalk.NumberValue(angle)) == nil
}

func decodeEnvironmentalParameters(u *signalk.Update, data []byte) bool {
	var p EnvironmentalParameters
	if p.Parse(data) != nil {
		return false
	}
	n := 0
	for _, f := range []struct {
		k signalk.Key
		v signalk.Float
	}{
		{signalk.EnvironmentOutsidePressure, p.Pressure},
		{signalk.EnvironmentOutsideTemperature, p.OutsideTemperature},
		{signalk.EnvironmentWaterTemperature, p.WaterTemperature},
	} {
		wrote, ok := setKnown(u, f.k, f.v)
		if !ok {
			return false
		}
		if wrote {
			n++
		}
	}
	return n > 0
}
