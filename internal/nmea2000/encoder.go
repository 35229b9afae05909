// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea2000

import (
	"sync"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// DefaultQueueSize bounds the encoder's pending message queue.
const DefaultQueueSize = 16

// sidNone is the sequence id of messages not tied to other messages.
const sidNone uint8 = 0xFF

type EncoderConfig struct {
	// Source is the address messages are sent from.
	Source    uint8
	Instances Instances
	QueueSize int
}

// Encoder renders updates as NMEA2000 messages. Messages accumulate in a
// bounded queue until the owner drains it; messages that do not fit are
// dropped and counted.
type Encoder struct {
	mu        sync.Mutex
	source    uint8
	instances Instances
	queue     []Message
	limit     int
	dropped   int
}

func NewEncoder(cfg EncoderConfig) *Encoder {
	if cfg.Instances == nil {
		cfg.Instances = DefaultInstances()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Encoder{
		source:    cfg.Source,
		instances: cfg.Instances,
		limit:     cfg.QueueSize,
		queue:     make([]Message, 0, cfg.QueueSize),
	}
}

// UpdateReceived makes the encoder a hub subscriber.
func (e *Encoder) UpdateReceived(u *signalk.Update) {
	e.Encode(u)
}

// Messages returns the pending messages. The slice is only valid until the
// next Flush.
func (e *Encoder) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue
}

// Flush empties the queue.
func (e *Encoder) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.queue)
	e.queue = e.queue[:0]
}

// Drain returns a copy of the pending messages and empties the queue.
func (e *Encoder) Drain() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.queue))
	copy(out, e.queue)
	clear(e.queue)
	e.queue = e.queue[:0]
	return out
}

// Dropped returns how many messages were discarded on a full queue.
func (e *Encoder) Dropped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

func (e *Encoder) push(pgn uint32, data []byte) {
	m := Message{
		Header: Header{
			Priority:    DefaultPriority(pgn),
			PGN:         pgn,
			Source:      e.source,
			Destination: BroadcastAddress,
		},
		Data: data,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) >= e.limit {
		e.dropped++
		return
	}
	e.queue = append(e.queue, m)
}

// number looks up a numeric path.
func number(u *signalk.Update, k signalk.Key) signalk.Float {
	v, ok := u.Lookup(signalk.NewPath(k)).Number()
	if !ok {
		return signalk.Float{}
	}
	return signalk.Known(v)
}

func indexedNumber(u *signalk.Update, k signalk.Key, name string) signalk.Float {
	v, ok := u.Lookup(signalk.NewIndexedPath(k, name)).Number()
	if !ok {
		return signalk.Float{}
	}
	return signalk.Known(v)
}

// Encode queues the messages for u. Paired values (COG with SOG, wind angle
// with its speed) are only sent when both halves are present.
func (e *Encoder) Encode(u *signalk.Update) {
	for i := 0; i < u.Size(); i++ {
		p, v := u.At(i)
		switch p.Key() {
		case signalk.ElectricalBatteries:
			if b, ok := v.Battery(); ok && b.Voltage.Known() {
				e.battery(p.Instance(), b)
			}
		case signalk.ElectricalBatteriesVoltage:
			// a compound value with a voltage carries the whole status
			if b, ok := u.ElectricalBattery(p.Instance()); ok && b.Voltage.Known() {
				break
			}
			if volts, ok := v.Number(); ok {
				e.battery(p.Instance(), signalk.Battery{
					Voltage:     signalk.Known(volts),
					Current:     indexedNumber(u, signalk.ElectricalBatteriesCurrent, p.Instance()),
					Temperature: indexedNumber(u, signalk.ElectricalBatteriesTemperature, p.Instance()),
				})
			}
		case signalk.EnvironmentOutsidePressure:
			if pa, ok := v.Number(); ok {
				env := EnvironmentalParameters{
					SID:                sidNone,
					Pressure:           signalk.Known(pa),
					OutsideTemperature: number(u, signalk.EnvironmentOutsideTemperature),
					WaterTemperature:   number(u, signalk.EnvironmentWaterTemperature),
				}
				e.push(PGNEnvironmentalParameters, env.Build())
			}
		case signalk.NavigationAttitude:
			if a, ok := v.Attitude(); ok {
				att := Attitude{SID: sidNone, Yaw: a.Yaw, Pitch: a.Pitch, Roll: a.Roll}
				e.push(PGNAttitude, att.Build())
			}
		case signalk.NavigationHeadingMagnetic:
			if h, ok := v.Number(); ok {
				vh := VesselHeading{
					SID:       sidNone,
					Heading:   signalk.Known(signalk.NormalizeDirectionRad(h)),
					Variation: number(u, signalk.NavigationMagneticVariation),
					Reference: HeadingMagnetic,
				}
				e.push(PGNVesselHeading, vh.Build())
			}
		case signalk.NavigationHeadingTrue:
			if h, ok := v.Number(); ok {
				vh := VesselHeading{
					SID:       sidNone,
					Heading:   signalk.Known(signalk.NormalizeDirectionRad(h)),
					Reference: HeadingTrue,
				}
				e.push(PGNVesselHeading, vh.Build())
			}
		case signalk.NavigationCourseOverGroundTrue:
			cog, ok := v.Number()
			sog := number(u, signalk.NavigationSpeedOverGround)
			if ok && sog.Known() {
				c := COGSOGRapid{
					SID:       sidNone,
					Reference: HeadingTrue,
					COG:       signalk.Known(signalk.NormalizeDirectionRad(cog)),
					SOG:       sog,
				}
				e.push(PGNCOGSOGRapid, c.Build())
			}
		case signalk.EnvironmentWindDirectionTrue:
			e.wind(u, v, signalk.EnvironmentWindSpeedOverGround, WindTrueNorth)
		case signalk.EnvironmentWindDirectionMagnetic:
			e.wind(u, v, signalk.EnvironmentWindSpeedOverGround, WindMagnetic)
		case signalk.EnvironmentWindAngleApparent:
			e.wind(u, v, signalk.EnvironmentWindSpeedApparent, WindApparent)
		case signalk.EnvironmentWindAngleTrueGround:
			e.wind(u, v, signalk.EnvironmentWindSpeedOverGround, WindTrueBoat)
		case signalk.EnvironmentWindAngleTrueWater:
			e.wind(u, v, signalk.EnvironmentWindSpeedTrue, WindTrueWater)
		case signalk.SteeringRudderAngle:
			if rad, ok := v.Number(); ok {
				r := Rudder{Instance: 0, DirectionOrder: 0, Position: signalk.Known(signalk.NormalizeAngleRad(rad))}
				e.push(PGNRudder, r.Build())
			}
		case signalk.NavigationSpeedThroughWater:
			if ms, ok := v.Number(); ok {
				s := SpeedWater{SID: sidNone, WaterReferenced: signalk.Known(ms)}
				e.push(PGNSpeedWater, s.Build())
			}
		case signalk.NavigationPosition:
			if pos, ok := v.Position(); ok {
				r := PositionRapid{Latitude: signalk.Known(pos.Latitude), Longitude: signalk.Known(pos.Longitude)}
				if r.Latitude.Known() && r.Longitude.Known() {
					e.push(PGNPositionRapid, r.Build())
				}
			}
		case signalk.EnvironmentDepthBelowTransducer:
			if depth, ok := v.Number(); ok {
				d := WaterDepth{SID: sidNone, Depth: signalk.Known(depth), Offset: depthOffset(u)}
				e.push(PGNWaterDepth, d.Build())
			}
		case signalk.NavigationSpeedOverGround,
			signalk.NavigationMagneticVariation,
			signalk.EnvironmentWindSpeedApparent,
			signalk.EnvironmentWindSpeedOverGround,
			signalk.EnvironmentWindSpeedTrue,
			signalk.EnvironmentOutsideTemperature,
			signalk.EnvironmentWaterTemperature,
			signalk.EnvironmentDepthBelowKeel,
			signalk.EnvironmentDepthBelowSurface,
			signalk.EnvironmentDepthSurfaceToTransducer,
			signalk.EnvironmentDepthTransducerToKeel,
			signalk.ElectricalBatteriesCurrent,
			signalk.ElectricalBatteriesTemperature:
			// sent as part of another message
		}
	}
}

func (e *Encoder) battery(name string, b signalk.Battery) {
	p := BatteryStatus{
		Instance:    e.instances.Number(name),
		Voltage:     b.Voltage,
		Current:     b.Current,
		Temperature: b.Temperature,
		SID:         sidNone,
	}
	e.push(PGNBatteryStatus, p.Build())
}

func (e *Encoder) wind(u *signalk.Update, angle signalk.Value, speedKey signalk.Key, ref WindReference) {
	rad, ok := angle.Number()
	speed := number(u, speedKey)
	if !ok || !speed.Known() {
		return
	}
	w := WindData{
		SID:       sidNone,
		Speed:     speed,
		Angle:     signalk.Known(signalk.NormalizeDirectionRad(rad)),
		Reference: ref,
	}
	e.push(PGNWindData, w.Build())
}

// depthOffset is the 128267 offset: distance to the waterline when known,
// otherwise minus the distance to the keel.
func depthOffset(u *signalk.Update) signalk.Float {
	if f := number(u, signalk.EnvironmentDepthSurfaceToTransducer); f.Known() {
		return f
	}
	if v, ok := number(u, signalk.EnvironmentDepthTransducerToKeel).Get(); ok {
		return signalk.Known(-v)
	}
	return signalk.Float{}
}
