// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea0183

import (
	"math"

	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// DefaultTalker is the "integrated instrumentation" talker id.
const DefaultTalker = "II"

// EncoderConfig enables sentence output per field class.
type EncoderConfig struct {
	Talker    string
	Batteries bool // XDR V
	Barometer bool // XDR P
	Attitude  bool // XDR A pitch/roll
	Heading   bool // HDM
	Rudder    bool // RSA
	Wind      bool // MWV
}

// DefaultEncoderConfig enables every field class.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Talker:    DefaultTalker,
		Batteries: true,
		Barometer: true,
		Attitude:  true,
		Heading:   true,
		Rudder:    true,
		Wind:      true,
	}
}

// SentenceWriter sends one sentence, without line terminator.
type SentenceWriter interface {
	WriteSentence(s string) error
}

// WriterFunc adapts a function to SentenceWriter.
type WriterFunc func(s string) error

func (f WriterFunc) WriteSentence(s string) error { return f(s) }

// Encoder renders updates as sentences. As a hub subscriber it writes every
// sentence to its SentenceWriter.
type Encoder struct {
	cfg EncoderConfig
	w   SentenceWriter
	err error
}

func NewEncoder(cfg EncoderConfig, w SentenceWriter) *Encoder {
	if cfg.Talker == "" {
		cfg.Talker = DefaultTalker
	}
	return &Encoder{cfg: cfg, w: w}
}

// UpdateReceived encodes u and writes the sentences. The first write error is
// kept and returned by Err; later sentences are still attempted.
func (e *Encoder) UpdateReceived(u *signalk.Update) {
	if e.w == nil {
		return
	}
	for _, s := range e.Encode(u, nil) {
		if err := e.w.WriteSentence(s); err != nil && e.err == nil {
			e.err = err
		}
	}
}

// Err returns and clears the first write error since the last call.
func (e *Encoder) Err() error {
	err := e.err
	e.err = nil
	return err
}

// Encode appends the sentences for u to dst. Paths without an enabled
// sentence, and pairs missing one half, produce nothing.
func (e *Encoder) Encode(u *signalk.Update, dst []string) []string {
	for i := 0; i < u.Size(); i++ {
		p, v := u.At(i)
		switch p.Key() {
		case signalk.ElectricalBatteriesVoltage:
			if !e.cfg.Batteries || hasBatteryVoltage(u, p.Instance()) {
				break
			}
			if volts, ok := v.Number(); ok {
				dst = append(dst, e.batteryXDR(p.Instance(), volts))
			}
		case signalk.ElectricalBatteries:
			if !e.cfg.Batteries {
				break
			}
			if b, ok := v.Battery(); ok {
				if volts, ok := b.Voltage.Get(); ok {
					dst = append(dst, e.batteryXDR(p.Instance(), volts))
				}
			}
		case signalk.EnvironmentOutsidePressure:
			if e.cfg.Barometer {
				if pa, ok := v.Number(); ok {
					dst = append(dst, NewSentence(e.cfg.Talker, "XDR").
						AddString("P").AddFloat(pa/1e5, 5).AddString("B").AddString("Barometer").String())
				}
			}
		case signalk.NavigationAttitude:
			if e.cfg.Attitude {
				if a, ok := v.Attitude(); ok {
					if s, ok := e.attitudeXDR(a); ok {
						dst = append(dst, s)
					}
				}
			}
		case signalk.NavigationHeadingMagnetic:
			if e.cfg.Heading {
				if rad, ok := v.Number(); ok {
					dst = append(dst, NewSentence(e.cfg.Talker, "HDM").
						AddFloat(directionTenths(rad), 1).AddString("M").String())
				}
			}
		case signalk.SteeringRudderAngle:
			if e.cfg.Rudder {
				if rad, ok := v.Number(); ok {
					dst = append(dst, NewSentence(e.cfg.Talker, "RSA").
						AddFloat(angleTenths(rad), 1).AddString("A").AddEmpty().AddString("V").String())
				}
			}
		case signalk.EnvironmentWindAngleApparent:
			if e.cfg.Wind {
				if s, ok := e.windMWV(u, v, signalk.EnvironmentWindSpeedApparent, "R"); ok {
					dst = append(dst, s)
				}
			}
		case signalk.EnvironmentWindAngleTrueWater:
			if e.cfg.Wind {
				if s, ok := e.windMWV(u, v, signalk.EnvironmentWindSpeedTrue, "T"); ok {
					dst = append(dst, s)
				}
			}
		case signalk.EnvironmentWindSpeedApparent, signalk.EnvironmentWindSpeedTrue:
			// emitted together with the matching angle
		case signalk.NavigationCourseOverGroundTrue,
			signalk.NavigationHeadingTrue,
			signalk.NavigationMagneticVariation,
			signalk.NavigationPosition,
			signalk.NavigationSpeedOverGround,
			signalk.NavigationSpeedThroughWater,
			signalk.EnvironmentDepthBelowKeel,
			signalk.EnvironmentDepthBelowSurface,
			signalk.EnvironmentDepthBelowTransducer,
			signalk.EnvironmentDepthSurfaceToTransducer,
			signalk.EnvironmentDepthTransducerToKeel,
			signalk.EnvironmentOutsideTemperature,
			signalk.EnvironmentWaterTemperature,
			signalk.EnvironmentWindAngleTrueGround,
			signalk.EnvironmentWindDirectionMagnetic,
			signalk.EnvironmentWindDirectionTrue,
			signalk.EnvironmentWindSpeedOverGround,
			signalk.ElectricalBatteriesCurrent,
			signalk.ElectricalBatteriesTemperature:
			// no NMEA0183 output
		}
	}
	return dst
}

// hasBatteryVoltage reports whether the compound battery value of name
// carries a voltage. It then wins over the separate voltage path.
func hasBatteryVoltage(u *signalk.Update, name string) bool {
	b, ok := u.ElectricalBattery(name)
	return ok && b.Voltage.Known()
}

// Angles are rounded to the 0.1 degree the sentences carry before they are
// normalized, so 359.96 prints as 0.0 and -179.96 as 180.0.

func directionTenths(rad float64) float64 {
	return positiveZero(signalk.NormalizeDirection(math.Round(rad*signalk.RadToDeg*10) / 10))
}

func angleTenths(rad float64) float64 {
	return positiveZero(signalk.NormalizeAngle(math.Round(rad*signalk.RadToDeg*10) / 10))
}

// positiveZero turns -0 into 0 so it does not print as "-0.0".
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func (e *Encoder) batteryXDR(name string, volts float64) string {
	return NewSentence(e.cfg.Talker, "XDR").
		AddString("V").AddFloat(volts, 2).AddString("V").AddString(name).String()
}

// attitudeXDR emits the known angles of pitch and roll, in degrees.
func (e *Encoder) attitudeXDR(a signalk.Attitude) (string, bool) {
	pitch, okPitch := a.Pitch.Get()
	roll, okRoll := a.Roll.Get()
	if !okPitch && !okRoll {
		return "", false
	}
	s := NewSentence(e.cfg.Talker, "XDR")
	if okPitch {
		s.AddString("A").AddFloat(pitch*signalk.RadToDeg, 1).AddString("D").AddString("PTCH")
	}
	if okRoll {
		s.AddString("A").AddFloat(roll*signalk.RadToDeg, 1).AddString("D").AddString("ROLL")
	}
	return s.String(), true
}

func (e *Encoder) windMWV(u *signalk.Update, angle signalk.Value, speedKey signalk.Key, ref string) (string, bool) {
	rad, ok := angle.Number()
	if !ok {
		return "", false
	}
	speed, ok := u.Lookup(signalk.NewPath(speedKey)).Number()
	if !ok {
		return "", false
	}
	return NewSentence(e.cfg.Talker, "MWV").
		AddFloat(directionTenths(rad), 1).
		AddString(ref).
		AddFloat(speed, 2).
		AddString("M").
		AddString("A").
		String(), true
}
