// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import "fmt"

// Key identifies a canonical measurement. Keys are a closed set: code that
// dispatches on them switches over the constants below.
type Key int

const (
	NavigationAttitude Key = iota
	NavigationCourseOverGroundTrue
	NavigationHeadingMagnetic
	NavigationHeadingTrue
	NavigationMagneticVariation
	NavigationPosition
	NavigationSpeedOverGround
	NavigationSpeedThroughWater

	EnvironmentDepthBelowKeel
	EnvironmentDepthBelowSurface
	EnvironmentDepthBelowTransducer
	EnvironmentDepthSurfaceToTransducer
	EnvironmentDepthTransducerToKeel
	EnvironmentOutsidePressure
	EnvironmentOutsideTemperature
	EnvironmentWaterTemperature
	EnvironmentWindAngleApparent
	EnvironmentWindAngleTrueGround
	EnvironmentWindAngleTrueWater
	EnvironmentWindDirectionMagnetic
	EnvironmentWindDirectionTrue
	EnvironmentWindSpeedApparent
	EnvironmentWindSpeedOverGround
	EnvironmentWindSpeedTrue

	ElectricalBatteries
	ElectricalBatteriesVoltage
	ElectricalBatteriesCurrent
	ElectricalBatteriesTemperature

	SteeringRudderAngle

	numKeys
)

type keyInfo struct {
	name    string // dotted path, "%s" marks the instance for indexed keys
	indexed bool
}

var keyTable = [numKeys]keyInfo{
	NavigationAttitude:             {"navigation.attitude", false},
	NavigationCourseOverGroundTrue: {"navigation.courseOverGroundTrue", false},
	NavigationHeadingMagnetic:      {"navigation.headingMagnetic", false},
	NavigationHeadingTrue:          {"navigation.headingTrue", false},
	NavigationMagneticVariation:    {"navigation.magneticVariation", false},
	NavigationPosition:             {"navigation.position", false},
	NavigationSpeedOverGround:      {"navigation.speedOverGround", false},
	NavigationSpeedThroughWater:    {"navigation.speedThroughWater", false},

	EnvironmentDepthBelowKeel:           {"environment.depth.belowKeel", false},
	EnvironmentDepthBelowSurface:        {"environment.depth.belowSurface", false},
	EnvironmentDepthBelowTransducer:     {"environment.depth.belowTransducer", false},
	EnvironmentDepthSurfaceToTransducer: {"environment.depth.surfaceToTransducer", false},
	EnvironmentDepthTransducerToKeel:    {"environment.depth.transducerToKeel", false},
	EnvironmentOutsidePressure:          {"environment.outside.pressure", false},
	EnvironmentOutsideTemperature:       {"environment.outside.temperature", false},
	EnvironmentWaterTemperature:         {"environment.water.temperature", false},
	EnvironmentWindAngleApparent:        {"environment.wind.angleApparent", false},
	EnvironmentWindAngleTrueGround:      {"environment.wind.angleTrueGround", false},
	EnvironmentWindAngleTrueWater:       {"environment.wind.angleTrueWater", false},
	EnvironmentWindDirectionMagnetic:    {"environment.wind.directionMagnetic", false},
	EnvironmentWindDirectionTrue:        {"environment.wind.directionTrue", false},
	EnvironmentWindSpeedApparent:        {"environment.wind.speedApparent", false},
	EnvironmentWindSpeedOverGround:      {"environment.wind.speedOverGround", false},
	EnvironmentWindSpeedTrue:            {"environment.wind.speedTrue", false},

	ElectricalBatteries:            {"electrical.batteries.%s", true},
	ElectricalBatteriesVoltage:     {"electrical.batteries.%s.voltage", true},
	ElectricalBatteriesCurrent:     {"electrical.batteries.%s.current", true},
	ElectricalBatteriesTemperature: {"electrical.batteries.%s.temperature", true},

	SteeringRudderAngle: {"steering.rudderAngle", false},
}

// Valid reports whether k is one of the declared keys.
func (k Key) Valid() bool {
	return k >= 0 && k < numKeys
}

// Indexed reports whether paths built on k need an instance name.
func (k Key) Indexed() bool {
	return k.Valid() && keyTable[k].indexed
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyTable[k].name
}

// Path is a Key plus, for indexed keys, the instance it refers to
// (which battery, ...). Paths are comparable with ==: two paths are equal
// when both the key and the instance match.
type Path struct {
	key      Key
	instance string
}

// NewPath returns the path for a non-indexed key.
func NewPath(k Key) Path {
	return Path{key: k}
}

// NewIndexedPath returns the path for an indexed key and instance.
func NewIndexedPath(k Key, instance string) Path {
	return Path{key: k, instance: instance}
}

func (p Path) Key() Key         { return p.key }
func (p Path) Instance() string { return p.instance }

// Valid rejects unknown keys, indexed keys without an instance and
// instances given to non-indexed keys.
func (p Path) Valid() bool {
	if !p.key.Valid() {
		return false
	}
	if p.key.Indexed() {
		return p.instance != ""
	}
	return p.instance == ""
}

// String renders the dotted path, e.g. "electrical.batteries.house.voltage".
func (p Path) String() string {
	if !p.key.Valid() {
		return p.key.String()
	}
	if p.key.Indexed() {
		return fmt.Sprintf(keyTable[p.key].name, p.instance)
	}
	return keyTable[p.key].name
}
