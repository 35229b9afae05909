// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import "math"

// Typed accessors for the well-known paths. Setters return the same errors as
// Set; numeric getters return NaN when the path is absent.

// Number returns the numeric value at p, or NaN.
func (u *Update) Number(p Path) float64 {
	v, ok := u.Lookup(p).Number()
	if !ok {
		return math.NaN()
	}
	return v
}

func (u *Update) setNumber(k Key, v float64) error {
	return u.Set(NewPath(k), NumberValue(v))
}

func (u *Update) number(k Key) float64 {
	return u.Number(NewPath(k))
}

// Navigation

func (u *Update) SetNavigationCourseOverGroundTrue(rad float64) error {
	return u.setNumber(NavigationCourseOverGroundTrue, rad)
}

func (u *Update) NavigationCourseOverGroundTrue() float64 {
	return u.number(NavigationCourseOverGroundTrue)
}

func (u *Update) SetNavigationHeadingMagnetic(rad float64) error {
	return u.setNumber(NavigationHeadingMagnetic, rad)
}

func (u *Update) NavigationHeadingMagnetic() float64 {
	return u.number(NavigationHeadingMagnetic)
}

func (u *Update) SetNavigationHeadingTrue(rad float64) error {
	return u.setNumber(NavigationHeadingTrue, rad)
}

func (u *Update) NavigationHeadingTrue() float64 {
	return u.number(NavigationHeadingTrue)
}

func (u *Update) SetNavigationMagneticVariation(rad float64) error {
	return u.setNumber(NavigationMagneticVariation, rad)
}

func (u *Update) NavigationMagneticVariation() float64 {
	return u.number(NavigationMagneticVariation)
}

func (u *Update) SetNavigationSpeedOverGround(ms float64) error {
	return u.setNumber(NavigationSpeedOverGround, ms)
}

func (u *Update) NavigationSpeedOverGround() float64 {
	return u.number(NavigationSpeedOverGround)
}

func (u *Update) SetNavigationSpeedThroughWater(ms float64) error {
	return u.setNumber(NavigationSpeedThroughWater, ms)
}

func (u *Update) NavigationSpeedThroughWater() float64 {
	return u.number(NavigationSpeedThroughWater)
}

func (u *Update) SetNavigationPosition(p Position) error {
	return u.Set(NewPath(NavigationPosition), PositionValue(p))
}

// NavigationPosition returns the position; ok is false when absent.
func (u *Update) NavigationPosition() (Position, bool) {
	return u.Lookup(NewPath(NavigationPosition)).Position()
}

func (u *Update) SetNavigationAttitude(a Attitude) error {
	return u.Set(NewPath(NavigationAttitude), AttitudeValue(a))
}

func (u *Update) NavigationAttitude() (Attitude, bool) {
	return u.Lookup(NewPath(NavigationAttitude)).Attitude()
}

// Environment

func (u *Update) SetEnvironmentDepthBelowKeel(m float64) error {
	return u.setNumber(EnvironmentDepthBelowKeel, m)
}

func (u *Update) EnvironmentDepthBelowKeel() float64 {
	return u.number(EnvironmentDepthBelowKeel)
}

func (u *Update) SetEnvironmentDepthBelowSurface(m float64) error {
	return u.setNumber(EnvironmentDepthBelowSurface, m)
}

func (u *Update) EnvironmentDepthBelowSurface() float64 {
	return u.number(EnvironmentDepthBelowSurface)
}

func (u *Update) SetEnvironmentDepthBelowTransducer(m float64) error {
	return u.setNumber(EnvironmentDepthBelowTransducer, m)
}

func (u *Update) EnvironmentDepthBelowTransducer() float64 {
	return u.number(EnvironmentDepthBelowTransducer)
}

func (u *Update) SetEnvironmentDepthSurfaceToTransducer(m float64) error {
	return u.setNumber(EnvironmentDepthSurfaceToTransducer, m)
}

func (u *Update) EnvironmentDepthSurfaceToTransducer() float64 {
	return u.number(EnvironmentDepthSurfaceToTransducer)
}

func (u *Update) SetEnvironmentDepthTransducerToKeel(m float64) error {
	return u.setNumber(EnvironmentDepthTransducerToKeel, m)
}

func (u *Update) EnvironmentDepthTransducerToKeel() float64 {
	return u.number(EnvironmentDepthTransducerToKeel)
}

// SetEnvironmentOutsidePressure takes pascals.
func (u *Update) SetEnvironmentOutsidePressure(pa float64) error {
	return u.setNumber(EnvironmentOutsidePressure, pa)
}

func (u *Update) EnvironmentOutsidePressure() float64 {
	return u.number(EnvironmentOutsidePressure)
}

// SetEnvironmentOutsideTemperature takes kelvin.
func (u *Update) SetEnvironmentOutsideTemperature(k float64) error {
	return u.setNumber(EnvironmentOutsideTemperature, k)
}

func (u *Update) EnvironmentOutsideTemperature() float64 {
	return u.number(EnvironmentOutsideTemperature)
}

func (u *Update) SetEnvironmentWaterTemperature(k float64) error {
	return u.setNumber(EnvironmentWaterTemperature, k)
}

func (u *Update) EnvironmentWaterTemperature() float64 {
	return u.number(EnvironmentWaterTemperature)
}

func (u *Update) SetEnvironmentWindAngleApparent(rad float64) error {
	return u.setNumber(EnvironmentWindAngleApparent, rad)
}

func (u *Update) EnvironmentWindAngleApparent() float64 {
	return u.number(EnvironmentWindAngleApparent)
}

func (u *Update) SetEnvironmentWindAngleTrueGround(rad float64) error {
	return u.setNumber(EnvironmentWindAngleTrueGround, rad)
}

func (u *Update) EnvironmentWindAngleTrueGround() float64 {
	return u.number(EnvironmentWindAngleTrueGround)
}

func (u *Update) SetEnvironmentWindAngleTrueWater(rad float64) error {
	return u.setNumber(EnvironmentWindAngleTrueWater, rad)
}

func (u *Update) EnvironmentWindAngleTrueWater() float64 {
	return u.number(EnvironmentWindAngleTrueWater)
}

func (u *Update) SetEnvironmentWindDirectionMagnetic(rad float64) error {
	return u.setNumber(EnvironmentWindDirectionMagnetic, rad)
}

func (u *Update) EnvironmentWindDirectionMagnetic() float64 {
	return u.number(EnvironmentWindDirectionMagnetic)
}

func (u *Update) SetEnvironmentWindDirectionTrue(rad float64) error {
	return u.setNumber(EnvironmentWindDirectionTrue, rad)
}

func (u *Update) EnvironmentWindDirectionTrue() float64 {
	return u.number(EnvironmentWindDirectionTrue)
}

func (u *Update) SetEnvironmentWindSpeedApparent(ms float64) error {
	return u.setNumber(EnvironmentWindSpeedApparent, ms)
}

func (u *Update) EnvironmentWindSpeedApparent() float64 {
	return u.number(EnvironmentWindSpeedApparent)
}

func (u *Update) SetEnvironmentWindSpeedOverGround(ms float64) error {
	return u.setNumber(EnvironmentWindSpeedOverGround, ms)
}

func (u *Update) EnvironmentWindSpeedOverGround() float64 {
	return u.number(EnvironmentWindSpeedOverGround)
}

func (u *Update) SetEnvironmentWindSpeedTrue(ms float64) error {
	return u.setNumber(EnvironmentWindSpeedTrue, ms)
}

func (u *Update) EnvironmentWindSpeedTrue() float64 {
	return u.number(EnvironmentWindSpeedTrue)
}

// Electrical

func (u *Update) SetElectricalBattery(name string, b Battery) error {
	return u.Set(NewIndexedPath(ElectricalBatteries, name), BatteryValue(b))
}

func (u *Update) ElectricalBattery(name string) (Battery, bool) {
	return u.Lookup(NewIndexedPath(ElectricalBatteries, name)).Battery()
}

func (u *Update) SetElectricalBatteryVoltage(name string, v float64) error {
	return u.Set(NewIndexedPath(ElectricalBatteriesVoltage, name), NumberValue(v))
}

func (u *Update) ElectricalBatteryVoltage(name string) float64 {
	return u.Number(NewIndexedPath(ElectricalBatteriesVoltage, name))
}

func (u *Update) SetElectricalBatteryCurrent(name string, a float64) error {
	return u.Set(NewIndexedPath(ElectricalBatteriesCurrent, name), NumberValue(a))
}

func (u *Update) ElectricalBatteryCurrent(name string) float64 {
	return u.Number(NewIndexedPath(ElectricalBatteriesCurrent, name))
}

func (u *Update) SetElectricalBatteryTemperature(name string, k float64) error {
	return u.Set(NewIndexedPath(ElectricalBatteriesTemperature, name), NumberValue(k))
}

func (u *Update) ElectricalBatteryTemperature(name string) float64 {
	return u.Number(NewIndexedPath(ElectricalBatteriesTemperature, name))
}

// Steering

func (u *Update) SetSteeringRudderAngle(rad float64) error {
	return u.setNumber(SteeringRudderAngle, rad)
}

func (u *Update) SteeringRudderAngle() float64 {
	return u.number(SteeringRudderAngle)
}
