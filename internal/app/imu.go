// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// IMULabel is the source label of attitude updates.
const IMULabel = "mpu9250"

// Accelerometer reads one acceleration sample with z reading +1g when
// level. Only the ratios between the axes are used, so any unit works.
type Accelerometer interface {
	Acceleration() (x, y, z float64, err error)
}

// Magnetometer reads the magnetic field in the accelerometer's frame, x
// forward and y to starboard, any unit.
type Magnetometer interface {
	MagneticField() (x, y, z float64, err error)
}

// mpuAccel reads the raw accelerometer registers of an MPU9250.
type mpuAccel struct {
	dev *mpu9250.MPU9250
}

func (a mpuAccel) Acceleration() (x, y, z float64, err error) {
	ax, err := a.dev.GetAccelerationX()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("acc X: %w", err)
	}
	ay, err := a.dev.GetAccelerationY()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("acc Y: %w", err)
	}
	az, err := a.dev.GetAccelerationZ()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("acc Z: %w", err)
	}
	return float64(ax), float64(ay), float64(az), nil
}

// Tilt estimates roll and pitch in radians from an accelerometer sample.
// It is only right while the boat is not accelerating; the producer sends it
// as a coarse attitude:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func Tilt(ax, ay, az float64) (roll, pitch float64) {
	roll = math.Atan2(ay, az)
	pitch = math.Atan2(-ax, math.Sqrt(ay*ay+az*az))
	return roll, pitch
}

// TiltCompensatedHeading rotates a field sample back to the horizontal plane
// and returns the magnetic heading in [0, 2pi).
func TiltCompensatedHeading(mx, my, mz, roll, pitch float64) float64 {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	xh := mx*cp + my*sr*sp + mz*cr*sp
	yh := my*cr - mz*sr
	return signalk.NormalizeDirectionRad(math.Atan2(-yh, xh))
}

// IMU produces navigation.attitude updates from an accelerometer, plus
// navigation.headingMagnetic when a magnetometer is attached.
type IMU struct {
	accel    Accelerometer
	mag      Magnetometer
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// OpenIMU initialises periph and the MPU9250 on the configured SPI device.
// The upstream mpu9250 driver does not reach the AK8963 magnetometer, so
// the opened IMU reports attitude only.
func OpenIMU(cfg config.IMUConfig) (*IMU, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	cs := gpioreg.ByName(cfg.CSPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", cfg.CSPin)
	}
	tr, err := mpu9250.NewSpiTransport(cfg.SPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", cfg.SPIDevice, err)
	}
	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU device creation: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU initialization: %w", err)
	}
	if cfg.Calibrate {
		if _, err := dev.SelfTest(); err != nil {
			return nil, fmt.Errorf("IMU self-test: %w", err)
		}
		if err := dev.Calibrate(); err != nil {
			return nil, fmt.Errorf("IMU calibrate: %w", err)
		}
	}
	m := NewIMU(mpuAccel{dev: dev}, nil, cfg.Interval)
	m.log.Info("IMU initialized", zap.String("spi", cfg.SPIDevice), zap.Bool("calibrated", cfg.Calibrate))
	return m, nil
}

// NewIMU reads from accel and, when not nil, mag.
func NewIMU(accel Accelerometer, mag Magnetometer, interval time.Duration) *IMU {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &IMU{
		accel:    accel,
		mag:      mag,
		interval: interval,
		now:      time.Now,
		log:      logger.GetLogger().Named("imu"),
	}
}

// Sample reads the sensors once. Yaw is left unknown; the heading, when
// there is one, goes to its own path.
func (m *IMU) Sample() (signalk.Update, error) {
	ax, ay, az, err := m.accel.Acceleration()
	if err != nil {
		return signalk.Update{}, fmt.Errorf("IMU sense: %w", err)
	}
	if ax == 0 && ay == 0 && az == 0 {
		return signalk.Update{}, fmt.Errorf("IMU sense: zero acceleration")
	}
	roll, pitch := Tilt(ax, ay, az)

	u := signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, IMULabel), signalk.TimestampOf(m.now()))
	att := signalk.Attitude{Roll: signalk.Known(roll), Pitch: signalk.Known(pitch)}
	if err := u.SetNavigationAttitude(att); err != nil {
		return signalk.Update{}, err
	}
	if m.mag == nil {
		return u, nil
	}
	mx, my, mz, err := m.mag.MagneticField()
	if err != nil {
		// attitude is still good
		m.log.Debug("magnetometer read failed", zap.Error(err))
		return u, nil
	}
	if err := u.SetNavigationHeadingMagnetic(TiltCompensatedHeading(mx, my, mz, roll, pitch)); err != nil {
		return signalk.Update{}, err
	}
	return u, nil
}

// Run samples every interval until ctx is cancelled. Failed reads are
// logged and skipped.
func (m *IMU) Run(ctx context.Context, deliver func(signalk.Update)) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			u, err := m.Sample()
			if err != nil {
				m.log.Warn("sample failed", zap.Error(err))
				continue
			}
			deliver(u)
		}
	}
}
