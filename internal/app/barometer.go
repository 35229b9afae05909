// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// BarometerLabel is the source label of barometer updates.
const BarometerLabel = "bmp280"

// EnvSensor reads one environmental sample. *bmxx80.Dev implements it.
type EnvSensor interface {
	Sense(e *physic.Env) error
}

// Barometer samples a BMP280/BME280 and produces pressure and temperature
// updates tagged with a sensor source.
type Barometer struct {
	dev      EnvSensor
	bus      i2c.BusCloser
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// OpenBarometer initialises periph and the sensor on the configured I2C bus.
func OpenBarometer(cfg config.BarometerConfig) (*Barometer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("barometer I2C open: %w", err)
	}
	dev, err := bmxx80.NewI2C(bus, cfg.Address, &bmxx80.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("barometer init at 0x%02X: %w", cfg.Address, err)
	}
	b := NewBarometer(dev, cfg.Interval)
	b.bus = bus
	b.log.Info("barometer initialized", zap.String("device", dev.String()))
	return b, nil
}

func NewBarometer(dev EnvSensor, interval time.Duration) *Barometer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Barometer{
		dev:      dev,
		interval: interval,
		now:      time.Now,
		log:      logger.GetLogger().Named("barometer"),
	}
}

// Sample reads the sensor once.
func (b *Barometer) Sample() (signalk.Update, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return signalk.Update{}, fmt.Errorf("barometer sense: %w", err)
	}

	u := signalk.NewUpdate(signalk.SensorSource(signalk.InputSensor, BarometerLabel), signalk.TimestampOf(b.now()))
	pressurePa := float64(e.Pressure) / float64(physic.Pascal)
	if err := u.SetEnvironmentOutsidePressure(pressurePa); err != nil {
		return signalk.Update{}, err
	}
	if err := u.SetEnvironmentOutsideTemperature(e.Temperature.Celsius() + signalk.KelvinOffset); err != nil {
		return signalk.Update{}, err
	}
	return u, nil
}

// Run samples every interval until ctx is cancelled. Failed reads are
// logged and skipped.
func (b *Barometer) Run(ctx context.Context, deliver func(signalk.Update)) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	if b.bus != nil {
		defer b.bus.Close()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			u, err := b.Sample()
			if err != nil {
				b.log.Warn("sample failed", zap.Error(err))
				continue
			}
			deliver(u)
		}
	}
}
