// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// Screen is the part of *ssd1306.Dev the display page needs.
type Screen interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// DisplayData holds the latest values shown on the page. Fields are copied
// out of received updates; updates themselves are never retained.
type DisplayData struct {
	mu sync.RWMutex

	sog, cog, depth, awa, aws signalk.Float
}

// UpdateReceived makes the page a hub subscriber.
func (d *DisplayData) UpdateReceived(u *signalk.Update) {
	copyNumber := func(dst *signalk.Float, k signalk.Key) {
		if v, ok := u.Lookup(signalk.NewPath(k)).Number(); ok {
			*dst = signalk.Known(v)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	copyNumber(&d.sog, signalk.NavigationSpeedOverGround)
	copyNumber(&d.cog, signalk.NavigationCourseOverGroundTrue)
	copyNumber(&d.depth, signalk.EnvironmentDepthBelowTransducer)
	copyNumber(&d.awa, signalk.EnvironmentWindAngleApparent)
	copyNumber(&d.aws, signalk.EnvironmentWindSpeedApparent)
}

// Lines renders the page text: SOG and COG, depth, apparent wind.
func (d *DisplayData) Lines() [4]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var lines [4]string
	lines[0] = "SOG " + formatValue(d.sog, 1/signalk.KnotsToMS, "%5.1fkn")
	lines[1] = "COG " + formatValue(d.cog, signalk.RadToDeg, "%5.0f")
	lines[2] = "DPT " + formatValue(d.depth, 1, "%5.1fm")
	lines[3] = "AW  " + formatValue(d.awa, signalk.RadToDeg, "%4.0f") + " " +
		formatValue(d.aws, 1/signalk.KnotsToMS, "%4.1f")
	return lines
}

// formatValue prints v*scale, or dashes when v is unknown.
func formatValue(v signalk.Float, scale float64, layout string) string {
	x, ok := v.Get()
	if !ok {
		return "  ---"
	}
	return fmt.Sprintf(layout, x*scale)
}

// RenderPage draws lines on a 128x64 one bit image.
func RenderPage(lines [4]string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, l := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(l)
	}
	return img
}

// addrBus sends every transaction to addr. The ssd1306 driver always talks
// to 0x3C; panels strapped to 0x3D need the rewrite.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error { return b.Bus.Tx(b.addr, w, r) }

// Display refreshes an ssd1306 page from DisplayData.
type Display struct {
	Data     *DisplayData
	screen   Screen
	bus      i2c.BusCloser
	interval time.Duration
	log      *zap.Logger
}

// OpenDisplay initialises periph and the ssd1306 on the configured bus.
func OpenDisplay(cfg config.DisplayConfig) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}
	dev, err := ssd1306.NewI2C(addrBus{Bus: bus, addr: cfg.Address}, &ssd1306.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to initialize display at 0x%02X: %w", cfg.Address, err)
	}
	d := NewDisplay(dev, cfg.Interval)
	d.bus = bus
	d.log.Info("display initialized", zap.Uint16("address", cfg.Address))
	return d, nil
}

func NewDisplay(screen Screen, interval time.Duration) *Display {
	if interval <= 0 {
		interval = time.Second
	}
	return &Display{
		Data:     &DisplayData{},
		screen:   screen,
		interval: interval,
		log:      logger.GetLogger().Named("display"),
	}
}

// Refresh draws the current page once.
func (d *Display) Refresh() error {
	return d.screen.Draw(d.screen.Bounds(), RenderPage(d.Data.Lines()), image.Point{})
}

// Run refreshes every interval until ctx is cancelled.
func (d *Display) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	if d.bus != nil {
		defer d.bus.Close()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Refresh(); err != nil {
				d.log.Warn("refresh failed", zap.Error(err))
			}
		}
	}
}
