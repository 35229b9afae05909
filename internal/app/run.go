// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/hub"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/nmea0183"
	"github.com/relabs-tech/marine_gateway/internal/nmea2000"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// NewGatewayFromConfig builds the gateway core without opening any link.
func NewGatewayFromConfig(cfg *config.Config) *Gateway {
	return NewGateway(GatewayConfig{
		MaxSubscribers: cfg.Hub.MaxSubscribers,
		UpdateCapacity: cfg.Hub.UpdateCapacity,
		Instances:      nmea2000.Instances(cfg.NMEA2000Out.Batteries),
		Source:         cfg.NMEA2000.Source,
		QueueSize:      cfg.NMEA2000Out.QueueSize,
		Output:         OutputConfig(cfg.NMEA0183Out),
	})
}

// OutputConfig maps the nmea0183_out section to an encoder configuration.
func OutputConfig(c config.NMEA0183OutConfig) nmea0183.EncoderConfig {
	return nmea0183.EncoderConfig{
		Talker:    c.Talker,
		Batteries: c.Batteries,
		Barometer: c.Barometer,
		Attitude:  c.Attitude,
		Heading:   c.Heading,
		Rudder:    c.Rudder,
		Wind:      c.Wind,
	}
}

// RunGateway opens every enabled link from the global configuration and
// runs until ctx is cancelled or a link fails.
func RunGateway(ctx context.Context) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	log := logger.GetLogger().Named("gateway")
	gw := NewGatewayFromConfig(cfg)

	// Links opened before a later one fails are closed through ctx.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	for _, lc := range cfg.NMEA0183 {
		if !lc.Enable {
			continue
		}
		line, err := OpenSerialLine(lc)
		if err != nil {
			return err
		}
		if lc.Output {
			if err := gw.AddSentenceOutput(line.Input(), line); err != nil {
				return err
			}
		}
		g.Go(func() error {
			return line.Run(ctx, func(s string) { _ = gw.SubmitSentence(ctx, line.Input(), s) })
		})
	}

	if cfg.NMEA2000.Enable {
		bridge, err := OpenCANBridge(cfg.NMEA2000.Interface)
		if err != nil {
			return err
		}
		if err := gw.SetMessageOutput(bridge); err != nil {
			return err
		}
		g.Go(func() error {
			return bridge.Run(ctx, func(m nmea2000.Message) { _ = gw.SubmitMessage(ctx, m) })
		})
	}

	if cfg.MQTT.Enable {
		client, err := ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTT.Broker))
		if err := gw.Subscribe(hub.All(), NewMQTTBridge(PahoPublisher{Client: client}, cfg.MQTT.Topic)); err != nil {
			return err
		}
	}

	if cfg.Web.Enable {
		stream := NewWebStream()
		if err := gw.Subscribe(hub.All(), stream); err != nil {
			return err
		}
		serveWeb(ctx, g, cfg.Web.Listen, stream.Handler())
	}

	if cfg.Barometer.Enable {
		baro, err := OpenBarometer(cfg.Barometer)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return baro.Run(ctx, func(u signalk.Update) { _ = gw.SubmitUpdate(ctx, u) })
		})
	}

	if cfg.IMU.Enable {
		imu, err := OpenIMU(cfg.IMU)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return imu.Run(ctx, func(u signalk.Update) { _ = gw.SubmitUpdate(ctx, u) })
		})
	}

	if cfg.Display.Enable {
		display, err := OpenDisplay(cfg.Display)
		if err != nil {
			return err
		}
		if err := gw.Subscribe(hub.All(), display.Data); err != nil {
			return err
		}
		g.Go(func() error { return display.Run(ctx) })
	}

	g.Go(func() error { return gw.Run(ctx) })
	return g.Wait()
}

// serveWeb runs an HTTP server in g, shut down when ctx is done.
func serveWeb(ctx context.Context, g *errgroup.Group, addr string, h http.Handler) {
	log := logger.GetLogger().Named("web")
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	g.Go(func() error {
		log.Info("web server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// RunWeb serves the websocket stream from the deltas the gateway publishes
// on MQTT, so the web server can run apart from the gateway.
func RunWeb(ctx context.Context) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	log := logger.GetLogger().Named("web")

	client, err := ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID+"-web")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTT.Broker))

	stream := NewWebStream()
	token := client.Subscribe(cfg.MQTT.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		stream.Broadcast(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Info("subscribed", zap.String("topic", cfg.MQTT.Topic))

	g, ctx := errgroup.WithContext(ctx)
	serveWeb(ctx, g, cfg.Web.Listen, stream.Handler())
	return g.Wait()
}

// RunReplay feeds a recorded log through the gateway core and publishes the
// resulting deltas on MQTT, for testing consumers without a boat.
func RunReplay(ctx context.Context, path string, interval time.Duration) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open replay log: %w", err)
	}
	defer f.Close()

	client, err := ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID+"-replay")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	gw := NewGatewayFromConfig(cfg)
	if err := gw.Subscribe(hub.All(), NewMQTTBridge(PahoPublisher{Client: client}, cfg.MQTT.Topic)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gw.Run(ctx) })
	g.Go(func() error {
		defer cancel()
		n, err := Replay(ctx, f, interval, func(ctx context.Context, line string) error {
			return gw.SubmitSentence(ctx, signalk.InputNMEA0183Port1, line)
		})
		// let the loop take the queued tail before stopping it
		for gw.Pending() > 0 && ctx.Err() == nil {
			time.Sleep(10 * time.Millisecond)
		}
		logger.GetLogger().Named("replay").Info("replay finished", zap.Int("lines", n))
		return err
	})
	return g.Wait()
}
