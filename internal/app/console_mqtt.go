// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// PrintDelta writes one line per value of a JSON delta:
//
//	[nmea0183.1 GP RMC] 2016-11-16T00:41:19Z navigation.speedOverGround = 2.68
func PrintDelta(w io.Writer, payload []byte) error {
	var d signalk.Delta
	if err := json.Unmarshal(payload, &d); err != nil {
		return fmt.Errorf("delta unmarshal: %w", err)
	}
	for _, u := range d.Updates {
		label := u.Source.Label
		switch {
		case u.Source.PGN != 0:
			label = fmt.Sprintf("%s %d", label, u.Source.PGN)
		case u.Source.Sentence != "":
			label = fmt.Sprintf("%s %s %s", label, u.Source.Talker, u.Source.Sentence)
		}
		for _, v := range u.Values {
			value, err := json.Marshal(v.Value)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "[%s] %s %s = %s\n", label, u.Timestamp, v.Path, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunConsoleMQTT prints every delta published on the bridge topic until
// interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()
	log := logger.GetLogger().Named("console")

	client, err := ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ConsoleClientID)
	if err != nil {
		return err
	}
	log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTT.Broker))

	token := client.Subscribe(cfg.MQTT.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := PrintDelta(os.Stdout, msg.Payload()); err != nil {
			log.Warn("bad delta", zap.Error(err))
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Info("subscribed", zap.String("topic", cfg.MQTT.Topic))

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	client.Disconnect(250)
	return nil
}
