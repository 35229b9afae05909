// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

const mqttPublishTimeout = 2 * time.Second

// Publisher sends one payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// ConnectMQTT connects a paho client to broker.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// PahoPublisher publishes with QoS 0, not retained.
type PahoPublisher struct {
	Client mqtt.Client
}

func (p PahoPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("mqtt publish %s: timeout", topic)
	}
	return token.Error()
}

// MQTTBridge is a hub subscriber publishing every non-empty update as a JSON
// delta.
type MQTTBridge struct {
	pub      Publisher
	topic    string
	log      *zap.Logger
	failures int
}

func NewMQTTBridge(pub Publisher, topic string) *MQTTBridge {
	return &MQTTBridge{
		pub:   pub,
		topic: topic,
		log:   logger.GetLogger().Named("mqtt").With(zap.String("topic", topic)),
	}
}

func (b *MQTTBridge) UpdateReceived(u *signalk.Update) {
	if u.Size() == 0 {
		return
	}
	payload, err := signalk.MarshalDelta(u)
	if err != nil {
		b.log.Error("delta marshal failed", zap.Error(err))
		return
	}
	if err := b.pub.Publish(b.topic, payload); err != nil {
		b.failures++
		b.log.Warn("publish failed", zap.Error(err), zap.Int("failures", b.failures))
	}
}

// Failures returns the number of failed publishes.
func (b *MQTTBridge) Failures() int { return b.failures }
