// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package app wires the codecs and the hub to the boat's links: serial
// NMEA0183 lines, the CAN bus, MQTT, a websocket stream and local sensors.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/hub"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/nmea0183"
	"github.com/relabs-tech/marine_gateway/internal/nmea2000"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// inputQueue is the depth of the channel feeding the loop.
const inputQueue = 64

// MessageSender puts messages on the NMEA2000 bus. *CANBridge implements it.
type MessageSender interface {
	Send(m nmea2000.Message) error
}

type eventKind uint8

const (
	eventSentence eventKind = iota
	eventMessage
	eventUpdate
)

type event struct {
	kind   eventKind
	input  signalk.Input
	line   string
	msg    nmea2000.Message
	update signalk.Update
}

type GatewayConfig struct {
	MaxSubscribers int
	UpdateCapacity int
	// Instances is the battery name table shared by the NMEA2000 codecs.
	Instances nmea2000.Instances
	// Source is the NMEA2000 address of the gateway.
	Source    uint8
	QueueSize int
	// Output selects the sentences written to every NMEA0183 output.
	Output nmea0183.EncoderConfig
}

// Stats counts what the loop has handled.
type Stats struct {
	Sentences int
	Messages  int
	Updates   int
	// Empty counts inputs that decoded to no values.
	Empty     int
	Published int
	Sent      int
	SendFails int
}

type sentenceOutput struct {
	input signalk.Input
	enc   *nmea0183.Encoder
}

// Gateway runs every decode, publish and encode on one goroutine. Inputs
// from the links are queued on a channel and handled in arrival order.
type Gateway struct {
	hub      *hub.Hub
	capacity int
	in       chan event
	now      func() time.Time
	log      *zap.Logger

	n0183 map[signalk.Input]*nmea0183.Decoder
	// n2k holds the bus decoder and one decoder per serial input for
	// $PCDIN traffic, so echo suppression sees the real input.
	n2k       map[signalk.Input]*nmea2000.Decoder
	instances nmea2000.Instances

	output  nmea0183.EncoderConfig
	outputs []sentenceOutput
	n2kOut  *nmea2000.Encoder
	sender  MessageSender

	stats Stats
}

func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Instances == nil {
		cfg.Instances = nmea2000.DefaultInstances()
	}
	if cfg.UpdateCapacity <= 0 {
		cfg.UpdateCapacity = signalk.DefaultCapacity
	}
	g := &Gateway{
		hub:       hub.New(cfg.MaxSubscribers),
		capacity:  cfg.UpdateCapacity,
		in:        make(chan event, inputQueue),
		now:       time.Now,
		log:       logger.GetLogger().Named("gateway"),
		n0183:     make(map[signalk.Input]*nmea0183.Decoder),
		n2k:       make(map[signalk.Input]*nmea2000.Decoder),
		instances: cfg.Instances,
		output:    cfg.Output,
		n2kOut: nmea2000.NewEncoder(nmea2000.EncoderConfig{
			Source:    cfg.Source,
			Instances: cfg.Instances,
			QueueSize: cfg.QueueSize,
		}),
	}
	for _, in := range []signalk.Input{signalk.InputNMEA0183Port1, signalk.InputNMEA0183Port2} {
		d := nmea0183.NewDecoder(in)
		d.SetCapacity(cfg.UpdateCapacity)
		g.n0183[in] = d
	}
	g.n2kDecoder(signalk.InputNMEA2000)
	return g
}

func (g *Gateway) n2kDecoder(in signalk.Input) *nmea2000.Decoder {
	d, ok := g.n2k[in]
	if !ok {
		d = nmea2000.NewDecoder(in, g.instances)
		d.SetCapacity(g.capacity)
		g.n2k[in] = d
	}
	return d
}

func (g *Gateway) Hub() *hub.Hub { return g.hub }

// Subscribe adds a consumer such as the MQTT bridge or the websocket stream.
func (g *Gateway) Subscribe(p hub.Predicate, s hub.Subscriber) error {
	return g.hub.Subscribe(p, s)
}

// AddSentenceOutput encodes updates to w, except those decoded from input
// itself. Call before Run.
func (g *Gateway) AddSentenceOutput(input signalk.Input, w nmea0183.SentenceWriter) error {
	enc := nmea0183.NewEncoder(g.output, w)
	if err := g.hub.Subscribe(hub.Not(hub.InputIs(input)), enc); err != nil {
		return fmt.Errorf("nmea0183 output: %w", err)
	}
	g.outputs = append(g.outputs, sentenceOutput{input: input, enc: enc})
	return nil
}

// SetMessageOutput sends encoded NMEA2000 messages through s. Updates that
// came from the bus are not sent back. Call once, before Run.
func (g *Gateway) SetMessageOutput(s MessageSender) error {
	if g.sender != nil {
		return fmt.Errorf("nmea2000 output already set")
	}
	if err := g.hub.Subscribe(hub.Not(hub.InputIs(signalk.InputNMEA2000)), g.n2kOut); err != nil {
		return fmt.Errorf("nmea2000 output: %w", err)
	}
	g.sender = s
	return nil
}

func (g *Gateway) submit(ctx context.Context, ev event) error {
	select {
	case g.in <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitSentence queues a line received on an NMEA0183 input.
func (g *Gateway) SubmitSentence(ctx context.Context, input signalk.Input, line string) error {
	return g.submit(ctx, event{kind: eventSentence, input: input, line: line})
}

// SubmitMessage queues a message received from the NMEA2000 bus.
func (g *Gateway) SubmitMessage(ctx context.Context, m nmea2000.Message) error {
	return g.submit(ctx, event{kind: eventMessage, input: signalk.InputNMEA2000, msg: m})
}

// SubmitUpdate queues an update produced locally, e.g. by a sensor.
func (g *Gateway) SubmitUpdate(ctx context.Context, u signalk.Update) error {
	return g.submit(ctx, event{kind: eventUpdate, update: u})
}

// Run handles queued inputs until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	g.log.Info("gateway loop started", zap.Int("subscribers", g.hub.Len()))
	for {
		select {
		case <-ctx.Done():
			g.log.Info("gateway loop stopped",
				zap.Int("published", g.stats.Published),
				zap.Int("empty", g.stats.Empty),
				zap.Int("n2k_dropped", g.n2kOut.Dropped()))
			return nil
		case ev := <-g.in:
			g.handle(ev)
		}
	}
}

// Pending returns the number of queued inputs not yet taken by the loop.
func (g *Gateway) Pending() int { return len(g.in) }

// Stats returns the counters. Only safe from the loop goroutine or after
// Run returned.
func (g *Gateway) Stats() Stats { return g.stats }

func (g *Gateway) handle(ev event) {
	ts := signalk.TimestampOf(g.now())

	var u signalk.Update
	switch ev.kind {
	case eventSentence:
		g.stats.Sentences++
		u = g.decodeSentence(ev.input, ev.line, ts)
	case eventMessage:
		g.stats.Messages++
		u = g.n2kDecoder(signalk.InputNMEA2000).Decode(ev.msg, ts)
	case eventUpdate:
		g.stats.Updates++
		u = ev.update
	}

	if u.Size() == 0 {
		g.stats.Empty++
		return
	}
	g.hub.Publish(&u)
	g.stats.Published++

	for _, o := range g.outputs {
		if err := o.enc.Err(); err != nil {
			g.log.Warn("nmea0183 write failed", zap.Stringer("excluded_input", o.input), zap.Error(err))
		}
	}
	g.flushMessages()
}

func (g *Gateway) decodeSentence(input signalk.Input, line string, ts signalk.Timestamp) signalk.Update {
	if nmea2000.IsPCDIN(line) {
		m, _, err := nmea2000.DecodePCDIN(line)
		if err != nil {
			g.log.Debug("bad $PCDIN", zap.Stringer("input", input), zap.Error(err))
			return signalk.Update{}
		}
		return g.n2kDecoder(input).Decode(m, ts)
	}
	d, ok := g.n0183[input]
	if !ok {
		g.log.Debug("sentence from unknown input", zap.Stringer("input", input))
		return signalk.Update{}
	}
	return d.Decode(line, ts)
}

func (g *Gateway) flushMessages() {
	if g.sender == nil {
		return
	}
	for _, m := range g.n2kOut.Drain() {
		if err := g.sender.Send(m); err != nil {
			g.stats.SendFails++
			g.log.Warn("nmea2000 send failed", zap.Uint32("pgn", m.PGN), zap.Error(err))
			continue
		}
		g.stats.Sent++
	}
}
