// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"

	"github.com/brutella/can"
	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/nmea2000"
)

// FramePublisher sends raw CAN frames. *can.Bus implements it.
type FramePublisher interface {
	Publish(frame can.Frame) error
}

// FrameToMessage converts a received extended frame. Standard frames are not
// NMEA2000 traffic and are rejected.
func FrameToMessage(f can.Frame) (nmea2000.Message, error) {
	if f.ID&nmea2000.CANEffFlag == 0 {
		return nmea2000.Message{}, fmt.Errorf("%w: standard frame id 0x%X", nmea2000.ErrBadFrame, f.ID)
	}
	if f.Length > 8 {
		return nmea2000.Message{}, fmt.Errorf("%w: length %d", nmea2000.ErrBadFrame, f.Length)
	}
	data := make([]byte, f.Length)
	copy(data, f.Data[:f.Length])
	return nmea2000.Message{Header: nmea2000.ParseCANID(f.ID), Data: data}, nil
}

// MessageToFrame converts a single-frame message.
func MessageToFrame(m nmea2000.Message) (can.Frame, error) {
	if len(m.Data) > 8 {
		return can.Frame{}, fmt.Errorf("%w: %d bytes needs fast-packet", nmea2000.ErrBadFrame, len(m.Data))
	}
	f := can.Frame{
		ID:     nmea2000.CANID(m.Header) | nmea2000.CANEffFlag,
		Length: uint8(len(m.Data)),
	}
	copy(f.Data[:], m.Data)
	return f, nil
}

// CANBridge connects the gateway to a SocketCAN interface.
type CANBridge struct {
	bus *can.Bus
	pub FramePublisher
	log *zap.Logger
}

// OpenCANBridge binds to iface, e.g. "can0".
func OpenCANBridge(iface string) (*CANBridge, error) {
	bus, err := can.NewBusForInterfaceWithName(iface)
	if err != nil {
		return nil, fmt.Errorf("open can interface %s: %w", iface, err)
	}
	b := NewCANBridge(bus)
	b.bus = bus
	b.log = b.log.With(zap.String("interface", iface))
	return b, nil
}

// NewCANBridge sends through pub. Run is only usable on bridges returned by
// OpenCANBridge.
func NewCANBridge(pub FramePublisher) *CANBridge {
	return &CANBridge{pub: pub, log: logger.GetLogger().Named("can")}
}

// Send writes one message to the bus.
func (b *CANBridge) Send(m nmea2000.Message) error {
	f, err := MessageToFrame(m)
	if err != nil {
		return err
	}
	if err := b.pub.Publish(f); err != nil {
		return fmt.Errorf("can publish pgn %d: %w", m.PGN, err)
	}
	return nil
}

// Handle converts f and hands it to deliver, logging frames that are not
// NMEA2000 messages.
func (b *CANBridge) Handle(f can.Frame, deliver func(nmea2000.Message)) {
	m, err := FrameToMessage(f)
	if err != nil {
		b.log.Debug("frame ignored", zap.Error(err))
		return
	}
	deliver(m)
}

// Run receives frames until ctx is cancelled.
func (b *CANBridge) Run(ctx context.Context, deliver func(nmea2000.Message)) error {
	if b.bus == nil {
		return fmt.Errorf("can bridge has no bus")
	}
	b.bus.SubscribeFunc(func(f can.Frame) { b.Handle(f, deliver) })

	stop := context.AfterFunc(ctx, func() { _ = b.bus.Disconnect() })
	defer stop()

	b.log.Info("can bus connected")
	err := b.bus.ConnectAndPublish()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
