// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// MaxLineLength bounds a received sentence. Longer lines are dropped whole.
const MaxLineLength = 200

// InputFor maps the configured line number (1 or 2) to its input.
func InputFor(n int) signalk.Input {
	if n == 2 {
		return signalk.InputNMEA0183Port2
	}
	return signalk.InputNMEA0183Port1
}

// SerialLine is one NMEA0183 port: CR-LF framed sentences in, encoded
// sentences out.
type SerialLine struct {
	name  string
	input signalk.Input
	port  io.ReadWriteCloser
	log   *zap.Logger

	wmu     sync.Mutex
	dropped int
}

// OpenSerialLine opens the port described by cfg, 8N1.
func OpenSerialLine(cfg config.SerialLineConfig) (*SerialLine, error) {
	serialOpts := serial.OpenOptions{
		PortName:              cfg.Port,
		BaudRate:              cfg.Baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("open serial line %s (%s): %w", cfg.Name, cfg.Port, err)
	}
	l := NewSerialLine(cfg.Name, InputFor(cfg.Input), port)
	l.log.Info("serial port opened", zap.String("port", cfg.Port), zap.Uint("baud", cfg.Baud))
	return l, nil
}

// NewSerialLine wraps an already open port.
func NewSerialLine(name string, input signalk.Input, port io.ReadWriteCloser) *SerialLine {
	return &SerialLine{
		name:  name,
		input: input,
		port:  port,
		log:   logger.GetLogger().Named("serial").With(zap.String("line", name)),
	}
}

func (l *SerialLine) Name() string          { return l.name }
func (l *SerialLine) Input() signalk.Input { return l.input }

// Dropped returns the number of overlong lines discarded so far. Only valid
// after Run returned.
func (l *SerialLine) Dropped() int { return l.dropped }

// WriteSentence writes s followed by CR-LF.
func (l *SerialLine) WriteSentence(s string) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if _, err := io.WriteString(l.port, s+"\r\n"); err != nil {
		return fmt.Errorf("serial line %s: %w", l.name, err)
	}
	return nil
}

// Run reads lines until ctx is cancelled or the port fails, handing every
// non-empty line to deliver. Cancelling ctx closes the port.
func (l *SerialLine) Run(ctx context.Context, deliver func(line string)) error {
	stop := context.AfterFunc(ctx, func() { _ = l.port.Close() })
	defer stop()

	err := l.readLines(bufio.NewReaderSize(l.port, 256), deliver)
	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		l.log.Info("serial port closed")
		return nil
	}
	return fmt.Errorf("serial line %s: %w", l.name, err)
}

func (l *SerialLine) readLines(r *bufio.Reader, deliver func(string)) error {
	overflow := false
	for {
		b, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			overflow = true
			continue
		}
		if err != nil {
			return err
		}
		line := strings.TrimRight(string(b), "\r\n")
		if overflow || len(line) > MaxLineLength {
			overflow = false
			l.dropped++
			l.log.Debug("overlong line dropped", zap.Int("dropped", l.dropped))
			continue
		}
		if line = strings.TrimSpace(line); line != "" {
			deliver(line)
		}
	}
}
