// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// GetLogger returns the process logger, building a production logger on
// first use. If that fails a no-op logger is returned so callers never
// have to check for nil.
func GetLogger() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		built, err := zap.NewProduction()
		if err != nil {
			built = zap.NewNop()
		}
		log = built
	}
	return log
}

// Set replaces the process logger. Tests use it with zap.NewNop or
// zaptest-style loggers; cmd mains use it to switch to a development config.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	log = l
	mu.Unlock()
}

// Sync flushes buffered log entries. Errors are ignored: stderr sync fails
// on some terminals.
func Sync() {
	_ = GetLogger().Sync()
}
