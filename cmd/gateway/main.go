// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/app"
	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
)

func main() {
	configPath := flag.String("config", "./gateway.yaml", "path to YAML configuration file")
	debug := flag.Bool("debug", false, "human readable debug logging")
	flag.Parse()

	if *debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger.Set(l)
		}
	}
	log := logger.GetLogger()
	defer logger.Sync()

	log.Info("starting marine gateway")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.RunGateway(ctx); err != nil {
		log.Fatal("gateway stopped", zap.Error(err))
	}
	log.Info("marine gateway stopped")
}
