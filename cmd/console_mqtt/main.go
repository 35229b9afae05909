// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/app"
	"github.com/relabs-tech/marine_gateway/internal/config"
	"github.com/relabs-tech/marine_gateway/internal/logger"
)

func main() {
	configPath := flag.String("config", "./gateway.yaml", "path to YAML configuration file")
	flag.Parse()

	log := logger.GetLogger()
	defer logger.Sync()
	log.Info("starting marine gateway console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}
