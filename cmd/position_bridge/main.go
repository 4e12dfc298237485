// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/sim_geotagger/internal/app"
	"github.com/relabs-tech/sim_geotagger/internal/config"
)

func main() {
	configPath := flag.String("config", "./geotagger_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting sim-geotagger position bridge (sim feed → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	logCloser := app.SetupLogging(cfg.LogFile)
	defer logCloser.Close()

	if err := app.RunPositionBridge(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
