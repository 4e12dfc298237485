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

	log.Println("starting sim-geotagger console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(config.Get()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
