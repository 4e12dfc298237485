// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/relabs-tech/sim_geotagger/internal/app"
	"github.com/relabs-tech/sim_geotagger/internal/config"
)

func main() {
	configPath := flag.String("config", "./geotagger_config.txt", "path to configuration file")
	flag.Parse()

	dir, err := config.ResolveWatchDir(flag.Args(), os.Getenv)
	switch {
	case errors.Is(err, config.ErrNoWatchDir):
		fmt.Printf("Please provide the path to the folder where your screenshots are stored as an argument or in the Environment as %s\n", config.WatchDirEnv)
		return
	case err != nil:
		fmt.Println("Please provide a valid path to the folder where your screenshots are stored")
		return
	}

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	logCloser := app.SetupLogging(cfg.LogFile)
	defer logCloser.Close()

	log.Println("starting sim-geotagger (sim position → screenshot sidecars)")

	if err := app.RunGeotagger(cfg, dir); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
