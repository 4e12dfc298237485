// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/relabs-tech/sim_geotagger/internal/config"
	"github.com/relabs-tech/sim_geotagger/internal/correlator"
	"github.com/relabs-tech/sim_geotagger/internal/gps"
	"github.com/relabs-tech/sim_geotagger/internal/position"
	"github.com/relabs-tech/sim_geotagger/internal/telemetry"
	"github.com/relabs-tech/sim_geotagger/internal/watcher"
)

// RunGeotagger watches dir for new screenshots and writes a sidecar with
// the latest sim position next to each one, until SIGINT/SIGTERM.
func RunGeotagger(cfg *config.Config, dir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := newFeed(cfg)
	if err != nil {
		return err
	}
	log.Printf("geotagger: telemetry from %s", describeFeed(cfg))

	var pub correlator.Publisher
	if cfg.TopicGeotag != "" {
		p, err := connectGeotagPublisher(cfg.MQTTBroker, cfg.MQTTClientIDGeotagger, cfg.TopicGeotag)
		if err != nil {
			log.Printf("geotagger: MQTT connect error, geotags will not be published: %v", err)
		} else {
			defer p.Close()
			log.Printf("geotagger: publishing geotags to %s on %s", cfg.TopicGeotag, cfg.MQTTBroker)
			pub = p
		}
	}

	return runGeotagger(ctx, cfg, dir, feed, pub)
}

// runGeotagger runs the three long-lived loops: the telemetry supervisor,
// the position store updater, and the correlator fed by the watcher. The
// store is the only thing they share.
func runGeotagger(ctx context.Context, cfg *config.Config, dir string, feed telemetry.Feed, pub correlator.Publisher) error {
	store := position.NewStore()
	positions := make(chan gps.Position, 64)
	src := telemetry.NewSource(feed,
		telemetry.WithRetryInterval(cfg.Retry()),
		telemetry.WithDispatchInterval(cfg.Dispatch()),
	)

	w, err := watcher.New(dir, cfg.Debounce())
	if err != nil {
		return err
	}
	defer w.Close()

	opts := []correlator.Option{correlator.WithSidecarExtension(cfg.SidecarExtension)}
	if pub != nil {
		opts = append(opts, correlator.WithPublisher(pub))
	}
	corr := correlator.New(store, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		_ = src.Run(ctx, positions)
	}()
	go func() {
		defer wg.Done()
		// Nothing closes positions today. Should that change, keep the
		// correlator running on the last snapshot rather than exiting.
		if err := position.RunUpdater(ctx, positions, store); errors.Is(err, position.ErrFeedClosed) {
			log.Printf("geotagger: %v; sidecars will keep the last known position", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("geotagger: watcher stopped: %v", err)
		}
	}()

	if cfg.WebServerPort > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runWeb(ctx, cfg.WebServerPort, store, src); err != nil {
				log.Printf("geotagger: web server error: %v", err)
			}
		}()
	}

	log.Printf("geotagger: watching %s for screenshots", dir)
	err = corr.Run(ctx, w.Events())

	log.Println("geotagger: shutting down")
	cancel()
	wg.Wait()

	stats := corr.Stats()
	log.Printf("geotagger: %d sidecars written, %d events ignored, %d failed", stats.Written, stats.Ignored, stats.Failed)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
