// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sim_geotagger/internal/config"
	"github.com/relabs-tech/sim_geotagger/internal/gps"
	"github.com/relabs-tech/sim_geotagger/internal/telemetry"
)

// RunPositionBridge reads the sim position from the configured local feed
// (NMEA or mock) and republishes it as JSON on TOPIC_SIM_POSITION, so a
// geotagger on another machine can run with FEED=mqtt.
func RunPositionBridge(cfg *config.Config) error {
	if cfg.Feed == config.FeedMQTT {
		return fmt.Errorf("position bridge needs a local feed, not FEED=%s", cfg.Feed)
	}
	feed, err := newFeed(cfg)
	if err != nil {
		return err
	}

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGeotagger + "-bridge")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("bridge: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Run the feed supervisor ----
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	positions := make(chan gps.Position, 64)
	src := telemetry.NewSource(feed,
		telemetry.WithRetryInterval(cfg.Retry()),
		telemetry.WithDispatchInterval(cfg.Dispatch()),
	)
	go src.Run(ctx, positions)
	log.Printf("bridge: relaying %s to %s", describeFeed(cfg), cfg.TopicSimPosition)

	// ---- 3) Publish every sample ----
	return publishPositions(ctx, client, cfg.TopicSimPosition, positions)
}

func publishPositions(ctx context.Context, client mqtt.Client, topic string, in <-chan gps.Position) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("bridge: shutting down")
			return nil
		case p, ok := <-in:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(p)
			if err != nil {
				log.Printf("bridge: JSON marshal error: %v", err)
				continue
			}
			token := client.Publish(topic, 0, true, payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("bridge: publish error: %v", token.Error())
				continue
			}
		}
	}
}
