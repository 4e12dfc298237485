// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/sim_geotagger/internal/config"
	"github.com/relabs-tech/sim_geotagger/internal/telemetry"
)

// newFeed builds the telemetry feed selected by FEED.
func newFeed(cfg *config.Config) (telemetry.Feed, error) {
	switch cfg.Feed {
	case config.FeedNMEA:
		return telemetry.NewNMEAFeed(cfg.GPSSerialPort, cfg.GPSBaudRate), nil
	case config.FeedMQTT:
		return telemetry.NewMQTTFeed(cfg.MQTTBroker, cfg.MQTTClientIDGeotagger+"-feed", cfg.TopicSimPosition), nil
	case config.FeedMock:
		return telemetry.NewMockFeed(), nil
	default:
		return nil, fmt.Errorf("unknown feed %q", cfg.Feed)
	}
}

func describeFeed(cfg *config.Config) string {
	switch cfg.Feed {
	case config.FeedNMEA:
		return fmt.Sprintf("NMEA on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)
	case config.FeedMQTT:
		return fmt.Sprintf("MQTT topic %s on %s", cfg.TopicSimPosition, cfg.MQTTBroker)
	default:
		return "mock flight path"
	}
}
