// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/sim_geotagger/internal/geotag"
)

// Feed kinds accepted by FEED.
const (
	FeedNMEA = "nmea"
	FeedMQTT = "mqtt"
	FeedMock = "mock"
)

// Config holds all application configuration values.
type Config struct {
	// Telemetry
	Feed string

	// GPS (NMEA feed)
	GPSSerialPort string
	GPSBaudRate   int

	// MQTT
	MQTTBroker            string
	MQTTClientIDGeotagger string
	MQTTClientIDConsole   string

	// Topics
	TopicSimPosition string // feed input for FEED=mqtt
	TopicGeotag      string // sidecar announcements; empty disables

	// Timing
	RetryInterval    int // milliseconds
	DispatchInterval int // milliseconds
	DebounceInterval int // milliseconds

	// Output
	SidecarExtension string

	// Web Server
	WebServerPort int // 0 disables

	// Logging
	LogFile string // empty logs to stderr only
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Feed:                  FeedNMEA,
		GPSSerialPort:         "/dev/ttyUSB0",
		GPSBaudRate:           4800,
		MQTTBroker:            "tcp://localhost:1883",
		MQTTClientIDGeotagger: "sim-geotagger",
		MQTTClientIDConsole:   "sim-geotagger-console",
		TopicSimPosition:      "sim/position",
		RetryInterval:         5000,
		DispatchInterval:      100,
		DebounceInterval:      5000,
		SidecarExtension:      "geo",
	}
}

// Package-level singleton, set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file on top of Default().
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse reads KEY=VALUE lines; blank lines and # comments are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseMillis(key, value string) (int, error) {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, ms)
	}
	return ms, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Telemetry
	case "FEED":
		c.Feed = strings.ToLower(value)

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GEOTAGGER":
		c.MQTTClientIDGeotagger = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_SIM_POSITION":
		c.TopicSimPosition = value
	case "TOPIC_GEOTAG":
		c.TopicGeotag = value

	// Timing
	case "RETRY_INTERVAL":
		c.RetryInterval, err = parseMillis(key, value)
	case "DISPATCH_INTERVAL":
		c.DispatchInterval, err = parseMillis(key, value)
	case "DEBOUNCE_INTERVAL":
		c.DebounceInterval, err = parseMillis(key, value)

	// Output
	case "SIDECAR_EXTENSION":
		c.SidecarExtension = strings.TrimPrefix(value, ".")

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Logging
	case "LOG_FILE":
		c.LogFile = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that the fields the selected feed needs are set.
func (c *Config) validate() error {
	switch c.Feed {
	case FeedNMEA:
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required for FEED=nmea")
		}
		if c.GPSBaudRate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE is required for FEED=nmea")
		}
	case FeedMQTT:
		if c.TopicSimPosition == "" {
			return fmt.Errorf("TOPIC_SIM_POSITION is required for FEED=mqtt")
		}
	case FeedMock:
	default:
		return fmt.Errorf("FEED must be one of nmea, mqtt, mock, got %q", c.Feed)
	}
	if (c.Feed == FeedMQTT || c.TopicGeotag != "") && c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if err := validateSidecarExtension(c.SidecarExtension); err != nil {
		return err
	}
	if c.WebServerPort < 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", c.WebServerPort)
	}
	return nil
}

// validateSidecarExtension keeps sidecars next to their screenshot and
// never on top of it.
func validateSidecarExtension(ext string) error {
	if ext == "" {
		return fmt.Errorf("SIDECAR_EXTENSION must not be empty")
	}
	if strings.ContainsAny(ext, `./\`) {
		return fmt.Errorf("SIDECAR_EXTENSION %q must be a bare extension", ext)
	}
	for _, img := range geotag.ImageExtensions {
		if strings.EqualFold(ext, img) {
			return fmt.Errorf("SIDECAR_EXTENSION %q would overwrite the screenshot", ext)
		}
	}
	return nil
}

func (c *Config) Retry() time.Duration    { return time.Duration(c.RetryInterval) * time.Millisecond }
func (c *Config) Dispatch() time.Duration { return time.Duration(c.DispatchInterval) * time.Millisecond }
func (c *Config) Debounce() time.Duration { return time.Duration(c.DebounceInterval) * time.Millisecond }

// InitGlobal initializes the global configuration from file; a missing
// file falls back to defaults. Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = LoadOptional(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
