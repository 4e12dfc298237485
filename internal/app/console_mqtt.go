// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sim_geotagger/internal/config"
	"github.com/relabs-tech/sim_geotagger/internal/geotag"
	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// RunConsoleMQTT prints sim positions and written geotags as they are
// published, until Ctrl+C.
func RunConsoleMQTT(cfg *config.Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeConsole(client, cfg, os.Stdout); err != nil {
		client.Disconnect(250)
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func subscribeConsole(client mqtt.Client, cfg *config.Config, out io.Writer) error {
	if cfg.TopicSimPosition != "" {
		posToken := client.Subscribe(cfg.TopicSimPosition, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var p gps.Position
			if err := json.Unmarshal(msg.Payload(), &p); err != nil {
				log.Printf("console: position unmarshal error: %v", err)
				return
			}
			fmt.Fprintf(out, "[POS ] lat=%.6f lon=%.6f\n", p.Latitude, p.Longitude)
		})
		posToken.Wait()
		if posToken.Error() != nil {
			return posToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicSimPosition)
	}

	if cfg.TopicGeotag != "" {
		tagToken := client.Subscribe(cfg.TopicGeotag, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var rec geotag.SidecarRecord
			if err := json.Unmarshal(msg.Payload(), &rec); err != nil {
				log.Printf("console: geotag unmarshal error: %v", err)
				return
			}
			fmt.Fprintf(out, "[TAG ] %s -> %s (%s)\n",
				rec.SourcePath, rec.SidecarPath, geotag.FormatCoordinates(rec.Latitude, rec.Longitude))
		})
		tagToken.Wait()
		if tagToken.Error() != nil {
			return tagToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicGeotag)
	}

	return nil
}
