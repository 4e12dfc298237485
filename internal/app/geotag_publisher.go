// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sim_geotagger/internal/geotag"
)

// geotagPublisher announces every written sidecar on an MQTT topic.
type geotagPublisher struct {
	client mqtt.Client
	topic  string
}

func connectGeotagPublisher(broker, clientID, topic string) (*geotagPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &geotagPublisher{client: client, topic: topic}, nil
}

func (p *geotagPublisher) PublishGeotag(rec geotag.SidecarRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal geotag: %w", err)
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timed out", p.topic)
	}
	return token.Error()
}

func (p *geotagPublisher) Close() {
	p.client.Disconnect(250)
}
