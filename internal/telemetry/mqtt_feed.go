// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// MQTTFeed receives positions published as JSON ({"lat":..,"lon":..}) by a
// SimConnect bridge running next to the simulator.
type MQTTFeed struct {
	Broker         string
	ClientID       string
	Topic          string
	ConnectTimeout time.Duration

	newClient func(*mqtt.ClientOptions) mqtt.Client
}

func NewMQTTFeed(broker, clientID, topic string) *MQTTFeed {
	return &MQTTFeed{
		Broker:         broker,
		ClientID:       clientID,
		Topic:          topic,
		ConnectTimeout: 10 * time.Second,
		newClient:      mqtt.NewClient,
	}
}

// Connect opens a fresh broker session. Auto-reconnect is off: the
// Source supervisor owns the retry policy.
func (f *MQTTFeed) Connect(ctx context.Context) (Conn, error) {
	lost := make(chan error, 1)
	opts := mqtt.NewClientOptions().
		AddBroker(f.Broker).
		SetClientID(f.ClientID).
		SetAutoReconnect(false).
		SetConnectTimeout(f.ConnectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			select {
			case lost <- err:
			default:
			}
		})

	client := f.newClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", f.Broker, err)
	}

	return &mqttConn{
		client:  client,
		topic:   f.Topic,
		lost:    lost,
		pending: make(chan gps.Position, 256),
	}, nil
}

type mqttConn struct {
	client  mqtt.Client
	topic   string
	lost    chan error
	pending chan gps.Position

	onReceive func(gps.Position)
}

// Subscribe announces the request on "<topic>/request" (retained, so a
// bridge that starts later still sees it) and subscribes to topic.
func (c *mqttConn) Subscribe(req Request, onReceive func(gps.Position)) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if token := c.client.Publish(c.topic+"/request", 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish request: %w", token.Error())
	}

	c.onReceive = onReceive
	token := c.client.Subscribe(c.topic, 0, c.handle)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, token.Error())
	}
	log.Printf("telemetry: subscribed to MQTT topic %s", c.topic)
	return nil
}

// handle runs on the paho router goroutine and must not block.
func (c *mqttConn) handle(_ mqtt.Client, msg mqtt.Message) {
	var p gps.Position
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		log.Printf("telemetry: position unmarshal error: %v", err)
		return
	}
	select {
	case c.pending <- p:
	default:
		log.Printf("telemetry: dispatch backlog full, dropping %v", p)
	}
}

func (c *mqttConn) DispatchOnce() error {
	if c.onReceive == nil {
		return ErrNotSubscribed
	}
	for {
		select {
		case p := <-c.pending:
			c.onReceive(p)
			continue
		default:
		}
		break
	}

	select {
	case err := <-c.lost:
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	default:
	}
	if !c.client.IsConnectionOpen() {
		return ErrDisconnected
	}
	return nil
}

func (c *mqttConn) Close() error {
	if c.client.IsConnectionOpen() {
		c.client.Unsubscribe(c.topic).WaitTimeout(time.Second)
	}
	c.client.Disconnect(250)
	return nil
}
