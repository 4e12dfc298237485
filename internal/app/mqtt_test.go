// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/sim_geotagger/internal/config"
	"github.com/relabs-tech/sim_geotagger/internal/geotag"
	"github.com/relabs-tech/sim_geotagger/internal/gps"
	"github.com/relabs-tech/sim_geotagger/internal/mqtttest"
)

func TestGeotagPublisher(t *testing.T) {
	client := mqtttest.NewClient()
	pub := &geotagPublisher{client: client, topic: "sim/geotag"}

	rec := geotag.SidecarRecord{
		SourcePath:  "/shots/IMG_01.jpg",
		SidecarPath: "/shots/IMG_01.geo",
		Latitude:    47.449,
		Longitude:   -122.309,
	}
	require.NoError(t, pub.PublishGeotag(rec))

	pubs := client.Published()
	require.Len(t, pubs, 1)
	assert.Equal(t, "sim/geotag", pubs[0].Topic)

	var got geotag.SidecarRecord
	require.NoError(t, json.Unmarshal(pubs[0].Payload, &got))
	assert.Equal(t, rec, got)
}

func TestConsolePrintsPositionsAndGeotags(t *testing.T) {
	client := mqtttest.NewClient()
	cfg := config.Default()
	cfg.TopicGeotag = "sim/geotag"

	var out bytes.Buffer
	require.NoError(t, subscribeConsole(client, cfg, &out))

	assert.True(t, client.Deliver("sim/position", []byte(`{"lat":47.449,"lon":-122.309}`)))
	assert.True(t, client.Deliver("sim/geotag", []byte(`{"source_path":"/s/a.png","sidecar_path":"/s/a.geo","lat":1.5,"lon":2}`)))
	client.Deliver("sim/geotag", []byte(`garbage`))

	assert.Equal(t,
		"[POS ] lat=47.449000 lon=-122.309000\n"+
			"[TAG ] /s/a.png -> /s/a.geo (1.5,2)\n",
		out.String())
}

func TestPublishPositionsRelaysEverySample(t *testing.T) {
	client := mqtttest.NewClient()
	in := make(chan gps.Position, 2)
	in <- gps.Position{Latitude: 47.449, Longitude: -122.309}
	in <- gps.Position{Latitude: 1, Longitude: 2}
	close(in)

	require.NoError(t, publishPositions(context.Background(), client, "sim/position", in))

	pubs := client.Published()
	require.Len(t, pubs, 2)
	assert.True(t, pubs[0].Retained)
	assert.JSONEq(t, `{"lat":47.449,"lon":-122.309}`, string(pubs[0].Payload))
	assert.JSONEq(t, `{"lat":1,"lon":2}`, string(pubs[1].Payload))
}

func TestRunPositionBridgeRejectsMQTTFeed(t *testing.T) {
	cfg := config.Default()
	cfg.Feed = config.FeedMQTT
	assert.Error(t, RunPositionBridge(cfg))
}
