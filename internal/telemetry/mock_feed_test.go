// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

func TestMockFeedCircles(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	feed := NewMockFeed()
	feed.now = func() time.Time { return now }

	conn, err := feed.Connect(context.Background())
	require.NoError(t, err)

	var got []gps.Position
	require.NoError(t, conn.Subscribe(PositionRequest, func(p gps.Position) { got = append(got, p) }))

	require.NoError(t, conn.DispatchOnce())
	now = start.Add(feed.Period / 4)
	require.NoError(t, conn.DispatchOnce())

	require.Len(t, got, 2)
	assert.InDelta(t, feed.Center.Latitude, got[0].Latitude, 1e-9)
	assert.InDelta(t, feed.Center.Longitude+feed.Radius, got[0].Longitude, 1e-9)
	assert.InDelta(t, feed.Center.Latitude+feed.Radius, got[1].Latitude, 1e-9)
	assert.InDelta(t, feed.Center.Longitude, got[1].Longitude, 1e-9)
}
