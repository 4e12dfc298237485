// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"context"
	"math"
	"time"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// MockFeed flies a slow circle around Center so the whole pipeline can
// run without a simulator.
type MockFeed struct {
	Center gps.Position
	Radius float64 // degrees
	Period time.Duration

	now func() time.Time
}

// NewMockFeed circles Seattle-Tacoma at ~5 km radius once every two minutes.
func NewMockFeed() *MockFeed {
	return &MockFeed{
		Center: gps.Position{Latitude: 47.449, Longitude: -122.309},
		Radius: 0.05,
		Period: 2 * time.Minute,
		now:    time.Now,
	}
}

func (m *MockFeed) Connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &mockConn{feed: m, start: m.now()}, nil
}

type mockConn struct {
	feed      *MockFeed
	start     time.Time
	onReceive func(gps.Position)
}

func (c *mockConn) Subscribe(_ Request, onReceive func(gps.Position)) error {
	c.onReceive = onReceive
	return nil
}

// DispatchOnce emits one sample per call.
func (c *mockConn) DispatchOnce() error {
	if c.onReceive == nil {
		return ErrNotSubscribed
	}
	c.onReceive(c.feed.at(c.feed.now().Sub(c.start)))
	return nil
}

func (c *mockConn) Close() error { return nil }

func (m *MockFeed) at(elapsed time.Duration) gps.Position {
	angle := 2 * math.Pi * elapsed.Seconds() / m.Period.Seconds()
	return gps.Position{
		Latitude:  m.Center.Latitude + m.Radius*math.Sin(angle),
		Longitude: m.Center.Longitude + m.Radius*math.Cos(angle),
	}
}
