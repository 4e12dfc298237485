// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry keeps a best-effort connection to the simulator's
// position feed and turns it into a stream of gps.Position samples.
//
// A Feed knows how to open a connection; a Conn knows how to subscribe to
// periodic position updates and how to dispatch whatever messages are
// pending. Source supervises the two and reconnects forever.
package telemetry

import (
	"context"
	"errors"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

var (
	// ErrDisconnected is reported by Conn.DispatchOnce once the link is gone.
	ErrDisconnected = errors.New("telemetry feed disconnected")
	// ErrNotSubscribed is reported when dispatching before Subscribe.
	ErrNotSubscribed = errors.New("telemetry feed not subscribed")
)

// Period is how often the simulator should report a subscribed request.
type Period int

const (
	PeriodSimFrame Period = iota
	PeriodSecond
)

func (p Period) String() string {
	switch p {
	case PeriodSimFrame:
		return "SIM_FRAME"
	case PeriodSecond:
		return "SECOND"
	default:
		return "UNKNOWN"
	}
}

// Field names one simulation variable and the unit it is requested in.
type Field struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Request describes a periodic data request on the user aircraft.
type Request struct {
	ID     uint32  `json:"id"`
	Object string  `json:"object"`
	Fields []Field `json:"fields"`
	Period Period  `json:"period"`
}

// PositionRequest asks for the user aircraft latitude and longitude on
// every simulation frame.
var PositionRequest = Request{
	ID:     0,
	Object: "USER",
	Fields: []Field{
		{Name: "Plane Latitude", Unit: "degrees"},
		{Name: "Plane Longitude", Unit: "degrees"},
	},
	Period: PeriodSimFrame,
}

// Feed opens connections to a live position source. Connect failing is
// the normal state while the simulator is not running.
type Feed interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is one open connection to a Feed.
type Conn interface {
	// Subscribe registers the periodic request; onReceive is invoked from
	// DispatchOnce for every decoded sample.
	Subscribe(req Request, onReceive func(gps.Position)) error
	// DispatchOnce delivers all pending messages and returns an error if
	// the connection is no longer usable.
	DispatchOnce() error
	Close() error
}
