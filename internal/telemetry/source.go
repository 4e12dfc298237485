// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// ErrReceiverStalled ends a session when the output channel has no room for
// a sample.
var ErrReceiverStalled = errors.New("position receiver is not keeping up")

const (
	DefaultRetryInterval    = 5 * time.Second
	DefaultDispatchInterval = 100 * time.Millisecond
)

// State is the supervisor's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats is a point-in-time view of the supervisor.
type Stats struct {
	State     State
	Attempts  uint64 // connect attempts, successful or not
	Connects  uint64 // successful connects
	Delivered uint64 // samples pushed to the output channel
}

// Source runs a Feed in a reconnect loop:
//
//	Disconnected -> Connecting -> Subscribed -> (dispatch...) -> Disconnected
//
// There is no terminal state; Run only returns when its context is done.
type Source struct {
	feed             Feed
	clock            Clock
	request          Request
	retryInterval    time.Duration
	dispatchInterval time.Duration

	mu    sync.RWMutex
	stats Stats
}

// Option tweaks a Source.
type Option func(*Source)

func WithClock(c Clock) Option { return func(s *Source) { s.clock = c } }

func WithRetryInterval(d time.Duration) Option {
	return func(s *Source) { s.retryInterval = d }
}

func WithDispatchInterval(d time.Duration) Option {
	return func(s *Source) { s.dispatchInterval = d }
}

func WithRequest(r Request) Option { return func(s *Source) { s.request = r } }

func NewSource(feed Feed, opts ...Option) *Source {
	s := &Source{
		feed:             feed,
		clock:            RealClock(),
		request:          PositionRequest,
		retryInterval:    DefaultRetryInterval,
		dispatchInterval: DefaultDispatchInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns a copy of the current counters.
func (s *Source) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Source) setState(st State) {
	s.mu.Lock()
	s.stats.State = st
	s.mu.Unlock()
}

// Run connects, subscribes and dispatches until a failure, then waits the
// retry interval and starts over. Samples are sent on out. It returns
// ctx.Err() once ctx is done.
func (s *Source) Run(ctx context.Context, out chan<- gps.Position) error {
	for {
		err := s.session(ctx, out)
		s.setState(StateDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("telemetry: %v; retrying in %s", err, s.retryInterval)
		if err := s.clock.Sleep(ctx, s.retryInterval); err != nil {
			return err
		}
	}
}

// session is one pass through the state machine. It always returns a
// non-nil error describing why the connection ended.
func (s *Source) session(ctx context.Context, out chan<- gps.Position) error {
	s.mu.Lock()
	s.stats.State = StateConnecting
	s.stats.Attempts++
	s.mu.Unlock()

	conn, err := s.feed.Connect(ctx)
	if err != nil {
		return fmt.Errorf("could not connect to sim, is it running? (%w)", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("telemetry: close: %v", cerr)
		}
	}()

	s.mu.Lock()
	s.stats.Connects++
	s.mu.Unlock()
	log.Println("telemetry: successfully connected to sim")

	// Samples are handed off without waiting. A full channel means the
	// receiver is gone or stalled, which ends the session like any other
	// failure.
	var sendErr error
	publish := func(p gps.Position) {
		if sendErr != nil {
			return
		}
		select {
		case out <- p:
			s.mu.Lock()
			s.stats.Delivered++
			s.mu.Unlock()
		default:
			sendErr = fmt.Errorf("publish position: %w", ErrReceiverStalled)
		}
	}

	if err := conn.Subscribe(s.request, publish); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.setState(StateSubscribed)

	for {
		if err := conn.DispatchOnce(); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
		if sendErr != nil {
			return sendErr
		}
		if err := s.clock.Sleep(ctx, s.dispatchInterval); err != nil {
			return err
		}
	}
}

