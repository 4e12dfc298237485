// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package position holds the single "latest known position" shared between
// telemetry ingestion and screenshot correlation.
package position

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// ErrFeedClosed is returned by RunUpdater when its input channel is closed.
var ErrFeedClosed = errors.New("position feed channel closed")

// Reader is the read side of a Store.
type Reader interface {
	Snapshot() gps.Position
}

// Store is a last-write-wins position snapshot. It starts at (0, 0).
// Both coordinates are written under one lock so readers never see a
// latitude from one update paired with a longitude from another.
type Store struct {
	mu        sync.RWMutex
	pos       gps.Position
	updatedAt time.Time
	updates   uint64
}

func NewStore() *Store {
	return &Store{}
}

// Set overwrites the snapshot.
func (s *Store) Set(p gps.Position) {
	s.mu.Lock()
	s.pos = p
	s.updatedAt = time.Now()
	s.updates++
	s.mu.Unlock()
}

// Snapshot returns the most recently committed position.
func (s *Store) Snapshot() gps.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// LastUpdate returns when the snapshot was last written and how many
// writes have happened. ok is false until the first write.
func (s *Store) LastUpdate() (at time.Time, updates uint64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt, s.updates, s.updates > 0
}

// RunUpdater drains in into store until ctx is done or in is closed.
// A closed channel means no more updates can ever arrive; the caller
// decides what to do with ErrFeedClosed.
func RunUpdater(ctx context.Context, in <-chan gps.Position, store *Store) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-in:
			if !ok {
				return ErrFeedClosed
			}
			store.Set(p)
		}
	}
}
