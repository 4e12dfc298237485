// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package position

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

func TestStoreDefaultsToOrigin(t *testing.T) {
	s := NewStore()
	assert.Equal(t, gps.Position{Latitude: 0, Longitude: 0}, s.Snapshot())

	_, n, ok := s.LastUpdate()
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestStoreLastWriteWins(t *testing.T) {
	s := NewStore()
	s.Set(gps.Position{Latitude: 1, Longitude: 2})
	s.Set(gps.Position{Latitude: 47.449, Longitude: -122.309})

	assert.Equal(t, gps.Position{Latitude: 47.449, Longitude: -122.309}, s.Snapshot())
	_, n, ok := s.LastUpdate()
	assert.True(t, ok)
	assert.Equal(t, uint64(2), n)
}

// Every write uses lat == -lon, so a torn read would break the relation.
func TestStoreReadsAreNeverTorn(t *testing.T) {
	s := NewStore()
	const writes = 5000

	var wg sync.WaitGroup
	stop := make(chan struct{})
	torn := make(chan gps.Position, 1)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				p := s.Snapshot()
				if p.Latitude != -p.Longitude {
					select {
					case torn <- p:
					default:
					}
					return
				}
			}
		}()
	}

	for i := 1; i <= writes; i++ {
		v := float64(i)
		s.Set(gps.Position{Latitude: v, Longitude: -v})
	}
	close(stop)
	wg.Wait()

	select {
	case p := <-torn:
		t.Fatalf("observed torn snapshot %+v", p)
	default:
	}
	assert.Equal(t, gps.Position{Latitude: writes, Longitude: -writes}, s.Snapshot())
}

func TestRunUpdaterAppliesEveryMessage(t *testing.T) {
	s := NewStore()
	in := make(chan gps.Position)
	done := make(chan error, 1)

	go func() { done <- RunUpdater(context.Background(), in, s) }()

	in <- gps.Position{Latitude: 10, Longitude: 20}
	in <- gps.Position{Latitude: 47.449, Longitude: -122.309}
	close(in)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrFeedClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("updater did not return after channel close")
	}

	assert.Equal(t, gps.Position{Latitude: 47.449, Longitude: -122.309}, s.Snapshot())
	_, n, _ := s.LastUpdate()
	assert.Equal(t, uint64(2), n)
}

func TestRunUpdaterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunUpdater(ctx, make(chan gps.Position), NewStore()) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("updater did not stop on cancel")
	}
}
