// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/sim_geotagger/internal/correlator"
)

func TestWatcherEmitsDebouncedCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	img := filepath.Join(dir, "IMG_01.png")
	f, err := os.Create(img)
	require.NoError(t, err)
	_, err = f.WriteString("first chunk")
	require.NoError(t, err)
	_, err = f.WriteString("second chunk")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case ev := <-w.Events():
		assert.Equal(t, correlator.Created(img), ev)
	case <-time.After(5 * time.Second):
		t.Fatal("no event from watcher")
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected extra event %v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	_, open := <-w.Events()
	assert.False(t, open, "events channel closed after Run")
}

func TestWatcherForwardsNotifierErrors(t *testing.T) {
	w, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	select {
	case w.fsw.Errors <- fsnotify.ErrEventOverflow:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher is not reading notifier errors")
	}

	select {
	case ev := <-w.Events():
		assert.Equal(t, correlator.EventError, ev.Kind)
		assert.ErrorIs(t, ev.Err, fsnotify.ErrEventOverflow)
	case <-time.After(2 * time.Second):
		t.Fatal("no error event from watcher")
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), time.Second)
	assert.Error(t, err)
}
