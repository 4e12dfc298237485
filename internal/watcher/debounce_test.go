// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package watcher

import (
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/sim_geotagger/internal/correlator"
)

func TestDebouncerCoalescesCreateAndWrites(t *testing.T) {
	t0 := time.Unix(1000, 0)
	d := newDebouncer(5 * time.Second)

	d.add(fsnotify.Event{Name: "/s/a.png", Op: fsnotify.Create}, t0)
	d.add(fsnotify.Event{Name: "/s/a.png", Op: fsnotify.Write}, t0.Add(time.Second))
	d.add(fsnotify.Event{Name: "/s/a.png", Op: fsnotify.Write}, t0.Add(2*time.Second))

	assert.Empty(t, d.due(t0.Add(6*time.Second)), "window restarts on every write")

	at, ok := d.next()
	assert.True(t, ok)
	assert.Equal(t, t0.Add(7*time.Second), at)

	assert.Equal(t, []correlator.FileEvent{correlator.Created("/s/a.png")}, d.due(at))
	_, ok = d.next()
	assert.False(t, ok)
}

func TestDebouncerDropsShortLivedFiles(t *testing.T) {
	t0 := time.Unix(1000, 0)
	d := newDebouncer(5 * time.Second)

	d.add(fsnotify.Event{Name: "/s/tmp.png", Op: fsnotify.Create}, t0)
	d.add(fsnotify.Event{Name: "/s/tmp.png", Op: fsnotify.Remove}, t0.Add(time.Second))

	assert.Empty(t, d.due(t0.Add(time.Minute)))
}

func TestDebouncerOtherKinds(t *testing.T) {
	t0 := time.Unix(1000, 0)
	d := newDebouncer(time.Second)

	d.add(fsnotify.Event{Name: "/s/old.png", Op: fsnotify.Write}, t0)
	d.add(fsnotify.Event{Name: "/s/gone.png", Op: fsnotify.Remove}, t0.Add(time.Millisecond))
	d.add(fsnotify.Event{Name: "/s/moved.png", Op: fsnotify.Rename}, t0.Add(2*time.Millisecond))
	d.add(fsnotify.Event{Name: "/s/perm.png", Op: fsnotify.Chmod}, t0.Add(3*time.Millisecond))

	assert.Equal(t, []correlator.FileEvent{
		correlator.Other("/s/old.png", "Write"),
		correlator.Other("/s/gone.png", "Remove"),
		correlator.Other("/s/moved.png", "Rename"),
		correlator.Other("/s/perm.png", "Chmod"),
	}, d.due(t0.Add(time.Hour)))
}

func TestDebouncerRecreateIsAWrite(t *testing.T) {
	t0 := time.Unix(1000, 0)
	d := newDebouncer(time.Second)

	d.add(fsnotify.Event{Name: "/s/a.png", Op: fsnotify.Remove}, t0)
	d.add(fsnotify.Event{Name: "/s/a.png", Op: fsnotify.Create}, t0.Add(time.Millisecond))

	assert.Equal(t, []correlator.FileEvent{correlator.Other("/s/a.png", "Write")}, d.due(t0.Add(time.Hour)))
}
