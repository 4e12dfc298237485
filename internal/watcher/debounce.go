// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package watcher

import (
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/relabs-tech/sim_geotagger/internal/correlator"
)

type pendingEvent struct {
	event    correlator.FileEvent
	deadline time.Time
}

// debouncer coalesces raw notifications per path. An event is released
// once its path has been quiet for delay. A file that is created and then
// written to while the screenshot is saved yields a single Created event;
// a file created and removed inside the window yields nothing.
type debouncer struct {
	delay   time.Duration
	pending map[string]pendingEvent
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]pendingEvent)}
}

func (d *debouncer) add(ev fsnotify.Event, now time.Time) {
	prev, seen := d.pending[ev.Name]
	prevCreated := seen && prev.event.Kind == correlator.EventCreated

	var next correlator.FileEvent
	switch {
	case ev.Has(fsnotify.Create):
		if seen && prev.event.Op == "Remove" {
			next = correlator.Other(ev.Name, "Write")
		} else {
			next = correlator.Created(ev.Name)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if prevCreated {
			delete(d.pending, ev.Name)
			return
		}
		op := "Remove"
		if ev.Has(fsnotify.Rename) {
			op = "Rename"
		}
		next = correlator.Other(ev.Name, op)
	case ev.Has(fsnotify.Write):
		if prevCreated {
			next = prev.event
		} else {
			next = correlator.Other(ev.Name, "Write")
		}
	default:
		if seen {
			next = prev.event
		} else {
			next = correlator.Other(ev.Name, "Chmod")
		}
	}
	d.pending[ev.Name] = pendingEvent{event: next, deadline: now.Add(d.delay)}
}

// due removes and returns every event whose window has passed, oldest
// first.
func (d *debouncer) due(now time.Time) []correlator.FileEvent {
	var ready []pendingEvent
	for path, p := range d.pending {
		if !p.deadline.After(now) {
			ready = append(ready, p)
			delete(d.pending, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].deadline.Before(ready[j].deadline) })

	out := make([]correlator.FileEvent, len(ready))
	for i, p := range ready {
		out[i] = p.event
	}
	return out
}

// next returns the earliest pending deadline.
func (d *debouncer) next() (time.Time, bool) {
	var earliest time.Time
	for _, p := range d.pending {
		if earliest.IsZero() || p.deadline.Before(earliest) {
			earliest = p.deadline
		}
	}
	return earliest, !earliest.IsZero()
}
