// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package watcher turns raw filesystem notifications for one directory
// into debounced correlator.FileEvents.
package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/relabs-tech/sim_geotagger/internal/correlator"
)

const DefaultDebounce = 5 * time.Second

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	dir    string
	fsw    *fsnotify.Watcher
	deb    *debouncer
	events chan correlator.FileEvent
}

func New(dir string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:    dir,
		fsw:    fsw,
		deb:    newDebouncer(debounce),
		events: make(chan correlator.FileEvent, 64),
	}, nil
}

// Events is closed when Run returns.
func (w *Watcher) Events() <-chan correlator.FileEvent { return w.events }

// Run pumps notifications until ctx is done or the underlying watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	log.Printf("watcher: watching %s", w.dir)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.deb.add(ev, time.Now())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if !w.emit(ctx, correlator.Failed(err)) {
				return ctx.Err()
			}

		case now := <-timer.C:
			for _, ev := range w.deb.due(now) {
				if !w.emit(ctx, ev) {
					return ctx.Err()
				}
			}
		}

		if at, ok := w.deb.next(); ok {
			timer.Reset(time.Until(at))
		}
	}
}

func (w *Watcher) emit(ctx context.Context, ev correlator.FileEvent) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
