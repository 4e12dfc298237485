// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package correlator joins newly created screenshots with the latest known
// aircraft position and writes the resulting sidecar files.
package correlator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync/atomic"

	"github.com/relabs-tech/sim_geotagger/internal/geotag"
	"github.com/relabs-tech/sim_geotagger/internal/position"
)

var (
	ErrNotRegularFile       = errors.New("not a regular file")
	ErrUnsupportedExtension = errors.New("not a png/jpg/jpeg image")
)

// Publisher is told about every sidecar that was written.
type Publisher interface {
	PublishGeotag(rec geotag.SidecarRecord) error
}

// Action is what Handle did with an event.
type Action int

const (
	ActionIgnored Action = iota
	ActionWritten
	ActionFailed
)

// Result describes the outcome of one event. For ignored events Reason
// says why.
type Result struct {
	Action Action
	Record geotag.SidecarRecord
	Reason error
}

// Stats counts outcomes since the correlator was created.
type Stats struct {
	Written uint64
	Ignored uint64
	Failed  uint64
}

type Correlator struct {
	store      position.Reader
	sidecarExt string
	publisher  Publisher
	stat       func(string) (fs.FileInfo, error)

	written atomic.Uint64
	ignored atomic.Uint64
	failed  atomic.Uint64
}

type Option func(*Correlator)

// WithSidecarExtension overrides geotag.DefaultExtension.
func WithSidecarExtension(ext string) Option {
	return func(c *Correlator) { c.sidecarExt = ext }
}

func WithPublisher(p Publisher) Option {
	return func(c *Correlator) { c.publisher = p }
}

func New(store position.Reader, opts ...Option) *Correlator {
	c := &Correlator{
		store:      store,
		sidecarExt: geotag.DefaultExtension,
		stat:       os.Stat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Correlator) Stats() Stats {
	return Stats{
		Written: c.written.Load(),
		Ignored: c.ignored.Load(),
		Failed:  c.failed.Load(),
	}
}

// Run handles events until ctx is done or events is closed. A failure on
// one file is logged and never stops the loop.
func (c *Correlator) Run(ctx context.Context, events <-chan FileEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Printf("correlator: %v", ev)
			res, err := c.Handle(ev)
			switch {
			case err != nil:
				log.Printf("correlator: %v", err)
			case res.Action == ActionIgnored && res.Reason != nil:
				log.Printf("correlator: ignoring %s: %v", ev.Path, res.Reason)
			}
		}
	}
}

// Handle processes a single event. Only EventCreated can produce a
// sidecar; errors are returned, not raised, so the caller can move on.
func (c *Correlator) Handle(ev FileEvent) (Result, error) {
	switch ev.Kind {
	case EventCreated:
		res, err := c.handleCreate(ev.Path)
		switch res.Action {
		case ActionWritten:
			c.written.Add(1)
		case ActionFailed:
			c.failed.Add(1)
		default:
			c.ignored.Add(1)
		}
		return res, err
	default:
		// Watcher errors were already logged by Run; nothing to do.
		c.ignored.Add(1)
		return Result{Action: ActionIgnored}, nil
	}
}

func (c *Correlator) handleCreate(path string) (Result, error) {
	info, err := c.stat(path)
	if err != nil {
		return Result{Action: ActionFailed}, fmt.Errorf("read metadata of %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Result{Action: ActionIgnored, Reason: ErrNotRegularFile}, nil
	}
	if !geotag.IsImage(path) {
		return Result{Action: ActionIgnored, Reason: ErrUnsupportedExtension}, nil
	}

	pos := c.store.Snapshot()
	rec, err := geotag.NewRecord(path, c.sidecarExt, pos)
	if err != nil {
		return Result{Action: ActionFailed}, err
	}
	log.Printf("correlator: writing latitude=%v longitude=%v to %s", rec.Latitude, rec.Longitude, rec.SidecarPath)
	if err := rec.Write(); err != nil {
		return Result{Action: ActionFailed, Record: rec}, err
	}

	if c.publisher != nil {
		if err := c.publisher.PublishGeotag(rec); err != nil {
			log.Printf("correlator: publish geotag for %s: %v", path, err)
		}
	}
	return Result{Action: ActionWritten, Record: rec}, nil
}
