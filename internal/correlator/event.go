// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package correlator

import "fmt"

// EventKind tags a FileEvent.
type EventKind int

const (
	// EventOther covers modify, remove, rename and anything else the
	// correlator does not act on.
	EventOther EventKind = iota
	EventCreated
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "create"
	case EventError:
		return "error"
	default:
		return "other"
	}
}

// FileEvent is one debounced notification from the directory watcher.
type FileEvent struct {
	Kind EventKind
	Path string
	Op   string // raw operation name, for EventOther
	Err  error  // for EventError
}

func Created(path string) FileEvent { return FileEvent{Kind: EventCreated, Path: path} }

func Failed(err error) FileEvent { return FileEvent{Kind: EventError, Err: err} }

func Other(path, op string) FileEvent { return FileEvent{Kind: EventOther, Path: path, Op: op} }

func (e FileEvent) String() string {
	switch e.Kind {
	case EventCreated:
		return fmt.Sprintf("Create(%q)", e.Path)
	case EventError:
		return fmt.Sprintf("Error(%v)", e.Err)
	default:
		return fmt.Sprintf("%s(%q)", e.Op, e.Path)
	}
}
