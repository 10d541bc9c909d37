// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package state holds the client-side data-synchronization layer of the
console: the list controllers that mirror remote collections, the mutation
controllers that create and delete entities against the gateway, the
collection transaction implementing optimistic-update-then-rollback, and
the mutation event bus that keeps cross-entity state consistent.

# Architecture

	┌──────────────────────────────────────────────────────────────┐
	│                        page / command                        │
	│                                                              │
	│   ListController ◄── Refresh ──┐                             │
	│        │ Load                  │                             │
	│        ▼                       │                             │
	│     gateway ◄── Create/Delete ─┤                             │
	│                                │                             │
	│   CourseForm / InstanceForm / Deleter ── settled ──► Bus     │
	│                                                      │       │
	│   course-selection controllers ◄──── reload ─────────┘       │
	└──────────────────────────────────────────────────────────────┘

Each page view constructs and owns its own controller instances for its
lifetime; nothing here is a process-wide singleton.

# Thread Safety

Controllers are mutex-guarded and safe for concurrent use. The intended
consumer is a single UI loop issuing loads from background goroutines.
*/
package state

import (
	"context"
	"sync"

	"github.com/coursedeck/coursedeck/pkg/gateway"
	"github.com/coursedeck/coursedeck/pkg/logging"
)

// -----------------------------------------------------------------------------
// Phases
// -----------------------------------------------------------------------------

// Phase is the list controller's state machine position:
// Idle → Loading → (Ready | Errored), re-enterable via Load.
type Phase int

const (
	// PhaseIdle means Load has never been called.
	PhaseIdle Phase = iota

	// PhaseLoading means a fetch is in flight.
	PhaseLoading

	// PhaseReady means the collection reflects the last applied fetch.
	PhaseReady

	// PhaseErrored means the last applied fetch failed.
	PhaseErrored
)

// String returns the phase as a string for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// List Controller
// -----------------------------------------------------------------------------

// FetchFunc retrieves the authoritative collection from the gateway.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// ListState is a point-in-time copy of a controller's visible state,
// handed to consumers so they never alias the live collection.
type ListState[T any] struct {
	// Phase is the state machine position.
	Phase Phase

	// Items is a copy of the collection, in server response order.
	Items []T

	// Err is the display-ready message when Phase is PhaseErrored.
	Err string
}

// ListController synchronizes one remote collection with local state.
//
// # Description
//
// Load fetches the collection and settles the controller into Ready or
// Errored. Overlapping loads are neither coalesced nor cancelled; instead
// each Load captures a generation counter, and a completion is applied
// only while its generation is still current. Stale completions are
// discarded, so rapid repeated triggers can never let an old response
// overwrite a newer one.
//
// # Thread Safety
//
// Safe for concurrent use.
type ListController[T any] struct {
	mu     sync.Mutex
	phase  Phase
	items  []T
	errMsg string
	gen    uint64

	fetch      FetchFunc[T]
	emptyOn404 bool
	logger     *logging.Logger
}

// ListOption customizes a ListController.
type ListOption[T any] func(*ListController[T])

// Treat404AsEmpty makes a not-found fetch resolve Ready with an empty
// collection instead of Errored. The instance listing uses this: the API
// answers 404 when no instance matches the filters, which means "nothing
// here", not "something broke".
func Treat404AsEmpty[T any]() ListOption[T] {
	return func(c *ListController[T]) { c.emptyOn404 = true }
}

// WithListLogger attaches a structured logger.
func WithListLogger[T any](l *logging.Logger) ListOption[T] {
	return func(c *ListController[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewListController creates a controller in PhaseIdle around a fetch
// function.
func NewListController[T any](fetch FetchFunc[T], opts ...ListOption[T]) *ListController[T] {
	c := &ListController[T]{
		fetch:  fetch,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load transitions to Loading, runs the fetch, and settles the controller
// with the outcome - unless a newer Load started meanwhile, in which case
// the outcome is discarded and nil is returned.
//
// # Outputs
//
//   - error: the fetch failure that was applied to the controller, nil on
//     success, on a discarded stale completion, or on a 404 reinterpreted
//     as an empty collection.
func (c *ListController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = PhaseLoading
	c.errMsg = ""
	fetch := c.fetch
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// A newer Load owns the controller now.
		c.logger.Debug("discarding stale load result", "generation", gen, "current", c.gen)
		return nil
	}

	if err != nil {
		if c.emptyOn404 && gateway.IsNotFound(err) {
			c.phase = PhaseReady
			c.items = nil
			return nil
		}
		c.phase = PhaseErrored
		c.errMsg = gateway.Message(err)
		c.logger.Warn("list load failed", "error", c.errMsg)
		return err
	}

	c.phase = PhaseReady
	c.items = items
	return nil
}

// Refresh is Load invoked again; it exists for readability at call sites
// that re-fetch after a mutation or on a manual trigger.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// LoadWith swaps the fetch function and loads. Filtered list pages use
// this when the filter inputs change: later refreshes then re-run the
// same filtered fetch.
func (c *ListController[T]) LoadWith(ctx context.Context, fetch FetchFunc[T]) error {
	c.mu.Lock()
	c.fetch = fetch
	c.mu.Unlock()
	return c.Load(ctx)
}

// Snapshot returns a copy of the visible state.
func (c *ListController[T]) Snapshot() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return ListState[T]{Phase: c.phase, Items: items, Err: c.errMsg}
}

// Phase returns the current state machine position.
func (c *ListController[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Len returns the current collection size.
func (c *ListController[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// snapshotItems copies the collection under the lock. Used by the
// transaction layer.
func (c *ListController[T]) snapshotItems() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

// replaceItems swaps the collection under the lock. Used by the
// transaction layer; the phase is left untouched so an optimistic removal
// does not masquerade as a fresh fetch.
func (c *ListController[T]) replaceItems(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}
