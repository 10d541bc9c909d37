// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import "sync"

// EntityKind identifies which collection a mutation touched.
type EntityKind int

const (
	// EntityCourse marks Course mutations.
	EntityCourse EntityKind = iota

	// EntityInstance marks Instance mutations.
	EntityInstance
)

// String returns the kind as a string for logging.
func (k EntityKind) String() string {
	switch k {
	case EntityCourse:
		return "course"
	case EntityInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Action identifies what a settled mutation did.
type Action int

const (
	// ActionCreate marks a successful create.
	ActionCreate Action = iota

	// ActionDelete marks a successful delete.
	ActionDelete
)

// MutationEvent announces that a mutation settled successfully. Events
// fire only after the gateway confirms; failed or rolled-back mutations
// never publish.
type MutationEvent struct {
	Entity EntityKind
	Action Action

	// ID is the affected entity's server ID (0 when unknown).
	ID int
}

// Bus delivers mutation-settled events to subscribers, synchronously and
// in subscription order. It is the mechanism behind the cross-entity
// consistency rule: course mutations must reach every controller holding
// a course-selection list so dropdowns reflect the current course set.
//
// Bus is a pure reaction channel, not a state machine; subscribers own
// whatever state they adjust.
type Bus struct {
	mu   sync.Mutex
	subs []func(MutationEvent)
}

// NewBus creates an empty bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers a handler for all future events. There is no
// unsubscribe; a bus lives exactly as long as the page wiring that
// created it.
func (b *Bus) Subscribe(fn func(MutationEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers the event to every subscriber before returning.
func (b *Bus) Publish(event MutationEvent) {
	b.mu.Lock()
	subs := make([]func(MutationEvent), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
