// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import (
	"context"
	"strings"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
	"github.com/coursedeck/coursedeck/pkg/logging"
)

// -----------------------------------------------------------------------------
// Create Controllers
// -----------------------------------------------------------------------------

// CourseCreator performs a single course creation against the gateway.
//
// Validation runs locally first; a draft that fails never produces a
// network call. A successful create publishes a settled event so
// course-selection lists elsewhere reload.
type CourseCreator struct {
	gw     gateway.CatalogGateway
	bus    *Bus
	logger *logging.Logger
}

// NewCourseCreator wires a creator to the gateway and an optional bus.
func NewCourseCreator(gw gateway.CatalogGateway, bus *Bus, logger *logging.Logger) *CourseCreator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CourseCreator{gw: gw, bus: bus, logger: logger}
}

// Create validates the draft and persists it.
//
// # Outputs
//
//   - catalog.Course: the persisted course with its server-assigned ID.
//   - error: *catalog.ValidationError before any network call, or the
//     gateway's *RequestError.
func (c *CourseCreator) Create(ctx context.Context, draft catalog.CourseDraft) (catalog.Course, error) {
	if err := draft.Validate(); err != nil {
		return catalog.Course{}, err
	}

	created, err := c.gw.CreateCourse(ctx, draft)
	if err != nil {
		return catalog.Course{}, err
	}

	if c.bus != nil {
		id := 0
		if created.ID != nil {
			id = *created.ID
		}
		c.bus.Publish(MutationEvent{Entity: EntityCourse, Action: ActionCreate, ID: id})
	}
	return created, nil
}

// InstanceCreator performs a single instance creation against the gateway.
type InstanceCreator struct {
	gw     gateway.CatalogGateway
	logger *logging.Logger
}

// NewInstanceCreator wires a creator to the gateway.
func NewInstanceCreator(gw gateway.CatalogGateway, logger *logging.Logger) *InstanceCreator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InstanceCreator{gw: gw, logger: logger}
}

// Create validates the draft and persists it, requesting the denormalized
// course snapshot in the response.
func (c *InstanceCreator) Create(ctx context.Context, draft catalog.InstanceDraft) (catalog.Instance, error) {
	if err := draft.Validate(); err != nil {
		return catalog.Instance{}, err
	}
	return c.gw.CreateInstance(ctx, draft)
}

// createInstancePrefix is the nested prefix some server errors embed.
const createInstancePrefix = "Failed to create instance:"

// CleanMessage strips the redundant "Failed to create instance:" prefix
// a server error may embed before the message is displayed. Cosmetic
// normalization only; the underlying error is untouched.
func CleanMessage(msg string) string {
	if i := strings.Index(msg, createInstancePrefix); i >= 0 {
		return strings.TrimSpace(msg[i+len(createInstancePrefix):])
	}
	return msg
}

// -----------------------------------------------------------------------------
// Delete Controller
// -----------------------------------------------------------------------------

// Identifier extracts the optional server ID from an entity so the
// deleter can match collection entries. Courses and Instances both
// satisfy it through small adapter funcs.
type Identifier[T any] func(T) *int

// Deleter performs a single delete with the optimistic removal policy:
// the entity leaves the visible collection immediately, and the snapshot
// comes back if the gateway refuses.
//
// Confirmation is the caller's responsibility. A declined confirmation
// means Delete is simply never invoked - no state change, no network call.
type Deleter[T any] struct {
	list   *ListController[T]
	remove func(ctx context.Context, id int) error
	ident  Identifier[T]

	refreshAfter bool
	bus          *Bus
	entity       EntityKind
	logger       *logging.Logger
}

// DeleterOption customizes a Deleter.
type DeleterOption[T any] func(*Deleter[T])

// RefreshAfterDelete makes a successful delete re-fetch the authoritative
// collection instead of trusting the optimistic copy. Pages differ here:
// the dashboard keeps the optimistic copy, the dedicated list pages
// reconcile with the server after every mutation.
func RefreshAfterDelete[T any]() DeleterOption[T] {
	return func(d *Deleter[T]) { d.refreshAfter = true }
}

// PublishOn makes successful deletes publish a settled event for the
// given entity kind.
func PublishOn[T any](bus *Bus, entity EntityKind) DeleterOption[T] {
	return func(d *Deleter[T]) {
		d.bus = bus
		d.entity = entity
	}
}

// WithDeleteLogger attaches a structured logger.
func WithDeleteLogger[T any](l *logging.Logger) DeleterOption[T] {
	return func(d *Deleter[T]) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDeleter wires a deleter to a collection, a gateway delete operation,
// and an ID extractor.
func NewDeleter[T any](
	list *ListController[T],
	remove func(ctx context.Context, id int) error,
	ident Identifier[T],
	opts ...DeleterOption[T],
) *Deleter[T] {
	d := &Deleter[T]{
		list:   list,
		remove: remove,
		ident:  ident,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delete removes the entity with the given ID.
//
// # Description
//
// Three phases: snapshot the collection, optimistically remove the entity,
// then call the gateway. Success commits (and optionally refreshes);
// failure reverts to the snapshot exactly and returns the gateway error
// for display.
func (d *Deleter[T]) Delete(ctx context.Context, id int) error {
	txn := BeginTxn(d.list)
	removed := txn.Remove(func(item T) bool {
		pid := d.ident(item)
		return pid != nil && *pid == id
	})
	d.logger.Debug("optimistic removal applied", "id", id, "removed", removed)

	if err := d.remove(ctx, id); err != nil {
		txn.Revert()
		d.logger.Warn("delete failed, collection restored", "id", id, "error", gateway.Message(err))
		return err
	}
	txn.Commit()

	if d.bus != nil {
		d.bus.Publish(MutationEvent{Entity: d.entity, Action: ActionDelete, ID: id})
	}
	if d.refreshAfter {
		// Reconcile with the server; a refresh failure surfaces through
		// the list controller's own state, not through the delete.
		_ = d.list.Refresh(ctx)
	}
	return nil
}
