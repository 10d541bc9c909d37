// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

// CollectionTxn is the explicit three-phase form of an optimistic update:
// snapshot, apply, commit-or-revert.
//
// # Description
//
// BeginTxn captures the controller's collection. Remove applies the
// optimistic change immediately, so the UI reflects it before the network
// call resolves. Commit discards the snapshot; Revert restores it exactly
// - the removed entity reappears and no other item is lost or duplicated.
//
// # Example
//
//	txn := state.BeginTxn(courses)
//	txn.Remove(func(c catalog.Course) bool { return c.ID != nil && *c.ID == id })
//	if err := gw.DeleteCourse(ctx, id); err != nil {
//	    txn.Revert()
//	    return err
//	}
//	txn.Commit()
//
// # Limitations
//
//   - One transaction per controller at a time; overlapping transactions
//     on the same controller revert to whichever snapshot was taken last.
//   - Not safe for concurrent use; drive it from one goroutine.
type CollectionTxn[T any] struct {
	ctl      *ListController[T]
	snapshot []T
	settled  bool
}

// BeginTxn snapshots the controller's current collection and opens a
// transaction against it.
func BeginTxn[T any](ctl *ListController[T]) *CollectionTxn[T] {
	return &CollectionTxn[T]{
		ctl:      ctl,
		snapshot: ctl.snapshotItems(),
	}
}

// Remove optimistically drops every item matching the predicate from the
// visible collection and returns how many were dropped. The snapshot is
// untouched.
func (t *CollectionTxn[T]) Remove(match func(T) bool) int {
	if t.settled {
		return 0
	}
	kept := make([]T, 0, len(t.snapshot))
	removed := 0
	for _, item := range t.ctl.snapshotItems() {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	t.ctl.replaceItems(kept)
	return removed
}

// Commit settles the transaction, keeping the applied changes.
func (t *CollectionTxn[T]) Commit() {
	t.settled = true
	t.snapshot = nil
}

// Revert settles the transaction by restoring the snapshot taken at
// BeginTxn.
func (t *CollectionTxn[T]) Revert() {
	if t.settled {
		return
	}
	t.ctl.replaceItems(t.snapshot)
	t.settled = true
	t.snapshot = nil
}
