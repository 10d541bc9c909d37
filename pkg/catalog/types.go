// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package catalog defines the Course and Instance entities managed by the
// coursedeck console, their creation payloads, and the parse-and-validate
// boundary between raw terminal input and typed values.
//
// # Entity Lifecycle
//
// An entity is either unsaved (ID is nil) or persisted (ID is set by the
// server). The client never assigns or mutates IDs; they arrive only in
// server responses.
//
// # Denormalized Embeds
//
// An Instance carries an optional CourseDetails snapshot of its parent
// Course so list views can render a title and code without a second
// round-trip. The embed may be absent or partial when the server omits it,
// and is trusted only when its ID matches the Course foreign key.
package catalog

import "fmt"

// Course is a catalog entry.
type Course struct {
	// ID is nil until the course has been persisted server-side.
	ID *int `json:"id,omitempty"`

	// Title is the human-facing course name.
	Title string `json:"title"`

	// CourseCode is the short identifier (e.g., "CS301"). Uniqueness is
	// enforced by the server, not here.
	CourseCode string `json:"course_code"`

	// Description may be empty.
	Description string `json:"description"`

	// Credits is a positive integer.
	Credits int `json:"credits"`

	// Department owns the course.
	Department string `json:"department"`
}

// Persisted reports whether the course has a server-assigned ID.
func (c Course) Persisted() bool { return c.ID != nil }

// Label renders the course the way list views and dropdowns show it.
func (c Course) Label() string {
	return fmt.Sprintf("%s (%s)", c.Title, c.CourseCode)
}

// Instance is an offering of a Course in a specific year and semester.
type Instance struct {
	// ID is nil until the instance has been persisted server-side.
	ID *int `json:"id,omitempty"`

	// Course is the foreign key to a persisted Course ID.
	Course int `json:"course"`

	// CourseDetails is the optional denormalized snapshot of the parent
	// course. May be nil or partially populated.
	CourseDetails *Course `json:"course_details,omitempty"`

	// Year of the offering.
	Year int `json:"year"`

	// Semester is one of Semesters.
	Semester string `json:"semester"`
}

// Persisted reports whether the instance has a server-assigned ID.
func (i Instance) Persisted() bool { return i.ID != nil }

// ConsistentDetails reports whether the embedded course snapshot can be
// trusted. A nil embed is consistent (there is simply nothing to show);
// an embed whose ID disagrees with the Course foreign key is not, and
// callers must fall back to the bare ID rather than display it.
func (i Instance) ConsistentDetails() bool {
	if i.CourseDetails == nil {
		return true
	}
	if i.CourseDetails.ID == nil {
		return false
	}
	return *i.CourseDetails.ID == i.Course
}

// TrustedDetails returns the embedded course snapshot when it is present
// and consistent with the Course foreign key.
func (i Instance) TrustedDetails() (Course, bool) {
	if i.CourseDetails != nil && i.ConsistentDetails() {
		return *i.CourseDetails, true
	}
	return Course{}, false
}

// Label renders the instance for list views: the embedded course title and
// code when present and consistent, otherwise the bare instance ID.
func (i Instance) Label() string {
	if i.ConsistentDetails() && i.CourseDetails != nil &&
		i.CourseDetails.Title != "" && i.CourseDetails.CourseCode != "" {
		return i.CourseDetails.Label()
	}
	if i.ID != nil {
		return fmt.Sprintf("Instance ID: %d", *i.ID)
	}
	return "Instance (unsaved)"
}

// Semesters is the fixed enumeration of semester labels: two numbered
// terms plus two named terms.
var Semesters = []string{"1", "2", "Summer", "Winter"}

// IsValidSemester reports whether s is one of Semesters.
func IsValidSemester(s string) bool {
	for _, sem := range Semesters {
		if s == sem {
			return true
		}
	}
	return false
}

// Year bounds accepted for instance creation. Anything outside the range
// is rejected at the input boundary before a network call is made.
const (
	MinYear = 2000
	MaxYear = 2100
)
