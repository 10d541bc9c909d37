// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
)

// Form field defaults, matching what the creation pages reset to after a
// successful submit.
const (
	DefaultCredits    = "3"
	DefaultDepartment = "Computer Science"
	DefaultSemester   = "1"
)

// DefaultYear returns the current year as entered-text, the year field's
// reset value.
func DefaultYear() string {
	return strconv.Itoa(time.Now().Year())
}

// -----------------------------------------------------------------------------
// Course Form
// -----------------------------------------------------------------------------

// CourseForm holds the raw entry fields of the course-creation form and
// drives submission through a CourseCreator.
//
// Fields stay exactly as the user typed them until a submit succeeds;
// a failed submit preserves every value so nothing has to be re-entered.
//
// # Thread Safety
//
// Not safe for concurrent use; drive it from the UI loop.
type CourseForm struct {
	Title       string
	Code        string
	Description string
	Credits     string
	Department  string

	// ErrMsg is the display-ready failure from the last submit.
	ErrMsg string

	// Status is the transient success message from the last submit.
	Status string

	creator *CourseCreator
}

// NewCourseForm creates a form at its defaults.
func NewCourseForm(creator *CourseCreator) *CourseForm {
	f := &CourseForm{creator: creator}
	f.Reset()
	return f
}

// Reset returns every field to its default and clears messages.
func (f *CourseForm) Reset() {
	f.Title = ""
	f.Code = ""
	f.Description = ""
	f.Credits = DefaultCredits
	f.Department = DefaultDepartment
	f.ErrMsg = ""
	f.Status = ""
}

// Submit validates the entered fields and creates the course.
//
// # Description
//
// Local validation failures and gateway failures both land in ErrMsg and
// leave the entered values untouched. Only after the create resolves
// successfully are the fields reset and Status set - never before.
//
// # Outputs
//
//   - catalog.Course: the persisted course on success.
//   - bool: true when the create succeeded.
func (f *CourseForm) Submit(ctx context.Context) (catalog.Course, bool) {
	f.ErrMsg = ""
	f.Status = ""

	if f.Title == "" || f.Code == "" || f.Description == "" || f.Department == "" {
		f.ErrMsg = "All course fields are required."
		return catalog.Course{}, false
	}
	credits, err := catalog.ParseCredits(f.Credits)
	if err != nil {
		f.ErrMsg = err.Error()
		return catalog.Course{}, false
	}

	created, err := f.creator.Create(ctx, catalog.CourseDraft{
		Title:       f.Title,
		CourseCode:  f.Code,
		Description: f.Description,
		Credits:     credits,
		Department:  f.Department,
	})
	if err != nil {
		f.ErrMsg = gateway.Message(err)
		return catalog.Course{}, false
	}

	f.Reset()
	f.Status = "Course created successfully."
	return created, true
}

// -----------------------------------------------------------------------------
// Instance Form
// -----------------------------------------------------------------------------

// InstanceForm holds the entry state of the instance-creation form: the
// year and semester inputs plus the pending course selection, fed by a
// course-selection list controller.
//
// The form subscribes to the mutation bus. Any settled course mutation
// reloads the selection source; a settled delete of the selected course
// clears the selection first, so the form can never submit a dangling
// foreign key.
//
// # Thread Safety
//
// The course selection is mutex-guarded because bus reactions may arrive
// from a mutating goroutine; the text inputs belong to the UI loop alone.
type InstanceForm struct {
	YearInput string
	Semester  string

	// ErrMsg is the display-ready failure from the last submit.
	ErrMsg string

	// Status is the transient success message from the last submit.
	Status string

	mu       sync.Mutex
	selected int // 0 = none selected

	creator *InstanceCreator
	courses *ListController[catalog.Course]
}

// NewInstanceForm creates a form at its defaults, bound to the course
// dropdown source and subscribed to course mutations on the bus.
func NewInstanceForm(creator *InstanceCreator, courses *ListController[catalog.Course], bus *Bus) *InstanceForm {
	f := &InstanceForm{
		creator: creator,
		courses: courses,
	}
	f.Reset()

	if bus != nil {
		bus.Subscribe(func(e MutationEvent) {
			if e.Entity != EntityCourse {
				return
			}
			if e.Action == ActionDelete && e.ID != 0 && e.ID == f.SelectedCourse() {
				f.ClearSelection()
			}
			_ = f.courses.Load(context.Background())
		})
	}
	return f
}

// Reset returns every field to its default and clears messages and the
// selection.
func (f *InstanceForm) Reset() {
	f.YearInput = DefaultYear()
	f.Semester = DefaultSemester
	f.ErrMsg = ""
	f.Status = ""
	f.ClearSelection()
}

// Courses returns the selection source controller, so pages can trigger
// its initial load and render its state.
func (f *InstanceForm) Courses() *ListController[catalog.Course] {
	return f.courses
}

// SelectCourse records the pending course selection.
func (f *InstanceForm) SelectCourse(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = id
}

// SelectedCourse returns the pending selection, 0 when none.
func (f *InstanceForm) SelectedCourse() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// ClearSelection resets the selection to "none selected".
func (f *InstanceForm) ClearSelection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = 0
}

// Submit validates the entered fields and creates the instance.
//
// Local failures and gateway failures land in ErrMsg with the entered
// values preserved; fields reset only after a confirmed success. Server
// messages pass through CleanMessage before display.
func (f *InstanceForm) Submit(ctx context.Context) (catalog.Instance, bool) {
	f.ErrMsg = ""
	f.Status = ""

	courseID := f.SelectedCourse()
	if courseID == 0 {
		f.ErrMsg = "Please select a course."
		return catalog.Instance{}, false
	}
	year, err := catalog.ParseYear(f.YearInput)
	if err != nil {
		f.ErrMsg = err.Error()
		return catalog.Instance{}, false
	}
	if !catalog.IsValidSemester(f.Semester) {
		f.ErrMsg = "Year and Semester are required."
		return catalog.Instance{}, false
	}

	// The selection must still exist in the dropdown source; a course
	// deleted elsewhere since selection is not a valid target.
	if !f.selectionExists(courseID) {
		f.ErrMsg = "Selected course not found. Please try again."
		return catalog.Instance{}, false
	}

	created, err := f.creator.Create(ctx, catalog.InstanceDraft{
		Course:   courseID,
		Year:     year,
		Semester: f.Semester,
	})
	if err != nil {
		f.ErrMsg = CleanMessage(gateway.Message(err))
		return catalog.Instance{}, false
	}

	f.Reset()
	f.Status = "Instance created successfully."
	return created, true
}

// selectionExists reports whether the dropdown source currently holds a
// persisted course with the given ID.
func (f *InstanceForm) selectionExists(id int) bool {
	for _, c := range f.courses.Snapshot().Items {
		if c.ID != nil && *c.ID == id {
			return true
		}
	}
	return false
}
