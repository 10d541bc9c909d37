// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package console

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
)

// fakeGateway is a minimal in-memory catalog for console tests.
type fakeGateway struct {
	mu        sync.Mutex
	courses   []catalog.Course
	instances []catalog.Instance

	deleteCourseErr error
	courseDeletes   []int
	instanceDeletes []int
}

func intp(v int) *int { return &v }

func (f *fakeGateway) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Course, len(f.courses))
	copy(out, f.courses)
	return out, nil
}

func (f *fakeGateway) CreateCourse(ctx context.Context, draft catalog.CourseDraft) (catalog.Course, error) {
	return catalog.Course{ID: intp(100), Title: draft.Title, CourseCode: draft.CourseCode,
		Description: draft.Description, Credits: draft.Credits, Department: draft.Department}, nil
}

func (f *fakeGateway) GetCourse(ctx context.Context, id int) (catalog.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.ID != nil && *c.ID == id {
			return c, nil
		}
	}
	return catalog.Course{}, &gateway.RequestError{Kind: gateway.KindNotFound, Status: 404, Message: "Not Found"}
}

func (f *fakeGateway) DeleteCourse(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courseDeletes = append(f.courseDeletes, id)
	return f.deleteCourseErr
}

func (f *fakeGateway) ListInstances(ctx context.Context, year, semester string) ([]catalog.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Instance, len(f.instances))
	copy(out, f.instances)
	return out, nil
}

func (f *fakeGateway) CreateInstance(ctx context.Context, draft catalog.InstanceDraft) (catalog.Instance, error) {
	return catalog.Instance{ID: intp(200), Course: draft.Course, Year: draft.Year, Semester: draft.Semester}, nil
}

func (f *fakeGateway) GetInstance(ctx context.Context, year, semester string, id int) (catalog.Instance, error) {
	return catalog.Instance{}, &gateway.RequestError{Kind: gateway.KindNotFound, Status: 404, Message: "Not Found"}
}

func (f *fakeGateway) DeleteInstance(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instanceDeletes = append(f.instanceDeletes, id)
	return nil
}

var _ gateway.CatalogGateway = (*fakeGateway)(nil)

func newLoadedModel(t *testing.T, gw *fakeGateway) Model {
	t.Helper()
	m := New(gw, nil)
	msg := m.initialLoad()()
	next, _ := m.Update(msg)
	return next.(Model)
}

func seededGateway() *fakeGateway {
	return &fakeGateway{
		courses: []catalog.Course{
			{ID: intp(1), Title: "Operating Systems", CourseCode: "CS301", Credits: 4, Department: "CS"},
			{ID: intp(2), Title: "Databases", CourseCode: "CS305", Credits: 3, Department: "CS"},
		},
		instances: []catalog.Instance{
			{ID: intp(3), Course: 1, Year: 2025, Semester: "1"},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_InitialLoadPopulatesTables(t *testing.T) {
	m := newLoadedModel(t, seededGateway())
	require.Len(t, m.courseTable.Rows(), 2)
	assert.Equal(t, "CS301", m.courseTable.Rows()[0][1])
	require.Len(t, m.instanceTable.Rows(), 1)
}

func TestModel_TabCyclesPages(t *testing.T) {
	m := newLoadedModel(t, seededGateway())
	assert.Equal(t, pageCourses, m.page)

	next, _ := m.Update(key("tab"))
	m = next.(Model)
	assert.Equal(t, pageInstances, m.page)

	next, _ = m.Update(key("tab"))
	m = next.(Model)
	assert.Equal(t, pageNewCourse, m.page)

	// On a form page tab moves field focus; the page stays put and esc
	// returns to the matching list.
	next, _ = m.Update(key("tab"))
	m = next.(Model)
	assert.Equal(t, pageNewCourse, m.page)
	assert.Equal(t, 1, m.courseFocus)

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	assert.Equal(t, pageCourses, m.page)
}

func TestModel_DeleteArmsConfirmAndDeclineIsFree(t *testing.T) {
	gw := seededGateway()
	m := newLoadedModel(t, gw)

	next, _ := m.Update(key("d"))
	m = next.(Model)
	require.NotNil(t, m.confirm)
	assert.Equal(t, 1, m.confirm.id)

	// Declining clears the overlay with no network call.
	next, _ = m.Update(key("n"))
	m = next.(Model)
	assert.Nil(t, m.confirm)
	assert.Empty(t, gw.courseDeletes)
	assert.Len(t, m.courseTable.Rows(), 2)
}

func TestModel_ConfirmedDeleteRemovesRow(t *testing.T) {
	gw := seededGateway()
	m := newLoadedModel(t, gw)

	next, _ := m.Update(key("d"))
	m = next.(Model)
	require.NotNil(t, m.confirm)

	next, _ = m.Update(key("y"))
	m = next.(Model)
	assert.Nil(t, m.confirm)

	// Drive the delete command directly and feed its result back.
	msg := m.deleteCourse(1)()
	settled, ok := msg.(deleteSettledMsg)
	require.True(t, ok)
	require.NoError(t, settled.err)
	assert.Equal(t, []int{1}, gw.courseDeletes)

	next, _ = m.Update(settled)
	m = next.(Model)
	require.Len(t, m.courseTable.Rows(), 1)
	assert.Equal(t, "CS305", m.courseTable.Rows()[0][1])
}

func TestModel_FailedDeleteRestoresRow(t *testing.T) {
	gw := seededGateway()
	gw.deleteCourseErr = &gateway.RequestError{
		Kind: gateway.KindHTTP, Status: 400,
		Message: "Failed to delete course: Bad Request",
		Detail:  "Course is referenced by an instance.",
	}
	m := newLoadedModel(t, gw)

	msg := m.deleteCourse(1)()
	settled := msg.(deleteSettledMsg)
	require.Error(t, settled.err)

	next, _ := m.Update(settled)
	m = next.(Model)
	assert.Len(t, m.courseTable.Rows(), 2, "rollback restores the optimistically removed row")
	assert.Contains(t, m.errLine, "Course is referenced by an instance.")
}

func TestModel_CourseFormSubmitRoundTrip(t *testing.T) {
	gw := seededGateway()
	m := newLoadedModel(t, gw)
	m.page = pageNewCourse
	m.courseInputs[0].SetValue("Networks")
	m.courseInputs[1].SetValue("CS441")
	m.courseInputs[2].SetValue("Sockets and routing.")

	next, cmd := m.submitCourseForm()
	m = next.(Model)
	require.NotNil(t, cmd)

	settled, ok := cmd().(createSettledMsg)
	require.True(t, ok)
	assert.True(t, settled.ok)

	next, _ = m.Update(settled)
	m = next.(Model)
	assert.Equal(t, pageCourses, m.page)
	assert.Equal(t, "Course created successfully.", m.statusLine)
	assert.Empty(t, m.courseInputs[0].Value(), "inputs clear after a confirmed success")
}

func TestModel_CourseFormFailureKeepsInputs(t *testing.T) {
	gw := seededGateway()
	m := newLoadedModel(t, gw)
	m.page = pageNewCourse
	m.courseInputs[0].SetValue("Only a title")
	m.courseInputs[1].SetValue("")
	m.courseInputs[2].SetValue("")

	next, cmd := m.submitCourseForm()
	m = next.(Model)
	settled := cmd().(createSettledMsg)
	assert.False(t, settled.ok)

	next, _ = m.Update(settled)
	m = next.(Model)
	assert.Equal(t, pageNewCourse, m.page)
	assert.Equal(t, "All course fields are required.", m.errLine)
	assert.Equal(t, "Only a title", m.courseInputs[0].Value())
}

func TestModel_InstanceFormSubmitSelectsPickedCourse(t *testing.T) {
	gw := seededGateway()
	m := newLoadedModel(t, gw)
	m.page = pageNewInstance
	m.coursePick = 1 // Databases
	m.yearInput.SetValue("2026")
	m.semIdx = 2 // Summer

	next, cmd := m.submitInstanceForm()
	m = next.(Model)
	settled := cmd().(createSettledMsg)
	require.True(t, settled.ok)
	assert.Equal(t, "Instance created successfully.", m.instanceForm.Status)
}

func TestModel_EnterOpensDetailOverlay(t *testing.T) {
	m := newLoadedModel(t, seededGateway())

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)

	detail, ok := cmd().(courseDetailMsg)
	require.True(t, ok)
	require.NoError(t, detail.err)

	next, _ = m.Update(detail)
	m = next.(Model)
	require.NotNil(t, m.detail)
	assert.Equal(t, "Operating Systems", m.detail.Title)
	assert.Contains(t, m.View(), "Operating Systems")

	// Any key closes the overlay.
	next, _ = m.Update(key("x"))
	m = next.(Model)
	assert.Nil(t, m.detail)
}

func TestSelectedID(t *testing.T) {
	m := newLoadedModel(t, seededGateway())
	id, ok := selectedID(m.courseTable)
	require.True(t, ok)
	assert.Equal(t, 1, id)
}
