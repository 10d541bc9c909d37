// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/state"
)

// Update is the bubbletea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case initialLoadedMsg:
		m.syncCourseRows()
		m.syncInstanceRows()
		return m, nil

	case coursesLoadedMsg:
		m.syncCourseRows()
		return m, nil

	case instancesLoadedMsg:
		m.syncInstanceRows()
		return m, nil

	case courseDetailMsg:
		if msg.err != nil {
			m.errLine = fmt.Sprintf("Failed to load course: %v", msg.err)
			return m, nil
		}
		course := msg.course
		m.detail = &course
		return m, nil

	case deleteSettledMsg:
		return m.onDeleteSettled(msg)

	case createSettledMsg:
		return m.onCreateSettled(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

// onDeleteSettled re-renders after a delete. On failure the controller
// already rolled back, so the row reappears; the message explains why.
func (m Model) onDeleteSettled(msg deleteSettledMsg) (tea.Model, tea.Cmd) {
	switch msg.entity {
	case state.EntityCourse:
		m.syncCourseRows()
	case state.EntityInstance:
		m.syncInstanceRows()
	}
	if msg.err != nil {
		m.errLine = fmt.Sprintf("Failed to delete: %v", msg.err)
		return m, nil
	}
	m.statusLine = fmt.Sprintf("Deleted %s %d.", msg.entity, msg.id)
	return m, nil
}

// onCreateSettled picks up the form's outcome. A successful create
// clears the inputs and refreshes the affected list.
func (m Model) onCreateSettled(msg createSettledMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		switch msg.entity {
		case state.EntityCourse:
			m.errLine = m.courseForm.ErrMsg
		case state.EntityInstance:
			m.errLine = m.instanceForm.ErrMsg
		}
		return m, nil
	}

	switch msg.entity {
	case state.EntityCourse:
		m.statusLine = m.courseForm.Status
		m.resetCourseInputs()
		m.page = pageCourses
		return m, m.loadCourses()
	case state.EntityInstance:
		m.statusLine = m.instanceForm.Status
		m.resetInstanceInputs()
		m.page = pageInstances
		return m, m.loadInstances(strings.TrimSpace(m.yearFilter.Value()), strings.TrimSpace(m.semFilter.Value()))
	}
	return m, nil
}

func (m *Model) resetCourseInputs() {
	for i := range m.courseInputs {
		m.courseInputs[i].SetValue("")
		m.courseInputs[i].Blur()
	}
	m.courseInputs[3].SetValue(state.DefaultCredits)
	m.courseInputs[4].SetValue(state.DefaultDepartment)
	m.courseFocus = 0
}

func (m *Model) resetInstanceInputs() {
	m.yearInput.SetValue(state.DefaultYear())
	m.yearInput.Blur()
	m.semIdx = 0
	m.coursePick = 0
}

// =============================================================================
// Key Handling
// =============================================================================

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays own the keyboard while visible.
	if m.confirm != nil {
		return m.onConfirmKey(msg)
	}
	if m.detail != nil {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		default:
			m.detail = nil
		}
		return m, nil
	}

	key := msg.String()

	// Typing contexts swallow most keys; route to them first.
	switch m.page {
	case pageInstances:
		if m.filtering {
			return m.onFilterKey(msg)
		}
	case pageNewCourse:
		return m.onCourseFormKey(msg)
	case pageNewInstance:
		return m.onInstanceFormKey(msg)
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.statusLine = ""
		m.errLine = ""
		m.page = (m.page + 1) % 4
		m.syncFocus()
		return m, nil

	case "shift+tab":
		m.statusLine = ""
		m.errLine = ""
		m.page = (m.page + 3) % 4
		m.syncFocus()
		return m, nil

	case "r":
		m.statusLine = ""
		m.errLine = ""
		if m.page == pageCourses {
			return m, m.loadCourses()
		}
		return m, m.loadInstances(strings.TrimSpace(m.yearFilter.Value()), strings.TrimSpace(m.semFilter.Value()))

	case "n":
		m.statusLine = ""
		m.errLine = ""
		if m.page == pageCourses {
			m.page = pageNewCourse
		} else {
			m.page = pageNewInstance
		}
		m.syncFocus()
		return m, nil

	case "f":
		if m.page == pageInstances {
			m.filtering = true
			m.filterIdx = 0
			m.yearFilter.Focus()
			m.semFilter.Blur()
			return m, nil
		}

	case "d":
		return m.armDelete()

	case "enter":
		if m.page == pageCourses {
			if id, ok := selectedID(m.courseTable); ok {
				return m, m.fetchCourseDetail(id)
			}
		}
	}

	// Remaining keys drive table navigation.
	var cmd tea.Cmd
	switch m.page {
	case pageCourses:
		m.courseTable, cmd = m.courseTable.Update(msg)
	case pageInstances:
		m.instanceTable, cmd = m.instanceTable.Update(msg)
	}
	return m, cmd
}

// syncFocus gives the active page's first input focus and blurs the rest.
func (m *Model) syncFocus() {
	for i := range m.courseInputs {
		m.courseInputs[i].Blur()
	}
	m.yearInput.Blur()
	m.yearFilter.Blur()
	m.semFilter.Blur()
	m.filtering = false

	switch m.page {
	case pageNewCourse:
		m.courseFocus = 0
		m.courseInputs[0].Focus()
	case pageNewInstance:
		// Focus starts on the course picker, not the year input.
	case pageCourses:
		m.courseTable.Focus()
		m.instanceTable.Blur()
	case pageInstances:
		m.instanceTable.Focus()
		m.courseTable.Blur()
	}
}

// armDelete raises the confirm overlay for the highlighted row.
func (m Model) armDelete() (tea.Model, tea.Cmd) {
	switch m.page {
	case pageCourses:
		id, ok := selectedID(m.courseTable)
		if !ok {
			return m, nil
		}
		m.confirm = &confirmState{
			prompt: fmt.Sprintf("Delete course %d? Its instances will be orphaned.", id),
			entity: state.EntityCourse,
			id:     id,
		}
	case pageInstances:
		id, ok := selectedID(m.instanceTable)
		if !ok {
			return m, nil
		}
		m.confirm = &confirmState{
			prompt: fmt.Sprintf("Delete instance %d?", id),
			entity: state.EntityInstance,
			id:     id,
		}
	}
	return m, nil
}

func (m Model) onConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "y", "Y":
		m.confirm = nil
		m.statusLine = ""
		m.errLine = ""
		switch c.entity {
		case state.EntityCourse:
			return m, tea.Batch(m.deleteCourse(c.id), m.syncAfterOptimistic(c.entity))
		case state.EntityInstance:
			return m, tea.Batch(m.deleteInstance(c.id), m.syncAfterOptimistic(c.entity))
		}
	case "n", "N", "esc":
		// Declined: no state change, no network call.
		m.confirm = nil
	}
	return m, nil
}

// syncAfterOptimistic re-renders shortly after a delete starts so the
// optimistic removal shows before the server answers.
func (m Model) syncAfterOptimistic(entity state.EntityKind) tea.Cmd {
	return func() tea.Msg {
		if entity == state.EntityCourse {
			return coursesLoadedMsg{}
		}
		return instancesLoadedMsg{}
	}
}

// -----------------------------------------------------------------------------
// Instance Filter Keys
// -----------------------------------------------------------------------------

func (m Model) onFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.yearFilter.Blur()
		m.semFilter.Blur()
		return m, nil
	case "tab", "shift+tab":
		m.filterIdx = 1 - m.filterIdx
		if m.filterIdx == 0 {
			m.yearFilter.Focus()
			m.semFilter.Blur()
		} else {
			m.semFilter.Focus()
			m.yearFilter.Blur()
		}
		return m, nil
	case "enter":
		m.filtering = false
		m.yearFilter.Blur()
		m.semFilter.Blur()
		m.statusLine = ""
		m.errLine = ""
		return m, m.loadInstances(strings.TrimSpace(m.yearFilter.Value()), strings.TrimSpace(m.semFilter.Value()))
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.filterIdx == 0 {
		m.yearFilter, cmd = m.yearFilter.Update(msg)
	} else {
		m.semFilter, cmd = m.semFilter.Update(msg)
	}
	return m, cmd
}

// -----------------------------------------------------------------------------
// New Course Form Keys
// -----------------------------------------------------------------------------

func (m Model) onCourseFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.page = pageCourses
		m.errLine = ""
		m.syncFocus()
		return m, nil
	case "tab", "down":
		m.moveCourseFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveCourseFocus(-1)
		return m, nil
	case "enter":
		if m.courseFocus < len(m.courseInputs)-1 {
			m.moveCourseFocus(1)
			return m, nil
		}
		return m.submitCourseForm()
	case "ctrl+s":
		return m.submitCourseForm()
	}

	var cmd tea.Cmd
	m.courseInputs[m.courseFocus], cmd = m.courseInputs[m.courseFocus].Update(msg)
	return m, cmd
}

func (m *Model) moveCourseFocus(delta int) {
	m.courseInputs[m.courseFocus].Blur()
	n := len(m.courseInputs)
	m.courseFocus = (m.courseFocus + delta + n) % n
	m.courseInputs[m.courseFocus].Focus()
}

// submitCourseForm copies the inputs into the form and submits in the
// background. The inputs keep their values; they only clear on success.
func (m Model) submitCourseForm() (tea.Model, tea.Cmd) {
	m.errLine = ""
	m.statusLine = ""
	m.courseForm.Title = strings.TrimSpace(m.courseInputs[0].Value())
	m.courseForm.Code = strings.TrimSpace(m.courseInputs[1].Value())
	m.courseForm.Description = strings.TrimSpace(m.courseInputs[2].Value())
	m.courseForm.Credits = strings.TrimSpace(m.courseInputs[3].Value())
	m.courseForm.Department = strings.TrimSpace(m.courseInputs[4].Value())
	return m, m.submitCourse()
}

// -----------------------------------------------------------------------------
// New Instance Form Keys
// -----------------------------------------------------------------------------

// The new-instance page has three fields top to bottom: the course picker
// (up/down over the dropdown source), the year input, and the semester
// cycle (left/right). j/k move the picker, tab moves between fields.
func (m Model) onInstanceFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.yearInput.Focused()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.page = pageInstances
		m.errLine = ""
		m.syncFocus()
		return m, nil
	case "tab":
		if typing {
			m.yearInput.Blur()
		} else {
			m.yearInput.Focus()
		}
		return m, nil
	case "up", "k":
		if !typing {
			m.movePick(-1)
			return m, nil
		}
	case "down", "j":
		if !typing {
			m.movePick(1)
			return m, nil
		}
	case "left", "right":
		if !typing {
			m.cycleSemester(msg.String())
			return m, nil
		}
	case "enter":
		return m.submitInstanceForm()
	}

	if typing {
		var cmd tea.Cmd
		m.yearInput, cmd = m.yearInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// dropdownCourses returns the current selectable courses.
func (m Model) dropdownCourses() []catalog.Course {
	return m.instanceForm.Courses().Snapshot().Items
}

func (m *Model) movePick(delta int) {
	courses := m.dropdownCourses()
	if len(courses) == 0 {
		return
	}
	m.coursePick = (m.coursePick + delta + len(courses)) % len(courses)
}

func (m *Model) cycleSemester(key string) {
	n := len(catalog.Semesters)
	if key == "left" {
		m.semIdx = (m.semIdx + n - 1) % n
	} else {
		m.semIdx = (m.semIdx + 1) % n
	}
}

func (m Model) submitInstanceForm() (tea.Model, tea.Cmd) {
	m.errLine = ""
	m.statusLine = ""

	courses := m.dropdownCourses()
	if m.coursePick >= 0 && m.coursePick < len(courses) && courses[m.coursePick].ID != nil {
		m.instanceForm.SelectCourse(*courses[m.coursePick].ID)
	} else {
		m.instanceForm.ClearSelection()
	}
	m.instanceForm.YearInput = strings.TrimSpace(m.yearInput.Value())
	m.instanceForm.Semester = catalog.Semesters[m.semIdx]
	return m, m.submitInstance()
}
