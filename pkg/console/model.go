// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package console implements the interactive coursedeck console using
bubbletea.

# Description

The console is organized as pages: a course list, an instance list with
year/semester filters, and creation forms for both entities. Every page
renders from the state controllers in pkg/state; the
bubbletea model owns no entity data of its own. Network calls run inside
tea.Cmd goroutines and settle back into the event loop as messages, so the
visible state only ever changes on the loop.

# Thread Safety

The model is driven solely by the bubbletea event loop. The controllers it
reads are mutex-guarded, which is what makes the tea.Cmd goroutines safe.
*/
package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
	"github.com/coursedeck/coursedeck/pkg/logging"
	"github.com/coursedeck/coursedeck/pkg/state"
	"github.com/coursedeck/coursedeck/pkg/ux"
)

// =============================================================================
// Pages
// =============================================================================

// page identifies which console page has focus.
type page int

const (
	pageCourses page = iota
	pageInstances
	pageNewCourse
	pageNewInstance
)

var pageTitles = []string{"Courses", "Instances", "New Course", "New Instance"}

// =============================================================================
// Messages
// =============================================================================

// initialLoadedMsg signals that the startup fetch of both collections
// settled (each controller carries its own outcome).
type initialLoadedMsg struct{}

// coursesLoadedMsg signals the course controller settled a load.
type coursesLoadedMsg struct{}

// instancesLoadedMsg signals the instance controller settled a load.
type instancesLoadedMsg struct{}

// courseDetailMsg carries a fetched course for the detail overlay.
type courseDetailMsg struct {
	course catalog.Course
	err    error
}

// deleteSettledMsg signals a delete resolved, one way or the other.
type deleteSettledMsg struct {
	entity state.EntityKind
	id     int
	err    error
}

// createSettledMsg signals a form submit resolved. The form already holds
// the resulting ErrMsg or Status; ok steers the follow-up refresh.
type createSettledMsg struct {
	entity state.EntityKind
	ok     bool
}

// =============================================================================
// Confirm Overlay
// =============================================================================

// confirmState is the pending yes/no decision for a delete. While set,
// the overlay captures all keys; declining discards it with no state
// change and no network call.
type confirmState struct {
	prompt string
	entity state.EntityKind
	id     int
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the coursedeck console.
type Model struct {
	gw     gateway.CatalogGateway
	bus    *state.Bus
	logger *logging.Logger

	courses   *state.ListController[catalog.Course]
	instances *state.ListController[catalog.Instance]

	courseDeleter   *state.Deleter[catalog.Course]
	instanceDeleter *state.Deleter[catalog.Instance]

	courseForm   *state.CourseForm
	instanceForm *state.InstanceForm

	page    page
	confirm *confirmState

	// detail is the course shown in the detail overlay, nil when closed.
	detail *catalog.Course

	courseTable   table.Model
	instanceTable table.Model
	spin          spinner.Model

	// Instance list filters.
	yearFilter textinput.Model
	semFilter  textinput.Model
	filtering  bool
	filterIdx  int

	// New-course form inputs: title, code, description, credits, department.
	courseInputs []textinput.Model
	courseFocus  int

	// New-instance form: course picked from the dropdown source by index.
	yearInput  textinput.Model
	semIdx     int
	coursePick int

	width  int
	height int

	statusLine string
	errLine    string
}

// New wires a console model against the gateway.
//
// Each console run owns its controllers for its lifetime; nothing is
// shared between runs.
func New(gw gateway.CatalogGateway, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	bus := state.NewBus()

	courses := state.NewListController(
		func(ctx context.Context) ([]catalog.Course, error) { return gw.ListCourses(ctx) },
		state.WithListLogger[catalog.Course](logger),
	)
	instances := state.NewListController(
		func(ctx context.Context) ([]catalog.Instance, error) { return gw.ListInstances(ctx, "", "") },
		state.Treat404AsEmpty[catalog.Instance](),
		state.WithListLogger[catalog.Instance](logger),
	)

	// The dropdown source is its own controller: the instance form must
	// not share the course list page's collection instance.
	dropdown := state.NewListController(
		func(ctx context.Context) ([]catalog.Course, error) { return gw.ListCourses(ctx) },
		state.WithListLogger[catalog.Course](logger),
	)

	m := Model{
		gw:     gw,
		bus:    bus,
		logger: logger,

		courses:   courses,
		instances: instances,

		courseDeleter: state.NewDeleter(
			courses,
			gw.DeleteCourse,
			func(c catalog.Course) *int { return c.ID },
			state.PublishOn[catalog.Course](bus, state.EntityCourse),
			state.WithDeleteLogger[catalog.Course](logger),
		),
		instanceDeleter: state.NewDeleter(
			instances,
			gw.DeleteInstance,
			func(i catalog.Instance) *int { return i.ID },
			state.WithDeleteLogger[catalog.Instance](logger),
		),

		courseForm:   state.NewCourseForm(state.NewCourseCreator(gw, bus, logger)),
		instanceForm: state.NewInstanceForm(state.NewInstanceCreator(gw, logger), dropdown, bus),
	}

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.courseTable = newCourseTable()
	m.instanceTable = newInstanceTable()

	// Filters start blank: the list opens showing every instance.
	m.yearFilter = newInput("year", 4)
	m.semFilter = newInput("semester", 8)

	m.courseInputs = []textinput.Model{
		newInput("Title", 64),
		newInput("Code", 16),
		newInput("Description", 128),
		newInput("Credits", 3),
		newInput("Department", 48),
	}
	m.courseInputs[3].SetValue(state.DefaultCredits)
	m.courseInputs[4].SetValue(state.DefaultDepartment)

	m.yearInput = newInput("Year", 4)
	m.yearInput.SetValue(state.DefaultYear())

	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "> "
	return in
}

func newCourseTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Code", Width: 10},
			{Title: "Title", Width: 32},
			{Title: "Credits", Width: 8},
			{Title: "Department", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return t
}

func newInstanceTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Course", Width: 34},
			{Title: "Year", Width: 6},
			{Title: "Semester", Width: 10},
		}),
		table.WithHeight(12),
	)
	return t
}

// Init starts the spinner and the initial fetch of both collections.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.initialLoad())
}

// Run starts the console and blocks until the user quits.
func Run(gw gateway.CatalogGateway, logger *logging.Logger) error {
	p := tea.NewProgram(New(gw, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console terminated: %w", err)
	}
	return nil
}

// =============================================================================
// Commands
// =============================================================================

// initialLoad fetches both collections concurrently. Each controller
// settles its own state; the errgroup only bounds the wait.
func (m Model) initialLoad() tea.Cmd {
	courses := m.courses
	instances := m.instances
	dropdown := m.instanceForm.Courses()
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error { _ = courses.Load(ctx); return nil })
		g.Go(func() error { _ = instances.Load(ctx); return nil })
		g.Go(func() error { _ = dropdown.Load(ctx); return nil })
		_ = g.Wait()
		return initialLoadedMsg{}
	}
}

func (m Model) loadCourses() tea.Cmd {
	ctl := m.courses
	return func() tea.Msg {
		_ = ctl.Load(context.Background())
		return coursesLoadedMsg{}
	}
}

func (m Model) loadInstances(year, semester string) tea.Cmd {
	gw := m.gw
	ctl := m.instances
	return func() tea.Msg {
		_ = ctl.LoadWith(context.Background(), func(ctx context.Context) ([]catalog.Instance, error) {
			return gw.ListInstances(ctx, year, semester)
		})
		return instancesLoadedMsg{}
	}
}

func (m Model) fetchCourseDetail(id int) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		course, err := gw.GetCourse(context.Background(), id)
		return courseDetailMsg{course: course, err: err}
	}
}

func (m Model) deleteCourse(id int) tea.Cmd {
	d := m.courseDeleter
	return func() tea.Msg {
		err := d.Delete(context.Background(), id)
		return deleteSettledMsg{entity: state.EntityCourse, id: id, err: err}
	}
}

func (m Model) deleteInstance(id int) tea.Cmd {
	d := m.instanceDeleter
	return func() tea.Msg {
		err := d.Delete(context.Background(), id)
		return deleteSettledMsg{entity: state.EntityInstance, id: id, err: err}
	}
}

func (m Model) submitCourse() tea.Cmd {
	form := m.courseForm
	return func() tea.Msg {
		_, ok := form.Submit(context.Background())
		return createSettledMsg{entity: state.EntityCourse, ok: ok}
	}
}

func (m Model) submitInstance() tea.Cmd {
	form := m.instanceForm
	return func() tea.Msg {
		_, ok := form.Submit(context.Background())
		return createSettledMsg{entity: state.EntityInstance, ok: ok}
	}
}

// =============================================================================
// Row Sync
// =============================================================================

// syncCourseRows mirrors the course controller into the table.
func (m *Model) syncCourseRows() {
	snap := m.courses.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, c := range snap.Items {
		id := ""
		if c.ID != nil {
			id = strconv.Itoa(*c.ID)
		}
		rows = append(rows, table.Row{id, c.CourseCode, c.Title, strconv.Itoa(c.Credits), c.Department})
	}
	m.courseTable.SetRows(rows)
}

// syncInstanceRows mirrors the instance controller into the table. An
// inconsistent or missing embed renders as the bare instance label with
// a warning marker rather than the wrong course.
func (m *Model) syncInstanceRows() {
	snap := m.instances.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, inst := range snap.Items {
		id := ""
		if inst.ID != nil {
			id = strconv.Itoa(*inst.ID)
		}
		label := inst.Label()
		if !inst.ConsistentDetails() || inst.CourseDetails == nil || inst.CourseDetails.Title == "" {
			label = fmt.Sprintf("%s %s", label, ux.IconWarning)
		}
		rows = append(rows, table.Row{id, label, strconv.Itoa(inst.Year), inst.Semester})
	}
	m.instanceTable.SetRows(rows)
}

// selectedID extracts the ID column of a table's highlighted row.
func selectedID(t table.Model) (int, bool) {
	row := t.SelectedRow()
	if row == nil || len(row) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, false
	}
	return id, true
}
