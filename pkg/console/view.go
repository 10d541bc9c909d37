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

	"github.com/charmbracelet/lipgloss"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/state"
	"github.com/coursedeck/coursedeck/pkg/ux"
)

var (
	tabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorGreenBright).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(ux.ColorGreen)

	tabInactive = lipgloss.NewStyle().
			Foreground(ux.ColorSlate).
			Padding(0, 2)

	fieldLabel = lipgloss.NewStyle().Foreground(ux.ColorGreen).Width(14)

	pickCursor = lipgloss.NewStyle().Foreground(ux.ColorGreenBright).Bold(true)
)

// View renders the console.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.page {
	case pageCourses:
		b.WriteString(m.viewCourses())
	case pageInstances:
		b.WriteString(m.viewInstances())
	case pageNewCourse:
		b.WriteString(m.viewNewCourse())
	case pageNewInstance:
		b.WriteString(m.viewNewInstance())
	}

	b.WriteString("\n")
	b.WriteString(m.viewBanners())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	if m.confirm != nil {
		return b.String() + "\n" + ux.Styles.ErrorBox.Render(
			m.confirm.prompt+"\n"+ux.Styles.Muted.Render("y to confirm, n to cancel"))
	}
	if m.detail != nil {
		return b.String() + "\n" + m.viewCourseDetail(*m.detail)
	}
	return b.String()
}

func (m Model) viewCourseDetail(c catalog.Course) string {
	var b strings.Builder
	b.WriteString(ux.Styles.Highlight.Render(c.CourseCode) + " " + ux.Styles.Bold.Render(c.Title) + "\n")
	b.WriteString(fmt.Sprintf("Department: %s\n", c.Department))
	b.WriteString(fmt.Sprintf("Credits:    %d\n", c.Credits))
	b.WriteString(c.Description + "\n")
	b.WriteString(ux.Styles.Muted.Render("press any key to close"))
	return ux.Styles.Box.Render(b.String())
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(pageTitles))
	for i, title := range pageTitles {
		if page(i) == m.page {
			tabs = append(tabs, tabActive.Render(title))
		} else {
			tabs = append(tabs, tabInactive.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// -----------------------------------------------------------------------------
// List Pages
// -----------------------------------------------------------------------------

func (m Model) viewCourses() string {
	snap := m.courses.Snapshot()
	switch snap.Phase {
	case state.PhaseIdle, state.PhaseLoading:
		return fmt.Sprintf("%s Loading courses...", m.spin.View())
	case state.PhaseErrored:
		return ux.Styles.ErrorBox.Render("Error: " + snap.Err)
	}
	if len(snap.Items) == 0 {
		return ux.Styles.Muted.Render("No courses found.")
	}
	return m.courseTable.View()
}

func (m Model) viewInstances() string {
	var b strings.Builder

	filterLine := fmt.Sprintf("Year %s  Semester %s", m.yearFilter.View(), m.semFilter.View())
	if m.filtering {
		b.WriteString(ux.Styles.Highlight.Render("Filter: ") + filterLine + "\n\n")
	} else {
		b.WriteString(ux.Styles.Muted.Render("Filter: ") + filterLine + "\n\n")
	}

	snap := m.instances.Snapshot()
	switch snap.Phase {
	case state.PhaseIdle, state.PhaseLoading:
		b.WriteString(fmt.Sprintf("%s Loading instances...", m.spin.View()))
		return b.String()
	case state.PhaseErrored:
		b.WriteString(ux.Styles.ErrorBox.Render("Error: " + snap.Err))
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(ux.Styles.Muted.Render("No instances found."))
		return b.String()
	}
	b.WriteString(m.instanceTable.View())
	return b.String()
}

// -----------------------------------------------------------------------------
// Form Pages
// -----------------------------------------------------------------------------

func (m Model) viewNewCourse() string {
	labels := []string{"Title", "Code", "Description", "Credits", "Department"}
	var b strings.Builder
	b.WriteString(ux.Styles.Subtitle.Render("Create a course") + "\n\n")
	for i, in := range m.courseInputs {
		b.WriteString(fieldLabel.Render(labels[i]) + in.View() + "\n")
	}
	return b.String()
}

func (m Model) viewNewInstance() string {
	var b strings.Builder
	b.WriteString(ux.Styles.Subtitle.Render("Create an instance") + "\n\n")

	b.WriteString(fieldLabel.Render("Course") + "\n")
	b.WriteString(m.viewCoursePicker())
	b.WriteString("\n")
	b.WriteString(fieldLabel.Render("Year") + m.yearInput.View() + "\n")
	b.WriteString(fieldLabel.Render("Semester") + m.viewSemesterCycle() + "\n")
	return b.String()
}

func (m Model) viewCoursePicker() string {
	courses := m.dropdownCourses()
	if len(courses) == 0 {
		return ux.Styles.Muted.Render("  No courses available. Create a course first.") + "\n"
	}

	var b strings.Builder
	for i, c := range courses {
		line := courseOptionLabel(c)
		if i == m.coursePick {
			b.WriteString(pickCursor.Render("  "+string(ux.IconArrow)+" "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}

func courseOptionLabel(c catalog.Course) string {
	return fmt.Sprintf("%s: %s", c.CourseCode, c.Title)
}

func (m Model) viewSemesterCycle() string {
	parts := make([]string, 0, len(catalog.Semesters))
	for i, s := range catalog.Semesters {
		if i == m.semIdx {
			parts = append(parts, ux.Styles.Highlight.Render("["+s+"]"))
		} else {
			parts = append(parts, ux.Styles.Muted.Render(s))
		}
	}
	return strings.Join(parts, "  ")
}

// -----------------------------------------------------------------------------
// Chrome
// -----------------------------------------------------------------------------

func (m Model) viewBanners() string {
	switch {
	case m.errLine != "":
		return ux.Styles.Error.Render(string(ux.IconError) + " " + m.errLine)
	case m.statusLine != "":
		return ux.Styles.Success.Render(string(ux.IconSuccess) + " " + m.statusLine)
	default:
		return ""
	}
}

func (m Model) viewFooter() string {
	var keys string
	switch m.page {
	case pageCourses:
		keys = "tab pages • ↑/↓ select • enter detail • n new • d delete • r refresh • q quit"
	case pageInstances:
		keys = "tab pages • ↑/↓ select • f filter • n new • d delete • r refresh • q quit"
	case pageNewCourse:
		keys = "tab next field • enter submit • esc back"
	case pageNewInstance:
		keys = "↑/↓ pick course • ←/→ semester • tab year • enter submit • esc back"
	}
	return ux.Styles.Muted.Render(keys)
}
