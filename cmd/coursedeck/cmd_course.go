// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
	"github.com/coursedeck/coursedeck/pkg/state"
	"github.com/coursedeck/coursedeck/pkg/ux"
)

func runCourseList(cmd *cobra.Command, args []string) {
	gw := newGateway()
	courses, err := gw.ListCourses(context.Background())
	if err != nil {
		exitf("%s", gateway.Message(err))
	}

	if outputJSON {
		printJSON(courses)
		return
	}
	if len(courses) == 0 {
		fmt.Println("No courses found.")
		return
	}
	for _, c := range courses {
		id := "?"
		if c.ID != nil {
			id = strconv.Itoa(*c.ID)
		}
		fmt.Printf("%s  %s  %s (%d cr, %s)\n",
			ux.Styles.Muted.Render(id),
			ux.Styles.Highlight.Render(c.CourseCode),
			c.Title, c.Credits, c.Department)
	}
}

func runCourseGet(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitf("Invalid course ID %q", args[0])
	}

	gw := newGateway()
	course, gerr := gw.GetCourse(context.Background(), id)
	if gerr != nil {
		exitf("%s", gateway.Message(gerr))
	}

	if outputJSON {
		printJSON(course)
		return
	}
	fmt.Printf("%s %s\n", ux.Styles.Highlight.Render(course.CourseCode), ux.Styles.Bold.Render(course.Title))
	fmt.Printf("Department: %s\n", course.Department)
	fmt.Printf("Credits:    %d\n", course.Credits)
	fmt.Printf("%s\n", course.Description)
}

// runCourseCreate creates a course from flags, falling back to an
// interactive form when no flags were given on a terminal.
func runCourseCreate(cmd *cobra.Command, args []string) {
	if courseTitle == "" && courseCode == "" && ux.IsInteractive() {
		promptCourseFields()
	}

	credits, verr := catalog.ParseCredits(orDefault(courseCredits, state.DefaultCredits))
	if verr != nil {
		exitf("%s", verr.Error())
	}
	draft := catalog.CourseDraft{
		Title:       courseTitle,
		CourseCode:  courseCode,
		Description: courseDescription,
		Credits:     credits,
		Department:  orDefault(courseDepartment, state.DefaultDepartment),
	}

	creator := state.NewCourseCreator(newGateway(), nil, appLogger)
	created, err := creator.Create(context.Background(), draft)
	if err != nil {
		exitf("%s", gateway.Message(err))
	}

	if outputJSON {
		printJSON(created)
		return
	}
	ux.Successf("Created course %d (%s).", deref(created.ID), created.CourseCode)
}

// promptCourseFields fills the course flag variables from an interactive
// form. Validation here only catches what the API would reject anyway, so
// the user finds out before the request.
func promptCourseFields() {
	if courseCredits == "" {
		courseCredits = state.DefaultCredits
	}
	if courseDepartment == "" {
		courseDepartment = state.DefaultDepartment
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&courseTitle).Validate(requiredField),
		huh.NewInput().Title("Course code").Value(&courseCode).Validate(requiredField),
		huh.NewInput().Title("Description").Value(&courseDescription).Validate(requiredField),
		huh.NewInput().Title("Credits").Value(&courseCredits).Validate(func(s string) error {
			if _, err := catalog.ParseCredits(s); err != nil {
				return err
			}
			return nil
		}),
		huh.NewInput().Title("Department").Value(&courseDepartment).Validate(requiredField),
	))
	if err := form.Run(); err != nil {
		exitf("Form cancelled: %v", err)
	}
}

func runCourseDelete(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitf("Invalid course ID %q", args[0])
	}

	if !assumeYes {
		if !ux.Confirm(fmt.Sprintf("Delete course %d? Its instances will keep a dangling reference.", id)) {
			fmt.Println("Aborted.")
			return
		}
	}

	gw := newGateway()
	if err := gw.DeleteCourse(context.Background(), id); err != nil {
		exitf("%s", gateway.Message(err))
	}
	ux.Successf("Deleted course %d.", id)
}

// --- small shared helpers ---

func requiredField(s string) error {
	if s == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func deref(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}
