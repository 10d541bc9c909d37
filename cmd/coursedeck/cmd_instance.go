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

func runInstanceList(cmd *cobra.Command, args []string) {
	gw := newGateway()
	instances, err := gw.ListInstances(context.Background(), filterYear, filterSemester)
	if err != nil {
		// No instance matches the filters. An empty result, not a failure.
		if gateway.IsNotFound(err) {
			if outputJSON {
				printJSON([]catalog.Instance{})
				return
			}
			fmt.Println("No instances found.")
			return
		}
		exitf("%s", gateway.Message(err))
	}

	if outputJSON {
		printJSON(instances)
		return
	}
	if len(instances) == 0 {
		fmt.Println("No instances found.")
		return
	}
	for _, inst := range instances {
		id := "?"
		if inst.ID != nil {
			id = strconv.Itoa(*inst.ID)
		}
		label := inst.Label()
		if !inst.ConsistentDetails() {
			label = fmt.Sprintf("%s %s", label, ux.IconWarning.Render())
		}
		fmt.Printf("%s  %s  %d %s\n",
			ux.Styles.Muted.Render(id),
			label, inst.Year, ux.Styles.Subtitle.Render(inst.Semester))
	}
}

func runInstanceGet(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitf("Invalid instance ID %q", args[0])
	}
	if filterYear == "" || filterSemester == "" {
		exitf("Both --year and --semester are required to address an instance.")
	}

	gw := newGateway()
	instance, gerr := gw.GetInstance(context.Background(), filterYear, filterSemester, id)
	if gerr != nil {
		exitf("%s", gateway.Message(gerr))
	}

	if outputJSON {
		printJSON(instance)
		return
	}
	fmt.Printf("%s\n", ux.Styles.Bold.Render(instance.Label()))
	fmt.Printf("Year:     %d\n", instance.Year)
	fmt.Printf("Semester: %s\n", instance.Semester)
	if d, ok := instance.TrustedDetails(); ok {
		fmt.Printf("Course:   %s %s (%d cr, %s)\n", d.CourseCode, d.Title, d.Credits, d.Department)
	} else {
		fmt.Printf("Course:   #%d\n", instance.Course)
	}
}

// runInstanceCreate creates an instance from flags, falling back to an
// interactive form (with a live course picker) on a terminal.
func runInstanceCreate(cmd *cobra.Command, args []string) {
	gw := newGateway()

	if instanceCourse == "" && ux.IsInteractive() {
		promptInstanceFields(gw)
	}

	courseID, verr := catalog.ParseCourseID(instanceCourse)
	if verr != nil {
		exitf("%s", verr.Error())
	}
	year, verr := catalog.ParseYear(orDefault(instanceYear, state.DefaultYear()))
	if verr != nil {
		exitf("%s", verr.Error())
	}
	semester := orDefault(instanceSemester, state.DefaultSemester)
	if !catalog.IsValidSemester(semester) {
		exitf("Invalid semester %q; expected one of %v.", semester, catalog.Semesters)
	}

	creator := state.NewInstanceCreator(gw, appLogger)
	created, err := creator.Create(context.Background(), catalog.InstanceDraft{
		Course:   courseID,
		Year:     year,
		Semester: semester,
	})
	if err != nil {
		exitf("%s", state.CleanMessage(gateway.Message(err)))
	}

	if outputJSON {
		printJSON(created)
		return
	}
	ux.Successf("Created instance %d (%s).", deref(created.ID), created.Label())
}

// promptInstanceFields fills the instance flag variables interactively.
// The course picker is populated from the live catalog so the selection
// can only ever reference a course that exists right now.
func promptInstanceFields(gw gateway.CatalogGateway) {
	courses, err := gw.ListCourses(context.Background())
	if err != nil {
		exitf("%s", gateway.Message(err))
	}
	if len(courses) == 0 {
		exitf("No courses available. Create a course first.")
	}

	options := make([]huh.Option[string], 0, len(courses))
	for _, c := range courses {
		if c.ID == nil {
			continue
		}
		options = append(options, huh.NewOption(
			fmt.Sprintf("%s: %s", c.CourseCode, c.Title),
			strconv.Itoa(*c.ID)))
	}

	if instanceYear == "" {
		instanceYear = state.DefaultYear()
	}
	if instanceSemester == "" {
		instanceSemester = state.DefaultSemester
	}
	semOptions := make([]huh.Option[string], 0, len(catalog.Semesters))
	for _, s := range catalog.Semesters {
		semOptions = append(semOptions, huh.NewOption(s, s))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Course").Options(options...).Value(&instanceCourse),
		huh.NewInput().Title("Year").Value(&instanceYear).Validate(func(s string) error {
			if _, err := catalog.ParseYear(s); err != nil {
				return err
			}
			return nil
		}),
		huh.NewSelect[string]().Title("Semester").Options(semOptions...).Value(&instanceSemester),
	))
	if err := form.Run(); err != nil {
		exitf("Form cancelled: %v", err)
	}
}

func runInstanceDelete(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitf("Invalid instance ID %q", args[0])
	}

	if !assumeYes {
		if !ux.Confirm(fmt.Sprintf("Delete instance %d?", id)) {
			fmt.Println("Aborted.")
			return
		}
	}

	gw := newGateway()
	if err := gw.DeleteInstance(context.Background(), id); err != nil {
		exitf("%s", gateway.Message(err))
	}
	ux.Successf("Deleted instance %d.", id)
}
