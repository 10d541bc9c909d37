// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	assumeYes  bool
	outputJSON bool

	courseTitle       string
	courseCode        string
	courseDescription string
	courseCredits     string
	courseDepartment  string

	instanceCourse   string
	instanceYear     string
	instanceSemester string

	filterYear     string
	filterSemester string

	rootCmd = &cobra.Command{
		Use:   "coursedeck",
		Short: "An admin console for the course catalog API",
		Long: `Coursedeck manages courses and their per-semester instances on a
				remote catalog API. Use the subcommands for scripting, or run
				'coursedeck console' for the interactive full-screen console.`,
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime, // Defined in cmd_helpers.go
	}

	// --- Courses ---
	courseCmd = &cobra.Command{
		Use:     "course",
		Short:   "Manage courses in the catalog",
		Aliases: []string{"courses"},
	}
	courseListCmd = &cobra.Command{
		Use:   "list",
		Short: "List every course in the catalog",
		Run:   runCourseList, // Defined in cmd_course.go
	}
	courseGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Show one course by ID",
		Args:  cobra.ExactArgs(1),
		Run:   runCourseGet, // Defined in cmd_course.go
	}
	courseCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a course (interactive form when flags are omitted)",
		Run:   runCourseCreate, // Defined in cmd_course.go
	}
	courseDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a course (its instances keep a dangling reference)",
		Args:  cobra.ExactArgs(1),
		Run:   runCourseDelete, // Defined in cmd_course.go
	}

	// --- Instances ---
	instanceCmd = &cobra.Command{
		Use:     "instance",
		Short:   "Manage course instances (a course offered in a year and semester)",
		Aliases: []string{"instances"},
	}
	instanceListCmd = &cobra.Command{
		Use:   "list",
		Short: "List instances, optionally filtered by year and semester",
		Run:   runInstanceList, // Defined in cmd_instance.go
	}
	instanceGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Show one instance by year, semester, and ID",
		Args:  cobra.ExactArgs(1),
		Run:   runInstanceGet, // Defined in cmd_instance.go
	}
	instanceCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an instance (interactive form when flags are omitted)",
		Run:   runInstanceCreate, // Defined in cmd_instance.go
	}
	instanceDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an instance",
		Args:  cobra.ExactArgs(1),
		Run:   runInstanceDelete, // Defined in cmd_instance.go
	}

	// --- Console ---
	consoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Open the interactive full-screen console",
		Run:   runConsole, // Defined in cmd_console.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"Skip confirmation prompts for destructive operations")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "output-json", false,
		"Print results as JSON instead of styled text")

	rootCmd.AddCommand(courseCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseGetCmd)
	courseCmd.AddCommand(courseCreateCmd)
	courseCmd.AddCommand(courseDeleteCmd)
	courseCreateCmd.Flags().StringVar(&courseTitle, "title", "", "Course title")
	courseCreateCmd.Flags().StringVar(&courseCode, "code", "", "Course code (e.g. CS101)")
	courseCreateCmd.Flags().StringVar(&courseDescription, "description", "", "Course description")
	courseCreateCmd.Flags().StringVar(&courseCredits, "credits", "", "Credit count (positive integer)")
	courseCreateCmd.Flags().StringVar(&courseDepartment, "department", "", "Owning department")

	rootCmd.AddCommand(instanceCmd)
	instanceCmd.AddCommand(instanceListCmd)
	instanceCmd.AddCommand(instanceGetCmd)
	instanceCmd.AddCommand(instanceCreateCmd)
	instanceCmd.AddCommand(instanceDeleteCmd)
	instanceListCmd.Flags().StringVar(&filterYear, "year", "", "Filter by year")
	instanceListCmd.Flags().StringVar(&filterSemester, "semester", "", "Filter by semester (1, 2, Summer, Winter)")
	instanceGetCmd.Flags().StringVar(&filterYear, "year", "", "Year of the instance (required)")
	instanceGetCmd.Flags().StringVar(&filterSemester, "semester", "", "Semester of the instance (required)")
	instanceCreateCmd.Flags().StringVar(&instanceCourse, "course", "", "Course ID to instantiate")
	instanceCreateCmd.Flags().StringVar(&instanceYear, "year", "", "Year (2000-2100)")
	instanceCreateCmd.Flags().StringVar(&instanceSemester, "semester", "", "Semester (1, 2, Summer, Winter)")

	rootCmd.AddCommand(consoleCmd)
}
