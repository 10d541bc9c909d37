// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a local input failure. It is resolved entirely
// client-side: a draft that fails validation never reaches the gateway.
type ValidationError struct {
	// Field names the offending input ("credits", "year", ...). Empty for
	// cross-field failures.
	Field string

	// Message is display-ready.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// validate is shared; validator.Validate is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// CourseDraft is the payload for course creation. It deliberately has no
// ID field; the server assigns one.
type CourseDraft struct {
	Title       string `json:"title" validate:"required"`
	CourseCode  string `json:"course_code" validate:"required"`
	Description string `json:"description" validate:"required"`
	Credits     int    `json:"credits" validate:"gt=0"`
	Department  string `json:"department" validate:"required"`
}

// Validate checks all course fields locally. All fields are required and
// credits must be a positive integer.
func (d CourseDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return courseDraftError(err)
	}
	return nil
}

// courseDraftError converts validator output into a single display-ready
// ValidationError, mirroring the console's one-message-at-a-time banner.
func courseDraftError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ValidationError{Message: "All course fields are required."}
	}
	first := verrs[0]
	switch first.Field() {
	case "Credits":
		return &ValidationError{Field: "credits", Message: "Credits must be a positive number."}
	default:
		return &ValidationError{
			Field:   strings.ToLower(first.Field()),
			Message: "All course fields are required.",
		}
	}
}

// InstanceDraft is the payload for instance creation.
type InstanceDraft struct {
	Course   int    `json:"course" validate:"gt=0"`
	Year     int    `json:"year"`
	Semester string `json:"semester" validate:"required"`
}

// Validate checks the draft locally: a resolved course reference, a year
// inside [MinYear, MaxYear], and a semester from the fixed enumeration.
func (d InstanceDraft) Validate() error {
	if d.Course <= 0 {
		return &ValidationError{Field: "course", Message: "Please select a course."}
	}
	if d.Year < MinYear || d.Year > MaxYear {
		return &ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("Please enter a valid year between %d and %d.", MinYear, MaxYear),
		}
	}
	if !IsValidSemester(d.Semester) {
		return &ValidationError{
			Field:   "semester",
			Message: fmt.Sprintf("Semester must be one of: %s.", strings.Join(Semesters, ", ")),
		}
	}
	return nil
}

// ParseCredits converts raw credits input into a typed value. It never
// coerces silently: non-numeric or non-positive input is a ValidationError.
func ParseCredits(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "credits", Message: "Credits must be a positive number."}
	}
	return n, nil
}

// ParseYear converts raw year input into a typed value inside the accepted
// range. The bounds are inclusive: 2000 and 2100 pass, 1999 and 2101 fail.
func ParseYear(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinYear || n > MaxYear {
		return 0, &ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("Please enter a valid year between %d and %d.", MinYear, MaxYear),
		}
	}
	return n, nil
}

// ParseCourseID converts a raw course selection into a typed ID. An empty
// selection is reported as "no course selected" rather than a number error.
func ParseCourseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "course", Message: "Please select a course."}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "course", Message: "Selected course not found. Please try again."}
	}
	return n, nil
}
