// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import (
	"context"
	"sync"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/gateway"
)

// mockGateway is a recording fake of the catalog gateway. Each operation
// counts its calls and returns whatever the test primed; errors injected
// per operation take precedence.
type mockGateway struct {
	mu sync.Mutex

	courses   []catalog.Course
	instances []catalog.Instance

	createdCourse   catalog.Course
	createdInstance catalog.Instance

	listCoursesErr    error
	listInstancesErr  error
	createCourseErr   error
	createInstanceErr error
	deleteCourseErr   error
	deleteInstanceErr error

	listCoursesCalls   int
	listInstancesCalls int
	createCourseCalls  []catalog.CourseDraft
	createInstCalls    []catalog.InstanceDraft
	deleteCourseCalls  []int
	deleteInstCalls    []int
}

func (m *mockGateway) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCoursesCalls++
	if m.listCoursesErr != nil {
		return nil, m.listCoursesErr
	}
	out := make([]catalog.Course, len(m.courses))
	copy(out, m.courses)
	return out, nil
}

func (m *mockGateway) CreateCourse(ctx context.Context, draft catalog.CourseDraft) (catalog.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCourseCalls = append(m.createCourseCalls, draft)
	if m.createCourseErr != nil {
		return catalog.Course{}, m.createCourseErr
	}
	return m.createdCourse, nil
}

func (m *mockGateway) GetCourse(ctx context.Context, id int) (catalog.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.ID != nil && *c.ID == id {
			return c, nil
		}
	}
	return catalog.Course{}, &gateway.RequestError{Kind: gateway.KindNotFound, Status: 404, Message: "Not Found"}
}

func (m *mockGateway) DeleteCourse(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCourseCalls = append(m.deleteCourseCalls, id)
	return m.deleteCourseErr
}

func (m *mockGateway) ListInstances(ctx context.Context, year, semester string) ([]catalog.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listInstancesCalls++
	if m.listInstancesErr != nil {
		return nil, m.listInstancesErr
	}
	out := make([]catalog.Instance, len(m.instances))
	copy(out, m.instances)
	return out, nil
}

func (m *mockGateway) CreateInstance(ctx context.Context, draft catalog.InstanceDraft) (catalog.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createInstCalls = append(m.createInstCalls, draft)
	if m.createInstanceErr != nil {
		return catalog.Instance{}, m.createInstanceErr
	}
	return m.createdInstance, nil
}

func (m *mockGateway) GetInstance(ctx context.Context, year, semester string, id int) (catalog.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instances {
		if inst.ID != nil && *inst.ID == id {
			return inst, nil
		}
	}
	return catalog.Instance{}, &gateway.RequestError{Kind: gateway.KindNotFound, Status: 404, Message: "Not Found"}
}

func (m *mockGateway) DeleteInstance(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteInstCalls = append(m.deleteInstCalls, id)
	return m.deleteInstanceErr
}

var _ gateway.CatalogGateway = (*mockGateway)(nil)

// --- fixture helpers ---

func intp(v int) *int { return &v }

func fixtureCourses() []catalog.Course {
	return []catalog.Course{
		{ID: intp(1), Title: "Operating Systems", CourseCode: "CS301", Description: "a", Credits: 4, Department: "CS"},
		{ID: intp(2), Title: "Databases", CourseCode: "CS305", Description: "b", Credits: 3, Department: "CS"},
		{ID: intp(3), Title: "Compilers", CourseCode: "CS401", Description: "c", Credits: 4, Department: "CS"},
	}
}

func serverError(detail string) *gateway.RequestError {
	return &gateway.RequestError{
		Kind:    gateway.KindHTTP,
		Status:  400,
		Message: "Failed: Bad Request",
		Detail:  detail,
	}
}
