// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithLogger(logging.Discard()))
}

func TestListCourses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/courses", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "title": "Operating Systems", "course_code": "CS301", "credits": 4, "department": "CS"},
			{"id": 2, "title": "Databases", "course_code": "CS305", "credits": 3, "department": "CS"},
		})
	})

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.NotNil(t, courses[0].ID)
	assert.Equal(t, 1, *courses[0].ID)
	assert.Equal(t, "CS305", courses[1].CourseCode)
}

func TestCreateCourse_SendsDraftAndDecodesResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/courses", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Compilers", body["title"])
		assert.NotContains(t, body, "id")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "title": "Compilers", "course_code": "CS401", "credits": 4, "department": "CS",
		})
	})

	created, err := client.CreateCourse(context.Background(), catalog.CourseDraft{
		Title: "Compilers", CourseCode: "CS401", Description: "Lexing to codegen.",
		Credits: 4, Department: "CS",
	})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, 9, *created.ID)
}

func TestStatusError_DetailWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"detail": "Course with this course code already exists.",
		})
	})

	_, err := client.CreateCourse(context.Background(), catalog.CourseDraft{
		Title: "X", CourseCode: "CS1", Description: "d", Credits: 1, Department: "CS",
	})
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindHTTP, re.Kind)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "Course with this course code already exists.", err.Error())
}

func TestStatusError_FallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.ListCourses(context.Background())
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Empty(t, re.Detail)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusInternalServerError))
}

func TestStatusError_NotFoundKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No instances found."})
	})

	_, err := client.ListInstances(context.Background(), "2025", "1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestTransportError(t *testing.T) {
	// A closed server: the request never produces a response.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(srv.URL, WithLogger(logging.Discard()))

	_, err := client.ListCourses(context.Background())
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindTransport, re.Kind)
	assert.Equal(t, 0, re.Status)
	assert.False(t, IsNotFound(err))
}

func TestDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := client.ListCourses(context.Background())
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindDecode, re.Kind)
}

func TestListInstances_AlwaysRequestsCourseDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("include_course"))
		assert.Equal(t, "2025", q.Get("year"))
		assert.Equal(t, "Summer", q.Get("semester"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": 3, "course": 1, "year": 2025, "semester": "Summer",
				"course_details": map[string]any{
					"id": 1, "title": "Operating Systems", "course_code": "CS301",
					"credits": 4, "department": "CS",
				},
			},
		})
	})

	instances, err := client.ListInstances(context.Background(), "2025", "Summer")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	require.NotNil(t, instances[0].CourseDetails)
	assert.True(t, instances[0].ConsistentDetails())
	assert.Equal(t, "Operating Systems (CS301)", instances[0].Label())
}

func TestListInstances_OmitsEmptyFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("year"))
		assert.False(t, q.Has("semester"))
		assert.Equal(t, "true", q.Get("include_course"))
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})

	instances, err := client.ListInstances(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestCreateInstance_RequestsEmbeddedCourse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["include_course"])
		assert.Equal(t, float64(1), body["course"])
		assert.Equal(t, float64(2025), body["year"])
		assert.Equal(t, "1", body["semester"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 5, "course": 1, "year": 2025, "semester": "1",
			"course_details": map[string]any{"id": 1, "title": "OS", "course_code": "CS301"},
		})
	})

	created, err := client.CreateInstance(context.Background(), catalog.InstanceDraft{
		Course: 1, Year: 2025, Semester: "1",
	})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, 5, *created.ID)
}

func TestGetInstance_AddressesByYearSemesterID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instances/2025/Winter/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "course": 2, "year": 2025, "semester": "Winter",
		})
	})

	inst, err := client.GetInstance(context.Background(), "2025", "Winter", 7)
	require.NoError(t, err)
	require.NotNil(t, inst.ID)
	assert.Equal(t, 7, *inst.ID)
}

func TestDelete_UsesDeleteMethod(t *testing.T) {
	var courseMethod, coursePath, instMethod, instPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/4":
			courseMethod, coursePath = r.Method, r.URL.Path
		case "/instances/6":
			instMethod, instPath = r.Method, r.URL.Path
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteCourse(context.Background(), 4))
	require.NoError(t, client.DeleteInstance(context.Background(), 6))
	assert.Equal(t, http.MethodDelete, courseMethod)
	assert.Equal(t, "/courses/4", coursePath)
	assert.Equal(t, http.MethodDelete, instMethod)
	assert.Equal(t, "/instances/6", instPath)
}

func TestNew_StripsTrailingSlash(t *testing.T) {
	client := New("http://localhost:8000/api/", WithLogger(logging.Discard()))
	assert.Equal(t, "http://localhost:8000/api", client.BaseURL())
}
