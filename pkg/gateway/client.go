// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package gateway is the boundary component issuing remote calls to the
course catalog API and normalizing their results and errors.

# Problem Statement

The console needs typed request/response functions for Course and Instance
CRUD against a remote REST service, with every failure mode - transport
error, non-2xx status, undecodable body - collapsed into one error contract
that the state controllers can turn into a display message.

# Error Contract

All operations return *RequestError on failure (see errors.go). Non-2xx
responses are decoded as {"detail": string}; when no parseable body is
present the HTTP status line text is used instead. A 404 is represented
distinctly (KindNotFound) so callers can reinterpret it - the instance
listing treats it as "no matching instances", not as an error, but that
reinterpretation belongs to the controller layer, never here.

# Semantics

Operations are asynchronous only in the sense that they block the calling
goroutine until the transport settles; there is no automatic retry and no
shared mutable state. Every call is independent, and all reads and deletes
are idempotent at this layer. CreateCourse and CreateInstance are not:
each call creates a new record by design.

# Usage

	gw := gateway.New("http://localhost:8000/api")
	courses, err := gw.ListCourses(ctx)
	if err != nil {
	    fmt.Println(gateway.Message(err))
	}
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coursedeck/coursedeck/pkg/catalog"
	"github.com/coursedeck/coursedeck/pkg/logging"
)

// -----------------------------------------------------------------------------
// Interface Definition
// -----------------------------------------------------------------------------

// CatalogGateway defines the remote operations the controllers depend on.
// The interface exists so tests can substitute a recording mock.
//
// Implementations must be safe for concurrent use.
type CatalogGateway interface {
	// ListCourses returns all courses in server response order.
	ListCourses(ctx context.Context) ([]catalog.Course, error)

	// CreateCourse persists a new course and returns it with its ID set.
	CreateCourse(ctx context.Context, draft catalog.CourseDraft) (catalog.Course, error)

	// GetCourse returns a single course. A missing ID is KindNotFound.
	GetCourse(ctx context.Context, id int) (catalog.Course, error)

	// DeleteCourse removes a course. The server may refuse when the course
	// is still referenced by an instance.
	DeleteCourse(ctx context.Context, id int) error

	// ListInstances returns instances, optionally filtered by year and
	// semester (both optional and independent). Embedded course details
	// are always requested.
	ListInstances(ctx context.Context, year, semester string) ([]catalog.Instance, error)

	// CreateInstance persists a new instance, requesting embedded course
	// details in the response.
	CreateInstance(ctx context.Context, draft catalog.InstanceDraft) (catalog.Instance, error)

	// GetInstance returns a single instance addressed by year, semester
	// and ID. A miss is KindNotFound.
	GetInstance(ctx context.Context, year, semester string, id int) (catalog.Instance, error)

	// DeleteInstance removes an instance.
	DeleteInstance(ctx context.Context, id int) error
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Client implements CatalogGateway over net/http.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client. Useful for tests
// and for callers that need custom timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger. Nil is replaced by the default.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a gateway client for the given base URL.
//
// # Inputs
//
//   - baseURL: API root (e.g., "http://localhost:8000/api"); a trailing
//     slash is tolerated and stripped.
//   - opts: optional overrides.
//
// # Outputs
//
//   - *Client: ready-to-use gateway.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// -----------------------------------------------------------------------------
// Course Operations
// -----------------------------------------------------------------------------

// ListCourses returns all courses, unfiltered, in server response order.
func (c *Client) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := c.doJSON(ctx, http.MethodGet, "/courses", nil, &courses, "fetch courses"); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse persists the draft. A server-side rejection (for example a
// duplicate course code) surfaces as a RequestError carrying the server's
// detail string.
func (c *Client) CreateCourse(ctx context.Context, draft catalog.CourseDraft) (catalog.Course, error) {
	var created catalog.Course
	if err := c.doJSON(ctx, http.MethodPost, "/courses", draft, &created, "create course"); err != nil {
		return catalog.Course{}, err
	}
	c.logger.Info("course created", "id", derefID(created.ID), "code", created.CourseCode)
	return created, nil
}

// GetCourse fetches one course by ID. 404 maps to KindNotFound.
func (c *Client) GetCourse(ctx context.Context, id int) (catalog.Course, error) {
	var course catalog.Course
	path := fmt.Sprintf("/courses/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &course, fmt.Sprintf("fetch course %d", id)); err != nil {
		return catalog.Course{}, err
	}
	return course, nil
}

// DeleteCourse removes a course by ID.
func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	path := fmt.Sprintf("/courses/%d", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, "delete course"); err != nil {
		return err
	}
	c.logger.Info("course deleted", "id", id)
	return nil
}

// -----------------------------------------------------------------------------
// Instance Operations
// -----------------------------------------------------------------------------

// instanceCreateBody is the wire shape for instance creation. The
// include_course flag rides along so the response carries the denormalized
// course snapshot.
type instanceCreateBody struct {
	Course        int    `json:"course"`
	Year          int    `json:"year"`
	Semester      string `json:"semester"`
	IncludeCourse bool   `json:"include_course"`
}

// ListInstances returns instances for the optional year/semester filters.
// Embedded course details are always requested via include_course=true.
//
// A 404 here is returned as KindNotFound like any other miss; the list
// controller decides whether it means "empty".
func (c *Client) ListInstances(ctx context.Context, year, semester string) ([]catalog.Instance, error) {
	params := url.Values{}
	if year != "" {
		params.Set("year", year)
	}
	if semester != "" {
		params.Set("semester", semester)
	}
	params.Set("include_course", "true")

	var instances []catalog.Instance
	path := "/instances?" + params.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &instances, "fetch instances"); err != nil {
		return nil, err
	}

	for _, inst := range instances {
		if inst.CourseDetails == nil || inst.CourseDetails.Title == "" || inst.CourseDetails.CourseCode == "" {
			c.logger.Warn("instance missing course details", "id", derefID(inst.ID), "course", inst.Course)
		}
	}
	return instances, nil
}

// CreateInstance persists the draft, requesting embedded course details
// in the response.
func (c *Client) CreateInstance(ctx context.Context, draft catalog.InstanceDraft) (catalog.Instance, error) {
	body := instanceCreateBody{
		Course:        draft.Course,
		Year:          draft.Year,
		Semester:      draft.Semester,
		IncludeCourse: true,
	}
	var created catalog.Instance
	if err := c.doJSON(ctx, http.MethodPost, "/instances", body, &created, "create instance"); err != nil {
		return catalog.Instance{}, err
	}
	if created.CourseDetails == nil || created.CourseDetails.Title == "" {
		c.logger.Warn("created instance missing course details", "id", derefID(created.ID))
	}
	c.logger.Info("instance created", "id", derefID(created.ID), "course", created.Course)
	return created, nil
}

// GetInstance fetches one instance addressed by year, semester and ID.
func (c *Client) GetInstance(ctx context.Context, year, semester string, id int) (catalog.Instance, error) {
	var instance catalog.Instance
	path := fmt.Sprintf("/instances/%s/%s/%d", url.PathEscape(year), url.PathEscape(semester), id)
	op := fmt.Sprintf("fetch instance %s-%s-%d", year, semester, id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &instance, op); err != nil {
		return catalog.Instance{}, err
	}
	return instance, nil
}

// DeleteInstance removes an instance by ID.
func (c *Client) DeleteInstance(ctx context.Context, id int) error {
	path := fmt.Sprintf("/instances/%d", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, "delete instance"); err != nil {
		return err
	}
	c.logger.Info("instance deleted", "id", id)
	return nil
}

// -----------------------------------------------------------------------------
// Request Plumbing
// -----------------------------------------------------------------------------

// errorBody is the error shape the API emits on non-2xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// doJSON issues one request and decodes the response into out (when out is
// non-nil). All failure modes normalize into *RequestError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, op string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return transportError(op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return transportError(op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "op", op, "error", err.Error())
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp, op)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("response decode failed", "op", op, "error", err.Error())
		return decodeError(op, err)
	}
	return nil
}

// statusError maps a non-2xx response into the uniform contract. The
// server's {"detail"} body wins; an unparseable body falls back to the
// HTTP status line text.
func (c *Client) statusError(resp *http.Response, op string) error {
	kind := KindHTTP
	if resp.StatusCode == http.StatusNotFound {
		kind = KindNotFound
	}

	var detail string
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		detail = eb.Detail
	}

	c.logger.Warn("server rejected request", "op", op, "status", resp.StatusCode, "detail", detail)
	return &RequestError{
		Kind:    kind,
		Op:      op,
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("Failed to %s: %s", op, http.StatusText(resp.StatusCode)),
		Detail:  detail,
	}
}

// derefID renders an optional ID for logging.
func derefID(id *int) any {
	if id == nil {
		return "unsaved"
	}
	return *id
}

// Compile-time interface satisfaction check
var _ CatalogGateway = (*Client)(nil)
