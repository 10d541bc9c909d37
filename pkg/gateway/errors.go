// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Error Types
// -----------------------------------------------------------------------------

// ErrorKind categorizes gateway failures for programmatic handling.
type ErrorKind int

const (
	// KindTransport indicates the request never produced an HTTP response
	// (connection refused, DNS failure, timeout).
	KindTransport ErrorKind = iota

	// KindHTTP indicates a non-2xx response other than a single-entity 404.
	KindHTTP

	// KindNotFound indicates a 404 response.
	KindNotFound

	// KindDecode indicates a 2xx response whose body could not be parsed
	// as the expected JSON shape.
	KindDecode
)

// String returns the kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "TRANSPORT"
	case KindHTTP:
		return "HTTP"
	case KindNotFound:
		return "NOT_FOUND"
	case KindDecode:
		return "DECODE"
	default:
		return "UNKNOWN"
	}
}

// RequestError is the uniform error contract of the gateway. Transport
// failures, non-2xx responses, and JSON-decoding failures all normalize
// into this one type so controllers handle a single shape.
type RequestError struct {
	// Kind categorizes the failure.
	Kind ErrorKind

	// Op names the operation that failed (e.g., "create course").
	Op string

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	// Message is a human-readable summary, always set.
	Message string

	// Detail is the server-supplied "detail" string, when available.
	Detail string

	// Err is the underlying cause, when available.
	Err error
}

// Error implements the error interface. The server detail wins when
// present; it is the message users see in banners.
func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *RequestError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// Message extracts a display-ready string from any error, preferring the
// gateway's normalized form.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}

// transportError wraps a failure that produced no HTTP response.
func transportError(op string, err error) *RequestError {
	return &RequestError{
		Kind:    KindTransport,
		Op:      op,
		Message: fmt.Sprintf("Failed to %s: %v", op, err),
		Err:     err,
	}
}

// decodeError wraps an unparseable success body.
func decodeError(op string, err error) *RequestError {
	return &RequestError{
		Kind:    KindDecode,
		Op:      op,
		Message: fmt.Sprintf("Failed to %s: unexpected response from server", op),
		Err:     err,
	}
}
