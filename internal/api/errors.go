package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Detail     string
	Path       string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s: %d: %s", e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api %s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// errorBody mirrors the backend error envelope {timestamp, status, detail, path}.
type errorBody struct {
	Status int             `json:"status"`
	Detail json.RawMessage `json:"detail"`
	Path   string          `json:"path"`
}

func newError(status int, path string, body []byte) *Error {
	e := &Error{StatusCode: status, Path: path}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}
	if eb.Path != "" {
		e.Path = eb.Path
	}
	// detail is normally a string; anything else is ignored
	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		e.Detail = detail
	}
	return e
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsCanceled reports whether err came from a canceled or superseded request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Message returns the backend's detail message when present, else fallback.
func Message(err error, fallback string) string {
	if apiErr, ok := AsError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
