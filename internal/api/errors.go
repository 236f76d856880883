// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports that a saved-search handle does not resolve.
// Match it with errors.Is; the concrete error is a *StatusError.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response. It carries the status
// and the response body text.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	RequestID  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is makes a 404 match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
