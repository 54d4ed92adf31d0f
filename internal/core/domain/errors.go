package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTransport        = errors.New("backend unreachable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("access forbidden")
	ErrNotFound         = errors.New("not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidationError carries per-field messages returned by the backend.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages flattens the field errors into "field: msg" lines in field order.
// Errors on the status field are shown without the prefix.
func (e *ValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		for _, msg := range e.Fields[f] {
			if f == "status" {
				out = append(out, msg)
				continue
			}
			out = append(out, f+": "+msg)
		}
	}
	return out
}

// APIError is any other non-2xx backend response. Message is empty when the
// backend gave no usable text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match well-known statuses with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	}
	return nil
}
