// Package apperr holds the error values every adapter operation can return.
// Callers map these to user-facing messages with errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL     = errors.New("invalid url")
	ErrNoData         = errors.New("no data in response")
	ErrDecoding       = errors.New("failed to decode response")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrParseFailure   = errors.New("failed to parse page")
	ErrAuthCancelled  = errors.New("authentication cancelled")
	ErrAuthInProgress = errors.New("authentication already in progress")
)

// ServerError is any non-2xx/3xx response, or a 2xx response whose body reports
// an error of its own.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error: status %d", e.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Status, e.Detail)
}

// Snippet truncates a response body to something that fits in an error message.
func Snippet(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}

// ParseFailure wraps ErrParseFailure with the part of the page that could not
// be found.
func ParseFailure(what string) error {
	return fmt.Errorf("%w: %s", ErrParseFailure, what)
}
