// Package resolveerr defines the decorable error type used to surface
// resolution failures. The model layer never swallows or retries these; it
// only attaches configuration-specific hints on the way up to the build's
// top-level error reporting.
package resolveerr

import (
	"fmt"
	"strings"
)

// Error is a resolution failure for one configuration, optionally decorated
// with human-readable hints that help the user correct the build script.
type Error struct {
	// Configuration is the display name of the configuration being resolved.
	Configuration string
	// Err is the underlying cause.
	Err error
	// Hints are contextual suggestions, in the order they were attached.
	Hints []string
}

// New creates a resolution error for the named configuration.
func New(configuration string, err error) *Error {
	return &Error{Configuration: configuration, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "could not resolve %s: %v", e.Configuration, e.Err)
	for _, h := range e.Hints {
		sb.WriteString("\n  - ")
		sb.WriteString(h)
	}
	return sb.String()
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// WithHints returns a copy of the error with the given hints appended. The
// receiver is left untouched so already-reported errors never change under
// the reporter's feet.
func (e *Error) WithHints(hints ...string) *Error {
	if len(hints) == 0 {
		return e
	}
	decorated := &Error{
		Configuration: e.Configuration,
		Err:           e.Err,
		Hints:         make([]string, 0, len(e.Hints)+len(hints)),
	}
	decorated.Hints = append(decorated.Hints, e.Hints...)
	decorated.Hints = append(decorated.Hints, hints...)
	return decorated
}
