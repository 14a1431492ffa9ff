package catalog

import (
	"errors"
	"fmt"
)

// ErrNoPending is returned when a confirm/cancel call references a token
// with no parked proposal behind it.
var ErrNoPending = errors.New("no pending proposal for token")

// LoadError is the one-shot startup load failing: unreadable file or content
// that does not decode to an array. The collection stays empty; there is no
// retry.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError is an import whose content is not valid JSON or whose top-level
// value is not an array. The existing collection is left unmodified.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse import: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a manual add with a required field empty after
// trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
