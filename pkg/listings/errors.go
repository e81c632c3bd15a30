package listings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a record rejected before being saved. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Record   string
	Problems []string
	cause    error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("invalid %s", e.Record)
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.cause}
}
