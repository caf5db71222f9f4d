package collection

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidVariant is reported when the type tag is not a known category.
	ErrInvalidVariant = errors.New("invalid variant")
)

// Operation prefixes used in PersistenceError messages.
const (
	OpCreate      = "Failed to create LEGO set"
	OpFetchAll    = "Failed to fetch LEGO sets"
	OpFetch       = "Failed to fetch LEGO set"
	OpUpdate      = "Failed to update LEGO set"
	OpDelete      = "Failed to delete LEGO set"
	OpFetchByType = "Failed to fetch LEGO sets by type"
)

// ValidationError carries one message per offending field path
// (e.g. "setNumber", "details.height").
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func newValidationError(fields map[string]string, cause error) *ValidationError {
	return &ValidationError{Fields: fields, cause: cause}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// PersistenceError wraps a failure reported by the remote store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FieldErrors extracts the per-field messages from err, or nil when err is
// not a validation failure.
func FieldErrors(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
