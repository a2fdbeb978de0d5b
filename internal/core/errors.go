package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the underlying database cannot be
	// reached. It is surfaced to the caller, never retried here.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports bad input shape or a broken reference on a write.
// Field names the offending field so clients can show field-level detail.
type ValidationError struct {
	Field  string
	Reason string
	err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.err }

// Validation builds a ValidationError for a field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// invalid attributes a validation sentinel to the field it concerns, keeping
// the sentinel reachable through errors.Is.
func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: err.Error(), err: err}
}

// DataIntegrityError reports a referential inconsistency discovered while
// aggregating balances. It is surfaced as a server error rather than
// defaulting the sign, since a silent default would corrupt balances.
type DataIntegrityError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %d: %s", e.Entity, e.ID, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity reports whether err is (or wraps) a DataIntegrityError.
func IsIntegrity(err error) bool {
	var de *DataIntegrityError
	return errors.As(err, &de)
}
