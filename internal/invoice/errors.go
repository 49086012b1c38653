package invoice

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Common invoice service errors
var (
	// ErrInvoiceNotFound is returned when no row carries the requested id.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrEmptyInvoiceID is returned when an operation is called without an id.
	ErrEmptyInvoiceID = errors.New("invoice id is required")

	// ErrMissingColumn is returned when the invoice sheet's header row lacks
	// a required column.
	ErrMissingColumn = errors.New("missing column in invoice sheet")

	// ErrEmptyExport is returned when document export produced no content.
	ErrEmptyExport = errors.New("document export returned empty content")
)

// ValidationError aggregates every field-level problem found in a form
// payload. All rules are checked before the error is returned, so the caller
// sees the complete list at once.
type ValidationError struct {
	issues *multierror.Error
}

func (e *ValidationError) add(format string, args ...interface{}) {
	e.issues = multierror.Append(e.issues, fmt.Errorf(format, args...))
}

func (e *ValidationError) empty() bool {
	return e.issues == nil || len(e.issues.Errors) == 0
}

// Messages returns the individual problem descriptions.
func (e *ValidationError) Messages() []string {
	if e.issues == nil {
		return nil
	}
	msgs := make([]string, 0, len(e.issues.Errors))
	for _, err := range e.issues.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.issues)
}

// Unwrap returns the underlying aggregated error.
func (e *ValidationError) Unwrap() error {
	return e.issues
}
