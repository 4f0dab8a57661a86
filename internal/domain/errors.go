package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports the first field that failed schema validation.
// It is raised before any persistence attempt.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}
