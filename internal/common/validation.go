package common

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest password accepted before calling the
// identity functions.
const MinPasswordLength = 6

// ValidationError reports user input that was rejected locally.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required returns a ValidationError when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// CheckPassword validates the minimum password length.
func CheckPassword(field, password string) error {
	if err := Required(field, password); err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
