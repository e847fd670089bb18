// Package values contains the self-validating value types that the user and
// todo domains are composed of. Each value is built through its Parse
// function and is frozen afterwards; changing a field means parsing a new
// value and rebinding it.
package values

import "fmt"

// ValidationError is returned whenever a raw primitive fails the invariant of
// the value type it was meant to become.
type ValidationError struct {
	Field  string
	Reason string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Reason)
}

// NewValidationError creates a *ValidationError for the given field.
func NewValidationError(field string, format string, v ...any) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, v...),
	}
}
