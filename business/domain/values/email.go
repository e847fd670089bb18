package values

import "strings"

// Email represents a validated email address. Two emails that differ only in
// character case are the same email.
type Email struct {
	value string
}

// ParseEmail validates the raw address and wraps it into an Email.
func ParseEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, NewValidationError("email", "must not be empty")
	}

	at := strings.LastIndex(raw, "@")
	if at == -1 {
		return Email{}, NewValidationError("email", "%q must contain @", raw)
	}

	if at == len(raw)-1 {
		return Email{}, NewValidationError("email", "%q is missing the domain part", raw)
	}

	return Email{value: raw}, nil
}

func (e Email) String() string {
	return e.value
}

// Key returns the lower-cased form, usable as a map key so that two equal
// emails always land on the same entry.
func (e Email) Key() string {
	return strings.ToLower(e.value)
}

// Domain returns the part after the last @.
func (e Email) Domain() string {
	return e.value[strings.LastIndex(e.value, "@")+1:]
}

// Equal compares two emails ignoring character case.
func (e Email) Equal(other Email) bool {
	return strings.EqualFold(e.value, other.value)
}

func (e Email) IsZero() bool {
	return e.value == ""
}
