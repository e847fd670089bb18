package values

import (
	"regexp"
	"strings"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
)

var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username represents a validated username. Comparison ignores character
// case, so "John_Doe" and "john_doe" name the same user.
type Username struct {
	value string
}

// ParseUsername validates the raw name and wraps it into a Username. Callers
// are expected to trim surrounding whitespace first; an untrimmed name fails
// the charset check.
func ParseUsername(raw string) (Username, error) {
	if raw == "" {
		return Username{}, NewValidationError("username", "must not be empty")
	}

	if len(raw) < usernameMinLength || len(raw) > usernameMaxLength {
		return Username{}, NewValidationError("username", "length must be between %d and %d characters",
			usernameMinLength, usernameMaxLength)
	}

	if !usernameCharset.MatchString(raw) {
		return Username{}, NewValidationError("username", "%q must only contain letters, digits and underscores", raw)
	}

	return Username{value: raw}, nil
}

func (u Username) String() string {
	return u.value
}

// Key returns the lower-cased form, consistent with Equal.
func (u Username) Key() string {
	return strings.ToLower(u.value)
}

// Equal compares two usernames ignoring character case.
func (u Username) Equal(other Username) bool {
	return strings.EqualFold(u.value, other.value)
}

func (u Username) IsZero() bool {
	return u.value == ""
}
