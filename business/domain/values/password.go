package values

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

// Password represents a password that passed the length policy. The check
// only applies at construction time; once the service hashed the value, the
// hash itself is wrapped again and never compared in plaintext.
type Password struct {
	value string
}

// ParsePassword validates the raw password and wraps it into a Password.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength || len(raw) > passwordMaxLength {
		return Password{}, NewValidationError("password", "length must be between %d and %d characters",
			passwordMinLength, passwordMaxLength)
	}

	return Password{value: raw}, nil
}

func (p Password) String() string {
	return p.value
}

// Equal is an exact comparison, case matters.
func (p Password) Equal(other Password) bool {
	return p.value == other.value
}

func (p Password) IsZero() bool {
	return p.value == ""
}
