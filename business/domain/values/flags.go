package values

import "strconv"

// IsActive represents the active state of a user. The original design guarded
// against non-boolean inputs, here the type system does that for us.
type IsActive struct {
	value bool
}

func NewIsActive(v bool) IsActive {
	return IsActive{value: v}
}

func (f IsActive) Value() bool {
	return f.value
}

func (f IsActive) Equal(other IsActive) bool {
	return f.value == other.value
}

func (f IsActive) String() string {
	return strconv.FormatBool(f.value)
}

// IsSuperUser represents the superuser state of a user.
type IsSuperUser struct {
	value bool
}

func NewIsSuperUser(v bool) IsSuperUser {
	return IsSuperUser{value: v}
}

func (f IsSuperUser) Value() bool {
	return f.value
}

func (f IsSuperUser) Equal(other IsSuperUser) bool {
	return f.value == other.value
}

func (f IsSuperUser) String() string {
	return strconv.FormatBool(f.value)
}
