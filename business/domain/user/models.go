package user

import "github.com/ysaito/todoapi/business/domain/values"

// User represents a user in the system. ID and the lifecycle timestamps stay
// zero until the repository persists the entity, nothing in this package
// assigns them.
type User struct {
	ID          values.ID
	Username    values.Username
	Email       values.Email
	Password    values.Password
	IsActive    values.IsActive
	IsSuperUser values.IsSuperUser
	CreatedAt   values.Timestamp
	UpdatedAt   values.Timestamp
	DeletedAt   values.Timestamp
}

// Activate marks the user active. Safe to call repeatedly.
func (u *User) Activate() {
	u.IsActive = values.NewIsActive(true)
}

// Deactivate marks the user inactive. Safe to call repeatedly.
func (u *User) Deactivate() {
	u.IsActive = values.NewIsActive(false)
}

// Equal compares two users by their constituent values, never by ID, so an
// entity that has not been persisted yet can still be compared.
func (u User) Equal(other User) bool {
	return u.Username.Equal(other.Username) &&
		u.Email.Equal(other.Email) &&
		u.Password.Equal(other.Password) &&
		u.IsActive.Equal(other.IsActive) &&
		u.IsSuperUser.Equal(other.IsSuperUser)
}

// IsDeleted reports whether the user has been soft deleted.
func (u User) IsDeleted() bool {
	return !u.DeletedAt.IsZero()
}

// NewUser represents all required data to create a new user. The fields are
// raw primitives, the service turns them into values before anything else
// happens.
type NewUser struct {
	Username string
	Email    string
	Password string
}
