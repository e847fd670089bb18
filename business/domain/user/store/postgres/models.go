package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
)

// dbUser mirrors the users table row.
type dbUser struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsSuperUser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    sql.NullTime
}

// toDBUser unwraps the entity into raw column values. Which columns actually
// travel to the database depends on the statement: inserts only use username,
// email and password_hash, updates everything mutable except password_hash.
func toDBUser(usr user.User) dbUser {
	du := dbUser{
		ID:           usr.ID.String(),
		Username:     usr.Username.String(),
		Email:        usr.Email.String(),
		PasswordHash: usr.Password.String(),
		IsActive:     usr.IsActive.Value(),
		IsSuperUser:  usr.IsSuperUser.Value(),
		CreatedAt:    usr.CreatedAt.Time(),
		UpdatedAt:    usr.UpdatedAt.Time(),
	}

	if usr.IsDeleted() {
		du.DeletedAt = sql.NullTime{Time: usr.DeletedAt.Time(), Valid: true}
	}

	return du
}

// toCoreUser wraps each column back into its value type. A stored value that
// no longer satisfies its invariant surfaces as *values.ValidationError, it
// is never swallowed.
func (du dbUser) toCoreUser() (user.User, error) {
	id, err := values.ParseID(du.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("stored id: %w", err)
	}

	username, err := values.ParseUsername(du.Username)
	if err != nil {
		return user.User{}, fmt.Errorf("stored username: %w", err)
	}

	email, err := values.ParseEmail(du.Email)
	if err != nil {
		return user.User{}, fmt.Errorf("stored email: %w", err)
	}

	password, err := values.ParsePassword(du.PasswordHash)
	if err != nil {
		return user.User{}, fmt.Errorf("stored password hash: %w", err)
	}

	createdAt, err := values.ParseTimestamp(du.CreatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("stored created_at: %w", err)
	}

	updatedAt, err := values.ParseTimestamp(du.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("stored updated_at: %w", err)
	}

	usr := user.User{
		ID:          id,
		Username:    username,
		Email:       email,
		Password:    password,
		IsActive:    values.NewIsActive(du.IsActive),
		IsSuperUser: values.NewIsSuperUser(du.IsSuperUser),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	if du.DeletedAt.Valid {
		deletedAt, err := values.ParseTimestamp(du.DeletedAt.Time)
		if err != nil {
			return user.User{}, fmt.Errorf("stored deleted_at: %w", err)
		}
		usr.DeletedAt = deletedAt
	}

	return usr, nil
}
