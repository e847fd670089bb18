package users

import (
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
	"github.com/ysaito/todoapi/foundation/timezone"
)

// User represents a user value that will be sent to client. The password never
// leaves the server in any form.
type User struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	IsActive    bool    `json:"isActive"`
	IsSuperUser bool    `json:"isSuperUser"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toAppUser(usr user.User, convert timezone.Converter) User {
	return User{
		ID:          usr.ID.String(),
		Username:    usr.Username.String(),
		Email:       usr.Email.String(),
		IsActive:    usr.IsActive.Value(),
		IsSuperUser: usr.IsSuperUser.Value(),
		CreatedAt:   displayTime(usr.CreatedAt, convert),
		UpdatedAt:   displayTime(usr.UpdatedAt, convert),
	}
}

// displayTime renders an absent timestamp as null instead of the zero time.
func displayTime(ts values.Timestamp, convert timezone.Converter) *string {
	if ts.IsZero() {
		return nil
	}
	s := convert(ts.Time())
	return &s
}

// NewUser represents all of the required data to create a new user.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=3,max=50,usernameChars"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (nu NewUser) toServiceNewUser() user.NewUser {
	return user.NewUser{
		Username: nu.Username,
		Email:    nu.Email,
		Password: nu.Password,
	}
}

// Credentials represents the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is the response to a successful login.
type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}
