package auth

import (
	"context"
	"errors"

	"github.com/ysaito/todoapi/business/domain/user"
)

type ctxKey int

const (
	userKey   ctxKey = 1
	claimsKey ctxKey = 2
)

// SetUser injects the user into ctx to be passed to next handler.
func SetUser(ctx context.Context, usr user.User) context.Context {
	return context.WithValue(ctx, userKey, usr)
}

// GetUser fetches the user from context or returns possible error if no user exists.
func GetUser(ctx context.Context) (user.User, error) {
	usr, ok := ctx.Value(userKey).(user.User)
	if !ok {
		return user.User{}, errors.New("no user in context")
	}
	return usr, nil
}

// SetClaims injects the token claims into ctx.
func SetClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims fetches the token claims from context.
func GetClaims(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("no claims in context")
	}
	return claims, nil
}
