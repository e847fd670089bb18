package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ysaito/todoapi/app/api/auth"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/foundation/web"
)

func Authenticate(a *auth.Auth) web.Middleware {
	return func(h web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			authHeader := r.Header.Get("authorization")
			if authHeader == "" {
				return errs.NewAppError(http.StatusUnauthorized, "missing authorization header")
			}
			ctx, cancel := context.WithTimeout(ctx, time.Second*5)
			defer cancel()

			user, claims, err := a.ValidateToken(ctx, authHeader)
			if err != nil {
				return errs.NewAppError(http.StatusUnauthorized, err.Error())
			}

			//add user and claims into ctx
			ctx = auth.SetUser(ctx, user)
			ctx = auth.SetClaims(ctx, claims)
			//call the next handler
			return h(ctx, w, r)
		}
	}
}
