package mid

import (
	"context"
	"net/http"

	"github.com/ysaito/todoapi/app/api/auth"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/foundation/web"
)

// Authorized only lets superusers through.
func Authorized(a *auth.Auth) web.Middleware {
	return func(h web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			//get the user
			usr, err := auth.GetUser(ctx)
			if err != nil {
				return errs.NewAppError(http.StatusUnauthorized, err.Error())
			}

			if err := a.Authorized(usr); err != nil {
				return errs.NewAppError(http.StatusUnauthorized, "unauthorized")
			}

			return h(ctx, w, r)
		}
	}
}
