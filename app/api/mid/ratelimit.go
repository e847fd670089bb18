package mid

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/foundation/web"
)

// RateLimit limits requests per client IP with an in-memory store.
// rateFormatted looks like "100-M", "1000-H" or "50-S". Empty disables the
// limiter.
func RateLimit(rateFormatted string) (web.Middleware, error) {
	if rateFormatted == "" {
		noop := func(h web.Handler) web.Handler { return h }
		return noop, nil
	}

	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, fmt.Errorf("parsing rate %q: %w", rateFormatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	m := func(h web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			key := instance.GetIPKey(r)

			limiterCtx, err := instance.Get(ctx, key)
			if err != nil {
				return errs.NewAppInternalErr(fmt.Errorf("rate limiter: %w", err))
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiterCtx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(limiterCtx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limiterCtx.Reset, 10))

			if limiterCtx.Reached {
				return errs.NewAppError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return h(ctx, w, r)
		}
	}
	return m, nil
}
