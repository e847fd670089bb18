package mid

import (
	"context"
	"net/http"

	"github.com/ysaito/todoapi/foundation/timezone"
	"github.com/ysaito/todoapi/foundation/web"
)

// clientTimezoneHeader names the zone response timestamps are rendered in.
const clientTimezoneHeader = "X-Client-Timezone"

// ClientTimezone reads the client's preferred timezone from the request header
// and stores it for handlers to render timestamps with. An unknown zone falls
// back to UTC instead of failing the request.
func ClientTimezone() web.Middleware {
	return func(h web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			zone := r.Header.Get(clientTimezoneHeader)
			if !timezone.Validate(zone) {
				zone = timezone.Default
			}

			web.SetClientTimezone(ctx, zone)
			return h(ctx, w, r)
		}
	}
}
