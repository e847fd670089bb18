package web

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type key int

const requestMetadataKey key = 1

// requestMetadata travels with the request between middlewares and handlers.
type requestMetadata struct {
	StartedAt  time.Time
	StatusCode int
	RequestId  uuid.UUID
	Timezone   string
}

func injectRequestMetadata(ctx context.Context, rm *requestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey, rm)
}

func setStatusCode(ctx context.Context, status int) {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return
	}
	rm.StatusCode = status
}

func GetStatusCode(ctx context.Context) int {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return 0
	}
	return rm.StatusCode
}

func GetStartedAt(ctx context.Context) time.Time {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return time.Time{}
	}
	return rm.StartedAt
}

func GetRequestId(ctx context.Context) uuid.UUID {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return uuid.UUID{}
	}
	return rm.RequestId
}

// SetClientTimezone stores the zone name the client asked response timestamps
// to be rendered in.
func SetClientTimezone(ctx context.Context, zone string) {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return
	}
	rm.Timezone = zone
}

// GetClientTimezone returns the zone name set by the timezone middleware, or
// the empty string when none was set.
func GetClientTimezone(ctx context.Context) string {
	rm, ok := ctx.Value(requestMetadataKey).(*requestMetadata)
	if !ok {
		return ""
	}
	return rm.Timezone
}
