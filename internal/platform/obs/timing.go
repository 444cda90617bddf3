package obs

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation. Use as:
//
//	defer obs.Time(ctx, "op")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			slog.ErrorContext(ctx, "operation failed", "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		slog.InfoContext(ctx, "operation done", "op", name, "dur_ms", dur.Milliseconds())
	}
}
