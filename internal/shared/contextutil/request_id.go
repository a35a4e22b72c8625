package contextutil

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request id propagated by the middleware, or "".
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects a request id into the context (also used by tests).
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}
