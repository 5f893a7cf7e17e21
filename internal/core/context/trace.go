// Package context carries request-scoped trace and operator values.
package context

import "context"

// TraceContext holds the ids a request is logged under.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace stores t in ctx.
func WithTrace(ctx context.Context, t *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns the TraceContext in ctx, or nil.
func GetTrace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceKey{}).(*TraceContext)
	return t
}

// GetRequestID returns the request id in ctx, or "".
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
