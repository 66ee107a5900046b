package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries the correlation ids the request-log middleware stamps on
// every moderation and SEO request.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

// GetTraceData returns the ids for the current request, or nil outside an
// HTTP request (bulk jobs, tests).
func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}
