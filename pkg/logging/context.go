package logging

import "context"

type contextKey string

const runIDKey contextKey = "hyperband-run-id"

// WithRunID attaches a search run identifier to the context so that every
// log entry emitted during the run carries it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID extracts the search run identifier from the context, if present.
func GetRunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok
}
