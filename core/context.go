package core

import "context"

// Context keys for grid rendering options
type contextKey string

const runIDKey contextKey = "runID"

// withRunID attaches the render run being tracked to the context.
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the tracked render run, if any.
func getRunID(ctx context.Context) (int64, bool) {
	runID, ok := ctx.Value(runIDKey).(int64)
	return runID, ok
}
