package harvest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type runKey struct{}

// WithRunID returns a context carrying a fresh run id, unless ctx already
// has one.
func WithRunID(ctx context.Context) context.Context {
	if RunID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, runKey{}, uuid.NewString())
}

// RunID returns the run id carried by ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey{}).(string)
	return id
}

// loggerFor returns logger tagged with the run id in ctx. A nil logger
// discards everything.
func loggerFor(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	if id := RunID(ctx); id != "" {
		return logger.With("run", id)
	}
	return logger
}
