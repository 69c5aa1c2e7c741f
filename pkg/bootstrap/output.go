package bootstrap

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type logKey struct{}

func logger(ctx context.Context) *zerolog.Logger {
	l := ctx.Value(logKey{})
	if l == nil {
		return &log.Logger
	}

	return l.(*zerolog.Logger)
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, l)
}
