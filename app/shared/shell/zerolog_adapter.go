package shell

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter exposes a zerolog.Logger through the Logger and ContextualLogger interfaces.
// Arguments are slog-style alternating keys and values.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger.
func NewZerologAdapter(logger zerolog.Logger) ZerologAdapter {
	return ZerologAdapter{logger: logger}
}

// NewConsoleZerologAdapter writes human friendly colored lines to out.
func NewConsoleZerologAdapter(out io.Writer, level zerolog.Level) ZerologAdapter {
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}

	return NewZerologAdapter(zerolog.New(writer).Level(level).With().Timestamp().Logger())
}

func (a ZerologAdapter) Debug(msg string, args ...any) { a.logger.Debug().Fields(args).Msg(msg) }

func (a ZerologAdapter) Info(msg string, args ...any) { a.logger.Info().Fields(args).Msg(msg) }

func (a ZerologAdapter) Warn(msg string, args ...any) { a.logger.Warn().Fields(args).Msg(msg) }

func (a ZerologAdapter) Error(msg string, args ...any) { a.logger.Error().Fields(args).Msg(msg) }

func (a ZerologAdapter) DebugContext(ctx context.Context, msg string, args ...any) {
	a.logger.Debug().Ctx(ctx).Fields(args).Msg(msg)
}

func (a ZerologAdapter) InfoContext(ctx context.Context, msg string, args ...any) {
	a.logger.Info().Ctx(ctx).Fields(args).Msg(msg)
}

func (a ZerologAdapter) WarnContext(ctx context.Context, msg string, args ...any) {
	a.logger.Warn().Ctx(ctx).Fields(args).Msg(msg)
}

func (a ZerologAdapter) ErrorContext(ctx context.Context, msg string, args ...any) {
	a.logger.Error().Ctx(ctx).Fields(args).Msg(msg)
}
