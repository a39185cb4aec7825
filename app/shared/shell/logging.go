package shell

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
)

// AppLogger is what NewLogger returns: both logging flavors over the same sink.
type AppLogger interface {
	Logger
	ContextualLogger
}

// NewLogger builds the application logger selected by cfg.LogFormat and cfg.LogLevel.
// json and text use log/slog, console uses zerolog's colored console writer.
func NewLogger(cfg config.Config, out io.Writer) (AppLogger, error) {
	switch cfg.LogFormat {
	case config.LogFormatJSON, config.LogFormatText, "":
		var level slog.Level
		if cfg.LogLevel != "" {
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				return nil, err
			}
		}

		opts := &slog.HandlerOptions{Level: level}
		if cfg.LogFormat == config.LogFormatText {
			return slog.New(slog.NewTextHandler(out, opts)), nil
		}

		return slog.New(slog.NewJSONHandler(out, opts)), nil

	case config.LogFormatConsole:
		level := zerolog.InfoLevel
		if cfg.LogLevel != "" {
			var err error
			if level, err = zerolog.ParseLevel(cfg.LogLevel); err != nil {
				return nil, err
			}
		}

		return NewConsoleZerologAdapter(out, level), nil

	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
}
