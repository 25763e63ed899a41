package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg *config.RuntimeConfig, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cfg != nil && cfg.Debug {
		level = slog.LevelDebug
	}

	if val := strings.ToLower(os.Getenv("CATAPULT_LOG_LEVEL")); val != "" {
		switch val {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			// unknown value, keep default
		}
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time in non-debug mode for cleaner output
			if a.Key == slog.TimeKey && level != slog.LevelDebug {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// shortPath returns a shortened version of the file path
func shortPath(file string) string {
	// Try to make paths relative to project root
	if idx := strings.Index(file, "catapult/"); idx != -1 {
		return file[idx+len("catapult/"):]
	}
	// Otherwise, just return the file name
	_, f, _, _ := runtime.Caller(0)
	if idx := strings.LastIndex(f, "/"); idx != -1 {
		if idx2 := strings.LastIndex(file, f[:idx]); idx2 != -1 {
			return file[idx2+len(f[:idx])+1:]
		}
	}
	// Last resort: just the filename
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
