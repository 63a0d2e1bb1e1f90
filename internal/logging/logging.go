// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/abhisek/vulcan/internal/config"
)

// FileName is the log file written while the TUI owns the terminal.
const FileName = "vulcan.log"

// ParseLevel maps a config level name to a slog level. Unknown names
// give info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the handler cfg asks for, writing to w.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup logs to stderr.
func Setup(cfg config.LogConfig) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, cfg)))
}

// SetupFile logs to FileName inside dir and returns a closer for the file.
func SetupFile(dir string, cfg config.LogConfig) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", dir)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	slog.SetDefault(slog.New(NewHandler(f, cfg)))
	return f, nil
}
