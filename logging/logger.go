package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"

	"dmx-editor/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// File, when set, receives a JSON copy of every record.
	File string
}

// New constructs a slog logger writing to out. It also returns a close
// function for the optional log file.
func New(opts Options, out io.Writer) (*slog.Logger, func() error, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))
	handlerOpts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: levelVar.Level() <= slog.LevelDebug,
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format == "auto" {
		format = "json"
		if IsTerminal(out) {
			format = "console"
		}
	}

	var primary slog.Handler
	switch format {
	case "json":
		primary = slog.NewJSONHandler(out, handlerOpts)
	case "console":
		primary = slog.NewTextHandler(out, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	closeFn := func() error { return nil }
	if opts.File == "" {
		return slog.New(primary), closeFn, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(file, handlerOpts)
	return slog.New(slogmulti.Fanout(primary, fileHandler)), file.Close, nil
}

// NewFromConfig creates a logger from the [logging] section.
func NewFromConfig(cfg *config.Config, out io.Writer) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"}, out)
	}
	return New(Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}, out)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
