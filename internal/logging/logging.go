// Package logging configures the process-wide structured logger.
//
// The TUI owns stdout, so records go to a JSON file that the activity
// overlay reads back through the logtail package.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup opens path for appending and returns a JSON logger writing to it at
// level. The returned closer closes the file. An empty path discards logs.
func Setup(path, level string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.TrimSpace(path) == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(file, opts)), file.Close, nil
}

// ParseLevel maps debug/info/warn/error (any case) to a slog level. Empty
// means info.
func ParseLevel(level string) (slog.Level, error) {
	trimmed := strings.TrimSpace(level)
	if trimmed == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(trimmed)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}
