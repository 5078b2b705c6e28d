package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns a logger writing to path. The terminal belongs to the UI, so
// logs never go to stdout.
func New(path, level string) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "qrnav",
		Level:  ParseLevel(level),
		Output: f,
	})
	return logger, f, nil
}

func ParseLevel(level string) hclog.Level {
	parsed := hclog.LevelFromString(level)
	if parsed == hclog.NoLevel {
		return hclog.Info
	}
	return parsed
}
