// Package logging sets up the zerolog logger. Output goes to a file:
// while the program runs, stdout and stderr belong to the terminal UI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Setup opens (or creates) the log file and returns a logger writing
// to it. When the file cannot be opened the logger is disabled rather
// than failing startup.
func Setup(path string) zerolog.Logger {
	w := openLogFile(path)
	if w == nil {
		return zerolog.Nop()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func openLogFile(path string) io.Writer {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	return f
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
