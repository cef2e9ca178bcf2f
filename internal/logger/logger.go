// Package logger holds the process-wide slog logger. It discards all
// output until Init is called.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the shared logger. Library packages log through it when the caller
// does not supply one of their own.
var L = discard()

const (
	logPrefix     = "boxkit-"
	logSuffix     = ".log"
	dayLayout     = "2006-01-02"
	retentionDays = 30
)

// Options configures Init.
type Options struct {
	Enabled bool       // false discards everything
	Writer  io.Writer  // text output; wins over LogDir
	LogDir  string     // daily JSON files, default ~/.boxkit/logs
	Level   slog.Level // minimum level
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// Init replaces L according to opts.
func Init(opts Options) error {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	switch {
	case !opts.Enabled:
		L = discard()
	case opts.Writer != nil:
		L = slog.New(slog.NewTextHandler(opts.Writer, hopts))
	default:
		f, err := openDaily(opts.LogDir, time.Now())
		if err != nil {
			return err
		}
		L = slog.New(slog.NewJSONHandler(f, hopts))
	}
	return nil
}

// openDaily opens today's file under dir for appending after pruning
// files past retention.
func openDaily(dir string, now time.Time) (*os.File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("logger: locate home: %w", err)
		}
		dir = filepath.Join(home, ".boxkit", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	prune(dir, now.AddDate(0, 0, -retentionDays))

	name := filepath.Join(dir, logPrefix+now.Format(dayLayout)+logSuffix)
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// prune deletes dated log files older than cutoff. Errors are ignored.
func prune(dir string, cutoff time.Time) {
	matches, _ := filepath.Glob(filepath.Join(dir, logPrefix+"*"+logSuffix))
	for _, path := range matches {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), logPrefix), logSuffix)
		day, err := time.Parse(dayLayout, stamp)
		if err == nil && day.Before(cutoff) {
			_ = os.Remove(path)
		}
	}
}

// ParseLevel maps a flag value (debug, info, warn, error) to a level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// Debug logs at debug level on L.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level on L.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level on L.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }
