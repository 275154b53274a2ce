// Package log provides JSON-lines structured logging for tmenu.
//
// Standard output carries the selection and the terminal carries the menu,
// so logs go to a file or nowhere:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"info","msg":"menu started","items":120}
//
// Log levels:
//   - debug: edits that were reverted, instant commits (TMENU_DEBUG=1)
//   - info: startup and the final outcome
//   - warn: non-fatal issues (history append failures)
//   - error: fatal issues before exit
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: io.Discard)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: io.Discard,
		Level:  slog.LevelInfo,
	}
}

// New creates a JSON-lines logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// Nop returns a logger that drops everything.
func Nop() *slog.Logger {
	return New(&Config{Output: io.Discard})
}

// DebugFromEnv reports whether TMENU_DEBUG=1 is set.
func DebugFromEnv() bool {
	return os.Getenv("TMENU_DEBUG") == "1"
}

// Open creates a logger writing to path. An empty path yields a no-op
// logger. The returned closer must be closed on exit.
func Open(path string, level slog.Level, debug bool) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return Nop(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(&Config{Output: f, Level: level, Debug: debug || DebugFromEnv()}), f, nil
}

// ParseLevel converts a config level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// StartupInfo holds information logged when the menu starts.
type StartupInfo struct {
	Version    string
	SessionID  string
	ConfigPath string
	History    string
	Items      int
	Stream     bool
}

// LogStartup logs menu startup.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("menu started",
		"version", info.Version,
		"session_id", info.SessionID,
		"config_path", info.ConfigPath,
		"history", info.History,
		"items", info.Items,
		"stream", info.Stream,
	)
}

// LogOutcome logs how the menu ended.
func LogOutcome(logger *slog.Logger, outcome string, values int) {
	logger.Info("menu finished", "outcome", outcome, "values", values)
}

// LogHistoryError logs a failed history operation.
func LogHistoryError(logger *slog.Logger, operation string, err error) {
	logger.Warn("history error", "operation", operation, "error", err)
}
