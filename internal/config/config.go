package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/runger/tmenu/internal/buffer"
	"github.com/runger/tmenu/internal/history"
	tlog "github.com/runger/tmenu/internal/log"
	"github.com/runger/tmenu/internal/match"
	"github.com/runger/tmenu/internal/tty"
)

// Limits applied by Validate.
const (
	MaxRows        = 1000
	MaxColumns     = 100
	MaxQueryBytes  = 64 * 1024
	MaxHistoryMax  = 100000
	MaxTTYAttempts = 10000
)

// DefaultOptsEnv holds flags prepended to the command line.
const DefaultOptsEnv = "TMENU_DEFAULT_OPTS"

// Config represents the tmenu configuration.
type Config struct {
	Menu    MenuConfig    `yaml:"menu"`
	Match   MatchConfig   `yaml:"match"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// MenuConfig holds layout and input settings.
type MenuConfig struct {
	Rows           int    `yaml:"rows"`            // 0 = results on the prompt line
	Columns        int    `yaml:"columns"`         // Grid columns when rows > 0
	Prompt         string `yaml:"prompt"`          // Text left of the input
	Bottom         bool   `yaml:"bottom"`          // Draw at the bottom of the screen
	Inline         bool   `yaml:"inline"`          // Draw without the alternate screen
	MultiSelect    bool   `yaml:"multi_select"`    // Allow marking several items
	PrintIndex     bool   `yaml:"print_index"`     // Print item ids instead of text
	Instant        bool   `yaml:"instant"`         // Commit when one match remains
	RejectNoMatch  bool   `yaml:"reject_no_match"` // Refuse edits that match nothing
	PrefixComplete bool   `yaml:"prefix_complete"` // Tab completes the common prefix
	WordDelimiters string `yaml:"word_delimiters"` // Word boundaries for word motion
	MaxQueryBytes  int    `yaml:"max_query_bytes"` // Query capacity
	Stream         bool   `yaml:"stream"`          // Show the menu before input ends
	TTYAttempts    int    `yaml:"tty_attempts"`    // Tries to open the terminal
	TTYDelayMs     int    `yaml:"tty_delay_ms"`    // Wait between tries
}

// MatchConfig holds matching settings.
type MatchConfig struct {
	Mode           string `yaml:"mode"`            // tokenize or fuzzy
	Case           string `yaml:"case"`            // sensitive or insensitive
	NoSort         bool   `yaml:"no_sort"`         // Keep input order
	MatchSecondary bool   `yaml:"match_secondary"` // Match the text after the separator
	Separator      string `yaml:"separator"`       // Splits lines into display and output text
	SeparatorLast  bool   `yaml:"separator_last"`  // Split at the last separator
}

// HistoryConfig holds history settings.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // none, file or sqlite
	File    string `yaml:"file"`    // Empty = default path for the backend
	Max     int    `yaml:"max"`     // Entries kept
	Redact  bool   `yaml:"redact"`  // Scrub credentials before storing
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `yaml:"file"`  // Empty = no log unless debugging
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Menu: MenuConfig{
			Rows:           0,
			Columns:        1,
			WordDelimiters: buffer.DefaultDelimiters,
			MaxQueryBytes:  buffer.DefaultCapacity,
			TTYAttempts:    tty.DefaultAttempts,
			TTYDelayMs:     int(tty.DefaultDelay / time.Millisecond),
		},
		Match: MatchConfig{
			Mode: match.ModeTokenize.String(),
			Case: match.CaseSensitive.String(),
		},
		History: HistoryConfig{
			Backend: history.BackendNone,
			Max:     history.DefaultMax,
			Redact:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "menu.rows" or "match.mode"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "menu":
		return c.getMenuField(field)
	case "match":
		return c.getMatchField(field)
	case "history":
		return c.getHistoryField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "menu":
		return c.setMenuField(field, value)
	case "match":
		return c.setMatchField(field, value)
	case "history":
		return c.setHistoryField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getMenuField(field string) (string, error) {
	m := &c.Menu
	switch field {
	case "rows":
		return strconv.Itoa(m.Rows), nil
	case "columns":
		return strconv.Itoa(m.Columns), nil
	case "prompt":
		return m.Prompt, nil
	case "bottom":
		return strconv.FormatBool(m.Bottom), nil
	case "inline":
		return strconv.FormatBool(m.Inline), nil
	case "multi_select":
		return strconv.FormatBool(m.MultiSelect), nil
	case "print_index":
		return strconv.FormatBool(m.PrintIndex), nil
	case "instant":
		return strconv.FormatBool(m.Instant), nil
	case "reject_no_match":
		return strconv.FormatBool(m.RejectNoMatch), nil
	case "prefix_complete":
		return strconv.FormatBool(m.PrefixComplete), nil
	case "word_delimiters":
		return m.WordDelimiters, nil
	case "max_query_bytes":
		return strconv.Itoa(m.MaxQueryBytes), nil
	case "stream":
		return strconv.FormatBool(m.Stream), nil
	case "tty_attempts":
		return strconv.Itoa(m.TTYAttempts), nil
	case "tty_delay_ms":
		return strconv.Itoa(m.TTYDelayMs), nil
	default:
		return "", fmt.Errorf("unknown field: menu.%s", field)
	}
}

func (c *Config) setMenuField(field, value string) error {
	m := &c.Menu
	switch field {
	case "rows":
		return setNonNegative(&m.Rows, field, value)
	case "columns":
		return setNonNegative(&m.Columns, field, value)
	case "prompt":
		m.Prompt = value
	case "bottom":
		return setBool(&m.Bottom, field, value)
	case "inline":
		return setBool(&m.Inline, field, value)
	case "multi_select":
		return setBool(&m.MultiSelect, field, value)
	case "print_index":
		return setBool(&m.PrintIndex, field, value)
	case "instant":
		return setBool(&m.Instant, field, value)
	case "reject_no_match":
		return setBool(&m.RejectNoMatch, field, value)
	case "prefix_complete":
		return setBool(&m.PrefixComplete, field, value)
	case "word_delimiters":
		m.WordDelimiters = value
	case "max_query_bytes":
		return setNonNegative(&m.MaxQueryBytes, field, value)
	case "stream":
		return setBool(&m.Stream, field, value)
	case "tty_attempts":
		return setNonNegative(&m.TTYAttempts, field, value)
	case "tty_delay_ms":
		return setNonNegative(&m.TTYDelayMs, field, value)
	default:
		return fmt.Errorf("unknown field: menu.%s", field)
	}
	return nil
}

func (c *Config) getMatchField(field string) (string, error) {
	switch field {
	case "mode":
		return c.Match.Mode, nil
	case "case":
		return c.Match.Case, nil
	case "no_sort":
		return strconv.FormatBool(c.Match.NoSort), nil
	case "match_secondary":
		return strconv.FormatBool(c.Match.MatchSecondary), nil
	case "separator":
		return c.Match.Separator, nil
	case "separator_last":
		return strconv.FormatBool(c.Match.SeparatorLast), nil
	default:
		return "", fmt.Errorf("unknown field: match.%s", field)
	}
}

func (c *Config) setMatchField(field, value string) error {
	switch field {
	case "mode":
		if _, ok := match.ParseMode(value); !ok {
			return fmt.Errorf("invalid mode: %s (must be tokenize or fuzzy)", value)
		}
		c.Match.Mode = value
	case "case":
		if _, ok := match.ParseCaseMode(value); !ok {
			return fmt.Errorf("invalid case: %s (must be sensitive or insensitive)", value)
		}
		c.Match.Case = value
	case "no_sort":
		return setBool(&c.Match.NoSort, field, value)
	case "match_secondary":
		return setBool(&c.Match.MatchSecondary, field, value)
	case "separator":
		c.Match.Separator = value
	case "separator_last":
		return setBool(&c.Match.SeparatorLast, field, value)
	default:
		return fmt.Errorf("unknown field: match.%s", field)
	}
	return nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "backend":
		return c.History.Backend, nil
	case "file":
		return c.History.File, nil
	case "max":
		return strconv.Itoa(c.History.Max), nil
	case "redact":
		return strconv.FormatBool(c.History.Redact), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "backend":
		if !history.IsValidBackend(value) {
			return fmt.Errorf("invalid backend: %s (must be none, file, or sqlite)", value)
		}
		c.History.Backend = value
	case "file":
		c.History.File = value
	case "max":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max: %w", err)
		}
		c.History.Max = clamp(v, 1, MaxHistoryMax)
	case "redact":
		return setBool(&c.History.Redact, field, value)
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "file":
		return c.Log.File, nil
	case "level":
		return c.Log.Level, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "file":
		c.Log.File = value
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func setBool(dst *bool, field, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	*dst = v
	return nil
}

func setNonNegative(dst *int, field, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid %s: must be non-negative", field)
	}
	*dst = v
	return nil
}

// Validate validates the configuration. Out-of-range sizes are clamped;
// unknown names are errors.
func (c *Config) Validate() error {
	if c.Menu.Rows < 0 {
		return errors.New("menu.rows must be >= 0")
	}
	c.Menu.Rows = min(c.Menu.Rows, MaxRows)
	c.Menu.Columns = clamp(c.Menu.Columns, 1, MaxColumns)
	c.Menu.MaxQueryBytes = clamp(c.Menu.MaxQueryBytes, 1, MaxQueryBytes)
	c.Menu.TTYAttempts = clamp(c.Menu.TTYAttempts, 1, MaxTTYAttempts)
	if c.Menu.TTYDelayMs < 0 {
		c.Menu.TTYDelayMs = 0
	}
	if c.Menu.WordDelimiters == "" {
		c.Menu.WordDelimiters = buffer.DefaultDelimiters
	}

	if _, ok := match.ParseMode(c.Match.Mode); !ok {
		return fmt.Errorf("match.mode must be tokenize or fuzzy (got: %s)", c.Match.Mode)
	}
	if _, ok := match.ParseCaseMode(c.Match.Case); !ok {
		return fmt.Errorf("match.case must be sensitive or insensitive (got: %s)", c.Match.Case)
	}

	if !history.IsValidBackend(c.History.Backend) {
		return fmt.Errorf("history.backend must be none, file, or sqlite (got: %s)", c.History.Backend)
	}
	c.History.Max = clamp(c.History.Max, 1, MaxHistoryMax)

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

// MatchConfig converts the match section into engine settings. The
// section must have passed Validate.
func (c *Config) MatchConfig() match.Config {
	mode, _ := match.ParseMode(c.Match.Mode)
	caseMode, _ := match.ParseCaseMode(c.Match.Case)
	return match.Config{
		Mode:           mode,
		Case:           caseMode,
		NoSort:         c.Match.NoSort,
		MatchSecondary: c.Match.MatchSecondary,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if tlog.DebugFromEnv() {
		c.Log.Level = "debug"
	}
	if v := os.Getenv("TMENU_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("TMENU_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("TMENU_HISTORY_BACKEND"); v != "" {
		if history.IsValidBackend(v) {
			c.History.Backend = v
		}
	}
	if v := os.Getenv("TMENU_HISTORY_FILE"); v != "" {
		c.History.File = v
	}
}

// ListKeys returns every configuration key.
func ListKeys() []string {
	return []string{
		"menu.rows",
		"menu.columns",
		"menu.prompt",
		"menu.bottom",
		"menu.inline",
		"menu.multi_select",
		"menu.print_index",
		"menu.instant",
		"menu.reject_no_match",
		"menu.prefix_complete",
		"menu.word_delimiters",
		"menu.max_query_bytes",
		"menu.stream",
		"menu.tty_attempts",
		"menu.tty_delay_ms",
		"match.mode",
		"match.case",
		"match.no_sort",
		"match.match_secondary",
		"match.separator",
		"match.separator_last",
		"history.backend",
		"history.file",
		"history.max",
		"history.redact",
		"log.file",
		"log.level",
	}
}

// DefaultOpts returns the flags held in TMENU_DEFAULT_OPTS, split the way
// a shell would split them.
func DefaultOpts() ([]string, error) {
	v := os.Getenv(DefaultOptsEnv)
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	args, err := shlex.Split(v)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DefaultOptsEnv, err)
	}
	return args, nil
}
