package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runger/tmenu/internal/match"
	"github.com/runger/tmenu/internal/tty"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Menu.Rows != 0 {
		t.Errorf("Expected rows=0, got %d", cfg.Menu.Rows)
	}
	if cfg.Menu.Columns != 1 {
		t.Errorf("Expected columns=1, got %d", cfg.Menu.Columns)
	}
	if cfg.Menu.MaxQueryBytes != 4096 {
		t.Errorf("Expected max_query_bytes=4096, got %d", cfg.Menu.MaxQueryBytes)
	}
	if cfg.Match.Mode != "tokenize" {
		t.Errorf("Expected mode=tokenize, got %s", cfg.Match.Mode)
	}
	if cfg.Match.Case != "sensitive" {
		t.Errorf("Expected case=sensitive, got %s", cfg.Match.Case)
	}
	if cfg.History.Backend != "none" {
		t.Errorf("Expected backend=none, got %s", cfg.History.Backend)
	}
	if cfg.History.Max != 1000 {
		t.Errorf("Expected max=1000, got %d", cfg.History.Max)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected level=info, got %s", cfg.Log.Level)
	}
	if cfg.Menu.TTYAttempts != tty.DefaultAttempts || cfg.Menu.TTYDelayMs != 10 {
		t.Errorf("Expected tty defaults 100/10ms, got %d/%dms", cfg.Menu.TTYAttempts, cfg.Menu.TTYDelayMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"menu.rows", "0"},
		{"menu.columns", "1"},
		{"menu.prompt", ""},
		{"menu.bottom", "false"},
		{"menu.word_delimiters", " \t"},
		{"menu.max_query_bytes", "4096"},
		{"menu.tty_attempts", "100"},
		{"menu.tty_delay_ms", "10"},
		{"match.mode", "tokenize"},
		{"match.case", "sensitive"},
		{"match.no_sort", "false"},
		{"history.backend", "none"},
		{"history.max", "1000"},
		{"history.redact", "true"},
		{"log.level", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestConfigGet_EveryListedKey(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range ListKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"menu.rows", "10"},
		{"menu.columns", "3"},
		{"menu.prompt", "run:"},
		{"menu.instant", "true"},
		{"menu.reject_no_match", "true"},
		{"menu.stream", "true"},
		{"match.mode", "fuzzy"},
		{"match.case", "insensitive"},
		{"match.separator", "\t"},
		{"history.backend", "sqlite"},
		{"history.file", "/tmp/h.db"},
		{"history.max", "50"},
		{"history.redact", "false"},
		{"log.file", "/tmp/tmenu.log"},
		{"log.level", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"menu.rows", "abc"},
		{"menu.rows", "-1"},
		{"menu.bottom", "maybe"},
		{"match.mode", "regex"},
		{"match.case", "smart"},
		{"history.backend", "redis"},
		{"history.max", "lots"},
		{"log.level", "verbose"},
		{"menu.unknown", "1"},
		{"unknown.key", "1"},
		{"nodot", "1"},
		{"a.b.c", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestConfigSet_HistoryMaxClamped(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("history.max", "0"); err != nil {
		t.Fatal(err)
	}
	if cfg.History.Max != 1 {
		t.Errorf("Expected max clamped to 1, got %d", cfg.History.Max)
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Menu.Rows = MaxRows + 5
	cfg.Menu.Columns = 0
	cfg.Menu.MaxQueryBytes = MaxQueryBytes * 2
	cfg.Menu.TTYAttempts = 0
	cfg.Menu.TTYDelayMs = -3
	cfg.Menu.WordDelimiters = ""
	cfg.History.Max = -1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Menu.Rows != MaxRows {
		t.Errorf("rows = %d, want %d", cfg.Menu.Rows, MaxRows)
	}
	if cfg.Menu.Columns != 1 {
		t.Errorf("columns = %d, want 1", cfg.Menu.Columns)
	}
	if cfg.Menu.MaxQueryBytes != MaxQueryBytes {
		t.Errorf("max_query_bytes = %d, want %d", cfg.Menu.MaxQueryBytes, MaxQueryBytes)
	}
	if cfg.Menu.TTYAttempts != 1 {
		t.Errorf("tty_attempts = %d, want 1", cfg.Menu.TTYAttempts)
	}
	if cfg.Menu.TTYDelayMs != 0 {
		t.Errorf("tty_delay_ms = %d, want 0", cfg.Menu.TTYDelayMs)
	}
	if cfg.Menu.WordDelimiters != " \t" {
		t.Errorf("word_delimiters = %q", cfg.Menu.WordDelimiters)
	}
	if cfg.History.Max != 1 {
		t.Errorf("history.max = %d, want 1", cfg.History.Max)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative rows", func(c *Config) { c.Menu.Rows = -1 }},
		{"bad mode", func(c *Config) { c.Match.Mode = "regex" }},
		{"bad case", func(c *Config) { c.Match.Case = "smart" }},
		{"bad backend", func(c *Config) { c.History.Backend = "redis" }},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestMatchConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Match.Mode = "fuzzy"
	cfg.Match.Case = "insensitive"
	cfg.Match.NoSort = true
	cfg.Match.MatchSecondary = true

	got := cfg.MatchConfig()
	want := match.Config{Mode: match.ModeFuzzy, Case: match.CaseInsensitive, NoSort: true, MatchSecondary: true}
	if got != want {
		t.Errorf("MatchConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile error: %v", err)
	}
	if cfg.Match.Mode != "tokenize" {
		t.Errorf("Expected defaults, got mode=%s", cfg.Match.Mode)
	}
}

func TestLoadFromFile_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "menu:\n  rows: 15\n  prompt: \"go>\"\nmatch:\n  mode: fuzzy\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile error: %v", err)
	}
	if cfg.Menu.Rows != 15 {
		t.Errorf("rows = %d, want 15", cfg.Menu.Rows)
	}
	if cfg.Menu.Prompt != "go>" {
		t.Errorf("prompt = %q, want go>", cfg.Menu.Prompt)
	}
	if cfg.Match.Mode != "fuzzy" {
		t.Errorf("mode = %s, want fuzzy", cfg.Match.Mode)
	}
	if cfg.Menu.MaxQueryBytes != 4096 {
		t.Errorf("unset fields should keep defaults, max_query_bytes = %d", cfg.Menu.MaxQueryBytes)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("menu: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(badYAML); err == nil {
		t.Error("Expected parse error")
	}

	badValue := filepath.Join(dir, "value.yaml")
	if err := os.WriteFile(badValue, []byte("match:\n  mode: regex\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(badValue)
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Menu.Rows = 7
	cfg.History.Backend = "file"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile error: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile error: %v", err)
	}
	if loaded.Menu.Rows != 7 || loaded.History.Backend != "file" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TMENU_DEBUG", "")
	t.Setenv("TMENU_LOG_LEVEL", "warn")
	t.Setenv("TMENU_LOG_FILE", "/tmp/x.log")
	t.Setenv("TMENU_HISTORY_BACKEND", "sqlite")
	t.Setenv("TMENU_HISTORY_FILE", "/tmp/h.db")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Log.Level != "warn" {
		t.Errorf("level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/x.log" {
		t.Errorf("log file = %s", cfg.Log.File)
	}
	if cfg.History.Backend != "sqlite" {
		t.Errorf("backend = %s, want sqlite", cfg.History.Backend)
	}
	if cfg.History.File != "/tmp/h.db" {
		t.Errorf("history file = %s", cfg.History.File)
	}
}

func TestApplyEnvOverrides_Debug(t *testing.T) {
	t.Setenv("TMENU_DEBUG", "1")
	t.Setenv("TMENU_LOG_LEVEL", "")
	t.Setenv("TMENU_HISTORY_BACKEND", "bogus")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Log.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Log.Level)
	}
	if cfg.History.Backend != "none" {
		t.Errorf("invalid backend override should be ignored, got %s", cfg.History.Backend)
	}
}

func TestDefaultOpts(t *testing.T) {
	t.Setenv(DefaultOptsEnv, `-i --prompt "pick one:" -l 5`)
	args, err := DefaultOpts()
	if err != nil {
		t.Fatalf("DefaultOpts error: %v", err)
	}
	want := []string{"-i", "--prompt", "pick one:", "-l", "5"}
	if strings.Join(args, "|") != strings.Join(want, "|") {
		t.Errorf("DefaultOpts() = %q, want %q", args, want)
	}

	t.Setenv(DefaultOptsEnv, "   ")
	args, err = DefaultOpts()
	if err != nil || args != nil {
		t.Errorf("blank value should yield nothing, got %q, %v", args, err)
	}

	t.Setenv(DefaultOptsEnv, `--prompt "unterminated`)
	if _, err := DefaultOpts(); err == nil {
		t.Error("Expected error for unterminated quote")
	}
}
