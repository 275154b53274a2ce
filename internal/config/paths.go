// Package config provides configuration management for tmenu.
package config

import (
	"os"
	"path/filepath"

	"github.com/runger/tmenu/internal/history"
)

// Paths holds the directories tmenu reads and writes.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/tmenu)
	ConfigDir string

	// DataDir is the directory for the history store (~/.local/share/tmenu)
	DataDir string

	// CacheDir is the directory for the debug log (~/.cache/tmenu)
	CacheDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory spec.
func DefaultPaths() *Paths {
	home := homeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "tmenu"),
		DataDir:   filepath.Join(dataHome, "tmenu"),
		CacheDir:  filepath.Join(cacheHome, "tmenu"),
	}
}

// ConfigFile returns the path to the main configuration file. TMENU_CONFIG
// overrides it.
func (p *Paths) ConfigFile() string {
	if path := os.Getenv("TMENU_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// HistoryFile returns the default history location for backend.
func (p *Paths) HistoryFile(backend string) string {
	if backend == history.BackendSQLite {
		return filepath.Join(p.DataDir, "history.db")
	}
	return filepath.Join(p.DataDir, "history")
}

// LogFile returns the path to the debug log.
func (p *Paths) LogFile() string {
	return filepath.Join(p.CacheDir, "tmenu.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}
