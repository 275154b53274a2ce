// Package history persists committed values so they can be recalled in
// later runs. Two backends exist: a plain line file guarded by flock, and
// a SQLite database.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultMax is the number of entries kept when no limit is configured.
const DefaultMax = 1000

// Store is an append-only list of committed values.
type Store interface {
	// Load returns up to limit entries, oldest first. Duplicates keep only
	// their most recent position.
	Load(ctx context.Context, limit int) ([]string, error)
	// Append records a committed value.
	Append(ctx context.Context, value string) error
	Close() error
}

// Options configures a store.
type Options struct {
	Max       int    // Entries kept on disk; older ones are pruned
	SessionID string // Recorded with each entry by the SQLite backend
	Redact    bool   // Scrub credentials before storing
}

// prepare turns a committed value into the stored form. An empty result
// means nothing is stored.
func (o Options) prepare(value string) string {
	value = normalize(value)
	if o.Redact {
		value = Redact(value)
	}
	return value
}

// Open creates the store for backend at path. An empty path or the none
// backend yields a store that keeps nothing.
func Open(backend, path string, opts Options) (Store, error) {
	if opts.Max <= 0 {
		opts.Max = DefaultMax
	}
	if path == "" {
		backend = BackendNone
	}

	switch backend {
	case BackendNone, "":
		return nopStore{}, nil
	case BackendFile:
		return NewFileStore(path, opts), nil
	case BackendSQLite:
		return NewSQLiteStore(path, opts)
	default:
		return nil, fmt.Errorf("unknown history backend: %s", backend)
	}
}

// IsValidBackend reports whether name is a known backend.
func IsValidBackend(name string) bool {
	switch name {
	case BackendNone, BackendFile, BackendSQLite:
		return true
	}
	return false
}

// normalize flattens a value to one line.
func normalize(value string) string {
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimRight(value, " ")
}

// dedupe keeps the last occurrence of each value, preserving order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		if seen[values[i]] {
			continue
		}
		seen[values[i]] = true
		out = append(out, values[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// tail returns the last n values.
func tail(values []string, n int) []string {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

type nopStore struct{}

func (nopStore) Load(context.Context, int) ([]string, error) { return nil, nil }
func (nopStore) Append(context.Context, string) error        { return nil }
func (nopStore) Close() error                                { return nil }
