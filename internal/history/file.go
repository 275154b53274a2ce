package history

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// FileStore keeps one value per line in a text file. Appends take an
// exclusive flock so concurrent runs do not interleave writes.
type FileStore struct {
	path string
	opts Options

	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a store backed by path. The file is created on the
// first append.
func NewFileStore(path string, opts Options) *FileStore {
	return &FileStore{path: path, opts: opts}
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH); err != nil {
		return nil, fmt.Errorf("failed to lock history file: %w", err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	values, err := readLines(f)
	if err != nil {
		return nil, err
	}
	return tail(dedupe(values), limit), nil
}

// Append implements Store. When the file grows past the configured
// maximum it is rewritten with only the newest entries.
func (s *FileStore) Append(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	value = s.opts.prepare(value)
	if value == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to lock history file: %w", err)
	}
	defer unix.Flock(fd, unix.LOCK_UN)

	values, err := readLines(f)
	if err != nil {
		return err
	}
	values = append(values, value)

	if s.opts.Max > 0 && len(values) > s.opts.Max {
		return rewrite(f, tail(values, s.opts.Max))
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek history file: %w", err)
	}
	if _, err := f.WriteString(value + "\n"); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var values []string
	for scanner.Scan() {
		if line := strings.TrimSuffix(scanner.Text(), "\r"); line != "" {
			values = append(values, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return values, nil
}

func rewrite(f *os.File, values []string) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate history file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek history file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, v := range values {
		w.WriteString(v)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
