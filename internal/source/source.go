// Package source reads candidate lines into item entries, either all at
// once or as a stream of batches while the menu is running.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/runger/tmenu/internal/item"
	tlog "github.com/runger/tmenu/internal/log"
)

const (
	// maxLineSize bounds a single input line.
	maxLineSize = 1024 * 1024

	// batchSize is the most entries sent in one streamed batch.
	batchSize = 512

	// flushInterval is how long a partial batch waits before being sent.
	flushInterval = 50 * time.Millisecond
)

// Options controls how lines become entries.
type Options struct {
	Separator item.Separator
	Priority  []string // Texts flagged as priority items
	Logger    *slog.Logger
}

func (o Options) entry(line string) item.Entry {
	return item.ParseLine(Clean(line), o.Separator)
}

// scan feeds each line of r to fn until fn returns false or input ends.
func scan(r io.Reader, fn func(line string) bool) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		if !fn(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// ReadAll reads every line of r.
func ReadAll(r io.Reader, opts Options) ([]item.Entry, error) {
	var entries []item.Entry
	err := scan(r, func(line string) bool {
		entries = append(entries, opts.entry(line))
		return true
	})
	if err != nil {
		return nil, err
	}
	item.MarkPriority(entries, opts.Priority)
	return entries, nil
}

// FromStrings builds entries from a fixed list of values.
func FromStrings(values []string, opts Options) []item.Entry {
	entries := make([]item.Entry, len(values))
	for i, v := range values {
		entries[i] = opts.entry(v)
	}
	item.MarkPriority(entries, opts.Priority)
	return entries
}

// Stream reads r in the background and delivers entries in batches. The
// channel is closed when input ends or ctx is cancelled. Read errors are
// logged and end the stream.
func Stream(ctx context.Context, r io.Reader, opts Options) <-chan []item.Entry {
	logger := opts.Logger
	if logger == nil {
		logger = tlog.Nop()
	}

	lines := make(chan item.Entry, batchSize)
	out := make(chan []item.Entry)

	go func() {
		defer close(lines)
		err := scan(r, func(line string) bool {
			select {
			case lines <- opts.entry(line):
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			logger.Warn("input stream failed", "error", err)
		}
	}()

	go func() {
		defer close(out)
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()

		var batch []item.Entry
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			item.MarkPriority(batch, opts.Priority)
			select {
			case out <- batch:
				batch = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case e, ok := <-lines:
				if !ok {
					flush()
					return
				}
				batch = append(batch, e)
				if len(batch) >= batchSize && !flush() {
					return
				}
			case <-ticker.C:
				if !flush() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
