//go:build !windows

// Package tty opens the controlling terminal for the menu. Standard input
// and output carry data, so the UI talks to /dev/tty directly.
package tty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Path is the controlling terminal device.
const Path = "/dev/tty"

// MinWidth is the narrowest terminal the menu will draw into.
const MinWidth = 20

// Defaults for Acquire.
const (
	DefaultAttempts = 100
	DefaultDelay    = 10 * time.Millisecond
)

// ErrNoTTY is returned when the terminal could not be opened.
var ErrNoTTY = errors.New("cannot open terminal")

// openFunc opens the terminal device. Replaced in tests.
type openFunc func() (*os.File, error)

func openDevice() (*os.File, error) {
	return os.OpenFile(Path, os.O_RDWR, 0)
}

// Acquire opens the controlling terminal, retrying up to attempts times
// with delay between tries. Another program may hold the terminal briefly
// when tmenu is started from a key binding.
func Acquire(ctx context.Context, attempts int, delay time.Duration) (*os.File, error) {
	return acquire(ctx, openDevice, attempts, delay)
}

func acquire(ctx context.Context, open openFunc, attempts int, delay time.Duration) (*os.File, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		f, err := open()
		if err == nil {
			return f, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", ErrNoTTY, ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrNoTTY, attempts, lastErr)
}

// CheckTERM rejects terminals that cannot position the cursor.
func CheckTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}

// Size returns the terminal dimensions of f.
func Size(f *os.File) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot get terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// CheckWidth verifies that f is at least MinWidth columns wide.
func CheckWidth(f *os.File) error {
	cols, _, err := Size(f)
	if err != nil {
		return err
	}
	if cols < MinWidth {
		return fmt.Errorf("terminal too narrow (%d columns, need at least %d)", cols, MinWidth)
	}
	return nil
}
