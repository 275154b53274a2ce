// Package buffer implements the single-line query editor.
//
// A Buffer holds at most Cap bytes of UTF-8 text and a byte cursor that
// always sits on a rune boundary.
package buffer

import (
	"strings"
	"unicode/utf8"
)

// DefaultCapacity is the query size limit when none is configured.
const DefaultCapacity = 4096

// DefaultDelimiters separate words for word motion and deletion.
const DefaultDelimiters = " \t"

// Buffer is a bounded text buffer with a cursor.
type Buffer struct {
	text   []byte
	cursor int
	cap    int
}

// Snapshot is a saved buffer state.
type Snapshot struct {
	text   string
	cursor int
}

// New creates an empty buffer holding at most capacity bytes.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{cap: capacity}
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return string(b.text) }

// Cursor returns the byte offset of the cursor.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the text length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Cap returns the capacity in bytes.
func (b *Buffer) Cap() int { return b.cap }

// Remaining returns how many bytes can still be inserted.
func (b *Buffer) Remaining() int { return b.cap - len(b.text) }

// AtEnd reports whether the cursor is after the last byte.
func (b *Buffer) AtEnd() bool { return b.cursor == len(b.text) }

// Insert edits the text at the cursor. For n > 0 the first n bytes of str
// are spliced in and the cursor advances past them. For n < 0 the |n|
// bytes before the cursor are removed. It returns false and leaves the
// buffer untouched if the edit would overflow the capacity, n is out of
// range, or n would split a multi-byte character.
func (b *Buffer) Insert(str string, n int) bool {
	switch {
	case n == 0:
		return true
	case n > 0:
		if n > len(str) || len(b.text)+n > b.cap {
			return false
		}
		if n < len(str) && !utf8.RuneStart(str[n]) {
			return false
		}
		text := make([]byte, 0, len(b.text)+n)
		text = append(text, b.text[:b.cursor]...)
		text = append(text, str[:n]...)
		text = append(text, b.text[b.cursor:]...)
		b.text = text
		b.cursor += n
	default:
		if -n > b.cursor {
			return false
		}
		start := b.cursor + n
		if !utf8.RuneStart(b.text[start]) {
			return false
		}
		b.text = append(b.text[:start], b.text[b.cursor:]...)
		b.cursor = start
	}
	return true
}

// NextRune returns the offset of the rune boundary adjacent to the cursor
// in direction dir (negative for backward). At either end it returns the
// cursor itself.
func (b *Buffer) NextRune(dir int) int {
	return b.nextRuneFrom(b.cursor, dir)
}

func (b *Buffer) nextRuneFrom(pos, dir int) int {
	if dir < 0 {
		if pos == 0 {
			return 0
		}
		_, size := utf8.DecodeLastRune(b.text[:pos])
		return pos - size
	}
	if pos >= len(b.text) {
		return len(b.text)
	}
	_, size := utf8.DecodeRune(b.text[pos:])
	return pos + size
}

// CursorStep moves the cursor one rune in direction dir.
func (b *Buffer) CursorStep(dir int) bool {
	next := b.NextRune(dir)
	if next == b.cursor {
		return false
	}
	b.cursor = next
	return true
}

// WordEdge returns the offset reached by a word motion in direction dir.
// Backward skips delimiters then the word before them; forward does the
// mirror.
func (b *Buffer) WordEdge(dir int, delims string) int {
	if delims == "" {
		delims = DefaultDelimiters
	}
	pos := b.cursor
	if dir < 0 {
		for pos > 0 && b.isDelimAt(b.nextRuneFrom(pos, -1), delims) {
			pos = b.nextRuneFrom(pos, -1)
		}
		for pos > 0 && !b.isDelimAt(b.nextRuneFrom(pos, -1), delims) {
			pos = b.nextRuneFrom(pos, -1)
		}
		return pos
	}
	for pos < len(b.text) && b.isDelimAt(pos, delims) {
		pos = b.nextRuneFrom(pos, 1)
	}
	for pos < len(b.text) && !b.isDelimAt(pos, delims) {
		pos = b.nextRuneFrom(pos, 1)
	}
	return pos
}

func (b *Buffer) isDelimAt(pos int, delims string) bool {
	r, _ := utf8.DecodeRune(b.text[pos:])
	return strings.ContainsRune(delims, r)
}

// WordJump moves the cursor to the next word edge in direction dir.
func (b *Buffer) WordJump(dir int, delims string) bool {
	edge := b.WordEdge(dir, delims)
	if edge == b.cursor {
		return false
	}
	b.cursor = edge
	return true
}

// SetCursor places the cursor at pos, clamped to the text and moved back
// to a rune boundary.
func (b *Buffer) SetCursor(pos int) {
	pos = max(0, min(pos, len(b.text)))
	for pos > 0 && pos < len(b.text) && !utf8.RuneStart(b.text[pos]) {
		pos--
	}
	b.cursor = pos
}

// MoveHome puts the cursor at the start of the text.
func (b *Buffer) MoveHome() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor = 0
	return true
}

// MoveEnd puts the cursor after the last byte.
func (b *Buffer) MoveEnd() bool {
	if b.cursor == len(b.text) {
		return false
	}
	b.cursor = len(b.text)
	return true
}

// Set replaces the text and puts the cursor at the end. Text longer than
// the capacity is cut at the last rune boundary that fits.
func (b *Buffer) Set(text string) {
	text = TruncateRunes(text, b.cap)
	b.text = []byte(text)
	b.cursor = len(b.text)
}

// Snapshot saves the text and cursor.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{text: string(b.text), cursor: b.cursor}
}

// Restore returns the buffer to a saved state.
func (b *Buffer) Restore(s Snapshot) {
	b.text = []byte(s.text)
	b.cursor = s.cursor
}

// Text returns the saved text.
func (s Snapshot) Text() string { return s.text }

// TruncateRunes cuts s to at most n bytes without splitting a rune.
func TruncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
