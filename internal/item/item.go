// Package item holds the candidate list for one tmenu run.
package item

import "strings"

// Item is a single candidate. Items are immutable once added to a Store.
type Item struct {
	ID        int    // Stable id, assigned in load order and never reused
	Text      string // Display and default match key
	Secondary string // Alternate text, emitted instead of Text when set
	Priority  bool   // Elevated above ordinary prefix matches
}

// HasSecondary reports whether the item carries alternate text.
func (it Item) HasSecondary() bool {
	return it.Secondary != ""
}

// EmitText returns the value printed when the item is committed.
func (it Item) EmitText() string {
	if it.Secondary != "" {
		return it.Secondary
	}
	return it.Text
}

// Entry is an item before it has been assigned an id.
type Entry struct {
	Text      string
	Secondary string
	Priority  bool
}

// EmitText returns the value printed for the entry once loaded.
func (e Entry) EmitText() string {
	if e.Secondary != "" {
		return e.Secondary
	}
	return e.Text
}

// Separator describes how an input line is split into display and
// secondary text.
type Separator struct {
	Delim string // Empty disables splitting
	Last  bool   // Split at the last occurrence instead of the first
}

// ParseLine turns one input line into an Entry. Text before the
// delimiter is displayed, text after it becomes the secondary text.
// Lines without the delimiter are kept whole.
func ParseLine(line string, sep Separator) Entry {
	line = strings.TrimSuffix(line, "\r")
	if sep.Delim == "" {
		return Entry{Text: line}
	}

	var idx int
	if sep.Last {
		idx = strings.LastIndex(line, sep.Delim)
	} else {
		idx = strings.Index(line, sep.Delim)
	}
	if idx < 0 {
		return Entry{Text: line}
	}

	return Entry{
		Text:      line[:idx],
		Secondary: line[idx+len(sep.Delim):],
	}
}

// MarkPriority flags every entry whose text is in names.
func MarkPriority(entries []Entry, names []string) {
	if len(names) == 0 {
		return
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = true
		}
	}
	for i := range entries {
		if set[entries[i].Text] {
			entries[i].Priority = true
		}
	}
}
