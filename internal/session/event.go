package session

import "github.com/runger/tmenu/internal/item"

// Kind identifies an input event.
type Kind int

const (
	KindInsert Kind = iota
	KindPaste
	KindDeleteBack
	KindDeleteForward
	KindDeleteWordBack
	KindKillToEnd
	KindKillToStart
	KindCursorLeft
	KindCursorRight
	KindWordLeft
	KindWordRight
	KindUp
	KindDown
	KindLeft
	KindRight
	KindHome
	KindEnd
	KindPageUp
	KindPageDown
	KindComplete
	KindToggleSelect
	KindHistoryPrev
	KindHistoryNext
	KindCommit
	KindCommitRaw
	KindCancel
	KindItemsArrived
	KindResize
)

var kindNames = [...]string{
	KindInsert:         "insert",
	KindPaste:          "paste",
	KindDeleteBack:     "delete_back",
	KindDeleteForward:  "delete_forward",
	KindDeleteWordBack: "delete_word_back",
	KindKillToEnd:      "kill_to_end",
	KindKillToStart:    "kill_to_start",
	KindCursorLeft:     "cursor_left",
	KindCursorRight:    "cursor_right",
	KindWordLeft:       "word_left",
	KindWordRight:      "word_right",
	KindUp:             "up",
	KindDown:           "down",
	KindLeft:           "left",
	KindRight:          "right",
	KindHome:           "home",
	KindEnd:            "end",
	KindPageUp:         "page_up",
	KindPageDown:       "page_down",
	KindComplete:       "complete",
	KindToggleSelect:   "toggle_select",
	KindHistoryPrev:    "history_prev",
	KindHistoryNext:    "history_next",
	KindCommit:         "commit",
	KindCommitRaw:      "commit_raw",
	KindCancel:         "cancel",
	KindItemsArrived:   "items_arrived",
	KindResize:         "resize",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one input to the session.
type Event struct {
	Kind  Kind
	Text  string       // Inserted or pasted text
	N     int          // Terminal width for KindResize
	Items []item.Entry // New entries for KindItemsArrived
}

// Insert returns a text insertion event.
func Insert(text string) Event { return Event{Kind: KindInsert, Text: text} }

// Paste returns a paste event.
func Paste(text string) Event { return Event{Kind: KindPaste, Text: text} }

// Key returns an event that carries no payload.
func Key(k Kind) Event { return Event{Kind: k} }

// Resize returns a resize event for a terminal width.
func Resize(width int) Event { return Event{Kind: KindResize, N: width} }

// Arrived returns an event adding entries to the store.
func Arrived(entries []item.Entry) Event {
	return Event{Kind: KindItemsArrived, Items: entries}
}
