// Package session is the selector's state machine. A Session owns the
// query buffer, the current result and the navigation window, and turns
// events into state changes. It has no terminal dependencies.
package session

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/runger/tmenu/internal/buffer"
	"github.com/runger/tmenu/internal/item"
	tlog "github.com/runger/tmenu/internal/log"
	"github.com/runger/tmenu/internal/match"
	"github.com/runger/tmenu/internal/nav"
	"github.com/runger/tmenu/internal/selection"
)

// State is the lifecycle state of a session.
type State int

const (
	StateEditing State = iota
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Options configures a session.
type Options struct {
	Match    match.Config
	Capacity int    // Query size limit in bytes
	Delims   string // Word delimiters

	Rows    int // 0 shows results on the prompt line
	Columns int

	// TextWidth measures an item in terminal cells. Defaults to byte length.
	TextWidth func(string) int
	// Reserve returns the cells taken by prompt, input and indicators for
	// a terminal width. Only used when Rows is 0.
	Reserve func(width int) int

	RejectNoMatch  bool
	Instant        bool
	PrefixComplete bool
	MultiSelect    bool
	PrintIndex     bool

	Query     string   // Initial query
	Preselect int      // Highlight moves down this many times at start
	History   []string // Oldest first

	Logger *slog.Logger
}

// Session is the complete selector state for one run.
type Session struct {
	opts   Options
	log    *slog.Logger
	store  *item.Store
	engine *match.Engine
	buf    *buffer.Buffer
	result match.Result
	win    *nav.Window
	sel    *selection.Set
	state  State
	raw    bool
	width  int

	history  []string
	histPos  int
	histSave string
}

// New creates a session over store. The initial query is applied and
// matched immediately, and the instant policy applies to it.
func New(store *item.Store, opts Options) *Session {
	if opts.Capacity <= 0 {
		opts.Capacity = buffer.DefaultCapacity
	}
	if opts.Delims == "" {
		opts.Delims = buffer.DefaultDelimiters
	}
	if opts.TextWidth == nil {
		opts.TextWidth = func(s string) int { return len(s) }
	}
	logger := opts.Logger
	if logger == nil {
		logger = tlog.Nop()
	}

	s := &Session{
		opts:    opts,
		log:     logger,
		store:   store,
		engine:  match.NewEngine(opts.Match),
		buf:     buffer.New(opts.Capacity),
		sel:     selection.New(),
		history: opts.History,
		histPos: len(opts.History),
	}
	s.win = nav.New(s.layout())

	s.buf.Set(opts.Query)
	s.recompute()
	for i := 0; i < opts.Preselect; i++ {
		if !s.win.Down() {
			break
		}
	}
	s.instant()
	return s
}

func (s *Session) layout() nav.Layout {
	l := nav.Layout{
		Rows:    s.opts.Rows,
		Columns: max(s.opts.Columns, 1),
		Width:   s.width,
		Measure: func(pos int) int {
			it, ok := s.store.At(s.result.At(pos).ID)
			if !ok {
				return 0
			}
			return s.opts.TextWidth(it.Text)
		},
	}
	if s.opts.Reserve != nil {
		l.Reserved = s.opts.Reserve(s.width)
	}
	return l
}

// recompute rebuilds the result from the buffer text and resets the
// window to the first match.
func (s *Session) recompute() {
	s.result = s.engine.Compute(s.buf.Text(), s.store.All())
	s.win.Reset(s.result.Len())
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Done reports whether the session has committed or cancelled.
func (s *Session) Done() bool { return s.state != StateEditing }

// Text returns the query text.
func (s *Session) Text() string { return s.buf.Text() }

// Cursor returns the byte offset of the cursor in the query.
func (s *Session) Cursor() int { return s.buf.Cursor() }

// Result returns the current result sequence.
func (s *Session) Result() match.Result { return s.result }

// Window returns a copy of the navigation window.
func (s *Session) Window() nav.Window { return *s.win }

// Store returns the item store.
func (s *Session) Store() *item.Store { return s.store }

// Options returns the session options.
func (s *Session) Options() Options { return s.opts }

// Item returns the item at result position pos.
func (s *Session) Item(pos int) item.Item {
	it, _ := s.store.At(s.result.At(pos).ID)
	return it
}

// Highlighted returns the highlighted item, if any.
func (s *Session) Highlighted() (item.Item, bool) {
	if s.win.Highlight < 0 || s.win.Highlight >= s.result.Len() {
		return item.Item{}, false
	}
	return s.Item(s.win.Highlight), true
}

// Selected reports whether id is in the multi-selection set.
func (s *Session) Selected(id int) bool { return s.sel.Has(id) }

// SelectedCount returns the size of the multi-selection set.
func (s *Session) SelectedCount() int { return s.sel.Len() }

// Dispatch applies one event. It reports whether the event changed any
// state; events arriving after commit or cancel are ignored.
func (s *Session) Dispatch(ev Event) bool {
	if s.Done() {
		return false
	}

	switch ev.Kind {
	case KindInsert:
		return s.edit(func() bool { return s.buf.Insert(ev.Text, len(ev.Text)) })
	case KindPaste:
		text := buffer.TruncateRunes(cleanPaste(ev.Text), s.buf.Remaining())
		if text == "" {
			return false
		}
		return s.edit(func() bool { return s.buf.Insert(text, len(text)) })
	case KindDeleteBack:
		if s.buf.Cursor() == 0 {
			return false
		}
		return s.edit(func() bool { return s.buf.Insert("", s.buf.NextRune(-1)-s.buf.Cursor()) })
	case KindDeleteForward:
		if s.buf.AtEnd() {
			return false
		}
		return s.edit(func() bool {
			s.buf.CursorStep(1)
			return s.buf.Insert("", s.buf.NextRune(-1)-s.buf.Cursor())
		})
	case KindDeleteWordBack:
		edge := s.buf.WordEdge(-1, s.opts.Delims)
		if edge == s.buf.Cursor() {
			return false
		}
		return s.edit(func() bool { return s.buf.Insert("", edge-s.buf.Cursor()) })
	case KindKillToEnd:
		if s.buf.AtEnd() {
			return false
		}
		return s.edit(func() bool {
			n := s.buf.Len() - s.buf.Cursor()
			s.buf.MoveEnd()
			return s.buf.Insert("", -n)
		})
	case KindKillToStart:
		if s.buf.Cursor() == 0 {
			return false
		}
		return s.edit(func() bool { return s.buf.Insert("", -s.buf.Cursor()) })
	case KindCursorLeft:
		return s.buf.CursorStep(-1)
	case KindCursorRight:
		return s.buf.CursorStep(1)
	case KindWordLeft:
		return s.buf.WordJump(-1, s.opts.Delims)
	case KindWordRight:
		return s.buf.WordJump(1, s.opts.Delims)
	case KindUp:
		return s.win.Up()
	case KindDown:
		return s.win.Down()
	case KindLeft:
		return s.left()
	case KindRight:
		return s.right()
	case KindHome:
		if s.win.Highlight <= 0 {
			return s.buf.MoveHome()
		}
		return s.win.First()
	case KindEnd:
		if !s.buf.AtEnd() {
			return s.buf.MoveEnd()
		}
		return s.win.Last()
	case KindPageUp:
		return s.win.PageUp()
	case KindPageDown:
		return s.win.PageDown()
	case KindComplete:
		return s.complete()
	case KindToggleSelect:
		return s.toggle()
	case KindHistoryPrev:
		return s.historyPrev()
	case KindHistoryNext:
		return s.historyNext()
	case KindCommit:
		s.state = StateCommitted
		return true
	case KindCommitRaw:
		s.raw = true
		s.state = StateCommitted
		return true
	case KindCancel:
		s.state = StateCancelled
		return true
	case KindItemsArrived:
		return s.arrive(ev.Items)
	case KindResize:
		s.width = ev.N
		s.win.SetLayout(s.layout())
		return true
	default:
		return false
	}
}

// edit applies a text mutation, rematches and enforces the reject and
// instant policies. It reports whether the edit was kept.
// A reverted edit restores the result and window as well as the text.
func (s *Session) edit(mutate func() bool) bool {
	snap := s.buf.Snapshot()
	result, win := s.result, *s.win
	if !mutate() {
		s.buf.Restore(snap)
		return false
	}
	s.recompute()

	if s.opts.RejectNoMatch && s.result.Empty() && s.store.Len() > 0 {
		s.log.Debug("edit reverted", "text", s.buf.Text(), "restored", snap.Text())
		s.buf.Restore(snap)
		s.result = result
		*s.win = win
		return false
	}

	s.instant()
	return true
}

// instant commits when exactly one item matches a non-blank query.
func (s *Session) instant() {
	if s.opts.Instant && s.result.Len() == 1 && strings.TrimSpace(s.buf.Text()) != "" {
		s.log.Debug("instant commit", "text", s.buf.Text())
		s.state = StateCommitted
	}
}

// replace swaps the whole query for text as a single edit.
func (s *Session) replace(text string) bool {
	text = buffer.TruncateRunes(text, s.buf.Cap())
	if text == s.buf.Text() {
		return s.buf.MoveEnd()
	}
	return s.edit(func() bool {
		s.buf.MoveEnd()
		if !s.buf.Insert("", -s.buf.Len()) {
			return false
		}
		return s.buf.Insert(text, len(text))
	})
}

func (s *Session) left() bool {
	if s.win.Layout().Grid() {
		return s.win.ColumnLeft()
	}
	if s.buf.Cursor() > 0 && (s.win.Highlight < 0 || s.win.IsFirst() || s.win.Layout().ListMode()) {
		return s.buf.CursorStep(-1)
	}
	if s.win.Layout().ListMode() {
		return false
	}
	return s.win.Up()
}

func (s *Session) right() bool {
	if s.win.Layout().Grid() {
		return s.win.ColumnRight()
	}
	if !s.buf.AtEnd() {
		return s.buf.CursorStep(1)
	}
	if s.win.Layout().ListMode() {
		return false
	}
	return s.win.Down()
}

func (s *Session) complete() bool {
	if s.opts.PrefixComplete {
		if s.result.Empty() {
			return false
		}
		texts := make([]string, s.result.Len())
		for pos := range texts {
			texts[pos] = s.Item(pos).Text
		}
		prefix := match.LongestCommonPrefix(texts)
		if prefix == "" {
			return false
		}
		return s.replace(prefix)
	}

	it, ok := s.Highlighted()
	if !ok {
		return false
	}
	return s.replace(it.Text)
}

func (s *Session) toggle() bool {
	if !s.opts.MultiSelect {
		return false
	}
	it, ok := s.Highlighted()
	if !ok {
		return false
	}
	s.sel.Toggle(it.ID)
	return true
}

func (s *Session) historyPrev() bool {
	if s.histPos == 0 {
		return false
	}
	if s.histPos == len(s.history) {
		s.histSave = s.buf.Text()
	}
	s.histPos--
	s.load(s.history[s.histPos])
	return true
}

func (s *Session) historyNext() bool {
	if s.histPos >= len(s.history) {
		return false
	}
	s.histPos++
	if s.histPos == len(s.history) {
		s.load(s.histSave)
	} else {
		s.load(s.history[s.histPos])
	}
	return true
}

// load replaces the query without the reject and instant policies.
// History values are shown even when nothing matches them.
func (s *Session) load(text string) {
	text = buffer.TruncateRunes(text, s.buf.Cap())
	s.buf.MoveEnd()
	s.buf.Insert("", -s.buf.Len())
	s.buf.Insert(text, len(text))
	s.recompute()
}

// arrive appends streamed entries and keeps the highlight on the same
// item when it still matches.
func (s *Session) arrive(entries []item.Entry) bool {
	if len(entries) == 0 {
		return false
	}

	prev, had := s.Highlighted()
	s.store.Append(entries...)
	s.recompute()

	if had {
		if pos := s.result.Position(prev.ID); pos >= 0 {
			s.win.JumpTo(pos)
		}
	}
	return true
}

// Output returns the lines to print after a commit.
func (s *Session) Output() []string {
	if s.state != StateCommitted {
		return nil
	}
	if s.raw {
		return []string{s.buf.Text()}
	}

	hl, hasHL := s.Highlighted()
	if s.sel.Len() > 0 {
		var out []string
		for _, id := range s.sel.IDs() {
			it, _ := s.store.At(id)
			out = append(out, s.emit(it))
		}
		if hasHL && !s.sel.Has(hl.ID) {
			out = append(out, s.emit(hl))
		}
		return out
	}

	if hasHL {
		return []string{s.emit(hl)}
	}
	return []string{s.buf.Text()}
}

func (s *Session) emit(it item.Item) string {
	if s.opts.PrintIndex {
		return strconv.Itoa(it.ID)
	}
	return it.EmitText()
}

// cleanPaste turns each run of control characters into one space.
func cleanPaste(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inCtl := false
	for _, r := range text {
		if unicode.IsControl(r) {
			if !inCtl {
				b.WriteByte(' ')
			}
			inCtl = true
			continue
		}
		inCtl = false
		b.WriteRune(r)
	}
	return b.String()
}
