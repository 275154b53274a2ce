// Package menu is the Bubble Tea front end. It turns terminal messages into
// session events and renders the session state.
package menu

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/tmenu/internal/item"
	tlog "github.com/runger/tmenu/internal/log"
	"github.com/runger/tmenu/internal/session"
)

// defaultWidth is used before the first WindowSizeMsg.
const defaultWidth = 80

// ItemsMsg carries a batch of streamed entries.
type ItemsMsg struct {
	Entries []item.Entry
}

// streamDoneMsg is sent when the item channel is closed.
type streamDoneMsg struct{}

// clipboardMsg is the result of reading the system clipboard.
type clipboardMsg struct {
	text string
	err  error
}

// Options configures the menu surface.
type Options struct {
	Prompt string
	Bottom bool // Place the menu at the bottom of the screen

	// Items delivers streamed batches; nil when all input was read up front.
	Items <-chan []item.Entry

	// Clipboard reads the system clipboard. Defaults to atotto/clipboard.
	Clipboard func() (string, error)

	Logger *slog.Logger
}

// Model is the Bubble Tea model for the selector.
type Model struct {
	sess *session.Session
	keys keyMap
	opts Options
	log  *slog.Logger

	width     int
	height    int
	streaming bool
}

// NewModel creates a menu over sess.
func NewModel(sess *session.Session, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.ReadAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = tlog.Nop()
	}
	return Model{
		sess:      sess,
		keys:      defaultKeyMap(),
		opts:      opts,
		log:       logger,
		streaming: opts.Items != nil,
	}
}

// Reserve returns the cells taken by the prompt, the input field and the
// paging arrows on a single-row menu of the given width.
func Reserve(prompt string) func(width int) int {
	return func(width int) int {
		return promptCells(prompt) + inputCells(width) + TextWidth("<") + TextWidth(">")
	}
}

func promptCells(prompt string) int {
	if prompt == "" {
		return 0
	}
	return TextWidth(prompt) + 1
}

func inputCells(width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	return max(width/3, 1)
}

// Session returns the underlying session.
func (m Model) Session() *session.Session {
	return m.sess
}

// Output returns the lines to print, or nil if the menu was cancelled.
func (m Model) Output() []string {
	return m.sess.Output()
}

// IsCancelled reports whether the user cancelled.
func (m Model) IsCancelled() bool {
	return m.sess.State() == session.StateCancelled
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.opts.Items == nil {
		return nil
	}
	return waitForItems(m.opts.Items)
}

// waitForItems blocks on the next streamed batch.
func waitForItems(ch <-chan []item.Entry) tea.Cmd {
	return func() tea.Msg {
		batch, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return ItemsMsg{Entries: batch}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sess.Dispatch(session.Resize(msg.Width))
		return m, nil

	case ItemsMsg:
		m.sess.Dispatch(session.Arrived(msg.Entries))
		return m, waitForItems(m.opts.Items)

	case streamDoneMsg:
		m.streaming = false
		m.log.Debug("input stream closed", "items", m.sess.Store().Len())
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.log.Warn("clipboard read failed", "error", msg.err)
			return m, nil
		}
		m.sess.Dispatch(session.Paste(msg.text))
		return m.quitIfDone()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Clipboard) {
		return m, m.readClipboard()
	}

	ev, ok := m.keys.event(msg)
	if !ok {
		return m, nil
	}
	m.sess.Dispatch(ev)
	return m.quitIfDone()
}

func (m Model) quitIfDone() (tea.Model, tea.Cmd) {
	if m.sess.Done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) readClipboard() tea.Cmd {
	read := m.opts.Clipboard
	return func() tea.Msg {
		text, err := read()
		return clipboardMsg{text: text, err: err}
	}
}

// --- View rendering ---

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	markedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.sess.Done() {
		return ""
	}

	var view string
	if m.sess.Options().Rows == 0 {
		view = m.viewLine()
	} else {
		view = m.viewPrompt() + "\n" + m.viewList()
	}

	if m.opts.Bottom && m.height > 0 {
		return lipgloss.PlaceVertical(m.height, lipgloss.Bottom, view)
	}
	return view
}

func (m Model) lineWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// viewPrompt renders the prompt, the query and the match counter.
func (m Model) viewPrompt() string {
	var b strings.Builder
	if m.opts.Prompt != "" {
		b.WriteString(promptStyle.Render(m.opts.Prompt))
		b.WriteRune(' ')
	}
	b.WriteString(m.viewInput())

	counter := strconv.Itoa(m.sess.Result().Len()) + "/" + strconv.Itoa(m.sess.Store().Len())
	if n := m.sess.SelectedCount(); n > 0 {
		counter += " (" + strconv.Itoa(n) + ")"
	}
	if m.streaming {
		counter += " …"
	}
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(counter))
	return b.String()
}

// viewInput renders the query with a block cursor.
func (m Model) viewInput() string {
	text := m.sess.Text()
	cur := m.sess.Cursor()

	at := " "
	after := ""
	if cur < len(text) {
		_, size := utf8.DecodeRuneInString(text[cur:])
		at = text[cur : cur+size]
		after = text[cur+size:]
	}
	return text[:cur] + cursorStyle.Render(at) + after
}

// inputWidth is the plain width of the rendered input.
func (m Model) inputWidth() int {
	w := TextWidth(m.sess.Text())
	if m.sess.Cursor() == len(m.sess.Text()) {
		w++
	}
	return w
}

// viewLine renders the single-row layout: prompt, input, then as many
// results as fit between the paging arrows.
func (m Model) viewLine() string {
	var b strings.Builder
	width := m.lineWidth()

	if m.opts.Prompt != "" {
		b.WriteString(promptStyle.Render(m.opts.Prompt))
		b.WriteRune(' ')
	}

	inW := inputCells(width)
	b.WriteString(m.viewInput())
	if pad := inW - m.inputWidth(); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	w := m.sess.Window()
	if w.Prev >= 0 {
		b.WriteString(dimStyle.Render("<"))
	} else {
		b.WriteRune(' ')
	}

	budget := width - Reserve(m.opts.Prompt)(width)
	start, end := w.Visible()
	for pos := start; pos < end; pos++ {
		it := m.sess.Item(pos)
		b.WriteString(m.itemStyle(pos, it.ID).Render(itemLabel(it.Text, budget)))
	}

	if w.Next >= 0 {
		b.WriteString(dimStyle.Render(">"))
	}
	return b.String()
}

// viewList renders results one per row, filling grid columns top to
// bottom.
func (m Model) viewList() string {
	opts := m.sess.Options()
	rows := opts.Rows
	columns := max(opts.Columns, 1)
	colWidth := m.lineWidth() / columns

	w := m.sess.Window()
	start, end := w.Visible()

	var lines []string
	for row := 0; row < rows; row++ {
		if start+row >= end {
			break
		}
		var line strings.Builder
		for col := 0; col < columns; col++ {
			pos := start + col*rows + row
			if pos >= end {
				break
			}
			line.WriteString(m.viewCell(pos, colWidth))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// viewCell renders one list entry with its highlight and selection marks.
func (m Model) viewCell(pos, width int) string {
	it := m.sess.Item(pos)
	w := m.sess.Window()

	marker := []byte("  ")
	if pos == w.Highlight {
		marker[0] = '>'
	}
	if m.sess.Selected(it.ID) {
		marker[1] = '*'
	}

	cell := rowCell(string(marker), it.Text, width-1)
	return m.itemStyle(pos, it.ID).Render(cell) + " "
}

func (m Model) itemStyle(pos, id int) lipgloss.Style {
	switch {
	case pos == m.sess.Window().Highlight:
		return selectedStyle
	case m.sess.Selected(id):
		return markedStyle
	default:
		return normalStyle
	}
}
