// Package nav tracks which part of the result list is visible and which
// entry is highlighted.
//
// Positions are indexes into the current result sequence. A window shows
// the positions [Top, Next); Next is -1 when the page reaches the end and
// Prev is the top of the previous page, or -1 on the first page.
package nav

// Layout describes the space available for results.
type Layout struct {
	Rows     int // Visible rows; 0 lays results out on the prompt line
	Columns  int // Grid columns when Rows > 0
	Width    int // Total line width in cells
	Reserved int // Cells taken by prompt, input and paging indicators

	// Measure returns the display width of the result at pos. Only used
	// when Rows is 0.
	Measure func(pos int) int
}

// ListMode reports whether results are shown one per row.
func (l Layout) ListMode() bool {
	return l.Rows > 0
}

// Grid reports whether results are shown in more than one column.
func (l Layout) Grid() bool {
	return l.Rows > 0 && l.Columns > 1
}

func (l Layout) budget() int {
	if l.Rows > 0 {
		return l.Rows * max(l.Columns, 1)
	}
	return max(l.Width-l.Reserved, 1)
}

func (l Layout) cost(pos, budget int) int {
	if l.Rows > 0 || l.Measure == nil {
		return 1
	}
	return min(l.Measure(pos), budget)
}

// Window is the visible page and highlight over a result sequence.
type Window struct {
	Top       int
	Next      int
	Prev      int
	Highlight int

	n      int
	layout Layout
}

// New creates a window over an empty result.
func New(l Layout) *Window {
	return &Window{Next: -1, Prev: -1, Highlight: -1, layout: l}
}

// Layout returns the current layout.
func (w *Window) Layout() Layout {
	return w.layout
}

// SetLayout changes the layout and recomputes the page bounds. The
// highlight is kept visible.
func (w *Window) SetLayout(l Layout) {
	w.layout = l
	if w.Highlight >= 0 {
		w.JumpTo(w.Highlight)
		return
	}
	w.Calc()
}

// Len returns the size of the result sequence the window covers.
func (w *Window) Len() int {
	return w.n
}

// Reset points the window at a fresh result of n entries, with the
// highlight on the first one.
func (w *Window) Reset(n int) {
	w.n = n
	w.Top = 0
	w.Highlight = -1
	if n > 0 {
		w.Highlight = 0
	}
	w.Calc()
}

// Calc recomputes Next and Prev from Top.
func (w *Window) Calc() {
	w.Next, w.Prev = -1, -1
	if w.n == 0 {
		w.Top = 0
		return
	}

	budget := w.layout.budget()

	used := 0
	next := w.Top
	for ; next < w.n; next++ {
		used += w.layout.cost(next, budget)
		if used > budget {
			break
		}
	}
	if next < w.n {
		w.Next = next
	}

	used = 0
	prev := w.Top
	for ; prev > 0; prev-- {
		used += w.layout.cost(prev-1, budget)
		if used > budget {
			break
		}
	}
	if prev != w.Top {
		w.Prev = prev
	}
}

// Visible returns the visible range [start, end).
func (w *Window) Visible() (int, int) {
	if w.n == 0 {
		return 0, 0
	}
	if w.Next < 0 {
		return w.Top, w.n
	}
	return w.Top, w.Next
}

// IsFirst reports whether the highlight is on the first result.
func (w *Window) IsFirst() bool {
	return w.Highlight == 0
}

// Down moves the highlight to its successor, paging forward at the
// window boundary.
func (w *Window) Down() bool {
	if w.Highlight < 0 || w.Highlight+1 >= w.n {
		return false
	}
	w.Highlight++
	if w.Highlight == w.Next {
		w.Top = w.Next
		w.Calc()
	}
	return true
}

// Up moves the highlight to its predecessor, paging back when it leaves
// the top of the window.
func (w *Window) Up() bool {
	if w.Highlight <= 0 {
		return false
	}
	w.Highlight--
	if w.Highlight+1 == w.Top {
		w.Top = w.Highlight
		if w.Prev >= 0 {
			w.Top = w.Prev
		}
		w.Calc()
	}
	return true
}

// PageDown jumps the top and highlight to the next page.
func (w *Window) PageDown() bool {
	if w.Next < 0 {
		return false
	}
	w.Top = w.Next
	w.Highlight = w.Next
	w.Calc()
	return true
}

// PageUp jumps the top and highlight to the previous page.
func (w *Window) PageUp() bool {
	if w.Prev < 0 {
		return false
	}
	w.Top = w.Prev
	w.Highlight = w.Prev
	w.Calc()
	return true
}

// First moves the top and highlight to the first result.
func (w *Window) First() bool {
	if w.n == 0 {
		return false
	}
	w.Top = 0
	w.Highlight = 0
	w.Calc()
	return true
}

// Last moves the highlight to the final result and pages forward until
// the last page is shown.
func (w *Window) Last() bool {
	if w.n == 0 {
		return false
	}
	last := w.n - 1
	if w.Next >= 0 {
		w.Top = last
		w.Calc()
		if w.Prev >= 0 {
			w.Top = w.Prev
			w.Calc()
		}
		for w.Next >= 0 && w.Top < last {
			w.Top++
			w.Calc()
		}
	}
	w.Highlight = last
	return true
}

// ColumnLeft moves the highlight one grid column left.
func (w *Window) ColumnLeft() bool {
	if w.Highlight < 0 {
		return false
	}
	pos := w.Highlight
	offscreen := false
	for i := 0; i < w.layout.Rows; i++ {
		if pos == 0 {
			return false
		}
		if pos == w.Top {
			offscreen = true
		}
		pos--
	}
	w.Highlight = pos
	if offscreen {
		w.Top = pos
		if w.Prev >= 0 {
			w.Top = w.Prev
		}
		w.Calc()
	}
	return true
}

// ColumnRight moves the highlight one grid column right.
func (w *Window) ColumnRight() bool {
	if w.Highlight < 0 {
		return false
	}
	pos := w.Highlight
	offscreen := false
	for i := 0; i < w.layout.Rows; i++ {
		if pos+1 >= w.n {
			return false
		}
		pos++
		if pos == w.Next {
			offscreen = true
		}
	}
	w.Highlight = pos
	if offscreen {
		w.Top = w.Next
		w.Calc()
	}
	return true
}

// JumpTo highlights pos and pages from the start until it is visible.
func (w *Window) JumpTo(pos int) {
	if pos < 0 || pos >= w.n {
		w.Calc()
		return
	}
	w.Highlight = pos
	w.Top = 0
	w.Calc()
	for w.Next >= 0 && pos >= w.Next {
		w.Top = w.Next
		w.Calc()
	}
}
