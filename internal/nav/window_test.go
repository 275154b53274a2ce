package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listWindow(rows, n int) *Window {
	w := New(Layout{Rows: rows, Columns: 1})
	w.Reset(n)
	return w
}

func assertVisible(t *testing.T, w *Window) {
	t.Helper()
	if w.Highlight < 0 {
		return
	}
	start, end := w.Visible()
	assert.GreaterOrEqual(t, w.Highlight, start)
	assert.Less(t, w.Highlight, end)
}

func TestReset(t *testing.T) {
	w := listWindow(3, 10)
	assert.Equal(t, 0, w.Top)
	assert.Equal(t, 3, w.Next)
	assert.Equal(t, -1, w.Prev)
	assert.Equal(t, 0, w.Highlight)

	w.Reset(0)
	assert.Equal(t, -1, w.Highlight)
	assert.Equal(t, -1, w.Next)
	assert.False(t, w.Down())
	assert.False(t, w.Up())
	assert.False(t, w.First())
	assert.False(t, w.Last())
}

func TestDownUp_Paging(t *testing.T) {
	w := listWindow(3, 10)

	assert.True(t, w.Down())
	assert.True(t, w.Down())
	assert.Equal(t, 0, w.Top)
	assert.True(t, w.Down())
	assert.Equal(t, 3, w.Highlight)
	assert.Equal(t, 3, w.Top)
	assert.Equal(t, 6, w.Next)
	assert.Equal(t, 0, w.Prev)
	assertVisible(t, w)

	assert.True(t, w.Up())
	assert.Equal(t, 2, w.Highlight)
	assert.Equal(t, 0, w.Top)
	assertVisible(t, w)

	w.First()
	assert.False(t, w.Up())
}

func TestDown_StopsAtEnd(t *testing.T) {
	w := listWindow(5, 2)
	assert.True(t, w.Down())
	assert.False(t, w.Down())
	assert.Equal(t, 1, w.Highlight)
}

func TestPageDownUp(t *testing.T) {
	w := listWindow(3, 7)

	assert.False(t, w.PageUp())
	assert.True(t, w.PageDown())
	assert.Equal(t, 3, w.Top)
	assert.Equal(t, 3, w.Highlight)
	assert.True(t, w.PageDown())
	assert.Equal(t, 6, w.Top)
	assert.Equal(t, -1, w.Next)
	assert.False(t, w.PageDown())

	assert.True(t, w.PageUp())
	assert.Equal(t, 3, w.Top)
	assert.Equal(t, 3, w.Highlight)
}

func TestLast_WalksToFinalPage(t *testing.T) {
	w := listWindow(3, 10)
	assert.True(t, w.Last())
	assert.Equal(t, 9, w.Highlight)
	assert.Equal(t, 7, w.Top)
	assert.Equal(t, -1, w.Next)
	assertVisible(t, w)

	assert.True(t, w.First())
	assert.Equal(t, 0, w.Top)
	assert.Equal(t, 0, w.Highlight)
}

func TestLast_SinglePage(t *testing.T) {
	w := listWindow(5, 3)
	assert.True(t, w.Last())
	assert.Equal(t, 2, w.Highlight)
	assert.Equal(t, 0, w.Top)
}

func TestSingleRow_WidthBudget(t *testing.T) {
	widths := []int{6, 6, 6, 30, 2}
	w := New(Layout{
		Width:    20,
		Reserved: 5,
		Measure:  func(pos int) int { return widths[pos] },
	})
	w.Reset(len(widths))
	assert.Equal(t, 2, w.Next)

	w.PageDown()
	assert.Equal(t, 2, w.Top)
	// A wide entry costs at most the whole budget.
	assert.Equal(t, 3, w.Next)
	assert.Equal(t, 0, w.Prev)

	w.PageDown()
	assert.Equal(t, 3, w.Top)
	assert.Equal(t, 4, w.Next)
	assert.Equal(t, 1, w.Prev)
}

func TestGridColumns(t *testing.T) {
	w := New(Layout{Rows: 2, Columns: 3})
	w.Reset(10)
	assert.Equal(t, 6, w.Next)

	assert.True(t, w.ColumnRight())
	assert.Equal(t, 2, w.Highlight)
	assert.True(t, w.ColumnRight())
	assert.Equal(t, 4, w.Highlight)
	assert.True(t, w.ColumnRight())
	assert.Equal(t, 6, w.Highlight)
	assert.Equal(t, 6, w.Top)
	assertVisible(t, w)

	assert.True(t, w.ColumnLeft())
	assert.Equal(t, 4, w.Highlight)
	assert.Equal(t, 0, w.Top)
	assertVisible(t, w)

	w.Last()
	assert.False(t, w.ColumnRight())
	w.First()
	assert.False(t, w.ColumnLeft())
}

func TestJumpTo(t *testing.T) {
	w := listWindow(3, 10)
	w.JumpTo(7)
	assert.Equal(t, 7, w.Highlight)
	assert.Equal(t, 6, w.Top)
	assertVisible(t, w)

	w.JumpTo(42)
	assert.Equal(t, 7, w.Highlight)
}

func TestSetLayout_KeepsHighlightVisible(t *testing.T) {
	w := listWindow(5, 20)
	w.JumpTo(8)
	w.SetLayout(Layout{Rows: 2, Columns: 1})
	assert.Equal(t, 8, w.Highlight)
	assertVisible(t, w)
}

func TestHighlightStaysInPage(t *testing.T) {
	w := listWindow(4, 25)
	moves := []func() bool{w.Down, w.Down, w.Down, w.Down, w.Down, w.PageDown, w.Up, w.Up, w.Up, w.PageUp, w.Last, w.Up, w.First}
	for _, move := range moves {
		move()
		assertVisible(t, w)
	}
}
