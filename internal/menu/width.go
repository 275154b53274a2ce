package menu

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// cellPadding is the horizontal space around each item in single-row mode.
const cellPadding = 2

const (
	ellipsis      = "…"
	ellipsisCells = 1
)

// TextWidth returns the display width of s in terminal cells.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// ItemCells is the width an item occupies in single-row mode. The
// navigation window pages with it, so itemLabel must never exceed it.
func ItemCells(s string) int {
	return TextWidth(s) + cellPadding
}

// itemLabel renders s padded for single-row mode within budget cells.
// An item wider than the whole budget is shortened so that it still fits
// on the prompt line alone.
func itemLabel(s string, budget int) string {
	return " " + fitCells(s, budget-cellPadding) + " "
}

// rowCell renders marker and s as one list cell exactly cells wide.
func rowCell(marker, s string, cells int) string {
	text := fitCells(s, cells-TextWidth(marker)-1)
	return runewidth.FillRight(marker+" "+text, max(cells, 0))
}

// fitCells shortens s to at most cells columns by keeping its head and
// tail around an ellipsis. Below three columns only the head is kept.
func fitCells(s string, cells int) string {
	if cells <= 0 {
		return ""
	}
	if TextWidth(s) <= cells {
		return s
	}
	if cells < 2+ellipsisCells {
		return runewidth.Truncate(s, cells, "")
	}

	room := cells - ellipsisCells
	return runewidth.Truncate(s, (room+1)/2, "") + ellipsis + tailCells(s, room/2)
}

// tailCells returns the longest suffix of s at most cells wide.
func tailCells(s string, cells int) string {
	end := len(s)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		w := runewidth.RuneWidth(r)
		if w > cells {
			break
		}
		cells -= w
		end -= size
	}
	return s[end:]
}
