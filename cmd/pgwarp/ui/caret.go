package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
)

// caretOffset converts the textarea's row/column cursor into a byte offset
// into Value(). The autocomplete controller works on byte offsets, same as
// the placeholder scanner.
func caretOffset(ta *textarea.Model) int {
	value := ta.Value()
	row := ta.Line()
	li := ta.LineInfo()
	col := li.StartColumn + li.ColumnOffset

	lines := strings.Split(value, "\n")
	if row >= len(lines) {
		return len(value)
	}

	offset := 0
	for i := 0; i < row; i++ {
		offset += len(lines[i]) + 1 // +1 for the newline
	}

	runes := []rune(lines[row])
	if col > len(runes) {
		col = len(runes)
	}
	offset += len(string(runes[:col]))
	if offset > len(value) {
		offset = len(value)
	}
	return offset
}

// setCaret moves the textarea cursor to the given byte offset of text.
// The textarea only exposes row-relative cursor movement, so this walks
// rows from the end of the value.
func setCaret(ta *textarea.Model, text string, offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	row := strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	col := len([]rune(text[lineStart:offset]))

	// SetValue leaves the cursor on the last row.
	lastRow := strings.Count(text, "\n")
	for i := lastRow; i > row; i-- {
		ta.CursorUp()
	}
	ta.SetCursor(col)
}
