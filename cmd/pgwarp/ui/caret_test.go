package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/stretchr/testify/assert"
)

func newTextarea(value string) textarea.Model {
	ta := textarea.New()
	ta.SetWidth(80)
	ta.SetHeight(10)
	ta.SetValue(value)
	return ta
}

func TestCaretOffset(t *testing.T) {
	t.Run("single line, cursor at end", func(t *testing.T) {
		ta := newTextarea("SELECT 1")
		assert.Equal(t, len("SELECT 1"), caretOffset(&ta))
	})

	t.Run("multi line, cursor at end", func(t *testing.T) {
		value := "SELECT *\nFROM users\nWHERE id = 1"
		ta := newTextarea(value)
		assert.Equal(t, len(value), caretOffset(&ta))
	})

	t.Run("empty value", func(t *testing.T) {
		ta := newTextarea("")
		assert.Equal(t, 0, caretOffset(&ta))
	})
}

func TestSetCaretRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		value  string
		offset int
	}{
		{"start of text", "SELECT 1", 0},
		{"middle of line", "SELECT 1", 3},
		{"end of first line", "SELECT *\nFROM users", 8},
		{"start of second line", "SELECT *\nFROM users", 9},
		{"middle of last line", "SELECT *\nFROM users\nWHERE 1", 24},
		{"after multibyte rune", "naïve\nrow", len("naïve")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTextarea(tc.value)
			setCaret(&ta, tc.value, tc.offset)
			assert.Equal(t, tc.offset, caretOffset(&ta))
		})
	}
}

func TestSetCaretClamps(t *testing.T) {
	value := "SELECT 1"
	ta := newTextarea(value)

	setCaret(&ta, value, 999)
	assert.Equal(t, len(value), caretOffset(&ta))

	setCaret(&ta, value, -5)
	assert.Equal(t, 0, caretOffset(&ta))
}
