// Package ui provides the PgWarp terminal interface: the query editor with
// the variable autocomplete popup, the variables panel, and the help page.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Light and dark variants of the PgWarp scheme.
var (
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#1b2733")
	LightPrimary    = lipgloss.Color("#2f6fde")
	LightAccent     = lipgloss.Color("#00897b")
	LightMuted      = lipgloss.Color("#8a94a6")
	LightBorder     = lipgloss.Color("#d6dae0")

	DarkBackground = lipgloss.Color("#10161f")
	DarkForeground = lipgloss.Color("#e8ecf1")
	DarkPrimary    = lipgloss.Color("#6ea8ff")
	DarkAccent     = lipgloss.Color("#2dd4bf")
	DarkMuted      = lipgloss.Color("#5c6878")
	DarkBorder     = lipgloss.Color("#2a3441")

	// Semantic colors, same in both modes
	ColorSuccess = lipgloss.Color("#8BC34A")
	ColorWarning = lipgloss.Color("#FFC107")
	ColorError   = lipgloss.Color("#e53935")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

// LightTheme returns the light color scheme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark color scheme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
	}
}

// Styles bundles the lipgloss styles shared by all pages.
type Styles struct {
	Theme Theme

	// Layout
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Footer      lipgloss.Style
	Panel       lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	// Status
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Autocomplete popup
	Popup         lipgloss.Style
	PopupItem     lipgloss.Style
	PopupSelected lipgloss.Style
	PopupEmpty    lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		TabBar:      lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(t.Border),
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 2),
		TabInactive: lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 2),
		Footer:      lipgloss.NewStyle().Foreground(t.Muted),
		Panel:       lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),

		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtitle: lipgloss.NewStyle().Foreground(t.Accent),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),

		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorError),

		Popup:         lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
		PopupItem:     lipgloss.NewStyle().Foreground(t.Foreground),
		PopupSelected: lipgloss.NewStyle().Bold(true).Foreground(t.Background).Background(t.Primary),
		PopupEmpty:    lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
	}
}

// StylesFor maps a settings theme name to a style set. Unknown names fall
// back to dark.
func StylesFor(theme string) Styles {
	if strings.EqualFold(theme, "light") {
		return NewStyles(LightTheme())
	}
	return NewStyles(DarkTheme())
}
