package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// helpMarkdown is the query-variables chapter of the user guide, rendered
// in-app so the feature is discoverable without leaving the terminal.
const helpMarkdown = `# Query Variables

Define a value once, reuse it in any query with a ` + "`{{name}}`" + ` placeholder.

## Defining variables

Open the **Variables** panel (F2), press **a**, and fill in a name and a
value. Names are identifiers: letters, digits and underscores, not starting
with a digit. Values are raw text and may contain anything, including
quotes and newlines.

## Using placeholders

Type ` + "`{{`" + ` in the editor to open the autocomplete popup. Filtering is
case-insensitive; **Tab** or **Enter** inserts the selected name with its
closing braces. Substitution is purely textual, so quote the placeholder
yourself when the value is a string:

` + "```sql" + `
SELECT * FROM users
WHERE created_at BETWEEN '{{start_date}}' AND '{{end_date}}'
  AND status = '{{user_status}}'
LIMIT {{page_size}} OFFSET {{page_offset}};
` + "```" + `

## Before execution

**ctrl+e** previews the expanded query. Placeholders that do not match a
defined variable are reported by name instead of being sent to the server.

## Copying

In the Variables panel, **c** copies a variable's value and **p** copies
its ` + "`{{placeholder}}`" + ` token.

Variables persist across sessions in ` + "`saved_variables.json`" + ` under the
PgWarp config directory, and reload automatically when another instance
changes them.
`

// HelpPageModel renders the built-in guide.
type HelpPageModel struct {
	viewport viewport.Model
	styles   Styles
	width    int
}

// NewHelpPageModel creates the help page.
func NewHelpPageModel(styles Styles) HelpPageModel {
	vp := viewport.New(80, 20)
	return HelpPageModel{viewport: vp, styles: styles}
}

// SetSize resizes the page and re-renders the markdown at the new width.
func (m *HelpPageModel) SetSize(w, h int) {
	m.viewport.Height = h - 3
	if w == m.width {
		return
	}
	m.width = w
	m.viewport.Width = w
	m.render(w)
}

func (m *HelpPageModel) render(width int) {
	if width < 20 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		m.viewport.SetContent(helpMarkdown)
		return
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		m.viewport.SetContent(helpMarkdown)
		return
	}
	m.viewport.SetContent(out)
}

// Update handles scrolling.
func (m HelpPageModel) Update(msg tea.Msg) (HelpPageModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help page.
func (m HelpPageModel) View() string {
	return m.viewport.View()
}
