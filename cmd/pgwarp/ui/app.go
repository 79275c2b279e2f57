package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pgwarp/internal/queries"
	"pgwarp/internal/vars"
)

// page indexes the tab bar.
type page int

const (
	pageEditor page = iota
	pageVariables
	pageHelp
)

var pageTitles = []string{"Editor", "Variables", "Help"}

// Model is the root TUI model: a tab bar over the editor, variables and
// help pages. Construction wires every page to the shared variable store.
type Model struct {
	editor    EditorPageModel
	variables VarsPageModel
	help      HelpPageModel

	active page
	styles Styles
	width  int
	height int
}

// NewModel builds the root model. queryMgr may be nil.
func NewModel(store *vars.Store, queryMgr *queries.Manager, theme string) Model {
	styles := StylesFor(theme)
	return Model{
		editor:    NewEditorPageModel(store, queryMgr, styles),
		variables: NewVarsPageModel(store, styles),
		help:      NewHelpPageModel(styles),
		styles:    styles,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		m.editor, _ = m.editor.Update(body)
		m.variables, _ = m.variables.Update(body)
		m.help, _ = m.help.Update(body)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.editor.Close()
			m.variables.Close()
			return m, tea.Quit
		case "f1":
			m.active = pageEditor
			return m, nil
		case "f2":
			m.active = pageVariables
			return m, nil
		case "f3":
			m.active = pageHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case pageEditor:
		m.editor, cmd = m.editor.Update(msg)
	case pageVariables:
		m.variables, cmd = m.variables.Update(msg)
	case pageHelp:
		m.help, cmd = m.help.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")

	switch m.active {
	case pageEditor:
		sb.WriteString(m.editor.View())
	case pageVariables:
		sb.WriteString(m.variables.View())
	case pageHelp:
		sb.WriteString(m.help.View())
	}
	return sb.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(pageTitles))
	for i, title := range pageTitles {
		label := title
		if page(i) == m.active {
			tabs[i] = m.styles.TabActive.Render(label)
		} else {
			tabs[i] = m.styles.TabInactive.Render(label)
		}
	}
	return m.styles.TabBar.Width(m.width).Render(strings.Join(tabs, " "))
}
