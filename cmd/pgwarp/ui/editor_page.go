package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pgwarp/internal/queries"
	"pgwarp/internal/vars"
)

// EditorPageModel is the SQL editor with the variable autocomplete popup
// and the expansion preview. Expansion here is a preview of exactly what
// the execution pipeline would receive; the editor never talks to a
// database.
type EditorPageModel struct {
	textarea textarea.Model
	preview  viewport.Model
	popup    *vars.View

	store    *vars.Store
	auto     *vars.Autocomplete
	queryMgr *queries.Manager

	status string
	styles Styles
	width  int
	height int
}

// NewEditorPageModel creates the editor page. queryMgr may be nil (saving
// queries disabled).
func NewEditorPageModel(store *vars.Store, queryMgr *queries.Manager, styles Styles) EditorPageModel {
	ta := textarea.New()
	ta.Placeholder = "SELECT * FROM orders WHERE created >= '{{start_date}}';"
	ta.ShowLineNumbers = true
	ta.Focus()

	pv := viewport.New(0, 0)
	pv.SetContent("ctrl+e expands the query using your saved variables.")

	m := EditorPageModel{
		textarea: ta,
		preview:  pv,
		store:    store,
		queryMgr: queryMgr,
		styles:   styles,
	}
	m.auto = vars.NewAutocomplete(store, func(v *vars.View) {
		// The popup field is refreshed after every Update; the render port
		// only matters for store-change notifications while the popup is
		// open, which reach us between key events.
	}, nil)
	return m
}

// Close releases the page's store subscription.
func (m *EditorPageModel) Close() {
	if m.auto != nil {
		m.auto.Close()
	}
}

// SetSize resizes the editor and preview areas.
func (m *EditorPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.textarea.SetWidth(w - 2)
	m.textarea.SetHeight(h * 2 / 3)
	m.preview.Width = w - 2
	m.preview.Height = h - m.textarea.Height() - 6
	if m.preview.Height < 3 {
		m.preview.Height = 3
	}
}

// Update handles messages for the editor page.
func (m EditorPageModel) Update(msg tea.Msg) (EditorPageModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+e":
			m.runExpansion()
			return m, nil
		case "ctrl+s":
			m.saveQuery()
			return m, nil
		}

		// Popup keys go to the autocomplete controller first.
		if key, ok := autocompleteKey(msg); ok {
			if m.auto.OnKey(key) == vars.Consumed {
				if edit, committed := m.takeCommit(key); committed {
					m.textarea.SetValue(edit.Text)
					setCaret(&m.textarea, edit.Text, edit.Caret)
				}
				m.popup = m.auto.CurrentView()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	if _, isKey := msg.(tea.KeyMsg); isKey {
		m.popup = m.auto.OnTextChanged(m.textarea.Value(), caretOffset(&m.textarea))
	}

	m.preview, cmd = m.preview.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// takeCommit re-runs the commit path to capture the edit for Tab/Enter.
// The controller applies edits through its apply port; since the bubbletea
// model is a value type we capture the edit with a closure set up here
// instead of at construction.
func (m *EditorPageModel) takeCommit(key string) (vars.Edit, bool) {
	if key != vars.KeyTab && key != vars.KeyEnter {
		return vars.Edit{}, false
	}
	// OnKey already committed; the controller's view is closed and the
	// committed text/caret are exposed on the controller.
	if text, caret, ok := m.auto.LastCommit(); ok {
		return vars.Edit{Text: text, Caret: caret}, true
	}
	return vars.Edit{}, false
}

// runExpansion validates and expands the current query into the preview.
func (m *EditorPageModel) runExpansion() {
	text := m.textarea.Value()
	result := vars.Prepare(text, m.store)
	if result.OK() {
		m.preview.SetContent(result.Text)
		m.status = m.styles.Success.Render("Query expanded. This is what the server would receive.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Undefined variables:\n")
	for _, name := range result.Missing {
		sb.WriteString(fmt.Sprintf("  {{%s}}\n", name))
	}
	sb.WriteString("\nDefine them in the Variables panel (F2) before running.")
	m.preview.SetContent(sb.String())
	m.status = m.styles.Warning.Render(fmt.Sprintf("%d undefined variable(s).", len(result.Missing)))
}

// saveQuery stores the buffer as a saved query titled by its first line.
func (m *EditorPageModel) saveQuery() {
	if m.queryMgr == nil {
		return
	}
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" {
		m.status = m.styles.Warning.Render("Nothing to save.")
		return
	}
	title := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if len(title) > 48 {
		title = title[:48]
	}
	if _, err := m.queryMgr.Add(title, text, ""); err != nil {
		m.status = m.styles.Error.Render(fmt.Sprintf("Save failed: %v", err))
		return
	}
	m.status = m.styles.Success.Render(fmt.Sprintf("Saved query %q.", title))
}

// View renders the editor, the popup (when open) and the preview.
func (m EditorPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n")

	if m.popup != nil {
		sb.WriteString(m.renderPopup())
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Panel.Render(m.preview.View()))
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Footer.Render("ctrl+e expand · ctrl+s save query · {{ opens autocomplete"))
	return sb.String()
}

func (m EditorPageModel) renderPopup() string {
	var rows []string
	if len(m.popup.Candidates) == 0 {
		rows = append(rows, m.styles.PopupEmpty.Render("no variables"))
	}
	for i, name := range m.popup.Candidates {
		if i == m.popup.Selected {
			rows = append(rows, m.styles.PopupSelected.Render(" "+name+" "))
		} else {
			rows = append(rows, m.styles.PopupItem.Render(" "+name+" "))
		}
	}
	return m.styles.Popup.Render(strings.Join(rows, "\n"))
}

// autocompleteKey maps bubbletea key names onto the controller's protocol.
func autocompleteKey(msg tea.KeyMsg) (string, bool) {
	switch msg.String() {
	case "down":
		return vars.KeyArrowDown, true
	case "up":
		return vars.KeyArrowUp, true
	case "tab":
		return vars.KeyTab, true
	case "enter":
		return vars.KeyEnter, true
	case "esc":
		return vars.KeyEscape, true
	default:
		return "", false
	}
}
