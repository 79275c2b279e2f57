package ui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pgwarp/internal/vars"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// systemClipboard adapts the host clipboard to the panel's ClipboardPort.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboardWriteAll(text)
}

// varsMode is the interaction state of the variables page.
type varsMode int

const (
	varsBrowsing varsMode = iota
	varsAdding
	varsEditing
	varsConfirmingDelete
)

// variableItem adapts vars.Variable to list.Item.
type variableItem struct {
	v vars.Variable
}

func (i variableItem) Title() string { return i.v.Name }
func (i variableItem) Description() string {
	value := i.v.Value
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		value = value[:idx] + "…"
	}
	if len(value) > 60 {
		value = value[:60] + "…"
	}
	if value == "" {
		value = "(empty)"
	}
	return value
}
func (i variableItem) FilterValue() string { return i.v.Name + " " + i.v.Value }

// VarsPageModel is the variables sidebar: list, add/edit forms, delete
// confirmation, and the two copy actions.
type VarsPageModel struct {
	list       list.Model
	nameInput  textinput.Model
	valueInput textinput.Model

	store *vars.Store
	panel *vars.Panel

	mode      varsMode
	editName  string // name being edited while mode == varsEditing
	formFocus int    // 0 = name, 1 = value
	status    string
	styles    Styles
	width     int
	height    int
	storeSub  vars.Handle

	// dirty is shared across model copies: the store subscription flips it
	// from notification dispatch, the next Update picks it up.
	dirty *atomic.Bool
}

// NewVarsPageModel creates the variables page bound to the store.
func NewVarsPageModel(store *vars.Store, styles Styles) VarsPageModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Query Variables"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(styles.Theme.Primary)

	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 128
	value := textinput.New()
	value.Placeholder = "value"

	m := VarsPageModel{
		list:       l,
		nameInput:  name,
		valueInput: value,
		store:      store,
		panel:      vars.NewPanel(store, systemClipboard{}),
		styles:     styles,
		dirty:      &atomic.Bool{},
	}
	dirty := m.dirty
	m.storeSub = store.Subscribe(func(vars.Change) {
		dirty.Store(true)
	})
	m.reload()
	return m
}

// Close releases the page's store subscription.
func (m *VarsPageModel) Close() {
	m.store.Unsubscribe(m.storeSub)
}

// reload rebuilds the list items from the store in insertion order.
func (m *VarsPageModel) reload() {
	variables := m.store.List()
	items := make([]list.Item, len(variables))
	for i, v := range variables {
		items[i] = variableItem{v: v}
	}
	m.list.SetItems(items)
	m.dirty.Store(false)
}

// SetSize resizes the page.
func (m *VarsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w-2, h-6)
}

// selectedName returns the highlighted variable name, if any.
func (m *VarsPageModel) selectedName() (string, bool) {
	item, ok := m.list.SelectedItem().(variableItem)
	if !ok {
		return "", false
	}
	return item.v.Name, true
}

// Update handles messages for the variables page.
func (m VarsPageModel) Update(msg tea.Msg) (VarsPageModel, tea.Cmd) {
	if m.dirty.Load() {
		m.reload()
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
		return m, nil
	}

	switch m.mode {
	case varsAdding, varsEditing:
		return m.updateForm(msg)
	case varsConfirmingDelete:
		return m.updateConfirm(msg)
	}
	return m.updateBrowsing(msg)
}

func (m VarsPageModel) updateBrowsing(msg tea.Msg) (VarsPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "a":
			m.mode = varsAdding
			m.formFocus = 0
			m.nameInput.SetValue("")
			m.valueInput.SetValue("")
			m.nameInput.Focus()
			m.valueInput.Blur()
			return m, nil
		case "e":
			if name, ok := m.selectedName(); ok {
				v, _ := m.store.Get(name)
				m.mode = varsEditing
				m.editName = name
				m.formFocus = 1
				m.nameInput.SetValue(name)
				m.valueInput.SetValue(v.Value)
				m.nameInput.Blur()
				m.valueInput.Focus()
			}
			return m, nil
		case "d":
			if _, ok := m.selectedName(); ok {
				m.mode = varsConfirmingDelete
			}
			return m, nil
		case "c":
			if name, ok := m.selectedName(); ok {
				if err := m.panel.CopyValue(name); err != nil {
					m.status = m.styles.Error.Render(fmt.Sprintf("Copy failed: %v", err))
				} else {
					m.status = m.styles.Success.Render(fmt.Sprintf("Copied value of %s.", name))
				}
			}
			return m, nil
		case "p":
			if name, ok := m.selectedName(); ok {
				if err := m.panel.CopyPlaceholder(name); err != nil {
					m.status = m.styles.Error.Render(fmt.Sprintf("Copy failed: %v", err))
				} else {
					m.status = m.styles.Success.Render(fmt.Sprintf("Copied {{%s}}.", name))
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m VarsPageModel) updateForm(msg tea.Msg) (VarsPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.mode = varsBrowsing
			m.status = ""
			return m, nil
		case "tab", "shift+tab":
			if m.mode == varsAdding {
				m.formFocus = 1 - m.formFocus
				if m.formFocus == 0 {
					m.nameInput.Focus()
					m.valueInput.Blur()
				} else {
					m.nameInput.Blur()
					m.valueInput.Focus()
				}
			}
			return m, nil
		case "enter":
			return m.submitForm()
		}
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.valueInput, cmd = m.valueInput.Update(msg)
	}
	return m, cmd
}

func (m VarsPageModel) submitForm() (VarsPageModel, tea.Cmd) {
	var err error
	if m.mode == varsAdding {
		err = m.panel.Add(m.nameInput.Value(), m.valueInput.Value())
	} else {
		err = m.panel.Edit(m.editName, m.valueInput.Value())
	}
	if err != nil {
		m.status = m.styles.Error.Render(err.Error())
		return m, nil
	}
	m.mode = varsBrowsing
	m.status = m.styles.Success.Render("Saved.")
	m.reload()
	return m, nil
}

func (m VarsPageModel) updateConfirm(msg tea.Msg) (VarsPageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	name, _ := m.selectedName()
	switch key.String() {
	case "y", "Y":
		if _, err := m.panel.Delete(name, func() bool { return true }); err != nil {
			m.status = m.styles.Error.Render(fmt.Sprintf("Delete failed: %v", err))
		} else {
			m.status = m.styles.Success.Render(fmt.Sprintf("Deleted %s.", name))
			m.reload()
		}
		m.mode = varsBrowsing
	case "n", "N", "esc":
		m.mode = varsBrowsing
		m.status = ""
	}
	return m, nil
}

// View renders the variables page.
func (m VarsPageModel) View() string {
	var sb strings.Builder

	switch m.mode {
	case varsAdding, varsEditing:
		title := "New variable"
		if m.mode == varsEditing {
			title = "Edit " + m.editName
		}
		sb.WriteString(m.styles.Title.Render(title))
		sb.WriteString("\n\n")
		sb.WriteString("Name:  " + m.nameInput.View() + "\n")
		sb.WriteString("Value: " + m.valueInput.View() + "\n\n")
		sb.WriteString(m.styles.Footer.Render("enter save · tab switch field · esc cancel"))

	case varsConfirmingDelete:
		name, _ := m.selectedName()
		sb.WriteString(m.list.View())
		sb.WriteString("\n")
		sb.WriteString(m.styles.Warning.Render(fmt.Sprintf("Delete %s? (y/n)", name)))

	default:
		sb.WriteString(m.list.View())
		sb.WriteString("\n")
		sb.WriteString(m.styles.Footer.Render("a add · e edit · d delete · c copy value · p copy {{placeholder}}"))
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.status)
	}
	return sb.String()
}
