package vars

import "strings"

// ClipboardPort writes text to the system clipboard. The TUI wires the real
// clipboard; tests inject fakes. Keeping it a port keeps the panel
// controller free of any GUI toolkit.
type ClipboardPort interface {
	WriteText(text string) error
}

// Panel is the CRUD façade over the store behind the variables sidebar.
// Destructive operations take a confirm predicate standing in for the UI's
// confirmation dialog, so the controller stays headless and testable.
type Panel struct {
	store *Store
	clip  ClipboardPort
}

// NewPanel creates a panel controller. clip may be nil if the host never
// copies (the CLI does not).
func NewPanel(store *Store, clip ClipboardPort) *Panel {
	return &Panel{store: store, clip: clip}
}

// Add creates a new variable. Unlike Put it refuses to overwrite: an
// existing name yields ErrNameConflict so the UI can distinguish add from
// edit. A pasted "{{name}}" wrapper around the name is tolerated and
// stripped before validation.
func (p *Panel) Add(name, value string) error {
	name = NormalizeName(name)
	if !ValidName(name) {
		return &InvalidNameError{Name: name}
	}
	if _, exists := p.store.Get(name); exists {
		return ErrNameConflict
	}
	return p.store.Put(name, value)
}

// Edit updates the value of an existing variable. Unknown names yield
// ErrNotFound.
func (p *Panel) Edit(name, newValue string) error {
	if _, exists := p.store.Get(name); !exists {
		return ErrNotFound
	}
	return p.store.Put(name, newValue)
}

// Delete removes a variable after the confirm predicate approves. It
// reports whether the variable was removed.
func (p *Panel) Delete(name string, confirm func() bool) (bool, error) {
	if _, exists := p.store.Get(name); !exists {
		return false, ErrNotFound
	}
	if confirm != nil && !confirm() {
		return false, nil
	}
	return p.store.Remove(name)
}

// Clear removes every variable after confirmation and reports how many were
// removed.
func (p *Panel) Clear(confirm func() bool) (int, error) {
	n := p.store.Len()
	if n == 0 {
		return 0, nil
	}
	if confirm != nil && !confirm() {
		return 0, nil
	}
	if err := p.store.ReplaceAll(nil); err != nil {
		return 0, err
	}
	return n, nil
}

// CopyValue writes the variable's raw value to the clipboard.
func (p *Panel) CopyValue(name string) error {
	v, ok := p.store.Get(name)
	if !ok {
		return ErrNotFound
	}
	return p.clip.WriteText(v.Value)
}

// CopyPlaceholder writes the literal {{name}} token to the clipboard, ready
// to paste into a query.
func (p *Panel) CopyPlaceholder(name string) error {
	if _, ok := p.store.Get(name); !ok {
		return ErrNotFound
	}
	return p.clip.WriteText("{{" + name + "}}")
}

// NormalizeName trims whitespace and a surrounding {{ }} wrapper, so users
// can paste a placeholder straight into the name field.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "{{") && strings.HasSuffix(name, "}}") && len(name) >= 4 {
		name = strings.TrimSpace(name[2 : len(name)-2])
	}
	return name
}
