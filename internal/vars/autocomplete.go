package vars

import "strings"

// KeyResult tells the editor whether the autocomplete consumed a keystroke.
type KeyResult int

const (
	Passthrough KeyResult = iota
	Consumed
)

// Keys the controller understands. The editor maps its own key events onto
// these before calling OnKey.
const (
	KeyArrowDown = "down"
	KeyArrowUp   = "up"
	KeyTab       = "tab"
	KeyEnter     = "enter"
	KeyEscape    = "esc"
)

// View is what the popup renders: the candidates for the current prefix and
// the selected index. Selected is -1 when Candidates is empty; the popup
// stays open and shows a non-selectable "no variables" row so the feature
// is discoverable.
type View struct {
	Prefix     string
	Candidates []string
	Selected   int
}

// Edit is a committed completion: the full replacement text and the new
// caret position (just past the closing braces).
type Edit struct {
	Text  string
	Caret int
}

// Autocomplete drives the editor's suggestion popup. It watches text/caret
// updates for the {{ trigger, filters the store's names by case-insensitive
// prefix, and turns Tab/Enter into an Edit applied through the injected
// apply callback. It holds no GUI dependency; render and apply are ports
// provided by the editor.
type Autocomplete struct {
	store  *Store
	render func(*View)
	apply  func(Edit)

	active       bool
	text         string
	caret        int
	triggerStart int // offset of the first '{' of the {{ trigger
	candidates   []string
	selected     int
	lastCommit   *Edit

	sub Handle
}

// NewAutocomplete wires a controller to the store. render is called with the
// current view while the popup is open and with nil when it closes; apply
// receives committed edits. Either may be nil. Call Close when the editor
// goes away.
func NewAutocomplete(store *Store, render func(*View), apply func(Edit)) *Autocomplete {
	a := &Autocomplete{store: store, render: render, apply: apply, selected: -1}
	a.sub = store.Subscribe(func(Change) {
		if a.active {
			a.refilter()
			a.emit()
		}
	})
	return a
}

// Close unsubscribes from the store and dismisses the popup.
func (a *Autocomplete) Close() {
	a.store.Unsubscribe(a.sub)
	a.dismiss()
}

// Active reports whether the popup is open.
func (a *Autocomplete) Active() bool {
	return a.active
}

// CurrentView returns the view while active, nil otherwise.
func (a *Autocomplete) CurrentView() *View {
	if !a.active {
		return nil
	}
	return &View{Prefix: a.prefix(), Candidates: a.candidates, Selected: a.selected}
}

// OnTextChanged feeds the controller the current editor text and caret
// (byte offset). It returns the view to render, or nil when the popup is
// closed. Trigger: the caret sits immediately after {{. While active, the
// popup follows the text between the braces and the caret; the popup closes
// silently when the caret leaves that span or the span stops being a valid
// name prefix.
func (a *Autocomplete) OnTextChanged(text string, caret int) *View {
	a.text = text
	a.caret = caret

	if !a.active {
		if caret >= 2 && caret <= len(text) && text[caret-2] == '{' && text[caret-1] == '{' &&
			(caret < 3 || text[caret-3] != '{') {
			a.activate(caret - 2)
		}
		return a.emit()
	}

	// Caret left the {{prefix span (including deleting the braces themselves).
	if caret < a.triggerStart+2 || a.triggerStart+2 > len(text) ||
		text[a.triggerStart:a.triggerStart+2] != "{{" {
		a.dismiss()
		return a.emit()
	}
	prefix := text[a.triggerStart+2 : caret]
	if !validPrefix(prefix) {
		a.dismiss()
		return a.emit()
	}
	a.refilter()
	return a.emit()
}

// OnKey handles a key while the popup is open. Keys are Passthrough when
// the popup is closed or the key is not one of the controller's.
func (a *Autocomplete) OnKey(key string) KeyResult {
	if !a.active {
		return Passthrough
	}
	switch key {
	case KeyArrowDown:
		a.move(1)
		a.emit()
		return Consumed
	case KeyArrowUp:
		a.move(-1)
		a.emit()
		return Consumed
	case KeyTab, KeyEnter:
		a.commit()
		return Consumed
	case KeyEscape:
		a.dismiss()
		a.emit()
		return Consumed
	default:
		return Passthrough
	}
}

func (a *Autocomplete) activate(triggerStart int) {
	a.active = true
	a.triggerStart = triggerStart
	a.refilter()
}

func (a *Autocomplete) dismiss() {
	a.active = false
	a.candidates = nil
	a.selected = -1
}

func (a *Autocomplete) prefix() string {
	if a.triggerStart+2 > a.caret || a.caret > len(a.text) {
		return ""
	}
	return a.text[a.triggerStart+2 : a.caret]
}

// refilter recomputes candidates: store names, sorted ascending, filtered by
// case-insensitive prefix. Selection resets to the top.
func (a *Autocomplete) refilter() {
	prefix := strings.ToLower(a.prefix())
	// Fresh slice: previously returned Views keep the old candidate list.
	a.candidates = nil
	for _, name := range a.store.Names() {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			a.candidates = append(a.candidates, name)
		}
	}
	if len(a.candidates) == 0 {
		a.selected = -1
	} else {
		a.selected = 0
	}
}

// move shifts the selection with wrap-around.
func (a *Autocomplete) move(delta int) {
	n := len(a.candidates)
	if n == 0 {
		return
	}
	a.selected = (a.selected + delta + n) % n
}

// commit replaces {{prefix with {{name}} and moves the caret past the
// closing braces. With nothing selectable, commit just closes the popup.
func (a *Autocomplete) commit() {
	if a.selected < 0 || a.selected >= len(a.candidates) {
		a.dismiss()
		a.emit()
		return
	}
	name := a.candidates[a.selected]
	text := a.text[:a.triggerStart] + "{{" + name + "}}" + a.text[a.caret:]
	caret := a.triggerStart + len("{{") + len(name) + len("}}")

	a.dismiss()
	a.text = text
	a.caret = caret
	a.lastCommit = &Edit{Text: text, Caret: caret}
	a.emit()
	if a.apply != nil {
		a.apply(Edit{Text: text, Caret: caret})
	}
}

// LastCommit returns and clears the most recent committed edit. Editors
// that cannot take a stable apply callback (value-typed models) poll this
// right after a Consumed Tab/Enter.
func (a *Autocomplete) LastCommit() (text string, caret int, ok bool) {
	if a.lastCommit == nil {
		return "", 0, false
	}
	e := *a.lastCommit
	a.lastCommit = nil
	return e.Text, e.Caret, true
}

// emit pushes the current view to the render port and returns it.
func (a *Autocomplete) emit() *View {
	v := a.CurrentView()
	if a.render != nil {
		a.render(v)
	}
	return v
}

// validPrefix accepts the empty prefix and any valid-name prefix.
func validPrefix(p string) bool {
	if p == "" {
		return true
	}
	return ValidName(p)
}
