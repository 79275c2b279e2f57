// Package vars implements the query variable subsystem for PgWarp.
//
// A variable is a named piece of text the user defines once and references
// inside SQL via {{name}} placeholders. This package owns the in-memory
// store, the JSON persistence under the PgWarp config directory, the
// placeholder scanner/expander, the pre-execution validator, and the
// controllers behind the editor autocomplete popup and the variables panel.
package vars

import (
	"fmt"
	"regexp"
	"time"
)

// Variable is a stored name/value pair. Values are raw text: any printable
// characters including quotes and newlines, substituted byte-for-byte.
type Variable struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// nameRe is the identifier shape shared by the store, the scanner and the
// autocomplete trigger. Names appear literally in query text, so anything
// looser would leak into the placeholder grammar.
var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is usable as a variable name.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// InvalidNameError is returned by Store.Put and Panel.Add when the name
// fails the identifier shape.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid variable name %q: must match [A-Za-z_][A-Za-z0-9_]*", e.Name)
}
