package vars

import "strings"

// Resolver resolves a placeholder name to a raw value. *Store implements it.
type Resolver interface {
	Resolve(name string) (value string, ok bool)
}

// ExpansionResult is the outcome of Prepare. Exactly one of the two shapes
// holds: OK() with Text populated, or a MissingReferences result carrying
// the missing names (first-occurrence order, deduplicated) and their
// occurrences for editor highlighting.
type ExpansionResult struct {
	Text        string
	Missing     []string
	Occurrences []Occurrence
}

// OK reports whether every placeholder resolved.
func (r ExpansionResult) OK() bool {
	return len(r.Missing) == 0
}

// Prepare validates and expands query text against the resolver in a single
// pass. It is the pre-execution gate: the execution pipeline calls it right
// before handing SQL to the driver and presents Missing to the user on
// failure. Substitution is byte-for-byte textual, no quoting and no
// escaping, and values are never rescanned: a value containing {{...}} stays
// literal in the output.
func Prepare(text string, r Resolver) ExpansionResult {
	occs := Scan(text)

	var missing []string
	var missingOccs []Occurrence
	seen := make(map[string]bool)
	for _, occ := range occs {
		if _, ok := r.Resolve(occ.Name); ok {
			continue
		}
		if !seen[occ.Name] {
			seen[occ.Name] = true
			missing = append(missing, occ.Name)
		}
		missingOccs = append(missingOccs, occ)
	}
	if len(missing) > 0 {
		return ExpansionResult{Missing: missing, Occurrences: missingOccs}
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, occ := range occs {
		b.WriteString(text[last:occ.Start])
		value, _ := r.Resolve(occ.Name)
		b.WriteString(value)
		last = occ.End
	}
	b.WriteString(text[last:])
	return ExpansionResult{Text: b.String()}
}

// Validate reports the missing placeholder names in text without building
// the expanded output. Empty means the text is ready to expand.
func Validate(text string, r Resolver) []string {
	res := Prepare(text, r)
	return res.Missing
}
