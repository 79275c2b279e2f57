package vars

// Occurrence is one {{name}} placeholder at a half-open byte range over the
// source text: text[Start:End] == "{{" + Name + "}}".
type Occurrence struct {
	Name  string
	Start int
	End   int
}

// maxPlaceholderSpan bounds how far the scanner looks for the closing
// braces. A stray {{ with no }} within this window is not a placeholder.
const maxPlaceholderSpan = 256

// Scan yields every non-overlapping placeholder in text, ordered by Start.
// The grammar is strict: {{ immediately followed by [A-Za-z_][A-Za-z0-9_]*
// immediately followed by }}. Whitespace inside the braces disqualifies the
// match. The scanner is context-free with respect to SQL: placeholders
// inside string literals are matched on purpose, so users can write
// '{{start_date}}' and get a quoted literal after expansion.
func Scan(text string) []Occurrence {
	var occs []Occurrence
	for i := 0; i+1 < len(text); {
		if text[i] != '{' || text[i+1] != '{' {
			i++
			continue
		}
		j := i + 2
		if j >= len(text) || !isNameStart(text[j]) {
			i++
			continue
		}
		j++
		for j < len(text) && j-i < maxPlaceholderSpan && isNameChar(text[j]) {
			j++
		}
		if j+1 < len(text) && text[j] == '}' && text[j+1] == '}' {
			occs = append(occs, Occurrence{Name: text[i+2 : j], Start: i, End: j + 2})
			i = j + 2
			continue
		}
		i++
	}
	return occs
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
