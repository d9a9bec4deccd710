// Package pattern parses and renders naming patterns: filename
// templates with {placeholder} fields, such as "{date}_{company}.pdf".
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches the shortest {...} span at each position.
// Nested braces make the capture contain "{", which Parse discards, so
// malformed spans like {meta{data}} never surface as placeholders.
var placeholderRe = regexp.MustCompile(`\{(.*?)\}`)

// MissingValueError reports a placeholder that had no value supplied
// during rendering.
type MissingValueError struct {
	Name string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no value for placeholder %q", e.Name)
}

// Parse returns the placeholder names in p, in order of appearance and
// including duplicates. A string without well-formed placeholders
// yields nil.
func Parse(p string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(p, -1) {
		name := m[1]
		if strings.Contains(name, "{") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Render substitutes every placeholder in p with its entry in values.
// Literal text, including malformed brace spans, passes through
// untouched. Rendering fails with a *MissingValueError if any
// placeholder has no entry; partial output is never returned.
func Render(p string, values map[string]string) (string, error) {
	var b strings.Builder
	last := 0
	for _, span := range placeholderRe.FindAllStringSubmatchIndex(p, -1) {
		name := p[span[2]:span[3]]
		if strings.Contains(name, "{") {
			continue
		}
		value, ok := values[name]
		if !ok {
			return "", &MissingValueError{Name: name}
		}
		b.WriteString(p[last:span[0]])
		b.WriteString(value)
		last = span[1]
	}
	b.WriteString(p[last:])
	return b.String(), nil
}

// Token returns the visible stand-in used when a placeholder's value
// could not be determined, e.g. Token("invoice_id") == "<INVOICE_ID>".
func Token(name string) string {
	return "<" + strings.ToUpper(name) + ">"
}
