package editor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ElementID returns the element id for a selector ("#editor" -> "editor").
// A bare id is returned unchanged.
func ElementID(selector string) string {
	return strings.TrimPrefix(strings.TrimSpace(selector), "#")
}

// Selector returns the id selector for an element id
func Selector(id string) string {
	return "#" + ElementID(id)
}

// IsIDSelector checks if s is a single "#id" selector
func IsIDSelector(s string) bool {
	if len(s) < 2 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// JSString quotes s as a single-quoted JavaScript string literal that is safe
// to place inside an inline script
func JSString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '<', '>', '&', '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// JSONValue encodes v as a JavaScript literal. Map keys are sorted and HTML
// characters escaped, so the output is deterministic and script safe.
// Values that cannot be encoded produce "null".
func JSONValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
