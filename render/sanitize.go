// Package render holds the pure text transforms of the send pipeline:
// entity escaping and bold/italic/link markup. Same input, same output,
// no hidden state.
package render

import "strings"

// Sanitize escapes the four unsafe markup characters to their entity
// equivalents, in this fixed order. It applies to raw input only and must
// never be re-applied to already-rendered content.
func Sanitize(input string) string {
	out := strings.ReplaceAll(input, "<", "&lt;")
	out = strings.ReplaceAll(out, ">", "&gt;")
	out = strings.ReplaceAll(out, `"`, "&quot;")
	out = strings.ReplaceAll(out, "'", "&#x27;")
	return out
}
