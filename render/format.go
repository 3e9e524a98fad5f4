package render

import (
	"regexp"

	"chat-sim/domain"
)

var (
	urlPattern    = regexp.MustCompile(`(https?://[^\s]+)`)
	strongPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emPattern     = regexp.MustCompile(`\*(.*?)\*`)
)

// Format applies the session formatting toggles and converts markers to
// markup. The order is fixed and observable: bold wrap, then italic wrap,
// then URL linkification, then strong conversion, then emphasis conversion.
// With both toggles set the nested markers produce mis-nested tags; that is
// the historical behavior and it is pinned by tests, do not "fix" it here.
func Format(content string, formatting domain.Formatting) string {
	formatted := content
	if formatting.Bold {
		formatted = "**" + formatted + "**"
	}
	if formatting.Italic {
		formatted = "*" + formatted + "*"
	}

	formatted = urlPattern.ReplaceAllString(formatted, `<a href="$1" target="_blank">$1</a>`)
	formatted = strongPattern.ReplaceAllString(formatted, "<strong>$1</strong>")
	formatted = emPattern.ReplaceAllString(formatted, "<em>$1</em>")

	return formatted
}
