// Package security holds input-hygiene helpers for text the bot echoes back
// into messages.
package security

import (
	"html"
	"strings"
)

// Sanitize trims whitespace and escapes HTML-significant characters so
// user-entered text is safe to interpolate into outbound messages.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
