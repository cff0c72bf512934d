// Package slug derives URL slugs from display names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, strips accents and joins alphanumeric runs with dashes.
func Make(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFD.String(strings.TrimSpace(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
