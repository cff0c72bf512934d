package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// SanitizeString trims input and cuts it to maxLen runes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return string([]rune(trimmed)[:maxLen])
	}
	return trimmed
}

// QueryString returns the trimmed, length capped query parameter.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}
