package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeDisplayName cleans a user-supplied Telegram name before it is
// interpolated into an HTML-parse-mode message. Strips tags, null bytes and
// surrounding whitespace, and caps the length.
func SanitizeDisplayName(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)

	if len(input) > 64 {
		input = input[:64]
	}
	return input
}

// SanitizeString removes potentially dangerous characters from free text.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 1000 {
		input = input[:1000]
	}
	return input
}
