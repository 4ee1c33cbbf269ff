package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

const (
	// MaxNameLength bounds participant display names.
	MaxNameLength = 64
	// MaxEchoLength bounds user text quoted back in replies.
	MaxEchoLength = 200
)

// SanitizeString trims input, drops null bytes and cuts it to maxRunes.
func SanitizeString(input string, maxRunes int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}

	return input
}

// SanitizeHTML removes all HTML tags and escapes what is left, so the
// result is safe inside an HTML parse-mode chat message.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// DisplayName makes a participant name safe to show: bounded and escaped.
func DisplayName(name string) string {
	return SanitizeHTML(SanitizeString(name, MaxNameLength))
}
