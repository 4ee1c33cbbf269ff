// Package segment splits long replies into chunks that fit a transport message limit.
package segment

import "unicode"

// DefaultLimit leaves headroom under chat message limits for markers and mentions.
const DefaultLimit = 1800

// ContinuationMarker prefixes every chunk after the first (HTML parse mode).
const ContinuationMarker = "📄 <i>(cont.)</i>\n"

// Break points in priority order. keep is how many delimiter runes stay with the emitted chunk.
var breakpoints = []struct {
	delim []rune
	keep  int
}{
	{delim: []rune("\n\n")},
	{delim: []rune("\n")},
	{delim: []rune(". "), keep: 1},
	{delim: []rune(" ")},
}

// Split breaks text into chunks of at most limit runes, preferring paragraph,
// line, sentence and word boundaries, and force-cutting when none exists.
// Leading whitespace is trimmed from every chunk after the first.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := cutPoint(runes, limit)
		parts = append(parts, string(runes[:cut]))
		runes = trimLeft(runes[cut:])
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// WithContinuation returns a copy of parts with marker prepended to every part but the first.
func WithContinuation(parts []string, marker string) []string {
	out := make([]string, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = marker + part
		}
		out[i] = part
	}
	return out
}

// maxEntityLen covers the longest character reference the escaper emits, e.g. "&#x1F600;".
const maxEntityLen = 10

// cutPoint is always in (0, limit]. It backs off from a tag or character
// reference left open at the cut unless that markup starts the chunk.
func cutPoint(runes []rune, limit int) int {
	cut := limit
	window := runes[:limit]
	for _, bp := range breakpoints {
		if idx := lastIndex(window, bp.delim); idx > 0 {
			cut = idx + bp.keep
			break
		}
	}
	if open := openMarkup(runes[:cut]); open > 0 {
		return open
	}
	return cut
}

// openMarkup returns where an unterminated tag or entity at the end of chunk
// starts, or -1.
func openMarkup(chunk []rune) int {
	open := -1
	if lt, gt := lastRune(chunk, '<'), lastRune(chunk, '>'); lt > gt {
		open = lt
	}
	if amp := lastRune(chunk, '&'); amp >= 0 && amp > lastRune(chunk, ';') && len(chunk)-amp < maxEntityLen {
		if open < 0 || amp < open {
			open = amp
		}
	}
	return open
}

func lastRune(s []rune, r rune) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == r {
			return i
		}
	}
	return -1
}

func lastIndex(s, sub []rune) int {
	for i := len(s) - len(sub); i >= 0; i-- {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func trimLeft(runes []rune) []rune {
	for len(runes) > 0 && unicode.IsSpace(runes[0]) {
		runes = runes[1:]
	}
	return runes
}
