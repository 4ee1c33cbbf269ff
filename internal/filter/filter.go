// Package filter rejects degenerate answers before they reach the judge.
package filter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason names the gate that rejected an answer.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTooShort         Reason = "too_short"
	ReasonDenylisted       Reason = "denylisted"
	ReasonDenylistedToken  Reason = "denylisted_token"
	ReasonLowDiversity     Reason = "low_diversity"
	ReasonNumeric          Reason = "numeric"
	ReasonMonotonous       Reason = "monotonous"
	ReasonKeyboardSequence Reason = "keyboard_sequence"
)

// Anything that is not a letter, mark, digit, underscore or whitespace.
var punctuation = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}]`)

type runeSet map[rune]struct{}

func newRuneSet(s string) runeSet {
	set := make(runeSet, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func (s runeSet) has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Filter is a pure admissibility predicate; it is safe for concurrent use.
type Filter struct {
	minLength   int
	minDistinct int
	vowels      runeSet
	consonants  runeSet
	denylist    map[string]struct{}
	sequences   []string
}

func New(cfg Config) *Filter {
	f := &Filter{
		minLength:   cfg.MinLength,
		minDistinct: cfg.MinDistinct,
		vowels:      newRuneSet(strings.ToLower(cfg.Vowels)),
		consonants:  newRuneSet(strings.ToLower(cfg.Consonants)),
		denylist:    make(map[string]struct{}, len(cfg.Denylist)),
	}
	for _, entry := range cfg.Denylist {
		f.denylist[Normalize(entry)] = struct{}{}
	}
	for _, seq := range cfg.KeyboardSequences {
		seq = stripSpaces(Normalize(seq))
		if seq != "" {
			f.sequences = append(f.sequences, seq)
		}
	}
	return f
}

// Normalize lowercases, trims and strips punctuation from raw.
func Normalize(raw string) string {
	return punctuation.ReplaceAllString(strings.TrimSpace(strings.ToLower(raw)), "")
}

// IsAdmissible reports whether raw is worth sending to judgment.
func (f *Filter) IsAdmissible(raw string) bool {
	return f.Check(raw) == ReasonNone
}

// Check runs every gate in order and returns the first one that fails.
func (f *Filter) Check(raw string) Reason {
	text := Normalize(raw)

	if utf8.RuneCountInString(text) < f.minLength {
		return ReasonTooShort
	}

	if f.denied(text) {
		return ReasonDenylisted
	}

	for _, token := range strings.Fields(text) {
		if f.denied(token) {
			return ReasonDenylistedToken
		}
	}

	compact := stripSpaces(text)

	if countDistinct(compact) < f.minDistinct {
		return ReasonLowDiversity
	}

	if allRunes(compact, unicode.IsDigit) {
		return ReasonNumeric
	}

	if allRunes(compact, f.vowels.has) || allRunes(compact, f.consonants.has) {
		return ReasonMonotonous
	}

	for _, seq := range f.sequences {
		if strings.Contains(compact, seq) {
			return ReasonKeyboardSequence
		}
	}

	return ReasonNone
}

func (f *Filter) denied(s string) bool {
	_, ok := f.denylist[s]
	return ok
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func countDistinct(s string) int {
	seen := make(runeSet)
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// allRunes is false for the empty string.
func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
