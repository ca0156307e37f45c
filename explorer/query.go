package explorer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Minimum query lengths, in runes. Suggestions fire earlier than a manual
// submit is allowed to.
const (
	MinSuggestLen = 2
	MinSubmitLen  = 3
)

// NormalizeQuery canonicalizes raw search input: NFKC fold, trim, and
// collapse of internal whitespace runs.
func NormalizeQuery(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// Suggestable reports whether a normalized query is long enough to trigger
// an incremental lookup.
func Suggestable(q string) bool {
	return utf8.RuneCountInString(q) >= MinSuggestLen
}

// Submittable reports whether a normalized query is long enough for a manual
// submit. Programmatic submissions (suggestion click, map marker) bypass it.
func Submittable(q string) bool {
	return utf8.RuneCountInString(q) >= MinSubmitLen
}
