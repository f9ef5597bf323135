// Package textnorm canonicalizes raw request text before gap extraction:
// whitespace and punctuation cleanup plus unification of gap notations
// into the [GAP:n] marker form.
package textnorm

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	wsPattern         = regexp.MustCompile(`\s+`)
	punctSpacePattern = regexp.MustCompile(`\s+([.,!?;:])`)
	openParenPattern  = regexp.MustCompile(`\s*\(\s*`)
	closeParenPattern = regexp.MustCompile(`\s*\)`)
	quotePattern      = regexp.MustCompile("[‘’′`]")
	dquotePattern     = regexp.MustCompile(`[“”„]`)
	markerPattern     = regexp.MustCompile(`\[GAP:(\d+)\]`)
	underscorePattern = regexp.MustCompile(`_{3,}`)
)

// Normalize canonicalizes raw text. It collapses whitespace runs, fixes
// spacing around punctuation, unifies quote characters, and rewrites
// underscore-run placeholders (minimum length 3) into sequential [GAP:n]
// markers. Explicit [GAP:n] indices are never renumbered; auto-numbering
// fills the unused positive integers in ascending order starting at 1.
//
// Normalize is idempotent and accepts any text, including text with no
// gaps at all.
func Normalize(raw string) string {
	text := wsPattern.ReplaceAllString(raw, " ")
	text = strings.TrimSpace(text)

	text = punctSpacePattern.ReplaceAllString(text, "$1")
	text = openParenPattern.ReplaceAllString(text, " (")
	text = closeParenPattern.ReplaceAllString(text, ")")

	text = quotePattern.ReplaceAllString(text, "'")
	text = dquotePattern.ReplaceAllString(text, `"`)

	text = rewriteUnderscores(text)

	text = wsPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// rewriteUnderscores converts each run of 3+ underscores into the next
// unused [GAP:n] marker, left to right.
func rewriteUnderscores(text string) string {
	if !underscorePattern.MatchString(text) {
		return text
	}

	used := make(map[int]bool)
	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			used[idx] = true
		}
	}

	next := 1
	return underscorePattern.ReplaceAllStringFunc(text, func(string) string {
		for used[next] {
			next++
		}
		used[next] = true
		marker := "[GAP:" + strconv.Itoa(next) + "]"
		next++
		return marker
	})
}

// MarkerIndices returns the explicit gap indices present in text, in
// order of appearance. Duplicates are preserved so callers can detect
// them.
func MarkerIndices(text string) []int {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// SubstituteMarkers replaces every [GAP:n] marker that has a non-empty
// filler, leaving unresolved markers intact.
func SubstituteMarkers(text string, fillers map[int]string) string {
	return markerPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := markerPattern.FindStringSubmatch(m)
		idx, err := strconv.Atoi(sub[1])
		if err != nil {
			return m
		}
		if filler, ok := fillers[idx]; ok && filler != "" {
			return filler
		}
		return m
	})
}

// HasMarkers reports whether text still contains gap markers, canonical
// or underscore-run form.
func HasMarkers(text string) bool {
	return markerPattern.MatchString(text) || underscorePattern.MatchString(text)
}

// SortedUnique returns the distinct values of indices, ascending.
func SortedUnique(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	var out []int
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
