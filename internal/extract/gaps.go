// Package extract locates canonical gap markers in normalized text and
// derives each gap's local context and required grammatical case.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"gapfill/internal/grammar"
	"gapfill/internal/model"
)

var markerPattern = regexp.MustCompile(`\[GAP:(\d+)\]`)

// contextWindow is how many runes of surrounding text go into the
// context snippet on each side of a marker.
const contextWindow = 30

// precedingTokens is how far back case inference looks. Two tokens lets
// a preposition govern the gap through one intervening noun
// ("w kolorze ___" is locative).
const precedingTokens = 2

// Extract locates every [GAP:n] marker in normalized text and returns
// one GapContext per marker, in order of appearance. The required case
// is inferred once here, from the tokens preceding the marker, and is
// never recomputed downstream.
//
// A non-positive or duplicate explicit index fails with
// *model.MalformedGapError before any external call is made.
func Extract(normalized string) ([]model.GapContext, error) {
	locs := markerPattern.FindAllStringSubmatchIndex(normalized, -1)
	if len(locs) == 0 {
		return []model.GapContext{}, nil
	}

	seen := make(map[int]bool, len(locs))
	gaps := make([]model.GapContext, 0, len(locs))

	for _, loc := range locs {
		idx, err := strconv.Atoi(normalized[loc[2]:loc[3]])
		if err != nil || idx <= 0 {
			return nil, &model.MalformedGapError{Index: idx, Reason: "index must be a positive integer"}
		}
		if seen[idx] {
			return nil, &model.MalformedGapError{Index: idx, Reason: "duplicate gap index"}
		}
		seen[idx] = true

		start, end := loc[0], loc[1]
		preceding := tokensBefore(normalized[:start], precedingTokens)
		following := tokenAfter(normalized[end:])

		gap := model.GapContext{
			Index:          idx,
			FollowingToken: following,
			RequiredCase:   grammar.InferCase(preceding),
			Context:        snippet(normalized, start, end),
			Position:       start,
		}
		if len(preceding) > 0 {
			gap.PrecedingToken = preceding[0]
		}
		gaps = append(gaps, gap)
	}

	return gaps, nil
}

// tokensBefore returns up to n word tokens immediately preceding the
// marker, nearest first, skipping other markers and punctuation.
func tokensBefore(before string, n int) []string {
	fields := strings.Fields(stripMarkers(before))
	var out []string
	for i := len(fields) - 1; i >= 0 && len(out) < n; i-- {
		if tok := trimPunct(fields[i]); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// tokenAfter returns the first word token following the marker, skipping
// other markers and punctuation.
func tokenAfter(after string) string {
	for _, f := range strings.Fields(stripMarkers(after)) {
		if tok := trimPunct(f); tok != "" {
			return tok
		}
	}
	return ""
}

func stripMarkers(s string) string {
	return markerPattern.ReplaceAllString(s, " ")
}

func trimPunct(s string) string {
	return strings.Trim(s, ".,!?;:()\"'")
}

// snippet builds a context excerpt around the marker with the marker
// itself replaced by "___". Neighboring markers bound the excerpt before
// the window is applied, so one gap's context never bleeds into
// another's while literal brackets in the text ("rocznik [2018]")
// survive intact.
func snippet(text string, start, end int) string {
	leftText := text[:start]
	if locs := markerPattern.FindAllStringIndex(leftText, -1); len(locs) > 0 {
		leftText = leftText[locs[len(locs)-1][1]:]
	}
	before := []rune(leftText)
	from := 0
	if len(before) > contextWindow {
		from = len(before) - contextWindow
	}

	rightText := text[end:]
	if loc := markerPattern.FindStringIndex(rightText); loc != nil {
		rightText = rightText[:loc[0]]
	}
	after := []rune(rightText)
	to := len(after)
	if to > contextWindow {
		to = contextWindow
	}

	return strings.TrimSpace(string(before[from:]) + "___" + string(after[:to]))
}
