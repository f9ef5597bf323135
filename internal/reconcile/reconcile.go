// Package reconcile turns raw generation output (well-formed JSON,
// double-encoded JSON, JSON truncated by the token limit, or free text)
// into a ReconciledText mapping gap indices to their chosen fillers.
//
// Parsing is an ordered chain of strategies tried in sequence, each
// returning success or failure; the request fails only when the whole
// chain is exhausted.
package reconcile

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gapfill/internal/model"
	"gapfill/internal/textnorm"
)

// payload is the collaborator's envelope. Both documented wire shapes
// deserialize into it: `description` vs `enhanced_description`, and a
// top-level alternatives map vs inline per-gap lists.
type payload struct {
	Description         string              `json:"description"`
	EnhancedDescription string              `json:"enhanced_description"`
	FilledText          string              `json:"filled_text"`
	Gaps                []payloadGap        `json:"gaps"`
	Alternatives        map[string][]string `json:"alternatives"`
}

type payloadGap struct {
	Index        int      `json:"index"`
	Choice       string   `json:"choice"`
	Case         string   `json:"case"`
	Context      string   `json:"context"`
	Alternatives []string `json:"alternatives"`
}

func (p *payload) empty() bool {
	return len(p.Gaps) == 0 && p.Description == "" && p.EnhancedDescription == "" && p.FilledText == ""
}

// Reconcile maps the raw generation output onto the extracted gaps and
// reconstructs the full text from original (the normalized input with
// its markers intact). Gaps the output does not cover are recorded as
// unresolved, not failed; the guardrail validator decides whether that
// is fatal.
func Reconcile(raw string, gaps []model.GapContext, original string) (*model.ReconciledText, error) {
	p, err := parse(raw, gaps)
	if err != nil {
		return nil, err
	}

	fillers := make(map[int]string, len(p.Gaps))
	alternatives := make(map[int][]string, len(gaps))

	for _, g := range p.Gaps {
		if g.Index <= 0 || strings.TrimSpace(g.Choice) == "" {
			continue
		}
		fillers[g.Index] = strings.TrimSpace(g.Choice)
		if len(g.Alternatives) > 0 {
			alternatives[g.Index] = g.Alternatives
		}
	}

	// A top-level alternatives map overrides inline lists: it is the
	// canonical spelling of the same data.
	for key, alts := range p.Alternatives {
		if idx, err := strconv.Atoi(key); err == nil && idx > 0 {
			alternatives[idx] = alts
		}
	}

	var unresolved []int
	for _, g := range gaps {
		if _, ok := fillers[g.Index]; !ok {
			unresolved = append(unresolved, g.Index)
		}
		if _, ok := alternatives[g.Index]; !ok {
			alternatives[g.Index] = []string{}
		}
	}
	sort.Ints(unresolved)

	return &model.ReconciledText{
		Text:         textnorm.SubstituteMarkers(original, fillers),
		Original:     original,
		Fillers:      fillers,
		Alternatives: alternatives,
		Unresolved:   unresolved,
	}, nil
}

// parse runs the strategy chain: direct JSON, one layer of un-escaping,
// truncated-JSON repair, then free-text scanning.
func parse(raw string, gaps []model.GapContext) (*payload, error) {
	strategies := []struct {
		name string
		fn   func(string, []model.GapContext) (*payload, bool)
	}{
		{"json", parseJSON},
		{"unescape", parseUnescaped},
		{"repair", parseTruncated},
		{"freetext", parseFreeText},
	}

	var tried []string
	for _, s := range strategies {
		tried = append(tried, s.name)
		if p, ok := s.fn(raw, gaps); ok {
			return p, nil
		}
	}
	return nil, &model.UnparsableResponseError{Strategies: tried, Raw: raw}
}

// parseJSON attempts direct structured parsing, falling back to the
// outermost {...} substring when the output wraps JSON in prose.
func parseJSON(raw string, _ []model.GapContext) (*payload, bool) {
	text := strings.TrimSpace(raw)

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err == nil && !p.empty() {
		return &p, true
	}

	open := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if open >= 0 && last > open {
		p = payload{}
		if err := json.Unmarshal([]byte(text[open:last+1]), &p); err == nil && !p.empty() {
			return &p, true
		}
	}
	return nil, false
}

// parseUnescaped removes one layer of escaping and retries. The
// collaborator sometimes double-encodes its own JSON output.
func parseUnescaped(raw string, gaps []model.GapContext) (*payload, bool) {
	text := strings.TrimSpace(raw)

	// The whole output may be a JSON string holding JSON.
	var inner string
	if err := json.Unmarshal([]byte(text), &inner); err == nil {
		if p, ok := parseJSON(inner, gaps); ok {
			return p, true
		}
	}

	unescaped := strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\\`, `\`).Replace(text)
	if unescaped != text {
		return parseJSON(unescaped, gaps)
	}
	return nil, false
}

// Complete {"index": n, "choice": "w"} pairs inside otherwise broken JSON.
var truncatedPairPattern = regexp.MustCompile(`"index"\s*:\s*(\d+)\s*,\s*"choice"\s*:\s*"([^"\\]*)"`)

// parseTruncated salvages gaps from JSON cut off mid-stream by the token
// limit. Every complete index/choice pair is kept; the broken tail is
// dropped and its gaps stay unresolved.
func parseTruncated(raw string, _ []model.GapContext) (*payload, bool) {
	var p payload
	for _, m := range truncatedPairPattern.FindAllStringSubmatch(raw, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx <= 0 || strings.TrimSpace(m[2]) == "" {
			continue
		}
		p.Gaps = append(p.Gaps, payloadGap{Index: idx, Choice: m[2]})
	}
	return &p, len(p.Gaps) > 0
}

var (
	// "GAP:1: biały", "[GAP:2] - czarny", "3. benzynowy", "1: nowy"
	freeLinePattern = regexp.MustCompile(`(?m)^\s*\[?(?:GAP[:\s]*)?(\d+)\]?\s*[.:\-–)]+\s*(.+)$`)
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}-]+`)
)

// parseFreeText scavenges fillers from unstructured output by gap-index
// proximity: lines that pair a number with a value. As a last resort a
// bare one-line answer fills a single gap.
func parseFreeText(raw string, gaps []model.GapContext) (*payload, bool) {
	var p payload

	for _, m := range freeLinePattern.FindAllStringSubmatch(raw, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx <= 0 {
			continue
		}
		word := wordPattern.FindString(m[2])
		if word == "" {
			continue
		}
		p.Gaps = append(p.Gaps, payloadGap{Index: idx, Choice: word})
	}
	if len(p.Gaps) > 0 {
		return &p, true
	}

	// Single gap, single short answer.
	if len(gaps) == 1 {
		line := strings.TrimSpace(raw)
		if line != "" && !strings.ContainsAny(line, "\n") && len(strings.Fields(line)) <= 3 {
			word := wordPattern.FindString(line)
			if word != "" {
				p.Gaps = append(p.Gaps, payloadGap{Index: gaps[0].Index, Choice: word})
				return &p, true
			}
		}
	}
	return nil, false
}
