// Package grammar implements the Polish case rule table, the adjective
// declension engine, and the grammar corrector built on top of them.
//
// The rule table and the declension entries are process-wide immutable
// reference data: initialized at startup, shared read-only by every
// request, so no locking is needed anywhere in this package.
package grammar

import (
	"strings"

	"gapfill/internal/model"
)

// prepositionCases maps Polish prepositions to the case they govern.
// A preposition match always beats any other heuristic.
var prepositionCases = map[string]model.Case{
	// Miejscownik
	"w":    model.CaseLocative,
	"na":   model.CaseLocative,
	"o":    model.CaseLocative,
	"przy": model.CaseLocative,

	// Narzędnik
	"z":     model.CaseInstrumental,
	"ze":    model.CaseInstrumental,
	"przed": model.CaseInstrumental,

	// Dopełniacz
	"bez": model.CaseGenitive,
	"od":  model.CaseGenitive,
	"dla": model.CaseGenitive,

	// Celownik
	"do": model.CaseDative,
	"ku": model.CaseDative,
}

// verbCases maps verbs that govern a direct object to accusative.
var verbCases = map[string]model.Case{
	"ma":       model.CaseAccusative,
	"mieć":     model.CaseAccusative,
	"posiada":  model.CaseAccusative,
	"sprzedam": model.CaseAccusative,
	"kupię":    model.CaseAccusative,
	"oferuję":  model.CaseAccusative,
}

// CaseForPreposition looks up a single token in the preposition table.
func CaseForPreposition(token string) (model.Case, bool) {
	c, ok := prepositionCases[strings.ToLower(token)]
	return c, ok
}

// CaseForVerb looks up a single token in the verb-government table.
func CaseForVerb(token string) (model.Case, bool) {
	c, ok := verbCases[strings.ToLower(token)]
	return c, ok
}

// InferCase derives the required case for a gap from the tokens that
// precede it, nearest token first. Prepositions take priority over verb
// government: a preposition one token further back still governs the gap
// through the intervening noun ("w kolorze ___" is locative).
// No match, or no preceding tokens at all, defaults to nominative.
func InferCase(preceding []string) model.Case {
	for _, tok := range preceding {
		if c, ok := CaseForPreposition(tok); ok {
			return c
		}
	}
	if len(preceding) > 0 {
		if c, ok := CaseForVerb(preceding[0]); ok {
			return c
		}
	}
	return model.CaseNominative
}
