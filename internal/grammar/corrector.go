package grammar

import (
	"errors"
	"sort"

	"gapfill/internal/model"
	"gapfill/internal/textnorm"
)

// Corrector walks reconciled text and repairs case mismatches between
// each gap's filler and the case its context requires.
type Corrector struct{}

// NewCorrector creates a grammar corrector.
func NewCorrector() *Corrector {
	return &Corrector{}
}

// Detect reports the corrections that would be applied, without touching
// the text. Gaps with an unknown required case, unresolved gaps, and
// fillers whose ending matches no declension class are skipped silently.
func (c *Corrector) Detect(rec *model.ReconciledText, gaps []model.GapContext) []model.CorrectionSuggestion {
	ordered := make([]model.GapContext, len(gaps))
	copy(ordered, gaps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var suggestions []model.CorrectionSuggestion
	for _, g := range ordered {
		choice, ok := rec.Fillers[g.Index]
		if !ok || choice == "" {
			continue
		}
		if g.RequiredCase == model.CaseUnknown {
			continue
		}

		gender, number, ok := LemmaGender(choice)
		if !ok {
			continue
		}

		corrected, err := Inflect(choice, g.RequiredCase, gender, number)
		if err != nil && errors.Is(err, model.ErrLowConfidence) {
			continue
		}
		if corrected == choice {
			continue
		}

		suggestions = append(suggestions, model.CorrectionSuggestion{
			GapIndex:  g.Index,
			Original:  choice,
			Corrected: corrected,
			Case:      g.RequiredCase,
			Context:   g.Context,
		})
	}
	return suggestions
}

// Correct applies the detected corrections. The corrected text is rebuilt
// from the original marker text so that one gap's replacement can never
// clobber another's; rec.Fillers is updated with the corrected forms
// (the one mutation ReconciledText permits), which makes a second run a
// no-op. Unresolved markers stay in place for the validator to judge.
func (c *Corrector) Correct(rec *model.ReconciledText, gaps []model.GapContext) (string, []model.CorrectionSuggestion) {
	suggestions := c.Detect(rec, gaps)
	for _, s := range suggestions {
		rec.Fillers[s.GapIndex] = s.Corrected
	}

	corrected := textnorm.SubstituteMarkers(rec.Original, rec.Fillers)
	rec.Text = corrected
	return corrected, suggestions
}
