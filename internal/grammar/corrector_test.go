package grammar

import (
	"testing"

	"gapfill/internal/model"
	"gapfill/internal/textnorm"
)

func scenarioReconciled() (*model.ReconciledText, []model.GapContext) {
	rec := &model.ReconciledText{
		Original: "Sprzedam [GAP:1] Volkswagena Golf w kolorze [GAP:2] z silnikiem [GAP:3].",
		Fillers: map[int]string{
			1: "używany",
			2: "biały",
			3: "benzynowy",
		},
		Alternatives: map[int][]string{1: {}, 2: {}, 3: {}},
	}
	gaps := []model.GapContext{
		{Index: 1, PrecedingToken: "Sprzedam", RequiredCase: model.CaseAccusative},
		{Index: 2, PrecedingToken: "kolorze", RequiredCase: model.CaseLocative},
		{Index: 3, PrecedingToken: "silnikiem", RequiredCase: model.CaseInstrumental},
	}
	rec.Text = textnorm.SubstituteMarkers(rec.Original, rec.Fillers)
	return rec, gaps
}

func TestCorrector_Scenario(t *testing.T) {
	corrector := NewCorrector()
	rec, gaps := scenarioReconciled()

	corrected, suggestions := corrector.Correct(rec, gaps)

	expected := "Sprzedam używanego Volkswagena Golf w kolorze białym z silnikiem benzynowym."
	if corrected != expected {
		t.Errorf("corrected text = %q, expected %q", corrected, expected)
	}

	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %+v", len(suggestions), suggestions)
	}

	expectedCases := map[int]model.Case{
		1: model.CaseAccusative,
		2: model.CaseLocative,
		3: model.CaseInstrumental,
	}
	expectedForms := map[int]string{
		1: "używanego",
		2: "białym",
		3: "benzynowym",
	}
	for _, s := range suggestions {
		if s.Case != expectedCases[s.GapIndex] {
			t.Errorf("gap %d: case = %s, expected %s", s.GapIndex, s.Case, expectedCases[s.GapIndex])
		}
		if s.Corrected != expectedForms[s.GapIndex] {
			t.Errorf("gap %d: corrected = %q, expected %q", s.GapIndex, s.Corrected, expectedForms[s.GapIndex])
		}
	}

	// Ascending gap order
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i-1].GapIndex >= suggestions[i].GapIndex {
			t.Errorf("suggestions not in ascending gap order: %+v", suggestions)
		}
	}
}

// Running the corrector on its own output must be a no-op.
func TestCorrector_Convergence(t *testing.T) {
	corrector := NewCorrector()
	rec, gaps := scenarioReconciled()

	first, _ := corrector.Correct(rec, gaps)
	second, suggestions := corrector.Correct(rec, gaps)

	if second != first {
		t.Errorf("second run changed the text:\nfirst:  %q\nsecond: %q", first, second)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions on second run, got %+v", suggestions)
	}
}

func TestCorrector_UnknownCaseLeftUntouched(t *testing.T) {
	corrector := NewCorrector()
	rec := &model.ReconciledText{
		Original:     "Auto jest [GAP:1].",
		Fillers:      map[int]string{1: "czarny"},
		Alternatives: map[int][]string{1: {}},
	}
	gaps := []model.GapContext{
		{Index: 1, RequiredCase: model.CaseUnknown},
	}

	corrected, suggestions := corrector.Correct(rec, gaps)
	if corrected != "Auto jest czarny." {
		t.Errorf("corrected text = %q, expected filler untouched", corrected)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for unknown case, got %+v", suggestions)
	}
}

func TestCorrector_UnclassifiableFillerPassesThrough(t *testing.T) {
	corrector := NewCorrector()
	rec := &model.ReconciledText{
		Original:     "Przebieg wynosi [GAP:1] km.",
		Fillers:      map[int]string{1: "120000"},
		Alternatives: map[int][]string{1: {}},
	}
	gaps := []model.GapContext{
		{Index: 1, RequiredCase: model.CaseAccusative},
	}

	corrected, suggestions := corrector.Correct(rec, gaps)
	if corrected != "Przebieg wynosi 120000 km." {
		t.Errorf("corrected text = %q", corrected)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected silent pass-through, got %+v", suggestions)
	}
}

func TestCorrector_UnresolvedMarkerStays(t *testing.T) {
	corrector := NewCorrector()
	rec := &model.ReconciledText{
		Original:     "Auto w kolorze [GAP:1] i [GAP:2].",
		Fillers:      map[int]string{1: "czarny"},
		Alternatives: map[int][]string{1: {}, 2: {}},
		Unresolved:   []int{2},
	}
	gaps := []model.GapContext{
		{Index: 1, RequiredCase: model.CaseLocative},
		{Index: 2, RequiredCase: model.CaseLocative},
	}

	corrected, _ := corrector.Correct(rec, gaps)
	if corrected != "Auto w kolorze czarnym i [GAP:2]." {
		t.Errorf("corrected text = %q, expected unresolved marker kept", corrected)
	}
}
