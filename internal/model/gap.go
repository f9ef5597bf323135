package model

// Case is one of the seven Polish grammatical cases.
// Exact string identity matters for lookups and for the wire contract.
type Case string

const (
	CaseNominative   Case = "nominative"
	CaseGenitive     Case = "genitive"
	CaseDative       Case = "dative"
	CaseAccusative   Case = "accusative"
	CaseInstrumental Case = "instrumental"
	CaseLocative     Case = "locative"
	CaseVocative     Case = "vocative"

	// CaseUnknown marks a gap whose required case could not be inferred.
	// The corrector leaves such gaps untouched.
	CaseUnknown Case = "unknown"
)

// Cases lists the seven real cases (unknown excluded).
func Cases() []Case {
	return []Case{
		CaseNominative, CaseGenitive, CaseDative, CaseAccusative,
		CaseInstrumental, CaseLocative, CaseVocative,
	}
}

// Gender is the grammatical gender of a Polish adjective form.
type Gender string

const (
	GenderMasc Gender = "masc"
	GenderFem  Gender = "fem"
	GenderNeut Gender = "neut"
)

// Number is grammatical number.
type Number string

const (
	NumberSing Number = "sing"
	NumberPlur Number = "plur"
)

// GapContext describes one gap marker and its local syntax.
// RequiredCase is derived once during extraction and never recomputed.
type GapContext struct {
	Index          int    `json:"index"`
	PrecedingToken string `json:"preceding_token,omitempty"`
	FollowingToken string `json:"following_token,omitempty"`
	RequiredCase   Case   `json:"required_case"`

	// Context is a snippet around the gap with the marker replaced by "___".
	Context string `json:"context,omitempty"`

	// Position is the byte offset of the marker in the normalized text.
	Position int `json:"-"`
}

// Gap is a resolved gap as it appears in the response envelope.
type Gap struct {
	Index   int    `json:"index"`
	Choice  string `json:"choice"`
	Case    Case   `json:"case"`
	Context string `json:"context,omitempty"`
}

// CorrectionSuggestion records one case fix applied by the grammar corrector.
type CorrectionSuggestion struct {
	GapIndex  int    `json:"gap_index"`
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Case      Case   `json:"case"`
	Context   string `json:"context,omitempty"`
}
