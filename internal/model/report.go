package model

// ValidationReport is the guardrail validator's output.
// Valid is true iff Errors is empty, independent of Warnings.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Level    string   `json:"level,omitempty"`
}

// Enhancement is the complete result of one gap-filling request.
type Enhancement struct {
	Description string `json:"description"`
	Original    string `json:"original"`

	Gaps []Gap `json:"gaps"`

	// Alternatives maps gap index (stringified on the wire) to the
	// collaborator's alternative fillers, verbatim.
	Alternatives map[int][]string `json:"alternatives"`

	ModelUsed      string  `json:"model_used"`
	GenerationTime float64 `json:"generation_time"`

	Validation         ValidationReport       `json:"validation"`
	GrammarSuggestions []CorrectionSuggestion `json:"grammar_suggestions"`

	Stats EnhancementStats `json:"stats"`
}

// EnhancementStats summarizes how much the pipeline changed the text.
type EnhancementStats struct {
	GapsFilled       int     `json:"gaps_filled"`
	GapsUnresolved   int     `json:"gaps_unresolved"`
	OriginalLength   int     `json:"original_length"`
	EnhancedLength   int     `json:"enhanced_length"`
	ExpansionPercent float64 `json:"expansion_percent"`
}

// BatchItem is one unit of a batch request.
type BatchItem struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// BatchResult reports the outcome of one batch item. Status is
// "success" or "failure"; exactly one of Data/Error is set.
type BatchResult struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Data   *Enhancement `json:"data,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// BatchResponse preserves input order: results[i] corresponds to items[i].
type BatchResponse struct {
	BatchID string        `json:"batch_id,omitempty"`
	Results []BatchResult `json:"results"`
}
