package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockProvider returns canned fillers without any network traffic.
// Used in tests and for dry runs of the pipeline.
type MockProvider struct {
	// Fillers maps gap index to the choice the mock returns. Gaps with
	// no entry cycle through defaultFillers.
	Fillers map[int]string

	// Err, when set, is returned from Generate instead of a response.
	Err error
}

var defaultFillers = []string{"nowy", "czarny", "benzynowy", "zadbany"}

// NewMockProvider creates a mock provider with default fillers.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always reports true.
func (p *MockProvider) IsAvailable(_ context.Context) bool {
	return true
}

// Generate produces a well-formed JSON envelope with one choice per gap.
func (p *MockProvider) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if p.Err != nil {
		return nil, p.Err
	}

	type gapOut struct {
		Index        int      `json:"index"`
		Choice       string   `json:"choice"`
		Alternatives []string `json:"alternatives,omitempty"`
	}

	gaps := make([]gapOut, 0, len(req.Gaps))
	for i, g := range req.Gaps {
		choice, ok := p.Fillers[g.Index]
		if !ok {
			choice = defaultFillers[i%len(defaultFillers)]
		}
		gaps = append(gaps, gapOut{Index: g.Index, Choice: choice})
	}

	raw, err := json.Marshal(map[string]interface{}{"gaps": gaps})
	if err != nil {
		return nil, fmt.Errorf("marshal mock response: %w", err)
	}

	return &GenerateResponse{
		Raw:   string(raw),
		Model: "mock",
	}, nil
}
