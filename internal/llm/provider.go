package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gapfill/internal/model"
)

// Provider defines the interface for generation collaborators.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces candidate fillers for the gaps in the request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call.
type GenerateRequest struct {
	// Text is the normalized description with canonical gap markers
	Text string

	// Gaps carries the per-gap context metadata
	Gaps []model.GapContext

	// SystemPrompt is the domain-specific instruction; empty means the
	// generic Polish infill instruction
	SystemPrompt string

	// Attributes are item metadata included in the prompt (year, make, ...)
	Attributes map[string]string

	// Model overrides the configured model for this call
	Model string

	MaxTokens   int
	Temperature float64
}

// GenerateResponse contains the collaborator's raw output. Raw may be
// well-formed JSON, double-encoded JSON, or free text; the reconciler
// sorts that out.
type GenerateResponse struct {
	Raw        string
	Model      string
	TokensUsed int
}

// Config holds generation collaborator configuration.
type Config struct {
	// Provider name: "openai", "bielik", "mock"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for self-hosted endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	MaxTokens   int
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "bielik",
		BaseURL:     "http://localhost:8000",
		Timeout:     60,
		MaxTokens:   200,
		Temperature: 0.3,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
		HTTPProxy:   mc.HTTPProxy,
		HTTPSProxy:  mc.HTTPSProxy,
		NoProxy:     mc.NoProxy,
	}
}

const defaultSystemPrompt = "Jesteś asystentem redakcyjnym. " +
	"Twoim zadaniem jest uzupełnić luki [GAP:n] w podanym polskim tekście. " +
	"Dla każdej luki wybierz JEDNO słowo, które najlepiej pasuje do kontekstu. " +
	"Odpowiedz w formacie JSON, bez wyjaśnień."

// BuildPrompt constructs the user prompt for a generation call: item
// attributes, the text with markers, each gap's focused context, and the
// expected JSON envelope.
func BuildPrompt(req GenerateRequest) string {
	var b strings.Builder

	if len(req.Attributes) > 0 {
		b.WriteString("Dane: ")
		first := true
		for _, k := range sortedKeys(req.Attributes) {
			if req.Attributes[k] == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", k, req.Attributes[k])
			first = false
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Tekst:\n%s\n\n", req.Text)

	if len(req.Gaps) > 0 {
		b.WriteString("Luki:\n")
		for _, g := range req.Gaps {
			fmt.Fprintf(&b, "GAP:%d: %s\n", g.Index, g.Context)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Odpowiedz dokładnie w formacie: {"gaps": [{"index": 1, "choice": "słowo", "alternatives": ["inne"]}]}`)
	return b.String()
}

// SystemPrompt returns the request's system instruction or the default.
func SystemPrompt(req GenerateRequest) string {
	if req.SystemPrompt != "" {
		return req.SystemPrompt
	}
	return defaultSystemPrompt
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic prompt text across runs.
	sort.Strings(keys)
	return keys
}
