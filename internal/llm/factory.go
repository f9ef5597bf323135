package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a generation provider based on configuration.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "bielik":
		return NewBielikProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "mock":
		return NewMockProvider(), nil

	case "":
		// No provider configured - generation disabled (validate-only mode)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: bielik, openai, mock)", config.Provider)
	}
}
