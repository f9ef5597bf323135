package model

import "time"

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Validation  ValidationConfig  `yaml:"validation"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the generation collaborator.
type LLMConfig struct {
	// Provider name: "openai", "bielik", "mock"
	Provider string `yaml:"provider"`

	// Model name (provider-specific, e.g. "bielik-1.5b-gguf")
	Model string `yaml:"model"`

	// APIKey for OpenAI-compatible endpoints
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for self-hosted endpoints (Bielik service)
	BaseURL string `yaml:"base_url"`

	// Timeout for a single generation call, in seconds
	Timeout int `yaml:"timeout"`

	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	// RequestsPerSecond throttles calls to the collaborator
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// Proxy settings for outbound HTTP
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// ValidationConfig configures the guardrail validator.
type ValidationConfig struct {
	// Level: "strict", "normal" (default), "lenient"
	Level string `yaml:"level"`

	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`

	// ItemTimeout bounds one item's pipeline run (the generation call
	// dominates it); a stalled collaborator degrades that item to a
	// failure result instead of stalling the batch.
	ItemTimeout time.Duration `yaml:"item_timeout"`
}

// CacheConfig controls the generation-result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`

	// Dir enables a persistent disk layer under the memory cache;
	// empty keeps results in memory only
	Dir     string        `yaml:"dir,omitempty"`
	DiskTTL time.Duration `yaml:"disk_ttl,omitempty"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:          "bielik",
			Model:             "bielik-1.5b-gguf",
			BaseURL:           "http://localhost:8000",
			Timeout:           60,
			MaxTokens:         200,
			Temperature:       0.3,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Validation: ValidationConfig{
			Level:     "normal",
			MinLength: 50,
			MaxLength: 2000,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     4,
			ItemTimeout: 2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
			DiskTTL: 24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
