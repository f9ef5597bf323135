package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gapfill/internal/model"
	"gapfill/internal/util"
)

// BielikProvider talks to the Bielik inference service's native API:
// POST /generate for raw completion, GET /health and GET /models for
// service discovery.
type BielikProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Bielik API structures
type bielikRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p,omitempty"`
}

type bielikResponse struct {
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

type bielikError struct {
	Detail string `json:"detail"`
}

type bielikModelInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Device string `json:"device,omitempty"`
}

type bielikModelsResponse struct {
	Models []bielikModelInfo `json:"models"`
}

// NewBielikProvider creates a new Bielik provider.
func NewBielikProvider(config Config) (*BielikProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		// GPU inference can be slow, especially on a cold start
		timeout = 120 * time.Second
	}

	return &BielikProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *BielikProvider) Name() string {
	return "bielik"
}

// IsAvailable checks the service health endpoint.
func (p *BielikProvider) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/health", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bielik availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Models lists the models the service has loaded.
func (p *BielikProvider) Models(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/models", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &model.CollaboratorError{Provider: p.Name(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.CollaboratorError{
			Provider: p.Name(),
			Err:      fmt.Errorf("models endpoint returned status %d", resp.StatusCode),
		}
	}

	var parsed bielikModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &model.CollaboratorError{Provider: p.Name(), Err: err}
	}

	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate calls the /generate endpoint with the infill prompt.
func (p *BielikProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	mdl := req.Model
	if mdl == "" {
		mdl = p.config.Model
	}
	if mdl == "" {
		mdl = "bielik-1.5b-gguf"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 200
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}

	body := bielikRequest{
		Model:       mdl,
		Prompt:      SystemPrompt(req) + "\n\n" + BuildPrompt(req),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/generate", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.CollaboratorError{Provider: p.Name(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.CollaboratorError{Provider: p.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr bielikError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
			return nil, &model.CollaboratorError{
				Provider: p.Name(),
				Err:      fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Detail),
			}
		}
		return nil, &model.CollaboratorError{
			Provider: p.Name(),
			Err:      fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var parsed bielikResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &model.CollaboratorError{Provider: p.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	usedModel := parsed.Model
	if usedModel == "" {
		usedModel = mdl
	}

	return &GenerateResponse{
		Raw:        strings.TrimSpace(parsed.Text),
		Model:      usedModel,
		TokensUsed: parsed.TokensUsed,
	}, nil
}
