package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gapfill/internal/model"
)

func TestBielikProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("Expected path /generate, got %s", r.URL.Path)
		}

		var req bielikRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "bielik-1.5b-gguf" {
			t.Errorf("Unexpected model in request: %s", req.Model)
		}
		if !strings.Contains(req.Prompt, "[GAP:1]") {
			t.Errorf("Expected prompt to contain gap marker, got %s", req.Prompt)
		}

		resp := bielikResponse{
			Text:       `{"gaps": [{"index": 1, "choice": "czarny"}]}`,
			Model:      "bielik-1.5b-gguf",
			TokensUsed: 42,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewBielikProvider(Config{
		BaseURL: server.URL,
		Model:   "bielik-1.5b-gguf",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Text: "Sprzedam [GAP:1] samochód.",
		Gaps: []model.GapContext{{Index: 1, Context: "Sprzedam ___ samochód"}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(resp.Raw, "czarny") {
		t.Errorf("Unexpected raw response: %s", resp.Raw)
	}
	if resp.Model != "bielik-1.5b-gguf" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestBielikProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail": "model not loaded"}`))
	}))
	defer server.Close()

	provider, err := NewBielikProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Text: "Auto [GAP:1]."})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var collab *model.CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("Expected CollaboratorError, got %T", err)
	}
	if collab.Provider != "bielik" {
		t.Errorf("Unexpected provider in error: %s", collab.Provider)
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("Expected error to carry API detail, got %v", err)
	}
}

func TestBielikProvider_Generate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed`))
	}))
	defer server.Close()

	provider, err := NewBielikProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Text: "Auto [GAP:1]."})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestBielikProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewBielikProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestBielikProvider_Models(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(bielikModelsResponse{
			Models: []bielikModelInfo{
				{Name: "bielik-1.5b-gguf", Type: "gguf", Device: "cpu"},
				{Name: "bielik-4.5b", Type: "transformers", Device: "cuda"},
			},
		})
	}))
	defer server.Close()

	provider, err := NewBielikProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	names, err := provider.Models(context.Background())
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(names) != 2 || names[0] != "bielik-1.5b-gguf" {
		t.Errorf("Unexpected model list: %v", names)
	}
}
