package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gapfill/internal/model"
	"gapfill/internal/pipeline"
)

// MockEnhancer implements Enhancer
type MockEnhancer struct {
	ShouldError bool
	Delay       time.Duration
}

func (m *MockEnhancer) Enhance(ctx context.Context, req pipeline.Request) (*model.Enhancement, error) {
	delay := m.Delay
	if delay == 0 {
		delay = 10 * time.Millisecond
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if m.ShouldError {
		return nil, errors.New("generation error")
	}
	return &model.Enhancement{
		Description: strings.ReplaceAll(req.Description, "[GAP:1]", "zadbany"),
		Original:    req.Description,
	}, nil
}

func TestBatchProcessor_ProcessItems(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{}, 2, 0)

	items := []model.BatchItem{
		{ID: "a", Description: "Sprzedam [GAP:1] samochód."},
		{ID: "b", Description: "Auto [GAP:1] w dobrym stanie."},
		{ID: "c", Description: "Pojazd [GAP:1] po serwisie."},
	}

	resp := processor.ProcessItems(context.Background(), items, "cars", "normal")

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}

	for i, res := range resp.Results {
		if res.ID != items[i].ID {
			t.Errorf("result %d: expected ID %s, got %s", i, items[i].ID, res.ID)
		}
		if res.Status != "success" {
			t.Errorf("result %d: expected success, got %s (%s)", i, res.Status, res.Error)
		}
		if res.Data == nil {
			t.Errorf("result %d: expected enhancement data", i)
		}
	}
}

// Input order must survive out-of-order completion.
func TestBatchProcessor_PreservesOrder(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{}, 8, 0)

	count := 20
	items := make([]model.BatchItem, count)
	for i := range items {
		items[i] = model.BatchItem{
			ID:          fmt.Sprintf("item-%d", i),
			Description: fmt.Sprintf("Opis [GAP:1] numer %d.", i),
		}
	}

	resp := processor.ProcessItems(context.Background(), items, "cars", "normal")

	if len(resp.Results) != count {
		t.Fatalf("expected %d results, got %d", count, len(resp.Results))
	}
	for i, res := range resp.Results {
		if res.ID != items[i].ID {
			t.Errorf("position %d: expected ID %s, got %s", i, items[i].ID, res.ID)
		}
	}
}

// A batch much larger than the worker count must complete and keep
// input order.
func TestBatchProcessor_LargeBatch(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{Delay: time.Millisecond}, 4, 0)

	count := 64
	items := make([]model.BatchItem, count)
	for i := range items {
		items[i] = model.BatchItem{
			ID:          fmt.Sprintf("item-%d", i),
			Description: fmt.Sprintf("Opis [GAP:1] numer %d.", i),
		}
	}

	done := make(chan model.BatchResponse, 1)
	go func() {
		done <- processor.ProcessItems(context.Background(), items, "cars", "normal")
	}()

	var resp model.BatchResponse
	select {
	case resp = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("batch stalled")
	}

	if len(resp.Results) != count {
		t.Fatalf("expected %d results, got %d", count, len(resp.Results))
	}
	for i, res := range resp.Results {
		if res.ID != items[i].ID {
			t.Errorf("position %d: expected ID %s, got %s", i, items[i].ID, res.ID)
		}
	}
}

func TestBatchProcessor_FailureIsolated(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{ShouldError: true}, 2, 0)

	resp := processor.ProcessItems(context.Background(), []model.BatchItem{
		{ID: "x", Description: "Auto [GAP:1]."},
	}, "cars", "normal")

	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Status != "failure" {
		t.Errorf("expected failure status, got %s", resp.Results[0].Status)
	}
	if resp.Results[0].Error == "" {
		t.Error("expected error message")
	}
	if resp.Results[0].Data != nil {
		t.Error("expected nil data on failure")
	}
}

func TestBatchProcessor_ItemTimeout(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{Delay: 200 * time.Millisecond}, 2, 20*time.Millisecond)

	resp := processor.ProcessItems(context.Background(), []model.BatchItem{
		{ID: "slow", Description: "Auto [GAP:1]."},
	}, "cars", "normal")

	if resp.Results[0].Status != "failure" {
		t.Errorf("expected timed-out item to fail, got %s", resp.Results[0].Status)
	}
	if !strings.Contains(resp.Results[0].Error, "deadline") {
		t.Errorf("expected deadline error, got %s", resp.Results[0].Error)
	}
}

func TestBatchProcessor_DefaultIDs(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{}, 2, 0)

	resp := processor.ProcessItems(context.Background(), []model.BatchItem{
		{Description: "Auto [GAP:1]."},
		{Description: "Pojazd [GAP:1]."},
	}, "", "normal")

	if resp.Results[0].ID != "1" || resp.Results[1].ID != "2" {
		t.Errorf("expected ordinal IDs, got %s, %s", resp.Results[0].ID, resp.Results[1].ID)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockEnhancer{}, 2, 0)
	resp := processor.ProcessItems(context.Background(), nil, "", "")
	if len(resp.Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(resp.Results))
	}
}

func TestReadItemsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	content := `[
		{"id": "1", "description": "Sprzedam [GAP:1] samochód.", "metadata": {"marka": "VW"}},
		{"id": "2", "description": "Auto [GAP:1]."}
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := ReadItemsFromFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFromFile failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Metadata["marka"] != "VW" {
		t.Errorf("expected metadata to survive, got %v", items[0].Metadata)
	}
}

func TestReadItemsFromFile_Envelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	content := `{"items": [{"id": "a", "description": "Pojazd [GAP:1]."}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := ReadItemsFromFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFromFile failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestReadItemsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadItemsFromFile("no_such_file.json"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	content := `[{"description": "Auto [GAP:1]."}, {"description": "Pojazd [GAP:1]."}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockEnhancer{}, 2, 0)
	resp, err := processor.ProcessFile(context.Background(), path, "cars", "normal")
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}
