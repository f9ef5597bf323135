package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gapfill/internal/model"
	"gapfill/internal/pipeline"
)

// Enhancer runs the enhancement pipeline for one description.
type Enhancer interface {
	Enhance(ctx context.Context, req pipeline.Request) (*model.Enhancement, error)
}

// EnhanceJob is one batch item scheduled on the pool. Ordinal records
// the item's position in the input so the response can preserve order.
type EnhanceJob struct {
	Ordinal  int
	Item     model.BatchItem
	Domain   string
	Level    string
	Timeout  time.Duration
	Enhancer Enhancer
}

// Execute runs the pipeline for the item under its own timeout, so one
// stalled generation call degrades to a failed item instead of stalling
// the whole batch.
func (j *EnhanceJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	enh, err := j.Enhancer.Enhance(ctx, pipeline.Request{
		Description: j.Item.Description,
		Domain:      j.Domain,
		Attributes:  j.Item.Metadata,
		Level:       j.Level,
	})
	return &EnhanceResult{
		Ordinal:     j.Ordinal,
		ID:          j.Item.ID,
		Enhancement: enh,
		Error:       err,
	}
}

// EnhanceResult is the outcome of one batch item.
type EnhanceResult struct {
	Ordinal     int
	ID          string
	Enhancement *model.Enhancement
	Error       error
}

// GetError returns the error from the result
func (r *EnhanceResult) GetError() error {
	return r.Error
}

// BatchProcessor enhances multiple descriptions concurrently.
type BatchProcessor struct {
	enhancer    Enhancer
	concurrency int
	itemTimeout time.Duration
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(enhancer Enhancer, concurrency int, itemTimeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		enhancer:    enhancer,
		concurrency: concurrency,
		itemTimeout: itemTimeout,
	}
}

// ProcessItems enhances the items concurrently. Results come back in
// input order regardless of completion order; items without an ID get
// their 1-based ordinal as one.
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []model.BatchItem, domainName, level string) model.BatchResponse {
	if len(items) == 0 {
		return model.BatchResponse{Results: []model.BatchResult{}}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for i, item := range items {
		if item.ID == "" {
			item.ID = strconv.Itoa(i + 1)
		}
		pool.Submit(&EnhanceJob{
			Ordinal:  i,
			Item:     item,
			Domain:   domainName,
			Level:    level,
			Timeout:  b.itemTimeout,
			Enhancer: b.enhancer,
		})
	}

	results := pool.Wait()

	// Reorder by ordinal
	ordered := make([]model.BatchResult, len(items))
	for _, result := range results {
		r := result.(*EnhanceResult)
		out := model.BatchResult{ID: r.ID}
		if r.Error != nil {
			out.Status = "failure"
			out.Error = r.Error.Error()
		} else {
			out.Status = "success"
			out.Data = r.Enhancement
		}
		ordered[r.Ordinal] = out
	}

	return model.BatchResponse{Results: ordered}
}

// ProcessFile reads batch items from a JSON file and enhances them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath, domainName, level string) (model.BatchResponse, error) {
	items, err := ReadItemsFromFile(filePath)
	if err != nil {
		return model.BatchResponse{}, fmt.Errorf("read items: %w", err)
	}

	return b.ProcessItems(ctx, items, domainName, level), nil
}

// ReadItemsFromFile reads batch items from a JSON file. Both a bare
// array and an {"items": [...]} envelope are accepted.
func ReadItemsFromFile(filePath string) ([]model.BatchItem, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var items []model.BatchItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Items []model.BatchItem `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse items file %s: %w", filePath, err)
	}
	return envelope.Items, nil
}
