package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gapfill/internal/worker"
)

var (
	workers      int
	batchOut     string
	batchTimeout time.Duration
	itemTimeout  time.Duration
	batchID      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Enhance multiple descriptions from a JSON file in parallel",
	Long: `Batch reads items from a JSON file and enhances them concurrently.

The file is either a bare array of items or an {"items": [...]} object;
each item has an optional "id", a "description", and optional
"metadata". Results come back in input order, and one failed item never
aborts the rest.

Example:
  gapfill batch items.json
  gapfill batch items.json --workers 8 --output results.json
  gapfill batch items.json --domain cars --level strict`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default: from config)")
	batchCmd.Flags().StringVar(&batchOut, "output", "", "write the batch response JSON to a file (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().DurationVar(&itemTimeout, "item-timeout", 0, "per-item timeout (default: from config)")
	batchCmd.Flags().StringVar(&batchID, "batch-id", "", "identifier echoed back in the response")

	batchCmd.Flags().StringVar(&domainName, "domain", "cars", "domain for vocabulary rules and the system prompt")
	batchCmd.Flags().StringVar(&level, "level", "", "guardrail level (strict, normal, lenient)")
	batchCmd.Flags().StringVar(&provider, "provider", "", "generation provider (bielik, openai, mock)")
	batchCmd.Flags().StringVar(&modelName, "model", "", "model name")
	batchCmd.Flags().StringVar(&baseURL, "base-url", "", "inference service base URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if modelName != "" {
		cfg.LLM.Model = modelName
	}
	if baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if itemTimeout > 0 {
		cfg.Concurrency.ItemTimeout = itemTimeout
	}

	items, err := worker.ReadItemsFromFile(file)
	if err != nil {
		return fmt.Errorf("read items: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Items: %d\n", len(items))
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.Workers)
		fmt.Fprintf(os.Stderr, "Domain: %s\n", domainName)
		fmt.Fprintln(os.Stderr)
	}

	p, err := newPipeline(&cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.ItemTimeout)
	resp := processor.ProcessItems(ctx, items, domainName, level)
	resp.BatchID = batchID

	successCount := 0
	for _, result := range resp.Results {
		if result.Status == "success" {
			successCount++
			continue
		}
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", result.ID, result.Error)
	}
	fmt.Fprintf(os.Stderr, "✓ %d/%d items succeeded\n", successCount, len(resp.Results))

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	if batchOut != "" {
		if err := os.WriteFile(batchOut, data, 0644); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", batchOut)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
