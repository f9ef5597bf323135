package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gapfill/internal/pipeline"
)

var (
	domainName  string
	level       string
	provider    string
	modelName   string
	baseURL     string
	attrs       []string
	outJSON     string
	noCache     bool
	timeout     time.Duration
	inputFile   string
)

// enhanceCmd represents the enhance command
var enhanceCmd = &cobra.Command{
	Use:   "enhance [text]",
	Short: "Fill the gaps in a single description",
	Long: `Enhance normalizes a description, fills its gaps with a language
model, repairs the grammar of each filler, and validates the result.

Gaps are written as [GAP:n] markers or as runs of three or more
underscores.

Example:
  gapfill enhance "Sprzedam ___ samochód w kolorze ___" --domain cars
  gapfill enhance --file opis.txt --level strict --json result.json
  gapfill enhance "Auto [GAP:1] po serwisie" --attr marka=Volkswagen --attr rok=2018`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnhance,
}

func init() {
	rootCmd.AddCommand(enhanceCmd)

	enhanceCmd.Flags().StringVar(&inputFile, "file", "", "read the description from a file instead of the argument")
	enhanceCmd.Flags().StringVar(&domainName, "domain", "cars", "domain for vocabulary rules and the system prompt")
	enhanceCmd.Flags().StringVar(&level, "level", "", "guardrail level (strict, normal, lenient)")
	enhanceCmd.Flags().StringVar(&provider, "provider", "", "generation provider (bielik, openai, mock)")
	enhanceCmd.Flags().StringVar(&modelName, "model", "", "model name")
	enhanceCmd.Flags().StringVar(&baseURL, "base-url", "", "inference service base URL")
	enhanceCmd.Flags().StringArrayVar(&attrs, "attr", nil, "item attribute as key=value (repeatable)")
	enhanceCmd.Flags().StringVar(&outJSON, "json", "", "write the full result JSON to a file (default: stdout)")
	enhanceCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	enhanceCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout for the request")
}

func runEnhance(cmd *cobra.Command, args []string) error {
	text, err := readDescription(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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

	attributes, err := parseAttrs(attrs)
	if err != nil {
		return err
	}

	p, err := newPipeline(&cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Domain: %s\n", domainName)
		fmt.Fprintln(os.Stderr)
	}

	enh, err := p.Enhance(ctx, pipeline.Request{
		Description: text,
		Domain:      domainName,
		Attributes:  attributes,
		Level:       level,
		Model:       modelName,
	})
	if err != nil {
		return fmt.Errorf("enhance failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Filled %d gap(s), %d unresolved\n", enh.Stats.GapsFilled, enh.Stats.GapsUnresolved)
		for _, s := range enh.GrammarSuggestions {
			fmt.Fprintf(os.Stderr, "✓ Grammar: gap %d %q → %q (%s)\n", s.GapIndex, s.Original, s.Corrected, s.Case)
		}
		if !enh.Validation.Valid {
			fmt.Fprintf(os.Stderr, "✗ Validation failed: %v\n", enh.Validation.Errors)
		}
		for _, w := range enh.Validation.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
		fmt.Fprintln(os.Stderr)
	}

	data, err := json.MarshalIndent(enh, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if outJSON != "" {
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		fmt.Println(enh.Description)
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func readDescription(args []string) (string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("provide a description as an argument or with --file")
}

func parseAttrs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid attribute %q (expected key=value)", pair)
		}
		out[key] = value
	}
	return out, nil
}
