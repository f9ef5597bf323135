package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [text]",
	Short: "Run the guardrails over existing text without generation",
	Long: `Validate judges a finished description against the guardrails:
leftover gap markers, length bounds, and domain vocabulary. No language
model is involved.

Example:
  gapfill validate "Sprzedam zadbany samochód osobowy..." --domain cars
  gapfill validate --file opis.txt --level strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&inputFile, "file", "", "read the text from a file instead of the argument")
	validateCmd.Flags().StringVar(&domainName, "domain", "cars", "domain for vocabulary rules")
	validateCmd.Flags().StringVar(&level, "level", "", "guardrail level (strict, normal, lenient)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	text, err := readDescription(args)
	if err != nil {
		return err
	}

	cfg := buildConfig()
	cfg.LLM.Provider = "" // no generation in validate-only mode

	p, err := newPipeline(&cfg)
	if err != nil {
		return err
	}

	report := p.ValidateOnly(text, domainName, level)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Println(string(data))

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}
