// Package cli wires the cobra commands: enhance, batch, validate,
// domains, and config.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gapfill/internal/domain"
	"gapfill/internal/model"
	"gapfill/internal/pipeline"
	"gapfill/internal/worker"
)

var (
	cfgFile     string
	verbose     bool
	domainsFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gapfill",
	Short: "Gapfill - Polish listing description enhancement",
	Long: `Gapfill fills the gaps in Polish product descriptions and repairs
the grammar of what comes back.

A description like "Sprzedam ___ samochód w kolorze ___" is normalized,
its gaps are extracted with their grammatical context, a language model
proposes fillers, and a declension engine bends each filler into the
case its position requires. Guardrail validation judges the final text
at a configurable strictness.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gapfill v0.2.1")
	},
}

// domainsCmd lists the registered domains.
var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List available domains",
	Long:  `List the domains whose vocabulary and prompt rules are loaded, built-in plus any --domains file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, name := range registry.Names() {
			rules, _ := registry.Lookup(name)
			fmt.Printf("%s (%d vocabulary terms)\n", name, len(rules.Vocabulary))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.gapfill/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&domainsFile, "domains", "", "YAML file with additional domain packs")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(domainsCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.gapfill")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match GAPFILL_*
	viper.SetEnvPrefix("GAPFILL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig layers the config file and environment over the built-in
// defaults. CLI flags are applied by the individual commands on top.
func buildConfig() model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if viper.IsSet("llm.timeout") {
		cfg.LLM.Timeout = viper.GetInt("llm.timeout")
	}
	if viper.IsSet("llm.requests_per_second") {
		cfg.LLM.RequestsPerSecond = viper.GetFloat64("llm.requests_per_second")
	}
	if v := viper.GetString("validation.level"); v != "" {
		cfg.Validation.Level = v
	}
	if viper.IsSet("validation.min_length") {
		cfg.Validation.MinLength = viper.GetInt("validation.min_length")
	}
	if viper.IsSet("validation.max_length") {
		cfg.Validation.MaxLength = viper.GetInt("validation.max_length")
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	cfg.Output.Verbose = verbose

	// API key from the environment beats the config file
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}

	return cfg
}

// loadRegistry builds a domain registry with any extra packs loaded.
func loadRegistry() (*domain.Registry, error) {
	registry := domain.NewRegistry()
	if domainsFile != "" {
		if err := registry.LoadFile(domainsFile); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// newPipeline assembles the pipeline with its rate limiter and any
// extra domain packs.
func newPipeline(cfg *model.Config) (*pipeline.Pipeline, error) {
	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	p := pipeline.NewPipeline(cfg, limiter)
	if domainsFile != "" {
		if err := p.Registry().LoadFile(domainsFile); err != nil {
			return nil, err
		}
	}
	return p, nil
}
