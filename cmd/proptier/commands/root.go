package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/pkg/config"
	"github.com/wonny/proptier/pkg/logger"
)

var (
	// Global flags
	verbose   bool
	logFormat string
	modelPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "proptier",
	Short: "UK property sale tier classification",
	Long: `proptier joins HM Land Registry Price Paid sales with the ONS postcode
directory and the English Indices of Deprivation, scores every sale and buckets
it into seven tiers, A (best) to G (worst).

Pipeline:
  S0 Ingest → S1 Join → S2 Scoring → S3 Tiering → S4 Export → S5 Report

Usage:
  go run ./cmd/proptier [command]

Examples:
  go run ./cmd/proptier run --sales pp-2024.csv --output classified.csv
  go run ./cmd/proptier check
  go run ./cmd/proptier summary --input classified.csv
  go run ./cmd/proptier model`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, console (default from LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "scoring model YAML (default from PROPTIER_MODEL, built-in model if unset)")
}

// loadConfig reads the environment and applies the global flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if cmd.Flags().Changed("model") {
		cfg.ModelPath = modelPath
	}
	return cfg, nil
}

// loadModel loads the configured scoring model
func loadModel(cfg *config.Config) (*modelconfig.Config, error) {
	return modelconfig.LoadOrDefault(cfg.ModelPath)
}

// newLogger logs to stderr so stdout carries only tables
func newLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	return logger.NewWithWriter(cfg, cmd.ErrOrStderr())
}
