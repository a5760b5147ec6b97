// Package main provides the file_tagger CLI: pair text files with JSON metadata,
// prepend selected tags, and export the results.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/file-tagger/internal/config"
	"github.com/jonathan/file-tagger/internal/observability"
)

var (
	configPath string
	verbose    bool
	logFormat  string

	// settings and logger are resolved in PersistentPreRunE before any subcommand runs
	settings config.Config
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "file_tagger",
	Short: "Prepend metadata tags to text files",
	Long: "file_tagger pairs text files with JSON metadata files by filename stem, " +
		"prepends the selected metadata fields and custom tags to each text, " +
		"and writes the results to a directory or zip archive.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
}

// setup resolves configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	l, err := observability.NewLogger(observability.LoggerOptions{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}

	settings = cfg
	logger = l
	logger.Debug("configuration resolved",
		zap.String("config", configPath),
		zap.Int("workers", cfg.Workers),
		zap.String("log_format", cfg.LogFormat))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
