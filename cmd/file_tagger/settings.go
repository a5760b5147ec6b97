package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/file-tagger/internal/config"
)

// resolveSettings layers configuration sources. Precedence, highest first:
// command-line flags, config file, FILE_TAGGER_* environment, built-in defaults.
func resolveSettings(cmd *cobra.Command) (config.Config, error) {
	env := config.FromEnv()
	cfg := env.MergeWithDefaults(config.Defaults())

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		merged := fileCfg.MergeWithDefaults(cfg)
		merged.Verbose = fileCfg.Verbose || cfg.Verbose
		merged.Preview = fileCfg.Preview || cfg.Preview
		cfg = merged
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
