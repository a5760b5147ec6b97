// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/file-tagger/internal/schemas"
	embedded "github.com/jonathan/file-tagger/schemas"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	TextDir     string `json:"text_dir,omitempty" yaml:"text_dir,omitempty"`         // Directory of text files
	MetadataDir string `json:"metadata_dir,omitempty" yaml:"metadata_dir,omitempty"` // Directory of metadata files
	TextExt     string `json:"text_ext,omitempty" yaml:"text_ext,omitempty"`         // Extension of text files in TextDir
	MetadataExt string `json:"metadata_ext,omitempty" yaml:"metadata_ext,omitempty"` // Extension of metadata files in MetadataDir

	// Tags
	SelectedTags []string `json:"selected_tags,omitempty" yaml:"selected_tags,omitempty" validate:"unique"`
	CustomTags   string   `json:"custom_tags,omitempty" yaml:"custom_tags,omitempty"` // Raw comma-separated input

	// Output
	Output  string `json:"output,omitempty" yaml:"output,omitempty"` // .zip file or directory
	Preview bool   `json:"preview,omitempty" yaml:"preview,omitempty"`

	// Behavior
	Workers   int    `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0"`
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=json console"`

	// Server
	Port           int     `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	MaxUploadBytes int64   `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty" validate:"gte=0"`
	DownloadTTL    string  `json:"download_ttl,omitempty" yaml:"download_ttl,omitempty"`
	RateLimitRPS   float64 `json:"rate_limit_rps,omitempty" yaml:"rate_limit_rps,omitempty" validate:"gte=0"`
	RateLimitBurst int     `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		TextExt:        ".txt",
		MetadataExt:    ".json",
		Workers:        1,
		LogLevel:       "info",
		LogFormat:      "console",
		Port:           8080,
		MaxUploadBytes: 32 << 20,
		DownloadTTL:    "15m",
		RateLimitRPS:   5,
		RateLimitBurst: 20,
	}
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON (.json) or YAML (.yaml, .yml) file.
// JSON files are checked against the embedded config schema before decoding.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("failed to parse config JSON: %w", json.Unmarshal(data, &cfg))
		}
		if err := schemas.Validate(embedded.Config, data); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.DownloadTTL != "" {
		if _, err := time.ParseDuration(c.DownloadTTL); err != nil {
			return fmt.Errorf("config error: 'download_ttl' is not a duration: %w", err)
		}
	}

	// Validate directories exist (if specified)
	for key, dir := range map[string]string{"text_dir": c.TextDir, "metadata_dir": c.MetadataDir} {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: %s not found: %s", key, dir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: %s is not a directory: %s", key, dir)
		}
	}

	return nil
}

// DownloadTTLDuration returns DownloadTTL parsed, or the default when unset or invalid.
func (c *Config) DownloadTTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.DownloadTTL); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(Defaults().DownloadTTL)
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.TextDir == "" {
		result.TextDir = defaults.TextDir
	}
	if result.MetadataDir == "" {
		result.MetadataDir = defaults.MetadataDir
	}
	if result.TextExt == "" {
		result.TextExt = defaults.TextExt
	}
	if result.MetadataExt == "" {
		result.MetadataExt = defaults.MetadataExt
	}
	if result.CustomTags == "" {
		result.CustomTags = defaults.CustomTags
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.DownloadTTL == "" {
		result.DownloadTTL = defaults.DownloadTTL
	}

	// Slice fields
	if len(result.SelectedTags) == 0 {
		result.SelectedTags = defaults.SelectedTags
	}

	// Numeric fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
