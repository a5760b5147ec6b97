package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "FILE_TAGGER_"

// FromEnv builds a partial Config from FILE_TAGGER_* environment variables.
// Unset or unparsable variables leave the field at its zero value.
func FromEnv() Config {
	return Config{
		TextDir:        getEnvString("TEXT_DIR", ""),
		MetadataDir:    getEnvString("METADATA_DIR", ""),
		TextExt:        getEnvString("TEXT_EXT", ""),
		MetadataExt:    getEnvString("METADATA_EXT", ""),
		SelectedTags:   getEnvList("SELECTED_TAGS"),
		CustomTags:     getEnvString("CUSTOM_TAGS", ""),
		Output:         getEnvString("OUTPUT", ""),
		Workers:        getEnvInt("WORKERS", 0),
		LogLevel:       getEnvString("LOG_LEVEL", ""),
		LogFormat:      getEnvString("LOG_FORMAT", ""),
		Port:           getEnvInt("PORT", 0),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 0)),
		DownloadTTL:    getEnvString("DOWNLOAD_TTL", ""),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 0),
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
