package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions configures NewLogger.
type LoggerOptions struct {
	Level   string // debug, info, warn, error; empty means info
	Format  string // json or console; empty means console
	Verbose bool   // forces debug level
}

// NewLogger builds a zap logger. JSON output uses the production encoder,
// console output the development one. Logs go to stderr.
func NewLogger(opts LoggerOptions) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var config zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.Development = false
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
