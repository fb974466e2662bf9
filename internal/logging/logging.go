// Package logging builds the zap logger shared by the CLI and services.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a logger writing to stderr at level ("debug", "info", "warn",
// "error"; empty means info) in the given format (json or console; empty
// means console).
func New(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var config zap.Config
	switch strings.ToLower(format) {
	case FormatJSON:
		config = zap.NewProductionConfig()
	case "", FormatConsole:
		config = zap.NewDevelopmentConfig()
		config.Development = false
		config.DisableStacktrace = true
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q (want %s or %s)", format, FormatJSON, FormatConsole)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
