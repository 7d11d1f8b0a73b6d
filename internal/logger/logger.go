// Package logger builds the zap loggers used by the savedplaces CLI.
//
// Two formats are supported: "json" (zap's production encoder, one JSON object per
// line) and "console" (zap's development encoder, human-readable). Logs are written to
// stderr so that reports and run summaries on stdout stay machine-readable.
//
// Example usage:
//
//	log, err := logger.New("info", "console")
//	if err != nil {
//	    return err
//	}
//	log.Warn("place skipped", zap.String("slug", slug), zap.Error(err))
package logger

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a logger with the given minimum level and format.
// An empty level means "info"; an empty format means "json".
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, eris.Errorf("logger: unknown format %q", format)
	}

	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrap(err, "logger: parse level")
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel

	logger, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "logger: build")
	}
	return logger, nil
}

// Init builds a logger and installs it as zap's global logger
func Init(level, format string) (*zap.Logger, error) {
	logger, err := New(level, format)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
