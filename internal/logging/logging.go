// Package logging builds the application's zap logger from config.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kpraghav/scripdesk/internal/config"
)

// New constructs a *zap.Logger from the logging config. The "text"
// format uses the human-friendly console encoder; "json" uses zap's
// production encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// NewNop returns a no-op logger for tests and optional call sites.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
