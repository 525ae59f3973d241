package logger_test

import (
	"errors"

	"github.com/wonny/proptier/pkg/config"
	"github.com/wonny/proptier/pkg/logger"
)

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithStage("S1").WithFields(map[string]interface{}{
		"input_count":      1000,
		"missing_area_pct": 1.25,
	}).Info("Join completed")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	err := errors.New("bin edges must be unique")
	log.WithError(err).
		WithField("column", "price").
		Error("Valuation scoring failed")
}
