package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Production encoding by
// default; set LOG_LEVEL=debug for development output.
func NewLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
