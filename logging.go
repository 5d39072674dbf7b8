package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// The terminal is owned by bubbletea, so debug output goes to a file.
var logger = zap.NewNop().Sugar()

func enableDebugLogging(enabled bool) error {
	if !enabled {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{filepath.Join(os.TempDir(), "tertris-debug.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = built.Sugar()
	return nil
}

func debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func flushLogs() {
	_ = logger.Sync()
}
