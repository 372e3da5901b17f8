package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/ducky/parameter"
)

const (
	logDir      = parameter.LogDir
	logFileName = parameter.LogFileName
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a discarding logger unless debug is set
// With debug, JSON records go to logs/ducky.log, rotated when it grows past maxLogSize
// The terminal is owned by the screen, so nothing is ever written to stdout or stderr
func setupLogging(debug bool) (*slog.Logger, *os.File) {
	if !debug {
		return discardLogger(), nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return discardLogger(), nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("ducky-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discardLogger(), nil
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
	return logger, f
}

func discardLogger() *slog.Logger {
	logger := slog.New(slog.DiscardHandler)
	slog.SetDefault(logger)
	return logger
}
