package logging

import (
	"log/slog"
	"os"
)

// New builds the process logger. Level comes from the CM_LOG_LEVEL
// environment variable; the summary-drop path logs at debug, so a
// saturated queue stays quiet under the default level.
func New() *slog.Logger {
	var level slog.Level
	switch os.Getenv("CM_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
