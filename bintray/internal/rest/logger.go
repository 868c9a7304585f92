package rest

import (
	"log/slog"

	"github.com/hashicorp/go-retryablehttp"
)

// newLeveledLogger returns a retryablehttp.LeveledLogger writing to logger.
// Per-request debug chatter is dropped; retries and give-ups are kept.
func newLeveledLogger(logger *slog.Logger) retryablehttp.LeveledLogger {
	return &leveledLogger{log: logger}
}

type leveledLogger struct {
	log *slog.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	// Do nothing.
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(msg, keysAndValues...)
}
