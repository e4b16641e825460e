package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger from a level and a format name
// ("json" or "text")
func Setup(level, format string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "json", "":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return fmt.Errorf("invalid log format %q: expected json or text", format)
	}

	if out != nil {
		logrus.SetOutput(out)
	}
	logrus.SetLevel(lvl)
	return nil
}

// InvocationLogger adapts a logrus entry to the per-invocation Logger handed to
// function handlers
type InvocationLogger struct {
	entry *logrus.Entry
}

// NewInvocationLogger creates a logger whose lines carry the given fields
func NewInvocationLogger(entry *logrus.Entry) *InvocationLogger {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return &InvocationLogger{entry: entry}
}

// Log writes an informational line
func (l *InvocationLogger) Log(message string) {
	l.entry.Info(message)
}

// Entry exposes the underlying logrus entry
func (l *InvocationLogger) Entry() *logrus.Entry {
	return l.entry
}
