package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestSetup(t *testing.T) {
	defer func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetOutput(os.Stderr)
	}()

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Setup("debug", "json", &buf); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		if logrus.GetLevel() != logrus.DebugLevel {
			t.Errorf("Expected debug level, got %s", logrus.GetLevel())
		}

		logrus.WithField("key", "value").Info("hello")

		var line map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
		}
		if line["msg"] != "hello" || line["key"] != "value" {
			t.Errorf("Unexpected log line: %v", line)
		}
	})

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Setup("warn", "text", &buf); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		logrus.Info("dropped")
		if buf.Len() != 0 {
			t.Errorf("Expected info line to be filtered at warn level, got %q", buf.String())
		}
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		if err := Setup("loud", "json", nil); err == nil {
			t.Error("Expected error for invalid level")
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		if err := Setup("info", "xml", nil); err == nil {
			t.Error("Expected error for invalid format")
		}
	})
}

func TestInvocationLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := logger.WithField("invocation_id", "abc")

	NewInvocationLogger(entry).Log("Hello endpoint called")

	if len(hook.Entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(hook.Entries))
	}
	last := hook.LastEntry()
	if last.Level != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", last.Level)
	}
	if last.Message != "Hello endpoint called" {
		t.Errorf("Unexpected message: %s", last.Message)
	}
	if last.Data["invocation_id"] != "abc" {
		t.Errorf("Expected invocation_id field, got %v", last.Data)
	}
}
