package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBufferLoggerCaptures(t *testing.T) {
	l := NewBufferLogger()
	l.Info("cycle %d complete", 3)
	l.Error("render failed: %s", "boom")

	if len(l.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(l.Messages))
	}
	if l.Messages[0].Level != "info" || l.Messages[0].Message != "cycle 3 complete" {
		t.Errorf("unexpected first message: %+v", l.Messages[0])
	}
	if !l.HasLevel("error") {
		t.Error("expected an error-level message")
	}
	if l.HasLevel("warn") {
		t.Error("unexpected warn-level message")
	}
	if !l.Contains("render failed") {
		t.Error("Contains should match substring of captured message")
	}

	l.Clear()
	if len(l.Messages) != 0 {
		t.Errorf("expected no messages after Clear, got %d", len(l.Messages))
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	// Must not panic or write anywhere.
	l := Noop()
	l.Debug("a %d", 1)
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")

	if len(buf.Messages) != 1 {
		t.Fatalf("expected default logger to capture 1 message, got %d", len(buf.Messages))
	}
}

func TestFileLoggerWritesLeveledLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "test.log")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("started cycle %d", 7)
	l.Warn("archive copy failed")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "INFO started cycle 7") {
		t.Errorf("missing info line in log:\n%s", content)
	}
	if !strings.Contains(content, "WARN archive copy failed") {
		t.Errorf("missing warn line in log:\n%s", content)
	}
}

func TestFileLoggerEmptyPathIsNoop(t *testing.T) {
	l, err := NewFileLogger("")
	if err != nil {
		t.Fatalf("NewFileLogger(\"\"): %v", err)
	}
	l.Info("discarded")
	if err := l.Close(); err != nil {
		t.Errorf("Close on no-op logger: %v", err)
	}
}
