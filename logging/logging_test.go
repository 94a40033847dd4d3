package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugSuppressedByDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debug("verbose detail %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug message emitted at info level: %q", buf.String())
	}

	l.Info("opened %s", "test.db")
	if !strings.Contains(buf.String(), "INFO opened test.db") {
		t.Errorf("info message missing: %q", buf.String())
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.Info("should not appear")
	l.Error("prepare failed: %s", "syntax error")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info emitted at error level: %q", out)
	}
	if !strings.Contains(out, "ERROR prepare failed: syntax error") {
		t.Errorf("error message missing: %q", out)
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Debug("stepping row %d", 3)
	if !strings.Contains(buf.String(), "DEBUG stepping row 3") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic with a nil writer anywhere.
	l := Nop()
	l.Error("x")
	l.Info("y")
	l.Debug("z")
}
