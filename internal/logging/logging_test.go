// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"log"
	"os"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	DebugEnabled = false
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("this should not appear")

	if buf.Len() > 0 {
		t.Errorf("Debug output when disabled: %s", buf.String())
	}
}

func TestDebugEnabled(t *testing.T) {
	DebugEnabled = true
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("test message %d", 42)

	if !bytes.Contains(buf.Bytes(), []byte("DEBUG: test message 42")) {
		t.Errorf("Expected debug output, got: %s", buf.String())
	}
	DebugEnabled = false
}

func TestStdSinkFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	StdSink{}.Log(LevelInfo, "option.active", map[string]any{"option": "BINARY", "side": "local"})

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("INFO: option.active")) {
		t.Errorf("expected level+event prefix, got: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("option=BINARY")) || !bytes.Contains([]byte(out), []byte("side=local")) {
		t.Errorf("expected sorted fields in output, got: %s", out)
	}
}

func TestStdSinkSuppressesDebugWhenDisabled(t *testing.T) {
	DebugEnabled = false
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	StdSink{}.Log(LevelDebug, "should.not.appear", nil)

	if buf.Len() > 0 {
		t.Errorf("expected no output, got: %s", buf.String())
	}
}

func TestNopSinkDiscards(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	NopSink{}.Log(LevelError, "ignored", map[string]any{"x": 1})

	if buf.Len() > 0 {
		t.Errorf("expected NopSink to discard, got: %s", buf.String())
	}
}
