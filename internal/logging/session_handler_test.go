package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInvocationHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := newInvocationHandler(slog.NewJSONHandler(&buf, nil), "run-123")

	slog.New(handler).With("extra", "value").Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"invocation_id":"run-123"`) {
		t.Errorf("expected invocation_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestInvocationHandlerNilBase(t *testing.T) {
	if _, ok := newInvocationHandler(nil, "x").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when base is nil")
	}
}
