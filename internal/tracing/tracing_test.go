package tracing

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false}, testLogger())
	if err != nil {
		t.Fatalf("Init disabled: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown func")
	}

	_, span := Tracer().Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop provider produced a recording span context")
	}
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitUnsupportedExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, Exporter: "zipkin"}, testLogger())
	if err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
	if !strings.Contains(err.Error(), "zipkin") {
		t.Errorf("error %q does not name the exporter", err)
	}
}

func TestInitStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Enabled:     true,
		ServiceName: "satvis-test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &buf,
	}

	shutdown, err := Init(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		Init(context.Background(), Config{}, testLogger())
	})

	_, span := Tracer().Start(context.Background(), "visibility.test")
	if !span.SpanContext().IsValid() {
		t.Error("expected a valid span context with tracing enabled")
	}
	span.End()

	ShutdownWithTimeout(context.Background(), shutdown, testLogger())

	if !strings.Contains(buf.String(), "visibility.test") {
		t.Errorf("exported spans do not contain span name; got %q", buf.String())
	}
}
