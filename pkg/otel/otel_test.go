package otel

import (
	"bytes"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInit_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(t.Context(), Config{ServiceVersion: "test", Exporter: &buf})
	if err != nil {
		t.Fatal(err)
	}
	_, span := otel.Tracer("test").Start(t.Context(), "trace.Materialize")
	span.End()
	if err := shutdown(t.Context()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "trace.Materialize") {
		t.Fatalf("span not exported: %s", buf.String())
	}
}

func TestInit_WithoutExporter(t *testing.T) {
	shutdown, err := Init(t.Context(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatal(err)
	}
}
