package requestctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestLoggerDefaultsToNoop(t *testing.T) {
	if Logger(context.Background()) != NoopLogger() {
		t.Fatal("expected noop logger for empty context")
	}
	//nolint:staticcheck // nil context is handled explicitly
	if Logger(nil) != NoopLogger() {
		t.Fatal("expected noop logger for nil context")
	}
}

func TestLoggerRoundTrip(t *testing.T) {
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if Logger(ctx) != logger {
		t.Fatal("expected stored logger")
	}
}

func TestTraceRoundTrip(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Fatal("expected empty trace id")
	}
	ctx := WithTrace(context.Background(), TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true})
	info, ok := Trace(ctx)
	if !ok || info.SpanID != "def" || !info.Sampled {
		t.Fatalf("unexpected trace info %+v", info)
	}
	if TraceID(ctx) != "abc" {
		t.Fatalf("unexpected trace id %q", TraceID(ctx))
	}
}

func TestTraceLogFields(t *testing.T) {
	if fields := (TraceInfo{}).LogFields(); fields != nil {
		t.Fatalf("expected no fields without a trace, got %v", fields)
	}

	raw := TraceInfo{TraceID: "abc", SpanID: "def"}.LogFields()
	if len(raw) != 2 || raw[0].Key != "trace_id" || raw[0].String != "abc" {
		t.Fatalf("unexpected raw fields %+v", raw)
	}

	cloud := TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true, ProjectID: "knife-prod"}.LogFields()
	if len(cloud) != 3 {
		t.Fatalf("unexpected cloud fields %+v", cloud)
	}
	if cloud[0].Key != "logging.googleapis.com/trace" || cloud[0].String != "projects/knife-prod/traces/abc" {
		t.Fatalf("unexpected trace field %+v", cloud[0])
	}
}
