package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("omnifocus_edit_task").
		WithOperation("edit_task").
		WithResource("task", "abc123").
		WithReadOnly(false).
		Build()

	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}

	want := map[attribute.Key]string{
		SpanAttrTool:         "omnifocus_edit_task",
		SpanAttrOperation:    "edit_task",
		SpanAttrResourceType: "task",
		SpanAttrResourceID:   "abc123",
	}

	for _, attr := range attrs {
		if expected, ok := want[attr.Key]; ok {
			if attr.Value.AsString() != expected {
				t.Errorf("attribute %s: expected %q, got %q", attr.Key, expected, attr.Value.AsString())
			}
			delete(want, attr.Key)
		}
	}

	if len(want) != 0 {
		t.Errorf("missing attributes: %v", want)
	}
}

func TestSpanAttributeBuilder_EmptyResourceSkipped(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithResource("", "").
		Build()

	if len(attrs) != 0 {
		t.Errorf("expected empty resource attributes to be skipped, got %d", len(attrs))
	}
}

func TestSpanAttributeBuilder_BatchSize(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithBatchSize(12).
		Build()

	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != SpanAttrBatchSize {
		t.Errorf("expected key %s, got %s", SpanAttrBatchSize, attrs[0].Key)
	}
	if attrs[0].Value.AsInt64() != 12 {
		t.Errorf("expected 12, got %d", attrs[0].Value.AsInt64())
	}
}

func TestStartToolSpan(t *testing.T) {
	ctx, span := StartToolSpan(context.Background(), "omnifocus_add_task")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected context to be non-nil")
	}
	if span == nil {
		t.Fatal("expected span to be non-nil")
	}

	// Span helpers should not panic on a non-recording span
	SetSpanSuccess(span)
	SetSpanError(span, errors.New("boom"))
	AddSpanEvent(span, "event")
}

func TestStartBridgeSpan(t *testing.T) {
	_, span := StartBridgeSpan(context.Background(), "filter_tasks", 512)
	defer span.End()

	if span == nil {
		t.Fatal("expected span to be non-nil")
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace ID without a span, got %q", got)
	}
	if got := GetSpanID(context.Background()); got != "" {
		t.Errorf("expected empty span ID without a span, got %q", got)
	}
	if got := SpanContextString(context.Background()); got != "" {
		t.Errorf("expected empty span context string without a span, got %q", got)
	}
}
