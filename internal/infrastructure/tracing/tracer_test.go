package tracing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Enabled {
		t.Error("expected tracing to be disabled by default")
	}

	if cfg.ExporterType != ExporterNone {
		t.Errorf("expected exporter type 'none', got %s", cfg.ExporterType)
	}

	if cfg.ServiceName != "ghostd" {
		t.Errorf("expected service name 'ghostd', got %s", cfg.ServiceName)
	}

	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
}

func TestNew_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Enabled:      false,
		ExporterType: ExporterNone,
	}

	tracer, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tracer == nil {
		t.Fatal("expected non-nil tracer")
	}

	// Starting a span should work even when disabled
	ctx, span := tracer.Start(ctx, "test-span")
	if span == nil {
		t.Error("expected non-nil span")
	}
	span.End()

	_ = ctx
}

func TestNew_StdoutExporter(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}

	cfg := Config{
		Enabled:      true,
		ExporterType: ExporterStdout,
		ServiceName:  "test-service",
		Environment:  "test",
		SampleRate:   1.0,
		Output:       buf,
	}

	tracer, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracer.Shutdown(ctx)

	if tracer.provider == nil {
		t.Error("expected non-nil provider for enabled tracer")
	}
}

func newStdoutTracer(t *testing.T) (*Tracer, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	tracer, err := New(context.Background(), Config{
		Enabled:      true,
		ExporterType: ExporterStdout,
		ServiceName:  "test-service",
		SampleRate:   1.0,
		Output:       buf,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tracer, buf
}

func TestSendSpan(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	_, span := tracer.StartSendSpan(ctx, "text", 256)
	span.SetEncrypted(true)
	span.SetItemID("item-1")
	span.End()

	tracer.Shutdown(ctx)

	out := buf.String()
	if out == "" {
		t.Fatal("expected trace output to be written")
	}
	if !strings.Contains(out, "sync.send") {
		t.Error("expected a sync.send span in output")
	}
	if !strings.Contains(out, "clip.item_id") {
		t.Error("expected the item id attribute in output")
	}
}

func TestSendSpan_Dropped(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	_, span := tracer.StartSendSpan(ctx, "text", 64)
	span.EndDropped("rate_limited")

	tracer.Shutdown(ctx)

	if !strings.Contains(buf.String(), "clip.drop_reason") {
		t.Error("expected the drop reason attribute in output")
	}
}

func TestSendSpan_Error(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	_, span := tracer.StartSendSpan(ctx, "image", 1024)
	span.EndWithError(errors.New("store offline"))

	tracer.Shutdown(ctx)

	if buf.Len() == 0 {
		t.Error("expected trace output to be written")
	}
}

func TestApplySpan(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	_, span := tracer.StartApplySpan(ctx, "item-7", "phone")
	span.SetDecrypted(true)
	span.End()

	tracer.Shutdown(ctx)

	out := buf.String()
	if !strings.Contains(out, "sync.apply") {
		t.Error("expected a sync.apply span in output")
	}
	if !strings.Contains(out, "clip.from_device") {
		t.Error("expected the origin device attribute in output")
	}
}

func TestApplySpan_Error(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	_, span := tracer.StartApplySpan(ctx, "item-8", "tablet")
	span.EndWithError(errors.New("decryption failed"))

	tracer.Shutdown(ctx)

	if buf.Len() == 0 {
		t.Error("expected trace output to be written")
	}
}

func TestDefault(t *testing.T) {
	// Reset global for test
	global = nil

	tracer := Default()
	if tracer == nil {
		t.Error("expected non-nil default tracer")
	}

	// Should return a no-op tracer
	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "test")
	span.End()
	_ = ctx
}

func TestSpanHelpers(t *testing.T) {
	ctx := context.Background()
	tracer, buf := newStdoutTracer(t)

	ctx, span := tracer.Start(ctx, "test-span")

	AddEvent(ctx, "test-event")
	RecordError(ctx, errors.New("test error"))

	span.End()
	tracer.Shutdown(ctx)

	if buf.Len() == 0 {
		t.Error("expected trace output to be written")
	}
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()
	tracer, _ := newStdoutTracer(t)
	defer tracer.Shutdown(context.Background())

	ctx, _ = tracer.Start(ctx, "test-span")
	span := SpanFromContext(ctx)

	if span == nil {
		t.Error("expected non-nil span from context")
	}
}

func TestSamplers(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
	}{
		{"always sample", 1.0},
		{"never sample", 0.0},
		{"ratio sample", 0.5},
		{"above max", 1.5},
		{"below min", -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			buf := &bytes.Buffer{}

			cfg := Config{
				Enabled:      true,
				ExporterType: ExporterStdout,
				ServiceName:  "test-service",
				SampleRate:   tt.sampleRate,
				Output:       buf,
			}

			tracer, err := New(ctx, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tracer.Shutdown(ctx)
		})
	}
}
