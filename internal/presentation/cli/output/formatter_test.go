package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewFormatterDefaults(t *testing.T) {
	f := NewFormatter()
	if f.format != FormatText {
		t.Errorf("format = %v, want %v", f.format, FormatText)
	}
	if !f.color {
		t.Error("color should default to enabled")
	}
}

func TestFormatterOptions(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(
		WithWriter(&buf),
		WithFormat(FormatJSON),
		WithColor(false),
	)

	if got := f.Format(); got != FormatJSON {
		t.Errorf("Format() = %v, want %v", got, FormatJSON)
	}
	if f.color {
		t.Error("color should be disabled")
	}
	f.Println("captured")
	if buf.String() != "captured\n" {
		t.Errorf("writer got %q", buf.String())
	}
}

func TestFormatterMessageLines(t *testing.T) {
	tests := []struct {
		name  string
		print func(f *Formatter) error
		want  string
	}{
		{"success", func(f *Formatter) error { return f.Success("store ready") }, "✓ store ready"},
		{"error", func(f *Formatter) error { return f.Error("store unavailable") }, "✗ store unavailable"},
		{"warning", func(f *Formatter) error { return f.Warning("shutting down") }, "⚠ shutting down"},
		{"info", func(f *Formatter) error { return f.Info("no items in history") }, "ℹ no items in history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewFormatter(WithWriter(&buf), WithColor(false))
			if err := tt.print(f); err != nil {
				t.Fatalf("print error = %v", err)
			}
			if got := buf.String(); got != tt.want+"\n" {
				t.Errorf("output = %q, want %q", got, tt.want+"\n")
			}
		})
	}
}

func TestFormatterColorWrapping(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(true))
	f.Success("encrypted")

	out := buf.String()
	if !strings.Contains(out, string(ColorGreen)) {
		t.Error("colored success output should carry the green code")
	}
	if !strings.Contains(out, string(ColorReset)) {
		t.Error("colored output should reset at the end")
	}
}

func TestFormatterBoldAndDim(t *testing.T) {
	colored := NewFormatter(WithColor(true))
	if got := colored.Bold("ghostd"); got != string(ColorBold)+"ghostd"+string(ColorReset) {
		t.Errorf("Bold() = %q", got)
	}
	plain := NewFormatter(WithColor(false))
	if got := plain.Dim("Version:"); got != "Version:" {
		t.Errorf("Dim() without color = %q", got)
	}
}

func TestFormatterHeader(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))
	f.Header("GhostCopy status")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("header produced %d lines, want 2", len(lines))
	}
	if lines[0] != "GhostCopy status" {
		t.Errorf("title line = %q", lines[0])
	}
	if lines[1] != strings.Repeat("─", len("GhostCopy status")) {
		t.Errorf("underline = %q", lines[1])
	}
}

func TestFormatterItem(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))
	f.Item("Device", "desk (desktop)")

	if got := buf.String(); got != "  Device: desk (desktop)\n" {
		t.Errorf("Item() = %q", got)
	}
}

func TestFormatterTable(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))

	err := f.Table(TableData{
		Columns: []TableColumn{{Header: "TYPE"}, {Header: "DEVICE"}, {Header: "CONTENT"}},
		Rows: [][]string{
			{"text", "desk", "hello from desk"},
			{"image", "phone", "[image 24 KB]"},
		},
	})
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("table produced %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "TYPE ") {
		t.Errorf("header row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "--") || strings.ContainsAny(lines[1], "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("separator row = %q", lines[1])
	}
	// Columns size to the widest cell in each position.
	if lines[2] != "text   desk    hello from desk" {
		t.Errorf("first row = %q", lines[2])
	}
	if lines[3] != "image  phone   [image 24 KB]  " {
		t.Errorf("second row = %q", lines[3])
	}
}

func TestFormatterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))
	if err := f.Table(TableData{}); err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q", buf.String())
	}
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithFormat(FormatJSON))

	payload := map[string]any{"owner_id": "owner-1", "store_ready": true}
	if err := f.JSON(payload); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["owner_id"] != "owner-1" {
		t.Errorf("owner_id = %v", decoded["owner_id"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output should be indented")
	}
}

func TestFormatterConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				f.Println("line")
				f.Item("key", "value")
			}
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if line != "line" && line != "  key: value" {
			t.Fatalf("interleaved write produced %q", line)
		}
	}
}

// syncBuffer guards a bytes.Buffer so the spinner goroutine and the test
// can share it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStartStop(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("Checking store...",
		WithSpinnerWriter(buf),
		WithSpinnerInterval(time.Millisecond),
	)
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Checking store...") {
		t.Error("spinner never rendered its message")
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop should end by clearing the line")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := NewSpinner("idle")
	// Must not panic or block.
	s.Stop()
}

func TestSpinnerDoubleStartAndStop(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("busy", WithSpinnerWriter(buf), WithSpinnerInterval(time.Millisecond))
	s.Start()
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop()
}
