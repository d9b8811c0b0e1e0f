package clipboard

import (
	"context"
	"testing"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

func TestMemoryStartsEmpty(t *testing.T) {
	m := NewMemory()

	content, err := m.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !content.Empty {
		t.Error("new clipboard should be empty")
	}
}

func TestMemoryWriteText(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		wantKind clip.ContentType
	}{
		{"plain", "hello world", clip.TypeText},
		{"html", "<div>hello</div>", clip.TypeHTML},
		{"markdown", "# Heading\n\n- item one\n- item two", clip.TypeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.WriteText(ctx, tt.text); err != nil {
				t.Fatalf("WriteText() error = %v", err)
			}
			content, err := m.Read(ctx)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if content.Text != tt.text {
				t.Errorf("Text = %q, want %q", content.Text, tt.text)
			}
			if content.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", content.Kind, tt.wantKind)
			}
		})
	}
}

func TestMemoryWriteImageAndFile(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	img := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := m.WriteImage(ctx, img); err != nil {
		t.Fatalf("WriteImage() error = %v", err)
	}
	content, _ := m.Read(ctx)
	if content.Kind != clip.TypeImage || string(content.Data) != string(img) {
		t.Errorf("after WriteImage: Kind=%q Data=%v", content.Kind, content.Data)
	}

	if err := m.WriteFile(ctx, "notes.txt", []byte("data")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	content, _ = m.Read(ctx)
	if content.Kind != clip.TypeFile || content.FileName != "notes.txt" {
		t.Errorf("after WriteFile: Kind=%q FileName=%q", content.Kind, content.FileName)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.WriteText(ctx, "something")
	m.Clear()

	content, _ := m.Read(ctx)
	if !content.Empty {
		t.Error("Clear() should empty the clipboard")
	}
}
