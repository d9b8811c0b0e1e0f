package sidechannel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestVaultAppendCreatesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	vault := NewVault(fs)

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if err := vault.Append(context.Background(), "/vault/clips.md", "first snippet", at); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := afero.ReadFile(fs, "/vault/clips.md")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "2026-03-14T09:30:00Z") {
		t.Errorf("entry should carry the timestamp, got:\n%s", content)
	}
	if !strings.Contains(content, "first snippet") {
		t.Errorf("entry should carry the content, got:\n%s", content)
	}
	if !strings.Contains(content, "---") {
		t.Errorf("entries should be separated by a rule, got:\n%s", content)
	}
}

func TestVaultAppendAccumulates(t *testing.T) {
	fs := afero.NewMemMapFs()
	vault := NewVault(fs)
	ctx := context.Background()

	now := time.Now()
	for _, snippet := range []string{"one", "two", "three"} {
		if err := vault.Append(ctx, "/vault/clips.md", snippet, now); err != nil {
			t.Fatalf("Append(%q) error = %v", snippet, err)
		}
	}

	data, err := afero.ReadFile(fs, "/vault/clips.md")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	content := string(data)
	for _, snippet := range []string{"one", "two", "three"} {
		if !strings.Contains(content, snippet) {
			t.Errorf("file should contain %q", snippet)
		}
	}
	if got := strings.Count(content, "---"); got != 3 {
		t.Errorf("file should contain 3 separators, got %d", got)
	}
}

func TestVaultAppendRejectsEmptyPath(t *testing.T) {
	vault := NewVault(afero.NewMemMapFs())

	if err := vault.Append(context.Background(), "", "content", time.Now()); err == nil {
		t.Error("Append() should reject an empty path")
	}
}
