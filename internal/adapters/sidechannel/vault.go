package sidechannel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/ghostcopy/ghostd/internal/application/ports"
)

// Vault appends timestamped clipboard entries to a notes file, typically
// inside an Obsidian-style vault. Entries are separated by a rule so the
// file stays readable as Markdown.
type Vault struct {
	fs afero.Fs
	mu sync.Mutex
}

var _ ports.VaultAppender = (*Vault)(nil)

// NewVault creates a vault appender over fs. A nil fs selects the real
// filesystem.
func NewVault(fs afero.Fs) *Vault {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Vault{fs: fs}
}

// Append writes one entry to the file at path, creating it and its parent
// directory as needed.
func (v *Vault) Append(_ context.Context, path, content string, at time.Time) error {
	if path == "" {
		return fmt.Errorf("vault path is empty")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create vault directory: %w", err)
	}

	f, err := v.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open vault file: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("\n---\n%s\n\n%s\n", at.Format(time.RFC3339), content)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("could not append to vault: %w", err)
	}
	return nil
}
