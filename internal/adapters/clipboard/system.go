// Package clipboard provides implementations of the local clipboard port:
// the real OS clipboard and an in-memory clipboard for tests and headless
// deployments.
package clipboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	xclipboard "golang.design/x/clipboard"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// System is the OS clipboard. Text-like content is classified on read;
// inbound files are written to a downloads directory and their path is
// placed on the clipboard as text, since most platforms have no portable
// file-on-clipboard representation.
type System struct {
	downloadsDir string

	initOnce sync.Once
	initErr  error
}

var _ ports.LocalClipboard = (*System)(nil)

// NewSystem creates the OS clipboard adapter. downloadsDir receives
// inbound file payloads; empty selects ~/.ghostcopy/downloads.
func NewSystem(downloadsDir string) (*System, error) {
	if downloadsDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		downloadsDir = filepath.Join(homeDir, ".ghostcopy", "downloads")
	}
	return &System{downloadsDir: downloadsDir}, nil
}

// ensureInit performs the one-time platform clipboard handshake.
func (s *System) ensureInit() error {
	s.initOnce.Do(func() {
		s.initErr = xclipboard.Init()
	})
	if s.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", s.initErr)
	}
	return nil
}

// Read returns the current clipboard content. Image data takes precedence
// over text when both formats are present.
func (s *System) Read(_ context.Context) (ports.Content, error) {
	if err := s.ensureInit(); err != nil {
		return ports.Content{}, err
	}

	if data := xclipboard.Read(xclipboard.FmtImage); len(data) > 0 {
		return ports.Content{Kind: clip.TypeImage, Data: data}, nil
	}

	if data := xclipboard.Read(xclipboard.FmtText); len(data) > 0 {
		text := string(data)
		return ports.Content{Kind: clip.DetectTextType(text), Text: text}, nil
	}

	return ports.Content{Empty: true}, nil
}

// WriteText places text on the clipboard.
func (s *System) WriteText(_ context.Context, text string) error {
	if err := s.ensureInit(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// WriteHTML places HTML on the clipboard. The platform text format is the
// only portable target, so the plaintext fallback is what actually lands;
// rich-paste targets reconstruct formatting from the markup when the raw
// HTML is pasted.
func (s *System) WriteHTML(ctx context.Context, html, plain string) error {
	if plain == "" {
		plain = html
	}
	return s.WriteText(ctx, plain)
}

// WriteImage places image bytes (PNG) on the clipboard.
func (s *System) WriteImage(_ context.Context, data []byte) error {
	if err := s.ensureInit(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtImage, data)
	return nil
}

// WriteFile stores the payload under the downloads directory and places
// the resulting path on the clipboard as text.
func (s *System) WriteFile(ctx context.Context, name string, data []byte) error {
	if name == "" {
		name = "clipboard-file"
	}
	// Strip any directory components a remote device may have sent.
	name = filepath.Base(name)

	if err := os.MkdirAll(s.downloadsDir, 0755); err != nil {
		return fmt.Errorf("could not create downloads directory: %w", err)
	}

	path := filepath.Join(s.downloadsDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}

	return s.WriteText(ctx, path)
}
