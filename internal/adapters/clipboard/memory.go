package clipboard

import (
	"context"
	"sync"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// Memory is an in-memory clipboard for tests and headless hosts without a
// display server. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	content ports.Content
}

var _ ports.LocalClipboard = (*Memory)(nil)

// NewMemory creates an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{content: ports.Content{Empty: true}}
}

// Read returns the current content.
func (m *Memory) Read(_ context.Context) (ports.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content, nil
}

// WriteText replaces the clipboard with classified text content.
func (m *Memory) WriteText(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = ports.Content{Kind: clip.DetectTextType(text), Text: text}
	return nil
}

// WriteHTML replaces the clipboard with HTML content.
func (m *Memory) WriteHTML(_ context.Context, html, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = ports.Content{Kind: clip.TypeHTML, Text: html}
	return nil
}

// WriteImage replaces the clipboard with image bytes.
func (m *Memory) WriteImage(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = ports.Content{Kind: clip.TypeImage, Data: data}
	return nil
}

// WriteFile replaces the clipboard with file content.
func (m *Memory) WriteFile(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = ports.Content{Kind: clip.TypeFile, FileName: name, Data: data}
	return nil
}

// Set overwrites the content directly, for test setup.
func (m *Memory) Set(content ports.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = content
}

// Clear empties the clipboard.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = ports.Content{Empty: true}
}
