package ports

import (
	"context"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// Content is a typed snapshot of the local system clipboard.
type Content struct {
	Kind clip.ContentType

	// Text holds the payload for text, html, and markdown content.
	Text string

	// Data holds raw bytes for image and file content.
	Data []byte

	// FileName is set for file content.
	FileName string

	// Empty marks an empty clipboard; all other fields are zero.
	Empty bool
}

// LocalClipboard abstracts the OS clipboard. Write failures surface the
// underlying platform error.
type LocalClipboard interface {
	Read(ctx context.Context) (Content, error)

	WriteText(ctx context.Context, text string) error

	// WriteHTML writes HTML content with a plaintext fallback for
	// targets that cannot accept rich content.
	WriteHTML(ctx context.Context, html, plain string) error

	WriteImage(ctx context.Context, data []byte) error

	WriteFile(ctx context.Context, name string, data []byte) error
}
