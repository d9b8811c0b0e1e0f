// Package ports defines the narrow interfaces through which the sync engine
// consumes its external collaborators: the remote store, push transport,
// system clipboard, settings, security scanning, notifications, and the
// fire-and-forget side channels.
package ports

import (
	"context"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// Repository is the remote clipboard store. Items are append-only from the
// engine's perspective; history is returned most-recent-first and retention
// is the store's own concern.
type Repository interface {
	// Insert persists a text-like item and returns the stored copy with
	// its assigned ID.
	Insert(ctx context.Context, item *clip.Item) (*clip.Item, error)

	// InsertImage persists an image item together with its bytes.
	InsertImage(ctx context.Context, item *clip.Item, data []byte) (*clip.Item, error)

	// InsertFile persists a file item together with its name and bytes.
	InsertFile(ctx context.Context, item *clip.Item, name string, data []byte) (*clip.Item, error)

	// GetHistory returns up to limit items, most recent first.
	GetHistory(ctx context.Context, limit int) ([]*clip.Item, error)

	// DownloadFile fetches the externally stored bytes for an image or
	// file item. The second return is false when the bytes are absent.
	DownloadFile(ctx context.Context, item *clip.Item) ([]byte, bool, error)

	// DeviceType returns the type of the current device.
	DeviceType() clip.DeviceType

	// DeviceName returns the display name of the current device.
	DeviceName() string
}
