package ports

import (
	"context"
	"time"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// WebhookSender delivers newly synced items to a user-configured HTTPS
// endpoint. Delivery is best-effort: errors are logged by the caller and
// never propagated into the send pipeline.
type WebhookSender interface {
	Send(ctx context.Context, url string, item *clip.Item) error
}

// VaultAppender appends a timestamped entry to an external vault file.
// Best-effort, like the webhook.
type VaultAppender interface {
	Append(ctx context.Context, path, content string, at time.Time) error
}

// Preprocessor optionally rewrites outgoing text content (for example,
// shortening long URLs). Failures fall back to the original content.
type Preprocessor interface {
	Process(ctx context.Context, content string) (string, error)
}
