package ports

import (
	"context"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// PushEvent is a low-latency notification that a new item was inserted
// into the owner's store. The carried item includes origin device name and
// type plus the optional target-device-type set.
type PushEvent struct {
	Item *clip.Item
}

// Subscription is a cancellable handle to an active push subscription.
type Subscription interface {
	// Cancel tears down the subscription. Safe to call more than once.
	Cancel()
}

// PushChannel is a subscribe-once, event-driven transport delivering new
// remote items. Delivery is at-least-once; consumers must tolerate
// duplicates.
type PushChannel interface {
	// Subscribe registers onInsert for new items belonging to ownerID.
	// The callback may be invoked from an arbitrary goroutine. Returns an
	// error synchronously if ownerID is empty.
	Subscribe(ctx context.Context, ownerID string, onInsert func(PushEvent)) (Subscription, error)
}
