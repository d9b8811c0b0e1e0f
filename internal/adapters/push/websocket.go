// Package push provides the WebSocket transport that delivers low-latency
// notifications when new clipboard items land in the owner's store.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/coder/websocket"
	"github.com/tidwall/gjson"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

const (
	reconnectMin = 2 * time.Second
	reconnectMax = 2 * time.Minute

	// readLimit bounds inbound frames. Items carry inline text payloads
	// only; blobs travel over the store API.
	readLimit = 4 * 1024 * 1024
)

// Channel is a WebSocket implementation of the push transport. Each
// subscription owns one connection and a reader goroutine that reconnects
// with exponential backoff until cancelled.
type Channel struct {
	endpoint string
	logger   *logging.Logger
}

var _ ports.PushChannel = (*Channel)(nil)

// NewChannel creates a push channel dialing endpoint (a ws:// or wss:// URL).
func NewChannel(endpoint string, logger *logging.Logger) (*Channel, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return nil, fmt.Errorf("invalid push endpoint: %s", endpoint)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Channel{endpoint: endpoint, logger: logger}, nil
}

// subscription is the cancellable handle for one reader goroutine.
type subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Cancel tears down the subscription and waits for the reader to exit.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Subscribe dials the endpoint and starts a reader goroutine that invokes
// onInsert for every new item belonging to ownerID. The first dial happens
// asynchronously; connection failures are retried with backoff rather than
// surfaced, so a flaky network does not tear down the subscription.
func (c *Channel) Subscribe(ctx context.Context, ownerID string, onInsert func(ports.PushEvent)) (ports.Subscription, error) {
	if ownerID == "" {
		return nil, gerrors.ErrOwnerIDRequired
	}
	if onInsert == nil {
		return nil, fmt.Errorf("onInsert callback is required")
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	go c.run(subCtx, ownerID, onInsert, sub.done)

	return sub, nil
}

// run is the reconnect loop. It dials, reads until the connection drops,
// then waits out the backoff and dials again. Exits when ctx is cancelled.
func (c *Channel) run(ctx context.Context, ownerID string, onInsert func(ports.PushEvent), done chan<- struct{}) {
	defer close(done)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = reconnectMin
	bo.MaxInterval = reconnectMax

	for {
		if ctx.Err() != nil {
			return
		}

		err := c.readLoop(ctx, ownerID, onInsert, bo)
		if ctx.Err() != nil {
			return
		}

		wait := bo.NextBackOff()
		c.logger.Warn("push connection lost, reconnecting",
			"error", errString(err),
			"backoff", wait.String(),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// readLoop dials one connection, subscribes, and reads frames until an
// error occurs. Resets the backoff after a successful subscribe so a
// long-lived connection that finally drops reconnects quickly.
func (c *Channel) readLoop(ctx context.Context, ownerID string, onInsert func(ports.PushEvent), bo *backoff.ExponentialBackOff) error {
	conn, _, err := websocket.Dial(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dialing push endpoint: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	conn.SetReadLimit(readLimit)

	sub := map[string]string{"op": "subscribe", "owner_id": ownerID}
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding subscribe: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("sending subscribe: %w", err)
	}

	bo.Reset()
	c.logger.Debug("push channel connected", "endpoint", c.endpoint)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading frame: %w", err)
		}
		if typ != websocket.MessageText {
			c.logger.Debug("ignoring non-text push frame", "bytes", len(data))
			continue
		}

		c.handleFrame(ownerID, data, onInsert)
	}
}

// handleFrame decodes one inbound frame and dispatches insert events.
// Frames that fail to parse are skipped; the stream stays up.
func (c *Channel) handleFrame(ownerID string, data []byte, onInsert func(ports.PushEvent)) {
	op := gjson.GetBytes(data, "op").Str
	switch op {
	case "insert":
		raw := gjson.GetBytes(data, "item").Raw
		if raw == "" {
			c.logger.Warn("insert frame without item")
			return
		}

		var item clip.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			c.logger.Warn("undecodable push item", "error", err.Error())
			return
		}
		if item.OwnerID != "" && item.OwnerID != ownerID {
			return
		}

		onInsert(ports.PushEvent{Item: &item})

	case "ping", "pong", "subscribed":
		// Keepalive and ack frames need no action.

	default:
		c.logger.Debug("unexpected push frame", "op", op)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
