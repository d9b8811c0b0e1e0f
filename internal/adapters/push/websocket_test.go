package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Config{
		Level:  logging.LevelError,
		Format: logging.FormatText,
		Output: io.Discard,
	})
}

func TestNewChannelValidatesEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"ws", "ws://localhost:8080/push", false},
		{"wss", "wss://push.example.com/v1", false},
		{"http", "http://example.com", true},
		{"garbage", "://nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChannel(tt.endpoint, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChannel(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeRequiresOwner(t *testing.T) {
	ch, err := NewChannel("ws://localhost:9", testLogger())
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	_, err = ch.Subscribe(context.Background(), "", func(ports.PushEvent) {})
	if !errors.Is(err, gerrors.ErrOwnerIDRequired) {
		t.Errorf("Subscribe() error = %v, want ErrOwnerIDRequired", err)
	}

	_, err = ch.Subscribe(context.Background(), "owner-1", nil)
	if err == nil {
		t.Error("Subscribe() should reject a nil callback")
	}
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	ch, err := NewChannel("ws://127.0.0.1:9", testLogger())
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	sub, err := ch.Subscribe(context.Background(), "owner-1", func(ports.PushEvent) {})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sub.Cancel()
	sub.Cancel()
}

func TestHandleFrame(t *testing.T) {
	ch, err := NewChannel("ws://localhost:9", testLogger())
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	item := &clip.Item{
		ID:         "item-1",
		OwnerID:    "owner-1",
		Content:    "hello",
		Type:       clip.TypeText,
		DeviceType: clip.DevicePhone,
		DeviceName: "my-phone",
	}
	itemJSON, _ := json.Marshal(item)

	tests := []struct {
		name      string
		frame     string
		wantEvent bool
	}{
		{
			name:      "insert frame",
			frame:     `{"op":"insert","item":` + string(itemJSON) + `}`,
			wantEvent: true,
		},
		{
			name:      "insert for another owner",
			frame:     `{"op":"insert","item":{"id":"x","owner_id":"owner-2","type":"text","device_name":"d"}}`,
			wantEvent: false,
		},
		{
			name:      "insert missing item",
			frame:     `{"op":"insert"}`,
			wantEvent: false,
		},
		{
			name:      "ping frame",
			frame:     `{"op":"ping"}`,
			wantEvent: false,
		},
		{
			name:      "unknown op",
			frame:     `{"op":"delete","item_id":"x"}`,
			wantEvent: false,
		},
		{
			name:      "malformed json",
			frame:     `{"op":"insert","item":{`,
			wantEvent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *clip.Item
			ch.handleFrame("owner-1", []byte(tt.frame), func(ev ports.PushEvent) {
				got = ev.Item
			})
			if (got != nil) != tt.wantEvent {
				t.Errorf("handleFrame() delivered=%v, want %v", got != nil, tt.wantEvent)
			}
			if tt.wantEvent && got.ID != "item-1" {
				t.Errorf("delivered item ID = %q, want %q", got.ID, "item-1")
			}
		})
	}
}
