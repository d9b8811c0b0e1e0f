package sidechannel

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

func webhookItem() *clip.Item {
	return &clip.Item{
		ID:         "item-1",
		OwnerID:    "owner-1",
		Content:    "hello",
		Type:       clip.TypeText,
		DeviceType: clip.DeviceDesktop,
		DeviceName: "test-desktop",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestWebhookRejectsPlainHTTP(t *testing.T) {
	w := NewWebhook()

	err := w.Send(context.Background(), "http://hooks.example.com/clip", webhookItem())
	if err == nil {
		t.Fatal("Send() should reject non-HTTPS URLs")
	}
	if !strings.Contains(err.Error(), "https") {
		t.Errorf("error should mention https, got %v", err)
	}
}

func TestWebhookRejectsLoopbackAddress(t *testing.T) {
	// A local TLS server sits on 127.0.0.1; the dialer must refuse it
	// even though the URL is well-formed HTTPS.
	srv := httptest.NewTLSServer(nil)
	defer srv.Close()

	w := NewWebhook()
	w.client.RetryMax = 0
	err := w.Send(context.Background(), srv.URL, webhookItem())
	if err == nil {
		t.Fatal("Send() should refuse loopback addresses")
	}
}

func TestWebhookRejectsMalformedURL(t *testing.T) {
	w := NewWebhook()

	if err := w.Send(context.Background(), "://not-a-url", webhookItem()); err == nil {
		t.Error("Send() should reject malformed URLs")
	}
}
