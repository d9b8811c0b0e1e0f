// Package sidechannel provides the fire-and-forget delivery targets for
// sent items: an HTTPS webhook mirror and a local vault file.
package sidechannel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

const webhookTimeout = 15 * time.Second

// Webhook posts a JSON summary of each sent item to a user-configured
// HTTPS endpoint. Only public addresses are allowed: the URL is the
// user's but the daemon often runs inside private networks, so requests
// to loopback, private, and link-local ranges are refused at dial time.
type Webhook struct {
	client *retryablehttp.Client
}

var _ ports.WebhookSender = (*Webhook)(nil)

// NewWebhook creates the webhook sender.
func NewWebhook() *Webhook {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil
	client.HTTPClient = &http.Client{
		Timeout: webhookTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
				Control: refusePrivateAddr,
			}).DialContext,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &Webhook{client: client}
}

// webhookPayload is the JSON body posted to the endpoint. Encrypted
// content goes out as stored; the webhook endpoint holds no key.
type webhookPayload struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	DeviceName  string    `json:"device_name"`
	DeviceType  string    `json:"device_type"`
	CreatedAt   time.Time `json:"created_at"`
	Encrypted   bool      `json:"encrypted"`
}

// Send posts the item to endpoint. HTTPS is required.
func (w *Webhook) Send(ctx context.Context, endpoint string, item *clip.Item) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https, got %s", u.Scheme)
	}

	body, err := json.Marshal(webhookPayload{
		ID:          item.ID,
		ContentType: string(item.Type),
		Content:     item.Content,
		FileName:    item.FileName,
		DeviceName:  item.DeviceName,
		DeviceType:  string(item.DeviceType),
		CreatedAt:   item.CreatedAt,
		Encrypted:   item.Encrypted,
	})
	if err != nil {
		return fmt.Errorf("could not encode webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ghostd-webhook/1")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// refusePrivateAddr rejects connections to non-public addresses before
// the socket connects.
func refusePrivateAddr(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid webhook address: %w", err)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("webhook address did not resolve to an IP: %s", host)
	}

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return fmt.Errorf("webhook address %s is not publicly routable", ip)
	}
	return nil
}
