// Package rest provides an HTTP client implementation of the clipboard
// store, for deployments backed by a hosted GhostCopy server.
package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

const defaultTimeout = 30 * time.Second

// Repository talks to a GhostCopy item server over HTTP.
type Repository struct {
	baseURL    string
	client     *http.Client
	deviceType clip.DeviceType
	deviceName string
}

var _ ports.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithHTTPClient overrides the HTTP client, mostly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Repository) {
		r.client = client
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(r *Repository) {
		r.client.Timeout = d
	}
}

// NewRepository creates a repository pointed at baseURL.
func NewRepository(baseURL string, deviceType clip.DeviceType, deviceName string, opts ...Option) (*Repository, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid store URL: %s", baseURL)
	}
	if !clip.IsValidDeviceType(deviceType) {
		return nil, fmt.Errorf("invalid device type: %s", deviceType)
	}
	if deviceName == "" {
		return nil, gerrors.ErrDeviceNameRequired
	}

	r := &Repository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: defaultTimeout},
		deviceType: deviceType,
		deviceName: deviceName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// DeviceType returns the type of the current device.
func (r *Repository) DeviceType() clip.DeviceType {
	return r.deviceType
}

// DeviceName returns the display name of the current device.
func (r *Repository) DeviceName() string {
	return r.deviceName
}

type insertRequest struct {
	Item *clip.Item `json:"item"`
	Data string     `json:"data,omitempty"`
	Name string     `json:"name,omitempty"`
}

// Insert persists a text-like item.
func (r *Repository) Insert(ctx context.Context, item *clip.Item) (*clip.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return r.postItem(ctx, "/v1/items", insertRequest{Item: item})
}

// InsertImage persists an image item together with its bytes.
func (r *Repository) InsertImage(ctx context.Context, item *clip.Item, data []byte) (*clip.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, gerrors.ErrUnsupportedContent
	}
	return r.postItem(ctx, "/v1/items/image", insertRequest{
		Item: item,
		Data: base64.StdEncoding.EncodeToString(data),
	})
}

// InsertFile persists a file item together with its name and bytes.
func (r *Repository) InsertFile(ctx context.Context, item *clip.Item, name string, data []byte) (*clip.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, gerrors.ErrUnsupportedContent
	}
	return r.postItem(ctx, "/v1/items/file", insertRequest{
		Item: item,
		Data: base64.StdEncoding.EncodeToString(data),
		Name: name,
	})
}

func (r *Repository) postItem(ctx context.Context, path string, reqBody insertRequest) (*clip.Item, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, gerrors.ErrStoreUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, r.statusError(resp)
	}

	var stored clip.Item
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	return &stored, nil
}

// GetHistory returns up to limit items, most recent first.
func (r *Repository) GetHistory(ctx context.Context, limit int) ([]*clip.Item, error) {
	u := r.baseURL + "/v1/items?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, gerrors.ErrStoreUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, r.statusError(resp)
	}

	var items []*clip.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("could not decode history: %w", err)
	}
	return items, nil
}

// DownloadFile fetches the externally stored bytes for an item.
func (r *Repository) DownloadFile(ctx context.Context, item *clip.Item) ([]byte, bool, error) {
	if item.ContentRef == "" {
		return nil, false, nil
	}

	u := r.baseURL + "/v1/blobs/" + url.PathEscape(item.ContentRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, false, gerrors.ErrStoreUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, r.statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("could not read payload: %w", err)
	}
	return data, true, nil
}

func (r *Repository) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &gerrors.GhostdError{
		Code:    gerrors.CodeStore,
		Message: fmt.Sprintf("store returned %d: %s", resp.StatusCode, msg),
	}
}
