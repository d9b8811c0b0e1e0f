// Package clip provides the core domain types for clipboard synchronization:
// items, devices, content classification, and content fingerprinting.
package clip

import (
	"slices"
	"time"

	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

// ContentType classifies the payload of a clipboard item.
type ContentType string

const (
	TypeText     ContentType = "text"
	TypeHTML     ContentType = "html"
	TypeMarkdown ContentType = "markdown"
	TypeImage    ContentType = "image"
	TypeFile     ContentType = "file"
)

// DeviceType identifies the kind of device an item originated from or is
// targeted at.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceLaptop  DeviceType = "laptop"
	DevicePhone   DeviceType = "phone"
	DeviceTablet  DeviceType = "tablet"
	DeviceWeb     DeviceType = "web"
)

// ValidDeviceTypes lists all recognized device types.
var ValidDeviceTypes = []DeviceType{
	DeviceDesktop, DeviceLaptop, DevicePhone, DeviceTablet, DeviceWeb,
}

// IsValidDeviceType reports whether t is a recognized device type.
func IsValidDeviceType(t DeviceType) bool {
	return slices.Contains(ValidDeviceTypes, t)
}

// Item is a single clipboard entry. Items are immutable once created;
// deletion and retention are the store's responsibility, not the engine's.
//
// Text-like items carry their payload inline in Content. Image and file
// items carry a ContentRef pointing at externally stored bytes, which the
// repository downloads on demand.
type Item struct {
	ID          string       `json:"id,omitempty"`
	OwnerID     string       `json:"owner_id"`
	Content     string       `json:"content,omitempty"`
	ContentRef  string       `json:"content_ref,omitempty"`
	Type        ContentType  `json:"type"`
	DeviceType  DeviceType   `json:"device_type"`
	DeviceName  string       `json:"device_name"`
	TargetTypes []DeviceType `json:"target_types,omitempty"`
	FileName    string       `json:"file_name,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Encrypted   bool         `json:"encrypted"`
}

// Validate checks the fields the engine and stores require.
func (i *Item) Validate() error {
	if i.OwnerID == "" {
		return gerrors.ErrOwnerIDRequired
	}
	if i.Type == "" {
		return gerrors.ErrContentTypeRequired
	}
	if i.DeviceName == "" {
		return gerrors.ErrDeviceNameRequired
	}
	return nil
}

// IsBroadcast reports whether the item is addressed to all device types.
// An absent target filter means broadcast.
func (i *Item) IsBroadcast() bool {
	return len(i.TargetTypes) == 0
}

// TargetedAt reports whether a device of type t should receive this item.
func (i *Item) TargetedAt(t DeviceType) bool {
	if i.IsBroadcast() {
		return true
	}
	return slices.Contains(i.TargetTypes, t)
}

// IsInline reports whether the payload travels inline with the item.
func (i *Item) IsInline() bool {
	return i.Type == TypeText || i.Type == TypeHTML || i.Type == TypeMarkdown
}

// Device is a registered device belonging to an owner. Registration and
// bookkeeping happen elsewhere; the engine only reads these.
type Device struct {
	OwnerID      string     `json:"owner_id"`
	Type         DeviceType `json:"type"`
	Name         string     `json:"name"`
	LastActiveAt time.Time  `json:"last_active_at"`
}
