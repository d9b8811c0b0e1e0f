package clip

import (
	"errors"
	"testing"

	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

func TestItemValidate(t *testing.T) {
	valid := func() *Item {
		return &Item{
			OwnerID:    "owner-1",
			Type:       TypeText,
			DeviceName: "desk",
			Content:    "hello",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr error
	}{
		{"valid", func(*Item) {}, nil},
		{"missing owner", func(i *Item) { i.OwnerID = "" }, gerrors.ErrOwnerIDRequired},
		{"missing type", func(i *Item) { i.Type = "" }, gerrors.ErrContentTypeRequired},
		{"missing device name", func(i *Item) { i.DeviceName = "" }, gerrors.ErrDeviceNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mutate(item)
			err := item.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemTargeting(t *testing.T) {
	tests := []struct {
		name    string
		targets []DeviceType
		device  DeviceType
		want    bool
	}{
		{"no filter is broadcast", nil, DevicePhone, true},
		{"empty filter is broadcast", []DeviceType{}, DeviceWeb, true},
		{"listed type matches", []DeviceType{DevicePhone, DeviceTablet}, DevicePhone, true},
		{"unlisted type filtered out", []DeviceType{DevicePhone}, DeviceDesktop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{TargetTypes: tt.targets}
			if got := item.TargetedAt(tt.device); got != tt.want {
				t.Errorf("TargetedAt(%s) = %v, want %v", tt.device, got, tt.want)
			}
		})
	}
}

func TestItemIsBroadcast(t *testing.T) {
	if !(&Item{}).IsBroadcast() {
		t.Error("item with no targets should be broadcast")
	}
	if (&Item{TargetTypes: []DeviceType{DevicePhone}}).IsBroadcast() {
		t.Error("item with targets should not be broadcast")
	}
}

func TestItemIsInline(t *testing.T) {
	inline := []ContentType{TypeText, TypeHTML, TypeMarkdown}
	for _, ct := range inline {
		if !(&Item{Type: ct}).IsInline() {
			t.Errorf("%s should be inline", ct)
		}
	}
	for _, ct := range []ContentType{TypeImage, TypeFile} {
		if (&Item{Type: ct}).IsInline() {
			t.Errorf("%s should not be inline", ct)
		}
	}
}

func TestIsValidDeviceType(t *testing.T) {
	for _, dt := range ValidDeviceTypes {
		if !IsValidDeviceType(dt) {
			t.Errorf("%s should be valid", dt)
		}
	}
	for _, dt := range []DeviceType{"", "toaster", "Desktop"} {
		if IsValidDeviceType(dt) {
			t.Errorf("%q should not be valid", dt)
		}
	}
}
