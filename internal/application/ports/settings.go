package ports

import "github.com/ghostcopy/ghostd/internal/domain/clip"

// AutoReceivePolicy selects how inbound items are applied to the local
// clipboard.
type AutoReceivePolicy string

const (
	// ReceiveAlways applies every eligible inbound item unconditionally.
	ReceiveAlways AutoReceivePolicy = "always"

	// ReceiveNever shows an actionable prompt instead of applying.
	ReceiveNever AutoReceivePolicy = "never"

	// ReceiveSmart applies only when the local clipboard has been idle
	// for longer than the staleness window.
	ReceiveSmart AutoReceivePolicy = "smart"
)

// Staleness window bounds, in minutes.
const (
	MinStalenessMinutes     = 1
	MaxStalenessMinutes     = 60
	DefaultStalenessMinutes = 5
)

// ClampStalenessMinutes clamps a staleness window to the valid range,
// substituting the default for non-positive values.
func ClampStalenessMinutes(m int) int {
	switch {
	case m <= 0:
		return DefaultStalenessMinutes
	case m < MinStalenessMinutes:
		return MinStalenessMinutes
	case m > MaxStalenessMinutes:
		return MaxStalenessMinutes
	default:
		return m
	}
}

// SettingsStore holds the user's runtime-mutable preferences. Getters are
// read on every decision, so toggles take effect without restarting the
// engine.
type SettingsStore interface {
	AutoSendEnabled() bool
	SetAutoSendEnabled(enabled bool) error

	TargetDeviceTypes() []clip.DeviceType
	SetTargetDeviceTypes(types []clip.DeviceType) error

	StalenessWindowMinutes() int
	SetStalenessWindowMinutes(minutes int) error

	ReceivePolicy() AutoReceivePolicy
	SetReceivePolicy(policy AutoReceivePolicy) error

	WebhookEnabled() bool
	WebhookURL() string
	SetWebhook(enabled bool, url string) error

	VaultEnabled() bool
	VaultPath() string
	SetVault(enabled bool, path string) error

	SyncPassphrase() string
	SetSyncPassphrase(passphrase string) error
}
