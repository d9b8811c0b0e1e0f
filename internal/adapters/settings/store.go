// Package settings provides the file-backed store for runtime-mutable
// user preferences. Settings are kept in a YAML file, written on every
// change, and reloaded live when the file changes on disk so edits made
// by other processes take effect without restarting the daemon.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

// fileSettings is the on-disk YAML shape.
type fileSettings struct {
	AutoSendEnabled        bool     `yaml:"auto_send_enabled"`
	TargetDeviceTypes      []string `yaml:"target_device_types,omitempty"`
	StalenessWindowMinutes int      `yaml:"staleness_window_minutes"`
	ReceivePolicy          string   `yaml:"receive_policy"`
	WebhookEnabled         bool     `yaml:"webhook_enabled"`
	WebhookURL             string   `yaml:"webhook_url,omitempty"`
	VaultEnabled           bool     `yaml:"vault_enabled"`
	VaultPath              string   `yaml:"vault_path,omitempty"`
	SyncPassphrase         string   `yaml:"sync_passphrase,omitempty"`
}

func defaultSettings() fileSettings {
	return fileSettings{
		AutoSendEnabled:        true,
		StalenessWindowMinutes: ports.DefaultStalenessMinutes,
		ReceivePolicy:          string(ports.ReceiveSmart),
	}
}

// FileStore is a YAML-file-backed implementation of the settings store.
type FileStore struct {
	fs     afero.Fs
	path   string
	logger *logging.Logger

	mu      sync.RWMutex
	current fileSettings
}

var _ ports.SettingsStore = (*FileStore)(nil)

// NewFileStore opens (or creates) the settings file at path. An empty
// path selects ~/.ghostcopy/settings.yaml.
func NewFileStore(fs afero.Fs, path string, logger *logging.Logger) (*FileStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".ghostcopy", "settings.yaml")
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &FileStore{
		fs:      fs,
		path:    path,
		logger:  logger,
		current: defaultSettings(),
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not check settings file: %w", err)
	}
	if exists {
		if err := s.reload(); err != nil {
			return nil, err
		}
	} else {
		if err := s.save(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Path returns the settings file path.
func (s *FileStore) Path() string {
	return s.path
}

// reload reads the file into memory. Unknown policy values fall back to
// the default so a hand-edited file cannot wedge the daemon.
func (s *FileStore) reload() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("could not read settings: %w", err)
	}

	loaded := defaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("could not parse settings: %w", err)
	}
	normalize(&loaded)

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return nil
}

func normalize(f *fileSettings) {
	switch ports.AutoReceivePolicy(f.ReceivePolicy) {
	case ports.ReceiveAlways, ports.ReceiveNever, ports.ReceiveSmart:
	default:
		f.ReceivePolicy = string(ports.ReceiveSmart)
	}
	f.StalenessWindowMinutes = ports.ClampStalenessMinutes(f.StalenessWindowMinutes)

	valid := f.TargetDeviceTypes[:0]
	for _, t := range f.TargetDeviceTypes {
		if clip.IsValidDeviceType(clip.DeviceType(t)) {
			valid = append(valid, t)
		}
	}
	f.TargetDeviceTypes = valid
}

// save writes the current settings to disk. Caller holds no locks.
func (s *FileStore) save() error {
	s.mu.RLock()
	snapshot := s.current
	s.mu.RUnlock()

	data, err := yaml.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("could not create settings directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0600); err != nil {
		return fmt.Errorf("could not write settings: %w", err)
	}
	return nil
}

func (s *FileStore) update(mutate func(*fileSettings)) error {
	s.mu.Lock()
	mutate(&s.current)
	normalize(&s.current)
	s.mu.Unlock()
	return s.save()
}

// AutoSendEnabled reports whether local changes are monitored and sent.
func (s *FileStore) AutoSendEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AutoSendEnabled
}

// SetAutoSendEnabled toggles outbound monitoring.
func (s *FileStore) SetAutoSendEnabled(enabled bool) error {
	return s.update(func(f *fileSettings) { f.AutoSendEnabled = enabled })
}

// TargetDeviceTypes returns the outbound target filter. Empty means
// broadcast.
func (s *FileStore) TargetDeviceTypes() []clip.DeviceType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.current.TargetDeviceTypes) == 0 {
		return nil
	}
	types := make([]clip.DeviceType, len(s.current.TargetDeviceTypes))
	for i, t := range s.current.TargetDeviceTypes {
		types[i] = clip.DeviceType(t)
	}
	return types
}

// SetTargetDeviceTypes replaces the outbound target filter.
func (s *FileStore) SetTargetDeviceTypes(types []clip.DeviceType) error {
	return s.update(func(f *fileSettings) {
		f.TargetDeviceTypes = f.TargetDeviceTypes[:0]
		for _, t := range types {
			f.TargetDeviceTypes = append(f.TargetDeviceTypes, string(t))
		}
	})
}

// StalenessWindowMinutes returns the smart-receive staleness window.
func (s *FileStore) StalenessWindowMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.StalenessWindowMinutes
}

// SetStalenessWindowMinutes updates the staleness window, clamped to the
// valid range.
func (s *FileStore) SetStalenessWindowMinutes(minutes int) error {
	return s.update(func(f *fileSettings) { f.StalenessWindowMinutes = minutes })
}

// ReceivePolicy returns the auto-receive policy.
func (s *FileStore) ReceivePolicy() ports.AutoReceivePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ports.AutoReceivePolicy(s.current.ReceivePolicy)
}

// SetReceivePolicy updates the auto-receive policy.
func (s *FileStore) SetReceivePolicy(policy ports.AutoReceivePolicy) error {
	switch policy {
	case ports.ReceiveAlways, ports.ReceiveNever, ports.ReceiveSmart:
	default:
		return fmt.Errorf("unknown receive policy: %s", policy)
	}
	return s.update(func(f *fileSettings) { f.ReceivePolicy = string(policy) })
}

// WebhookEnabled reports whether sent items are mirrored to a webhook.
func (s *FileStore) WebhookEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.WebhookEnabled
}

// WebhookURL returns the webhook destination.
func (s *FileStore) WebhookURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.WebhookURL
}

// SetWebhook updates the webhook mirror configuration.
func (s *FileStore) SetWebhook(enabled bool, url string) error {
	return s.update(func(f *fileSettings) {
		f.WebhookEnabled = enabled
		f.WebhookURL = url
	})
}

// VaultEnabled reports whether sent text is appended to the local vault.
func (s *FileStore) VaultEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.VaultEnabled
}

// VaultPath returns the vault file path.
func (s *FileStore) VaultPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.VaultPath
}

// SetVault updates the vault configuration.
func (s *FileStore) SetVault(enabled bool, path string) error {
	return s.update(func(f *fileSettings) {
		f.VaultEnabled = enabled
		f.VaultPath = path
	})
}

// SyncPassphrase returns the end-to-end encryption passphrase, empty when
// encryption is off.
func (s *FileStore) SyncPassphrase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SyncPassphrase
}

// SetSyncPassphrase updates the encryption passphrase.
func (s *FileStore) SetSyncPassphrase(passphrase string) error {
	return s.update(func(f *fileSettings) { f.SyncPassphrase = passphrase })
}
