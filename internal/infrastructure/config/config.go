// Package config provides configuration structs and utilities for the ghostd
// daemon. Daemon-level configuration (identity, transports, intervals) is
// distinct from the user's runtime-mutable settings, which live in the
// settings store.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// Config represents the root configuration for the ghostd daemon.
type Config struct {
	Owner    OwnerConfig    `yaml:"owner"`
	Device   DeviceConfig   `yaml:"device"`
	Store    StoreConfig    `yaml:"store"`
	Push     PushConfig     `yaml:"push"`
	Sync     SyncConfig     `yaml:"sync"`
	Settings SettingsConfig `yaml:"settings"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// OwnerConfig identifies the account owning the synced clipboard.
type OwnerConfig struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email,omitempty"` // empty for anonymous accounts
}

// Anonymous reports whether the account has no email attached.
func (o *OwnerConfig) Anonymous() bool {
	return o.Email == ""
}

// DeviceConfig identifies the current device.
type DeviceConfig struct {
	Type string `yaml:"type"` // desktop, laptop, phone, tablet, web
	Name string `yaml:"name"`
}

// StoreConfig selects and configures the clipboard store backend.
type StoreConfig struct {
	Backend string        `yaml:"backend"` // sqlite, rest
	Path    string        `yaml:"path"`    // sqlite database path
	URL     string        `yaml:"url"`     // rest base URL
	Timeout time.Duration `yaml:"timeout"`

	// RetainItems is the per-owner keep-N retention count enforced by the
	// sqlite backend after each insert.
	RetainItems int `yaml:"retain_items"`
}

// PushConfig configures the low-latency push transport.
type PushConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"` // websocket endpoint
}

// SyncConfig holds the engine's timing knobs.
type SyncConfig struct {
	MonitorInterval   time.Duration `yaml:"monitor_interval"`   // local clipboard poll
	PollInterval      time.Duration `yaml:"poll_interval"`      // remote polling fallback
	InactivityCheck   time.Duration `yaml:"inactivity_check"`   // idle-check tick
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"` // hidden+idle before Polling
	RateLimitInterval time.Duration `yaml:"rate_limit_interval"`
	DebounceInterval  time.Duration `yaml:"debounce_interval"`
}

// SettingsConfig locates the user settings file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds configuration for daemon logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ExporterType string  `yaml:"exporter_type"` // none, stdout, otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
	ServiceName  string  `yaml:"service_name"`
}

// Default configuration values.
const (
	DefaultStoreBackend = "sqlite"
	DefaultStoreTimeout = 15 * time.Second
	DefaultRetainItems  = 50

	DefaultMonitorInterval   = 5 * time.Second
	DefaultPollInterval      = 5 * time.Minute
	DefaultInactivityCheck   = 2 * time.Minute
	DefaultInactivityTimeout = 15 * time.Minute
	DefaultRateLimitInterval = 500 * time.Millisecond
	DefaultDebounceInterval  = 500 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultTracingExporterType = "none"
	DefaultTracingSampleRate   = 1.0
	DefaultTracingServiceName  = "ghostd"
)

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid log formats.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Valid tracing exporter types.
var validTracingExporterTypes = map[string]bool{
	"none":   true,
	"stdout": true,
	"otlp":   true,
}

// Valid store backends.
var validStoreBackends = map[string]bool{
	"sqlite": true,
	"rest":   true,
}

// NewDefaultConfig creates a new Config with sensible default values.
// Owner and device identity have no defaults; they must be filled in before
// the config validates.
func NewDefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Type: string(clip.DeviceDesktop),
		},
		Store: StoreConfig{
			Backend:     DefaultStoreBackend,
			Timeout:     DefaultStoreTimeout,
			RetainItems: DefaultRetainItems,
		},
		Push: PushConfig{
			Enabled: false,
		},
		Sync: SyncConfig{
			MonitorInterval:   DefaultMonitorInterval,
			PollInterval:      DefaultPollInterval,
			InactivityCheck:   DefaultInactivityCheck,
			InactivityTimeout: DefaultInactivityTimeout,
			RateLimitInterval: DefaultRateLimitInterval,
			DebounceInterval:  DefaultDebounceInterval,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			ExporterType: DefaultTracingExporterType,
			SampleRate:   DefaultTracingSampleRate,
			ServiceName:  DefaultTracingServiceName,
		},
	}
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	var errs []error

	if c.Owner.ID == "" {
		errs = append(errs, errors.New("owner: id is required"))
	}

	if err := c.Device.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("device: %w", err))
	}

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if err := c.Push.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("push: %w", err))
	}

	if err := c.Sync.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the DeviceConfig is valid.
func (d *DeviceConfig) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if !clip.IsValidDeviceType(clip.DeviceType(d.Type)) {
		errs = append(errs, fmt.Errorf("invalid type %q: must be one of desktop, laptop, phone, tablet, web", d.Type))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the StoreConfig is valid.
func (s *StoreConfig) Validate() error {
	var errs []error

	if !validStoreBackends[s.Backend] {
		errs = append(errs, fmt.Errorf("invalid backend %q: must be one of sqlite, rest", s.Backend))
	}

	if s.Backend == "rest" {
		if s.URL == "" {
			errs = append(errs, errors.New("url is required for the rest backend"))
		} else if parsed, err := url.Parse(s.URL); err != nil {
			errs = append(errs, fmt.Errorf("invalid url: %w", err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, errors.New("url must use http or https scheme"))
		}
	}

	if s.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be non-negative"))
	}

	if s.RetainItems < 0 {
		errs = append(errs, errors.New("retain_items must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the PushConfig is valid.
func (p *PushConfig) Validate() error {
	if !p.Enabled {
		return nil
	}

	if p.URL == "" {
		return errors.New("url is required when enabled")
	}
	parsed, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return errors.New("url must use ws or wss scheme")
	}
	return nil
}

// Validate checks if the SyncConfig is valid.
func (s *SyncConfig) Validate() error {
	var errs []error

	intervals := []struct {
		name  string
		value time.Duration
	}{
		{"monitor_interval", s.MonitorInterval},
		{"poll_interval", s.PollInterval},
		{"inactivity_check", s.InactivityCheck},
		{"inactivity_timeout", s.InactivityTimeout},
		{"rate_limit_interval", s.RateLimitInterval},
		{"debounce_interval", s.DebounceInterval},
	}
	for _, iv := range intervals {
		if iv.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", iv.name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the LoggingConfig is valid.
func (l *LoggingConfig) Validate() error {
	var errs []error

	if l.Level != "" && !validLogLevels[l.Level] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", l.Level))
	}

	if l.Format != "" && !validLogFormats[l.Format] {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of json, text", l.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the TracingConfig is valid.
func (t *TracingConfig) Validate() error {
	var errs []error

	if t.Enabled {
		if t.ExporterType != "" && !validTracingExporterTypes[t.ExporterType] {
			errs = append(errs, fmt.Errorf("invalid exporter_type %q: must be one of none, stdout, otlp", t.ExporterType))
		}
		if t.ExporterType == "otlp" && t.OTLPEndpoint == "" {
			errs = append(errs, errors.New("otlp_endpoint is required when exporter_type is 'otlp'"))
		}
		if t.SampleRate < 0 || t.SampleRate > 1 {
			errs = append(errs, errors.New("sample_rate must be between 0.0 and 1.0"))
		}
		if t.ServiceName == "" {
			errs = append(errs, errors.New("service_name is required when tracing is enabled"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
