package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a default config with identity filled in.
func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Owner.ID = "owner-1"
	cfg.Device.Name = "work-laptop"
	return cfg
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("expected store backend %q, got %q", DefaultStoreBackend, cfg.Store.Backend)
	}
	if cfg.Store.Timeout != DefaultStoreTimeout {
		t.Errorf("expected store timeout %v, got %v", DefaultStoreTimeout, cfg.Store.Timeout)
	}
	if cfg.Store.RetainItems != DefaultRetainItems {
		t.Errorf("expected retain_items %d, got %d", DefaultRetainItems, cfg.Store.RetainItems)
	}
	if cfg.Push.Enabled {
		t.Error("expected push to be disabled by default")
	}
	if cfg.Sync.MonitorInterval != DefaultMonitorInterval {
		t.Errorf("expected monitor interval %v, got %v", DefaultMonitorInterval, cfg.Sync.MonitorInterval)
	}
	if cfg.Sync.PollInterval != DefaultPollInterval {
		t.Errorf("expected poll interval %v, got %v", DefaultPollInterval, cfg.Sync.PollInterval)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("expected log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.Tracing.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
}

func TestConfig_Validate_WithIdentityIsValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_RequiresIdentity(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing identity")
	}
	if !strings.Contains(err.Error(), "owner") {
		t.Errorf("expected owner error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("expected device name error, got: %v", err)
	}
}

func TestOwnerConfig_Anonymous(t *testing.T) {
	o := OwnerConfig{ID: "owner-1"}
	if !o.Anonymous() {
		t.Error("owner without email should be anonymous")
	}
	o.Email = "user@example.com"
	if o.Anonymous() {
		t.Error("owner with email should not be anonymous")
	}
}

func TestDeviceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		device  DeviceConfig
		wantErr bool
	}{
		{"valid desktop", DeviceConfig{Type: "desktop", Name: "desk"}, false},
		{"valid phone", DeviceConfig{Type: "phone", Name: "pixel"}, false},
		{"missing name", DeviceConfig{Type: "desktop"}, true},
		{"invalid type", DeviceConfig{Type: "toaster", Name: "kitchen"}, true},
		{"empty type", DeviceConfig{Name: "desk"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.device.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		store   StoreConfig
		wantErr bool
	}{
		{"valid sqlite", StoreConfig{Backend: "sqlite"}, false},
		{"valid rest", StoreConfig{Backend: "rest", URL: "https://store.example.com"}, false},
		{"rest over http", StoreConfig{Backend: "rest", URL: "http://localhost:8080"}, false},
		{"unknown backend", StoreConfig{Backend: "dynamo"}, true},
		{"rest without url", StoreConfig{Backend: "rest"}, true},
		{"rest with bad scheme", StoreConfig{Backend: "rest", URL: "ftp://store.example.com"}, true},
		{"negative timeout", StoreConfig{Backend: "sqlite", Timeout: -time.Second}, true},
		{"negative retention", StoreConfig{Backend: "sqlite", RetainItems: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.store.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPushConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		push    PushConfig
		wantErr bool
	}{
		{"disabled needs nothing", PushConfig{}, false},
		{"enabled with wss", PushConfig{Enabled: true, URL: "wss://push.example.com/ws"}, false},
		{"enabled with ws", PushConfig{Enabled: true, URL: "ws://localhost:9000"}, false},
		{"enabled without url", PushConfig{Enabled: true}, true},
		{"enabled with https", PushConfig{Enabled: true, URL: "https://push.example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.push.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSyncConfig_Validate(t *testing.T) {
	valid := NewDefaultConfig().Sync
	if err := valid.Validate(); err != nil {
		t.Errorf("default sync config should validate, got: %v", err)
	}

	broken := valid
	broken.DebounceInterval = 0
	err := broken.Validate()
	if err == nil {
		t.Fatal("expected error for zero debounce_interval")
	}
	if !strings.Contains(err.Error(), "debounce_interval") {
		t.Errorf("expected debounce_interval in error, got: %v", err)
	}

	negative := valid
	negative.MonitorInterval = -time.Second
	if negative.Validate() == nil {
		t.Error("expected error for negative monitor_interval")
	}
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		logging LoggingConfig
		wantErr bool
	}{
		{"defaults", LoggingConfig{Level: "info", Format: "text"}, false},
		{"empty is allowed", LoggingConfig{}, false},
		{"json debug", LoggingConfig{Level: "debug", Format: "json"}, false},
		{"bad level", LoggingConfig{Level: "verbose"}, true},
		{"bad format", LoggingConfig{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.logging.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTracingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr bool
	}{
		{"disabled needs nothing", TracingConfig{}, false},
		{
			"enabled stdout",
			TracingConfig{Enabled: true, ExporterType: "stdout", SampleRate: 1.0, ServiceName: "ghostd"},
			false,
		},
		{
			"enabled otlp with endpoint",
			TracingConfig{Enabled: true, ExporterType: "otlp", OTLPEndpoint: "localhost:4318", SampleRate: 0.5, ServiceName: "ghostd"},
			false,
		},
		{
			"otlp without endpoint",
			TracingConfig{Enabled: true, ExporterType: "otlp", SampleRate: 1.0, ServiceName: "ghostd"},
			true,
		},
		{
			"bad exporter",
			TracingConfig{Enabled: true, ExporterType: "jaeger", SampleRate: 1.0, ServiceName: "ghostd"},
			true,
		},
		{
			"sample rate out of range",
			TracingConfig{Enabled: true, ExporterType: "stdout", SampleRate: 1.5, ServiceName: "ghostd"},
			true,
		},
		{
			"missing service name",
			TracingConfig{Enabled: true, ExporterType: "stdout", SampleRate: 1.0},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tracing.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "dynamo"
	cfg.Logging.Level = "verbose"
	cfg.Sync.PollInterval = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"store", "logging", "sync"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q section in error, got: %v", want, err)
		}
	}
}
