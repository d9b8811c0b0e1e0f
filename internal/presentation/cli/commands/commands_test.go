package commands

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/ghostcopy/ghostd/internal/adapters/settings"
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"version", "init", "run", "status", "history", "settings"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestRootCmdGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	for _, flag := range []string{"config", "output", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("root command is missing global flag %q", flag)
		}
	}
}

func newSettingsForTest(t *testing.T) *settings.FileStore {
	t.Helper()
	store, err := settings.NewFileStore(afero.NewMemMapFs(), "/test/settings.yaml", nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*settings.FileStore) bool
	}{
		{
			name:  "disable auto send",
			key:   "auto-send",
			value: "false",
			check: func(s *settings.FileStore) bool { return !s.AutoSendEnabled() },
		},
		{
			name:  "set policy",
			key:   "policy",
			value: "always",
			check: func(s *settings.FileStore) bool { return s.ReceivePolicy() == ports.ReceiveAlways },
		},
		{
			name:    "bad policy",
			key:     "policy",
			value:   "sometimes",
			wantErr: true,
		},
		{
			name:  "set staleness",
			key:   "staleness",
			value: "10",
			check: func(s *settings.FileStore) bool { return s.StalenessWindowMinutes() == 10 },
		},
		{
			name:    "non-numeric staleness",
			key:     "staleness",
			value:   "soon",
			wantErr: true,
		},
		{
			name:  "set targets",
			key:   "targets",
			value: "phone, tablet",
			check: func(s *settings.FileStore) bool {
				types := s.TargetDeviceTypes()
				return len(types) == 2 && types[0] == clip.DevicePhone
			},
		},
		{
			name:  "reset targets",
			key:   "targets",
			value: "all",
			check: func(s *settings.FileStore) bool { return s.TargetDeviceTypes() == nil },
		},
		{
			name:    "unknown target type",
			key:     "targets",
			value:   "toaster",
			wantErr: true,
		},
		{
			name:  "set webhook",
			key:   "webhook",
			value: "https://hooks.example.com/clip",
			check: func(s *settings.FileStore) bool {
				return s.WebhookEnabled() && s.WebhookURL() == "https://hooks.example.com/clip"
			},
		},
		{
			name:    "insecure webhook",
			key:     "webhook",
			value:   "http://hooks.example.com/clip",
			wantErr: true,
		},
		{
			name:  "disable webhook",
			key:   "webhook",
			value: "off",
			check: func(s *settings.FileStore) bool { return !s.WebhookEnabled() },
		},
		{
			name:  "set passphrase",
			key:   "passphrase",
			value: "hunter2",
			check: func(s *settings.FileStore) bool { return s.SyncPassphrase() == "hunter2" },
		},
		{
			name:    "unknown key",
			key:     "ringtone",
			value:   "marimba",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSettingsForTest(t)
			err := applySetting(store, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applySetting(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(store) {
				t.Errorf("applySetting(%q, %q) did not take effect", tt.key, tt.value)
			}
		})
	}
}
