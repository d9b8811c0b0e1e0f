package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ghostcopy/ghostd/internal/adapters/settings"
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/presentation/cli/output"
)

// NewSettingsCmd creates the settings command group.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change runtime preferences",
		Long: `Manage the runtime-mutable preferences in the settings file.

A running daemon picks changes up live; no restart is needed.`,
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func openSettings() (*settings.FileStore, error) {
	appCtx := GetAppContext()
	return settings.NewFileStore(afero.NewOsFs(), appCtx.Config.Settings.Path, nil)
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := GetFormatter()

			store, err := openSettings()
			if err != nil {
				return fmt.Errorf("could not open settings: %w", err)
			}

			targets := "all devices"
			if types := store.TargetDeviceTypes(); len(types) > 0 {
				names := make([]string, len(types))
				for i, t := range types {
					names[i] = string(t)
				}
				targets = strings.Join(names, ", ")
			}

			if formatter.Format() == output.FormatJSON {
				return formatter.JSON(map[string]any{
					"auto_send":          store.AutoSendEnabled(),
					"receive_policy":     string(store.ReceivePolicy()),
					"staleness_minutes":  store.StalenessWindowMinutes(),
					"targets":            targets,
					"webhook_enabled":    store.WebhookEnabled(),
					"webhook_url":        store.WebhookURL(),
					"vault_enabled":      store.VaultEnabled(),
					"vault_path":         store.VaultPath(),
					"encryption_enabled": store.SyncPassphrase() != "",
				})
			}

			formatter.Header("Settings")
			formatter.Item("Auto-send", onOff(store.AutoSendEnabled()))
			formatter.Item("Receive policy", string(store.ReceivePolicy()))
			formatter.Item("Staleness window", fmt.Sprintf("%d min", store.StalenessWindowMinutes()))
			formatter.Item("Send targets", targets)
			formatter.Item("Webhook", webhookSummary(store))
			formatter.Item("Vault", vaultSummary(store))
			formatter.Item("Encryption", onOff(store.SyncPassphrase() != ""))
			return nil
		},
	}
}

func webhookSummary(store *settings.FileStore) string {
	if !store.WebhookEnabled() {
		return "off"
	}
	return store.WebhookURL()
}

func vaultSummary(store *settings.FileStore) string {
	if !store.VaultEnabled() {
		return "off"
	}
	return store.VaultPath()
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: `Change one setting. Keys:

  auto-send     true | false
  policy        always | never | smart
  staleness     minutes (1-60)
  targets       comma-separated device types, or "all"
  webhook       https URL, or "off"
  vault         file path, or "off"
  passphrase    sync passphrase, or "off" to disable encryption`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := GetFormatter()

			store, err := openSettings()
			if err != nil {
				return fmt.Errorf("could not open settings: %w", err)
			}

			key, value := args[0], args[1]
			if err := applySetting(store, key, value); err != nil {
				return err
			}

			formatter.Success("Updated %s", key)
			return nil
		},
	}
}

func applySetting(store *settings.FileStore, key, value string) error {
	switch key {
	case "auto-send":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto-send expects true or false, got %q", value)
		}
		return store.SetAutoSendEnabled(enabled)

	case "policy":
		return store.SetReceivePolicy(ports.AutoReceivePolicy(value))

	case "staleness":
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("staleness expects minutes, got %q", value)
		}
		return store.SetStalenessWindowMinutes(minutes)

	case "targets":
		if value == "all" {
			return store.SetTargetDeviceTypes(nil)
		}
		var types []clip.DeviceType
		for _, part := range strings.Split(value, ",") {
			t := clip.DeviceType(strings.TrimSpace(part))
			if !clip.IsValidDeviceType(t) {
				return fmt.Errorf("unknown device type %q", part)
			}
			types = append(types, t)
		}
		return store.SetTargetDeviceTypes(types)

	case "webhook":
		if value == "off" {
			return store.SetWebhook(false, "")
		}
		if !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("webhook URL must use https")
		}
		return store.SetWebhook(true, value)

	case "vault":
		if value == "off" {
			return store.SetVault(false, "")
		}
		return store.SetVault(true, value)

	case "passphrase":
		if value == "off" {
			return store.SetSyncPassphrase("")
		}
		return store.SetSyncPassphrase(value)

	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}
