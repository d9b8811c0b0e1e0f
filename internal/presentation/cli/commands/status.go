package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ghostcopy/ghostd/internal/adapters/settings"
	"github.com/ghostcopy/ghostd/internal/presentation/cli/output"
)

// StatusInfo holds daemon status for JSON output.
type StatusInfo struct {
	OwnerID       string `json:"owner_id"`
	Device        string `json:"device"`
	DeviceType    string `json:"device_type"`
	StoreBackend  string `json:"store_backend"`
	StoreReady    bool   `json:"store_ready"`
	StoreError    string `json:"store_error,omitempty"`
	ItemCount     int    `json:"item_count"`
	PushEnabled   bool   `json:"push_enabled"`
	AutoSend      bool   `json:"auto_send"`
	ReceivePolicy string `json:"receive_policy"`
	Encrypted     bool   `json:"encrypted"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	appCtx := GetAppContext()
	formatter := appCtx.Formatter
	cfg := appCtx.Config

	settingsStore, err := settings.NewFileStore(afero.NewOsFs(), cfg.Settings.Path, nil)
	if err != nil {
		return fmt.Errorf("could not open settings: %w", err)
	}

	info := StatusInfo{
		OwnerID:       cfg.Owner.ID,
		Device:        cfg.Device.Name,
		DeviceType:    cfg.Device.Type,
		StoreBackend:  cfg.Store.Backend,
		PushEnabled:   cfg.Push.Enabled,
		AutoSend:      settingsStore.AutoSendEnabled(),
		ReceivePolicy: string(settingsStore.ReceivePolicy()),
		Encrypted:     settingsStore.SyncPassphrase() != "",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var spinner *output.Spinner
	if formatter.Format() != output.FormatJSON {
		spinner = output.NewSpinner("Checking store...")
		spinner.Start()
	}

	repo, cleanup, err := openRepository(cfg)
	if err != nil {
		info.StoreError = err.Error()
	} else {
		defer cleanup()
		items, err := repo.GetHistory(ctx, cfg.Store.RetainItems)
		if err != nil {
			info.StoreError = err.Error()
		} else {
			info.StoreReady = true
			info.ItemCount = len(items)
		}
	}
	if spinner != nil {
		spinner.Stop()
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(info)
	}

	formatter.Header("GhostCopy status")
	formatter.Item("Owner", info.OwnerID)
	formatter.Item("Device", fmt.Sprintf("%s (%s)", info.Device, info.DeviceType))
	formatter.Item("Store", info.StoreBackend)
	if info.StoreReady {
		formatter.Item("Store health", fmt.Sprintf("ok (%d items)", info.ItemCount))
	} else {
		formatter.Item("Store health", "unavailable: "+info.StoreError)
	}
	formatter.Item("Push", onOff(info.PushEnabled))
	formatter.Item("Auto-send", onOff(info.AutoSend))
	formatter.Item("Receive policy", info.ReceivePolicy)
	formatter.Item("Encryption", onOff(info.Encrypted))

	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
