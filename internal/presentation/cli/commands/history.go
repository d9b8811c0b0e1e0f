package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ghostcopy/ghostd/internal/adapters/settings"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/crypto"
	"github.com/ghostcopy/ghostd/internal/presentation/cli/output"
)

const previewLength = 48

// HistoryEntry is one listed item for JSON output.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Device    string    `json:"device"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
	Encrypted bool      `json:"encrypted"`
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent clipboard items",
		Long: `List the most recent items in the clipboard store, newest first.

Encrypted text is decrypted for display using the sync passphrase from
the settings file; items that cannot be decrypted show as locked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of items to list")

	return cmd
}

func runHistory(limit int) error {
	appCtx := GetAppContext()
	formatter := appCtx.Formatter
	cfg := appCtx.Config

	settingsStore, err := settings.NewFileStore(afero.NewOsFs(), cfg.Settings.Path, nil)
	if err != nil {
		return fmt.Errorf("could not open settings: %w", err)
	}

	gateway, err := crypto.NewGateway(settingsStore.SyncPassphrase(), cfg.Owner.ID)
	if err != nil {
		return fmt.Errorf("could not set up decryption: %w", err)
	}

	repo, cleanup, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open store: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := repo.GetHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("could not read history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, HistoryEntry{
			ID:        item.ID,
			Type:      string(item.Type),
			Device:    item.DeviceName,
			Preview:   preview(item, gateway),
			CreatedAt: item.CreatedAt,
			Encrypted: item.Encrypted,
		})
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(entries)
	}

	if len(entries) == 0 {
		formatter.Info("No items in history")
		return nil
	}

	table := output.TableData{
		Columns: []output.TableColumn{
			{Header: "WHEN"},
			{Header: "TYPE"},
			{Header: "DEVICE"},
			{Header: "CONTENT"},
		},
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.CreatedAt.Local().Format("Jan 02 15:04"),
			e.Type,
			e.Device,
			e.Preview,
		})
	}

	return formatter.Table(table)
}

// preview produces a single-line display string for an item, decrypting
// inline text when a passphrase is available.
func preview(item *clip.Item, gateway *crypto.Gateway) string {
	switch item.Type {
	case clip.TypeImage:
		return "(image)"
	case clip.TypeFile:
		return fmt.Sprintf("(file: %s)", item.FileName)
	}

	text := item.Content
	if item.Encrypted {
		plaintext, err := gateway.Decrypt(item.Content)
		if err != nil {
			return "(locked)"
		}
		text = string(plaintext)
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) > previewLength {
		text = text[:previewLength] + "…"
	}
	return text
}
