package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/config"
)

// NewInitCmd creates the init command, which writes a starter config file.
func NewInitCmd() *cobra.Command {
	var (
		ownerID    string
		email      string
		deviceType string
		deviceName string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the initial configuration",
		Long: `Write a starter configuration to ~/.ghostcopy/config.yaml.

A fresh owner ID is generated unless one is supplied, so a single-user
self-hosted setup works without any account registration. Point other
devices at the same owner ID to share a clipboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(ownerID, email, deviceType, deviceName, force)
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owner account ID (generated when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "account email (omit for an anonymous account)")
	cmd.Flags().StringVar(&deviceType, "device-type", string(clip.DeviceDesktop), "device type: desktop, laptop, phone, tablet, web")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "device display name (defaults to hostname)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

func runInit(ownerID, email, deviceType, deviceName string, force bool) error {
	formatter := GetFormatter()

	loader, err := config.NewLoader("")
	if err != nil {
		return fmt.Errorf("could not create config loader: %w", err)
	}

	configPath := globalFlags.ConfigFile
	if configPath == "" {
		configPath = loader.DefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
	}

	if ownerID == "" {
		ownerID = uuid.New().String()
	}
	if deviceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("could not determine hostname: %w", err)
		}
		deviceName = hostname
	}

	cfg := config.NewDefaultConfig()
	cfg.Owner.ID = ownerID
	cfg.Owner.Email = email
	cfg.Device.Type = deviceType
	cfg.Device.Name = deviceName
	cfg.Store.Path = loader.DefaultStorePath()
	cfg.Settings.Path = loader.DefaultSettingsPath()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := loader.Save(cfg, configPath); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	formatter.Success("Configuration written to %s", configPath)
	formatter.Item("Owner ID", ownerID)
	formatter.Item("Device", fmt.Sprintf("%s (%s)", deviceName, deviceType))
	formatter.Item("Store", cfg.Store.Path)
	formatter.Println("")
	formatter.Info("Start the daemon with 'ghostd run'")

	return nil
}
