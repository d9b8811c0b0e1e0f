// Package daemon provides the dependency injection container that wires
// configuration, adapters, and the sync engine into a runnable daemon.
package daemon

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/ghostcopy/ghostd/internal/adapters/clipboard"
	"github.com/ghostcopy/ghostd/internal/adapters/notify"
	"github.com/ghostcopy/ghostd/internal/adapters/push"
	"github.com/ghostcopy/ghostd/internal/adapters/repository/rest"
	repoSqlite "github.com/ghostcopy/ghostd/internal/adapters/repository/sqlite"
	"github.com/ghostcopy/ghostd/internal/adapters/settings"
	"github.com/ghostcopy/ghostd/internal/adapters/sidechannel"
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/application/sync"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/config"
	"github.com/ghostcopy/ghostd/internal/infrastructure/crypto"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
	"github.com/ghostcopy/ghostd/internal/infrastructure/security"
	"github.com/ghostcopy/ghostd/internal/infrastructure/tracing"
)

// Options tweak container construction without touching the config file.
type Options struct {
	// Verbose forces the log level to debug.
	Verbose bool

	// Interactive selects the terminal notification sink so actionable
	// prompts can actually be answered.
	Interactive bool

	// HeadlessClipboard substitutes an in-memory clipboard for hosts
	// without a display server.
	HeadlessClipboard bool
}

// Container holds the daemon's wired dependencies and manages their
// lifecycle and initialization order.
type Container struct {
	config  *config.Config
	options Options

	logger *logging.Logger
	tracer *tracing.Tracer

	dbConn          *repoSqlite.Connection
	repository      ports.Repository
	pushChannel     ports.PushChannel
	localClipboard  ports.LocalClipboard
	settingsStore   *settings.FileStore
	settingsWatcher *settings.Watcher
	scanner         ports.SecurityScanner
	notifier        ports.NotificationSink
	webhook         ports.WebhookSender
	vault           ports.VaultAppender
	gateway         *crypto.Gateway

	engine *sync.Engine
}

// NewContainer wires all dependencies from cfg. The engine is constructed
// but not running; call Engine().Run to start it.
func NewContainer(cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Container{config: cfg, options: opts}

	c.initObservability()

	if err := c.initSettings(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not initialize settings: %w", err)
	}

	if err := c.initRepository(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not initialize store: %w", err)
	}

	if err := c.initTransports(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not initialize transports: %w", err)
	}

	if err := c.initEngine(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not initialize engine: %w", err)
	}

	return c, nil
}

func (c *Container) initObservability() {
	level := logging.Level(c.config.Logging.Level)
	if c.options.Verbose {
		level = logging.LevelDebug
	}

	format := logging.FormatText
	if c.config.Logging.Format == "json" {
		format = logging.FormatJSON
	}

	c.logger = logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
	})

	if c.config.Tracing.Enabled {
		tracer, err := tracing.New(context.Background(), tracing.Config{
			Enabled:      true,
			ExporterType: tracing.ExporterType(c.config.Tracing.ExporterType),
			OTLPEndpoint: c.config.Tracing.OTLPEndpoint,
			ServiceName:  c.config.Tracing.ServiceName,
			Environment:  "production",
			SampleRate:   c.config.Tracing.SampleRate,
		})
		if err != nil {
			c.logger.Warn("tracing disabled", "error", err.Error())
			c.tracer = tracing.Default()
		} else {
			c.tracer = tracer
		}
	} else {
		c.tracer = tracing.Default()
	}
}

func (c *Container) initSettings() error {
	store, err := settings.NewFileStore(afero.NewOsFs(), c.config.Settings.Path, c.logger)
	if err != nil {
		return err
	}
	c.settingsStore = store

	watcher, err := settings.NewWatcher(store, c.logger, nil)
	if err != nil {
		c.logger.Warn("settings live reload unavailable", "error", err.Error())
		return nil
	}
	c.settingsWatcher = watcher
	return nil
}

func (c *Container) initRepository() error {
	deviceType := clip.DeviceType(c.config.Device.Type)
	deviceName := c.config.Device.Name

	switch c.config.Store.Backend {
	case "rest":
		repo, err := rest.NewRepository(c.config.Store.URL, deviceType, deviceName,
			rest.WithTimeout(c.config.Store.Timeout))
		if err != nil {
			return err
		}
		c.repository = repo
		return nil

	default:
		conn, err := repoSqlite.NewConnection(c.config.Store.Path)
		if err != nil {
			return err
		}
		if err := conn.Open(); err != nil {
			return err
		}
		c.dbConn = conn

		repo, err := repoSqlite.NewRepository(conn, deviceType, deviceName, c.config.Store.RetainItems)
		if err != nil {
			return err
		}
		c.repository = repo
		return nil
	}
}

func (c *Container) initTransports() error {
	if c.config.Push.Enabled {
		channel, err := push.NewChannel(c.config.Push.URL, c.logger)
		if err != nil {
			return err
		}
		c.pushChannel = channel
	}

	if c.options.HeadlessClipboard {
		c.localClipboard = clipboard.NewMemory()
	} else {
		system, err := clipboard.NewSystem("")
		if err != nil {
			return err
		}
		c.localClipboard = system
	}

	if c.options.Interactive {
		c.notifier = notify.NewTerminalSink(c.logger)
	} else {
		c.notifier = notify.NewLogSink(c.logger)
	}

	c.scanner = security.NewScanner()
	c.webhook = sidechannel.NewWebhook()
	c.vault = sidechannel.NewVault(afero.NewOsFs())
	return nil
}

func (c *Container) initEngine() error {
	gateway, err := crypto.NewGateway(c.settingsStore.SyncPassphrase(), c.config.Owner.ID)
	if err != nil {
		return err
	}
	c.gateway = gateway

	engine, err := sync.New(sync.Config{
		OwnerID:    c.config.Owner.ID,
		DeviceType: clip.DeviceType(c.config.Device.Type),
		DeviceName: c.config.Device.Name,

		MonitorInterval:   c.config.Sync.MonitorInterval,
		PollInterval:      c.config.Sync.PollInterval,
		InactivityCheck:   c.config.Sync.InactivityCheck,
		InactivityTimeout: c.config.Sync.InactivityTimeout,
		RateLimitInterval: c.config.Sync.RateLimitInterval,
		DebounceInterval:  c.config.Sync.DebounceInterval,

		Repository:   c.repository,
		Push:         c.pushChannel,
		Clipboard:    c.localClipboard,
		Settings:     c.settingsStore,
		Scanner:      c.scanner,
		Notifier:     c.notifier,
		Webhook:      c.webhook,
		Vault:        c.vault,
		Preprocessor: sidechannel.NewNormalizingPreprocessor(),
		Gateway:      gateway,

		Logger: c.logger,
		Tracer: c.tracer,
	})
	if err != nil {
		return err
	}

	c.engine = engine
	return nil
}

// Close releases all resources held by the container.
func (c *Container) Close() error {
	ctx := context.Background()

	if c.engine != nil {
		c.engine.Close()
	}
	if c.settingsWatcher != nil {
		_ = c.settingsWatcher.Close()
	}
	if c.tracer != nil {
		_ = c.tracer.Shutdown(ctx)
	}
	if c.dbConn != nil {
		return c.dbConn.Close()
	}
	return nil
}

// Engine returns the sync engine.
func (c *Container) Engine() *sync.Engine {
	return c.engine
}

// Config returns the daemon configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the structured logger.
func (c *Container) Logger() *logging.Logger {
	return c.logger
}

// Repository returns the clipboard store.
func (c *Container) Repository() ports.Repository {
	return c.repository
}

// Settings returns the user settings store.
func (c *Container) Settings() *settings.FileStore {
	return c.settingsStore
}
