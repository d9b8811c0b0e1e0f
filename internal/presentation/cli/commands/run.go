package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghostcopy/ghostd/internal/application/daemon"
	"github.com/ghostcopy/ghostd/internal/application/sync"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
)

// NewRunCmd creates the run command, the daemon's main loop.
func NewRunCmd() *cobra.Command {
	var (
		interactive bool
		headless    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard sync daemon",
		Long: `Start the clipboard synchronization engine and run until interrupted.

Signals:
  SIGINT, SIGTERM   graceful shutdown
  SIGUSR1           treat as screen lock (pauses sync)
  SIGUSR2           treat as screen unlock (resumes sync)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(interactive, headless)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt on the terminal for receive confirmations")
	cmd.Flags().BoolVar(&headless, "headless", false, "use an in-memory clipboard (no display server required)")

	return cmd
}

func runDaemon(interactive, headless bool) error {
	appCtx := GetAppContext()
	formatter := GetFormatter()

	container, err := daemon.NewContainer(appCtx.Config, daemon.Options{
		Verbose:           globalFlags.Verbose,
		Interactive:       interactive,
		HeadlessClipboard: headless,
	})
	if err != nil {
		return fmt.Errorf("could not start daemon: %w", err)
	}
	defer container.Close()

	engine := container.Engine()
	logger := container.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unsubscribe := engine.SubscribeItems(func(item *clip.Item) {
		logger.Debug("item observed", "type", string(item.Type), "device", item.DeviceName)
	})
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		errCh <- engine.Run(ctx)
	}()

	formatter.Success("ghostd running as %s (%s)", appCtx.Config.Device.Name, appCtx.Config.Device.Type)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for {
		select {
		case err := <-errCh:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("engine stopped: %w", err)
			}
			return nil

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				logger.Info("screen lock signal received")
				engine.SignalPower(sync.SignalLock)

			case syscall.SIGUSR2:
				logger.Info("screen unlock signal received")
				engine.SignalPower(sync.SignalUnlock)

			default:
				formatter.Warning("Received %v, shutting down...", sig)
				cancel()
				<-errCh
				return nil
			}
		}
	}
}
