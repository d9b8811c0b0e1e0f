package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

// TerminalSink surfaces notifications on an interactive terminal.
// Actionable toasts prompt for y/N confirmation on a background goroutine
// so the engine never blocks on user input. Prompts are serialized; a new
// actionable toast arriving while one is pending is queued behind it.
type TerminalSink struct {
	logger *logging.Logger

	promptMu sync.Mutex
}

var _ ports.NotificationSink = (*TerminalSink)(nil)

// NewTerminalSink creates an interactive terminal notification sink.
func NewTerminalSink(logger *logging.Logger) *TerminalSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &TerminalSink{logger: logger}
}

// Toast prints the message to the terminal.
func (s *TerminalSink) Toast(message string, severity ports.Severity) {
	switch severity {
	case ports.SeverityError:
		fmt.Printf("✗ %s\n", message)
	case ports.SeverityWarning:
		fmt.Printf("⚠ %s\n", message)
	default:
		fmt.Printf("• %s\n", message)
	}
}

// ActionableToast prompts for confirmation and invokes action on "y".
// Returns immediately; the prompt runs on its own goroutine.
func (s *TerminalSink) ActionableToast(message, actionLabel string, action func()) {
	go func() {
		s.promptMu.Lock()
		defer s.promptMu.Unlock()

		rl, err := readline.New(fmt.Sprintf("%s: %s? [y/N] ", message, actionLabel))
		if err != nil {
			s.logger.Warn("could not open terminal prompt", "error", err.Error())
			return
		}
		defer rl.Close()

		line, err := rl.Readline()
		if err != nil {
			return
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "y" || answer == "yes" {
			action()
		}
	}()
}
