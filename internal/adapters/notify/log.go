// Package notify provides notification sinks: a log-backed sink for
// headless daemons and an interactive terminal sink.
package notify

import (
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

// LogSink writes notifications to the structured log. Actionable toasts
// cannot be interacted with, so they are logged and their action dropped.
type LogSink struct {
	logger *logging.Logger
}

var _ ports.NotificationSink = (*LogSink)(nil)

// NewLogSink creates a log-backed notification sink.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

// Toast logs the message at a level matching its severity.
func (s *LogSink) Toast(message string, severity ports.Severity) {
	switch severity {
	case ports.SeverityError:
		s.logger.Error(message)
	case ports.SeverityWarning:
		s.logger.Warn(message)
	default:
		s.logger.Info(message)
	}
}

// ActionableToast logs the message; no interaction is possible, so the
// action is never invoked.
func (s *LogSink) ActionableToast(message, actionLabel string, _ func()) {
	s.logger.Info(message, "action", actionLabel, "interactive", false)
}
