package ports

// Severity grades a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationSink surfaces non-blocking, user-visible messages. The engine
// never blocks on a sink; implementations must return promptly.
type NotificationSink interface {
	// Toast shows a passing message.
	Toast(message string, severity Severity)

	// ActionableToast shows a message with a single named action. The
	// callback may be invoked later, from any goroutine, or never.
	ActionableToast(message, actionLabel string, action func())
}

// Verdict is the result of a security scan over a text payload.
type Verdict struct {
	Sensitive bool
	Kind      string
}

// SecurityScanner detects secrets, keys, tokens, and card numbers in text
// payloads before they are auto-sent.
type SecurityScanner interface {
	Detect(text string) Verdict
}
