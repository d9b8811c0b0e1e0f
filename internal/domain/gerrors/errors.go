// Package gerrors provides domain-specific errors for the ghostd daemon.
package gerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain error conditions.
var (
	ErrOwnerIDRequired     = errors.New("owner ID required")
	ErrDeviceNameRequired  = errors.New("device name required")
	ErrContentTypeRequired = errors.New("content type required")
	ErrEngineClosed        = errors.New("engine closed")
	ErrItemNotFound        = errors.New("item not found")
	ErrEmptyClipboard      = errors.New("clipboard is empty")
	ErrUnsupportedContent  = errors.New("unsupported content type")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrAnonymousAccount    = errors.New("unavailable for anonymous accounts")
)

// ErrorCode categorizes errors for handling and reporting.
type ErrorCode string

const (
	CodeValidation ErrorCode = "VALIDATION"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeStore      ErrorCode = "STORE"
	CodeTransport  ErrorCode = "TRANSPORT"
	CodeClipboard  ErrorCode = "CLIPBOARD"
	CodeConfig     ErrorCode = "CONFIG"
)

// GhostdError wraps errors with additional context for debugging and handling.
type GhostdError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns a formatted error string including the code, message, and cause if present.
func (e *GhostdError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *GhostdError) Unwrap() error {
	return e.Cause
}

// NewError creates a new GhostdError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *GhostdError {
	return &GhostdError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// DecryptionError is returned when an inbound payload cannot be decrypted:
// a malformed wire string, a mismatched passphrase, or tampered ciphertext.
// Such items are skipped, never retried.
type DecryptionError struct {
	Reason string
	Cause  error
}

// Error returns the formatted decryption failure.
func (e *DecryptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decryption failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// Unwrap returns the underlying cause error.
func (e *DecryptionError) Unwrap() error {
	return e.Cause
}

// NewDecryptionError creates a DecryptionError with the given reason and
// optional cause.
func NewDecryptionError(reason string, cause error) *DecryptionError {
	return &DecryptionError{Reason: reason, Cause: cause}
}

// IsDecryptionError reports whether err is (or wraps) a DecryptionError.
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}
