package gerrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGhostdErrorFormatting(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(CodeStore, "insert failed", cause)

	msg := err.Error()
	if !strings.Contains(msg, "STORE") || !strings.Contains(msg, "insert failed") || !strings.Contains(msg, "disk full") {
		t.Errorf("Error() = %q", msg)
	}

	bare := NewError(CodeValidation, "bad input", nil)
	if strings.Contains(bare.Error(), "<nil>") {
		t.Errorf("Error() without cause = %q", bare.Error())
	}
}

func TestGhostdErrorUnwrap(t *testing.T) {
	err := NewError(CodeTransport, "dial failed", ErrStoreUnavailable)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("errors.Is should reach the wrapped sentinel")
	}

	var ge *GhostdError
	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.As(wrapped, &ge) {
		t.Fatal("errors.As should find the GhostdError")
	}
	if ge.Code != CodeTransport {
		t.Errorf("Code = %s, want TRANSPORT", ge.Code)
	}
}

func TestDecryptionError(t *testing.T) {
	err := NewDecryptionError("authentication failed", nil)
	if !IsDecryptionError(err) {
		t.Error("IsDecryptionError should recognize a DecryptionError")
	}
	if !IsDecryptionError(fmt.Errorf("apply: %w", err)) {
		t.Error("IsDecryptionError should see through wrapping")
	}
	if IsDecryptionError(errors.New("unrelated")) {
		t.Error("IsDecryptionError should reject unrelated errors")
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("Error() = %q", err.Error())
	}
}
