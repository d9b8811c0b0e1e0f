// Package crypto provides the optional end-to-end encryption gateway for
// clipboard payloads, plus the passphrase cloud-backup codec.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

const (
	// kdfIterations is the PBKDF2-HMAC-SHA256 iteration count.
	kdfIterations = 100_000

	// keySize is the derived key size for AES-256.
	keySize = 32

	// ivSize is the GCM nonce size. 16 bytes matches the wire format
	// produced by the other clients, not the GCM default of 12.
	ivSize = 16

	// saltContext domain-separates payload keys from backup keys.
	saltContext = "ghostcopy.payload.v1"
)

// Gateway transparently encrypts and decrypts clipboard payloads. With no
// passphrase configured it is a passthrough.
type Gateway struct {
	key []byte
}

// NewGateway creates a Gateway. An empty passphrase yields a passthrough
// gateway; otherwise a 256-bit key is derived from the passphrase with
// PBKDF2-HMAC-SHA256 and a salt bound to the owner id, so every device of
// the same owner derives the same key.
func NewGateway(passphrase, ownerID string) (*Gateway, error) {
	if passphrase == "" {
		return &Gateway{}, nil
	}
	if ownerID == "" {
		return nil, gerrors.ErrOwnerIDRequired
	}

	salt := deriveSalt(saltContext, ownerID)
	key := pbkdf2.Key([]byte(passphrase), salt, kdfIterations, keySize, sha256.New)
	return &Gateway{key: key}, nil
}

// Enabled reports whether a passphrase is configured.
func (g *Gateway) Enabled() bool {
	return len(g.key) != 0
}

// Encrypt encrypts a payload with AES-256-GCM under a fresh random 16-byte
// IV. The wire format is base64(iv) + ":" + base64(ciphertext). With no
// passphrase configured the payload passes through unchanged.
func (g *Gateway) Encrypt(plaintext []byte) (string, bool, error) {
	if !g.Enabled() {
		return string(plaintext), false, nil
	}

	gcm, err := g.aead()
	if err != nil {
		return "", false, err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", false, fmt.Errorf("failed to generate iv: %w", err)
	}

	ct := gcm.Seal(nil, iv, plaintext, nil)
	wire := base64.StdEncoding.EncodeToString(iv) + ":" + base64.StdEncoding.EncodeToString(ct)
	return wire, true, nil
}

// Decrypt reverses Encrypt. Any failure (malformed wire string, wrong key,
// tampered ciphertext) returns a *gerrors.DecryptionError.
func (g *Gateway) Decrypt(wire string) ([]byte, error) {
	if !g.Enabled() {
		return nil, gerrors.NewDecryptionError("no passphrase configured", nil)
	}
	return decryptWithKey(g.key, wire)
}

func (g *Gateway) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(g.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCMWithNonceSize(block, ivSize)
}

func encryptWithKey(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}
	ct := gcm.Seal(nil, iv, plaintext, nil)
	return base64.StdEncoding.EncodeToString(iv) + ":" + base64.StdEncoding.EncodeToString(ct), nil
}

func decryptWithKey(key []byte, wire string) ([]byte, error) {
	ivPart, ctPart, found := strings.Cut(wire, ":")
	if !found {
		return nil, gerrors.NewDecryptionError("malformed wire format", nil)
	}

	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return nil, gerrors.NewDecryptionError("invalid iv encoding", err)
	}
	if len(iv) != ivSize {
		return nil, gerrors.NewDecryptionError("unexpected iv size", nil)
	}

	ct, err := base64.StdEncoding.DecodeString(ctPart)
	if err != nil {
		return nil, gerrors.NewDecryptionError("invalid ciphertext encoding", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, gerrors.NewDecryptionError("cipher init failed", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, gerrors.NewDecryptionError("gcm init failed", err)
	}

	plaintext, err := gcm.Open(nil, iv, ct, nil)
	if err != nil {
		return nil, gerrors.NewDecryptionError("authentication failed", err)
	}
	return plaintext, nil
}

// deriveSalt builds a deterministic salt from a context label and the
// owner id.
func deriveSalt(context, ownerID string) []byte {
	sum := sha256.Sum256([]byte(context + ":" + ownerID))
	return sum[:]
}
