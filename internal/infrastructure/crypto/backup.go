package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

// backupSaltContext domain-separates the backup key derivation from the
// payload key derivation.
const backupSaltContext = "ghostcopy.backup.v1"

// backupKey derives the key protecting a cloud-backed-up passphrase from
// the account email and id. Anonymous accounts have no email and therefore
// no backup key.
func backupKey(email, accountID string) []byte {
	salt := deriveSalt(backupSaltContext, accountID)
	return pbkdf2.Key([]byte(email+":"+accountID), salt, kdfIterations, keySize, sha256.New)
}

// BackupPassphrase encrypts the sync passphrase for cloud storage so that a
// new device signed into the same non-anonymous account can restore it.
// Returns gerrors.ErrAnonymousAccount when the account has no email.
func BackupPassphrase(passphrase, email, accountID string) (string, error) {
	if email == "" {
		return "", gerrors.ErrAnonymousAccount
	}
	if accountID == "" {
		return "", gerrors.ErrOwnerIDRequired
	}
	return encryptWithKey(backupKey(email, accountID), []byte(passphrase))
}

// RestorePassphrase decrypts a cloud-backed-up passphrase. Failures return
// a *gerrors.DecryptionError.
func RestorePassphrase(wire, email, accountID string) (string, error) {
	if email == "" {
		return "", gerrors.ErrAnonymousAccount
	}
	if accountID == "" {
		return "", gerrors.ErrOwnerIDRequired
	}
	plaintext, err := decryptWithKey(backupKey(email, accountID), wire)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
