package clip

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

const (
	// sampleThreshold is the payload size above which fingerprinting
	// switches from a full hash to bounded sampling.
	sampleThreshold = 1 << 20 // 1MB

	// sampleSize is the number of bytes hashed from each end of a large
	// payload.
	sampleSize = 4096
)

// Fingerprint computes a content fingerprint used for send deduplication
// and echo suppression. Payloads up to 1MB are hashed in full; larger
// payloads hash only the first 4KB, the last 4KB, and the total length,
// keeping the cost bounded regardless of payload size.
//
// Fingerprints are always computed over the canonical pre-encryption
// payload, so two devices with different passphrases still agree on
// whether content matches.
func Fingerprint(data []byte) string {
	h := sha256.New()
	if len(data) <= sampleThreshold {
		h.Write(data)
		return "full:" + hex.EncodeToString(h.Sum(nil))
	}

	h.Write(data[:sampleSize])
	h.Write(data[len(data)-sampleSize:])
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(data)))
	h.Write(size[:])
	return "sampled:" + hex.EncodeToString(h.Sum(nil))
}

// FingerprintText is a convenience wrapper for string payloads.
func FingerprintText(s string) string {
	return Fingerprint([]byte(s))
}
