package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
)

// GenerateRandByteArray returns size bytes read from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}

// MakeRandHexString returns a hex string of size random bytes, so the result
// is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomID draws a positive 63-bit identifier from crypto/rand. The sign bit
// is cleared so ids fit a signed SQLite INTEGER and stay positive in JSON and
// URLs.
func RandomID() int64 {
	b := GenerateRandByteArray(8)
	id := int64(binary.BigEndian.Uint64(b) &^ (1 << 63))
	if id == 0 {
		return RandomID()
	}
	return id
}

// WipeByteArray overwrites b with zeros. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
