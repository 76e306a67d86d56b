// Package cryptox implements password hashing and salt generation.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a password hashing scheme.
type Algorithm string

const (
	// Argon2id is the default: a memory-hard KDF.
	Argon2id Algorithm = "argon2id"
	// Blake2b is a fast general-purpose hash over password||salt. It exists
	// for stores created with the fast-hash scheme and is weaker against
	// offline guessing.
	Blake2b Algorithm = "blake2b"
)

// SaltLength is the number of characters in a generated salt.
const SaltLength = 16

const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// Hasher hashes passwords with one fixed algorithm.
type Hasher struct {
	alg Algorithm
}

// NewHasher returns a Hasher for alg or an error for an unknown name.
func NewHasher(alg Algorithm) (*Hasher, error) {
	switch alg {
	case Argon2id, Blake2b:
		return &Hasher{alg: alg}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", alg)
	}
}

// Algorithm reports the scheme this Hasher uses.
func (h *Hasher) Algorithm() Algorithm { return h.alg }

// Hash returns the hex-encoded hash of password keyed with salt. Equal inputs
// always give equal outputs.
func (h *Hasher) Hash(password, salt string) string {
	var sum []byte
	switch h.alg {
	case Blake2b:
		buf := make([]byte, 0, len(password)+len(salt))
		buf = append(buf, password...)
		buf = append(buf, salt...)
		s := blake2b.Sum256(buf)
		sum = s[:]
	default:
		sum = argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	}
	return hex.EncodeToString(sum)
}

// Verify reports whether password and salt hash to want, comparing in
// constant time.
func (h *Hasher) Verify(password, salt, want string) bool {
	got := h.Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// GenerateSaltedHash draws a fresh salt and returns the password hash with it.
func (h *Hasher) GenerateSaltedHash(password string) (hash, salt string, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return "", "", err
	}
	return h.Hash(password, salt), salt, nil
}

// GenerateSalt returns SaltLength printable ASCII characters (letters, digits
// and punctuation, 0x21-0x7E) drawn from crypto/rand by rejection sampling.
func GenerateSalt() (string, error) {
	out := make([]byte, 0, SaltLength)
	buf := make([]byte, 2*SaltLength)
	for len(out) < SaltLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if IsSaltChar(b) {
				out = append(out, b)
				if len(out) == SaltLength {
					break
				}
			}
		}
	}
	return string(out), nil
}

// IsSaltChar reports whether b belongs to the salt alphabet.
func IsSaltChar(b byte) bool {
	return b >= '!' && b <= '~'
}
