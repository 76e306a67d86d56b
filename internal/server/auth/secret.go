package auth

import (
	"sync"

	"github.com/dmitrijs2005/diary/internal/common"
)

// SecretSize is the length in bytes of the session signing secret.
const SecretSize = 64

// SecretSource supplies the key session tokens are signed with.
type SecretSource interface {
	Secret() []byte
}

// SecretCache draws a random signing secret on first use and returns the same
// bytes for the rest of the process. Tokens do not survive a restart.
type SecretCache struct {
	get func() []byte
}

func NewSecretCache() *SecretCache {
	return &SecretCache{
		get: sync.OnceValue(func() []byte {
			return common.GenerateRandByteArray(SecretSize)
		}),
	}
}

// Secret returns the process secret. Callers must not modify it.
func (c *SecretCache) Secret() []byte {
	return c.get()
}

// StaticSecret is a fixed SecretSource, used by tools and tests.
type StaticSecret []byte

func (s StaticSecret) Secret() []byte { return s }
