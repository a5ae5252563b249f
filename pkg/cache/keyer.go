package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Keyer builds cache keys for stored values.
type Keyer interface {
	// SeedKey returns the key under which the seed of a link identity is stored.
	SeedKey(linkKey string) string
}

// DefaultKeyer hashes link identities into fixed-length keys of the form
// "seed:<16 hex digits>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SeedKey implements Keyer.
func (DefaultKeyer) SeedKey(linkKey string) string {
	return "seed:" + Hash([]byte(linkKey))
}

// Hash returns the xxhash of data as 16 zero-padded hex digits.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
