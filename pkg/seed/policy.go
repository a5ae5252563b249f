package seed

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Policy names.
const (
	PolicyRandom        = "random"
	PolicyDeterministic = "deterministic"
)

// Policy generates a new seed for a link identity key.
type Policy interface {
	Generate(key string) Seed
}

// Random draws seeds from a PCG stream. Safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random policy. A zero source seeds the stream from the
// runtime's random source, so every process gets different seeds.
func NewRandom(source uint64) *Random {
	if source == 0 {
		source = rand.Uint64()
	}
	return &Random{rng: rand.New(rand.NewPCG(source, source^0xdeadbeef))}
}

// Generate implements Policy. The key is ignored.
func (r *Random) Generate(string) Seed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fromRNG(r.rng)
}

// Deterministic derives each seed from a hash of the link key and a salt.
type Deterministic struct {
	Salt uint64
}

// Generate implements Policy.
func (d Deterministic) Generate(key string) Seed {
	h := xxhash.Sum64String(key)
	return fromRNG(rand.New(rand.NewPCG(h, h^d.Salt^0x9e3779b97f4a7c15)))
}

// ParsePolicy builds the policy named by name. salt feeds the deterministic
// policy and the random policy's source.
func ParsePolicy(name string, salt uint64) (Policy, error) {
	switch name {
	case PolicyRandom:
		return NewRandom(salt), nil
	case "", PolicyDeterministic:
		return Deterministic{Salt: salt}, nil
	default:
		return nil, fmt.Errorf("unknown seed policy %q (must be random or deterministic)", name)
	}
}
