package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating one session's seeds
// from another's.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+sess.ID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SeedKey generates a prefixed seed key.
func (k *ScopedKeyer) SeedKey(linkKey string) string {
	return k.prefix + k.inner.SeedKey(linkKey)
}
