// Package session scopes seeds to a browsing session.
//
// A session is a random UUID with an expiry. Seeds assigned while a session
// is live are stored under keys prefixed with the session ID, so the same
// links keep their positions across reloads within the session and get fresh
// ones afterwards. Only seeds are ever stored; computed positions are not.
//
// Two stores are provided:
//   - MemoryStore: in-process, for the HTTP server
//   - CLIStore: the current CLI session as a single JSON file
//
// # Usage
//
//	sess := session.New(session.DefaultTTL)
//	keyer := sess.Keyer(cache.NewDefaultKeyer())
//	store := seed.NewCacheStore(c, keyer, sess.Remaining())
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linkdrift/pkg/cache"
)

// ErrInvalidID is returned for session IDs that are not UUIDs.
var ErrInvalidID = errors.New("invalid session id")

// DefaultTTL is the default session duration.
const DefaultTTL = cache.TTLSeed

// Session identifies one seed scope.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session that expires after ttl. A non-positive ttl means
// DefaultTTL.
func New(ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ParseID validates id and returns it in canonical form.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Remaining returns the time left before expiry, never negative.
func (s *Session) Remaining() time.Duration {
	return max(0, time.Until(s.ExpiresAt))
}

// Keyer scopes inner to this session.
func (s *Session) Keyer(inner cache.Keyer) cache.Keyer {
	return Scope(s.ID, inner)
}

// Scope prefixes inner's keys with the session id.
func Scope(id string, inner cache.Keyer) cache.Keyer {
	return cache.NewScopedKeyer(inner, "session:"+id+":")
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. Returns nil, nil if the session
	// doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}
