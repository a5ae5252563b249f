package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cliSessionFile = "session.json"

// CLIStore keeps the CLI's current session in a single JSON file.
type CLIStore struct {
	mu   sync.Mutex
	path string
}

// NewCLIStore creates a store under dir. If dir is empty, defaults to
// ~/.config/linkdrift/.
func NewCLIStore(dir string) (*CLIStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "linkdrift")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &CLIStore{path: filepath.Join(dir, cliSessionFile)}, nil
}

// Path returns the session file path.
func (c *CLIStore) Path() string { return c.path }

// Load returns the stored session, or nil if there is none or it expired.
func (c *CLIStore) Load(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *CLIStore) load() (*Session, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if _, err := ParseID(sess.ID); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		_ = os.Remove(c.path)
		return nil, nil
	}
	return &sess, nil
}

// Save writes sess as the current session.
func (c *CLIStore) Save(ctx context.Context, sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(sess)
}

func (c *CLIStore) save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete removes the current session.
func (c *CLIStore) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Current returns the live session, starting a new one with ttl when there
// is none. created reports whether a new session was started.
func (c *CLIStore) Current(ctx context.Context, ttl time.Duration) (sess *Session, created bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err = c.load()
	if err != nil || sess != nil {
		return sess, false, err
	}
	sess = New(ttl)
	if err := c.save(sess); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}
