package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := sessionDir()
	if err != nil {
		t.Fatalf("sessionDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName)
	if dir != expected {
		t.Errorf("sessionDir() = %q, want %q", dir, expected)
	}
}

func TestSessionDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)

	dir, err := sessionDir()
	if err != nil {
		t.Fatalf("sessionDir() error: %v", err)
	}

	expected := filepath.Join(custom, appName)
	if dir != expected {
		t.Errorf("sessionDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}
