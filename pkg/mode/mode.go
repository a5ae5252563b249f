// Package mode decides between the two link layouts.
//
// Wander scatters links across the side gutters; Rail collects them into a
// single scrollable strip when the gutters are too narrow or the viewport is
// too small. The decision is a pure function of gutter widths and viewport
// width, so it is deterministic for fixed inputs.
package mode

import (
	"fmt"

	"github.com/matzehuels/linkdrift/pkg/geometry"
)

// Mode is the active link layout.
type Mode int

const (
	// None is the state before the first recomputation.
	None Mode = iota
	// Wander places links freely in the gutters.
	Wander
	// Rail collects links into one strip.
	Rail
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Wander:
		return "wander"
	case Rail:
		return "rail"
	default:
		return "none"
	}
}

// Parse converts a mode name back to a Mode.
func Parse(s string) (Mode, error) {
	switch s {
	case "wander":
		return Wander, nil
	case "rail":
		return Rail, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Default thresholds.
const (
	DefaultMinGutter   = 48.0
	DefaultMinViewport = 720.0
)

// Thresholds configures [Select].
type Thresholds struct {
	// MinGutter is the smallest widest-gutter that still allows Wander.
	MinGutter float64 `toml:"min_gutter" json:"min_gutter"`
	// MinViewport is the smallest viewport width that still allows Wander.
	MinViewport float64 `toml:"min_viewport" json:"min_viewport"`
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{MinGutter: DefaultMinGutter, MinViewport: DefaultMinViewport}
}

// Select returns Rail when the widest gutter is narrower than MinGutter or
// the viewport is narrower than MinViewport, and Wander otherwise.
func (t Thresholds) Select(g geometry.Gutters, viewportWidth float64) Mode {
	if g.Max() < t.MinGutter || viewportWidth < t.MinViewport {
		return Rail
	}
	return Wander
}

// Select applies the default thresholds.
func Select(g geometry.Gutters, viewportWidth float64) Mode {
	return DefaultThresholds().Select(g, viewportWidth)
}
