// Package config loads linkdrift settings from TOML.
//
// Every section has working defaults, so a missing file is not an error.
// Values present in the file override the defaults key by key; unknown keys
// are rejected so typos do not silently fall back to defaults.
//
//	[mode]
//	min_gutter = 64
//
//	[seed]
//	policy = "random"
//
//	[store]
//	backend = "redis"
//	ttl = "12h"
//	[store.redis]
//	addr = "localhost:6379"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/errors"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/placement"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

const (
	appDir   = "linkdrift"
	fileName = "config.toml"
)

// Config is the full configuration.
type Config struct {
	Geometry  Geometry          `toml:"geometry"`
	Mode      mode.Thresholds   `toml:"mode"`
	Placement placement.Options `toml:"placement"`
	Seed      Seed              `toml:"seed"`
	Store     Store             `toml:"store"`
	Server    Server            `toml:"server"`
}

// Geometry configures the geometry provider.
type Geometry struct {
	FallbackWidth float64 `toml:"fallback_width"`
}

// Provider returns the configured geometry provider.
func (g Geometry) Provider() geometry.Provider {
	return geometry.Provider{FallbackWidth: g.FallbackWidth}
}

// Seed configures seed assignment.
type Seed struct {
	// Policy is "deterministic" or "random".
	Policy string `toml:"policy"`
	// Salt perturbs deterministic seeds or seeds the random source.
	Salt uint64 `toml:"salt"`
	// RailSeed fixes the rail shuffle. Zero means random.
	RailSeed uint64 `toml:"rail_seed"`
}

// NewPolicy builds the configured seed policy.
func (s Seed) NewPolicy() (seed.Policy, error) {
	return seed.ParsePolicy(s.Policy, s.Salt)
}

// Store configures where seeds persist for a session.
type Store struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	TTL     time.Duration     `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
	Mongo   cache.MongoConfig `toml:"mongo"`
}

// CacheOptions converts the section to cache.Open options.
func (s Store) CacheOptions() cache.Options {
	return cache.Options{Backend: s.Backend, Dir: s.Dir, Redis: s.Redis, Mongo: s.Mongo}
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Geometry:  Geometry{FallbackWidth: geometry.DefaultFallbackWidth},
		Mode:      mode.DefaultThresholds(),
		Placement: placement.DefaultOptions(),
		Seed:      Seed{Policy: seed.PolicyDeterministic},
		Store: Store{
			Backend: cache.BackendFile,
			Dir:     defaultStoreDir(),
			TTL:     cache.TTLSeed,
			Redis:   cache.RedisConfig{Addr: "localhost:6379", Prefix: "linkdrift:"},
			Mongo:   cache.MongoConfig{URI: "mongodb://localhost:27017", Database: "linkdrift", Collection: "seeds"},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Dir returns the linkdrift config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func defaultStoreDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir, "seeds")
	}
	return filepath.Join(base, appDir, "seeds")
}

// Load reads path over the defaults. A missing file yields the defaults.
// An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML into cfg, leaving keys absent from data untouched.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	switch {
	case c.Geometry.FallbackWidth < 0:
		return invalid("geometry.fallback_width must be >= 0")
	case c.Mode.MinGutter < 0 || c.Mode.MinViewport < 0:
		return invalid("mode thresholds must be >= 0")
	case c.Placement.Attempts < 0:
		return invalid("placement.attempts must be >= 0")
	case c.Placement.Padding < 0:
		return invalid("placement.padding must be >= 0")
	case c.Placement.Step < 0 || c.Placement.Step > 1:
		return invalid("placement.step must be in [0, 1]")
	case c.Placement.MinY < 0 || c.Placement.MaxY > 1 || c.Placement.MinY > c.Placement.MaxY:
		return invalid("placement.min_y/max_y must satisfy 0 <= min_y <= max_y <= 1")
	case c.Placement.InsetX < 0 || c.Placement.SpanX < 0 || c.Placement.InsetX+c.Placement.SpanX > 1:
		return invalid("placement.inset_x + span_x must be within [0, 1]")
	case c.Placement.EnlargeChance < 0 || c.Placement.EnlargeChance > 1:
		return invalid("placement.enlarge_chance must be in [0, 1]")
	case c.Placement.DimOpacity < 0 || c.Placement.DimOpacity > 1:
		return invalid("placement.dim_opacity must be in [0, 1]")
	case c.Store.TTL < 0:
		return invalid("store.ttl must be >= 0")
	}
	if _, err := c.Seed.NewPolicy(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "seed.policy")
	}
	switch c.Store.Backend {
	case "", cache.BackendNone, cache.BackendMemory, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return invalid("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}
