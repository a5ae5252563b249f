// Package cli implements the linkdrift command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/buildinfo"
	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/config"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "linkdrift"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config persistent flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkdrift",
		Short: "Linkdrift scatters navigation links into the page margins",
		Long: `Linkdrift places navigation links at seeded positions in the gutters beside a
content column, resolving collisions, and falls back to a shuffled rail when
the margins are too narrow.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/linkdrift/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.seedsCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured seed store.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noStore bool) (*pipeline.Runner, error) {
	store, err := newStore(ctx, cfg, noStore)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newStore(ctx context.Context, cfg config.Config, noStore bool) (cache.Cache, error) {
	if noStore {
		return cache.NewNullCache(), nil
	}
	c, err := cache.Open(ctx, cfg.Store.CacheOptions())
	if err != nil {
		return nil, fmt.Errorf("open seed store: %w", err)
	}
	return c, nil
}

// =============================================================================
// Paths
// =============================================================================

// sessionDir returns the directory holding the CLI session
// (~/.config/linkdrift/ unless XDG_CONFIG_HOME is set).
func sessionDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func newSessionStore() (*session.CLIStore, error) {
	dir, err := sessionDir()
	if err != nil {
		return nil, fmt.Errorf("get session dir: %w", err)
	}
	return session.NewCLIStore(dir)
}

// =============================================================================
// Scene Flags
// =============================================================================

// sceneFlags are shared by every command that lays out a scene.
type sceneFlags struct {
	policy    string
	salt      uint64
	railSeed  uint64
	resizes   []string
	noStore   bool
	noSession bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.policy, "policy", "", "seed policy: deterministic, random (default from config)")
	cmd.Flags().Uint64Var(&f.salt, "salt", 0, "seed salt")
	cmd.Flags().Uint64Var(&f.railSeed, "rail-seed", 0, "fix the rail shuffle (0 = random)")
	cmd.Flags().StringSliceVar(&f.resizes, "resize", nil, "viewport sizes to replay as resize events, e.g. 1280x800,390x844")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "do not remember seeds")
	cmd.Flags().BoolVar(&f.noSession, "no-session", false, "do not scope seeds to the CLI session")
	_ = cmd.RegisterFlagCompletionFunc("policy", completePolicy)
	completeScene(cmd)
}

// options merges config values with the flags that were set explicitly.
func (f *sceneFlags) options(cmd *cobra.Command, cfg config.Config) (pipeline.Options, error) {
	opts := pipeline.OptionsFromConfig(cfg)
	if cmd.Flags().Changed("policy") {
		opts.Policy = f.policy
	}
	if cmd.Flags().Changed("salt") {
		opts.Salt = f.salt
	}
	if cmd.Flags().Changed("rail-seed") {
		opts.RailSeed = f.railSeed
	}
	for _, s := range f.resizes {
		size, err := parseSize(s)
		if err != nil {
			return opts, err
		}
		opts.Resizes = append(opts.Resizes, size)
	}
	return opts, nil
}

// prepare loads config and scene and opens a runner. When sessions are on,
// the CLI session is resumed (or started) and its id set on the options.
func (c *CLI) prepare(cmd *cobra.Command, input string, f *sceneFlags) (*scene.Scene, pipeline.Options, *pipeline.Runner, error) {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, pipeline.Options{}, nil, err
	}
	opts, err := f.options(cmd, cfg)
	if err != nil {
		return nil, opts, nil, err
	}

	sc, err := scene.Load(input)
	if err != nil {
		return nil, opts, nil, fmt.Errorf("load scene %s: %w", input, err)
	}

	if !f.noStore && !f.noSession {
		sessions, err := newSessionStore()
		if err != nil {
			return nil, opts, nil, err
		}
		sess, created, err := sessions.Current(ctx, cfg.Store.TTL)
		if err != nil {
			return nil, opts, nil, fmt.Errorf("session: %w", err)
		}
		if created {
			c.Logger.Info("started session", "id", sess.ID, "expires", sess.ExpiresAt.Format("2006-01-02 15:04"))
		}
		opts.SessionID = sess.ID
		opts.SeedTTL = sess.Remaining()
	}

	runner, err := c.newRunner(ctx, cfg, f.noStore || f.noSession)
	if err != nil {
		return nil, opts, nil, fmt.Errorf("initialize runner: %w", err)
	}
	opts.Logger = sessionLogger(loggerFromContext(ctx), opts.SessionID)
	return sc, opts, runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return geometry.Size{Width: width, Height: height}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the output base path: output minus a known format
// extension, or input minus its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// tree first: its extension ends in ".svg"
	for _, f := range []string{pipeline.FormatTree, pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatText} {
		if ext := pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
