package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/scheduler"
	"github.com/matzehuels/linkdrift/pkg/seed"
	"github.com/matzehuels/linkdrift/pkg/session"
	"github.com/matzehuels/linkdrift/pkg/sink"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the seed cache and logger: every call
// builds its own document and engine, so multiple goroutines can share one
// Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given seed cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (seeds are not remembered).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render.
func (r *Runner) Execute(ctx context.Context, sc *scene.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	layoutStart := time.Now()
	layout, doc, err := r.Layout(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"mode", layout.Mode,
		"links", len(layout.Links),
		"unresolved", layout.Stats.Unresolved,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, layout, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout builds the scene's document and drives an engine over it through
// a scheduler loop: LinksReady and Load first, then every entry of
// opts.Resizes as a resize burst. It returns the exported layout and the
// final document.
func (r *Runner) Layout(ctx context.Context, sc *scene.Scene, opts Options) (*scene.Layout, *page.Document, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}

	doc := sc.Build()
	eng, err := r.Engine(doc, opts)
	if err != nil {
		return nil, nil, err
	}

	var last engine.Report
	loop := scheduler.NewLoop(func(ctx context.Context, t scheduler.Trigger) {
		last = eng.Recompute(ctx, t.String())
		if opts.OnPass != nil {
			opts.OnPass(last)
		}
	}, 0)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- loop.Run(runCtx) }()

	err = replay(runCtx, loop, doc, opts.Resizes)
	cancel()
	<-done
	if err != nil {
		return nil, nil, err
	}

	runs, coalesced := loop.Stats()
	layout := scene.Export(eng, last, opts.Measurer)
	layout.SessionID = opts.SessionID
	layout.Stats.Coalesced = coalesced

	opts.Logger.Debug("layout passes", "runs", runs, "coalesced", coalesced)
	return layout, doc, nil
}

// Engine builds an engine over doc. Seeds are remembered in the runner's
// cache only when opts.SessionID is set.
func (r *Runner) Engine(doc *page.Document, opts Options) (*engine.Context, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	policy, err := opts.SeedPolicy()
	if err != nil {
		return nil, err
	}

	var store seed.Store
	if opts.SessionID != "" {
		store = seed.NewCacheStore(r.Cache, session.Scope(opts.SessionID, r.Keyer), opts.SeedTTL)
	}

	return engine.New(doc,
		engine.WithLogger(opts.Logger),
		engine.WithAssigner(seed.NewAssigner(policy, store, opts.Logger)),
		engine.WithProvider(geometry.Provider{FallbackWidth: opts.FallbackWidth}),
		engine.WithThresholds(opts.Thresholds),
		engine.WithPlacement(opts.Placement),
		engine.WithMeasurer(opts.Measurer),
		engine.WithRailSeed(opts.RailSeed),
	), nil
}

func replay(ctx context.Context, loop *scheduler.Loop, doc *page.Document, resizes []geometry.Size) error {
	events := []scheduler.Event{
		{Trigger: scheduler.LinksReady},
		{Trigger: scheduler.Load},
	}
	for _, vp := range resizes {
		events = append(events, scheduler.Event{
			Trigger: scheduler.Resize,
			Apply:   func() { doc.SetViewport(vp) },
		})
	}
	for _, ev := range events {
		if err := loop.Send(ctx, ev); err != nil {
			return err
		}
	}
	return loop.Sync(ctx)
}

// Render produces an artifact for every requested format. The DOT and tree
// formats read the document; the rest read the layout.
func (r *Runner) Render(ctx context.Context, l *scene.Layout, doc *page.Document, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, l, doc, format, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}

func (r *Runner) renderFormat(ctx context.Context, l *scene.Layout, doc *page.Document, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, sink.WithGutters()), nil
	case FormatJSON:
		return sink.RenderJSON(l)
	case FormatDOT:
		return []byte(sink.ToDOT(doc)), nil
	case FormatTree:
		return sink.RenderTreeSVG(ctx, sink.ToDOT(doc))
	case FormatText:
		return []byte(sink.RenderText(l, opts.TextCols, opts.TextRows, sink.WithPlainText()) + "\n"), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the seed cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
