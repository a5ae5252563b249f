package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/observability"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/placement"
	"github.com/matzehuels/linkdrift/pkg/rail"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// Body marker written after every pass.
const (
	ClassWander = "links-wander"
	ClassRail   = "links-rail"
	AttrMode    = "data-link-mode"

	// ClassEnlarged marks links rolled for the enlarged decoration.
	ClassEnlarged = "is-enlarged"
	// ClassDimmed marks links left overlapping.
	ClassDimmed = "is-dimmed"
)

// Context is the engine state for one document.
type Context struct {
	doc        *page.Document
	logger     *log.Logger
	assigner   *seed.Assigner
	provider   geometry.Provider
	thresholds mode.Thresholds
	placement  placement.Options
	measurer   page.Measurer
	railSeed   uint64

	rail   *rail.Manager
	mode   mode.Mode
	passes int
}

// New creates an engine context for doc.
func New(doc *page.Document, opts ...Option) *Context {
	c := &Context{
		doc:        doc,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		thresholds: mode.DefaultThresholds(),
		placement:  placement.DefaultOptions(),
		measurer:   page.DefaultMeasurer,
	}
	for _, o := range opts {
		o(c)
	}
	if c.assigner == nil {
		c.assigner = seed.NewAssigner(nil, nil, c.logger)
	}
	c.rail = rail.NewManager(c.railSeed)
	return c
}

// Document returns the document the context mutates.
func (c *Context) Document() *page.Document { return c.doc }

// Mode returns the mode chosen by the last pass.
func (c *Context) Mode() mode.Mode { return c.mode }

// Passes returns how many passes have run.
func (c *Context) Passes() int { return c.passes }

// Report describes one pass.
type Report struct {
	Trigger  string
	Mode     mode.Mode
	Previous mode.Mode
	Links    int
	Viewport geometry.Size
	Column   geometry.Rect
	Gutters  geometry.Gutters
	// Placement is empty unless the pass ran in Wander.
	Placement placement.Result
	Duration  time.Duration
}

// Changed reports whether the pass flipped the mode.
func (r Report) Changed() bool { return r.Mode != r.Previous }

// Recompute runs one pass. It never fails: missing geometry is synthesized,
// corrupt seeds are regenerated and unresolved overlaps are dimmed.
func (c *Context) Recompute(ctx context.Context, trigger string) Report {
	start := time.Now()
	c.passes++

	links := c.doc.Links()
	rep := Report{
		Trigger:  trigger,
		Previous: c.mode,
		Links:    len(links),
		Viewport: c.doc.Viewport(),
		Column:   c.provider.Column(c.doc),
		Gutters:  c.provider.Gutters(c.doc),
	}

	if len(links) == 0 {
		if rail.Active(c.doc) {
			c.rail.Exit(c.doc)
			c.logger.Debug("rail torn down")
		}
		c.setMode(ctx, mode.None)
		rep.Mode = c.mode
		rep.Duration = time.Since(start)
		c.finish(ctx, rep)
		return rep
	}

	for _, l := range links {
		c.assigner.Ensure(ctx, l)
	}

	next := c.thresholds.Select(rep.Gutters, rep.Viewport.Width)
	prev := c.mode
	c.setMode(ctx, next)

	switch next {
	case mode.Rail:
		for _, l := range links {
			l.RemoveClass(ClassEnlarged)
			l.RemoveClass(ClassDimmed)
		}
		if prev != mode.Rail {
			c.rail.Enter(c.doc, links)
		} else if n := c.rail.Adopt(c.doc, links); n > 0 {
			c.logger.Debug("adopted stray links into rail", "links", n)
		}
	case mode.Wander:
		if rail.Active(c.doc) {
			c.rail.Exit(c.doc)
		}
		rep.Placement = c.wander(ctx, links, rep)
	}

	rep.Mode = c.mode
	rep.Duration = time.Since(start)
	c.finish(ctx, rep)
	return rep
}

func (c *Context) wander(ctx context.Context, links []*page.Element, rep Report) placement.Result {
	items := make([]placement.Item, len(links))
	for i, l := range links {
		s, _ := seed.Read(l)
		items[i] = placement.Item{
			Key:          page.LinkKey(l),
			Seed:         s,
			Size:         c.measurer.Measure(l, false),
			EnlargedSize: c.measurer.Measure(l, true),
		}
	}

	res := placement.Place(items, placement.Frame{Viewport: rep.Viewport, Gutters: rep.Gutters}, c.placement)

	dim := c.placement.DimOpacity
	if dim <= 0 {
		dim = placement.DefaultOptions().DimOpacity
	}
	for i, l := range links {
		p := res.Placements[i]
		l.Style = page.Style{Absolute: true, Left: p.Rect.Left, Top: p.Rect.Top}
		if p.Dimmed {
			l.Style.Opacity = dim
			c.logger.Debug("overlap unresolved", "link", l.Text, "attempts", p.Attempts)
			observability.Engine().OnUnresolved(ctx, l.Text, p.Attempts)
		}
		l.ToggleClass(ClassEnlarged, p.Enlarged)
		l.ToggleClass(ClassDimmed, p.Dimmed)
	}
	return res
}

func (c *Context) setMode(ctx context.Context, next mode.Mode) {
	if next == c.mode {
		return
	}
	prev := c.mode
	c.mode = next
	c.logger.Info("link mode changed", "from", prev, "to", next)
	observability.Engine().OnModeChange(ctx, prev.String(), next.String())
}

func (c *Context) finish(ctx context.Context, rep Report) {
	body := c.doc.Body
	body.ToggleClass(ClassWander, c.mode == mode.Wander)
	body.ToggleClass(ClassRail, c.mode == mode.Rail)
	if c.mode == mode.None {
		body.RemoveAttr(AttrMode)
	} else {
		body.SetAttr(AttrMode, c.mode.String())
	}
	observability.Engine().OnRecompute(ctx, rep.Trigger, rep.Mode.String(), rep.Links, rep.Duration)
}
