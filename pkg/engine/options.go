package engine

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/placement"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. Mode changes log at info, unresolved
// overlaps at debug.
func WithLogger(l *log.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAssigner sets the seed assigner.
func WithAssigner(a *seed.Assigner) Option {
	return func(c *Context) {
		if a != nil {
			c.assigner = a
		}
	}
}

// WithProvider sets the geometry provider.
func WithProvider(p geometry.Provider) Option {
	return func(c *Context) { c.provider = p }
}

// WithThresholds sets the mode thresholds.
func WithThresholds(t mode.Thresholds) Option {
	return func(c *Context) { c.thresholds = t }
}

// WithPlacement sets the placement tuning.
func WithPlacement(o placement.Options) Option {
	return func(c *Context) { c.placement = o }
}

// WithMeasurer sets how link sizes are measured.
func WithMeasurer(m page.Measurer) Option {
	return func(c *Context) {
		if m != nil {
			c.measurer = m
		}
	}
}

// WithRailSeed fixes the rail shuffle order. Zero means random.
func WithRailSeed(s uint64) Option {
	return func(c *Context) { c.railSeed = s }
}
