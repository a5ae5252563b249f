package seed

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/page"
)

// Assigner stamps links with seeds on first sight.
type Assigner struct {
	Policy Policy
	Store  Store // optional
	Logger *log.Logger
}

// NewAssigner creates an assigner. A nil policy means Deterministic{}.
func NewAssigner(p Policy, store Store, logger *log.Logger) *Assigner {
	if p == nil {
		p = Deterministic{}
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Assigner{Policy: p, Store: store, Logger: logger}
}

// Ensure returns the seed of e, assigning one if e has none or a corrupt one.
// A valid seed already on the element is returned untouched. Store failures
// are logged and fall through to generation.
func (a *Assigner) Ensure(ctx context.Context, e *page.Element) Seed {
	if s, ok := Read(e); ok {
		return s
	}
	if _, had := e.Attr(AttrSide); had {
		a.Logger.Debug("regenerating corrupt seed", "link", e.Text)
	}

	key := page.LinkKey(e)
	if a.Store != nil {
		s, hit, err := a.Store.Get(ctx, key)
		if err != nil {
			a.Logger.Warn("seed store read failed", "link", e.Text, "err", err)
		} else if hit {
			Write(e, s)
			return s
		}
	}

	s := a.Policy.Generate(key)
	Write(e, s)
	if a.Store != nil {
		if err := a.Store.Put(ctx, key, s); err != nil {
			a.Logger.Warn("seed store write failed", "link", e.Text, "err", err)
		}
	}
	return s
}
