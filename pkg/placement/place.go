package placement

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// Item is one link to place.
type Item struct {
	Key  string
	Seed seed.Seed
	// Size is the rendered size in the normal state.
	Size geometry.Size
	// EnlargedSize is the size with the enlarged decoration. Zero means the
	// link cannot be enlarged.
	EnlargedSize geometry.Size
}

// Frame is the geometry a pass places into.
type Frame struct {
	Viewport geometry.Size
	Gutters  geometry.Gutters
}

// gutterOrigin returns the x offset and width of a side's gutter.
func (f Frame) gutterOrigin(s seed.Side) (left, width float64) {
	if s == seed.Right {
		return f.Viewport.Width - f.Gutters.Right, f.Gutters.Right
	}
	return 0, f.Gutters.Left
}

// Placement is the resolved position of one item.
type Placement struct {
	Key      string
	Side     seed.Side
	Rect     geometry.Rect
	Enlarged bool
	Dimmed   bool
	// Attempts is the number of nudges spent resolving overlap.
	Attempts int
}

// Result holds placements in input order.
type Result struct {
	Placements []Placement
	Unresolved int
	Attempts   int
}

// ByKey returns the placement for key.
func (r Result) ByKey(key string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Key == key {
			return p, true
		}
	}
	return Placement{}, false
}

// Place resolves every item's rectangle. Items with an invalid seed are
// placed as if seeded at the left gutter's centre; the engine never passes
// such items.
func Place(items []Item, f Frame, opts Options) Result {
	opts = opts.withDefaults()
	out := Result{Placements: make([]Placement, len(items))}

	var left, right []int
	for i, it := range items {
		if it.Seed.Side == seed.Right {
			right = append(right, i)
		} else {
			left = append(left, i)
		}
	}

	for _, group := range []struct {
		side seed.Side
		idx  []int
	}{{seed.Left, left}, {seed.Right, right}} {
		placeGroup(group.side, group.idx, items, f, opts, out.Placements)
	}

	for _, p := range out.Placements {
		out.Attempts += p.Attempts
		if p.Dimmed {
			out.Unresolved++
		}
	}
	return out
}

func placeGroup(side seed.Side, idx []int, items []Item, f Frame, opts Options, out []Placement) {
	slices.SortStableFunc(idx, func(a, b int) int {
		if c := cmp.Compare(items[a].Seed.Y, items[b].Seed.Y); c != 0 {
			return c
		}
		return cmp.Compare(items[a].Key, items[b].Key)
	})

	originX, gutterW := f.gutterOrigin(side)
	h := f.Viewport.Height
	step := opts.Step * h
	occupied := make([]geometry.Rect, 0, len(idx))

	for _, i := range idx {
		it := items[i]
		rng := itemRNG(it)

		enlarged := opts.EnlargeChance > 0 && it.EnlargedSize.Width > 0 && rng.Float64() < opts.EnlargeChance
		size := it.Size
		if enlarged {
			size = it.EnlargedSize
		}

		usable := max(0, gutterW-size.Width)
		x := opts.InsetX*usable + it.Seed.X*opts.SpanX*usable
		baseY := geometry.Clamp(it.Seed.Y*h, opts.MinY*h, opts.MaxY*h)
		maxTop := max(0, h-size.Height)

		rect := func(x, y float64) geometry.Rect {
			return geometry.Rect{
				Left:   originX + x,
				Top:    geometry.Clamp(y, 0, maxTop),
				Width:  size.Width,
				Height: size.Height,
			}
		}

		cand := rect(x, baseY)
		attempts := 0
		for attempts < opts.Attempts && collides(cand, occupied, opts.Padding) {
			attempts++
			ring := float64((attempts + 1) / 2)
			dir := 1.0
			if attempts%2 == 0 {
				dir = -1
			}
			if opts.JitterEvery > 0 && attempts%opts.JitterEvery == 0 {
				x = opts.InsetX*usable + rng.Float64()*opts.SpanX*usable
			}
			cand = rect(x, baseY+dir*ring*step)
		}

		out[i] = Placement{
			Key:      it.Key,
			Side:     side,
			Rect:     cand,
			Enlarged: enlarged,
			Dimmed:   collides(cand, occupied, opts.Padding),
			Attempts: attempts,
		}
		occupied = append(occupied, cand)
	}
}

func collides(r geometry.Rect, occupied []geometry.Rect, pad float64) bool {
	return r.Expand(pad).IntersectsAny(occupied)
}

// itemRNG returns a PRNG fixed by the item's identity and seed.
func itemRNG(it Item) *rand.Rand {
	h := xxhash.Sum64String(it.Key)
	return rand.New(rand.NewPCG(h, math.Float64bits(it.Seed.X)^math.Float64bits(it.Seed.Y)))
}
