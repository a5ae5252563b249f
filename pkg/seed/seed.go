// Package seed assigns each link its stable placement seed.
//
// A seed is a side (left or right gutter) plus two fractional coordinates. It
// is generated once per link and stored on the element as data attributes;
// every later recomputation reads it back unchanged, which is what keeps
// links from jumping between unrelated passes.
//
// Two generation policies exist. [Random] draws fresh values per process;
// [Deterministic] derives them from an xxhash of the link identity so the same
// link lands in roughly the same slot after a reload. Either can be backed by
// a [Store], which lets random seeds survive a page reconstruction within one
// session.
package seed

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/linkdrift/pkg/page"
)

// Side selects the gutter a link lives in.
type Side string

// Gutter sides.
const (
	Left  Side = "left"
	Right Side = "right"
)

// Valid reports whether s names a gutter.
func (s Side) Valid() bool { return s == Left || s == Right }

// Bounds of the fractional coordinates.
const (
	MinY = 0.10
	MaxY = 0.90
)

// Element attributes holding the seed.
const (
	AttrSide = "data-side"
	AttrX    = "data-x"
	AttrY    = "data-y"
)

// Seed is a link's placement seed.
type Seed struct {
	Side Side    `json:"side" bson:"side" toml:"side"`
	X    float64 `json:"x" bson:"x" toml:"x"`
	Y    float64 `json:"y" bson:"y" toml:"y"`
}

// Valid reports whether every component is within range:
// X in [0,1), Y in [MinY, MaxY].
func (s Seed) Valid() bool {
	if !s.Side.Valid() {
		return false
	}
	if math.IsNaN(s.X) || s.X < 0 || s.X >= 1 {
		return false
	}
	if math.IsNaN(s.Y) || s.Y < MinY || s.Y > MaxY {
		return false
	}
	return true
}

// Read parses the seed stored on e. ok is false when any attribute is
// missing, unparsable or out of range.
func Read(e *page.Element) (Seed, bool) {
	side, ok := e.Attr(AttrSide)
	if !ok {
		return Seed{}, false
	}
	xs, okX := e.Attr(AttrX)
	ys, okY := e.Attr(AttrY)
	if !okX || !okY {
		return Seed{}, false
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return Seed{}, false
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return Seed{}, false
	}
	s := Seed{Side: Side(side), X: x, Y: y}
	return s, s.Valid()
}

// Write stores s on e. Values are formatted with full precision so Read
// returns exactly s.
func Write(e *page.Element, s Seed) {
	e.SetAttr(AttrSide, string(s.Side))
	e.SetAttr(AttrX, strconv.FormatFloat(s.X, 'g', -1, 64))
	e.SetAttr(AttrY, strconv.FormatFloat(s.Y, 'g', -1, 64))
}

// Clear removes any seed attributes from e.
func Clear(e *page.Element) {
	e.RemoveAttr(AttrSide)
	e.RemoveAttr(AttrX)
	e.RemoveAttr(AttrY)
}

func fromRNG(rng *rand.Rand) Seed {
	side := Left
	if rng.IntN(2) == 1 {
		side = Right
	}
	return Seed{
		Side: side,
		X:    rng.Float64(),
		Y:    MinY + rng.Float64()*(MaxY-MinY),
	}
}
