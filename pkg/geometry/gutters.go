package geometry

// DefaultFallbackWidth is the width of the synthesized column used when the
// page has no content column.
const DefaultFallbackWidth = 800.0

// Gutters holds the free horizontal space on either side of the column.
type Gutters struct {
	Left  float64 `json:"left" bson:"left"`
	Right float64 `json:"right" bson:"right"`
}

// Max returns the wider of the two gutters.
func (g Gutters) Max() float64 { return max(g.Left, g.Right) }

// Source exposes the layout state the provider reads.
// Implementations must report the viewport as it is at call time.
type Source interface {
	Viewport() Size
	ColumnRect() (Rect, bool)
}

// Provider derives column and gutter geometry from a [Source].
type Provider struct {
	// FallbackWidth is the synthesized column width. Zero means DefaultFallbackWidth.
	FallbackWidth float64
}

// Column returns the content column rectangle, synthesizing a centred
// fallback column when the source has none or reports a non-finite box.
func (p Provider) Column(src Source) Rect {
	if r, ok := src.ColumnRect(); ok && r.Finite() {
		return r
	}
	vp := src.Viewport()
	w := p.FallbackWidth
	if w <= 0 {
		w = DefaultFallbackWidth
	}
	return Rect{
		Left:   (vp.Width - w) / 2,
		Top:    0,
		Width:  w,
		Height: vp.Height,
	}
}

// Gutters returns the left and right gutter widths, each clamped to >= 0.
func (p Provider) Gutters(src Source) Gutters {
	col := p.Column(src)
	vp := src.Viewport()
	return Gutters{
		Left:  max(0, col.Left),
		Right: max(0, vp.Width-col.Right()),
	}
}
