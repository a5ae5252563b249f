package geometry

import "math"

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Left   float64 `json:"left" bson:"left" toml:"left"`
	Top    float64 `json:"top" bson:"top" toml:"top"`
	Width  float64 `json:"width" bson:"width" toml:"width"`
	Height float64 `json:"height" bson:"height" toml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// IsZero reports whether the rectangle has no area.
func (r Rect) IsZero() bool { return r.Width <= 0 || r.Height <= 0 }

// Finite reports whether every field is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Expand grows the rectangle by pad on all four sides.
func (r Rect) Expand(pad float64) Rect {
	return Rect{
		Left:   r.Left - pad,
		Top:    r.Top - pad,
		Width:  r.Width + 2*pad,
		Height: r.Height + 2*pad,
	}
}

// Intersects reports whether r and o share interior area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Left >= o.Right() || o.Left >= r.Right() {
		return false
	}
	if r.Top >= o.Bottom() || o.Top >= r.Bottom() {
		return false
	}
	return true
}

// IntersectsAny reports whether r intersects any rectangle in rs.
func (r Rect) IntersectsAny(rs []Rect) bool {
	for _, o := range rs {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}

// VerticalGap returns the empty vertical distance between r and o.
// It is negative when the two overlap vertically.
func (r Rect) VerticalGap(o Rect) float64 {
	if r.Top >= o.Top {
		return r.Top - o.Bottom()
	}
	return o.Top - r.Bottom()
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" bson:"width" toml:"width"`
	Height float64 `json:"height" bson:"height" toml:"height"`
}

// Clamp restricts v to [lo, hi]. If lo > hi, lo wins.
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
