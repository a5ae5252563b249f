package page

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/linkdrift/pkg/geometry"
)

// Measurer reports the rendered size of a link element.
type Measurer interface {
	Measure(e *Element, enlarged bool) geometry.Size
}

// TextMeasurer estimates a link's box from its label using monospace cell
// widths, which matches the terminal preview exactly and browsers closely
// enough for collision purposes.
type TextMeasurer struct {
	CharWidth    float64
	LineHeight   float64
	PadX, PadY   float64
	EnlargeScale float64
}

// DefaultMeasurer is a TextMeasurer tuned for a 14px proportional font.
var DefaultMeasurer = TextMeasurer{
	CharWidth:    8.5,
	LineHeight:   18,
	PadX:         8,
	PadY:         3,
	EnlargeScale: 1.3,
}

// Measure implements Measurer. Wide (East Asian) runes count as two cells.
func (m TextMeasurer) Measure(e *Element, enlarged bool) geometry.Size {
	cells := float64(runewidth.StringWidth(e.Text))
	scale := 1.0
	if enlarged && m.EnlargeScale > 0 {
		scale = m.EnlargeScale
	}
	return geometry.Size{
		Width:  cells*m.CharWidth*scale + 2*m.PadX,
		Height: m.LineHeight*scale + 2*m.PadY,
	}
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(e *Element, enlarged bool) geometry.Size

// Measure implements Measurer.
func (f MeasureFunc) Measure(e *Element, enlarged bool) geometry.Size { return f(e, enlarged) }
