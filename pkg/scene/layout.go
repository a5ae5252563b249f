package scene

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/rail"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// Link containers.
const (
	ContainerBody = "body"
	ContainerRail = "rail"
)

// Layout is the exported result of a run.
type Layout struct {
	Mode      mode.Mode        `json:"mode"`
	Viewport  geometry.Size    `json:"viewport"`
	Column    geometry.Rect    `json:"column"`
	Gutters   geometry.Gutters `json:"gutters"`
	Links     []PlacedLink     `json:"links"`
	Stats     Stats            `json:"stats"`
	SessionID string           `json:"session_id,omitempty"`
}

// PlacedLink is one link after the final pass.
type PlacedLink struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Href      string   `json:"href"`
	External  bool     `json:"external,omitempty"`
	Seed      SeedSpec `json:"seed"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Opacity   float64  `json:"opacity"`
	Enlarged  bool     `json:"enlarged,omitempty"`
	Dimmed    bool     `json:"dimmed,omitempty"`
	Container string   `json:"container"`
	Order     int      `json:"order"`
}

// Rect returns the link's box. Links in the rail have no position.
func (l PlacedLink) Rect() geometry.Rect {
	return geometry.Rect{Left: l.X, Top: l.Y, Width: l.Width, Height: l.Height}
}

// Stats summarises the run.
type Stats struct {
	Passes     int     `json:"passes"`
	Links      int     `json:"links"`
	Attempts   int     `json:"attempts"`
	Unresolved int     `json:"unresolved"`
	Coalesced  int     `json:"coalesced"`
	Trigger    string  `json:"last_trigger"`
	DurationMS float64 `json:"last_duration_ms"`
}

// Export captures the document state after rep, the engine's last pass.
// Sizes are measured with m, honouring the enlarged decoration.
func Export(eng *engine.Context, rep engine.Report, m page.Measurer) *Layout {
	doc := eng.Document()
	out := &Layout{
		Mode:     rep.Mode,
		Viewport: rep.Viewport,
		Column:   rep.Column,
		Gutters:  rep.Gutters,
		Stats: Stats{
			Passes:     eng.Passes(),
			Links:      rep.Links,
			Attempts:   rep.Placement.Attempts,
			Unresolved: rep.Placement.Unresolved,
			Trigger:    rep.Trigger,
			DurationMS: float64(rep.Duration.Microseconds()) / 1000,
		},
	}

	strip := rail.Strip(doc)
	order := map[*page.Element]int{}
	for _, l := range doc.Links() {
		enlarged := l.HasClass(engine.ClassEnlarged)
		size := m.Measure(l, enlarged)
		s, _ := seed.Read(l)

		container := ContainerBody
		if strip != nil && l.Parent() == strip {
			container = ContainerRail
		}
		parent := l.Parent()

		out.Links = append(out.Links, PlacedLink{
			Key:       page.LinkKey(l),
			Label:     l.Text,
			Href:      page.Href(l),
			External:  page.IsExternal(l),
			Seed:      SeedSpec{Side: string(s.Side), X: s.X, Y: s.Y},
			X:         l.Style.Left,
			Y:         l.Style.Top,
			Width:     size.Width,
			Height:    size.Height,
			Opacity:   l.Style.EffectiveOpacity(),
			Enlarged:  enlarged,
			Dimmed:    l.HasClass(engine.ClassDimmed),
			Container: container,
			Order:     order[parent],
		})
		order[parent]++
	}
	return out
}

// WriteJSON writes the layout as indented JSON.
func (l *Layout) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// ReadJSON decodes a layout.
func ReadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}
