package sink

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

const svgCSS = `
    .viewport { fill: #fafaf7; stroke: #d0d0c8; }
    .column { fill: #ffffff; stroke: #c8c8c0; stroke-dasharray: 4 3; }
    .gutter { fill: #f1efe6; }
    .rail { fill: #ecebe4; stroke: #c8c8c0; }
    .link rect { fill: #ffffff; stroke: #333333; stroke-width: 1.2; }
    .link.external rect { stroke: #2b6cb0; }
    .link.enlarged text { font-weight: bold; }
    .link text { font-family: ui-sans-serif, system-ui, sans-serif; font-size: 14px; fill: #222222; }
    .seed { fill: #c53030; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	gutters bool
	seeds   bool
	railGap float64
}

// WithGutters shades the gutters.
func WithGutters() SVGOption { return func(r *svgRenderer) { r.gutters = true } }

// WithSeeds marks each link's seeded anchor point.
func WithSeeds() SVGOption { return func(r *svgRenderer) { r.seeds = true } }

// RenderSVG draws the layout at viewport scale.
func RenderSVG(l *scene.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{railGap: 8}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.Viewport.Width, l.Viewport.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	fmt.Fprintf(&buf, `  <rect class="viewport" x="0" y="0" width="%.1f" height="%.1f"/>`+"\n", w, h)

	if r.gutters {
		if l.Gutters.Left > 0 {
			writeRect(&buf, "gutter", geometry.Rect{Width: l.Gutters.Left, Height: h})
		}
		if l.Gutters.Right > 0 {
			writeRect(&buf, "gutter", geometry.Rect{Left: w - l.Gutters.Right, Width: l.Gutters.Right, Height: h})
		}
	}
	writeRect(&buf, "column", l.Column)

	if l.Mode == mode.Rail {
		r.renderRail(&buf, l)
	} else {
		for _, link := range l.Links {
			r.renderLink(&buf, link, link.Rect())
		}
		if r.seeds {
			for _, link := range l.Links {
				x, y := seedAnchor(l, link)
				fmt.Fprintf(&buf, `  <circle class="seed" cx="%.1f" cy="%.1f" r="2.5"/>`+"\n", x, y)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderRail(buf *bytes.Buffer, l *scene.Layout) {
	rowH := 0.0
	for _, link := range l.Links {
		rowH = max(rowH, link.Height)
	}
	strip := geometry.Rect{
		Top:    l.Viewport.Height - rowH - 2*r.railGap,
		Width:  l.Viewport.Width,
		Height: rowH + 2*r.railGap,
	}
	writeRect(buf, "rail", strip)

	x := r.railGap
	for _, link := range railOrder(l.Links) {
		box := geometry.Rect{Left: x, Top: strip.Top + r.railGap, Width: link.Width, Height: link.Height}
		r.renderLink(buf, link, box)
		x += link.Width + r.railGap
	}
}

func (r svgRenderer) renderLink(buf *bytes.Buffer, link scene.PlacedLink, box geometry.Rect) {
	class := "link"
	if link.External {
		class += " external"
	}
	if link.Enlarged {
		class += " enlarged"
	}

	wrapHref(buf, link.Href, func() {
		fmt.Fprintf(buf, `  <g class="%s" opacity="%.2f" data-key="%s">`, class, link.Opacity, escapeXML(link.Key))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4"/>`, box.Left, box.Top, box.Width, box.Height)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`,
			box.CenterX(), box.CenterY(), escapeXML(link.Label))
		buf.WriteString("</g>")
	})
	buf.WriteString("\n")
}

// seedAnchor projects a link's seed onto its gutter.
func seedAnchor(l *scene.Layout, link scene.PlacedLink) (x, y float64) {
	left, width := 0.0, l.Gutters.Left
	if seed.Side(link.Seed.Side) == seed.Right {
		left, width = l.Viewport.Width-l.Gutters.Right, l.Gutters.Right
	}
	return left + link.Seed.X*width, link.Seed.Y * l.Viewport.Height
}

// railOrder returns rail links sorted by their order in the strip.
func railOrder(links []scene.PlacedLink) []scene.PlacedLink {
	out := make([]scene.PlacedLink, 0, len(links))
	for _, l := range links {
		if l.Container == scene.ContainerRail {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b scene.PlacedLink) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

func writeRect(buf *bytes.Buffer, class string, r geometry.Rect) {
	fmt.Fprintf(buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		class, r.Left, r.Top, r.Width, r.Height)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func wrapHref(buf *bytes.Buffer, href string, fn func()) {
	if href != "" {
		fmt.Fprintf(buf, `  <a href="%s">`, escapeXML(href))
	}
	fn()
	if href != "" {
		buf.WriteString("</a>")
	}
}
