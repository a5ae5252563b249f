package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/scene"
)

func buildLayout(t *testing.T, vp geometry.Size) (*scene.Layout, *page.Document) {
	t.Helper()
	s := &scene.Scene{
		Viewport: vp,
		Links: []scene.Link{
			{Label: "Blog", Href: "/blog", Seed: &scene.SeedSpec{Side: "left", X: 0.5, Y: 0.2}},
			{Label: "Talks & Slides", Href: "/talks", Seed: &scene.SeedSpec{Side: "left", X: 0.5, Y: 0.22}},
			{Label: "GitHub", Href: "https://github.com/matzehuels", External: true, Seed: &scene.SeedSpec{Side: "right", X: 0.3, Y: 0.8}},
		},
	}
	doc := s.Build()
	eng := engine.New(doc, engine.WithRailSeed(1))
	return scene.Export(eng, eng.Recompute(context.Background(), "load"), page.DefaultMeasurer), doc
}

func TestRenderSVG(t *testing.T) {
	tests := []struct {
		name     string
		viewport geometry.Size
		opts     []SVGOption
		contains []string
	}{
		{
			name:     "wander",
			viewport: geometry.Size{Width: 1440, Height: 900},
			opts:     []SVGOption{WithGutters(), WithSeeds()},
			contains: []string{`viewBox="0 0 1440.0 900.0"`, `class="gutter"`, `class="seed"`, "Talks &amp; Slides", `class="link external"`},
		},
		{
			name:     "rail",
			viewport: geometry.Size{Width: 400, Height: 800},
			contains: []string{`class="rail"`, ">Blog<", ">GitHub<"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := buildLayout(t, tt.viewport)
			svg := string(RenderSVG(l, tt.opts...))
			if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
				t.Fatalf("not an svg document:\n%s", svg)
			}
			for _, want := range tt.contains {
				if !strings.Contains(svg, want) {
					t.Errorf("svg missing %q", want)
				}
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	l, _ := buildLayout(t, geometry.Size{Width: 1440, Height: 900})
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out["mode"] != "wander" {
		t.Errorf("mode = %v, want wander", out["mode"])
	}
}

func TestToDOT(t *testing.T) {
	_, doc := buildLayout(t, geometry.Size{Width: 400, Height: 800})
	dot := ToDOT(doc)

	for _, want := range []string{"digraph G {", `label="body"`, `label="nav#link-rail"`, `label="GitHub"`, "color=blue", "->"} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q:\n%s", want, dot)
		}
	}
	// body -> rail -> 3 links
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("edges = %d, want 4", got)
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name     string
		viewport geometry.Size
		contains []string
	}{
		{"wander", geometry.Size{Width: 1440, Height: 900}, []string{"Blog", "GitHub", "....."}},
		{"rail", geometry.Size{Width: 400, Height: 800}, []string{" | "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := buildLayout(t, tt.viewport)
			out := RenderText(l, 120, 30, WithPlainText())
			lines := strings.Split(out, "\n")
			if len(lines) != 30 {
				t.Fatalf("rows = %d, want 30", len(lines))
			}
			for i, line := range lines {
				if w := runewidth.StringWidth(line); w != 120 {
					t.Errorf("row %d width = %d, want 120", i, w)
				}
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("text missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestDrawLabelWide(t *testing.T) {
	row := make([]cell, 6)
	for i := range row {
		row[i] = cell{r: ' '}
	}
	drawLabel(row, 0, "日本", cellLink)
	drawLabel(row, 1, "x", cellLink)

	var r textRenderer
	r.plain = true
	var sb strings.Builder
	r.writeRow(&sb, row)
	if w := runewidth.StringWidth(sb.String()); w != 6 {
		t.Errorf("width = %d, want 6 (%q)", w, sb.String())
	}
}
