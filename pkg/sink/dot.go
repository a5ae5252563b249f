package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/rail"
)

// ToDOT converts the document's element tree to Graphviz DOT format. Links
// are drawn as rounded boxes, the rail strip as a filled box, everything
// else as plain boxes. Edges run from parent to child.
func ToDOT(doc *page.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	ids := map[*page.Element]string{}
	var edges []string
	doc.Walk(func(e *page.Element) {
		id := fmt.Sprintf("n%d", len(ids))
		ids[e] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(e), ", "))
		if p := e.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[p], id))
		}
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e *page.Element) string {
	if e.HasClass(page.ClassLink) {
		return e.Text
	}
	label := e.Tag
	if e.ID != "" {
		label += "#" + e.ID
	}
	return label
}

func fmtAttrs(e *page.Element) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e))}
	switch {
	case e.ID == rail.ID:
		attrs = append(attrs, "style=filled", "fillcolor=lightgrey")
	case e.HasClass(page.ClassLink):
		style := "rounded"
		if e.Style.Opacity > 0 && e.Style.Opacity < 1 {
			style += ",dashed"
		}
		attrs = append(attrs, fmt.Sprintf("style=%q", style))
		if page.IsExternal(e) {
			attrs = append(attrs, "color=blue")
		}
	}
	return attrs
}

// RenderTreeSVG renders a DOT graph to SVG using Graphviz.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
