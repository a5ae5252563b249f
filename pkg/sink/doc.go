// Package sink provides output format renderers for link layouts.
//
// # Overview
//
// A "sink" transforms a computed [scene.Layout] (or, for the tree views, the
// [page.Document] itself) into a final output format:
//
//   - SVG: the viewport with column, gutters and link boxes
//   - JSON: the layout as data
//   - DOT: the element tree as a Graphviz graph
//   - Tree SVG: the DOT graph rendered through Graphviz
//   - Text: a scaled terminal picture styled with lipgloss
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout, sink.WithGutters(), sink.WithSeeds())
//
// Dimmed links keep their reduced opacity; in rail mode the strip is drawn
// as a band along the bottom of the viewport with links in strip order.
//
// # Tree Output
//
//	dot := sink.ToDOT(doc)
//	svg, err := sink.RenderTreeSVG(ctx, dot)
//
// [scene.Layout]: github.com/matzehuels/linkdrift/pkg/scene#Layout
// [page.Document]: github.com/matzehuels/linkdrift/pkg/page#Document
package sink
