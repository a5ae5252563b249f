package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/scene"
)

type cellKind int

const (
	cellGutter cellKind = iota
	cellColumn
	cellRail
	cellLink
	cellExternal
	cellEnlarged
	cellDimmed
)

var textStyles = map[cellKind]lipgloss.Style{
	cellGutter:   lipgloss.NewStyle(),
	cellColumn:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	cellRail:     lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("245")),
	cellLink:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	cellExternal: lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
	cellEnlarged: lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true),
	cellDimmed:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
}

const (
	minTextCols = 20
	minTextRows = 4
	columnFill  = '.'
	railSep     = " | "
	railMore    = ">"
)

type cell struct {
	r    rune
	kind cellKind
	// cont marks the second half of a wide rune.
	cont bool
}

// TextOption configures [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	plain bool
}

// WithPlainText disables styling, for logs and tests.
func WithPlainText() TextOption { return func(r *textRenderer) { r.plain = true } }

// RenderText draws the layout scaled to a cols×rows terminal grid.
func RenderText(l *scene.Layout, cols, rows int, opts ...TextOption) string {
	var r textRenderer
	for _, opt := range opts {
		opt(&r)
	}
	cols, rows = max(cols, minTextCols), max(rows, minTextRows)

	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
	}

	sx := float64(cols) / l.Viewport.Width
	sy := float64(rows) / l.Viewport.Height

	colL := int(math.Round(l.Column.Left * sx))
	colR := int(math.Round(l.Column.Right() * sx))
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', kind: cellGutter}
			if x >= colL && x < colR {
				grid[y][x] = cell{r: columnFill, kind: cellColumn}
			}
		}
	}

	if l.Mode == mode.Rail {
		drawRail(grid[rows-1], railOrder(l.Links))
	} else {
		for _, link := range l.Links {
			x := int(math.Round(link.X * sx))
			y := min(rows-1, max(0, int(math.Round(link.Y*sy))))
			drawLabel(grid[y], x, link.Label, linkKind(link))
		}
	}

	var sb strings.Builder
	for y, row := range grid {
		r.writeRow(&sb, row)
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func linkKind(l scene.PlacedLink) cellKind {
	switch {
	case l.Dimmed:
		return cellDimmed
	case l.Enlarged:
		return cellEnlarged
	case l.External:
		return cellExternal
	default:
		return cellLink
	}
}

func drawRail(row []cell, links []scene.PlacedLink) {
	for x := range row {
		row[x] = cell{r: ' ', kind: cellRail}
	}
	x := 1
	for i, link := range links {
		if i > 0 {
			x = drawLabel(row, x, railSep, cellRail)
		}
		x = drawLabel(row, x, link.Label, linkKind(link))
		if x >= len(row) {
			break
		}
	}
	if x > len(row) {
		drawLabel(row, len(row)-1, railMore, cellRail)
	}
}

// drawLabel writes s into row starting at x and returns the column after it.
// Runes that would not fit are dropped.
func drawLabel(row []cell, x int, s string, kind cellKind) int {
	x = max(0, x)
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > len(row) {
			return len(row) + 1
		}
		clearWide(row, x, w)
		row[x] = cell{r: ch, kind: kind}
		if w == 2 {
			row[x+1] = cell{kind: kind, cont: true}
		}
		x += w
	}
	return x
}

// clearWide blanks any wide rune partially covered by a write of width w at x.
func clearWide(row []cell, x, w int) {
	if row[x].cont && x > 0 {
		row[x-1] = cell{r: ' ', kind: row[x-1].kind}
	}
	end := x + w
	if end < len(row) && row[end].cont {
		row[end] = cell{r: ' ', kind: row[end].kind}
	}
}

func (r textRenderer) writeRow(sb *strings.Builder, row []cell) {
	var run strings.Builder
	kind := row[0].kind
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if r.plain {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(textStyles[kind].Render(run.String()))
		}
		run.Reset()
	}
	for _, c := range row {
		if c.cont {
			continue
		}
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run.WriteRune(c.r)
	}
	flush()
}
