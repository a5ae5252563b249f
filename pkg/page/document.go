package page

import (
	"github.com/matzehuels/linkdrift/pkg/geometry"
)

// Well-known element identity used by the engine and its collaborators.
const (
	// ColumnID is the id of the content column element.
	ColumnID = "content"

	// ClassLink marks navigation link elements.
	ClassLink = "nav-link"
)

// Document is a page: a body element and the current viewport size.
type Document struct {
	Body     *Element
	viewport geometry.Size
}

// New creates an empty document with the given viewport.
func New(viewport geometry.Size) *Document {
	return &Document{
		Body:     NewElement("body", ""),
		viewport: viewport,
	}
}

// Viewport returns the current viewport size.
func (d *Document) Viewport() geometry.Size { return d.viewport }

// SetViewport changes the viewport, as a browser resize would.
func (d *Document) SetViewport(s geometry.Size) { d.viewport = s }

// SetColumn installs (or replaces) the content column with the given box.
func (d *Document) SetColumn(box geometry.Rect) *Element {
	col := d.ElementByID(ColumnID)
	if col == nil {
		col = NewElement("main", ColumnID)
		d.Body.AppendChild(col)
	}
	col.Box = box
	return col
}

// ColumnRect returns the content column's box, if the page has one with a
// non-empty width.
func (d *Document) ColumnRect() (geometry.Rect, bool) {
	col := d.ElementByID(ColumnID)
	if col == nil || col.Box.Width <= 0 {
		return geometry.Rect{}, false
	}
	return col.Box, true
}

// ElementByID returns the first element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.Body.walk(func(e *Element) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Links returns every link element attached to the document, in tree order.
func (d *Document) Links() []*Element {
	var links []*Element
	d.Body.walk(func(e *Element) bool {
		if e.HasClass(ClassLink) {
			links = append(links, e)
		}
		return true
	})
	return links
}

// Walk visits every attached element in tree order, starting at the body.
func (d *Document) Walk(fn func(*Element)) {
	d.Body.walk(func(e *Element) bool {
		fn(e)
		return true
	})
}

var _ geometry.Source = (*Document)(nil)
