package page

import (
	"slices"

	"github.com/matzehuels/linkdrift/pkg/geometry"
)

// Style is the inline style the engine writes onto an element.
type Style struct {
	// Absolute is true when Left/Top position the element inside the viewport.
	Absolute bool
	Left     float64
	Top      float64
	// Opacity in (0, 1]. Zero means unset (fully opaque).
	Opacity float64
}

// EffectiveOpacity returns the opacity, treating unset as 1.
func (s Style) EffectiveOpacity() float64 {
	if s.Opacity <= 0 {
		return 1
	}
	return s.Opacity
}

// Element is a node in the page tree.
type Element struct {
	ID    string
	Tag   string
	Text  string
	Style Style

	// Box is the static layout box for elements that are not positioned by
	// the engine (the content column). Zero for everything else.
	Box geometry.Rect

	classes  []string
	attrs    map[string]string
	parent   *Element
	children []*Element
}

// NewElement creates a detached element.
func NewElement(tag, id string, classes ...string) *Element {
	return &Element{
		ID:      id,
		Tag:     tag,
		classes: slices.Clone(classes),
		attrs:   make(map[string]string),
	}
}

// Parent returns the parent element, or nil if detached or root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// AppendChild moves child to the end of e's children, detaching it from any
// previous parent.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

// RemoveChild detaches child from e. Returns false if child is not a child of e.
// Order of the remaining children is preserved.
func (e *Element) RemoveChild(child *Element) bool {
	i := slices.Index(e.children, child)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
	return true
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Contains reports whether o is e or a descendant of e.
func (e *Element) Contains(o *Element) bool {
	for n := o; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// HasClass reports whether e carries class c.
func (e *Element) HasClass(c string) bool { return slices.Contains(e.classes, c) }

// AddClass adds c if not present.
func (e *Element) AddClass(c string) {
	if !e.HasClass(c) {
		e.classes = append(e.classes, c)
	}
}

// RemoveClass removes c if present.
func (e *Element) RemoveClass(c string) {
	e.classes = slices.DeleteFunc(e.classes, func(s string) bool { return s == c })
}

// ToggleClass adds c when on is true and removes it otherwise.
func (e *Element) ToggleClass(c string, on bool) {
	if on {
		e.AddClass(c)
	} else {
		e.RemoveClass(c)
	}
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// Attr returns the attribute value and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) { delete(e.attrs, name) }

// ClearPosition resets absolute positioning, returning the element to the
// normal flow of its parent.
func (e *Element) ClearPosition() {
	e.Style.Absolute = false
	e.Style.Left = 0
	e.Style.Top = 0
}

// walk visits e and its descendants depth-first in tree order.
// Returning false from fn stops the walk.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
