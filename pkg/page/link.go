package page

// Link attribute names.
const (
	AttrHref     = "href"
	AttrExternal = "data-external"
)

// NewLink creates a detached navigation link element.
func NewLink(label, href string, external bool) *Element {
	e := NewElement("a", "", ClassLink)
	e.Text = label
	e.SetAttr(AttrHref, href)
	if external {
		e.SetAttr(AttrExternal, "true")
		e.SetAttr("target", "_blank")
		e.SetAttr("rel", "noopener")
	}
	return e
}

// Href returns the link destination.
func Href(e *Element) string {
	v, _ := e.Attr(AttrHref)
	return v
}

// IsExternal reports whether the link leaves the site.
func IsExternal(e *Element) bool {
	v, _ := e.Attr(AttrExternal)
	return v == "true"
}

// LinkKey returns the stable identity of a link: its label and destination.
// Two elements with the same key are the same link for seeding purposes, even
// across a full page reconstruction.
func LinkKey(e *Element) string {
	return e.Text + "\x00" + Href(e)
}
