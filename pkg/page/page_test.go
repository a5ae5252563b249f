package page

import (
	"slices"
	"testing"

	"github.com/matzehuels/linkdrift/pkg/geometry"
)

func TestDocumentColumn(t *testing.T) {
	doc := New(geometry.Size{Width: 1200, Height: 800})
	if _, ok := doc.ColumnRect(); ok {
		t.Fatal("empty document reports a column")
	}

	box := geometry.Rect{Left: 300, Width: 600, Height: 800}
	col := doc.SetColumn(box)
	if got, ok := doc.ColumnRect(); !ok || got != box {
		t.Errorf("ColumnRect() = %+v, %v, want %+v", got, ok, box)
	}

	// Replacing keeps the same element.
	if again := doc.SetColumn(geometry.Rect{Width: 400, Height: 800}); again != col {
		t.Error("SetColumn created a second column")
	}
	if n := len(doc.Body.Children()); n != 1 {
		t.Errorf("body children = %d, want 1", n)
	}

	doc.SetColumn(geometry.Rect{})
	if _, ok := doc.ColumnRect(); ok {
		t.Error("zero-width column reported")
	}
}

func TestTreeMoves(t *testing.T) {
	doc := New(geometry.Size{Width: 800, Height: 600})
	col := doc.SetColumn(geometry.Rect{Width: 400, Height: 600})
	a := NewLink("A", "/a", false)
	b := NewLink("B", "/b", false)
	doc.Body.AppendChild(a)
	doc.Body.AppendChild(b)

	col.AppendChild(a)
	if a.Parent() != col {
		t.Fatal("AppendChild did not reparent")
	}
	if slices.Contains(doc.Body.Children(), a) {
		t.Error("link still a child of the body after the move")
	}
	if !doc.Body.Contains(a) || col.Contains(b) {
		t.Error("Contains() disagrees with the tree")
	}

	var texts []string
	for _, l := range doc.Links() {
		texts = append(texts, l.Text)
	}
	if want := []string{"A", "B"}; !slices.Equal(texts, want) {
		t.Errorf("Links() = %v, want %v", texts, want)
	}

	a.Remove()
	if a.Parent() != nil || len(doc.Links()) != 1 {
		t.Error("Remove() left the link attached")
	}
	if doc.Body.RemoveChild(a) {
		t.Error("RemoveChild of a detached element reported success")
	}
}

func TestClasses(t *testing.T) {
	e := NewElement("a", "", ClassLink)
	e.AddClass("enlarged")
	e.AddClass("enlarged")
	if got := e.Classes(); !slices.Equal(got, []string{ClassLink, "enlarged"}) {
		t.Errorf("Classes() = %v", got)
	}
	e.ToggleClass("enlarged", false)
	if e.HasClass("enlarged") {
		t.Error("ToggleClass(false) did not remove the class")
	}
}

func TestLinkAttributes(t *testing.T) {
	internal := NewLink("Home", "/", false)
	external := NewLink("GitHub", "https://github.com", true)

	if Href(internal) != "/" || IsExternal(internal) {
		t.Error("internal link attributes wrong")
	}
	if !IsExternal(external) {
		t.Error("external link not marked")
	}
	if rel, _ := external.Attr("rel"); rel != "noopener" {
		t.Errorf("rel = %q, want noopener", rel)
	}
	if LinkKey(internal) == LinkKey(NewLink("Home", "/home", false)) {
		t.Error("links with different hrefs share a key")
	}
	if LinkKey(internal) != LinkKey(NewLink("Home", "/", true)) {
		t.Error("link key depends on more than label and href")
	}
}

func TestTextMeasurer(t *testing.T) {
	m := TextMeasurer{CharWidth: 10, LineHeight: 20, PadX: 5, PadY: 2, EnlargeScale: 1.5}

	tests := []struct {
		name     string
		text     string
		enlarged bool
		want     geometry.Size
	}{
		{"ascii", "Home", false, geometry.Size{Width: 50, Height: 24}},
		{"enlarged", "Home", true, geometry.Size{Width: 70, Height: 34}},
		{"wide runes", "日本", false, geometry.Size{Width: 50, Height: 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewLink(tt.text, "/", false)
			if got := m.Measure(e, tt.enlarged); got != tt.want {
				t.Errorf("Measure() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
