// Package rail gathers links into a single scrollable strip when the
// gutters are too narrow for wander placement.
//
// The strip is an element with id [ID] and class [Class], created lazily on
// [Manager.Enter] and removed on [Manager.Exit]. While it exists every link
// is its direct child and carries no absolute position.
package rail

import (
	"math/rand/v2"

	"github.com/matzehuels/linkdrift/pkg/page"
)

const (
	ID    = "link-rail"
	Class = "link-rail"
)

// Manager moves links in and out of the strip. It is not safe for concurrent
// use; one manager belongs to one engine context.
type Manager struct {
	rng *rand.Rand
}

// NewManager returns a manager whose shuffle order is fixed by seed.
// A zero seed draws one from the global source.
func NewManager(seed uint64) *Manager {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Manager{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

// Strip returns the document's strip, or nil.
func Strip(doc *page.Document) *page.Element {
	return doc.ElementByID(ID)
}

// Active reports whether the document currently has a strip.
func Active(doc *page.Document) bool {
	return Strip(doc) != nil
}

// Enter creates the strip if needed and moves every link into it in a
// shuffled order. Links already in the strip are reordered along with the
// rest.
func (m *Manager) Enter(doc *page.Document, links []*page.Element) *page.Element {
	strip := ensureStrip(doc)
	shuffled := make([]*page.Element, len(links))
	copy(shuffled, links)
	m.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, l := range shuffled {
		moveInto(strip, l)
	}
	return strip
}

// Adopt moves links that are not yet direct children of the strip to its
// end, keeping the existing order intact. It creates the strip if missing
// and returns how many links moved.
func (m *Manager) Adopt(doc *page.Document, links []*page.Element) int {
	strip := ensureStrip(doc)
	moved := 0
	for _, l := range links {
		if l.Parent() == strip {
			if l.Style.Absolute {
				l.ClearPosition()
			}
			continue
		}
		moveInto(strip, l)
		moved++
	}
	return moved
}

// Exit returns every link in the strip to the body in strip order and
// removes the strip. It reports how many links were moved; a document
// without a strip is left alone.
func (m *Manager) Exit(doc *page.Document) int {
	strip := Strip(doc)
	if strip == nil {
		return 0
	}
	moved := 0
	for _, c := range strip.Children() {
		if !c.HasClass(page.ClassLink) {
			continue
		}
		c.ClearPosition()
		c.Style.Opacity = 0
		doc.Body.AppendChild(c)
		moved++
	}
	strip.Remove()
	return moved
}

func ensureStrip(doc *page.Document) *page.Element {
	if s := Strip(doc); s != nil {
		return s
	}
	s := page.NewElement("nav", ID, Class)
	s.SetAttr("aria-label", "Links")
	doc.Body.AppendChild(s)
	return s
}

func moveInto(strip, l *page.Element) {
	l.ClearPosition()
	l.Style.Opacity = 0
	strip.AppendChild(l)
}
