// Package page models the element tree the link engine mutates.
//
// A [Document] is a minimal stand-in for a browser page: a body element, an
// optional content column with a fixed box, and navigation link elements.
// Elements carry classes, string attributes (used for the per-link seed,
// exactly like data-* attributes on a DOM node), an inline style with absolute
// position and opacity, and a single parent.
//
// The tree enforces the DOM's single-parent rule: [Element.AppendChild]
// detaches the child from its previous parent first, so an element can never
// be reachable from two containers at once.
package page
