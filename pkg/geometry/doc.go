// Package geometry provides the rectangle primitives shared by the placement
// engine and the derived gutter geometry around the content column.
//
// All coordinates are in viewport units (CSS pixels in a browser, scaled cells
// in the terminal preview). The origin is the top-left corner of the viewport;
// Y grows downwards.
//
// # Gutters
//
// The gutters are the horizontal strips between the viewport edges and the
// content column. [Provider.Gutters] reads them from any [Source]; when the
// source has no column, a column of [DefaultFallbackWidth] centred in the
// viewport is synthesized so callers never need to special-case a missing one.
package geometry
