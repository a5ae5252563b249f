// Package engine runs link recomputation passes over a page.
//
// A [Context] owns everything that persists between passes: the document,
// the current [mode.Mode], the rail manager and the seed assigner. One pass
// ([Context.Recompute]) reads the geometry fresh, ensures every link has a
// seed, selects the mode and then either places links in the gutters or
// keeps them in the rail strip.
//
// Mode transitions are edge-triggered. Entering Rail shuffles links into the
// strip once; later Rail passes only adopt links that are not in the strip
// yet. Leaving Rail moves links back to the body before wander placement
// runs.
//
// A Context is not safe for concurrent use. Drive it from a single goroutine,
// typically through [scheduler.Loop].
package engine
