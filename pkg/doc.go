// Package pkg provides the core libraries for linkdrift link placement.
//
// # Overview
//
// linkdrift scatters a page's navigation links through the free space on
// either side of a fixed-width content column, keeps them from overlapping,
// and folds them into a single scrollable strip when that space runs out.
//
// # Architecture
//
// The data flow for one recomputation:
//
//	[scene] (viewport, column, links)
//	         ↓
//	    [page] document (element tree)
//	         ↓
//	    [scheduler] (resize coalescing) → [engine] pass
//	         ↓
//	    [geometry] gutters → [mode] wander/rail
//	         ↓
//	    [seed] + [placement]   or   [rail]
//	         ↓
//	    [sink] SVG/JSON/DOT/text
//
// [pipeline] wires these together for the CLI and the HTTP server;
// [cache] and [session] keep per-link seeds stable for a session.
//
// [scene]: github.com/matzehuels/linkdrift/pkg/scene
// [page]: github.com/matzehuels/linkdrift/pkg/page
// [scheduler]: github.com/matzehuels/linkdrift/pkg/scheduler
// [engine]: github.com/matzehuels/linkdrift/pkg/engine
// [geometry]: github.com/matzehuels/linkdrift/pkg/geometry
// [mode]: github.com/matzehuels/linkdrift/pkg/mode
// [seed]: github.com/matzehuels/linkdrift/pkg/seed
// [placement]: github.com/matzehuels/linkdrift/pkg/placement
// [rail]: github.com/matzehuels/linkdrift/pkg/rail
// [sink]: github.com/matzehuels/linkdrift/pkg/sink
// [pipeline]: github.com/matzehuels/linkdrift/pkg/pipeline
// [cache]: github.com/matzehuels/linkdrift/pkg/cache
// [session]: github.com/matzehuels/linkdrift/pkg/session
package pkg
