// Package layout is the document layout engine: a pure function from a
// validated template and menu snapshot to a paginated set of positioned,
// non-overlapping tiles.
//
// # Pipeline
//
// A run is three strictly sequential stages:
//
//  1. Allocate: walk the menu's ordered content stream and place logo,
//     title, section-header, and item tiles onto body grids, deciding page
//     boundaries, keep-with-next deferrals, and continuation headers.
//  2. Balance: recenter each page's final partial row when the template's
//     last-row balancing policy asks for it.
//  3. Fill: place decorative tiles into free cells inside declared safe
//     zones, never overlapping real content.
//
// The engine holds no state between runs, performs no I/O, and never
// returns a partial document: [Compute] yields either a complete
// [Document] or a single terminal error.
package layout
