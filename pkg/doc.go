// Package pkg provides the core libraries for menupress menu layout.
//
// # Overview
//
// Menupress transforms normalized menu snapshots into deterministic,
// paginated print layouts. The pkg directory is organized into five main
// areas:
//
//  1. [template] / [menu] - The two input models (layout templates, menu snapshots)
//  2. [layout] - The layout engine (grid allocation, balancing, filler)
//  3. [cache] / [store] - Infrastructure (document caching, persistence)
//  4. [pipeline] - Orchestration (load → layout → persist)
//  5. [errors] / [observability] / [buildinfo] - Cross-cutting support
//
// # Architecture
//
// The typical data flow through menupress:
//
//	Menu Snapshot + Layout Template
//	         ↓
//	    [layout] package (allocate → balance → fill)
//	         ↓
//	    Paginated tile document
//	         ↓
//	    [store] package (document records)
//
// # Quick Start
//
// Compute a layout directly:
//
//	tpl, err := template.LoadFile("bistro.toml")
//	if err != nil { ... }
//	doc, err := layout.Compute(tpl, m)
//
// Or run the full cached pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Template: tpl, Menu: m})
//
// The engine is a pure function: the same template and menu content always
// produce byte-identical documents, which is what makes fingerprint-keyed
// caching sound.
package pkg
