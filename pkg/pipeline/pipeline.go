// Package pipeline provides the core layout pipeline for menupress.
//
// This package implements the complete load → layout → persist pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Resolve the template and menu snapshot (inline or from a store)
//  2. Layout: Compute the paginated tile document
//  3. Persist: Optionally store the document record for later retrieval
//
// The layout stage is cached: the engine is a pure function, so a document
// is fully identified by the menu content fingerprint plus the template
// identity and engine version. Two menus with identical content share one
// cache entry regardless of record ids or extraction timestamps.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    TemplateID: "bistro-classic",
//	    MenuSlug:   "la-trattoria",
//	    Persist:    true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/menupress/menupress/pkg/buildinfo"
	"github.com/menupress/menupress/pkg/cache"
	"github.com/menupress/menupress/pkg/layout"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/store"
	"github.com/menupress/menupress/pkg/template"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one layout pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Store-backed input selection
	TemplateID string `json:"template_id,omitempty"`
	MenuID     string `json:"menu_id,omitempty"`
	MenuSlug   string `json:"menu_slug,omitempty"`

	// Inline inputs. When set, they take precedence over the store-backed
	// selectors above; CLI runs pass these after loading local files.
	Template *template.Template `json:"template,omitempty"`
	Menu     *menu.Menu         `json:"menu,omitempty"`

	// Refresh bypasses the document cache read (the result is still
	// written back).
	Refresh bool `json:"refresh,omitempty"`

	// Persist stores a document record after computation.
	Persist bool `json:"persist,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the computed layout document.
	Document *layout.Document

	// Fingerprint is the content fingerprint of the menu that produced
	// the document.
	Fingerprint string

	// Record is the stored document record, set only when Persist was
	// requested.
	Record *store.DocumentRecord

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PageCount  int
	TileCount  int
	ItemCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for the cached pipeline stages.
type CacheInfo struct {
	LayoutHit bool // Whether the document came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Template == nil && o.TemplateID == "" {
		return fmt.Errorf("template or template_id is required")
	}
	if o.Menu == nil && o.MenuID == "" && o.MenuSlug == "" {
		return fmt.Errorf("menu, menu_id, or menu_slug is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DocumentKeyOpts returns cache key options for the layout stage. The
// engine version is included so cached documents never survive an
// algorithm change.
func (o *Options) DocumentKeyOpts(tpl *template.Template) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		EngineVersion:   buildinfo.Version,
	}
}
