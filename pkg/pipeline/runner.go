package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/menupress/menupress/pkg/cache"
	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/layout"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/observability"
	"github.com/menupress/menupress/pkg/store"
	"github.com/menupress/menupress/pkg/template"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The store may be nil when all inputs arrive inline and Persist is off.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → persist pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.TemplateID, menuRef(opts))
	tpl, m, err := r.ResolveInputs(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.TemplateID, menuRef(opts), 0, time.Since(loadStart), err)
		return nil, fmt.Errorf("load: %w", err)
	}
	observability.Pipeline().OnLoadComplete(ctx, tpl.ID, menuRef(opts), m.ItemCount(), time.Since(loadStart), nil)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ItemCount = m.ItemCount()
	result.Fingerprint = m.Fingerprint()

	r.Logger.Info("loaded inputs",
		"template", tpl.ID,
		"menu", m.Name,
		"items", m.ItemCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, tpl.ID, m.ItemCount())
	doc, layoutHit, err := r.ComputeDocumentWithCacheInfo(ctx, tpl, m, opts)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, tpl.ID, 0, 0, time.Since(layoutStart), err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PageCount = len(doc.Pages)
	result.Stats.TileCount = doc.TileCount()
	result.CacheInfo.LayoutHit = layoutHit

	observability.Pipeline().OnLayoutComplete(ctx, tpl.ID, len(doc.Pages), doc.TileCount(), result.Stats.LayoutTime, nil)
	r.Logger.Info("computed layout",
		"pages", len(doc.Pages),
		"tiles", doc.TileCount(),
		"cache_hit", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Persist
	if opts.Persist {
		persistStart := time.Now()
		rec, err := r.PersistDocument(ctx, doc, result.Fingerprint)
		if err != nil {
			observability.Pipeline().OnPersistComplete(ctx, "", time.Since(persistStart), err)
			return nil, fmt.Errorf("persist: %w", err)
		}
		observability.Pipeline().OnPersistComplete(ctx, rec.ID, time.Since(persistStart), nil)
		result.Record = rec
		r.Logger.Info("stored document", "id", rec.ID)
	}

	return result, nil
}

// ResolveInputs returns the template and menu for a run, preferring inline
// inputs over store lookups.
func (r *Runner) ResolveInputs(ctx context.Context, opts Options) (*template.Template, *menu.Menu, error) {
	tpl := opts.Template
	if tpl == nil {
		if r.Store == nil {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "template_id given but no store configured")
		}
		loaded, err := r.Store.GetTemplate(ctx, opts.TemplateID)
		if err != nil {
			return nil, nil, err
		}
		tpl = loaded
	}

	m := opts.Menu
	if m == nil {
		if r.Store == nil {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "menu reference given but no store configured")
		}
		var err error
		if opts.MenuID != "" {
			m, err = r.Store.GetMenu(ctx, opts.MenuID)
		} else {
			m, err = r.Store.GetMenuBySlug(ctx, opts.MenuSlug)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return tpl, m, nil
}

// ComputeDocumentWithCacheInfo computes the layout document with caching
// and returns cache hit info. The cache key is derived from the menu
// content fingerprint, so volatile snapshot metadata never causes a miss.
func (r *Runner) ComputeDocumentWithCacheInfo(ctx context.Context, tpl *template.Template, m *menu.Menu, opts Options) (*layout.Document, bool, error) {
	cacheKey := r.Keyer.DocumentKey(m.Fingerprint(), opts.DocumentKeyOpts(tpl))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := layout.UnmarshalDocument(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				return doc, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	// Compute
	doc, err := layout.Compute(tpl, m)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := layout.MarshalDocument(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
		observability.Cache().OnCacheSet(ctx, "document", len(data))
	}

	return doc, false, nil // Cache miss
}

// ComputeDocument is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeDocument(ctx context.Context, tpl *template.Template, m *menu.Menu, opts Options) (*layout.Document, error) {
	doc, _, err := r.ComputeDocumentWithCacheInfo(ctx, tpl, m, opts)
	return doc, err
}

// PersistDocument wraps a computed document in a record and stores it.
func (r *Runner) PersistDocument(ctx context.Context, doc *layout.Document, fingerprint string) (*store.DocumentRecord, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "persist requested but no store configured")
	}
	rec := store.NewDocumentRecord(doc, fingerprint)
	if err := r.Store.PutDocument(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// menuRef names the menu input for log and hook events.
func menuRef(opts Options) string {
	switch {
	case opts.Menu != nil:
		return opts.Menu.Name
	case opts.MenuID != "":
		return opts.MenuID
	default:
		return opts.MenuSlug
	}
}
