// Package cache provides caching for menu snapshots, templates, and
// computed layout documents.
//
// The layout engine is a pure function, so a computed document is fully
// identified by the menu content fingerprint plus the template identity:
// document cache entries never go stale, they only get evicted. Menu and
// template entries shadow the backing store and use short TTLs instead.
//
// Backends:
//   - RedisCache: shared cache for the API server
//   - FileCache: local cache for CLI usage
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// =============================================================================
// TTL Policy
// =============================================================================

// Cache TTLs per entry kind.
const (
	// TTLMenu bounds how stale a cached menu snapshot may be.
	TTLMenu = 15 * time.Minute

	// TTLTemplate bounds how stale a cached template may be. Templates
	// change rarely, and a version bump changes the key anyway.
	TTLTemplate = time.Hour

	// TTLDocument applies to computed layout documents. Entries are
	// content-addressed and cannot go stale, so the TTL only bounds
	// storage growth.
	TTLDocument = 24 * time.Hour
)

// =============================================================================
// Interfaces
// =============================================================================

// Cache is a byte-oriented key/value store with TTL support.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DocumentKeyOpts captures everything besides menu content that affects a
// computed layout document. Any field change produces a different key.
type DocumentKeyOpts struct {
	TemplateID      string `json:"template_id"`
	TemplateVersion string `json:"template_version"`

	// EngineVersion invalidates cached documents across engine releases,
	// since an algorithm change may legitimately move tiles.
	EngineVersion string `json:"engine_version"`
}

// Keyer generates cache keys for the platform's entry kinds.
type Keyer interface {
	// MenuKey generates a key for a cached menu snapshot.
	MenuKey(slug string) string

	// TemplateKey generates a key for a cached template.
	TemplateKey(id, version string) string

	// DocumentKey generates a key for a computed layout document, derived
	// from the menu content fingerprint and the document options.
	DocumentKey(fingerprint string, opts DocumentKeyOpts) string
}

// =============================================================================
// Default Keyer
// =============================================================================

// DefaultKeyer generates keys in the form prefix:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MenuKey generates a key for a cached menu snapshot.
func (k *DefaultKeyer) MenuKey(slug string) string {
	return hashKey("menu", slug)
}

// TemplateKey generates a key for a cached template.
func (k *DefaultKeyer) TemplateKey(id, version string) string {
	return hashKey("template", id, version)
}

// DocumentKey generates a key for a computed layout document.
func (k *DefaultKeyer) DocumentKey(fingerprint string, opts DocumentKeyOpts) string {
	return hashKey("document", fingerprint, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
