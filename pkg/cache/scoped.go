package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Each venue on the hosted platform gets its own cache namespace, so two
// venues with identical menu content still cannot observe each other's
// entries.
//
// Example usage:
//
//	// Venue-specific keys on the hosted platform
//	venueKeyer := NewScopedKeyer(NewDefaultKeyer(), "venue:abc123:")
//
//	// Unscoped keys for local CLI runs
//	localKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// MenuKey generates a prefixed key for a cached menu snapshot.
func (k *ScopedKeyer) MenuKey(slug string) string {
	return k.prefix + k.inner.MenuKey(slug)
}

// TemplateKey generates a prefixed key for a cached template.
func (k *ScopedKeyer) TemplateKey(id, version string) string {
	return k.prefix + k.inner.TemplateKey(id, version)
}

// DocumentKey generates a prefixed key for a computed layout document.
func (k *ScopedKeyer) DocumentKey(fingerprint string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(fingerprint, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
