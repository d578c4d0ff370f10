package cache

// ScopedKeyer wraps a Keyer with a prefix so several diagrams, or several
// tenants of one worker fleet, can share a backend without colliding.
//
//	k := cache.NewScopedKeyer(nil, "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(requestHash, algorithm string) string {
	return k.prefix + k.inner.LayoutKey(requestHash, algorithm)
}

// ExportKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ExportKey(sceneHash, format string, scale float64) string {
	return k.prefix + k.inner.ExportKey(sceneHash, format, scale)
}
