package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// API tenants can share one Redis instance without key collisions.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "classdiagram:staging:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(definitionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(definitionHash, opts)
}
