package cache

// ScopedKeyer wraps a Keyer with a prefix so several users or machines can
// share one backend, typically Redis, without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ghoshna:")
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

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(recordHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(recordHash, opts)
}
