package cache

// ScopedKeyer wraps a Keyer with a prefix so that different contexts get
// separate cache namespaces. The server uses this to version its keys:
// bumping the prefix invalidates every entry written under the old scheme
// without touching the backend.
//
// Example usage:
//
//	// Keys versioned for the current markup scheme
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// DiagramKey generates a prefixed key for diagram caching.
func (k *ScopedKeyer) DiagramKey(dotHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(dotHash, opts)
}
