package cache

// ScopedKeyer wraps a Keyer with a prefix so that several callers can share
// one backend without colliding, e.g. one prefix per deployment:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "textuml:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer selects [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the prefix prepended to every key.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// ExtractionKey returns the prefixed extraction key.
func (k *ScopedKeyer) ExtractionKey(source, text string) string {
	return k.prefix + k.inner.ExtractionKey(source, text)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
