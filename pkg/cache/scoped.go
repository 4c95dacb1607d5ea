package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis or Mongo instance.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "turtlyscope:")
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

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(inputHash, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(payloadHash, opts)
}
