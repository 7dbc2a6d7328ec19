package cache

// ScopedKeyer prefixes every key of an inner keyer, giving callers that
// share one backend separate namespaces. The HTTP server scopes its entries
// this way so they never collide with CLI runs against the same store.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// OutputKey implements [Keyer].
func (k *ScopedKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return k.prefix + k.inner.OutputKey(inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(outputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(outputHash, opts)
}
