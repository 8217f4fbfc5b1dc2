package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving callers that
// share a backend separate namespaces:
//
//	keyer := cache.NewScopedKeyer(nil, "server:")
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

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(eventsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(eventsHash, opts)
}

// EventsKey implements Keyer.
func (k *ScopedKeyer) EventsKey(sourceID string) string {
	return k.prefix + k.inner.EventsKey(sourceID)
}
