package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys of the Debian instance
//	debian := NewScopedKeyer(NewDefaultKeyer(), "debian:")
//
//	// Keys of the Ubuntu instance
//	ubuntu := NewScopedKeyer(NewDefaultKeyer(), "ubuntu:")
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

// ChartKey generates a prefixed key for chart caching.
func (k *ScopedKeyer) ChartKey(fingerprint string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(fingerprint, opts)
}

// DatasetKey generates a prefixed key for dataset caching.
func (k *ScopedKeyer) DatasetKey(fingerprint string, opts DatasetKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(fingerprint, opts)
}
