package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// Redis instance without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "keygrid:corne:")
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

// ResultKey generates a prefixed key for resolved layouts.
func (k *ScopedKeyer) ResultKey(layoutHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(layoutHash, opts)
}

// GraphKey generates a prefixed key for rendered reference graphs.
func (k *ScopedKeyer) GraphKey(layoutHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(layoutHash, opts)
}
