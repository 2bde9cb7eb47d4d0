package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The CLI scopes keys
// by cache format version so that entries written by an incompatible
// release are never read back.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey returns the prefixed inner graph key.
func (k *ScopedKeyer) GraphKey(opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(opts)
}

// PayloadKey returns the prefixed inner payload key.
func (k *ScopedKeyer) PayloadKey(graphHash string, opts PayloadKeyOpts) string {
	return k.prefix + k.inner.PayloadKey(graphHash, opts)
}
