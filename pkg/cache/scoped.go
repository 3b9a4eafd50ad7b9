package cache

// ScopedKeyer wraps a Keyer with a namespace prefix so independent deployments
// (or tenants of the shared API) cannot collide in one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated key.
// A nil inner keyer falls back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey generates a prefixed key for solve result caching.
func (k *ScopedKeyer) SolveKey(specHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(specHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gridHash, opts)
}

// GenerateKey generates a prefixed key for model-generated spec caching.
func (k *ScopedKeyer) GenerateKey(structure, promptHash string) string {
	return k.prefix + k.inner.GenerateKey(structure, promptHash)
}
