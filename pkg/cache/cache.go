// Package cache provides content-addressed caching for solve results and
// rendered artifacts, with file, Redis, and null backends behind one
// interface. Keys are derived from SHA-256 hashes of the inputs, so a cache
// hit is always safe to serve.
package cache

import (
	"context"
	"time"
)

// Default TTLs per content type.
const (
	// TTLSolve is the lifetime of cached solve results. Solves are
	// deterministic for a given spec and limits, so this can be long.
	TTLSolve = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered exports (DOT, SVG).
	TTLArtifact = 7 * 24 * time.Hour

	// TTLGenerated is the lifetime of model-generated specs, kept short so
	// regeneration picks up prompt changes.
	TTLGenerated = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolveKeyOpts captures every solver setting that can change a solve result.
// Two requests with the same spec hash and the same opts are interchangeable.
type SolveKeyOpts struct {
	MaxIterations    int `json:"max_iterations"`
	MaxSlideDistance int `json:"max_slide_distance"`
	MaxGridExtent    int `json:"max_grid_extent"`
}

// ArtifactKeyOpts captures the render settings baked into an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // "dot" or "svg"
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SolveKey keys a solve result by the hash of the spec text.
	SolveKey(specHash string, opts SolveKeyOpts) string

	// ArtifactKey keys a rendered export by the hash of the solved grid.
	ArtifactKey(gridHash string, opts ArtifactKeyOpts) string

	// GenerateKey keys a model-generated spec by structure type and prompt.
	GenerateKey(structure, promptHash string) string
}

// DefaultKeyer hashes all key parts with SHA-256 under a stage prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolveKey generates a key for solve result caching.
func (k *DefaultKeyer) SolveKey(specHash string, opts SolveKeyOpts) string {
	return hashKey("solve", specHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", gridHash, opts)
}

// GenerateKey generates a key for model-generated spec caching.
func (k *DefaultKeyer) GenerateKey(structure, promptHash string) string {
	return hashKey("generate", structure, promptHash)
}
