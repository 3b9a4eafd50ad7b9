// Package store persists solved scenes so the API can hand out stable scene
// IDs. Two backends exist: an in-memory map for development and tests, and
// MongoDB for deployments.
package store

import (
	"context"

	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// Store is the interface for scene persistence backends.
type Store interface {
	// Get retrieves a scene by ID. A missing scene is an
	// errors.ErrCodeSceneNotFound error.
	Get(ctx context.Context, id string) (*scene.Scene, error)

	// Put stores a scene, assigning an ID if the scene has none. Returns
	// the stored scene's ID.
	Put(ctx context.Context, sc *scene.Scene) (string, error)

	// List returns stored scene IDs, newest first, up to limit. A
	// non-positive limit returns everything.
	List(ctx context.Context, limit int) ([]string, error)

	// Delete removes a scene. Deleting a missing scene is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
