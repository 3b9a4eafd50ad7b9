package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// MemoryStore keeps scenes in a map. Safe for concurrent use; contents are
// lost on process exit.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string]*scene.Scene
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenes: make(map[string]*scene.Scene)}
}

// Get retrieves a scene by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*scene.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %s not found", id)
	}
	cp := *sc
	return &cp, nil
}

// Put stores a scene, assigning a fresh UUID when it carries none.
func (s *MemoryStore) Put(ctx context.Context, sc *scene.Scene) (string, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	cp := *sc
	s.mu.Lock()
	s.scenes[sc.ID] = &cp
	s.mu.Unlock()
	return sc.ID, nil
}

// List returns scene IDs ordered by creation time, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	all := make([]*scene.Scene, 0, len(s.scenes))
	for _, sc := range s.scenes {
		all = append(all, sc)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	ids := make([]string, 0, len(all))
	for _, sc := range all {
		if limit > 0 && len(ids) >= limit {
			break
		}
		ids = append(ids, sc.ID)
	}
	return ids, nil
}

// Delete removes a scene.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.scenes, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
