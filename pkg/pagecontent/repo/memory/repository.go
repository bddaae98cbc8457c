package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

// Store implements pagecontent.Store using in-memory storage
type Store struct {
	mu               sync.RWMutex
	entities         map[uuid.UUID]*pagecontent.Entity
	childrenByParent map[uuid.UUID][]uuid.UUID
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		entities:         make(map[uuid.UUID]*pagecontent.Entity),
		childrenByParent: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *Store) List(ctx context.Context, parentID uuid.UUID) ([]*pagecontent.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.childrenByParent[parentID]
	result := make([]*pagecontent.Entity, 0, len(ids))
	for _, id := range ids {
		if e, exists := s.entities[id]; exists {
			result = append(result, e.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*pagecontent.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, exists := s.entities[id]
	if !exists {
		return nil, pagecontent.ErrEntityNotFound
	}
	return entity.Clone(), nil
}

func (s *Store) Create(ctx context.Context, entity *pagecontent.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.ID]; exists {
		return fmt.Errorf("entity %s already exists", entity.ID)
	}

	now := time.Now().UTC()
	entity.CreatedAt = now
	entity.UpdatedAt = now
	entity.Version = 1

	s.entities[entity.ID] = entity.Clone()
	s.childrenByParent[entity.ParentID] = append(s.childrenByParent[entity.ParentID], entity.ID)
	return nil
}

func (s *Store) Update(ctx context.Context, entity *pagecontent.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.entities[entity.ID]
	if !exists {
		return pagecontent.ErrEntityNotFound
	}
	if stored.ParentID != entity.ParentID {
		return pagecontent.ErrImmutableField
	}
	if stored.Version != entity.Version {
		// Stale read; the caller must reload before retrying.
		return pagecontent.ErrEntityNotFound
	}

	entity.Version = stored.Version + 1
	entity.UpdatedAt = time.Now().UTC()
	entity.CreatedAt = stored.CreatedAt

	s.entities[entity.ID] = entity.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, exists := s.entities[id]
	if !exists {
		return pagecontent.ErrEntityNotFound
	}

	s.deleteTree(id)
	s.childrenByParent[entity.ParentID] = removeID(s.childrenByParent[entity.ParentID], id)
	return nil
}

// deleteTree removes an entity and, recursively, every descendant. Caller
// holds the write lock.
func (s *Store) deleteTree(id uuid.UUID) {
	for _, childID := range s.childrenByParent[id] {
		s.deleteTree(childID)
	}
	delete(s.childrenByParent, id)
	delete(s.entities, id)
}

func (s *Store) Reorder(ctx context.Context, parentID uuid.UUID, changes []pagecontent.OrderChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching anything, so the batch is
	// atomic: either every change applies or none does.
	for _, change := range changes {
		entity, exists := s.entities[change.ID]
		if !exists {
			return fmt.Errorf("reorder: %w: %s", pagecontent.ErrEntityNotFound, change.ID)
		}
		if entity.ParentID != parentID {
			return fmt.Errorf("reorder: %w: %s is not a child of %s",
				pagecontent.ErrOrderMismatch, change.ID, parentID)
		}
	}

	now := time.Now().UTC()
	for _, change := range changes {
		entity := s.entities[change.ID]
		entity.Order = change.Order
		entity.Version++
		entity.UpdatedAt = now
	}
	return nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
