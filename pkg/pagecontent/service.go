package pagecontent

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the page-content library. It is the
// only component that talks to the Store: every mutation goes through
// validation and the ordering rules, with optimistic local state and
// rollback on Store failure.
type Service interface {
	// Entity operations
	CreateEntity(ctx context.Context, req CreateEntityRequest) (*Entity, []ValidationIssue, error)
	GetEntity(ctx context.Context, id uuid.UUID) (*Entity, error)
	ListEntities(ctx context.Context, parentID uuid.UUID) ([]*Entity, error)
	ListActiveEntities(ctx context.Context, parentID uuid.UUID) ([]*Entity, error)
	UpdateEntity(ctx context.Context, req UpdateEntityRequest) (*Entity, []ValidationIssue, error)
	SetEntityActive(ctx context.Context, id uuid.UUID, active bool) (*Entity, error)
	DeleteEntity(ctx context.Context, id uuid.UUID) error
	CloneEntity(ctx context.Context, id uuid.UUID) (*Entity, error)

	// Ordering operations
	ApplyReorder(ctx context.Context, parentID uuid.UUID, desired []uuid.UUID) ([]OrderChange, error)

	// Schema access
	Registry() *Registry
}
