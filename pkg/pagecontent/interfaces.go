package pagecontent

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence boundary for entities. Implementations
// (memory, Postgres) are provided under repo/.
type Store interface {
	// List returns the sibling set of parentID sorted by order ascending.
	List(ctx context.Context, parentID uuid.UUID) ([]*Entity, error)

	// Get returns one entity or ErrEntityNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Entity, error)

	// Create persists a new entity and assigns timestamps and version.
	Create(ctx context.Context, entity *Entity) error

	// Update persists entity state; the version stamp must match the stored
	// row or the update is rejected.
	Update(ctx context.Context, entity *Entity) error

	// Delete removes an entity, cascading to its children.
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder applies the whole batch of order changes for one sibling set
	// as a single atomic intention: either every change lands or none does.
	Reorder(ctx context.Context, parentID uuid.UUID, changes []OrderChange) error
}

// EventSink defines the interface for mutation event handling. Sink failures
// never fail the triggering operation.
type EventSink interface {
	// EntityCreated is fired when an entity is created
	EntityCreated(ctx context.Context, entity *Entity) error

	// EntityUpdated is fired when an entity is updated
	EntityUpdated(ctx context.Context, entity *Entity) error

	// EntityDeleted is fired when an entity is deleted
	EntityDeleted(ctx context.Context, entityID uuid.UUID) error

	// SetReordered is fired after a sibling set's order changes are persisted
	SetReordered(ctx context.Context, parentID uuid.UUID, changes []OrderChange) error
}
