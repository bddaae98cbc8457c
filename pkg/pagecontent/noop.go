package pagecontent

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink.
// Useful when no event handling is needed and for testing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// EntityCreated does nothing and returns nil
func (n *NoopEventSink) EntityCreated(ctx context.Context, entity *Entity) error {
	return nil
}

// EntityUpdated does nothing and returns nil
func (n *NoopEventSink) EntityUpdated(ctx context.Context, entity *Entity) error {
	return nil
}

// EntityDeleted does nothing and returns nil
func (n *NoopEventSink) EntityDeleted(ctx context.Context, entityID uuid.UUID) error {
	return nil
}

// SetReordered does nothing and returns nil
func (n *NoopEventSink) SetReordered(ctx context.Context, parentID uuid.UUID, changes []OrderChange) error {
	return nil
}
