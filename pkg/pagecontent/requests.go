package pagecontent

import "github.com/google/uuid"

// Request DTOs

// CreateEntityRequest contains parameters for creating a new entity. Order
// is assigned by the service (append to the end of the sibling set).
type CreateEntityRequest struct {
	ParentID uuid.UUID
	Kind     EntityKind
	Type     SectionType
	Content  map[string]any
	IsActive bool
}

// UpdateEntityRequest contains the patch for an entity. Nil fields are left
// untouched. Changing Type replaces the content with the new type's default
// shape before Content is merged, so no stale fields from the old type can
// survive.
type UpdateEntityRequest struct {
	ID       uuid.UUID
	Type     *SectionType
	Content  map[string]any
	IsActive *bool
}
