package pagecontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrEntityNotFound indicates an entity was not found
	ErrEntityNotFound = errors.New("entity not found")

	// ErrUnknownType indicates a section type has no registered schema.
	// Fatal for the operation that hit it; callers must not substitute a
	// blank content shape.
	ErrUnknownType = errors.New("unknown section type")

	// ErrOrderMismatch indicates a reorder request whose id list does not
	// match the current sibling set. The caller must reload and retry.
	ErrOrderMismatch = errors.New("reorder does not match sibling set")

	// ErrInvalidPath indicates a malformed content field path
	ErrInvalidPath = errors.New("invalid content field path")

	// ErrImmutableField indicates an attempt to change id or parent id
	ErrImmutableField = errors.New("field is immutable after creation")
)

// EntityError represents an error from an entity operation, identifying the
// specific entity and operation so callers can offer a precise retry.
type EntityError struct {
	EntityID uuid.UUID
	Op       string
	Err      error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity operation %s failed for entity %s: %v", e.Op, e.EntityID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// ReorderError represents a failed reorder batch against a sibling set.
type ReorderError struct {
	ParentID uuid.UUID
	Err      error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder failed for sibling set %s: %v", e.ParentID, e.Err)
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}

// ValidationIssue reports a single sanitization or coercion applied by the
// validator. Issues are non-fatal: the sanitized content is still usable,
// but every issue must reach the caller (and the log) rather than being
// swallowed.
type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}
