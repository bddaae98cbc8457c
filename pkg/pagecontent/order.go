package pagecontent

import (
	"fmt"

	"github.com/google/uuid"
)

// AppendOrder returns the order value for a new sibling: append to the end.
func AppendOrder(siblings []*Entity) int {
	return len(siblings)
}

// CompactAfterRemove computes the order decrements needed to close the gap
// left by removing the sibling at removedOrder: every sibling ordered after
// it moves down by one. The removed entity must already be absent from
// siblings.
func CompactAfterRemove(siblings []*Entity, removedOrder int) []OrderChange {
	var changes []OrderChange
	for _, e := range siblings {
		if e.Order > removedOrder {
			changes = append(changes, OrderChange{ID: e.ID, Order: e.Order - 1})
		}
	}
	return changes
}

// ReorderDiff computes the minimal set of order writes that turn the current
// sibling set into the desired id ordering. Only entities whose order
// actually changes appear in the diff, so a drag from index 2 to index 5
// touches four rows, not the whole set, and requesting the current order
// yields an empty diff.
//
// The desired list must be exactly the current membership; any length or
// membership mismatch returns ErrOrderMismatch and the caller must reload.
func ReorderDiff(current []*Entity, desired []uuid.UUID) ([]OrderChange, error) {
	if len(desired) != len(current) {
		return nil, fmt.Errorf("%w: have %d entities, got %d ids",
			ErrOrderMismatch, len(current), len(desired))
	}

	orderByID := make(map[uuid.UUID]int, len(current))
	for _, e := range current {
		orderByID[e.ID] = e.Order
	}

	seen := make(map[uuid.UUID]bool, len(desired))
	var changes []OrderChange
	for idx, id := range desired {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrOrderMismatch, id)
		}
		seen[id] = true
		old, ok := orderByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %s is not in the sibling set", ErrOrderMismatch, id)
		}
		if old != idx {
			changes = append(changes, OrderChange{ID: id, Order: idx})
		}
	}
	return changes, nil
}
