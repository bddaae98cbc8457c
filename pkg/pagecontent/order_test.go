package pagecontent_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

func makeSiblings(n int) []*pagecontent.Entity {
	out := make([]*pagecontent.Entity, n)
	for i := range out {
		out[i] = &pagecontent.Entity{ID: uuid.New(), Order: i}
	}
	return out
}

func idsOf(entities []*pagecontent.Entity) []uuid.UUID {
	out := make([]uuid.UUID, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func TestAppendOrder(t *testing.T) {
	assert.Equal(t, 0, pagecontent.AppendOrder(nil))
	assert.Equal(t, 3, pagecontent.AppendOrder(makeSiblings(3)))
}

func TestCompactAfterRemove(t *testing.T) {
	siblings := makeSiblings(4)
	// Remove the entity at order 1: orders 2 and 3 shift down.
	removed := siblings[1]
	remaining := append([]*pagecontent.Entity{siblings[0]}, siblings[2:]...)

	changes := pagecontent.CompactAfterRemove(remaining, removed.Order)
	require.Len(t, changes, 2)
	assert.Equal(t, pagecontent.OrderChange{ID: siblings[2].ID, Order: 1}, changes[0])
	assert.Equal(t, pagecontent.OrderChange{ID: siblings[3].ID, Order: 2}, changes[1])
}

func TestCompactAfterRemoveLast(t *testing.T) {
	siblings := makeSiblings(3)
	changes := pagecontent.CompactAfterRemove(siblings[:2], 2)
	assert.Empty(t, changes)
}

func TestReorderDiffMinimal(t *testing.T) {
	// Moving index 2 to index 5 in a 10-item list touches only the items
	// originally at indices 2..5.
	siblings := makeSiblings(10)
	desired := idsOf(siblings)
	moved := desired[2]
	desired = append(desired[:2], desired[3:]...)
	desired = append(desired[:5], append([]uuid.UUID{moved}, desired[5:]...)...)

	diff, err := pagecontent.ReorderDiff(siblings, desired)
	require.NoError(t, err)
	require.Len(t, diff, 4)

	byID := make(map[uuid.UUID]int)
	for _, change := range diff {
		byID[change.ID] = change.Order
	}
	assert.Equal(t, 5, byID[siblings[2].ID])
	assert.Equal(t, 2, byID[siblings[3].ID])
	assert.Equal(t, 3, byID[siblings[4].ID])
	assert.Equal(t, 4, byID[siblings[5].ID])
}

func TestReorderDiffNoOp(t *testing.T) {
	siblings := makeSiblings(5)
	diff, err := pagecontent.ReorderDiff(siblings, idsOf(siblings))
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestReorderDiffFullRotation(t *testing.T) {
	// [A=0, B=1, C=2] -> [C, A, B]: every position shifts, so the diff is
	// exact per-item comparison, not an index-window heuristic.
	siblings := makeSiblings(3)
	a, b, c := siblings[0], siblings[1], siblings[2]

	diff, err := pagecontent.ReorderDiff(siblings, []uuid.UUID{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, diff, 3)

	byID := make(map[uuid.UUID]int)
	for _, change := range diff {
		byID[change.ID] = change.Order
	}
	assert.Equal(t, 0, byID[c.ID])
	assert.Equal(t, 1, byID[a.ID])
	assert.Equal(t, 2, byID[b.ID])
}

func TestReorderDiffMismatch(t *testing.T) {
	siblings := makeSiblings(3)

	tests := []struct {
		name    string
		desired []uuid.UUID
	}{
		{name: "too short", desired: idsOf(siblings)[:2]},
		{name: "too long", desired: append(idsOf(siblings), uuid.New())},
		{name: "foreign id", desired: []uuid.UUID{siblings[0].ID, siblings[1].ID, uuid.New()}},
		{name: "duplicate id", desired: []uuid.UUID{siblings[0].ID, siblings[1].ID, siblings[1].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := pagecontent.ReorderDiff(siblings, tt.desired)
			assert.Nil(t, diff)
			assert.ErrorIs(t, err, pagecontent.ErrOrderMismatch)
		})
	}
}
