package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/page-content/pkg/pagecontent"
	"github.com/campuskit/page-content/pkg/pagecontent/repo/memory"
)

func newEntity(parentID uuid.UUID, order int) *pagecontent.Entity {
	return &pagecontent.Entity{
		ID:       uuid.New(),
		ParentID: parentID,
		Kind:     pagecontent.KindSection,
		Type:     pagecontent.TypeHero1,
		Content:  map[string]any{"title": map[string]any{"en": "", "ar": ""}},
		Order:    order,
	}
}

func TestCreateAndGet(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	entity := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, entity))

	assert.Equal(t, int64(1), entity.Version)
	assert.False(t, entity.CreatedAt.IsZero())

	got, err := store.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ID, got.ID)
	assert.Equal(t, entity.Content, got.Content)

	// The stored copy is isolated from caller mutations.
	got.Content["title"].(map[string]any)["en"] = "mutated"
	again, err := store.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "", again.Content["title"].(map[string]any)["en"])
}

func TestGetNotFound(t *testing.T) {
	store := memory.New()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, pagecontent.ErrEntityNotFound)
}

func TestCreateDuplicateFails(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	entity := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, entity))
	assert.Error(t, store.Create(ctx, entity))
}

func TestListSortsByOrder(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	parentID := uuid.New()

	// Insert out of order.
	second := newEntity(parentID, 1)
	first := newEntity(parentID, 0)
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, first))

	entities, err := store.List(ctx, parentID)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, first.ID, entities[0].ID)
	assert.Equal(t, second.ID, entities[1].ID)
}

func TestUpdateBumpsVersion(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	entity := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, entity))

	entity.IsActive = true
	require.NoError(t, store.Update(ctx, entity))
	assert.Equal(t, int64(2), entity.Version)

	got, err := store.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestUpdateRejectsStaleVersion(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	entity := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, entity))

	fresh := entity.Clone()
	require.NoError(t, store.Update(ctx, fresh))

	// A write from the original, now-stale read is rejected.
	stale := entity.Clone()
	assert.ErrorIs(t, store.Update(ctx, stale), pagecontent.ErrEntityNotFound)
}

func TestUpdateRejectsParentChange(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	entity := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, entity))

	moved := entity.Clone()
	moved.ParentID = uuid.New()
	assert.ErrorIs(t, store.Update(ctx, moved), pagecontent.ErrImmutableField)
}

func TestDeleteCascades(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	page := newEntity(uuid.Nil, 0)
	page.Kind = pagecontent.KindPage
	require.NoError(t, store.Create(ctx, page))

	section := newEntity(page.ID, 0)
	require.NoError(t, store.Create(ctx, section))
	grandchild := newEntity(section.ID, 0)
	require.NoError(t, store.Create(ctx, grandchild))

	require.NoError(t, store.Delete(ctx, page.ID))

	for _, id := range []uuid.UUID{page.ID, section.ID, grandchild.ID} {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, pagecontent.ErrEntityNotFound)
	}
}

func TestReorderAppliesBatch(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	parentID := uuid.New()

	a := newEntity(parentID, 0)
	b := newEntity(parentID, 1)
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	err := store.Reorder(ctx, parentID, []pagecontent.OrderChange{
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 0},
	})
	require.NoError(t, err)

	entities, err := store.List(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, entities[0].ID)
	assert.Equal(t, a.ID, entities[1].ID)
}

func TestReorderRejectsForeignChild(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	parentID := uuid.New()

	a := newEntity(parentID, 0)
	other := newEntity(uuid.New(), 0)
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, other))

	// The batch is atomic: a bad entry means nothing is applied.
	err := store.Reorder(ctx, parentID, []pagecontent.OrderChange{
		{ID: a.ID, Order: 1},
		{ID: other.ID, Order: 0},
	})
	assert.ErrorIs(t, err, pagecontent.ErrOrderMismatch)

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
}

func TestReorderUnknownEntity(t *testing.T) {
	store := memory.New()

	err := store.Reorder(context.Background(), uuid.New(), []pagecontent.OrderChange{
		{ID: uuid.New(), Order: 0},
	})
	assert.ErrorIs(t, err, pagecontent.ErrEntityNotFound)
}
