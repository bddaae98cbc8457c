package pagecontent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	store     Store
	registry  *Registry
	validator *Validator
	events    EventSink
	logger    *slog.Logger

	mu   sync.Mutex
	sets map[uuid.UUID]*siblingSet
}

// siblingSet is the service's optimistic local state for one sibling set,
// sorted by order ascending. The mutex serializes mutations against the set
// (operations on different sets run concurrently); the token is a monotonic
// request counter used to discard store responses that resolve after a newer
// local mutation.
type siblingSet struct {
	mu       sync.Mutex
	token    uint64
	loaded   bool
	entities []*Entity
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the content store for the service
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithRegistry sets the schema registry for the service
func WithRegistry(registry *Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		sets: make(map[uuid.UUID]*siblingSet),
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}
	s.validator = NewValidator(s.registry, s.logger)

	return s, nil
}

func (s *service) Registry() *Registry {
	return s.registry
}

// Entity operations

func (s *service) CreateEntity(ctx context.Context, req CreateEntityRequest) (*Entity, []ValidationIssue, error) {
	kind := req.Kind
	if kind == "" {
		kind = KindSection
	}

	content := req.Content
	if content == nil {
		content = map[string]any{}
	}
	sanitized, issues, err := s.validator.Validate(req.Type, content)
	if err != nil {
		return nil, nil, err
	}

	set := s.set(req.ParentID)
	set.mu.Lock()
	defer set.mu.Unlock()

	siblings, err := s.loadLocked(ctx, set, req.ParentID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing sibling set %s: %w", req.ParentID, err)
	}

	entity := &Entity{
		ID:       uuid.New(),
		ParentID: req.ParentID,
		Kind:     kind,
		Type:     req.Type,
		Content:  sanitized,
		Order:    AppendOrder(siblings),
		IsActive: req.IsActive,
	}

	// Creation is never optimistic: the store assigns timestamps and the
	// version stamp, so nothing is added locally until it succeeds.
	if err := s.store.Create(ctx, entity); err != nil {
		return nil, issues, &EntityError{EntityID: entity.ID, Op: "create", Err: err}
	}

	set.entities = append(set.entities, entity.Clone())
	set.token++

	s.fire(func() error { return s.events.EntityCreated(ctx, entity) }, "entity_created")
	return entity, issues, nil
}

func (s *service) GetEntity(ctx context.Context, id uuid.UUID) (*Entity, error) {
	if e := s.cachedEntity(id); e != nil {
		return e, nil
	}
	entity, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, &EntityError{EntityID: id, Op: "get", Err: err}
	}
	return entity, nil
}

func (s *service) ListEntities(ctx context.Context, parentID uuid.UUID) ([]*Entity, error) {
	set := s.set(parentID)

	set.mu.Lock()
	if set.loaded {
		out := cloneEntities(set.entities)
		set.mu.Unlock()
		return out, nil
	}
	token := set.token
	set.mu.Unlock()

	entities, err := s.store.List(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing sibling set %s: %w", parentID, err)
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	if set.token != token {
		// A mutation landed while this fetch was in flight. The response is
		// stale; serve local state rather than clobbering it.
		return cloneEntities(set.entities), nil
	}
	set.entities = cloneEntities(entities)
	set.loaded = true
	return entities, nil
}

func (s *service) ListActiveEntities(ctx context.Context, parentID uuid.UUID) ([]*Entity, error) {
	all, err := s.ListEntities(ctx, parentID)
	if err != nil {
		return nil, err
	}
	active := make([]*Entity, 0, len(all))
	for _, e := range all {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *service) UpdateEntity(ctx context.Context, req UpdateEntityRequest) (*Entity, []ValidationIssue, error) {
	current, err := s.GetEntity(ctx, req.ID)
	if err != nil {
		return nil, nil, err
	}

	set := s.set(current.ParentID)
	set.mu.Lock()
	defer set.mu.Unlock()

	if _, err := s.loadLocked(ctx, set, current.ParentID); err != nil {
		return nil, nil, fmt.Errorf("listing sibling set %s: %w", current.ParentID, err)
	}
	if cached := findByID(set.entities, req.ID); cached != nil {
		current = cached.Clone()
	}

	updated := current.Clone()
	var issues []ValidationIssue

	newType := current.Type
	if req.Type != nil {
		newType = *req.Type
	}

	switch {
	case newType != current.Type:
		// A type switch replaces the content with the new type's defaults
		// before the patch is merged; the validator then strips whatever
		// stray old-type fields the patch carried.
		base, derr := s.registry.DefaultContent(newType)
		if derr != nil {
			return nil, nil, derr
		}
		for k, v := range req.Content {
			base[k] = v
		}
		updated.Content, issues, err = s.validator.Validate(newType, base)
		if err != nil {
			return nil, nil, err
		}
		updated.Type = newType
	case req.Content != nil:
		merged := cloneContent(current.Content)
		for k, v := range req.Content {
			merged[k] = v
		}
		updated.Content, issues, err = s.validator.Validate(current.Type, merged)
		if err != nil {
			return nil, nil, err
		}
	}

	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	cmd := s.replaceCommand(set, current, updated)
	cmd.Apply()

	if err := s.store.Update(ctx, updated); err != nil {
		cmd.Revert()
		set.token++
		return nil, issues, &EntityError{EntityID: req.ID, Op: "update", Err: err}
	}

	s.installLocked(set, updated)
	set.token++

	s.fire(func() error { return s.events.EntityUpdated(ctx, updated) }, "entity_updated")
	return updated.Clone(), issues, nil
}

func (s *service) SetEntityActive(ctx context.Context, id uuid.UUID, active bool) (*Entity, error) {
	entity, _, err := s.UpdateEntity(ctx, UpdateEntityRequest{ID: id, IsActive: &active})
	return entity, err
}

func (s *service) DeleteEntity(ctx context.Context, id uuid.UUID) error {
	current, err := s.GetEntity(ctx, id)
	if err != nil {
		return err
	}

	set := s.set(current.ParentID)
	set.mu.Lock()
	defer set.mu.Unlock()

	if _, err := s.loadLocked(ctx, set, current.ParentID); err != nil {
		return fmt.Errorf("listing sibling set %s: %w", current.ParentID, err)
	}
	if cached := findByID(set.entities, id); cached != nil {
		current = cached.Clone()
	}

	// Pre-image snapshot covers both the removed entity and the sibling
	// renumbering, so a store failure rolls back the compaction too.
	snapshot := cloneEntities(set.entities)

	remaining := make([]*Entity, 0, len(set.entities))
	for _, e := range set.entities {
		if e.ID != id {
			remaining = append(remaining, e.Clone())
		}
	}
	compaction := CompactAfterRemove(remaining, current.Order)

	cmd := command{
		apply: func() {
			for _, change := range compaction {
				if e := findByID(remaining, change.ID); e != nil {
					e.Order = change.Order
				}
			}
			sortByOrder(remaining)
			set.entities = remaining
		},
		revert: func() {
			set.entities = snapshot
		},
	}
	cmd.Apply()

	if err := s.store.Delete(ctx, id); err != nil {
		cmd.Revert()
		set.token++
		return &EntityError{EntityID: id, Op: "delete", Err: err}
	}
	set.token++

	// The store cascaded the delete to children; any cached child set of the
	// removed entity is dead.
	s.dropSet(id)

	if len(compaction) > 0 {
		if err := s.store.Reorder(ctx, current.ParentID, compaction); err != nil {
			// The entity is gone but the renumbering did not land. Partial
			// reconciliation risks a non-permutation; refetch instead.
			s.refetchLocked(ctx, set, current.ParentID)
			return &ReorderError{ParentID: current.ParentID, Err: err}
		}
		bumpVersions(set.entities, compaction)
	}

	s.fire(func() error { return s.events.EntityDeleted(ctx, id) }, "entity_deleted")
	return nil
}

func (s *service) CloneEntity(ctx context.Context, id uuid.UUID) (*Entity, error) {
	source, err := s.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	duplicate, _, err := s.CreateEntity(ctx, CreateEntityRequest{
		ParentID: source.ParentID,
		Kind:     source.Kind,
		Type:     source.Type,
		Content:  cloneContent(source.Content),
		IsActive: source.IsActive,
	})
	if err != nil {
		return nil, err
	}

	if source.Kind == KindPage {
		children, err := s.ListEntities(ctx, source.ID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, _, err := s.CreateEntity(ctx, CreateEntityRequest{
				ParentID: duplicate.ID,
				Kind:     child.Kind,
				Type:     child.Type,
				Content:  cloneContent(child.Content),
				IsActive: child.IsActive,
			}); err != nil {
				return nil, fmt.Errorf("cloning section %s: %w", child.ID, err)
			}
		}
	}

	return duplicate, nil
}

// Ordering operations

func (s *service) ApplyReorder(ctx context.Context, parentID uuid.UUID, desired []uuid.UUID) ([]OrderChange, error) {
	set := s.set(parentID)
	set.mu.Lock()
	defer set.mu.Unlock()

	siblings, err := s.loadLocked(ctx, set, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing sibling set %s: %w", parentID, err)
	}

	diff, err := ReorderDiff(siblings, desired)
	if err != nil {
		return nil, err
	}
	if len(diff) == 0 {
		// Requesting the current order is a no-op: no store calls.
		return nil, nil
	}

	snapshot := cloneEntities(set.entities)
	cmd := command{
		apply: func() {
			for _, change := range diff {
				if e := findByID(set.entities, change.ID); e != nil {
					e.Order = change.Order
				}
			}
			sortByOrder(set.entities)
		},
		revert: func() {
			set.entities = snapshot
		},
	}
	cmd.Apply()

	if err := s.store.Reorder(ctx, parentID, diff); err != nil {
		// The batch is a single atomic intention; on failure the authoritative
		// set is refetched rather than reconciled row by row.
		if ferr := s.refetchLocked(ctx, set, parentID); ferr != nil {
			cmd.Revert()
		}
		set.token++
		return nil, &ReorderError{ParentID: parentID, Err: err}
	}
	bumpVersions(set.entities, diff)
	set.token++

	s.fire(func() error { return s.events.SetReordered(ctx, parentID, diff) }, "set_reordered")
	return diff, nil
}

// Local state helpers

func (s *service) set(parentID uuid.UUID) *siblingSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[parentID]
	if !ok {
		set = &siblingSet{}
		s.sets[parentID] = set
	}
	return set
}

func (s *service) dropSet(parentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, parentID)
}

// loadLocked fills the set cache from the store on first use. Callers must
// hold the set mutex.
func (s *service) loadLocked(ctx context.Context, set *siblingSet, parentID uuid.UUID) ([]*Entity, error) {
	if !set.loaded {
		entities, err := s.store.List(ctx, parentID)
		if err != nil {
			return nil, err
		}
		set.entities = cloneEntities(entities)
		set.loaded = true
	}
	return set.entities, nil
}

// refetchLocked replaces the cache with the store's authoritative state.
// On fetch failure the cache is invalidated so the next operation reloads.
func (s *service) refetchLocked(ctx context.Context, set *siblingSet, parentID uuid.UUID) error {
	entities, err := s.store.List(ctx, parentID)
	if err != nil {
		set.loaded = false
		set.entities = nil
		return err
	}
	set.entities = cloneEntities(entities)
	set.loaded = true
	return nil
}

func (s *service) replaceCommand(set *siblingSet, before, after *Entity) command {
	pre := before.Clone()
	post := after.Clone()
	return command{
		apply:  func() { s.installLocked(set, post) },
		revert: func() { s.installLocked(set, pre) },
	}
}

func (s *service) installLocked(set *siblingSet, entity *Entity) {
	for i, e := range set.entities {
		if e.ID == entity.ID {
			set.entities[i] = entity.Clone()
			return
		}
	}
}

func (s *service) cachedEntity(id uuid.UUID) *Entity {
	s.mu.Lock()
	sets := make([]*siblingSet, 0, len(s.sets))
	for _, set := range s.sets {
		sets = append(sets, set)
	}
	s.mu.Unlock()

	for _, set := range sets {
		set.mu.Lock()
		e := findByID(set.entities, id)
		if e != nil {
			e = e.Clone()
		}
		set.mu.Unlock()
		if e != nil {
			return e
		}
	}
	return nil
}

func (s *service) fire(fn func() error, event string) {
	if err := fn(); err != nil {
		s.logger.Warn("event sink failed", "event", event, "error", err)
	}
}

func findByID(entities []*Entity, id uuid.UUID) *Entity {
	for _, e := range entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func cloneEntities(entities []*Entity) []*Entity {
	out := make([]*Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

// bumpVersions mirrors the store's per-row version increment for the rows a
// successful reorder batch touched, so cached version stamps stay usable for
// the next optimistic write.
func bumpVersions(entities []*Entity, changes []OrderChange) {
	for _, change := range changes {
		if e := findByID(entities, change.ID); e != nil {
			e.Version++
		}
	}
}

func sortByOrder(entities []*Entity) {
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Order < entities[j].Order
	})
}
