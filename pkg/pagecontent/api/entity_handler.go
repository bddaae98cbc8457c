package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

// EntityHandler handles HTTP requests for entities using pkg/pagecontent
type EntityHandler struct {
	service pagecontent.Service
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(service pagecontent.Service) *EntityHandler {
	return &EntityHandler{service: service}
}

// Routes returns the admin routes for entities
func (h *EntityHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateEntity)
	r.Get("/{id}", h.GetEntity)
	r.Put("/{id}", h.UpdateEntity)
	r.Delete("/{id}", h.DeleteEntity)
	r.Post("/{id}/clone", h.CloneEntity)
	r.Put("/{id}/active", h.SetEntityActive)

	r.Get("/{id}/children", h.ListChildren)
	r.Put("/{id}/children/order", h.ReorderChildren)

	return r
}

// CreateEntityRequest is the request body for creating an entity
type CreateEntityRequest struct {
	ParentID string         `json:"parent_id,omitempty"`
	Kind     string         `json:"kind"`
	Type     string         `json:"type"`
	Content  map[string]any `json:"content"`
	IsActive bool           `json:"is_active"`
}

// EntityResponse is the response body for an entity
type EntityResponse struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parent_id,omitempty"`
	Kind      string         `json:"kind"`
	Type      string         `json:"type"`
	Content   map[string]any `json:"content"`
	Order     int            `json:"order"`
	IsActive  bool           `json:"is_active"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Sanitization applied to the submitted content, if any.
	Issues []pagecontent.ValidationIssue `json:"issues,omitempty"`
}

func entityResponse(e *pagecontent.Entity, issues []pagecontent.ValidationIssue) EntityResponse {
	resp := EntityResponse{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Type:      string(e.Type),
		Content:   e.Content,
		Order:     e.Order,
		IsActive:  e.IsActive,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Issues:    issues,
	}
	if e.ParentID != uuid.Nil {
		resp.ParentID = e.ParentID.String()
	}
	return resp
}

// CreateEntity creates a new entity appended to its sibling set
func (h *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	parentID := uuid.Nil
	if req.ParentID != "" {
		var err error
		parentID, err = uuid.Parse(req.ParentID)
		if err != nil {
			slog.Error("Invalid parent ID", "parent_id", req.ParentID, "error", err)
			http.Error(w, "Invalid parent ID", http.StatusBadRequest)
			return
		}
	}

	entity, issues, err := h.service.CreateEntity(r.Context(), pagecontent.CreateEntityRequest{
		ParentID: parentID,
		Kind:     pagecontent.EntityKind(req.Kind),
		Type:     pagecontent.SectionType(req.Type),
		Content:  req.Content,
		IsActive: req.IsActive,
	})
	if err != nil {
		slog.Error("Failed to create entity", "error", err)
		writeServiceError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, entityResponse(entity, issues))
}

// GetEntity returns one entity
func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entity, err := h.service.GetEntity(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, entityResponse(entity, nil))
}

// UpdateEntityRequest is the request body for updating an entity
type UpdateEntityRequest struct {
	Type     *string        `json:"type,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// UpdateEntity patches an entity's type, content, or visibility
func (h *EntityHandler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := pagecontent.UpdateEntityRequest{
		ID:       id,
		Content:  req.Content,
		IsActive: req.IsActive,
	}
	if req.Type != nil {
		t := pagecontent.SectionType(*req.Type)
		update.Type = &t
	}

	entity, issues, err := h.service.UpdateEntity(r.Context(), update)
	if err != nil {
		slog.Error("Failed to update entity", "entity_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, entityResponse(entity, issues))
}

// DeleteEntity removes an entity and compacts its sibling set
func (h *EntityHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEntity(r.Context(), id); err != nil {
		slog.Error("Failed to delete entity", "entity_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloneEntity duplicates an entity (and, for pages, its sections) at the end
// of its sibling set
func (h *EntityHandler) CloneEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entity, err := h.service.CloneEntity(r.Context(), id)
	if err != nil {
		slog.Error("Failed to clone entity", "entity_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, entityResponse(entity, nil))
}

// SetActiveRequest is the request body for toggling visibility
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetEntityActive toggles an entity's visibility gate
func (h *EntityHandler) SetEntityActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entity, err := h.service.SetEntityActive(r.Context(), id, req.IsActive)
	if err != nil {
		slog.Error("Failed to toggle entity", "entity_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, entityResponse(entity, nil))
}

// ListChildren returns the ordered sibling set owned by an entity
func (h *EntityHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entities, err := h.service.ListEntities(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list children", "parent_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	out := make([]EntityResponse, len(entities))
	for i, e := range entities {
		out[i] = entityResponse(e, nil)
	}
	render.JSON(w, r, out)
}

// ReorderRequest is the request body for reordering a sibling set: the
// complete desired id ordering, as produced by a drag gesture.
type ReorderRequest struct {
	Order []string `json:"order"`
}

// ReorderResponse reports which rows actually changed
type ReorderResponse struct {
	Changes []pagecontent.OrderChange `json:"changes"`
}

// ReorderChildren applies a full desired ordering to an entity's children
func (h *EntityHandler) ReorderChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	desired := make([]uuid.UUID, len(req.Order))
	for i, raw := range req.Order {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid entity ID in order", http.StatusBadRequest)
			return
		}
		desired[i] = parsed
	}

	changes, err := h.service.ApplyReorder(r.Context(), id, desired)
	if err != nil {
		slog.Error("Failed to reorder children", "parent_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, ReorderResponse{Changes: changes})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		slog.Error("Invalid entity ID", "id", raw, "error", err)
		http.Error(w, "Invalid entity ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pagecontent.ErrEntityNotFound):
		http.Error(w, "Entity not found", http.StatusNotFound)
	case errors.Is(err, pagecontent.ErrUnknownType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, pagecontent.ErrOrderMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
