package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

// PublicHandler serves the read-only surface consumed by the presentation
// layer: active sections of a page, with content guaranteed to carry the
// full default shape for its type.
type PublicHandler struct {
	service pagecontent.Service
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(service pagecontent.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// Routes returns the public read-only routes
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/pages/{id}/sections", h.ListActiveSections)
	r.Get("/types", h.ListTypes)
	r.Get("/types/{type}/fields", h.DescribeType)

	return r
}

// SectionResponse is the read-only view of an active section
type SectionResponse struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Order   int            `json:"order"`
	Content map[string]any `json:"content"`
}

// ListActiveSections returns the active sections of a page in display order
func (h *PublicHandler) ListActiveSections(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sections, err := h.service.ListActiveEntities(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list active sections", "page_id", id, "error", err)
		writeServiceError(w, err)
		return
	}

	out := make([]SectionResponse, len(sections))
	for i, e := range sections {
		out[i] = SectionResponse{
			ID:      e.ID.String(),
			Type:    string(e.Type),
			Order:   e.Order,
			Content: e.Content,
		}
	}
	render.JSON(w, r, out)
}

// TypeResponse describes a registered section type
type TypeResponse struct {
	Type string `json:"type"`
}

// ListTypes returns every registered section type
func (h *PublicHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.service.Registry().Types()
	out := make([]TypeResponse, len(types))
	for i, t := range types {
		out[i] = TypeResponse{Type: string(t)}
	}
	render.JSON(w, r, out)
}

// FieldResponse describes one field of a section type's content shape,
// consumed by generic form and preview renderers.
type FieldResponse struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Required bool            `json:"required,omitempty"`
	Min      float64         `json:"min,omitempty"`
	Max      float64         `json:"max,omitempty"`
	Default  float64         `json:"default,omitempty"`
	Fields   []FieldResponse `json:"fields,omitempty"`
}

// DescribeType returns the field descriptors for a section type
func (h *PublicHandler) DescribeType(w http.ResponseWriter, r *http.Request) {
	t := pagecontent.SectionType(chi.URLParam(r, "type"))

	fields, err := h.service.Registry().DescribeFields(t)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, fieldResponses(fields))
}

func fieldResponses(fields []pagecontent.FieldDescriptor) []FieldResponse {
	out := make([]FieldResponse, len(fields))
	for i, fd := range fields {
		out[i] = FieldResponse{
			Name:     fd.Name,
			Kind:     string(fd.Kind),
			Required: fd.Required,
			Min:      fd.Min,
			Max:      fd.Max,
			Default:  fd.Default,
			Fields:   fieldResponses(fd.Fields),
		}
		if len(fd.Fields) == 0 {
			out[i].Fields = nil
		}
	}
	return out
}
