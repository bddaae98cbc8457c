package pagecontent

import (
	"fmt"
	"sort"
	"sync"
)

// FieldKind is the domain type for content field shapes.
type FieldKind string

// Field kind constants (typed).
const (
	FieldText       FieldKind = "text"       // plain string (urls, emails, phone numbers)
	FieldLocalized  FieldKind = "localized"  // LocalizedText {en, ar}
	FieldImage      FieldKind = "image"      // image URL string
	FieldNumber     FieldKind = "number"     // numeric, clamped to [Min, Max]
	FieldButtons    FieldKind = "buttons"    // array of {text: localized, url: text}
	FieldParagraphs FieldKind = "paragraphs" // array of LocalizedText
	FieldObject     FieldKind = "object"     // nested record described by Fields
)

// FieldDescriptor declares one field of a content shape: its name, kind, and
// for numbers the clamping bounds and default. Nested objects carry their own
// descriptor list in Fields.
type FieldDescriptor struct {
	Name     string
	Kind     FieldKind
	Required bool
	Min      float64 // FieldNumber only
	Max      float64 // FieldNumber only
	Default  float64 // FieldNumber only
	Fields   []FieldDescriptor
}

// Registry is the single source of truth mapping a section type to its
// content shape. It is safe for concurrent use and extensible at runtime,
// so custom section kinds are data rather than code.
type Registry struct {
	mu      sync.RWMutex
	schemas map[SectionType][]FieldDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[SectionType][]FieldDescriptor)}
}

// DefaultRegistry returns a registry with every built-in page and section
// shape registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for t, fields := range builtinSchemas() {
		r.Register(t, fields)
	}
	return r
}

// Register installs or replaces the schema for a section type.
func (r *Registry) Register(t SectionType, fields []FieldDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[t] = fields
}

// Known reports whether a schema is registered for the type.
func (r *Registry) Known(t SectionType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[t]
	return ok
}

// Types returns the registered section types in sorted order.
func (r *Registry) Types() []SectionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SectionType, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DescribeFields returns the field descriptors for a type. Generic form and
// preview code iterates these instead of branching per type.
func (r *Registry) DescribeFields(t SectionType) ([]FieldDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields, ok := r.schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return fields, nil
}

// DefaultContent returns a fresh, fully-populated default instance for the
// type: every localized field present with empty strings for both locales,
// arrays present as empty arrays, numbers at their declared default. No
// field is ever absent, so downstream rendering needs no nil checks.
func (r *Registry) DefaultContent(t SectionType) (map[string]any, error) {
	fields, err := r.DescribeFields(t)
	if err != nil {
		return nil, err
	}
	return defaultRecord(fields), nil
}

func defaultRecord(fields []FieldDescriptor) map[string]any {
	out := make(map[string]any, len(fields))
	for _, fd := range fields {
		out[fd.Name] = defaultValue(fd)
	}
	return out
}

func defaultValue(fd FieldDescriptor) any {
	switch fd.Kind {
	case FieldLocalized:
		return LocalizedText{}.Map()
	case FieldNumber:
		return clampNumber(fd, fd.Default)
	case FieldButtons, FieldParagraphs:
		return []any{}
	case FieldObject:
		return defaultRecord(fd.Fields)
	default: // FieldText, FieldImage
		return ""
	}
}

func clampNumber(fd FieldDescriptor, v float64) float64 {
	if fd.Max > fd.Min {
		if v < fd.Min {
			return fd.Min
		}
		if v > fd.Max {
			return fd.Max
		}
	}
	return v
}

func builtinSchemas() map[SectionType][]FieldDescriptor {
	titleDesc := []FieldDescriptor{
		{Name: "title", Kind: FieldLocalized, Required: true},
		{Name: "description", Kind: FieldLocalized},
	}

	return map[SectionType][]FieldDescriptor{
		TypeHero1: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "description", Kind: FieldLocalized},
			{Name: "imageUrl", Kind: FieldImage},
			{Name: "buttons", Kind: FieldButtons},
		},
		TypeHero2: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "subtitle", Kind: FieldLocalized},
			{Name: "imageUrl", Kind: FieldImage},
			{Name: "videoUrl", Kind: FieldText},
			{Name: "buttons", Kind: FieldButtons},
		},
		TypeAbout1: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "description", Kind: FieldLocalized},
			{Name: "imageUrl", Kind: FieldImage},
			{Name: "mission", Kind: FieldObject, Fields: titleDesc},
			{Name: "vision", Kind: FieldObject, Fields: titleDesc},
		},
		TypeAbout2: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "paragraphs", Kind: FieldParagraphs},
			{Name: "imageUrl", Kind: FieldImage},
		},
		TypePresident: {
			{Name: "name", Kind: FieldLocalized, Required: true},
			{Name: "role", Kind: FieldLocalized},
			{Name: "imageUrl", Kind: FieldImage},
			{Name: "signatureUrl", Kind: FieldImage},
			{Name: "paragraphs", Kind: FieldParagraphs},
		},
		TypeContact: {
			{Name: "email", Kind: FieldText, Required: true},
			{Name: "phone", Kind: FieldText},
			{Name: "address", Kind: FieldLocalized},
			{Name: "mapUrl", Kind: FieldText},
		},
		TypeStats: {
			{Name: "title", Kind: FieldLocalized},
			{Name: "students", Kind: FieldNumber, Min: 0, Max: 1_000_000},
			{Name: "faculty", Kind: FieldNumber, Min: 0, Max: 100_000},
			{Name: "programs", Kind: FieldNumber, Min: 0, Max: 10_000},
			{Name: "campuses", Kind: FieldNumber, Min: 0, Max: 1_000},
		},
		TypeBlog: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "postsLimit", Kind: FieldNumber, Min: 1, Max: 24, Default: 6},
		},
		TypeEvents: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "eventsLimit", Kind: FieldNumber, Min: 1, Max: 24, Default: 4},
			{Name: "showPast", Kind: FieldNumber, Min: 0, Max: 1},
		},
		TypeCustom: {
			{Name: "title", Kind: FieldLocalized},
			{Name: "body", Kind: FieldLocalized},
			{Name: "imageUrl", Kind: FieldImage},
		},
		TypeHome: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "metaDescription", Kind: FieldLocalized},
		},
		TypeLanding: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "slug", Kind: FieldText},
			{Name: "metaDescription", Kind: FieldLocalized},
		},
		TypeCustomPage: {
			{Name: "title", Kind: FieldLocalized, Required: true},
			{Name: "slug", Kind: FieldText},
		},
	}
}
