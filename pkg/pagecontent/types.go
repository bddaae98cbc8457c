package pagecontent

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind is the domain type for the two entity classes managed by the
// library. Pages own sections; sections own nothing.
type EntityKind string

// Entity kind constants (typed).
const (
	KindPage    EntityKind = "page"
	KindSection EntityKind = "section"
)

// SectionType tags the shape of an entity's content payload. The set is
// extensible at runtime through the Registry; the constants below cover the
// built-in shapes.
type SectionType string

// Built-in section types.
const (
	TypeHero1     SectionType = "HERO1"
	TypeHero2     SectionType = "HERO2"
	TypeAbout1    SectionType = "ABOUT1"
	TypeAbout2    SectionType = "ABOUT2"
	TypePresident SectionType = "PRESIDENT"
	TypeContact   SectionType = "CONTACT"
	TypeStats     SectionType = "STATS"
	TypeBlog      SectionType = "BLOG"
	TypeEvents    SectionType = "EVENTS"
	TypeCustom    SectionType = "CUSTOM"
)

// Built-in page types. Pages and sections share the registry; a page type is
// just a content shape whose entity kind happens to be "page".
const (
	TypeHome       SectionType = "HOME"
	TypeLanding    SectionType = "LANDING"
	TypeCustomPage SectionType = "CUSTOM_PAGE"
)

// LocalizedText is the bilingual string unit used throughout content shapes.
// Both locales are always present; the validator fills missing locales with
// the empty string rather than leaving a bare string or a partial map.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Map returns the content-blob representation of the localized text.
func (lt LocalizedText) Map() map[string]any {
	return map[string]any{"en": lt.En, "ar": lt.Ar}
}

// Entity is the unit of content: a page or a section row with an ordered
// position among its siblings and a type-tagged content payload.
//
// ID and ParentID are immutable after creation. ParentID is uuid.Nil for
// root entities. Order is zero-based within the sibling set sharing the same
// ParentID; after any successful operation the set's order values are a
// permutation of 0..n-1.
type Entity struct {
	ID        uuid.UUID      `json:"id"`
	ParentID  uuid.UUID      `json:"parent_id,omitempty"`
	Kind      EntityKind     `json:"kind"`
	Type      SectionType    `json:"type"`
	Content   map[string]any `json:"content"`
	Order     int            `json:"order"`
	IsActive  bool           `json:"is_active"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Clone returns a deep copy of the entity. Content maps are copied
// recursively so callers can mutate the copy without aliasing the original.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	c.Content = cloneContent(e.Content)
	return &c
}

func cloneContent(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneContent(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// OrderChange is a single (id, new order) pair produced by the reorder diff
// and consumed by Store.Reorder.
type OrderChange struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}
