package pagecontent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// Validator sanitizes a content payload against its type's registered shape
// before it reaches the Store. Undeclared keys are stripped rather than
// rejected, to tolerate schema drift across versions, but every strip and
// coercion is reported as a ValidationIssue and logged.
type Validator struct {
	registry *Registry
	logger   *slog.Logger
}

// NewValidator creates a validator bound to a registry. A nil logger
// defaults to slog.Default().
func NewValidator(registry *Registry, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{registry: registry, logger: logger}
}

// Validate returns a sanitized copy of content shaped exactly like the
// type's schema, plus the list of non-fatal issues encountered. The only
// fatal condition is an unregistered type.
func (v *Validator) Validate(t SectionType, content map[string]any) (map[string]any, []ValidationIssue, error) {
	fields, err := v.registry.DescribeFields(t)
	if err != nil {
		return nil, nil, err
	}

	var issues []ValidationIssue
	sanitized := sanitizeRecord(fields, content, "", &issues)

	for _, issue := range issues {
		v.logger.Warn("content sanitized",
			"type", string(t),
			"field", issue.Field,
			"reason", issue.Reason)
	}
	return sanitized, issues, nil
}

func sanitizeRecord(fields []FieldDescriptor, in map[string]any, prefix string, issues *[]ValidationIssue) map[string]any {
	out := make(map[string]any, len(fields))
	declared := make(map[string]FieldDescriptor, len(fields))
	for _, fd := range fields {
		declared[fd.Name] = fd
	}

	// Declared fields: coerce or default.
	for _, fd := range fields {
		label := fieldLabel(prefix, fd.Name)
		raw, present := in[fd.Name]
		if !present {
			out[fd.Name] = defaultValue(fd)
			if fd.Required {
				report(issues, label, "required field missing, defaulted")
			}
			continue
		}
		out[fd.Name] = sanitizeField(fd, raw, label, issues)
	}

	// Undeclared keys: strip and report, never persist.
	for k := range in {
		if _, ok := declared[k]; ok {
			continue
		}
		label := fieldLabel(prefix, k)
		if strings.Contains(k, ".") {
			report(issues, label, "malformed dotted key stripped")
		} else {
			report(issues, label, "undeclared field stripped")
		}
	}

	return out
}

func sanitizeField(fd FieldDescriptor, raw any, label string, issues *[]ValidationIssue) any {
	switch fd.Kind {
	case FieldText, FieldImage:
		if s, ok := raw.(string); ok {
			return s
		}
		report(issues, label, "expected string, defaulted")
		return ""

	case FieldLocalized:
		return sanitizeLocalized(raw, label, issues)

	case FieldNumber:
		n, ok := toNumber(raw)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			report(issues, label, "expected number, defaulted")
			return clampNumber(fd, fd.Default)
		}
		clamped := clampNumber(fd, n)
		if clamped != n {
			report(issues, label, fmt.Sprintf("clamped from %v", n))
		}
		return clamped

	case FieldButtons:
		items, ok := raw.([]any)
		if !ok {
			report(issues, label, "expected array, defaulted")
			return []any{}
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				report(issues, fmt.Sprintf("%s[%d]", label, i), "expected button object, dropped")
				continue
			}
			btn := map[string]any{
				"text": sanitizeLocalized(m["text"], fmt.Sprintf("%s[%d]/text", label, i), issues),
			}
			if u, ok := m["url"].(string); ok {
				btn["url"] = u
			} else {
				btn["url"] = ""
				if _, present := m["url"]; present {
					report(issues, fmt.Sprintf("%s[%d]/url", label, i), "expected string, defaulted")
				}
			}
			out = append(out, btn)
		}
		return out

	case FieldParagraphs:
		items, ok := raw.([]any)
		if !ok {
			report(issues, label, "expected array, defaulted")
			return []any{}
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = sanitizeLocalized(item, fmt.Sprintf("%s[%d]", label, i), issues)
		}
		return out

	case FieldObject:
		m, ok := raw.(map[string]any)
		if !ok {
			report(issues, label, "expected object, defaulted")
			return defaultRecord(fd.Fields)
		}
		return sanitizeRecord(fd.Fields, m, label, issues)

	default:
		report(issues, label, fmt.Sprintf("unknown field kind %q, defaulted", fd.Kind))
		return ""
	}
}

// sanitizeLocalized coerces any accepted localized representation into a
// map with both locale keys present. A bare string lands in "en"; this is a
// coercion worth reporting, since content should never carry bare strings.
func sanitizeLocalized(raw any, label string, issues *[]ValidationIssue) map[string]any {
	switch t := raw.(type) {
	case nil:
		return LocalizedText{}.Map()
	case LocalizedText:
		return t.Map()
	case map[string]any:
		out := map[string]any{"en": "", "ar": ""}
		for _, locale := range []string{"en", "ar"} {
			val, present := t[locale]
			if !present {
				continue
			}
			if s, ok := val.(string); ok {
				out[locale] = s
			} else {
				report(issues, label+"/"+locale, "expected string, defaulted")
			}
		}
		for k := range t {
			if k != "en" && k != "ar" {
				report(issues, label+"/"+k, "unknown locale stripped")
			}
		}
		return out
	case string:
		report(issues, label, "bare string coerced to localized text")
		return map[string]any{"en": t, "ar": ""}
	default:
		report(issues, label, "expected localized text, defaulted")
		return LocalizedText{}.Map()
	}
}

func toNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func fieldLabel(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func report(issues *[]ValidationIssue, field, reason string) {
	*issues = append(*issues, ValidationIssue{Field: field, Reason: reason})
}
