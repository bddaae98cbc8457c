package pagecontent

import (
	"fmt"
	"strings"
)

// SetAtPath writes value into content at the given field path, creating
// intermediate maps as needed. Paths are slices of field names, never
// dot-joined strings, so a flat key containing a literal "." can never be
// constructed.
func SetAtPath(content map[string]any, path []string, value any) error {
	if content == nil {
		return fmt.Errorf("%w: nil content", ErrInvalidPath)
	}
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, seg := range path {
		if seg == "" {
			return fmt.Errorf("%w: empty path segment", ErrInvalidPath)
		}
		if strings.Contains(seg, ".") {
			return fmt.Errorf("%w: segment %q contains a dot", ErrInvalidPath, seg)
		}
	}

	cur := content
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
	return nil
}

// GetAtPath reads the value at the given field path. The second return is
// false when any segment is missing or a non-map is traversed.
func GetAtPath(content map[string]any, path []string) (any, bool) {
	if content == nil || len(path) == 0 {
		return nil, false
	}
	cur := content
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	v, ok := cur[path[len(path)-1]]
	return v, ok
}
