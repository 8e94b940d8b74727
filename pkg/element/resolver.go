package element

import (
	"reflect"
	"sort"
	"strings"
)

// NormalizePath strips the schema container segments "properties" and
// "parameters" (case-insensitive) from a dotted property path, making lookups
// agnostic to the legacy/current layout difference. For example,
// "properties.Parameters.Construction.Width" normalizes to
// "Construction.Width".
func NormalizePath(path string) string {
	parts := strings.Split(path, ".")
	filtered := make([]string, 0, len(parts))

	for _, p := range parts {
		switch strings.ToLower(p) {
		case "properties", "parameters":
			continue
		}

		filtered = append(filtered, p)
	}

	return strings.Join(filtered, ".")
}

// searchPath walks a segment chain from obj, matching each segment
// case-insensitively against member names. It returns the raw member value at
// the end of the chain.
func searchPath(obj any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return obj, true
	}

	m, ok := asMap(obj)
	if !ok {
		return nil, false
	}

	current, remaining := parts[0], parts[1:]
	for key, value := range m {
		if strings.EqualFold(key, current) {
			if len(remaining) > 0 {
				return searchPath(value, remaining)
			}

			return value, true
		}
	}

	return nil, false
}

// FindProperty locates a property by dotted path anywhere inside the element
// tree. The path is normalized, then a direct walk from the root is tried;
// if that fails, every nested container is visited depth-first (children
// before siblings) and the walk is retried from each subtree root. The first
// match in traversal order wins. Values extracted from parameter records
// have Yes/No strings coerced to booleans.
func FindProperty(root any, path string) (any, bool) {
	return findProperty(root, path, false)
}

// FindRawProperty is [FindProperty] without value extraction or coercion:
// the matched member is returned exactly as stored.
func FindRawProperty(root any, path string) (any, bool) {
	return findProperty(root, path, true)
}

func findProperty(root any, path string, raw bool) (any, bool) {
	norm := NormalizePath(path)
	if norm == "" {
		return nil, false
	}

	parts := strings.Split(norm, ".")
	visited := make(map[uintptr]struct{})

	return traverse(root, parts, raw, visited)
}

func traverse(obj any, parts []string, raw bool, visited map[uintptr]struct{}) (any, bool) {
	m, ok := asMap(obj)
	if !ok {
		return nil, false
	}

	// Guard against self-referential trees. Maps share identity by their
	// underlying pointer, which is stable for the duration of a lookup.
	id := reflect.ValueOf(m).Pointer()
	if _, seen := visited[id]; seen {
		return nil, false
	}

	visited[id] = struct{}{}
	defer delete(visited, id)

	if value, found := searchPath(m, parts); found {
		return extractValue(value, raw), true
	}

	// Sorted keys keep the fallback search deterministic; Go map iteration
	// order is not.
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := asMap(m[key]); !ok {
			continue
		}

		if value, found := traverse(m[key], parts, raw, visited); found {
			return value, true
		}
	}

	return nil, false
}

// HasParameter reports whether the property exists anywhere in the element,
// regardless of its value.
func HasParameter(root any, path string) bool {
	_, found := FindProperty(root, path)

	return found
}

// ParameterValue returns the property's extracted value, or def when the
// property cannot be found.
func ParameterValue(root any, path string, def any) any {
	value, found := FindProperty(root, path)
	if !found {
		return def
	}

	return value
}

// RawParameterValue is [ParameterValue] without extraction or coercion.
func RawParameterValue(root any, path string, def any) any {
	value, found := FindRawProperty(root, path)
	if !found {
		return def
	}

	return value
}
