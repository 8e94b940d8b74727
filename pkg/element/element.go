// Package element models one entity of a flattened 3D scene tree, and
// implements schema-agnostic property resolution over it.
//
// Elements arrive from the host as recursively nested documents. Two
// historical layouts are in circulation: a legacy layout with a flat
// `parameters` mapping keyed by internal name or GUID, and a current layout
// nesting categorized groups under `properties.Parameters`. Property lookup
// treats both transparently by normalizing paths and searching the tree.
package element

// Element is one model entity, an opaque tree of named members. Nested
// members decode to map[string]any, so an Element can wrap any subtree.
type Element map[string]any

// ID returns the element's identifier, or an empty string if it has none.
func (e Element) ID() string {
	id, ok := e["id"].(string)
	if !ok {
		return ""
	}

	return id
}

// Name returns the element's display name, if present.
func (e Element) Name() string {
	name, ok := e["name"].(string)
	if !ok {
		return ""
	}

	return name
}

// asMap unwraps any of the container shapes an element member can take.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Element:
		return m, true
	case map[string]any:
		return m, true
	}

	return nil, false
}

// DisplayValue returns the element's display geometry. Hosts have stored it
// under either `displayValue` or `@displayValue`; both are handled.
func DisplayValue(e Element) []Element {
	raw, ok := e["displayValue"]
	if !ok {
		raw, ok = e["@displayValue"]
	}
	if !ok {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var values []Element
	for _, item := range items {
		if m, ok := asMap(item); ok {
			values = append(values, Element(m))
		}
	}

	if len(values) == 0 {
		return nil
	}

	return values
}

// IsDisplayable reports whether the element has visible geometry: either its
// own id plus display values, or a definition carrying both (instanced
// elements store geometry on their definition).
func IsDisplayable(e Element) bool {
	if len(DisplayValue(e)) > 0 && e.ID() != "" {
		return true
	}

	if def, ok := asMap(e["definition"]); ok {
		defElem := Element(def)
		if len(DisplayValue(defElem)) > 0 && defElem.ID() != "" {
			return true
		}
	}

	return false
}

// DisplayableElements filters a flat element sequence down to elements with
// visual representation and an id.
func DisplayableElements(elements []Element) []Element {
	var out []Element
	for _, e := range elements {
		if IsDisplayable(e) && e.ID() != "" {
			out = append(out, e)
		}
	}

	return out
}
