package element

import "reflect"

// Child collection members recognized during flattening. Hosts have used
// both detached (`@elements`) and attached spellings.
var childMembers = []string{"elements", "@elements", "children"}

// Flatten walks the scene tree from root and returns the elements in
// depth-first pre-order: each element precedes its children. Cycles are
// skipped rather than revisited.
func Flatten(root Element) []Element {
	visited := make(map[uintptr]struct{})

	var out []Element
	flattenInto(root, &out, visited)

	return out
}

func flattenInto(e Element, out *[]Element, visited map[uintptr]struct{}) {
	id := reflect.ValueOf(map[string]any(e)).Pointer()
	if _, seen := visited[id]; seen {
		return
	}

	visited[id] = struct{}{}

	*out = append(*out, e)

	for _, member := range childMembers {
		children, ok := e[member].([]any)
		if !ok {
			continue
		}

		for _, child := range children {
			if m, ok := asMap(child); ok {
				flattenInto(Element(m), out, visited)
			}
		}
	}
}
