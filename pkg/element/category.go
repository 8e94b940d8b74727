package element

import "fmt"

// HasCategory reports whether the element carries a category property.
func HasCategory(e Element) bool {
	return HasParameter(e, "category")
}

// CategoryValue returns the element's category as a string, or "" if absent.
func CategoryValue(e Element) string {
	value, found := FindProperty(e, "category")
	if !found {
		return ""
	}

	return fmt.Sprint(value)
}

// IsCategory reports whether the element's category equals the given value.
func IsCategory(e Element, category string) bool {
	value, found := FindProperty(e, "category")
	if !found {
		return false
	}

	return value == any(category)
}

// FilterByCategory splits elements into those matching the category and the
// rest, preserving order within both partitions.
func FilterByCategory(elements []Element, category string) (matching, rest []Element) {
	for _, e := range elements {
		if IsCategory(e, category) {
			matching = append(matching, e)
		} else {
			rest = append(rest, e)
		}
	}

	return matching, rest
}
