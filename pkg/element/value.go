package element

import "strings"

// ConvertYesNo maps the Yes/No strings some authoring tools emit in place of
// booleans. Any other value passes through unchanged.
func ConvertYesNo(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	switch strings.ToLower(s) {
	case "yes":
		return true
	case "no":
		return false
	}

	return value
}

// extractValue pulls the usable value out of a matched member. Parameter
// records in both layouts store the payload in a `value` member; bare
// primitives are used directly. Other containers are returned as-is so
// callers can inspect the subtree.
func extractValue(obj any, raw bool) any {
	if raw {
		return obj
	}

	switch v := obj.(type) {
	case nil, bool, int, int64, float64, string:
		return ConvertYesNo(v)
	}

	if m, ok := asMap(obj); ok {
		if value, exists := m["value"]; exists {
			return ConvertYesNo(value)
		}
	}

	return obj
}
