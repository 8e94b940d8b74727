package predicate

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/modelcheck/modelcheck/pkg/element"
)

// Func is a predicate as dispatched from a rule condition: the element under
// test, the property path, and the condition's value argument.
type Func func(e element.Element, path string, arg any) bool

// registry maps the spreadsheet-facing predicate names to implementations.
// Resolution happens once at rule-table load time, not per element.
var registry = map[string]Func{
	"exists":           Exists,
	"matches":          ValueMatches,
	"greater than":     GreaterThan,
	"less than":        LessThan,
	"in range":         InRange,
	"in list":          InList,
	"equals":           EqualValue,
	"identical":        IdenticalValue,
	"not equal":        NotEqualValue,
	"not identical":    NotIdenticalValue,
	"true":             IsTrue,
	"false":            IsFalse,
	"is like":          isLikeDefault,
	"contains":         Contains,
	"does not contain": NotContains,
	"not empty":        NotEmpty,
}

func isLikeDefault(e element.Element, path string, arg any) bool {
	pattern, ok := arg.(string)
	if !ok {
		return false
	}

	return Like(e, path, pattern, false, DefaultFuzzyThreshold)
}

// Resolve looks up a predicate by its spreadsheet name, case-insensitively
// and ignoring surrounding whitespace.
func Resolve(name string) (Func, bool) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]

	return fn, ok
}

// Names returns every registered predicate name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Suggest returns registered predicate names resembling the given unknown
// name, best match first. Used to produce "did you mean" diagnostics for
// rule tables.
func Suggest(name string) []string {
	matches := fuzzy.Find(strings.ToLower(strings.TrimSpace(name)), Names())

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}

	return suggestions
}
