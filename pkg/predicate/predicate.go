// Package predicate implements the named boolean tests that rule conditions
// dispatch to.
//
// Every predicate resolves its property through [element.FindProperty] and
// defines an explicit result for the not-found case; predicates never return
// errors. Evaluation problems (unparseable thresholds, non-numeric values
// compared numerically) degrade to false rather than aborting a run.
package predicate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/modelcheck/modelcheck/pkg/compare"
	"github.com/modelcheck/modelcheck/pkg/element"
)

// DefaultFuzzyThreshold is the similarity ratio an is-like fuzzy match must
// reach to pass.
const DefaultFuzzyThreshold = 0.8

// Exists reports whether the property is present, whatever its value.
func Exists(e element.Element, path string, _ any) bool {
	return element.HasParameter(e, path)
}

// ValueMatches is the plain equality predicate: the property value must
// equal the argument without string coercions. Numeric values of different
// Go types still compare by value.
func ValueMatches(e element.Element, path string, arg any) bool {
	value, found := element.FindProperty(e, path)
	if !found {
		return false
	}

	return looseEqual(value, arg)
}

// EqualValue compares with the full coercion stack: numeric strings,
// Yes/No booleans, case-insensitive strings, float tolerance.
func EqualValue(e element.Element, path string, arg any) bool {
	value, found := element.FindProperty(e, path)
	if !found {
		return false
	}

	return compare.Equal(value, arg)
}

// NotEqualValue is the inverse of [EqualValue]. A missing property is
// considered not equal.
func NotEqualValue(e element.Element, path string, arg any) bool {
	value, found := element.FindProperty(e, path)
	if !found {
		return true
	}

	return !compare.Equal(value, arg)
}

// IdenticalValue compares the raw property value with strict equality:
// case-sensitive, zero tolerance, no Yes/No conversion. Numeric strings
// still compare by value, so "300" is identical to 300.
func IdenticalValue(e element.Element, path string, arg any) bool {
	value, found := element.FindRawProperty(e, path)
	if !found {
		return false
	}

	return compare.Strict(value, arg)
}

// NotIdenticalValue is the inverse of [IdenticalValue]. A missing property
// is considered not identical.
func NotIdenticalValue(e element.Element, path string, arg any) bool {
	value, found := element.FindRawProperty(e, path)
	if !found {
		return true
	}

	return !compare.Strict(value, arg)
}

// GreaterThan reports whether the property value is numerically greater than
// the threshold. The predicate performs no inversion: rule authors phrase
// conditions so that failing the check flags the element.
func GreaterThan(e element.Element, path string, arg any) bool {
	value, threshold, ok := numericPair(e, path, arg)
	if !ok {
		return false
	}

	return value > threshold
}

// LessThan reports whether the property value is numerically less than the
// threshold.
func LessThan(e element.Element, path string, arg any) bool {
	value, threshold, ok := numericPair(e, path, arg)
	if !ok {
		return false
	}

	return value < threshold
}

// InRange reports whether the property value lies inside the inclusive range
// given as "min,max".
func InRange(e element.Element, path string, arg any) bool {
	spec, ok := arg.(string)
	if !ok {
		return false
	}

	bounds := strings.SplitN(spec, ",", 2)
	if len(bounds) != 2 {
		return false
	}

	minValue, okMin := compare.ParseNumber(bounds[0])
	maxValue, okMax := compare.ParseNumber(bounds[1])
	if !okMin || !okMax {
		return false
	}

	value, ok := propertyNumber(e, path)
	if !ok {
		return false
	}

	return minValue <= value && value <= maxValue
}

// InList reports whether the property value appears in the list argument.
// The argument can be a literal sequence or a comma-separated string, whose
// entries are trimmed. Membership is tested against both the value itself
// and its string form.
func InList(e element.Element, path string, arg any) bool {
	value, _ := element.FindProperty(e, path)

	var items []any

	switch list := arg.(type) {
	case string:
		for _, item := range strings.Split(list, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

	case []any:
		items = list

	case []string:
		for _, item := range list {
			items = append(items, item)
		}

	default:
		return false
	}

	valueStr := fmt.Sprint(value)
	for _, item := range items {
		if looseEqual(value, item) || item == any(valueStr) {
			return true
		}
	}

	return false
}

// IsTrue reports whether the property value represents true: a boolean
// literal, or one of "yes", "true", "1" case-insensitively. Everything else
// is false.
func IsTrue(e element.Element, path string, _ any) bool {
	value, _ := element.FindProperty(e, path)

	return matchesBooleanWords(value, true, "yes", "true", "1")
}

// IsFalse reports whether the property value represents false: a boolean
// literal, or one of "no", "false", "0" case-insensitively.
//
// IsTrue and IsFalse are not complements: both return false for values that
// are not boolean-like, such as the number 5.
func IsFalse(e element.Element, path string, _ any) bool {
	value, _ := element.FindProperty(e, path)

	return matchesBooleanWords(value, false, "no", "false", "0")
}

// Like reports whether the stringified property value matches the pattern.
// Non-fuzzy mode anchors the regular expression at the start of the value (a
// prefix match, not a full match). Fuzzy mode computes a normalized edit
// distance similarity in [0,1] and passes at or above the threshold.
func Like(e element.Element, path, pattern string, fuzzy bool, threshold float64) bool {
	value, found := element.FindProperty(e, path)
	if !found {
		return false
	}

	valueStr := fmt.Sprint(value)

	if fuzzy {
		return similarity(valueStr, pattern) >= threshold
	}

	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return false
	}

	return re.MatchString(valueStr)
}

// Contains reports whether the stringified property value contains the
// substring, case-insensitively. A missing property contains nothing.
func Contains(e element.Element, path string, arg any) bool {
	value, found := element.FindProperty(e, path)
	if !found || value == nil {
		return false
	}

	valueStr := strings.ToLower(fmt.Sprint(value))
	substring := strings.ToLower(fmt.Sprint(arg))

	return strings.Contains(valueStr, substring)
}

// NotContains is the inverse of [Contains]; a missing property does not
// contain anything and therefore passes.
func NotContains(e element.Element, path string, arg any) bool {
	return !Contains(e, path, arg)
}

// NotEmpty reports whether the property exists and its stringified value is
// neither empty nor the literal "None".
func NotEmpty(e element.Element, path string, _ any) bool {
	value, found := element.FindProperty(e, path)
	if !found || value == nil {
		return false
	}

	s := strings.TrimSpace(fmt.Sprint(value))

	return s != "" && s != "None"
}

// looseEqual mirrors untyped equality: numbers compare by value across
// types, everything else compares structurally.
func looseEqual(a, b any) bool {
	if aNum, ok := compare.ToFloat(a); ok {
		if bNum, ok := compare.ToFloat(b); ok {
			return aNum == bNum
		}
	}

	return a == b
}

func matchesBooleanWords(value any, boolWant bool, words ...string) bool {
	switch v := value.(type) {
	case bool:
		return v == boolWant

	case string:
		lower := strings.ToLower(v)
		for _, w := range words {
			if lower == w {
				return true
			}
		}
	}

	return false
}

// numericPair resolves the property value and threshold as floats. The
// threshold accepts numbers or numeric strings (parsed like strconv, so
// int-style and float-style both work).
func numericPair(e element.Element, path string, arg any) (value, threshold float64, ok bool) {
	value, ok = propertyNumber(e, path)
	if !ok {
		return 0, 0, false
	}

	threshold, ok = anyNumber(arg)
	if !ok {
		return 0, 0, false
	}

	return value, threshold, true
}

func propertyNumber(e element.Element, path string) (float64, bool) {
	value, found := element.FindProperty(e, path)
	if !found {
		return 0, false
	}

	return anyNumber(value)
}

func anyNumber(v any) (float64, bool) {
	if f, ok := compare.ToFloat(v); ok {
		return f, true
	}

	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	}

	return 0, false
}

// similarity is a normalized edit distance ratio in [0,1]: identical strings
// score 1, fully different strings score 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)

	return 1 - float64(dist)/float64(longest)
}
