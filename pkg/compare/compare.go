// Package compare implements the type-aware value equality shared by all
// rule predicates.
//
// Values extracted from model elements and from user-authored rule tables
// rarely agree on representation: numbers arrive as strings, booleans arrive
// as "Yes"/"No", floats accumulate noise. Equal applies a fixed sequence of
// semantic coercions so that comparisons behave the way rule authors expect.
package compare

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

const defaultTolerance = 1e-6

type options struct {
	tolerance     float64
	caseSensitive bool
	yesNoBools    bool
	exact         bool
}

// Option adjusts comparison behavior.
type Option func(*options)

// CaseSensitive makes string comparison case-sensitive.
func CaseSensitive() Option {
	return func(o *options) { o.caseSensitive = true }
}

// WithTolerance sets the absolute tolerance for numeric closeness.
func WithTolerance(t float64) Option {
	return func(o *options) { o.tolerance = t }
}

// WithoutYesNo disables the Yes/No string to boolean coercion.
func WithoutYesNo() Option {
	return func(o *options) { o.yesNoBools = false }
}

// Exact requires strict numeric equality instead of tolerance closeness.
func Exact() Option {
	return func(o *options) { o.exact = true }
}

// Equal compares two values with semantic coercion. The first matching rule
// wins:
//
//  1. If both sides coerce to booleans (literals, "true"/"false", and with
//     Yes/No enabled, "yes"/"no"), their equality is the result.
//  2. Strings that look numeric are parsed to floats.
//  3. Two strings compare case-folded, unless CaseSensitive.
//  4. Two numbers compare exactly under Exact, otherwise |a-b| <= tolerance.
//  5. Anything else falls back to structural equality.
func Equal(a, b any, opts ...Option) bool {
	o := options{
		tolerance:  defaultTolerance,
		yesNoBools: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if aBool, aOK := coerceBool(a, o.yesNoBools); aOK {
		if bBool, bOK := coerceBool(b, o.yesNoBools); bOK {
			return aBool == bBool
		}
	}

	a = coerceNumericString(a)
	b = coerceNumericString(b)

	if aStr, ok := a.(string); ok {
		if bStr, ok := b.(string); ok {
			if o.caseSensitive {
				return aStr == bStr
			}

			return strings.EqualFold(aStr, bStr)
		}
	}

	if aNum, ok := ToFloat(a); ok {
		if bNum, ok := ToFloat(b); ok {
			if o.exact {
				return aNum == bNum
			}

			return math.Abs(aNum-bNum) <= o.tolerance
		}
	}

	return reflect.DeepEqual(a, b)
}

// Strict compares for the identical predicates: case-sensitive, exact
// numeric equality, no Yes/No handling. Numeric-string parsing still
// applies, so "300" is identical to 300, and numbers of different Go types
// compare by value.
func Strict(a, b any) bool {
	a = coerceNumericString(a)
	b = coerceNumericString(b)

	if aNum, ok := ToFloat(a); ok {
		if bNum, ok := ToFloat(b); ok {
			return aNum == bNum
		}

		return false
	}

	return reflect.DeepEqual(a, b)
}

func coerceBool(v any, yesNo bool) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true

	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		case "yes":
			if yesNo {
				return true, true
			}
		case "no":
			if yesNo {
				return false, true
			}
		}
	}

	return false, false
}

// coerceNumericString parses strings shaped like numbers (optional leading
// minus, digits, at most one dot) into floats. Other values pass through.
func coerceNumericString(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	if f, ok := ParseNumber(s); ok {
		return f
	}

	return v
}

// ParseNumber parses a numeric-looking string, tolerating surrounding
// whitespace. It accepts an optional leading "-", digits, and at most one
// ".". Scientific notation and other float syntax are deliberately rejected:
// rule authors write plain decimals, and looser parsing would turn strings
// like "1e3" into surprising matches.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	body := strings.TrimPrefix(s, "-")
	if body == "" || body == "." {
		return 0, false
	}

	dots := 0
	for _, r := range body {
		switch {
		case r == '.':
			dots++
			if dots > 1 {
				return 0, false
			}
		case r < '0' || r > '9':
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// ToFloat converts any numeric value to a float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}
