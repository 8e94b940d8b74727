package expr

import (
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/predicate"
)

type lib struct {
	fuzzyThreshold float64
}

func newLib() *lib {
	return &lib{fuzzyThreshold: predicate.DefaultFuzzyThreshold}
}

func (l *lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		cel.Variable("element", cel.MapType(cel.StringType, cel.DynType)),

		// `prop` resolves a dotted property path on an element, with the
		// same path semantics the rule predicates use. Returns null when
		// the property is absent.
		// Example: prop(element, "category") == "Walls".
		cel.Function("prop",
			cel.Overload("prop_map_string",
				[]*cel.Type{cel.MapType(cel.StringType, cel.DynType), cel.StringType}, cel.DynType,
				cel.BinaryBinding(func(elem, path ref.Val) ref.Val {
					e, ok := asElement(elem)
					if !ok {
						return types.NewErr("prop: invalid element value")
					}

					pathStr, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("prop: invalid path value")
					}

					value, found := element.FindProperty(e, pathStr)
					if !found {
						return types.NullValue
					}

					return ConvertToCELValue(value)
				}),
			),
		),

		// `hasProp` reports whether the property path resolves at all.
		// Example: hasProp(element, "Structure.Fc24 (0).thickness").
		cel.Function("hasProp",
			cel.Overload("has_prop_map_string",
				[]*cel.Type{cel.MapType(cel.StringType, cel.DynType), cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(elem, path ref.Val) ref.Val {
					e, ok := asElement(elem)
					if !ok {
						return types.NewErr("hasProp: invalid element value")
					}

					pathStr, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("hasProp: invalid path value")
					}

					return types.Bool(element.HasParameter(e, pathStr))
				}),
			),
		),

		// `propLike` fuzzy-matches the property value against a pattern,
		// passing when the normalized edit-distance similarity reaches the
		// environment's threshold.
		// Example: propLike(element, "type.name", "W30 (Fc21)").
		cel.Function("propLike",
			cel.Overload("prop_like_map_string_string",
				[]*cel.Type{cel.MapType(cel.StringType, cel.DynType), cel.StringType, cel.StringType}, cel.BoolType,
				cel.FunctionBinding(func(args ...ref.Val) ref.Val {
					if len(args) != 3 {
						return types.NewErr("propLike: want 3 arguments")
					}

					e, ok := asElement(args[0])
					if !ok {
						return types.NewErr("propLike: invalid element value")
					}

					pathStr, ok := args[1].Value().(string)
					if !ok {
						return types.NewErr("propLike: invalid path value")
					}

					patternStr, ok := args[2].Value().(string)
					if !ok {
						return types.NewErr("propLike: invalid pattern value")
					}

					return types.Bool(predicate.Like(e, pathStr, patternStr, true, l.fuzzyThreshold))
				}),
			),
		),

		// `category` returns the element's category, or "" if it has none.
		// Example: category(element) in ["Walls", "Floors"].
		cel.Function("category",
			cel.Overload("category_map",
				[]*cel.Type{cel.MapType(cel.StringType, cel.DynType)}, cel.StringType,
				cel.UnaryBinding(func(elem ref.Val) ref.Val {
					e, ok := asElement(elem)
					if !ok {
						return types.NewErr("category: invalid element value")
					}

					return types.String(element.CategoryValue(e))
				}),
			),
		),
	}
}

func (*lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func asElement(v ref.Val) (element.Element, bool) {
	switch m := v.Value().(type) {
	case element.Element:
		return m, true
	case map[string]any:
		return element.Element(m), true
	}

	return nil, false
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles common JSON types and returns null for unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int32:
		return types.Int(int64(v))

	case int64:
		return types.Int(v)

	case uint64:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float32:
		return types.Double(float64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []any:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[string]any:
		celMap := make(map[ref.Val]ref.Val)
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	case element.Element:
		return ConvertToCELValue(map[string]any(v))

	default:
		// For unsupported types, return null instead of erroring.
		return types.NullValue
	}
}
