package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/modelcheck/modelcheck/pkg/element"
)

// Filter is a compiled element filter expression. The expression sees one
// variable, `element`, and must evaluate to a boolean.
type Filter struct {
	program cel.Program
	source  string
}

// NewFilter compiles an element filter expression.
func NewFilter(expression string, opts ...Option) (*Filter, error) {
	env, err := NewEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("element filter: %w", err)
	}

	return &Filter{program: program, source: expression}, nil
}

// String returns the filter's source expression.
func (f *Filter) String() string {
	return f.source
}

// Matches evaluates the filter against one element.
func (f *Filter) Matches(e element.Element) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"element": map[string]any(e),
	})
	if err != nil {
		return false, fmt.Errorf("element filter %q: %w", f.source, err)
	}

	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("element filter %q: expression returned %s, want bool", f.source, out.Type())
	}

	return bool(b), nil
}

// Apply keeps the elements the filter matches, preserving order. Evaluation
// errors on individual elements exclude them rather than failing the run.
func (f *Filter) Apply(elements []element.Element) []element.Element {
	var kept []element.Element
	for _, e := range elements {
		if ok, err := f.Matches(e); err == nil && ok {
			kept = append(kept, e)
		}
	}

	return kept
}
