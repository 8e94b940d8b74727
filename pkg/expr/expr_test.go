package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/expr"
)

func wall(id string, width float64) element.Element {
	return element.Element{
		"id":       id,
		"category": "Walls",
		"parameters": map[string]any{
			"WALL_ATTR_WIDTH_PARAM": map[string]any{
				"value": width,
			},
		},
	}
}

func TestFilterMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expression string
		elem       element.Element
		want       bool
	}{
		{
			name:       "category function",
			expression: `category(element) == "Walls"`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "category in list",
			expression: `category(element) in ["Walls", "Floors"]`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "category mismatch",
			expression: `category(element) == "Floors"`,
			elem:       wall("w", 300),
			want:       false,
		},
		{
			name:       "prop resolves nested parameter",
			expression: `prop(element, "WALL_ATTR_WIDTH_PARAM") > 100.0`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "prop missing is null",
			expression: `prop(element, "nope") == null`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "hasProp",
			expression: `hasProp(element, "WALL_ATTR_WIDTH_PARAM")`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "direct member access",
			expression: `element.id == "w"`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "propLike close match",
			expression: `propLike(element, "category", "Wallz")`,
			elem:       wall("w", 300),
			want:       true,
		},
		{
			name:       "propLike distant match",
			expression: `propLike(element, "category", "Columns")`,
			elem:       wall("w", 300),
			want:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filter, err := expr.NewFilter(tc.expression)
			require.NoError(t, err)

			got, err := filter.Matches(tc.elem)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnvironmentCompile(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	_, err := env.Compile(`hasProp(element, "category")`)
	require.NoError(t, err)

	_, err = env.Compile(`hasProp(element`)
	require.Error(t, err)
}

func TestFilterFuzzyThreshold(t *testing.T) {
	t.Parallel()

	// "Wallz" is one edit from "Walls": similarity 0.8, below 0.95.
	filter, err := expr.NewFilter(`propLike(element, "category", "Wallz")`,
		expr.WithFuzzyThreshold(0.95))
	require.NoError(t, err)

	got, err := filter.Matches(wall("w", 300))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestNewFilterCompileError(t *testing.T) {
	t.Parallel()

	_, err := expr.NewFilter(`category(element ==`)
	require.Error(t, err)
}

func TestFilterNonBoolean(t *testing.T) {
	t.Parallel()

	filter, err := expr.NewFilter(`category(element)`)
	require.NoError(t, err)

	_, err = filter.Matches(wall("w", 300))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestFilterApply(t *testing.T) {
	t.Parallel()

	filter, err := expr.NewFilter(`prop(element, "WALL_ATTR_WIDTH_PARAM") >= 100.0`)
	require.NoError(t, err)

	got := filter.Apply([]element.Element{
		wall("big", 300),
		wall("small", 50),
		{"id": "no-width", "category": "Floors"},
	})

	// The widthless element errors inside the comparison and is excluded.
	require.Len(t, got, 1)
	assert.Equal(t, "big", got[0].ID())
}
