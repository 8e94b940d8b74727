package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/element"
)

// v2Wall mirrors the flat layout older model exports use: a single
// parameters dict keyed by internal definition names.
func v2Wall() element.Element {
	return element.Element{
		"id":       "v2-wall-1",
		"category": "Walls",
		"type":     "W30(Fc24)",
		"parameters": map[string]any{
			"WALL_ATTR_WIDTH_PARAM": map[string]any{
				"name":  "Width",
				"value": 300.0,
				"units": "mm",
			},
			"ee1f33e1-ea94-4d1c-8e31-0f8e8ca33d11": map[string]any{
				"name":  "符号",
				"value": "W30",
			},
			"STRUCTURAL_MATERIAL_PARAM": map[string]any{
				"name":  "Structural Material",
				"value": "Fc24",
			},
		},
		"baseLine": map[string]any{
			"length": 5300.000000000002,
		},
	}
}

// v3Wall mirrors the nested layout newer exports use: properties.Parameters
// splits into instance and type parameter trees.
func v3Wall() element.Element {
	return element.Element{
		"id":       "v3-wall-1",
		"category": "Walls",
		"properties": map[string]any{
			"Parameters": map[string]any{
				"Type Parameters": map[string]any{
					"Structure": map[string]any{
						"Fc24 (0)": map[string]any{
							"thickness": 300.0,
						},
					},
					"Text": map[string]any{
						"符号": map[string]any{
							"value": "W30",
						},
					},
				},
				"Instance Parameters": map[string]any{
					"Structural": map[string]any{
						"Structural": map[string]any{
							"value": "Yes",
						},
					},
				},
			},
		},
		"location": map[string]any{
			"length": 5300.000000000002,
		},
	}
}

func TestElementID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v2-wall-1", v2Wall().ID())
	assert.Empty(t, element.Element{}.ID())
}

func TestElementName(t *testing.T) {
	t.Parallel()

	e := element.Element{"name": "Basic Wall"}
	assert.Equal(t, "Basic Wall", e.Name())
	assert.Empty(t, element.Element{}.Name())
}

func TestIsDisplayable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		elem element.Element
		name string
		want bool
	}{
		{
			name: "own geometry",
			elem: element.Element{
				"id":           "a",
				"displayValue": []any{map[string]any{"id": "mesh"}},
			},
			want: true,
		},
		{
			name: "geometry under at-prefixed key",
			elem: element.Element{
				"id":            "b",
				"@displayValue": []any{map[string]any{"id": "mesh"}},
			},
			want: true,
		},
		{
			name: "geometry on definition",
			elem: element.Element{
				"id": "c",
				"definition": map[string]any{
					"id":           "def",
					"displayValue": []any{map[string]any{"id": "mesh"}},
				},
			},
			want: true,
		},
		{
			name: "no geometry",
			elem: element.Element{"id": "d"},
			want: false,
		},
		{
			name: "geometry but no id",
			elem: element.Element{
				"displayValue": []any{map[string]any{"id": "mesh"}},
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, element.IsDisplayable(tc.elem))
		})
	}
}

func TestDisplayableElements(t *testing.T) {
	t.Parallel()

	displayable := element.Element{
		"id":           "a",
		"displayValue": []any{map[string]any{}},
	}
	hidden := element.Element{"id": "b"}

	got := element.DisplayableElements([]element.Element{displayable, hidden})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID())
}
