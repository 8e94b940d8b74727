package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/element"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	root := element.Element{
		"id": "root",
		"elements": []any{
			map[string]any{
				"id": "level-1",
				"@elements": []any{
					map[string]any{"id": "wall-1"},
					map[string]any{"id": "wall-2"},
				},
			},
			map[string]any{
				"id": "level-2",
				"children": []any{
					map[string]any{"id": "floor-1"},
				},
			},
		},
	}

	got := element.Flatten(root)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID())
	}

	// Depth-first pre-order: parents before children.
	assert.Equal(t, []string{"root", "level-1", "wall-1", "wall-2", "level-2", "floor-1"}, ids)
}

func TestFlattenCyclic(t *testing.T) {
	t.Parallel()

	child := map[string]any{"id": "child"}
	root := element.Element{
		"id":       "root",
		"elements": []any{child},
	}
	child["elements"] = []any{map[string]any(root)}

	got := element.Flatten(root)

	require.Len(t, got, 2)
	assert.Equal(t, "root", got[0].ID())
	assert.Equal(t, "child", got[1].ID())
}

func TestFlattenLeafOnly(t *testing.T) {
	t.Parallel()

	got := element.Flatten(element.Element{"id": "solo"})

	require.Len(t, got, 1)
	assert.Equal(t, "solo", got[0].ID())
}

func TestFilterByCategory(t *testing.T) {
	t.Parallel()

	walls := element.Element{"id": "w", "category": "Walls"}
	floors := element.Element{"id": "f", "category": "Floors"}
	none := element.Element{"id": "n"}

	matching, rest := element.FilterByCategory([]element.Element{walls, floors, none}, "Walls")

	require.Len(t, matching, 1)
	assert.Equal(t, "w", matching[0].ID())
	require.Len(t, rest, 2)
}

func TestCategoryValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Walls", element.CategoryValue(element.Element{"category": "Walls"}))
	assert.Empty(t, element.CategoryValue(element.Element{}))
}

func TestHasCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, element.HasCategory(element.Element{"category": "Walls"}))
	assert.False(t, element.HasCategory(element.Element{"id": "x"}))
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	e := element.Element{"category": "Walls"}

	assert.True(t, element.IsCategory(e, "Walls"))
	assert.False(t, element.IsCategory(e, "Floors"))
	assert.False(t, element.IsCategory(element.Element{}, "Walls"))
}
