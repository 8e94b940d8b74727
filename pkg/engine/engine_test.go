package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/engine"
	"github.com/modelcheck/modelcheck/pkg/rule"
)

func wall(id string, width float64) element.Element {
	return element.Element{
		"id":       id,
		"category": "Walls",
		"parameters": map[string]any{
			"WALL_ATTR_WIDTH_PARAM": map[string]any{
				"name":  "Width",
				"value": width,
			},
		},
	}
}

func floor(id string) element.Element {
	return element.Element{"id": id, "category": "Floors"}
}

func widthRule(id string, check rule.Condition) rule.Group {
	return rule.Group{
		ID:       id,
		Message:  "Wall width out of range",
		Severity: rule.SeverityError,
		Conditions: []rule.Condition{
			{RuleID: id, Logic: rule.LogicWhere, Property: "category", Predicate: "equals", Value: "Walls"},
			check,
		},
	}
}

func TestEvaluateGroupPartitions(t *testing.T) {
	t.Parallel()

	elements := []element.Element{
		wall("thin", 80),
		wall("ok", 300),
		wall("thick", 600),
		floor("floor-1"),
	}

	g := widthRule("1", rule.Condition{
		RuleID: "1", Logic: rule.LogicCheck,
		Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "in range", Value: "100,500",
	})

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, elements)

	assert.Equal(t, engine.OutcomeEvaluated, res.Outcome)

	require.Len(t, res.Passed, 1)
	assert.Equal(t, "ok", res.Passed[0].ID())

	require.Len(t, res.Failed, 2)
	assert.Equal(t, "thin", res.Failed[0].ID())
	assert.Equal(t, "thick", res.Failed[1].ID())
}

func TestEvaluateGroupSkippedOnEmptyFilter(t *testing.T) {
	t.Parallel()

	g := widthRule("1", rule.Condition{
		RuleID: "1", Logic: rule.LogicCheck,
		Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "exists",
	})

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, []element.Element{floor("floor-1")})

	assert.Equal(t, engine.OutcomeSkipped, res.Outcome)
	assert.Empty(t, res.Passed)
	assert.Empty(t, res.Failed)
	require.NoError(t, res.Err)
}

func TestEvaluateGroupInvalidStructure(t *testing.T) {
	t.Parallel()

	g := rule.Group{
		ID: "9",
		Conditions: []rule.Condition{
			{RuleID: "9", Logic: rule.LogicAnd, Property: "category", Predicate: "exists"},
		},
	}

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, []element.Element{wall("w", 300)})

	assert.Equal(t, engine.OutcomeSkipped, res.Outcome)
	require.ErrorIs(t, res.Err, rule.ErrMissingWhere)
}

func TestEvaluateGroupFiltersNarrowSequentially(t *testing.T) {
	t.Parallel()

	thick := wall("thick", 600)
	thin := wall("thin", 80)

	g := rule.Group{
		ID:       "2",
		Severity: rule.SeverityWarning,
		Conditions: []rule.Condition{
			{RuleID: "2", Logic: rule.LogicWhere, Property: "category", Predicate: "equals", Value: "Walls"},
			{RuleID: "2", Logic: rule.LogicAnd, Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "greater than", Value: 100},
			{RuleID: "2", Logic: rule.LogicCheck, Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "less than", Value: 500},
		},
	}

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, []element.Element{thick, thin, floor("f")})

	// Only `thick` survives the AND filter; it then fails the check.
	assert.Equal(t, engine.OutcomeEvaluated, res.Outcome)
	assert.Empty(t, res.Passed)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "thick", res.Failed[0].ID())
}

func TestEvaluateGroupLegacyLastAndIsCheck(t *testing.T) {
	t.Parallel()

	g := rule.Group{
		ID: "3",
		Conditions: []rule.Condition{
			{RuleID: "3", Logic: rule.LogicWhere, Property: "category", Predicate: "equals", Value: "Walls"},
			{RuleID: "3", Logic: rule.LogicAnd, Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "greater than", Value: 100},
		},
	}

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, []element.Element{wall("a", 300), wall("b", 50)})

	assert.Equal(t, engine.OutcomeEvaluated, res.Outcome)
	require.Len(t, res.Passed, 1)
	assert.Equal(t, "a", res.Passed[0].ID())
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "b", res.Failed[0].ID())
}

func TestEvaluateGroupUnknownPredicateFailsElements(t *testing.T) {
	t.Parallel()

	g := rule.Group{
		ID: "4",
		Conditions: []rule.Condition{
			{RuleID: "4", Logic: rule.LogicWhere, Property: "category", Predicate: "equals", Value: "Walls"},
			{RuleID: "4", Logic: rule.LogicCheck, Property: "category", Predicate: "frobnicate"},
		},
	}

	ev := engine.New(nil)
	res := ev.EvaluateGroup(t.Context(), &g, []element.Element{wall("w", 300)})

	assert.Equal(t, engine.OutcomeEvaluated, res.Outcome)
	assert.Empty(t, res.Passed)
	assert.Len(t, res.Failed, 1)
}

func TestRunKeepsTableOrder(t *testing.T) {
	t.Parallel()

	elements := []element.Element{wall("w", 300)}

	groups := []rule.Group{
		widthRule("2", rule.Condition{
			RuleID: "2", Logic: rule.LogicCheck,
			Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "greater than", Value: 100,
		}),
		widthRule("1", rule.Condition{
			RuleID: "1", Logic: rule.LogicCheck,
			Property: "WALL_ATTR_WIDTH_PARAM", Predicate: "less than", Value: 100,
		}),
	}

	ev := engine.New(nil)
	results := ev.Run(t.Context(), groups, elements)

	require.Len(t, results, 2)
	assert.Equal(t, "2", results[0].Rule.ID)
	assert.Equal(t, "1", results[1].Rule.ID)
	assert.Len(t, results[0].Passed, 1)
	assert.Len(t, results[1].Failed, 1)
}
