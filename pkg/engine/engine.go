// Package engine evaluates rule groups against model elements.
package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/predicate"
	"github.com/modelcheck/modelcheck/pkg/rule"
)

var tracer = otel.Tracer("github.com/modelcheck/modelcheck/pkg/engine")

// Outcome states whether a rule group produced a verdict.
type Outcome int

const (
	// OutcomeEvaluated means the group's filters matched at least one
	// element and the check partitioned them into passed and failed.
	OutcomeEvaluated Outcome = iota

	// OutcomeSkipped means no element survived the group's filters, or the
	// group's structure was invalid. Skipped is distinct from "all passed".
	OutcomeSkipped
)

// Result is the verdict of one rule group.
type Result struct {
	Rule    *rule.Group
	Err     error
	Passed  []element.Element
	Failed  []element.Element
	Outcome Outcome
}

// Evaluator runs rule groups over a fixed element set.
type Evaluator struct {
	logger *slog.Logger
}

// New creates an Evaluator. A nil logger falls back to slog's default.
func New(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{logger: logger}
}

// Run evaluates every group in table order. A structurally invalid group
// yields a skipped result carrying the validation error; it never aborts the
// remaining groups.
func (ev *Evaluator) Run(ctx context.Context, groups []rule.Group, elements []element.Element) []Result {
	ctx, span := tracer.Start(ctx, "engine.Run")
	defer span.End()

	results := make([]Result, 0, len(groups))
	for i := range groups {
		results = append(results, ev.EvaluateGroup(ctx, &groups[i], elements))
	}

	return results
}

// EvaluateGroup applies the group's filters in order, short-circuiting to a
// skipped result as soon as the candidate set is empty, then partitions the
// survivors with the final check.
func (ev *Evaluator) EvaluateGroup(ctx context.Context, g *rule.Group, elements []element.Element) Result {
	_, span := tracer.Start(ctx, "engine.EvaluateGroup")
	defer span.End()

	span.SetAttributes(attribute.String("rule.id", g.ID))

	if err := g.Validate(); err != nil {
		ev.logger.Warn("skipping malformed rule", "rule", g.ID, "err", err)

		return Result{Rule: g, Outcome: OutcomeSkipped, Err: err}
	}

	filters, check := g.FiltersAndCheck()

	candidates := elements
	for _, cond := range filters {
		candidates = applyFilter(cond, candidates)
		if len(candidates) == 0 {
			ev.logger.Debug("rule matched no elements",
				"rule", g.ID,
				"filter", cond.Property,
				"predicate", cond.Predicate,
			)

			return Result{Rule: g, Outcome: OutcomeSkipped}
		}
	}

	res := Result{Rule: g, Outcome: OutcomeEvaluated}
	for _, e := range candidates {
		if applyCondition(check, e) {
			res.Passed = append(res.Passed, e)
		} else {
			res.Failed = append(res.Failed, e)
		}
	}

	ev.logger.Debug("evaluated rule",
		"rule", g.ID,
		"candidates", len(candidates),
		"passed", len(res.Passed),
		"failed", len(res.Failed),
	)

	span.SetAttributes(
		attribute.Int("rule.passed", len(res.Passed)),
		attribute.Int("rule.failed", len(res.Failed)),
	)

	return res
}

func applyFilter(cond rule.Condition, elements []element.Element) []element.Element {
	var kept []element.Element
	for _, e := range elements {
		if applyCondition(cond, e) {
			kept = append(kept, e)
		}
	}

	return kept
}

// applyCondition dispatches one condition against one element. Unknown
// predicates evaluate to false, the same degrade-to-false contract the
// predicates themselves follow.
func applyCondition(cond rule.Condition, e element.Element) bool {
	fn, ok := predicate.Resolve(cond.Predicate)
	if !ok {
		return false
	}

	return fn(e, cond.Property, cond.Value)
}
