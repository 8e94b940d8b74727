package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/engine"
	"github.com/modelcheck/modelcheck/pkg/rule"
)

// ErrNoRules is returned when the rule table yields no usable rule groups.
var ErrNoRules = errors.New("no rules to evaluate")

// Session ties an evaluator and a reporter together for one complete run.
type Session struct {
	evaluator *engine.Evaluator
	reporter  *Reporter
	host      HostContext
	logger    *slog.Logger
}

// NewSession builds a run session reporting through host. Reporter options
// apply to the session's reporter.
func NewSession(host HostContext, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		evaluator: engine.New(logger),
		reporter:  New(host, append([]Option{WithLogger(logger)}, opts...)...),
		host:      host,
		logger:    logger,
	}
}

// Run evaluates every rule group against the elements, reports each result,
// and marks the run's final state on the host. Table diagnostics are logged
// but never fatal; an empty rule set is.
func (s *Session) Run(ctx context.Context, groups []rule.Group, diags []string, elements []element.Element) ([]engine.Result, error) {
	for _, d := range diags {
		s.logger.Warn("rule table", "diagnostic", d)
	}

	if len(groups) == 0 {
		s.host.MarkRunException(ErrNoRules)

		return nil, ErrNoRules
	}

	results := s.evaluator.Run(ctx, groups, elements)
	for _, res := range results {
		s.reporter.Report(res)
	}

	summary := Summarize(results, len(elements))
	s.logger.Info("run complete", "summary", summary)
	s.host.MarkRunSuccess(summary)

	return results, nil
}

// Summarize renders a one-line human summary of a run.
func Summarize(results []engine.Result, elementCount int) string {
	var passed, failed, skipped int
	for _, res := range results {
		switch {
		case res.Outcome == engine.OutcomeSkipped:
			skipped++
		case len(res.Failed) > 0:
			failed++
		default:
			passed++
		}
	}

	return fmt.Sprintf("Evaluated %s %s over %s %s: %d passed, %d failed, %d skipped",
		humanize.Comma(int64(len(results))), plural(len(results), "rule"),
		humanize.Comma(int64(elementCount)), plural(elementCount, "element"),
		passed, failed, skipped,
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
