package report

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/engine"
	"github.com/modelcheck/modelcheck/pkg/rule"
)

// SkippedObjectID is the sentinel object id skipped rules annotate: no real
// element is involved, but hosts require at least one target object.
const SkippedObjectID = "0"

// Statuses recorded in attachment metadata.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIPPED"
)

// Reporter gates evaluation results by severity and forwards the survivors
// to a HostContext.
type Reporter struct {
	host        HostContext
	logger      *slog.Logger
	minSeverity rule.Severity
	hideSkipped bool
}

// Option adjusts Reporter behavior.
type Option func(*Reporter)

// WithMinimumSeverity sets the reporting threshold. Failures below it are
// suppressed, and passes are reported only when the threshold is Info.
func WithMinimumSeverity(s rule.Severity) Option {
	return func(r *Reporter) { r.minSeverity = s }
}

// HideSkipped suppresses the informational attachments for skipped rules.
func HideSkipped() Option {
	return func(r *Reporter) { r.hideSkipped = true }
}

// WithLogger sets the reporter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) { r.logger = logger }
}

// New creates a Reporter attached to the given host. The default threshold
// is Info, which reports everything.
func New(host HostContext, opts ...Option) *Reporter {
	r := &Reporter{
		host:        host,
		logger:      slog.Default(),
		minSeverity: rule.SeverityInfo,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report forwards one result to the host, applying the severity gate:
//
//   - failures attach at the rule's severity, but only when that severity
//     meets the threshold;
//   - passes attach as info, and only when the threshold itself is Info;
//   - skipped rules attach as info under [SkippedObjectID] unless hidden.
func (r *Reporter) Report(res engine.Result) {
	g := res.Rule

	if res.Outcome == engine.OutcomeSkipped {
		if r.hideSkipped {
			return
		}

		reason := "no elements matched its filters"
		if res.Err != nil {
			reason = res.Err.Error()
		}

		r.host.AttachInfo(
			fmt.Sprintf("Rule %s skipped: %s", g.ID, reason),
			[]string{SkippedObjectID},
			Metadata(g.ID, StatusSkip, rule.SeverityInfo, g.Message, 0),
		)

		return
	}

	if len(res.Failed) > 0 {
		if g.Severity >= r.minSeverity {
			r.host.AttachResult(g.Severity,
				fmt.Sprintf("Rule %s failed: %s", g.ID, g.Message),
				objectIDs(res.Failed),
				Metadata(g.ID, StatusFail, g.Severity, g.Message, len(res.Failed)),
			)
		} else {
			r.logger.Debug("failures below reporting threshold",
				"rule", g.ID,
				"severity", g.Severity.String(),
				"failed", len(res.Failed),
			)
		}
	}

	if len(res.Passed) > 0 && r.minSeverity == rule.SeverityInfo {
		r.host.AttachInfo(
			fmt.Sprintf("Rule %s passed: %s", g.ID, g.Message),
			objectIDs(res.Passed),
			Metadata(g.ID, StatusPass, g.Severity, g.Message, len(res.Passed)),
		)
	}
}

// Metadata builds the attachment annotation for a verdict. The map is
// checked for JSON serializability; if it cannot be marshaled an empty map
// is attached instead, so a bad value never aborts reporting.
func Metadata(ruleID, status string, severity rule.Severity, message string, count int) map[string]any {
	md := map[string]any{
		"rule_id":      ruleID,
		"status":       status,
		"severity":     severity.String(),
		"rule_message": message,
		"object_count": count,
	}

	if _, err := json.Marshal(md); err != nil {
		return map[string]any{}
	}

	return md
}

func objectIDs(elements []element.Element) []string {
	ids := make([]string, 0, len(elements))
	for _, e := range elements {
		ids = append(ids, e.ID())
	}

	return ids
}
