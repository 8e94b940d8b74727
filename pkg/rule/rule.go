// Package rule defines the WHERE/AND/CHECK rule grammar and parses tabular
// rule definitions into validated, grouped rule records.
//
// A rule group is one user-authored validation rule: an ordered sequence of
// conditions sharing a rule identifier. The opening WHERE and any following
// AND conditions narrow the element set; the final CHECK condition (or, in
// the legacy format, the last AND) decides pass or fail.
package rule

import (
	"errors"
	"fmt"
	"strings"
)

// Logic classifies a condition's role within its group.
type Logic string

const (
	LogicWhere Logic = "WHERE"
	LogicAnd   Logic = "AND"
	LogicCheck Logic = "CHECK"
)

// ParseLogic normalizes a raw Logic cell. The zero Logic and false indicate
// an unrecognized value.
func ParseLogic(s string) (Logic, bool) {
	switch Logic(strings.ToUpper(strings.TrimSpace(s))) {
	case LogicWhere:
		return LogicWhere, true
	case LogicAnd:
		return LogicAnd, true
	case LogicCheck:
		return LogicCheck, true
	}

	return "", false
}

// Severity orders rule results: Info < Warning < Error.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	}

	return "Error"
}

// ParseSeverity normalizes a raw severity cell. Matching is case-insensitive
// and trimmed, "Warn" is accepted as an alias for "Warning", and anything
// unrecognized (including non-string cells) defaults to Error so that an
// author's typo cannot silence a failing rule.
func ParseSeverity(v any) Severity {
	s, ok := v.(string)
	if !ok {
		return SeverityError
	}

	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SeverityInfo
	case "WARNING", "WARN":
		return SeverityWarning
	case "ERROR":
		return SeverityError
	}

	return SeverityError
}

// Condition is one row of a rule group.
type Condition struct {
	Value     any
	RuleID    string
	Logic     Logic
	Property  string
	Predicate string
}

// Group is one complete rule: its ordered conditions plus the message and
// severity taken from the group's last row.
type Group struct {
	ID         string
	Message    string
	Conditions []Condition
	Severity   Severity
}

var (
	ErrNoConditions  = errors.New("rule has no conditions")
	ErrMissingWhere  = errors.New("rule must start with WHERE")
	ErrMultipleCheck = errors.New("rule has multiple CHECK conditions")
	ErrCheckNotLast  = errors.New("CHECK must be the last condition")
	ErrInvalidLogic  = errors.New("invalid Logic value")
)

// Validate checks the group's WHERE/AND/CHECK structure: the first condition
// must be WHERE, at most one CHECK is allowed, and a CHECK must be last.
func (g *Group) Validate() error {
	if len(g.Conditions) == 0 {
		return fmt.Errorf("rule %s: %w", g.ID, ErrNoConditions)
	}

	if g.Conditions[0].Logic != LogicWhere {
		return fmt.Errorf("rule %s: %w", g.ID, ErrMissingWhere)
	}

	checkIdx := -1
	for i, c := range g.Conditions {
		switch c.Logic {
		case LogicWhere, LogicAnd:

		case LogicCheck:
			if checkIdx >= 0 {
				return fmt.Errorf("rule %s: %w", g.ID, ErrMultipleCheck)
			}

			checkIdx = i

		default:
			return fmt.Errorf("rule %s: %w: %q", g.ID, ErrInvalidLogic, c.Logic)
		}
	}

	if checkIdx >= 0 && checkIdx != len(g.Conditions)-1 {
		return fmt.Errorf("rule %s: %w", g.ID, ErrCheckNotLast)
	}

	return nil
}

// FiltersAndCheck separates the group into filtering conditions and the
// final check. With an explicit CHECK row the remaining conditions are the
// filters. Without one, the last AND is the implicit check and everything
// before it filters; a group of just a WHERE uses that WHERE as both filter
// and check (legacy format).
func (g *Group) FiltersAndCheck() (filters []Condition, check Condition) {
	for i, c := range g.Conditions {
		if c.Logic == LogicCheck {
			filters = append([]Condition{}, g.Conditions[:i]...)
			filters = append(filters, g.Conditions[i+1:]...)

			return filters, c
		}
	}

	lastAnd := -1
	for i, c := range g.Conditions {
		if c.Logic == LogicAnd {
			lastAnd = i
		}
	}

	if lastAnd >= 0 {
		return g.Conditions[:lastAnd], g.Conditions[lastAnd]
	}

	return g.Conditions, g.Conditions[0]
}
