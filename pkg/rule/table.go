package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcheck/modelcheck/pkg/compare"
	"github.com/modelcheck/modelcheck/pkg/predicate"
)

// Column names recognized in rule tables. Severity falls back to the short
// header when the canonical one is absent.
const (
	ColRuleNumber = "Rule Number"
	ColLogic      = "Logic"
	ColProperty   = "Property Name"
	ColPredicate  = "Predicate"
	ColValue      = "Value"
	ColMessage    = "Message"
	ColSeverity   = "Report Severity"

	colSeverityShort = "Severity"
	colPropertyPath  = "Property Path"
)

// Table is a raw rule spreadsheet: ordered column headers and rows of cells.
// Cells arrive as strings from the transport layer; Normalize retypes them.
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// Normalize applies column typing: a column where any non-missing cell looks
// numeric keeps numeric typing (numeric-looking cells become floats), every
// other column is stringified with missing cells becoming empty strings, not
// nulls. Mixed-type columns otherwise make equality checks fail in confusing
// ways.
func (t *Table) Normalize() {
	for _, col := range t.Columns {
		if t.columnNumeric(col) {
			t.retypeNumeric(col)
		} else {
			t.retypeString(col)
		}
	}
}

func (t *Table) columnNumeric(col string) bool {
	for _, row := range t.Rows {
		s, ok := row[col].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}

		if _, ok := compare.ParseNumber(s); ok {
			return true
		}
	}

	return false
}

func (t *Table) retypeNumeric(col string) {
	for _, row := range t.Rows {
		if s, ok := row[col].(string); ok {
			if f, ok := compare.ParseNumber(s); ok {
				row[col] = f
			}
		}
	}
}

func (t *Table) retypeString(col string) {
	for _, row := range t.Rows {
		switch v := row[col].(type) {
		case nil:
			row[col] = ""
		case string:
		default:
			row[col] = fmt.Sprint(v)
		}
	}
}

// CellString returns the named cell as a string, with numeric cells formatted
// without a trailing ".0" and missing cells as "".
func CellString(row map[string]any, column string) string {
	switch v := row[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// ParseTable turns a normalized table into rule groups, in the order their
// WHERE rows appear. Parsing is fail-soft: structural problems in one group
// are reported as diagnostics without aborting the rest, and the returned
// groups may still fail Validate (the evaluator re-checks and skips them).
func ParseTable(t *Table) ([]Group, []string) {
	t.Normalize()

	var diags []string

	ids := assignRuleIDs(t, &diags)

	var (
		groups []Group
		index  = map[string]int{}
	)

	for i, row := range t.Rows {
		logic, ok := ParseLogic(CellString(row, ColLogic))
		if !ok {
			// Keep the row with its raw Logic: the group fails Validate and
			// the evaluator skips it, rather than evaluating a silently
			// narrowed rule.
			logic = Logic(strings.TrimSpace(CellString(row, ColLogic)))
			diags = append(diags,
				fmt.Sprintf("row %d: invalid Logic %q", i+1, CellString(row, ColLogic)))
		}

		cond := Condition{
			RuleID:    ids[i],
			Logic:     logic,
			Property:  propertyCell(row),
			Predicate: CellString(row, ColPredicate),
			Value:     row[ColValue],
		}

		gi, seen := index[cond.RuleID]
		if !seen || logic == LogicWhere {
			index[cond.RuleID] = len(groups)
			groups = append(groups, Group{ID: cond.RuleID})
			gi = index[cond.RuleID]
		}

		groups[gi].Conditions = append(groups[gi].Conditions, cond)
		groups[gi].Message = messageOrDefault(row)
		groups[gi].Severity = ParseSeverity(severityCell(row))
	}

	for i := range groups {
		checkPredicates(&groups[i], &diags)
	}

	return groups, diags
}

func messageOrDefault(row map[string]any) string {
	if msg := strings.TrimSpace(CellString(row, ColMessage)); msg != "" {
		return msg
	}

	return "No Message"
}

func propertyCell(row map[string]any) string {
	if p := CellString(row, ColProperty); p != "" {
		return p
	}

	return CellString(row, colPropertyPath)
}

func severityCell(row map[string]any) any {
	if v, ok := row[ColSeverity]; ok && CellString(row, ColSeverity) != "" {
		return v
	}

	return row[colSeverityShort]
}

// assignRuleIDs gives every row its group's rule identifier. A WHERE row
// opens a group; its Rule Number cell, kept verbatim, names the group and
// every following non-WHERE row inherits it. WHERE rows without a number get
// the smallest unused positive integer, reported as a diagnostic, as are
// duplicate WHERE numbers.
func assignRuleIDs(t *Table, diags *[]string) []string {
	used := map[string]bool{}
	for _, row := range t.Rows {
		if id := CellString(row, ColRuleNumber); id != "" {
			used[id] = true
		}
	}

	nextAuto := func() string {
		for n := 1; ; n++ {
			id := strconv.Itoa(n)
			if !used[id] {
				used[id] = true

				return id
			}
		}
	}

	ids := make([]string, len(t.Rows))
	seenWhere := map[string]int{}
	current := ""

	for i, row := range t.Rows {
		logic, _ := ParseLogic(CellString(row, ColLogic))
		id := CellString(row, ColRuleNumber)

		if logic == LogicWhere {
			if id == "" {
				id = nextAuto()
				*diags = append(*diags,
					fmt.Sprintf("row %d: WHERE has no Rule Number, assigned %s", i+1, id))
			}

			if prev, dup := seenWhere[id]; dup {
				*diags = append(*diags,
					fmt.Sprintf("row %d: duplicate Rule Number %s (first used on row %d)", i+1, id, prev+1))
			} else {
				seenWhere[id] = i
			}

			current = id
		} else if current == "" && id != "" {
			current = id
		}

		ids[i] = current
	}

	return ids
}

func checkPredicates(g *Group, diags *[]string) {
	for _, c := range g.Conditions {
		if _, ok := predicate.Resolve(c.Predicate); ok {
			continue
		}

		msg := fmt.Sprintf("rule %s: unknown predicate %q", g.ID, c.Predicate)
		if suggestions := predicate.Suggest(c.Predicate); len(suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean %q?", suggestions[0])
		}

		*diags = append(*diags, msg)
	}
}
