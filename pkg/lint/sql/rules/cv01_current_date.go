package rules

import (
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/internal/ast"
)

func init() {
	sql.Register(CurrentDate)
}

// CurrentDate flags CURRENT_DATE, whose result depends on when the query runs.
var CurrentDate = sql.RuleDef{
	ID:          "CV01",
	Name:        "convention.current_date",
	Group:       "convention",
	Description: "Avoid CURRENT_DATE in favour of an explicit date parameter.",
	Severity:    core.SeverityWarning,
	Check:       checkCurrentDate,

	Rationale: `A query that reads CURRENT_DATE returns different results depending on
when it runs, and the date is evaluated in UTC unless a time zone is given.
Backfills and reruns of scheduled queries silently compute the wrong day.`,

	BadExample: `SELECT * FROM dataset.events
WHERE event_date = CURRENT_DATE()`,

	GoodExample: `SELECT * FROM dataset.events
WHERE event_date = @run_date`,

	Fix: "Pass the date in as a query parameter.",
}

func checkCurrentDate(stmt *core.SelectStmt, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	report := func(n core.Node) {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "CV01",
			Severity:         core.SeverityWarning,
			Message:          "CURRENT_DATE is used!",
			Pos:              n.Pos(),
			EndPos:           n.End(),
			DocumentationURL: lint.BuildDocURL("CV01"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}
	ast.Walk(stmt, func(n any) bool {
		switch n := n.(type) {
		case *core.ColumnRef:
			if n.Table == "" && len(n.Fields) == 0 && strings.EqualFold(n.Column, "CURRENT_DATE") {
				report(n)
			}
		case *core.FuncCall:
			if n.Name == "CURRENT_DATE" {
				report(n)
			}
		}
		return true
	})
	return diagnostics
}
