package rules

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/internal/ast"
)

func init() {
	sql.Register(UnnecessaryOrderBy)
}

// UnnecessaryOrderBy flags ORDER BY clauses whose ordering cannot be observed.
var UnnecessaryOrderBy = sql.RuleDef{
	ID:          "ST02",
	Name:        "structure.unnecessary_order_by",
	Group:       "structure",
	Description: "ORDER BY in a CTE or subquery without LIMIT has no effect.",
	Severity:    core.SeverityWarning,
	Check:       checkUnnecessaryOrderBy,

	Rationale: `BigQuery does not preserve the order of rows produced by a CTE or a
subquery. Sorting there only costs slots, unless a LIMIT or OFFSET keeps a
subset of the sorted rows.`,

	BadExample: `WITH recent AS (
    SELECT id, created_at
    FROM dataset.events
    ORDER BY created_at DESC
)
SELECT id FROM recent`,

	GoodExample: `WITH recent AS (
    SELECT id, created_at
    FROM dataset.events
    ORDER BY created_at DESC
    LIMIT 100
)
SELECT id FROM recent`,

	Fix: "Drop the ORDER BY, or move it to the outermost query.",
}

const unnecessaryOrderByMessage = "Unnecessary ORDER BY: This ORDER BY clause has no effect without LIMIT/OFFSET or in aggregate functions"

func checkUnnecessaryOrderBy(stmt *core.SelectStmt, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}

	// Statements whose ordering reaches the result: the outermost query,
	// including (SELECT ... ORDER BY x) standing alone, and ARRAY subqueries.
	ordered := map[*core.SelectStmt]bool{stmt: true}
	for s := stmt; s.Body != nil && s.Body.Nested != nil && s.Body.Right == nil; s = s.Body.Nested {
		ordered[s.Body.Nested] = true
	}

	var diagnostics []lint.Diagnostic
	ast.Walk(stmt, func(n any) bool {
		if sub, ok := n.(*core.SubqueryExpr); ok && sub.Array && sub.Select != nil {
			ordered[sub.Select] = true
			return true
		}
		inner, ok := n.(*core.SelectStmt)
		if !ok || ordered[inner] {
			return true
		}
		for _, sc := range ast.BodyCores(inner.Body) {
			if len(sc.OrderBy) == 0 || sc.HasLimit() {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "ST02",
				Severity:         core.SeverityWarning,
				Message:          unnecessaryOrderByMessage,
				Pos:              sc.OrderByPos,
				DocumentationURL: lint.BuildDocURL("ST02"),
				ImpactScore:      lint.ImpactLow.Int(),
			})
		}
		return true
	})
	return diagnostics
}
