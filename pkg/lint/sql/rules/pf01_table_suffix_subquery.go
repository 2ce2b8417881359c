package rules

import (
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/internal/ast"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

func init() {
	sql.Register(TableSuffixSubquery)
}

// TableSuffixSubquery flags _TABLE_SUFFIX filters that BigQuery cannot use
// to prune the tables of a wildcard scan.
var TableSuffixSubquery = sql.RuleDef{
	ID:          "PF01",
	Name:        "performance.table_suffix_subquery",
	Group:       "performance",
	Description: "Do not compare _TABLE_SUFFIX with a subquery.",
	Severity:    core.SeverityError,
	Check:       checkTableSuffixSubquery,

	Rationale: `BigQuery only prunes the tables matched by a wildcard table when the
_TABLE_SUFFIX filter is a constant expression. Comparing it with a subquery
scans and bills every matching table.`,

	BadExample: `SELECT * FROM ` + "`project.dataset.events_*`" + `
WHERE _TABLE_SUFFIX > (SELECT MAX(suffix) FROM dataset.loaded)`,

	GoodExample: `DECLARE last_suffix STRING DEFAULT (SELECT MAX(suffix) FROM dataset.loaded);
SELECT * FROM ` + "`project.dataset.events_*`" + `
WHERE _TABLE_SUFFIX > last_suffix`,

	Fix: "Compute the bound first, in a script variable or query parameter.",
}

var comparisonOps = map[token.TokenType]bool{
	token.EQ: true,
	token.NE: true,
	token.LT: true,
	token.GT: true,
	token.LE: true,
	token.GE: true,
}

func checkTableSuffixSubquery(stmt *core.SelectStmt, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	report := func(n core.Node) {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "PF01",
			Severity:         core.SeverityError,
			Message:          "Full scan will cause! Should not compare _TABLE_SUFFIX with subquery",
			Pos:              n.Pos(),
			EndPos:           n.End(),
			DocumentationURL: lint.BuildDocURL("PF01"),
			ImpactScore:      lint.ImpactCritical.Int(),
		})
	}

	for _, sc := range ast.CollectSelectCores(stmt) {
		ast.Walk(sc.Where, func(n any) bool {
			switch n := n.(type) {
			case *core.SelectStmt:
				// Nested WHERE clauses are visited through their own core.
				return false
			case *core.BinaryExpr:
				if comparisonOps[n.Op] && isTableSuffix(n.Left) {
					if sub := asSubquery(n.Right); sub != nil {
						report(sub)
					}
				}
			case *core.InExpr:
				if isTableSuffix(n.Expr) && n.Query != nil {
					report(n.Query)
				}
			case *core.BetweenExpr:
				if !isTableSuffix(n.Expr) {
					break
				}
				if sub := asSubquery(n.Low); sub != nil {
					report(sub)
				} else if sub := asSubquery(n.High); sub != nil {
					report(sub)
				}
			}
			return true
		})
	}
	return diagnostics
}

func isTableSuffix(expr core.Expr) bool {
	ref, ok := ast.UnwrapParens(expr).(*core.ColumnRef)
	return ok && len(ref.Fields) == 0 && strings.EqualFold(ref.Column, "_TABLE_SUFFIX")
}

func asSubquery(expr core.Expr) *core.SubqueryExpr {
	sub, _ := ast.UnwrapParens(expr).(*core.SubqueryExpr)
	return sub
}
