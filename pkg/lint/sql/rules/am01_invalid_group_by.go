package rules

import (
	"strconv"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/internal/ast"
)

func init() {
	sql.Register(InvalidGroupBy)
}

// InvalidGroupBy flags select items that read columns which are neither
// grouped nor aggregated.
var InvalidGroupBy = sql.RuleDef{
	ID:          "AM01",
	Name:        "ambiguous.invalid_group_by",
	Group:       "ambiguous",
	Description: "Non-aggregated columns must appear in GROUP BY.",
	Severity:    core.SeverityError,
	Check:       checkInvalidGroupBy,

	Rationale: `BigQuery rejects a grouped query that selects a column which is neither
listed in GROUP BY nor wrapped in an aggregate function. Catching it before
the query is submitted saves a failed job.`,

	BadExample: `SELECT user_id, country, COUNT(*) AS orders
FROM dataset.orders
GROUP BY user_id`,

	GoodExample: `SELECT user_id, ANY_VALUE(country) AS country, COUNT(*) AS orders
FROM dataset.orders
GROUP BY user_id`,

	Fix: "Add the column to GROUP BY or wrap it in an aggregate such as ANY_VALUE.",
}

// aggregateFunctions are always treated as aggregates, whatever the dialect says.
var aggregateFunctions = map[string]bool{
	"COUNT":      true,
	"SUM":        true,
	"AVG":        true,
	"MAX":        true,
	"MIN":        true,
	"ANY_VALUE":  true,
	"ARRAY_AGG":  true,
	"STRING_AGG": true,
	"COUNTIF":    true,
}

// groupingFunctions wrap the actual grouping keys.
var groupingFunctions = map[string]bool{
	"ROLLUP":        true,
	"CUBE":          true,
	"GROUPING SETS": true,
	"GROUPING_SETS": true,
}

// niladicColumns parse as column references but are functions of no column.
var niladicColumns = map[string]bool{
	"current_date":      true,
	"current_datetime":  true,
	"current_time":      true,
	"current_timestamp": true,
}

func checkInvalidGroupBy(stmt *core.SelectStmt, d lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, sc := range ast.CollectSelectCores(stmt) {
		if len(sc.GroupBy) == 0 {
			continue
		}
		keys := collectGroupKeys(sc)
		for i, item := range sc.Columns {
			if item.Star || item.TableStar != "" || item.Expr == nil {
				continue
			}
			if keys.ordinals[i+1] || (item.Alias != "" && keys.names[dialect.Fold(item.Alias)]) {
				continue
			}
			ref := firstUngroupedRef(item.Expr, keys, d)
			if ref == nil {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "AM01",
				Severity:         core.SeverityError,
				Message:          "Column '" + ref.Name() + "' must appear in the GROUP BY clause or be used in an aggregate function",
				Pos:              ref.Pos(),
				EndPos:           ref.End(),
				DocumentationURL: lint.BuildDocURL("AM01"),
				ImpactScore:      lint.ImpactCritical.Int(),
			})
		}
	}
	return diagnostics
}

type groupKeys struct {
	names    map[string]bool // folded column names and full paths
	ordinals map[int]bool    // 1-based select list positions
}

func collectGroupKeys(sc *core.SelectCore) groupKeys {
	keys := groupKeys{names: make(map[string]bool), ordinals: make(map[int]bool)}
	var add func(expr core.Expr)
	add = func(expr core.Expr) {
		switch e := ast.UnwrapParens(expr).(type) {
		case *core.Literal:
			if e.Type == core.LiteralNumber {
				if n, err := strconv.Atoi(e.Value); err == nil {
					keys.ordinals[n] = true
				}
			}
		case *core.FuncCall:
			if groupingFunctions[e.Name] {
				for _, arg := range e.Args {
					add(arg)
				}
				return
			}
			addRefs(keys, e)
		default:
			addRefs(keys, e)
		}
	}
	for _, expr := range sc.GroupBy {
		add(expr)
	}
	return keys
}

func addRefs(keys groupKeys, node any) {
	for _, ref := range ast.CollectColumnRefs(node) {
		keys.names[dialect.Fold(ref.Column)] = true
		keys.names[dialect.Fold(ref.Name())] = true
	}
}

// firstUngroupedRef returns the first column reference of expr read outside
// an aggregate or window call that is not a grouping key.
func firstUngroupedRef(expr core.Expr, keys groupKeys, d lint.DialectInfo) *core.ColumnRef {
	var found *core.ColumnRef
	ast.Walk(expr, func(n any) bool {
		if found != nil {
			return false
		}
		switch n := n.(type) {
		case *core.SelectStmt:
			return false
		case *core.FuncCall:
			if n.Window != nil || isAggregate(n.Name, d) {
				return false
			}
		case *core.ColumnRef:
			if !isGrouped(n, keys) {
				found = n
			}
		}
		return true
	})
	return found
}

func isGrouped(ref *core.ColumnRef, keys groupKeys) bool {
	if ref.Table == "" && len(ref.Fields) == 0 && niladicColumns[dialect.Fold(ref.Column)] {
		return true
	}
	if keys.names[dialect.Fold(ref.Name())] || keys.names[dialect.Fold(ref.Column)] {
		return true
	}
	// A grouped struct column covers every field read from it.
	return ref.Table != "" && keys.names[dialect.Fold(ref.Table)]
}

func isAggregate(name string, d lint.DialectInfo) bool {
	if aggregateFunctions[name] {
		return true
	}
	return d != nil && d.IsAggregate(name)
}
