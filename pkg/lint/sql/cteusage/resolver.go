package cteusage

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Violation is a CTE column that nothing consumes.
type Violation struct {
	CTE    string
	Column string
	Span   token.Span
}

// Line returns the 1-based line where the defining expression starts.
func (v Violation) Line() int { return v.Span.Start.Line }

// ColumnStart returns the 1-based column where the defining expression starts.
func (v Violation) ColumnStart() int { return v.Span.Start.Column }

// LineEnd returns the line of the end of the defining expression.
func (v Violation) LineEnd() int { return v.Span.End.Line }

// ColumnEnd returns the column just past the end of the defining expression.
func (v Violation) ColumnEnd() int { return v.Span.End.Column }

// Message renders the violation for diagnostics.
func (v Violation) Message() string {
	return "Unused column: " + v.Column
}

// Resolve lists every reportable column that was never marked used,
// in CTE declaration order and then select-list order.
func Resolve(m *Model) []Violation {
	var violations []Violation
	for _, cte := range m.ctes {
		for _, col := range cte.Columns {
			if col.Used || !col.Reportable() {
				continue
			}
			violations = append(violations, Violation{
				CTE:    cte.Name,
				Column: col.Name,
				Span:   col.Span,
			})
		}
	}
	return violations
}

// Analyze collects and resolves stmt in one call.
func Analyze(stmt *core.SelectStmt) []Violation {
	return Resolve(Collect(stmt))
}
