// Package ast provides AST traversal utilities for SQL lint rules.
package ast

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
)

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
// Nil children are never passed to fn.
func Walk(node any, fn func(node any) bool) {
	if isNil(node) {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

func walkNode(node any, fn func(node any) bool) {
	switch n := node.(type) {
	case *core.SelectStmt:
		Walk(n.With, fn)
		Walk(n.Body, fn)

	case *core.WithClause:
		for _, cte := range n.CTEs {
			Walk(cte, fn)
		}

	case *core.CTE:
		Walk(n.Select, fn)

	case *core.SelectBody:
		Walk(n.Left, fn)
		Walk(n.Nested, fn)
		Walk(n.Right, fn)

	case *core.SelectCore:
		for _, col := range n.Columns {
			Walk(col.Expr, fn)
			for _, mod := range col.Modifiers {
				if rep, ok := mod.(*core.ReplaceModifier); ok {
					for _, item := range rep.Items {
						Walk(item.Expr, fn)
					}
				}
			}
		}
		Walk(n.From, fn)
		Walk(n.Where, fn)
		for _, expr := range n.GroupBy {
			Walk(expr, fn)
		}
		Walk(n.Having, fn)
		for _, w := range n.Windows {
			Walk(w.Spec, fn)
		}
		Walk(n.Qualify, fn)
		walkOrderBy(n.OrderBy, fn)
		Walk(n.Limit, fn)
		Walk(n.Offset, fn)

	case *core.FromClause:
		Walk(n.Source, fn)
		for _, join := range n.Joins {
			Walk(join, fn)
		}

	case *core.Join:
		Walk(n.Right, fn)
		Walk(n.Condition, fn)
		for _, col := range n.Using {
			Walk(col, fn)
		}

	case *core.DerivedTable:
		Walk(n.Select, fn)

	case *core.TableFunction:
		Walk(n.Func, fn)

	case *core.PivotTable:
		Walk(n.Source, fn)
		for _, agg := range n.Aggregates {
			Walk(agg.Func, fn)
		}
		Walk(n.ForColumn, fn)
		for _, v := range n.InValues {
			Walk(v.Value, fn)
		}

	case *core.UnpivotTable:
		Walk(n.Source, fn)
		for _, group := range n.InColumns {
			for _, col := range group.Columns {
				Walk(col, fn)
			}
		}

	case *core.BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *core.UnaryExpr:
		Walk(n.Expr, fn)

	case *core.FuncCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		walkOrderBy(n.OrderBy, fn)
		Walk(n.Limit, fn)
		Walk(n.Window, fn)

	case *core.WindowSpec:
		for _, expr := range n.PartitionBy {
			Walk(expr, fn)
		}
		walkOrderBy(n.OrderBy, fn)
		if n.Frame != nil {
			if n.Frame.Start != nil {
				Walk(n.Frame.Start.Offset, fn)
			}
			if n.Frame.End != nil {
				Walk(n.Frame.End.Offset, fn)
			}
		}

	case *core.CaseExpr:
		Walk(n.Operand, fn)
		for _, when := range n.Whens {
			Walk(when.Condition, fn)
			Walk(when.Result, fn)
		}
		Walk(n.Else, fn)

	case *core.CastExpr:
		Walk(n.Expr, fn)

	case *core.InExpr:
		Walk(n.Expr, fn)
		for _, v := range n.Values {
			Walk(v, fn)
		}
		Walk(n.Query, fn)
		Walk(n.Unnest, fn)

	case *core.BetweenExpr:
		Walk(n.Expr, fn)
		Walk(n.Low, fn)
		Walk(n.High, fn)

	case *core.IsNullExpr:
		Walk(n.Expr, fn)

	case *core.IsBoolExpr:
		Walk(n.Expr, fn)

	case *core.LikeExpr:
		Walk(n.Expr, fn)
		Walk(n.Pattern, fn)

	case *core.ParenExpr:
		Walk(n.Expr, fn)

	case *core.SubqueryExpr:
		Walk(n.Select, fn)

	case *core.ExistsExpr:
		Walk(n.Select, fn)

	case *core.IndexExpr:
		Walk(n.Expr, fn)
		Walk(n.Index, fn)

	case *core.FieldExpr:
		Walk(n.Expr, fn)

	case *core.ExtractExpr:
		Walk(n.Expr, fn)

	case *core.IntervalExpr:
		Walk(n.Value, fn)

	case *core.ArrayLiteral:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *core.StructLiteral:
		for _, field := range n.Fields {
			Walk(field.Value, fn)
		}

	// Leaf nodes - no children to walk
	case *core.TableName, *core.ColumnRef, *core.Literal, *core.StarExpr:
	}
}

func walkOrderBy(items []core.OrderByItem, fn func(node any) bool) {
	for _, item := range items {
		Walk(item.Expr, fn)
	}
}

// isNil reports whether node is nil or a typed nil pointer held in an interface.
func isNil(node any) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *core.SelectStmt:
		return n == nil
	case *core.WithClause:
		return n == nil
	case *core.CTE:
		return n == nil
	case *core.SelectBody:
		return n == nil
	case *core.SelectCore:
		return n == nil
	case *core.FromClause:
		return n == nil
	case *core.Join:
		return n == nil
	case *core.FuncCall:
		return n == nil
	case *core.WindowSpec:
		return n == nil
	case *core.ColumnRef:
		return n == nil
	}
	return false
}

// CollectFuncCalls returns all function calls under node.
func CollectFuncCalls(node any) []*core.FuncCall {
	var funcs []*core.FuncCall
	Walk(node, func(n any) bool {
		if fc, ok := n.(*core.FuncCall); ok {
			funcs = append(funcs, fc)
		}
		return true
	})
	return funcs
}

// CollectColumnRefs returns all column references under node.
func CollectColumnRefs(node any) []*core.ColumnRef {
	var refs []*core.ColumnRef
	Walk(node, func(n any) bool {
		if cr, ok := n.(*core.ColumnRef); ok {
			refs = append(refs, cr)
		}
		return true
	})
	return refs
}

// GetSelectCore extracts the first SelectCore of a statement, handling nil checks.
func GetSelectCore(stmt *core.SelectStmt) *core.SelectCore {
	if stmt == nil || stmt.Body == nil {
		return nil
	}
	if stmt.Body.Nested != nil {
		return GetSelectCore(stmt.Body.Nested)
	}
	return stmt.Body.Left
}

// CollectSelectCores returns all SelectCore nodes in a statement, including
// those of CTEs, set operation operands and subqueries.
func CollectSelectCores(stmt *core.SelectStmt) []*core.SelectCore {
	var cores []*core.SelectCore
	Walk(stmt, func(node any) bool {
		if sc, ok := node.(*core.SelectCore); ok {
			cores = append(cores, sc)
		}
		return true
	})
	return cores
}

// BodyCores returns the SelectCores of a body's set operation operands in
// source order, without descending into nested statements.
func BodyCores(body *core.SelectBody) []*core.SelectCore {
	var cores []*core.SelectCore
	for b := body; b != nil; b = b.Right {
		if b.Left != nil {
			cores = append(cores, b.Left)
		}
	}
	return cores
}

// UnwrapParens strips any enclosing parentheses from an expression.
func UnwrapParens(expr core.Expr) core.Expr {
	for {
		p, ok := expr.(*core.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.Expr
	}
}
