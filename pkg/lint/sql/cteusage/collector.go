package cteusage

import (
	"strconv"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/internal/ast"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Collect walks stmt once and returns the populated model.
//
// Every CTE is registered after its body has been visited, so a body can
// only see CTEs declared before it. Column references are resolved against
// the aliases bound by the enclosing FROM clauses and mark the CTE columns
// they reach as used.
func Collect(stmt *core.SelectStmt) *Model {
	c := &collector{model: NewModel()}
	if stmt != nil {
		c.with(stmt.With)
		c.body(stmt.Body, nil, true)
	}
	return c.model
}

type collector struct {
	model *Model
}

// statement visits a query and returns the output columns of its first
// set operation operand. final is set when the order of the rows it
// produces is observable: the outermost query or an ARRAY subquery.
func (c *collector) statement(stmt *core.SelectStmt, parent *Scope, final bool) []*ColumnDefinition {
	if stmt == nil {
		return nil
	}
	// A nested WITH is only visible inside stmt.
	if stmt.With != nil {
		defer c.model.restoreNames(c.model.saveNames(cteNames(stmt.With)))
	}
	c.with(stmt.With)
	return c.body(stmt.Body, parent, final)
}

func (c *collector) with(w *core.WithClause) {
	if w == nil {
		return
	}
	for _, cte := range w.CTEs {
		c.cte(cte)
	}
}

func cteNames(w *core.WithClause) []string {
	names := make([]string, 0, len(w.CTEs))
	for _, cte := range w.CTEs {
		names = append(names, cte.Name)
	}
	return names
}

func (c *collector) cte(cte *core.CTE) {
	var cols []*ColumnDefinition
	if !cte.Malformed {
		cols = c.statement(cte.Select, nil, false)
		renameColumns(cols, cte.Columns)
	}
	c.model.RegisterCTE(cte.Name, cte.NameSpan, cols)
}

// renameColumns applies an explicit CTE column list: name (a, b) AS (...).
func renameColumns(cols []*ColumnDefinition, names []string) {
	for i := 0; i < len(cols) && i < len(names); i++ {
		cols[i].Name = names[i]
		cols[i].Anonymous = false
		cols[i].IsStarExpansion = false
	}
}

func (c *collector) body(body *core.SelectBody, parent *Scope, final bool) []*ColumnDefinition {
	var out []*ColumnDefinition
	for b, first := body, true; b != nil; b, first = b.Right, false {
		var cols []*ColumnDefinition
		switch {
		case b.Nested != nil:
			// (SELECT ... ORDER BY x) standing alone keeps the caller's ordering.
			cols = c.statement(b.Nested, parent, final && first && b.Right == nil)
		case b.Left != nil:
			cols = c.selectCore(b.Left, parent, final)
		}
		if first {
			out = cols
		}
	}
	return out
}

func (c *collector) selectCore(sc *core.SelectCore, parent *Scope, final bool) []*ColumnDefinition {
	scope := c.model.PushScope(parent)

	if sc.From != nil {
		c.from(sc.From, scope)
	}
	c.mark(scope, sc.Where)
	for _, expr := range sc.GroupBy {
		c.mark(scope, expr)
	}
	c.mark(scope, sc.Having)
	for _, w := range sc.Windows {
		c.mark(scope, w.Spec)
	}
	c.mark(scope, sc.Qualify)

	// ORDER BY only shapes the result of the outermost query, or of a
	// block that keeps a subset of its rows.
	if final || sc.HasLimit() {
		for _, item := range sc.OrderBy {
			c.mark(scope, item.Expr)
		}
	}

	return c.selectList(sc, scope)
}

func (c *collector) from(from *core.FromClause, scope *Scope) {
	c.tableRef(from.Source, scope)
	for _, join := range from.Joins {
		c.tableRef(join.Right, scope)
		c.mark(scope, join.Condition)
		for _, col := range join.Using {
			c.markRef(scope, col)
		}
	}
}

func (c *collector) tableRef(ref core.TableRef, scope *Scope) {
	switch t := ref.(type) {
	case *core.TableName:
		alias := core.TableAlias(t)
		if t.Catalog == "" && t.Schema != "" {
			// FROM t, t.arr: an implicit UNNEST of a column of t.
			if _, ok := c.model.ResolveAlias(scope, t.Schema); ok {
				c.markRef(scope, &core.ColumnRef{Table: t.Schema, Column: t.Name})
				scope.Bind(alias, nil)
				return
			}
		}
		var cte *CteDefinition
		if t.Catalog == "" && t.Schema == "" {
			cte, _ = c.model.Lookup(t.Name)
		}
		scope.Bind(alias, cte)

	case *core.DerivedTable:
		c.statement(t.Select, scope, false)
		scope.Bind(t.Alias, nil)

	case *core.TableFunction:
		c.mark(scope, t.Func)
		scope.Bind(t.Alias, nil)
		scope.Bind(t.OffsetAlias, nil)

	case *core.PivotTable:
		inner := c.model.PushScope(scope)
		c.tableRef(t.Source, inner)
		for _, agg := range t.Aggregates {
			c.mark(inner, agg.Func)
		}
		c.mark(inner, t.ForColumn)
		for _, v := range t.InValues {
			c.mark(inner, v.Value)
		}
		// Every other input column is an implicit grouping key.
		c.markAll(inner)
		scope.Bind(t.Alias, nil)

	case *core.UnpivotTable:
		inner := c.model.PushScope(scope)
		c.tableRef(t.Source, inner)
		for _, group := range t.InColumns {
			for _, col := range group.Columns {
				c.markRef(inner, col)
			}
		}
		// The remaining input columns pass through to an untracked output.
		c.markAll(inner)
		scope.Bind(t.Alias, nil)
	}
}

// mark marks every column reference under node. Subqueries are visited in
// a child scope so that correlated references still resolve.
func (c *collector) mark(scope *Scope, node any) {
	ast.Walk(node, func(n any) bool {
		switch n := n.(type) {
		case *core.ColumnRef:
			c.markRef(scope, n)
		case *core.SubqueryExpr:
			// ARRAY(SELECT ... ORDER BY x) keeps the order in the array.
			c.statement(n.Select, scope, n.Array)
			return false
		case *core.SelectStmt:
			c.statement(n, scope, false)
			return false
		}
		return true
	})
}

func (c *collector) markRef(scope *Scope, ref *core.ColumnRef) {
	if ref.Table == "" {
		c.markBare(scope, ref.Column)
		return
	}
	if cte, ok := c.model.ResolveAlias(scope, ref.Table); ok {
		if cte != nil {
			markColumns(cte.columns(dialect.Fold(ref.Column)))
		}
		return
	}
	// Not an alias: the first segment is a struct column, the rest are fields.
	c.markBare(scope, ref.Table)
}

// markBare resolves an unqualified name. Every CTE bound in the innermost
// scope that has a matching column is marked; outer scopes are consulted
// only when nothing matches. A name that matches no column but an alias
// bound to a CTE reads the whole row, as in TO_JSON_STRING(s).
func (c *collector) markBare(scope *Scope, name string) {
	key := dialect.Fold(name)
	for sc := scope; sc != nil; sc = sc.parent {
		found := false
		for _, b := range sc.bindings {
			if b.target == opaque {
				continue
			}
			cols := c.model.ctes[b.target].columns(key)
			markColumns(cols)
			found = found || len(cols) > 0
		}
		if found {
			return
		}
		for _, b := range sc.bindings {
			if b.alias == key && b.target != opaque {
				markColumns(c.model.ctes[b.target].Columns)
				return
			}
		}
	}
}

// markAll marks every column of every CTE bound directly in scope.
func (c *collector) markAll(scope *Scope) {
	for _, b := range scope.bindings {
		if b.target != opaque {
			markColumns(c.model.ctes[b.target].Columns)
		}
	}
}

func markColumns(cols []*ColumnDefinition) {
	for _, col := range cols {
		col.markUsed()
	}
}

func (c *collector) selectList(sc *core.SelectCore, scope *Scope) []*ColumnDefinition {
	var (
		cols []*ColumnDefinition
		anon int
	)
	for _, item := range sc.Columns {
		switch {
		case item.Star:
			cols = append(cols, c.expandStar(scope, "", item)...)
		case item.TableStar != "":
			cols = append(cols, c.expandStar(scope, item.TableStar, item)...)
		default:
			c.mark(scope, item.Expr)
			cols = append(cols, defineColumn(item, &anon))
		}
	}
	return cols
}

// defineColumn names the output column of a non-star select item.
func defineColumn(item core.SelectItem, anon *int) *ColumnDefinition {
	col := &ColumnDefinition{Span: nodeSpan(item.Expr)}
	switch {
	case item.Alias != "":
		col.Name = item.Alias
	case implicitName(item.Expr) != "":
		col.Name = implicitName(item.Expr)
	default:
		col.Name = "f" + strconv.Itoa(*anon) + "_"
		col.Anonymous = true
		*anon++
	}
	return col
}

// implicitName is the output name BigQuery gives an unaliased expression,
// or "" when the column is anonymous.
func implicitName(expr core.Expr) string {
	switch e := expr.(type) {
	case *core.ColumnRef:
		if len(e.Fields) > 0 {
			return e.Fields[len(e.Fields)-1]
		}
		return e.Column
	case *core.FieldExpr:
		return e.Field
	}
	return ""
}

// expandStar marks the columns a star reads and mirrors them as output
// columns. An empty table expands every CTE bound in the current scope.
func (c *collector) expandStar(scope *Scope, table string, item core.SelectItem) []*ColumnDefinition {
	except := make(map[string]bool)
	replaced := make(map[string]bool)
	for _, mod := range item.Modifiers {
		switch m := mod.(type) {
		case *core.ExceptModifier:
			for _, name := range m.Columns {
				except[dialect.Fold(name)] = true
			}
		case *core.ReplaceModifier:
			for _, r := range m.Items {
				c.mark(scope, r.Expr)
				replaced[dialect.Fold(r.Alias)] = true
			}
		}
	}

	var sources []*CteDefinition
	if table == "" {
		for _, b := range scope.bindings {
			if b.target != opaque {
				sources = append(sources, c.model.ctes[b.target])
			}
		}
	} else if cte, _ := c.model.ResolveAlias(scope, table); cte != nil {
		sources = append(sources, cte)
	}

	var out []*ColumnDefinition
	for _, src := range sources {
		for _, col := range src.Columns {
			if except[col.key] {
				continue
			}
			if !replaced[col.key] {
				col.markUsed()
			}
			out = append(out, &ColumnDefinition{
				Name:            col.Name,
				Span:            item.Span,
				IsStarExpansion: true,
			})
		}
	}
	return out
}

func nodeSpan(n core.Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return token.Span{Start: n.Pos(), End: n.End()}
}
