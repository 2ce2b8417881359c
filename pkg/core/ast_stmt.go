package core

import "github.com/leapstack-labs/bqlint/pkg/token"

// ---------- Statement Types ----------

// SelectStmt represents a complete query with optional WITH clause.
type SelectStmt struct {
	NodeInfo
	With *WithClause
	Body *SelectBody
}

func (*SelectStmt) stmtNode() {}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	NodeInfo
	Recursive bool
	CTEs      []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	NodeInfo
	Name     string
	NameSpan token.Span
	Columns  []string // optional column list: name (a, b) AS (...)
	Select   *SelectStmt

	// Malformed is set when the body failed to parse. Select is nil in that case.
	Malformed bool
}

// SelectBody represents the body of a query with possible set operations.
// Exactly one of Left and Nested is set.
type SelectBody struct {
	NodeInfo
	Left   *SelectCore
	Nested *SelectStmt // parenthesised operand: (SELECT ...) UNION ALL ...
	Op     SetOpType
	All    bool        // UNION ALL
	Right  *SelectBody // For chained set operations
}

// SetOpType represents the type of set operation.
type SetOpType string

// SetOpType constants for set operations in queries.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore represents one SELECT ... FROM ... block.
type SelectCore struct {
	NodeInfo
	Distinct   bool
	AsKind     string // "STRUCT" or "VALUE" for SELECT AS STRUCT / AS VALUE
	Columns    []SelectItem
	From       *FromClause
	Where      Expr
	GroupBy    []Expr
	Having     Expr
	Windows    []WindowDef
	Qualify    Expr
	OrderBy    []OrderByItem
	OrderByPos token.Position // position of the ORDER keyword
	Limit      Expr
	Offset     Expr

	// Extensions holds dialect-specific clause results without a typed slot.
	Extensions []Node
}

// HasLimit reports whether the core carries LIMIT or OFFSET.
func (c *SelectCore) HasLimit() bool {
	return c != nil && (c.Limit != nil || c.Offset != nil)
}

// WindowDef represents a named window definition in the WINDOW clause.
type WindowDef struct {
	Name string
	Spec *WindowSpec
}

// SelectItem represents an item in the SELECT list.
type SelectItem struct {
	NodeInfo
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
	AliasSpan token.Span
	Modifiers []StarModifier // * EXCEPT (...), * REPLACE (...)
}

// IsStar reports whether the item is * or t.*.
func (s *SelectItem) IsStar() bool {
	return s.Star || s.TableStar != ""
}

// FromClause represents the FROM clause.
type FromClause struct {
	NodeInfo
	Source TableRef
	Joins  []*Join
}

// Join represents a JOIN clause.
type Join struct {
	NodeInfo
	Type      JoinType
	Natural   bool
	Right     TableRef
	Condition Expr         // ON clause (mutually exclusive with Using)
	Using     []*ColumnRef // USING (col1, col2)
}

// JoinType is the SQL keyword of a join (e.g. "LEFT", "INNER").
type JoinType string

// JoinComma represents an implicit cross join using comma syntax.
const JoinComma JoinType = ","

// OrderByItem represents an item in an ORDER BY list.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil means default, true = NULLS FIRST, false = NULLS LAST
}
