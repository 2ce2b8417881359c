package core

import (
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ---------- Expression Types ----------

// ColumnRef represents a column reference, possibly qualified.
// For a.b.c the parser sets Table=a, Column=b, Fields=[c]; whether a names a
// table alias or a struct column is decided by consumers.
type ColumnRef struct {
	NodeInfo
	Table  string
	Column string
	Fields []string
}

func (*ColumnRef) exprNode() {}

// Name returns the column name as written, qualifier included.
func (c *ColumnRef) Name() string {
	parts := make([]string, 0, 2+len(c.Fields))
	if c.Table != "" {
		parts = append(parts, c.Table)
	}
	parts = append(parts, c.Column)
	parts = append(parts, c.Fields...)
	return strings.Join(parts, ".")
}

// Literal represents a literal value.
type Literal struct {
	NodeInfo
	Type     LiteralType
	Value    string
	TypeName string // DATE, TIMESTAMP, JSON, ... for typed literals
}

func (*Literal) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for SQL literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	NodeInfo
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call.
type FuncCall struct {
	NodeInfo
	Name         string // upper-cased, without SAFE. prefix
	Safe         bool   // SAFE.FUNC(...)
	Distinct     bool
	Args         []Expr
	Star         bool          // COUNT(*)
	NullHandling string        // "IGNORE NULLS" or "RESPECT NULLS"
	OrderBy      []OrderByItem // ARRAY_AGG(x ORDER BY y)
	Limit        Expr          // ARRAY_AGG(x LIMIT n)
	Window       *WindowSpec   // OVER clause
}

func (*FuncCall) exprNode() {}

// WindowSpec represents a window specification (OVER clause).
type WindowSpec struct {
	NodeInfo
	Name        string // Named window reference
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       *FrameSpec
}

// FrameSpec represents a window frame specification.
type FrameSpec struct {
	Type  FrameType
	Start *FrameBound
	End   *FrameBound
}

// FrameType represents the type of window frame.
type FrameType string

// FrameType constants for window frame specification types.
const (
	FrameRows   FrameType = "ROWS"
	FrameRange  FrameType = "RANGE"
	FrameGroups FrameType = "GROUPS"
)

// FrameBound represents a window frame bound.
type FrameBound struct {
	Type   FrameBoundType
	Offset Expr // for N PRECEDING/FOLLOWING
}

// FrameBoundType represents the type of frame bound.
type FrameBoundType string

// FrameBoundType constants for window frame bound types.
const (
	FrameUnboundedPreceding FrameBoundType = "UNBOUNDED PRECEDING"
	FrameUnboundedFollowing FrameBoundType = "UNBOUNDED FOLLOWING"
	FrameCurrentRow         FrameBoundType = "CURRENT ROW"
	FrameExprPreceding      FrameBoundType = "EXPR PRECEDING"
	FrameExprFollowing      FrameBoundType = "EXPR FOLLOWING"
)

// CaseExpr represents a CASE expression.
type CaseExpr struct {
	NodeInfo
	Operand Expr // CASE operand WHEN ... (optional)
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause represents a WHEN clause in CASE.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr represents CAST(expr AS type) and SAFE_CAST(expr AS type).
type CastExpr struct {
	NodeInfo
	Expr     Expr
	TypeName string
	Safe     bool
}

func (*CastExpr) exprNode() {}

// InExpr represents expr [NOT] IN (values | subquery | UNNEST(array)).
type InExpr struct {
	NodeInfo
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
	Unnest Expr
}

func (*InExpr) exprNode() {}

// BetweenExpr represents expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// IsNullExpr represents expr IS [NOT] NULL.
type IsNullExpr struct {
	NodeInfo
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// IsBoolExpr represents expr IS [NOT] TRUE/FALSE.
type IsBoolExpr struct {
	NodeInfo
	Expr  Expr
	Not   bool
	Value bool
}

func (*IsBoolExpr) exprNode() {}

// LikeExpr represents expr [NOT] LIKE pattern.
type LikeExpr struct {
	NodeInfo
	Expr    Expr
	Not     bool
	Pattern Expr
}

func (*LikeExpr) exprNode() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	NodeInfo
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// StarExpr represents * or t.* used as an expression, e.g. COUNT(t.*).
type StarExpr struct {
	NodeInfo
	Table string
}

func (*StarExpr) exprNode() {}

// SubqueryExpr represents a scalar subquery or ARRAY(subquery).
type SubqueryExpr struct {
	NodeInfo
	Select *SelectStmt
	Array  bool
}

func (*SubqueryExpr) exprNode() {}

// ExistsExpr represents [NOT] EXISTS (subquery).
type ExistsExpr struct {
	NodeInfo
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) exprNode() {}

// StructLiteral represents STRUCT(a AS x, b) or STRUCT<x INT64>(1).
type StructLiteral struct {
	NodeInfo
	TypeName string
	Fields   []StructField
}

func (*StructLiteral) exprNode() {}

// StructField represents a field in a struct literal.
type StructField struct {
	Name  string
	Value Expr
}

// ArrayLiteral represents [a, b] or ARRAY<T>[a, b].
type ArrayLiteral struct {
	NodeInfo
	TypeName string
	Elements []Expr
}

func (*ArrayLiteral) exprNode() {}

// IndexExpr represents an array subscript: arr[OFFSET(0)], arr[SAFE_ORDINAL(1)], arr[0].
type IndexExpr struct {
	NodeInfo
	Expr  Expr
	Index Expr
	Mode  string // OFFSET, SAFE_OFFSET, ORDINAL, SAFE_ORDINAL or empty
}

func (*IndexExpr) exprNode() {}

// FieldExpr represents field access on a non-column expression: (expr).field.
type FieldExpr struct {
	NodeInfo
	Expr  Expr
	Field string
}

func (*FieldExpr) exprNode() {}

// ExtractExpr represents EXTRACT(part FROM expr).
type ExtractExpr struct {
	NodeInfo
	Part string
	Expr Expr
}

func (*ExtractExpr) exprNode() {}

// IntervalExpr represents INTERVAL value unit [TO unit].
type IntervalExpr struct {
	NodeInfo
	Value  Expr
	Unit   string
	ToUnit string
}

func (*IntervalExpr) exprNode() {}
