// Package spi provides the Service Provider Interface that dialect
// handlers use to drive the parser without importing it.
package spi

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ParserOps exposes parser operations to dialect handlers.
type ParserOps interface {
	// Token access
	Token() token.Token
	Peek() token.Token

	// Consumption
	Match(t token.TokenType) bool
	Expect(t token.TokenType) error
	NextToken()
	Check(t token.TokenType) bool

	// Sub-parsers
	ParseExpression() (core.Expr, error)
	ParseExpressionList() ([]core.Expr, error)
	ParseOrderByList() ([]core.OrderByItem, error)
	ParseIdentifier() (string, error)
	ParseColumnRef() (*core.ColumnRef, error)
	ParseTypeName() (string, error)
	ParseQuery() (*core.SelectStmt, error)
	ParseWindowSpec() (*core.WindowSpec, error)

	// Error handling
	AddError(msg string)
	Position() token.Position
	// PrevEnd returns the end position of the last consumed token.
	PrevEnd() token.Position
}

// ClauseHandler parses a dialect clause.
// Called AFTER the clause keyword has been consumed.
type ClauseHandler func(p ParserOps) (any, error)

// InfixHandler parses a dialect infix operator.
// Called AFTER the operator has been consumed; left is the parsed left operand.
type InfixHandler func(p ParserOps, left core.Expr) (core.Expr, error)

// PrefixHandler parses a dialect prefix construct.
// Called with the trigger token still current, so handlers can record its position.
type PrefixHandler func(p ParserOps) (core.Expr, error)

// StarModifierHandler parses a star modifier such as EXCEPT or REPLACE.
// Called AFTER the modifier keyword has been consumed.
type StarModifierHandler func(p ParserOps) (core.StarModifier, error)

// FromItemHandler parses a FROM item suffix such as PIVOT or UNPIVOT.
// Called AFTER the keyword has been consumed; source is the table it applies to.
type FromItemHandler func(p ParserOps, source core.TableRef) (core.TableRef, error)

// ClauseSlot is re-exported from core for handler signatures.
type ClauseSlot = core.ClauseSlot

// Slot constants re-exported from core.
const (
	SlotWhere      = core.SlotWhere
	SlotGroupBy    = core.SlotGroupBy
	SlotHaving     = core.SlotHaving
	SlotWindow     = core.SlotWindow
	SlotOrderBy    = core.SlotOrderBy
	SlotLimit      = core.SlotLimit
	SlotOffset     = core.SlotOffset
	SlotQualify    = core.SlotQualify
	SlotExtensions = core.SlotExtensions
)

// Precedence constants re-exported from core.
const (
	PrecedenceNone       = core.PrecedenceNone
	PrecedenceOr         = core.PrecedenceOr
	PrecedenceAnd        = core.PrecedenceAnd
	PrecedenceNot        = core.PrecedenceNot
	PrecedenceComparison = core.PrecedenceComparison
	PrecedenceBitOr      = core.PrecedenceBitOr
	PrecedenceBitXor     = core.PrecedenceBitXor
	PrecedenceBitAnd     = core.PrecedenceBitAnd
	PrecedenceShift      = core.PrecedenceShift
	PrecedenceAddition   = core.PrecedenceAddition
	PrecedenceMultiply   = core.PrecedenceMultiply
	PrecedenceUnary      = core.PrecedenceUnary
	PrecedencePostfix    = core.PrecedencePostfix
)
