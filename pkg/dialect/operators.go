package dialect

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ANSIOperators contains standard SQL operators with their precedence.
var ANSIOperators = []core.OperatorDef{
	// Logical operators (lowest precedence)
	{Token: token.OR, Precedence: core.PrecedenceOr},
	{Token: token.AND, Precedence: core.PrecedenceAnd},

	// Comparison operators
	{Token: token.EQ, Precedence: core.PrecedenceComparison},
	{Token: token.NE, Precedence: core.PrecedenceComparison},
	{Token: token.LT, Precedence: core.PrecedenceComparison},
	{Token: token.GT, Precedence: core.PrecedenceComparison},
	{Token: token.LE, Precedence: core.PrecedenceComparison},
	{Token: token.GE, Precedence: core.PrecedenceComparison},
	{Token: token.LIKE, Precedence: core.PrecedenceComparison},
	{Token: token.IN, Precedence: core.PrecedenceComparison},
	{Token: token.BETWEEN, Precedence: core.PrecedenceComparison},
	{Token: token.IS, Precedence: core.PrecedenceComparison},

	// Arithmetic operators
	{Token: token.PLUS, Precedence: core.PrecedenceAddition},
	{Token: token.MINUS, Precedence: core.PrecedenceAddition},

	// Multiplicative operators
	{Token: token.STAR, Precedence: core.PrecedenceMultiply},
	{Token: token.SLASH, Precedence: core.PrecedenceMultiply},
	{Token: token.PERCENT, Precedence: core.PrecedenceMultiply},
	{Token: token.DPIPE, Precedence: core.PrecedenceMultiply},
}

// BitwiseOperators contains the bitwise operators most engines share.
var BitwiseOperators = []core.OperatorDef{
	{Token: token.PIPE, Precedence: core.PrecedenceBitOr},
	{Token: token.CARET, Precedence: core.PrecedenceBitXor},
	{Token: token.AMP, Precedence: core.PrecedenceBitAnd},
	{Token: token.LSHIFT, Precedence: core.PrecedenceShift},
	{Token: token.RSHIFT, Precedence: core.PrecedenceShift},
}
