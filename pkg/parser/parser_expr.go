package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Expression precedence parsing using a Pratt parser with dialect-aware precedence.
//
// Precedence levels (from core):
//
//	PrecedenceOr         = 1
//	PrecedenceAnd        = 2
//	PrecedenceNot        = 3
//	PrecedenceComparison = 4  (=, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE)
//	PrecedenceBitOr      = 5  (|)
//	PrecedenceBitXor     = 6  (^)
//	PrecedenceBitAnd     = 7  (&)
//	PrecedenceShift      = 8  (<<, >>)
//	PrecedenceAddition   = 9  (+, -)
//	PrecedenceMultiply   = 10 (*, /, %, ||)
//	PrecedenceUnary      = 11 (-, +, ~)
//	PrecedencePostfix    = 12 ([], .)
//
// The parser looks operators up through dialect.Precedence() and delegates to
// dialect infix handlers when one is registered (array subscripts in BigQuery).

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpr(core.PrecedenceNone)
}

// parseExpr parses operators binding tighter than prec.
func (p *Parser) parseExpr(prec int) core.Expr {
	mark := len(p.errors)
	left := p.parsePrefixExpr()
	if left == nil || p.failed(mark) {
		return left
	}

	for !p.failed(mark) {
		t := p.token.Type

		if t == token.NOT {
			// NOT IN / NOT LIKE / NOT BETWEEN
			switch p.peekN(1).Type {
			case token.IN, token.LIKE, token.BETWEEN:
				if core.PrecedenceComparison <= prec {
					return left
				}
				p.nextToken()
				left = p.parseInfixExpr(left, core.PrecedenceComparison, true)
				continue
			}
			return left
		}

		if t == token.DOT {
			if core.PrecedencePostfix <= prec {
				return left
			}
			left = p.parseFieldAccess(left)
			continue
		}

		opPrec := p.dialect.Precedence(t)
		if opPrec == core.PrecedenceNone || opPrec <= prec {
			return left
		}
		left = p.parseInfixExpr(left, opPrec, false)
	}

	return left
}

// parseInfixExpr parses the operator at the current token applied to left.
func (p *Parser) parseInfixExpr(left core.Expr, prec int, not bool) core.Expr {
	start := left.Pos()
	op := p.token.Type

	switch op {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, not)

	case token.LIKE:
		p.nextToken()
		like := &core.LikeExpr{Expr: left, Not: not}
		like.Pattern = p.parseExpr(core.PrecedenceComparison)
		like.Span = p.spanFrom(start)
		return like

	case token.BETWEEN:
		p.nextToken()
		between := &core.BetweenExpr{Expr: left, Not: not}
		between.Low = p.parseExpr(core.PrecedenceComparison)
		p.expect(token.AND)
		between.High = p.parseExpr(core.PrecedenceComparison)
		between.Span = p.spanFrom(start)
		return between

	case token.IS:
		p.nextToken()
		return p.parseIsExpr(left)
	}

	if handler := p.dialect.InfixHandler(op); handler != nil {
		p.nextToken()
		expr, err := handler(p, left)
		if err != nil {
			p.errors = append(p.errors, err)
			return left
		}
		return expr
	}

	p.nextToken()
	bin := &core.BinaryExpr{Left: left, Op: op}
	bin.Right = p.parseExpr(prec)
	if bin.Right == nil {
		return left
	}
	bin.Span = p.spanFrom(start)
	return bin
}

// parseInExpr parses the right side of [NOT] IN.
//
//	in_expr → IN "(" statement ")" | IN "(" expr_list ")" | IN UNNEST "(" expr ")"
func (p *Parser) parseInExpr(left core.Expr, not bool) core.Expr {
	start := left.Pos()
	in := &core.InExpr{Expr: left, Not: not}

	if p.check(token.IDENT) && strings.EqualFold(p.token.Literal, "UNNEST") && p.checkPeek(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		in.Unnest = p.parseExpression()
		p.expect(token.RPAREN)
		in.Span = p.spanFrom(start)
		return in
	}

	if !p.expect(token.LPAREN) {
		return in
	}
	if p.startsQuery(p.idx) {
		in.Query = p.parseStatement()
	} else {
		in.Values = p.parseExpressionList()
	}
	p.expect(token.RPAREN)

	in.Span = p.spanFrom(start)
	return in
}

// parseIsExpr parses IS [NOT] NULL|TRUE|FALSE and IS [NOT] DISTINCT FROM.
func (p *Parser) parseIsExpr(left core.Expr) core.Expr {
	start := left.Pos()
	not := p.match(token.NOT)

	switch {
	case p.match(token.NULL):
		e := &core.IsNullExpr{Expr: left, Not: not}
		e.Span = p.spanFrom(start)
		return e
	case p.check(token.TRUE), p.check(token.FALSE):
		e := &core.IsBoolExpr{Expr: left, Not: not, Value: p.check(token.TRUE)}
		p.nextToken()
		e.Span = p.spanFrom(start)
		return e
	case p.match(token.DISTINCT):
		p.expect(token.FROM)
		op := token.EQ
		if !not {
			op = token.NE
		}
		bin := &core.BinaryExpr{Left: left, Op: op}
		bin.Right = p.parseExpr(core.PrecedenceComparison)
		bin.Span = p.spanFrom(start)
		return bin
	}

	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "NULL, TRUE, FALSE or DISTINCT"))
	return left
}

// parseFieldAccess parses expr.field on a non-path expression, e.g. (s).a or arr[OFFSET(0)].b.
func (p *Parser) parseFieldAccess(left core.Expr) core.Expr {
	start := left.Pos()
	p.nextToken() // .

	if p.check(token.STAR) {
		p.nextToken()
		star := &core.StarExpr{}
		star.Span = p.spanFrom(start)
		return star
	}

	name, err := p.ParseIdentifier()
	if err != nil {
		p.errors = append(p.errors, err)
		return left
	}
	field := &core.FieldExpr{Expr: left, Field: name}
	field.Span = p.spanFrom(start)
	return field
}

// startsQuery reports whether the tokens at i begin a query: SELECT, WITH, or
// a parenthesised query followed by a set operation.
func (p *Parser) startsQuery(i int) bool {
	if i >= len(p.tokens) {
		return false
	}
	switch p.tokens[i].Type {
	case token.SELECT, token.WITH:
		return true
	case token.LPAREN:
		if !p.startsQuery(i + 1) {
			return false
		}
		closeIdx, ok := p.matchingParen(i)
		return ok && closeIdx+1 < len(p.tokens) && isSetOp(p.tokens[closeIdx+1].Type)
	}
	return false
}
