package parser

import (
	"fmt"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// spi.ParserOps implementation. Dialect handlers drive the parser through
// these methods; each reports the first error recorded during the call.

var _ spi.ParserOps = (*Parser)(nil)

// Token returns the current token.
func (p *Parser) Token() token.Token {
	return p.token
}

// Peek returns the lookahead token.
func (p *Parser) Peek() token.Token {
	return p.peekN(1)
}

// Match consumes the current token if it matches.
func (p *Parser) Match(t token.TokenType) bool {
	return p.match(t)
}

// Expect consumes the current token if it matches, otherwise returns an error.
func (p *Parser) Expect(t token.TokenType) error {
	if p.check(t) {
		p.nextToken()
		return nil
	}
	return &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t),
	}
}

// NextToken advances to the next token.
func (p *Parser) NextToken() {
	p.nextToken()
}

// Check returns true if the current token is of the given type.
func (p *Parser) Check(t token.TokenType) bool {
	return p.check(t)
}

// firstSince returns the first error recorded after mark, or nil.
func (p *Parser) firstSince(mark int) error {
	if len(p.errors) > mark {
		return p.errors[mark]
	}
	return nil
}

// ParseExpression parses an expression.
func (p *Parser) ParseExpression() (core.Expr, error) {
	mark := len(p.errors)
	expr := p.parseExpression()
	if err := p.firstSince(mark); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseExpressionList parses a comma-separated list of expressions.
func (p *Parser) ParseExpressionList() ([]core.Expr, error) {
	mark := len(p.errors)
	exprs := p.parseExpressionList()
	if err := p.firstSince(mark); err != nil {
		return nil, err
	}
	return exprs, nil
}

// ParseOrderByList parses an ORDER BY list.
func (p *Parser) ParseOrderByList() ([]core.OrderByItem, error) {
	mark := len(p.errors)
	items := p.parseOrderByList()
	if err := p.firstSince(mark); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseIdentifier parses a single identifier. Keywords are accepted in
// identifier position.
func (p *Parser) ParseIdentifier() (string, error) {
	if isWord(p.token) {
		name := p.token.Literal
		p.nextToken()
		return name, nil
	}
	return "", &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.IDENT),
	}
}

// ParseColumnRef parses a possibly qualified column reference.
func (p *Parser) ParseColumnRef() (*core.ColumnRef, error) {
	if !isWord(p.token) {
		return nil, &ParseError{
			Pos:     p.token.Pos,
			Message: fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.IDENT),
		}
	}
	start := p.token.Pos
	path := p.parsePath()
	return columnRefFromPath(path, p.spanFrom(start)), nil
}

// ParseTypeName parses a type such as INT64, NUMERIC(10, 2) or
// ARRAY<STRUCT<a INT64, b STRING>>.
func (p *Parser) ParseTypeName() (string, error) {
	mark := len(p.errors)
	name := p.parseTypeName()
	if err := p.firstSince(mark); err != nil {
		return "", err
	}
	return name, nil
}

// ParseQuery parses a nested query (WITH ... SELECT ...).
func (p *Parser) ParseQuery() (*core.SelectStmt, error) {
	mark := len(p.errors)
	stmt := p.parseStatement()
	if err := p.firstSince(mark); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseWindowSpec parses a parenthesised window specification.
func (p *Parser) ParseWindowSpec() (*core.WindowSpec, error) {
	mark := len(p.errors)
	spec := p.parseWindowSpec()
	if err := p.firstSince(mark); err != nil {
		return nil, err
	}
	return spec, nil
}

// AddError adds a parse error.
func (p *Parser) AddError(msg string) {
	p.addError(msg)
}

// Position returns the current token's position.
func (p *Parser) Position() token.Position {
	return p.token.Pos
}

// PrevEnd returns the end position of the last consumed token.
func (p *Parser) PrevEnd() token.Position {
	return p.prevEnd()
}
