package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Primary expression parsing: literals, names, function calls, unary operators.
//
// Grammar:
//
//	primary     → NUMBER | STRING | TRUE | FALSE | NULL
//	            | type_name STRING                    -- typed literal: DATE '2024-01-01'
//	            | path ["." "*"]                      -- column reference / struct path
//	            | path "(" args ")" [OVER window]     -- function call
//	            | ("-" | "+" | "~" | NOT) expr
//	            | "(" expr ["," expr]* ")" | "(" statement ")"
//	            | CASE | CAST | EXTRACT | INTERVAL | EXISTS
//	            | dialect prefix                      -- [..], ARRAY(..), STRUCT(..)
//	path        → segment ("." segment)*

// typedLiteralTypes are the type names that may prefix a string literal.
var typedLiteralTypes = map[string]bool{
	"DATE":       true,
	"DATETIME":   true,
	"TIME":       true,
	"TIMESTAMP":  true,
	"NUMERIC":    true,
	"BIGNUMERIC": true,
	"JSON":       true,
}

// pathSegment is one dotted name component.
type pathSegment struct {
	name   string
	quoted bool
	span   token.Span
}

// parsePrefixExpr parses prefix and primary expressions.
func (p *Parser) parsePrefixExpr() core.Expr {
	tok := p.token
	start := tok.Pos

	if handler := p.dialect.PrefixHandler(tok.Type); handler != nil {
		expr, err := handler(p)
		if err != nil {
			p.errors = append(p.errors, err)
			return nil
		}
		return expr
	}

	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		return literal(tok, core.LiteralNumber, "")
	case token.STRING:
		p.nextToken()
		return literal(tok, core.LiteralString, "")
	case token.TRUE, token.FALSE:
		p.nextToken()
		return literal(tok, core.LiteralBool, "")
	case token.NULL:
		p.nextToken()
		return literal(tok, core.LiteralNull, "")

	case token.MINUS, token.PLUS, token.TILDE:
		p.nextToken()
		operand := p.parseExpr(core.PrecedenceUnary)
		if operand == nil {
			return nil
		}
		u := &core.UnaryExpr{Op: tok.Type, Expr: operand}
		u.Span = p.spanFrom(start)
		return u

	case token.NOT:
		p.nextToken()
		operand := p.parseExpr(core.PrecedenceNot)
		if operand == nil {
			return nil
		}
		u := &core.UnaryExpr{Op: token.NOT, Expr: operand}
		u.Span = p.spanFrom(start)
		return u

	case token.LPAREN:
		return p.parseParenExpr()
	case token.CASE:
		return p.parseCaseExpr()
	case token.CAST:
		p.nextToken()
		return p.parseCastArgs(start, false)
	case token.EXTRACT:
		return p.parseExtractExpr()
	case token.INTERVAL:
		return p.parseIntervalExpr()
	case token.EXISTS:
		return p.parseExistsExpr()

	case token.STAR:
		p.nextToken()
		star := &core.StarExpr{}
		star.Span = p.spanFrom(start)
		return star
	}

	if p.isNameStart(tok) || (callableKeywords[tok.Type] && p.checkPeek(token.LPAREN)) {
		return p.parseNameExpr()
	}

	p.addError(fmt.Sprintf(ErrUnexpectedInput, describe(tok)))
	return nil
}

func literal(tok token.Token, typ core.LiteralType, typeName string) *core.Literal {
	lit := &core.Literal{Type: typ, Value: tok.Literal, TypeName: typeName}
	lit.Span = tok.Span()
	return lit
}

// parseNameExpr parses a column reference, a struct path, path.* or a function call.
func (p *Parser) parseNameExpr() core.Expr {
	start := p.token.Pos
	path := p.parsePath()

	if len(path) == 1 && !path[0].quoted && p.check(token.STRING) {
		if typeName := strings.ToUpper(path[0].name); typedLiteralTypes[typeName] {
			tok := p.token
			p.nextToken()
			lit := literal(tok, core.LiteralString, typeName)
			lit.Span = p.spanFrom(start)
			return lit
		}
	}

	if p.check(token.LPAREN) {
		if len(path) == 1 && strings.EqualFold(path[0].name, "SAFE_CAST") {
			return p.parseCastArgs(start, true)
		}
		return p.parseFunctionCall(start, path)
	}

	if p.check(token.DOT) && p.checkPeek(token.STAR) {
		p.nextToken()
		p.nextToken()
		star := &core.StarExpr{Table: joinPath(path)}
		star.Span = p.spanFrom(start)
		return star
	}

	return columnRefFromPath(path, p.spanFrom(start))
}

// parsePath parses segment ("." segment)*. A backtick identifier holding
// dots contributes one segment per dotted part.
func (p *Parser) parsePath() []pathSegment {
	var path []pathSegment
	for {
		tok := p.token
		if tok.Quoted && strings.Contains(tok.Literal, ".") {
			for _, part := range strings.Split(tok.Literal, ".") {
				path = append(path, pathSegment{name: part, quoted: true, span: tok.Span()})
			}
		} else {
			path = append(path, pathSegment{name: tok.Literal, quoted: tok.Quoted, span: tok.Span()})
		}
		p.nextToken()

		if !p.check(token.DOT) || !isWord(p.peekN(1)) {
			return path
		}
		p.nextToken() // .
	}
}

func joinPath(path []pathSegment) string {
	names := make([]string, len(path))
	for i, seg := range path {
		names[i] = seg.name
	}
	return strings.Join(names, ".")
}

// columnRefFromPath maps a path onto a ColumnRef. For a.b.c the first segment
// becomes the qualifier and the rest are struct fields; consumers decide
// whether the qualifier names a table alias.
func columnRefFromPath(path []pathSegment, span token.Span) *core.ColumnRef {
	ref := &core.ColumnRef{}
	ref.Span = span
	switch len(path) {
	case 0:
	case 1:
		ref.Column = path[0].name
	default:
		ref.Table = path[0].name
		ref.Column = path[1].name
		for _, seg := range path[2:] {
			ref.Fields = append(ref.Fields, seg.name)
		}
	}
	return ref
}

// parseParenExpr parses a parenthesised expression, tuple or subquery.
func (p *Parser) parseParenExpr() core.Expr {
	start := p.token.Pos

	if p.startsQuery(p.idx + 1) {
		p.nextToken()
		sub := &core.SubqueryExpr{Select: p.parseStatement()}
		p.expect(token.RPAREN)
		sub.Span = p.spanFrom(start)
		return sub
	}

	p.nextToken()
	first := p.parseExpression()
	if first == nil {
		return nil
	}

	if p.check(token.COMMA) {
		tuple := &core.StructLiteral{Fields: []core.StructField{{Value: first}}}
		for p.match(token.COMMA) {
			tuple.Fields = append(tuple.Fields, core.StructField{Value: p.parseExpression()})
		}
		p.expect(token.RPAREN)
		tuple.Span = p.spanFrom(start)
		return tuple
	}

	p.expect(token.RPAREN)
	paren := &core.ParenExpr{Expr: first}
	paren.Span = p.spanFrom(start)
	return paren
}
