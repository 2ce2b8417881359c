// Package parser provides BigQuery SQL parsing with dialect-aware syntax.
//
// # Usage
//
//	stmt, err := parser.ParseWithDialect("SELECT a, b FROM t", bigquery.BigQuery)
//	if err != nil {
//	    // handle error
//	}
//
// A script with several statements separated by semicolons is parsed with
// ParseFile, which also returns the comments found in the source.
//
// # Grammar Overview
//
//	statement     → [WITH cte_list] select_body
//	select_body   → (select_core | "(" statement ")") [set_op select_body]
//	select_core   → SELECT [DISTINCT|ALL] [AS STRUCT|AS VALUE] select_list
//	                [FROM from_clause] [clauses based on dialect sequence]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Parser parses SQL into an AST.
//
// The whole input is tokenized up front so that a malformed CTE body can be
// skipped by jumping to its matching closing parenthesis.
type Parser struct {
	tokens   []token.Token
	idx      int
	token    token.Token // current token
	comments []*token.Comment
	dialect  *dialect.Dialect

	errors    []error // errors that abort the current statement
	recovered []error // errors inside CTE bodies the parser skipped over
}

// File is the result of parsing a script of one or more statements.
type File struct {
	Statements []*core.SelectStmt
	Comments   []*token.Comment
}

// NewParser creates a new parser for the given SQL input.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	l := NewLexer(sql, d)
	p := &Parser{dialect: d}
	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	p.comments = l.Comments
	for _, err := range l.Errors {
		p.errors = append(p.errors, err)
	}
	p.token = p.tokens[0]
	return p
}

// ParseWithDialect parses a single statement.
//
// When the only errors were inside CTE bodies the parser recovered from, the
// statement is returned together with the first of those errors; the
// affected CTEs are marked Malformed.
func ParseWithDialect(sql string, d *dialect.Dialect) (*core.SelectStmt, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	p := NewParser(sql, d)
	stmt := p.parseStatement()
	p.match(token.SEMI)
	if !p.check(token.EOF) && len(p.errors) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedInput, describe(p.token)))
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if len(p.recovered) > 0 {
		return stmt, p.recovered[0]
	}
	return stmt, nil
}

// ParseFile parses a script of semicolon-separated statements.
//
// Error semantics follow ParseWithDialect: a fatal error returns a nil File,
// a recovered error returns the File together with the error.
func ParseFile(sql string, d *dialect.Dialect) (*File, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	p := NewParser(sql, d)
	file := &File{Comments: p.comments}

	for len(p.errors) == 0 {
		for p.match(token.SEMI) {
		}
		if p.check(token.EOF) {
			break
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			break
		}
		file.Statements = append(file.Statements, stmt)
		if !p.check(token.EOF) && !p.check(token.SEMI) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.SEMI))
		}
	}

	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if len(p.recovered) > 0 {
		return file, p.recovered[0]
	}
	return file, nil
}

// ParseAll parses a script and returns its statements.
func ParseAll(sql string, d *dialect.Dialect) ([]*core.SelectStmt, error) {
	file, err := ParseFile(sql, d)
	if file == nil {
		return nil, err
	}
	return file.Statements, err
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Comments returns the comments collected while lexing.
func (p *Parser) Comments() []*token.Comment {
	return p.comments
}

// ---------- Token Helpers ----------

// nextToken advances to the next token. EOF is sticky.
func (p *Parser) nextToken() {
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	p.token = p.tokens[p.idx]
}

// seek moves the cursor to the token at index i.
func (p *Parser) seek(i int) {
	if i > len(p.tokens)-1 {
		i = len(p.tokens) - 1
	}
	p.idx = i
	p.token = p.tokens[i]
}

// peekN returns the token n positions ahead of the current one.
func (p *Parser) peekN(n int) token.Token {
	if p.idx+n < len(p.tokens) {
		return p.tokens[p.idx+n]
	}
	return p.tokens[len(p.tokens)-1]
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peekN(1).Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether errors were recorded since mark.
func (p *Parser) failed(mark int) bool {
	return len(p.errors) > mark
}

// prevEnd returns the end of the last consumed token.
func (p *Parser) prevEnd() token.Position {
	if p.idx == 0 {
		return p.token.Pos
	}
	return p.tokens[p.idx-1].End
}

// spanFrom builds a span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd()}
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// ---------- Keyword Helpers ----------

// isSetOp returns true if token starts a set operation.
func isSetOp(t token.TokenType) bool {
	switch t {
	case token.UNION, token.INTERSECT, token.EXCEPT:
		return true
	}
	return false
}

// isWord returns true for any token that can appear as a path segment after
// a dot: identifiers and keywords alike.
func isWord(tok token.Token) bool {
	return tok.Type == token.IDENT || token.IsKeyword(tok.Type)
}

// isNameStart returns true if the token can start a column or function name
// in expression position.
func (p *Parser) isNameStart(tok token.Token) bool {
	switch {
	case tok.Type == token.IDENT:
		return true
	case token.IsSoftKeyword(tok.Type):
		return true
	case token.IsDynamic(tok.Type):
		return p.dialect.PrefixHandler(tok.Type) == nil
	}
	return false
}

// callableKeywords are reserved words that BigQuery also uses as function names.
var callableKeywords = map[token.TokenType]bool{
	token.LEFT:  true,
	token.RIGHT: true,
}
