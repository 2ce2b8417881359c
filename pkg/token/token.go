// Package token defines the lexical tokens of the BigQuery SQL front end.
//
// Structural tokens are constants (IDs 0-999) so the parser can switch on them.
// Keywords that only one dialect reserves are registered at init time via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads clearly at call sites
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier, `quoted identifier`, @param
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello', "hello", r'raw', b'bytes'

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	DPIPE    // ||
	EQ       // =
	NE       // != or <>
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	AMP      // &
	PIPE     // |
	CARET    // ^
	TILDE    // ~
	LSHIFT   // <<
	RSHIFT   // >>
	ARROW    // =>
	DOT      // .
	COMMA    // ,
	SEMI     // ;
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Keywords (alphabetical)
	ALL
	AND
	ANY
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CROSS
	CURRENT
	DESC
	DISTINCT
	ELSE
	END
	EXCEPT
	EXISTS
	EXTRACT
	FALSE
	FILTER
	FIRST
	FOLLOWING
	FROM
	FULL
	GROUP
	GROUPS
	HAVING
	IN
	INNER
	INTERSECT
	INTERVAL
	IS
	JOIN
	LAST
	LATERAL
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	NULLS
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRECEDING
	RANGE
	RECURSIVE
	RIGHT
	ROW
	ROWS
	SELECT
	THEN
	TRUE
	UNBOUNDED
	UNION
	USING
	WHEN
	WHERE
	WINDOW
	WITH
	WITHIN

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	DPIPE:    "||",
	EQ:       "=",
	NE:       "!=",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	AMP:      "&",
	PIPE:     "|",
	CARET:    "^",
	TILDE:    "~",
	LSHIFT:   "<<",
	RSHIFT:   ">>",
	ARROW:    "=>",
	DOT:      ".",
	COMMA:    ",",
	SEMI:     ";",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
}

// keywords maps upper-case keyword text to its token type.
var keywords = map[string]TokenType{}

func init() {
	for t := ALL; t <= WITHIN; t++ {
		name := keywordNames[t-ALL]
		tokenNames[t] = name
		keywords[name] = t
	}
}

// keywordNames is indexed by (t - ALL) and must follow the const block order.
var keywordNames = [...]string{
	"ALL", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CROSS",
	"CURRENT", "DESC", "DISTINCT", "ELSE", "END", "EXCEPT", "EXISTS", "EXTRACT",
	"FALSE", "FILTER", "FIRST", "FOLLOWING", "FROM", "FULL", "GROUP", "GROUPS",
	"HAVING", "IN", "INNER", "INTERSECT", "INTERVAL", "IS", "JOIN", "LAST",
	"LATERAL", "LEFT", "LIKE", "LIMIT", "NATURAL", "NOT", "NULL", "NULLS",
	"OFFSET", "ON", "OR", "ORDER", "OUTER", "OVER", "PARTITION", "PRECEDING",
	"RANGE", "RECURSIVE", "RIGHT", "ROW", "ROWS", "SELECT", "THEN", "TRUE",
	"UNBOUNDED", "UNION", "USING", "WHEN", "WHERE", "WINDOW", "WITH", "WITHIN",
}

// LookupIdent returns the builtin keyword for ident, or IDENT.
// Matching is case-insensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a builtin or registered keyword.
func IsKeyword(t TokenType) bool {
	return (t >= ALL && t <= WITHIN) || IsDynamic(t)
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RBRACKET
}

// softKeywords are keywords BigQuery does not reserve; they may name columns.
var softKeywords = map[TokenType]bool{
	FIRST:  true,
	LAST:   true,
	OFFSET: true,
	ROW:    true,
	FILTER: true,
}

// IsSoftKeyword reports whether t may also be used as an identifier.
func IsSoftKeyword(t TokenType) bool {
	return softKeywords[t]
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first character
	End     Position // one past the last character
	Quoted  bool     // identifier was written with backticks
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}
