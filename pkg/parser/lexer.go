package parser

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Lexer tokenizes BigQuery SQL input.
type Lexer struct {
	input     string
	pos       int  // offset of ch
	ch        byte // current char under examination, 0 at EOF
	line      int  // line of ch (1-based)
	lineStart int  // offset of the first byte of the current line

	dialect *dialect.Dialect
	symbols []string // dialect symbols, longest first

	// Comments collected during lexing
	Comments []*token.Comment
	// Errors collected during lexing
	Errors []*LexError
}

// NewLexer creates a new dialect-aware Lexer for the given input.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		dialect: d,
	}
	if len(input) > 0 {
		l.ch = input[0]
	}
	if d != nil {
		for sym := range d.Symbols() {
			l.symbols = append(l.symbols, sym)
		}
		sort.Slice(l.symbols, func(i, j int) bool {
			if len(l.symbols[i]) != len(l.symbols[j]) {
				return len(l.symbols[i]) > len(l.symbols[j])
			}
			return l.symbols[i] < l.symbols[j]
		})
	}
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

// peekChar returns the character after ch without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// currentPos returns the position of ch.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.pos - l.lineStart + 1,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(pos token.Position, msg string) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: msg})
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := l.scan(pos)
	tok.Pos = pos
	tok.End = l.currentPos()
	return tok
}

func (l *Lexer) scan(pos token.Position) token.Token {
	if l.ch == 0 && l.pos >= len(l.input) {
		return token.Token{Type: token.EOF}
	}

	// Dialect-specific symbols first (longest match)
	if tok, ok := l.matchDialectSymbol(); ok {
		return tok
	}

	switch l.ch {
	case '+':
		return l.single(token.PLUS)
	case '-':
		return l.single(token.MINUS)
	case '*':
		return l.single(token.STAR)
	case '/':
		return l.single(token.SLASH)
	case '%':
		return l.single(token.PERCENT)
	case '=':
		if l.peekChar() == '>' {
			return l.double(token.ARROW)
		}
		return l.single(token.EQ)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE)
		case '>':
			return l.double(token.NE)
		case '<':
			return l.double(token.LSHIFT)
		}
		return l.single(token.LT)
	case '>':
		switch l.peekChar() {
		case '=':
			return l.double(token.GE)
		case '>':
			return l.double(token.RSHIFT)
		}
		return l.single(token.GT)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE)
		}
		return l.single(token.ILLEGAL)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE)
		}
		return l.single(token.PIPE)
	case '&':
		return l.single(token.AMP)
	case '^':
		return l.single(token.CARET)
	case '~':
		return l.single(token.TILDE)
	case '.':
		if isDigit(l.peekChar()) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber()}
		}
		return l.single(token.DOT)
	case ',':
		return l.single(token.COMMA)
	case ';':
		return l.single(token.SEMI)
	case '(':
		return l.single(token.LPAREN)
	case ')':
		return l.single(token.RPAREN)
	case '[':
		return l.single(token.LBRACKET)
	case ']':
		return l.single(token.RBRACKET)
	case '\'', '"':
		return token.Token{Type: token.STRING, Literal: l.readString(pos, false)}
	case '`':
		return token.Token{Type: token.IDENT, Literal: l.readQuotedIdentifier(pos), Quoted: true}
	case '@':
		return token.Token{Type: token.IDENT, Literal: l.readParameter()}
	}

	switch {
	case isStringPrefix(l.input[l.pos:]):
		raw := false
		for l.ch != '\'' && l.ch != '"' {
			if l.ch == 'r' || l.ch == 'R' {
				raw = true
			}
			l.readChar()
		}
		return token.Token{Type: token.STRING, Literal: l.readString(pos, raw)}
	case isIdentStart(l.ch):
		lit := l.readIdentifier()
		typ := token.LookupIdent(lit)
		if typ == token.IDENT && l.dialect != nil {
			if dyn, ok := l.dialect.LookupKeyword(lit); ok {
				typ = dyn
			}
		}
		return token.Token{Type: typ, Literal: lit}
	case isDigit(l.ch):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber()}
	}

	return l.single(token.ILLEGAL)
}

func (l *Lexer) single(t token.TokenType) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit}
}

func (l *Lexer) double(t token.TokenType) token.Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit}
}

// matchDialectSymbol checks if the current position matches a dialect-specific symbol.
func (l *Lexer) matchDialectSymbol() (token.Token, bool) {
	if len(l.symbols) == 0 || l.pos >= len(l.input) {
		return token.Token{}, false
	}
	remaining := l.input[l.pos:]
	for _, sym := range l.symbols {
		if strings.HasPrefix(remaining, sym) {
			for range len(sym) {
				l.readChar()
			}
			return token.Token{Type: l.dialect.Symbols()[sym], Literal: sym}, true
		}
	}
	return token.Token{}, false
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		switch {
		case l.ch == '-' && l.peekChar() == '-', l.ch == '#':
			l.collectLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			l.collectBlockComment()
		default:
			return
		}
	}
}

// collectLineComment collects a -- or # comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: strings.TrimRight(l.input[startOffset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a /* */ comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.errorf(startPos, ErrUnterminatedBlock)
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a quoted string literal starting at the opening quote.
// Single, double and triple quotes are supported. Backslash escapes are
// decoded unless raw is set.
func (l *Lexer) readString(start token.Position, raw bool) string {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekAt(2) == quote
	if triple {
		l.readChar()
		l.readChar()
	}
	l.readChar() // opening quote

	var b strings.Builder
	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input):
			l.errorf(start, ErrUnterminatedString)
			return b.String()
		case l.ch == '\\':
			l.readChar()
			if l.ch == 0 {
				continue
			}
			if raw {
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			} else {
				b.WriteByte(unescape(l.ch))
			}
			l.readChar()
		case l.ch == quote && !triple:
			l.readChar()
			return b.String()
		case l.ch == quote && l.peekChar() == quote && l.peekAt(2) == quote:
			l.readChar()
			l.readChar()
			l.readChar()
			return b.String()
		case l.ch == '\n' && !triple:
			l.errorf(start, ErrUnterminatedString)
			return b.String()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

// readQuotedIdentifier reads a backtick-quoted identifier.
func (l *Lexer) readQuotedIdentifier(start token.Position) string {
	l.readChar() // opening backtick

	var b strings.Builder
	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input), l.ch == '\n':
			l.errorf(start, ErrUnterminatedIdent)
			return b.String()
		case l.ch == '\\' && l.peekChar() != 0:
			l.readChar()
			b.WriteByte(l.ch)
			l.readChar()
		case l.ch == '`':
			l.readChar()
			return b.String()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readParameter reads @param or @@system_variable.
func (l *Lexer) readParameter() string {
	start := l.pos
	l.readChar()
	if l.ch == '@' {
		l.readChar()
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal: integer, decimal, scientific or hex.
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.input[start:l.pos]
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && (isDigit(l.peekChar()) || !isIdentStart(l.peekChar())) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) ||
		((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekAt(2)))) {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// isStringPrefix reports whether s starts with a raw/bytes string prefix
// (r, b, rb, br in any case) immediately followed by a quote.
func isStringPrefix(s string) bool {
	i := 0
	for i < len(s) && i < 2 && strings.ContainsRune("rRbB", rune(s[i])) {
		i++
	}
	if i == 0 || i >= len(s) {
		return false
	}
	if i == 2 && strings.EqualFold(s[:1], s[1:2]) {
		return false
	}
	return s[i] == '\'' || s[i] == '"'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string, d *dialect.Dialect) []token.Token {
	l := NewLexer(input, d)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
