package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Special expression parsing: function calls, CASE, CAST, EXTRACT, INTERVAL, EXISTS.
//
// Grammar:
//
//	func_call     → [SAFE "."] path "(" [DISTINCT] ("*" | args) [null_handling] [HAVING (MAX|MIN) expr]
//	                [ORDER BY order_list] [LIMIT expr] ")" [OVER (identifier | window_spec)]
//	args          → arg ("," arg)*
//	arg           → [identifier "=>"] expr
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → (CAST | SAFE_CAST) "(" expr AS type_name [FORMAT expr [AT TIME ZONE expr]] ")"
//	extract_expr  → EXTRACT "(" part ["(" identifier ")"] FROM expr [AT TIME ZONE expr] ")"
//	interval_expr → INTERVAL expr unit [TO unit]
//	exists_expr   → EXISTS "(" statement ")"
//	type_name     → word ["<" type_args ">"] ["(" number ["," number] ")"]

// parseFunctionCall parses the argument list and trailing OVER clause of a
// call whose name path has already been consumed.
func (p *Parser) parseFunctionCall(start token.Position, path []pathSegment) *core.FuncCall {
	fn := &core.FuncCall{}
	if len(path) > 1 && strings.EqualFold(path[0].name, "SAFE") {
		fn.Safe = true
		path = path[1:]
	}
	fn.Name = strings.ToUpper(joinPath(path))

	p.expect(token.LPAREN)

	switch {
	case p.check(token.STAR):
		p.nextToken()
		fn.Star = true
	case !p.check(token.RPAREN):
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseCallArgs()
	}

	if p.check(token.IDENT) && p.checkPeek(token.NULLS) {
		switch mode := strings.ToUpper(p.token.Literal); mode {
		case "IGNORE", "RESPECT":
			p.nextToken()
			p.nextToken()
			fn.NullHandling = mode + " NULLS"
		}
	}

	if p.match(token.HAVING) {
		// HAVING MAX|MIN expr
		p.nextToken()
		if arg := p.parseExpression(); arg != nil {
			fn.Args = append(fn.Args, arg)
		}
	}

	if p.match(token.ORDER) {
		p.expect(token.BY)
		fn.OrderBy = p.parseOrderByList()
	}

	if p.match(token.LIMIT) {
		fn.Limit = p.parseExpression()
	}

	p.expect(token.RPAREN)

	if p.match(token.OVER) {
		if p.check(token.LPAREN) {
			fn.Window = p.parseWindowSpec()
		} else {
			nameStart := p.token.Pos
			if !isWord(p.token) {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "window name"))
				return fn
			}
			fn.Window = &core.WindowSpec{Name: p.token.Literal}
			p.nextToken()
			fn.Window.Span = p.spanFrom(nameStart)
		}
	}

	fn.Span = p.spanFrom(start)
	return fn
}

// parseCallArgs parses function arguments. Named arguments keep only their value.
func (p *Parser) parseCallArgs() []core.Expr {
	var args []core.Expr
	for {
		if isWord(p.token) && p.checkPeek(token.ARROW) {
			p.nextToken()
			p.nextToken()
		}
		mark := len(p.errors)
		arg := p.parseExpression()
		if p.failed(mark) {
			return args
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			return args
		}
	}
}

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() core.Expr {
	start := p.token.Pos
	p.expect(token.CASE)
	caseExpr := &core.CaseExpr{}

	if !p.check(token.WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for p.match(token.WHEN) {
		when := core.WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(token.THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}
	if len(caseExpr.Whens) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.WHEN))
		return nil
	}

	if p.match(token.ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(token.END)
	caseExpr.Span = p.spanFrom(start)
	return caseExpr
}

// parseCastArgs parses "(expr AS type ...)" after CAST or SAFE_CAST.
func (p *Parser) parseCastArgs(start token.Position, safe bool) core.Expr {
	p.expect(token.LPAREN)

	cast := &core.CastExpr{Safe: safe}
	cast.Expr = p.parseExpression()
	p.expect(token.AS)
	cast.TypeName = p.parseTypeName()

	if p.check(token.IDENT) && strings.EqualFold(p.token.Literal, "FORMAT") {
		p.nextToken()
		p.parseExpression()
		p.parseAtTimeZone()
	}

	p.expect(token.RPAREN)
	cast.Span = p.spanFrom(start)
	return cast
}

// parseAtTimeZone skips an optional AT TIME ZONE suffix.
func (p *Parser) parseAtTimeZone() {
	if p.check(token.IDENT) && strings.EqualFold(p.token.Literal, "AT") {
		p.nextToken()
		for _, word := range []string{"TIME", "ZONE"} {
			if !p.check(token.IDENT) || !strings.EqualFold(p.token.Literal, word) {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), word))
				return
			}
			p.nextToken()
		}
		p.parseExpression()
	}
}

// parseExtractExpr parses EXTRACT(part FROM expr).
func (p *Parser) parseExtractExpr() core.Expr {
	start := p.token.Pos
	p.expect(token.EXTRACT)
	p.expect(token.LPAREN)

	extract := &core.ExtractExpr{}
	if !isWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "date part"))
		return nil
	}
	extract.Part = strings.ToUpper(p.token.Literal)
	p.nextToken()

	// WEEK(MONDAY)
	if p.match(token.LPAREN) {
		if isWord(p.token) {
			extract.Part += "(" + strings.ToUpper(p.token.Literal) + ")"
			p.nextToken()
		}
		p.expect(token.RPAREN)
	}

	p.expect(token.FROM)
	extract.Expr = p.parseExpression()
	p.parseAtTimeZone()
	p.expect(token.RPAREN)

	extract.Span = p.spanFrom(start)
	return extract
}

// parseIntervalExpr parses INTERVAL value unit [TO unit].
func (p *Parser) parseIntervalExpr() core.Expr {
	start := p.token.Pos
	p.expect(token.INTERVAL)

	interval := &core.IntervalExpr{}
	interval.Value = p.parseExpr(core.PrecedenceUnary)
	if interval.Value == nil {
		return nil
	}

	if !isWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "interval unit"))
		return nil
	}
	interval.Unit = strings.ToUpper(p.token.Literal)
	p.nextToken()

	if p.check(token.IDENT) && strings.EqualFold(p.token.Literal, "TO") {
		p.nextToken()
		if isWord(p.token) {
			interval.ToUnit = strings.ToUpper(p.token.Literal)
			p.nextToken()
		}
	}

	interval.Span = p.spanFrom(start)
	return interval
}

// parseExistsExpr parses EXISTS (subquery).
func (p *Parser) parseExistsExpr() core.Expr {
	start := p.token.Pos
	p.expect(token.EXISTS)
	p.expect(token.LPAREN)
	exists := &core.ExistsExpr{Select: p.parseStatement()}
	p.expect(token.RPAREN)
	exists.Span = p.spanFrom(start)
	return exists
}

// parseTypeName parses a type name. Generic parameters are captured verbatim,
// so ARRAY<STRUCT<a INT64>> yields "ARRAY<STRUCT<a INT64>>".
func (p *Parser) parseTypeName() string {
	if !isWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "type name"))
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(p.token.Literal))
	p.nextToken()

	if p.check(token.LT) {
		p.parseTypeArgs(&sb)
	}

	// NUMERIC(10, 2), STRING(20)
	if p.match(token.LPAREN) {
		sb.WriteString("(")
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			if p.check(token.COMMA) {
				sb.WriteString(", ")
			} else {
				sb.WriteString(p.token.Literal)
			}
			p.nextToken()
		}
		p.expect(token.RPAREN)
		sb.WriteString(")")
	}

	return sb.String()
}

// parseTypeArgs copies "<...>" into sb, tracking nesting. A ">>" token closes
// two levels.
func (p *Parser) parseTypeArgs(sb *strings.Builder) {
	depth := 0
	prevWord := false
	for {
		tok := p.token
		switch tok.Type {
		case token.EOF:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(tok), token.GT))
			return
		case token.LT:
			depth++
			sb.WriteString("<")
			prevWord = false
		case token.GT:
			depth--
			sb.WriteString(">")
			prevWord = false
		case token.RSHIFT:
			depth -= 2
			sb.WriteString(">>")
			prevWord = false
		case token.COMMA:
			sb.WriteString(", ")
			prevWord = false
		default:
			if prevWord {
				sb.WriteString(" ")
			}
			sb.WriteString(tok.Literal)
			prevWord = true
		}
		p.nextToken()
		if depth <= 0 {
			if depth < 0 {
				p.addError("unbalanced '>' in type")
			}
			return
		}
	}
}
