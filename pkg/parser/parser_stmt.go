package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Statement parsing: WITH clause, CTEs, SELECT body, SELECT list, ORDER BY.
//
// Grammar:
//
//	statement     → [WITH [RECURSIVE] cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier ["(" ident_list ")"] AS "(" statement ")"
//	select_body   → (select_core | "(" statement ")")
//	                [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [DISTINCT|ALL] [AS (STRUCT|VALUE)] select_list
//	                [FROM from_clause]
//	                [clauses based on dialect sequence]
//	select_list   → select_item ("," select_item)*
//	select_item   → "*" [modifiers] | path "." "*" [modifiers] | expr [[AS] identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]
//
// The parser uses dialect.ClauseSequence() and dialect.ClauseDef() to parse
// clauses in the order the dialect declares, and rejects clauses another
// dialect knows but this one does not.

// parseStatement parses a complete query.
func (p *Parser) parseStatement() *core.SelectStmt {
	start := p.token.Pos
	stmt := &core.SelectStmt{}

	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}

	stmt.Body = p.parseSelectBody()
	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *core.WithClause {
	start := p.token.Pos
	p.expect(token.WITH)
	with := &core.WithClause{}

	if p.match(token.RECURSIVE) {
		with.Recursive = true
	}

	mark := len(p.errors)
	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)

		if p.failed(mark) || !p.match(token.COMMA) {
			break
		}
	}

	with.Span = p.spanFrom(start)
	return with
}

// parseCTE parses a single CTE. Errors inside the body are recovered from:
// the parser skips to the matching closing parenthesis, moves the errors to
// the recovered list and marks the CTE Malformed.
func (p *Parser) parseCTE() *core.CTE {
	start := p.token.Pos
	cte := &core.CTE{}

	if !isWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "CTE name"))
		return cte
	}
	cte.Name = p.token.Literal
	cte.NameSpan = p.token.Span()
	p.nextToken()

	if p.match(token.LPAREN) {
		for {
			name, err := p.ParseIdentifier()
			if err != nil {
				p.errors = append(p.errors, err)
				return cte
			}
			cte.Columns = append(cte.Columns, name)
			if !p.match(token.COMMA) {
				break
			}
		}
		if !p.expect(token.RPAREN) {
			return cte
		}
	}

	if !p.expect(token.AS) {
		return cte
	}

	open := p.idx
	if !p.expect(token.LPAREN) {
		return cte
	}

	mark := len(p.errors)
	cte.Select = p.parseStatement()
	if !p.failed(mark) {
		p.expect(token.RPAREN)
	}

	if p.failed(mark) {
		closeIdx, ok := p.matchingParen(open)
		if !ok {
			// Unbalanced input: nothing to resynchronise on.
			return cte
		}
		p.recovered = append(p.recovered, p.errors[mark:]...)
		p.errors = p.errors[:mark]
		p.seek(closeIdx + 1)
		cte.Select = nil
		cte.Malformed = true
	}

	cte.Span = p.spanFrom(start)
	return cte
}

// matchingParen returns the index of the token closing the parenthesis at open.
func (p *Parser) matchingParen(open int) (int, bool) {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i, true
			}
		case token.EOF:
			return 0, false
		}
	}
	return 0, false
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *core.SelectBody {
	start := p.token.Pos
	body := &core.SelectBody{}

	if p.check(token.LPAREN) {
		p.nextToken()
		body.Nested = p.parseStatement()
		p.expect(token.RPAREN)
	} else {
		body.Left = p.parseSelectCore()
	}

	if isSetOp(p.token.Type) {
		switch p.token.Type {
		case token.UNION:
			body.Op = core.SetOpUnion
		case token.INTERSECT:
			body.Op = core.SetOpIntersect
		case token.EXCEPT:
			body.Op = core.SetOpExcept
		}
		p.nextToken()

		if p.match(token.ALL) {
			body.All = true
		} else {
			p.match(token.DISTINCT)
		}

		body.Right = p.parseSelectBody()
	}

	body.Span = p.spanFrom(start)
	return body
}

// parseSelectCore parses a single SELECT block.
func (p *Parser) parseSelectCore() *core.SelectCore {
	start := p.token.Pos
	sc := &core.SelectCore{}
	if !p.expect(token.SELECT) {
		return sc
	}

	if p.match(token.DISTINCT) {
		sc.Distinct = true
	} else {
		p.match(token.ALL)
	}

	// SELECT AS STRUCT / SELECT AS VALUE
	if p.check(token.AS) && isWord(p.peekN(1)) {
		kind := strings.ToUpper(p.peekN(1).Literal)
		if kind == "STRUCT" || kind == "VALUE" {
			p.nextToken()
			p.nextToken()
			sc.AsKind = kind
		}
	}

	sc.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		sc.From = p.parseFromClause()
	}

	p.parseClauses(sc)

	sc.Span = p.spanFrom(start)
	return sc
}

// parseClauses parses the dialect's clause sequence. Clauses must appear in
// the declared order; each is parsed at most once.
func (p *Parser) parseClauses(sc *core.SelectCore) {
	sequence := p.dialect.ClauseSequence()
	mark := len(p.errors)

	for i := 0; i < len(sequence) && !p.failed(mark); i++ {
		clauseType := sequence[i]
		if !p.check(clauseType) {
			continue
		}

		def, ok := p.dialect.ClauseDef(clauseType)
		if !ok {
			p.addError(fmt.Sprintf(ErrNoClauseHandler, clauseType))
			return
		}
		handler, ok := def.Handler.(spi.ClauseHandler)
		if !ok {
			p.addError(fmt.Sprintf(ErrNoClauseHandler, clauseType))
			return
		}

		keywordPos := p.token.Pos
		p.nextToken()

		result, err := handler(p)
		if err != nil {
			if !p.failed(mark) {
				p.errors = append(p.errors, err)
			}
			return
		}

		p.assignToSlot(sc, def.Slot, result)
		if def.Slot == core.SlotOrderBy {
			sc.OrderByPos = keywordPos
		}
	}

	if p.failed(mark) {
		return
	}

	// A clause token left over is either out of order or foreign to this dialect.
	if name, isKnown := core.IsKnownClause(p.token.Type); isKnown {
		if p.dialect.IsClauseToken(p.token.Type) {
			p.addError(fmt.Sprintf("%s clause is out of order", name))
		} else {
			p.addError(fmt.Sprintf(ErrUnsupportedClause, name, p.dialect.Name))
		}
	}
}

// assignToSlot stores the parsed clause result in the appropriate SelectCore field.
func (p *Parser) assignToSlot(sc *core.SelectCore, slot core.ClauseSlot, result any) {
	if result == nil {
		return
	}

	switch slot {
	case core.SlotWhere:
		if expr, ok := result.(core.Expr); ok {
			sc.Where = expr
		}
	case core.SlotGroupBy:
		if exprs, ok := result.([]core.Expr); ok {
			sc.GroupBy = exprs
		}
	case core.SlotHaving:
		if expr, ok := result.(core.Expr); ok {
			sc.Having = expr
		}
	case core.SlotWindow:
		if defs, ok := result.([]core.WindowDef); ok {
			sc.Windows = defs
		}
	case core.SlotOrderBy:
		if items, ok := result.([]core.OrderByItem); ok {
			sc.OrderBy = items
		}
	case core.SlotLimit:
		if expr, ok := result.(core.Expr); ok {
			sc.Limit = expr
		}
	case core.SlotOffset:
		if expr, ok := result.(core.Expr); ok {
			sc.Offset = expr
		}
	case core.SlotQualify:
		if expr, ok := result.(core.Expr); ok {
			sc.Qualify = expr
		}
	case core.SlotExtensions:
		if node, ok := result.(core.Node); ok {
			sc.Extensions = append(sc.Extensions, node)
		}
	}
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []core.SelectItem {
	var items []core.SelectItem
	mark := len(p.errors)

	for {
		items = append(items, p.parseSelectItem())

		if p.failed(mark) || !p.match(token.COMMA) {
			break
		}
		// BigQuery allows a trailing comma before FROM.
		if p.check(token.FROM) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() core.SelectItem {
	start := p.token.Pos
	item := core.SelectItem{}

	if p.check(token.STAR) {
		p.nextToken()
		item.Star = true
		item.Modifiers = p.parseStarModifiers()
		item.Span = p.spanFrom(start)
		return item
	}

	item.Expr = p.parseExpression()

	// path.* arrives as a StarExpr from the expression parser.
	if star, ok := item.Expr.(*core.StarExpr); ok && star.Table != "" {
		item.Expr = nil
		item.TableStar = star.Table
		item.Modifiers = p.parseStarModifiers()
		item.Span = p.spanFrom(start)
		return item
	}

	switch {
	case p.match(token.AS):
		aliasTok := p.token
		name, err := p.ParseIdentifier()
		if err != nil {
			p.errors = append(p.errors, err)
			break
		}
		item.Alias = name
		item.AliasSpan = aliasTok.Span()
	case p.check(token.IDENT):
		item.Alias = p.token.Literal
		item.AliasSpan = p.token.Span()
		p.nextToken()
	}

	item.Span = p.spanFrom(start)
	return item
}

// parseStarModifiers parses EXCEPT (...) / REPLACE (...) after a star.
func (p *Parser) parseStarModifiers() []core.StarModifier {
	var mods []core.StarModifier
	for p.dialect.IsStarModifierToken(p.token.Type) && p.checkPeek(token.LPAREN) {
		handler := p.dialect.StarModifierHandler(p.token.Type)
		p.nextToken()
		mod, err := handler(p)
		if err != nil {
			p.errors = append(p.errors, err)
			return mods
		}
		mods = append(mods, mod)
	}
	return mods
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []core.OrderByItem {
	var items []core.OrderByItem
	mark := len(p.errors)

	for {
		items = append(items, p.parseOrderByItem())

		if p.failed(mark) || !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() core.OrderByItem {
	item := core.OrderByItem{}
	item.Expr = p.parseExpression()

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC)
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			b := true
			item.NullsFirst = &b
		case p.match(token.LAST):
			b := false
			item.NullsFirst = &b
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "FIRST or LAST"))
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	mark := len(p.errors)

	for {
		exprs = append(exprs, p.parseExpression())

		if p.failed(mark) || !p.match(token.COMMA) {
			break
		}
	}

	return exprs
}
