package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// FROM clause parsing: table paths, derived tables, table functions, JOINs.
//
// Grammar:
//
//	from_clause    → table_ref (join)*
//	table_ref      → table_primary (from_item_ext)*
//	table_primary  → table_path [FOR SYSTEM_TIME AS OF expr] [[AS] alias]
//	               | "(" statement ")" [[AS] alias]
//	               | path "(" args ")" [[AS] alias] [WITH OFFSET [[AS] alias]]
//	table_path     → segment ("." segment)*        (backtick paths are split on ".")
//	join           → "," table_ref
//	               | [NATURAL] [join_type] JOIN table_ref [ON expr | USING "(" ident_list ")"]
//	join_type      → INNER | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS
//	from_item_ext  → PIVOT (...) | UNPIVOT (...)    (dialect handlers)

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *core.FromClause {
	start := p.token.Pos
	from := &core.FromClause{}
	mark := len(p.errors)

	from.Source = p.parseTableRef()

	for !p.failed(mark) {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	from.Span = p.spanFrom(start)
	return from
}

// parseTableRef parses a table reference with its dialect extensions.
func (p *Parser) parseTableRef() core.TableRef {
	ref := p.parseTablePrimary()
	if ref == nil {
		return nil
	}
	return p.parseFromItemExtensions(ref)
}

// parseFromItemExtensions applies dialect FROM extensions (PIVOT, UNPIVOT).
func (p *Parser) parseFromItemExtensions(source core.TableRef) core.TableRef {
	for {
		handler := p.dialect.FromItemHandler(p.token.Type)
		if handler == nil {
			return source
		}

		p.nextToken()

		result, err := handler(p, source)
		if err != nil {
			p.errors = append(p.errors, err)
			return source
		}
		source = result
	}
}

// parseTablePrimary parses a single FROM source.
func (p *Parser) parseTablePrimary() core.TableRef {
	start := p.token.Pos

	if p.check(token.LPAREN) {
		p.nextToken()
		dt := &core.DerivedTable{Select: p.parseStatement()}
		p.expect(token.RPAREN)
		dt.Alias, _ = p.parseOptionalAlias()
		dt.Span = p.spanFrom(start)
		return dt
	}

	if !isWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "table name"))
		return nil
	}

	path := p.parseTablePath()

	if p.check(token.LPAREN) {
		return p.parseTableFunction(start, path)
	}

	table := &core.TableName{}
	names := make([]string, len(path))
	for i, seg := range path {
		names[i] = seg.name
	}
	switch n := len(names); n {
	case 1:
		table.Name = names[0]
	case 2:
		table.Schema = names[0]
		table.Name = names[1]
	default:
		table.Catalog = strings.Join(names[:n-2], ".")
		table.Schema = names[n-2]
		table.Name = names[n-1]
	}

	p.parseSystemTime()

	table.Alias, table.AliasSpan = p.parseOptionalAlias()
	table.Span = p.spanFrom(start)
	return table
}

// parseTablePath parses a table path. Unquoted project IDs may contain
// dashes (my-project.dataset.table); adjacent segments are glued back together.
func (p *Parser) parseTablePath() []pathSegment {
	path := p.parsePath()
	if len(path) == 0 {
		return path
	}

	first := &path[0]
	for p.check(token.MINUS) && p.token.Pos.Offset == first.span.End.Offset {
		next := p.peekN(1)
		if next.Pos.Offset != p.token.End.Offset || (next.Type != token.IDENT && next.Type != token.NUMBER) {
			break
		}
		p.nextToken()
		first.name += "-" + next.Literal
		first.span.End = next.End
		p.nextToken()
	}

	if p.match(token.DOT) {
		rest := p.parsePath()
		path = append(path[:1], rest...)
	}
	return path
}

// parseSystemTime skips FOR SYSTEM_TIME AS OF expr.
func (p *Parser) parseSystemTime() {
	if !strings.EqualFold(p.token.Literal, "FOR") || !strings.EqualFold(p.peekN(1).Literal, "SYSTEM_TIME") {
		return
	}
	p.nextToken()
	p.nextToken()
	p.expect(token.AS)
	if !strings.EqualFold(p.token.Literal, "OF") {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "OF"))
		return
	}
	p.nextToken()
	p.parseExpression()
}

// parseTableFunction parses UNNEST(...) and other table-valued calls.
func (p *Parser) parseTableFunction(start token.Position, path []pathSegment) core.TableRef {
	fn := p.parseFunctionCall(start, path)
	tf := &core.TableFunction{Func: fn}

	tf.Alias, _ = p.parseOptionalAlias()

	if p.check(token.WITH) && p.checkPeek(token.OFFSET) {
		p.nextToken()
		p.nextToken()
		tf.WithOffset = true
		tf.OffsetAlias, _ = p.parseOptionalAlias()
	}

	tf.Span = p.spanFrom(start)
	return tf
}

// parseOptionalAlias parses [AS] alias. A bare alias must be a plain identifier.
func (p *Parser) parseOptionalAlias() (string, token.Span) {
	if p.match(token.AS) {
		tok := p.token
		name, err := p.ParseIdentifier()
		if err != nil {
			p.errors = append(p.errors, err)
			return "", token.Span{}
		}
		return name, tok.Span()
	}
	if p.check(token.IDENT) {
		tok := p.token
		p.nextToken()
		return tok.Literal, tok.Span()
	}
	return "", token.Span{}
}

// parseJoin parses one join step, or returns nil when none follows.
func (p *Parser) parseJoin() *core.Join {
	start := p.token.Pos

	if p.match(token.COMMA) {
		join := &core.Join{Type: core.JoinComma}
		join.Right = p.parseTableRef()
		join.Span = p.spanFrom(start)
		return join
	}

	join := &core.Join{}
	if p.check(token.NATURAL) {
		p.nextToken()
		join.Natural = true
	}

	var def core.JoinTypeDef
	switch {
	case p.check(token.JOIN):
		join.Type = core.JoinInner
		def = core.JoinTypeDef{Type: core.JoinInner, RequiresOn: true, AllowsUsing: true}
		p.nextToken()
	case p.dialect.IsJoinTypeToken(p.token.Type):
		def, _ = p.dialect.JoinTypeDef(p.token.Type)
		join.Type = def.Type
		p.nextToken()
		if def.OptionalToken != 0 {
			p.match(def.OptionalToken)
		}
		if !p.expect(token.JOIN) {
			return join
		}
	default:
		if join.Natural {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.JOIN))
			return join
		}
		return nil
	}

	join.Right = p.parseTableRef()

	switch {
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case def.AllowsUsing && p.match(token.USING):
		join.Using = p.parseUsingList()
	}

	join.Span = p.spanFrom(start)
	return join
}

// parseUsingList parses ( col, ... ) after USING.
func (p *Parser) parseUsingList() []*core.ColumnRef {
	if !p.expect(token.LPAREN) {
		return nil
	}
	var cols []*core.ColumnRef
	for {
		col, err := p.ParseColumnRef()
		if err != nil {
			p.errors = append(p.errors, err)
			return cols
		}
		cols = append(cols, col)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return cols
}
