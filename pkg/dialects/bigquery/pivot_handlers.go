package bigquery

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// parsePivot handles PIVOT (aggregates FOR column IN (values)) [AS alias].
// The PIVOT keyword has already been consumed.
func parsePivot(p spi.ParserOps, source core.TableRef) (core.TableRef, error) {
	pivot := &core.PivotTable{Source: source}

	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("PIVOT: %w", err)
	}

	for {
		agg, err := parsePivotAggregate(p)
		if err != nil {
			return nil, err
		}
		pivot.Aggregates = append(pivot.Aggregates, agg)

		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(TokenFor); err != nil {
		return nil, fmt.Errorf("PIVOT: expected FOR: %w", err)
	}

	col, err := p.ParseColumnRef()
	if err != nil {
		return nil, fmt.Errorf("PIVOT: expected column after FOR: %w", err)
	}
	pivot.ForColumn = col

	if err := p.Expect(token.IN); err != nil {
		return nil, fmt.Errorf("PIVOT: expected IN: %w", err)
	}
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("PIVOT IN: expected (: %w", err)
	}

	for {
		val, err := parsePivotInValue(p)
		if err != nil {
			return nil, err
		}
		pivot.InValues = append(pivot.InValues, val)

		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("PIVOT IN: expected ): %w", err)
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("PIVOT: expected closing ): %w", err)
	}

	alias, err := parseFromItemAlias(p)
	if err != nil {
		return nil, fmt.Errorf("PIVOT alias: %w", err)
	}
	pivot.Alias = alias

	pivot.Span = token.Span{Start: source.Pos(), End: p.PrevEnd()}
	return pivot, nil
}

// parsePivotAggregate parses an aggregate function call in PIVOT.
func parsePivotAggregate(p spi.ParserOps) (core.PivotAggregate, error) {
	agg := core.PivotAggregate{}

	expr, err := p.ParseExpression()
	if err != nil {
		return agg, fmt.Errorf("PIVOT aggregate: %w", err)
	}

	fn, ok := expr.(*core.FuncCall)
	if !ok {
		return agg, fmt.Errorf("PIVOT: expected aggregate function at %s", expr.Pos())
	}
	agg.Func = fn

	if p.Match(token.AS) {
		name, err := p.ParseIdentifier()
		if err != nil {
			return agg, fmt.Errorf("PIVOT aggregate alias: %w", err)
		}
		agg.Alias = name
	} else if p.Check(token.IDENT) {
		agg.Alias = p.Token().Literal
		p.NextToken()
	}

	return agg, nil
}

// parsePivotInValue parses a value in PIVOT ... IN (...).
func parsePivotInValue(p spi.ParserOps) (core.PivotInValue, error) {
	val := core.PivotInValue{}

	expr, err := p.ParseExpression()
	if err != nil {
		return val, fmt.Errorf("PIVOT IN value: %w", err)
	}
	val.Value = expr

	if p.Match(token.AS) {
		name, err := p.ParseIdentifier()
		if err != nil {
			return val, fmt.Errorf("PIVOT IN value alias: %w", err)
		}
		val.Alias = name
	} else if p.Check(token.IDENT) {
		val.Alias = p.Token().Literal
		p.NextToken()
	}

	return val, nil
}

// parseUnpivot handles
//
//	UNPIVOT [INCLUDE NULLS | EXCLUDE NULLS] (value FOR name IN (columns)) [AS alias]
//
// The UNPIVOT keyword has already been consumed.
func parseUnpivot(p spi.ParserOps, source core.TableRef) (core.TableRef, error) {
	unpivot := &core.UnpivotTable{Source: source}

	if tok := p.Token(); tok.Type == token.IDENT && p.Peek().Type == token.NULLS {
		switch strings.ToUpper(tok.Literal) {
		case "INCLUDE", "EXCLUDE":
			p.NextToken()
			p.NextToken()
		}
	}

	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("UNPIVOT: %w", err)
	}

	if p.Match(token.LPAREN) {
		for {
			name, err := p.ParseIdentifier()
			if err != nil {
				return nil, fmt.Errorf("UNPIVOT value columns: %w", err)
			}
			unpivot.ValueColumns = append(unpivot.ValueColumns, name)

			if !p.Match(token.COMMA) {
				break
			}
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, fmt.Errorf("UNPIVOT value columns: expected ): %w", err)
		}
	} else {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, fmt.Errorf("UNPIVOT: expected value column name: %w", err)
		}
		unpivot.ValueColumns = []string{name}
	}

	if err := p.Expect(TokenFor); err != nil {
		return nil, fmt.Errorf("UNPIVOT: expected FOR: %w", err)
	}

	nameCol, err := p.ParseIdentifier()
	if err != nil {
		return nil, fmt.Errorf("UNPIVOT: expected name column after FOR: %w", err)
	}
	unpivot.NameColumn = nameCol

	if err := p.Expect(token.IN); err != nil {
		return nil, fmt.Errorf("UNPIVOT: expected IN: %w", err)
	}
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("UNPIVOT IN: expected (: %w", err)
	}

	for {
		group, err := parseUnpivotInGroup(p)
		if err != nil {
			return nil, err
		}
		unpivot.InColumns = append(unpivot.InColumns, group)

		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("UNPIVOT IN: expected ): %w", err)
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("UNPIVOT: expected closing ): %w", err)
	}

	alias, err := parseFromItemAlias(p)
	if err != nil {
		return nil, fmt.Errorf("UNPIVOT alias: %w", err)
	}
	unpivot.Alias = alias

	unpivot.Span = token.Span{Start: source.Pos(), End: p.PrevEnd()}
	return unpivot, nil
}

// parseUnpivotInGroup parses col, or (col1, col2), with an optional AS label.
func parseUnpivotInGroup(p spi.ParserOps) (core.UnpivotInGroup, error) {
	group := core.UnpivotInGroup{}

	if p.Match(token.LPAREN) {
		for {
			col, err := p.ParseColumnRef()
			if err != nil {
				return group, fmt.Errorf("UNPIVOT IN columns: %w", err)
			}
			group.Columns = append(group.Columns, col)

			if !p.Match(token.COMMA) {
				break
			}
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return group, fmt.Errorf("UNPIVOT IN columns: expected ): %w", err)
		}
	} else {
		col, err := p.ParseColumnRef()
		if err != nil {
			return group, fmt.Errorf("UNPIVOT IN: expected column name: %w", err)
		}
		group.Columns = []*core.ColumnRef{col}
	}

	if p.Match(token.AS) {
		tok := p.Token()
		switch tok.Type {
		case token.STRING, token.NUMBER:
			group.Alias = tok.Literal
			p.NextToken()
		default:
			name, err := p.ParseIdentifier()
			if err != nil {
				return group, fmt.Errorf("UNPIVOT IN alias: %w", err)
			}
			group.Alias = name
		}
	}

	return group, nil
}

// parseFromItemAlias parses an optional [AS] alias after a FROM item.
func parseFromItemAlias(p spi.ParserOps) (string, error) {
	if p.Match(token.AS) {
		return p.ParseIdentifier()
	}
	if p.Check(token.IDENT) {
		alias := p.Token().Literal
		p.NextToken()
		return alias, nil
	}
	return "", nil
}
