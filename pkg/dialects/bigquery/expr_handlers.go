package bigquery

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// parseArrayLiteral handles [expr, expr, ...].
// The opening [ is still the current token.
func parseArrayLiteral(p spi.ParserOps) (core.Expr, error) {
	start := p.Position()
	p.NextToken()
	arr := &core.ArrayLiteral{}
	if err := parseArrayElements(p, arr); err != nil {
		return nil, err
	}
	arr.Span = token.Span{Start: start, End: p.PrevEnd()}
	return arr, nil
}

// parseArrayElements parses elements up to and including the closing ].
func parseArrayElements(p spi.ParserOps, arr *core.ArrayLiteral) error {
	if !p.Check(token.RBRACKET) {
		for {
			elem, err := p.ParseExpression()
			if err != nil {
				return fmt.Errorf("array literal: %w", err)
			}
			arr.Elements = append(arr.Elements, elem)

			if !p.Match(token.COMMA) {
				break
			}
		}
	}

	if err := p.Expect(token.RBRACKET); err != nil {
		return fmt.Errorf("array literal: expected ]: %w", err)
	}
	return nil
}

// parseArray handles ARRAY(subquery), ARRAY[...] and ARRAY<T>[...].
// The ARRAY keyword is still the current token.
func parseArray(p spi.ParserOps) (core.Expr, error) {
	start := p.Position()

	switch p.Peek().Type {
	case token.LPAREN:
		p.NextToken() // ARRAY
		p.NextToken() // (
		query, err := p.ParseQuery()
		if err != nil {
			return nil, fmt.Errorf("ARRAY subquery: %w", err)
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, fmt.Errorf("ARRAY subquery: expected ): %w", err)
		}
		sub := &core.SubqueryExpr{Select: query, Array: true}
		sub.Span = token.Span{Start: start, End: p.PrevEnd()}
		return sub, nil

	case token.LT:
		typeName, err := p.ParseTypeName()
		if err != nil {
			return nil, fmt.Errorf("ARRAY type: %w", err)
		}
		if err := p.Expect(token.LBRACKET); err != nil {
			return nil, fmt.Errorf("typed array literal: %w", err)
		}
		arr := &core.ArrayLiteral{TypeName: typeName}
		if err := parseArrayElements(p, arr); err != nil {
			return nil, err
		}
		arr.Span = token.Span{Start: start, End: p.PrevEnd()}
		return arr, nil

	case token.LBRACKET:
		p.NextToken() // ARRAY
		p.NextToken() // [
		arr := &core.ArrayLiteral{}
		if err := parseArrayElements(p, arr); err != nil {
			return nil, err
		}
		arr.Span = token.Span{Start: start, End: p.PrevEnd()}
		return arr, nil
	}

	return nil, fmt.Errorf("ARRAY: expected (, < or [ at %s", p.Peek().Pos)
}

// parseStruct handles STRUCT(expr [AS name], ...) and STRUCT<...>(...).
// The STRUCT keyword is still the current token.
func parseStruct(p spi.ParserOps) (core.Expr, error) {
	start := p.Position()
	s := &core.StructLiteral{}

	if p.Peek().Type == token.LT {
		typeName, err := p.ParseTypeName()
		if err != nil {
			return nil, fmt.Errorf("STRUCT type: %w", err)
		}
		s.TypeName = typeName
	} else {
		p.NextToken()
	}

	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("STRUCT: %w", err)
	}

	if !p.Check(token.RPAREN) {
		for {
			value, err := p.ParseExpression()
			if err != nil {
				return nil, fmt.Errorf("STRUCT field: %w", err)
			}
			field := core.StructField{Value: value}
			if p.Match(token.AS) {
				name, err := p.ParseIdentifier()
				if err != nil {
					return nil, fmt.Errorf("STRUCT field alias: %w", err)
				}
				field.Name = name
			}
			s.Fields = append(s.Fields, field)

			if !p.Match(token.COMMA) {
				break
			}
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("STRUCT: expected ): %w", err)
	}

	s.Span = token.Span{Start: start, End: p.PrevEnd()}
	return s, nil
}

// subscriptModes are the BigQuery array accessor wrappers.
var subscriptModes = map[string]bool{
	"OFFSET":       true,
	"SAFE_OFFSET":  true,
	"ORDINAL":      true,
	"SAFE_ORDINAL": true,
}

// parseSubscript handles arr[index], arr[OFFSET(i)] and arr[SAFE_ORDINAL(i)].
// The opening [ has already been consumed.
func parseSubscript(p spi.ParserOps, left core.Expr) (core.Expr, error) {
	idx := &core.IndexExpr{Expr: left}

	index, err := p.ParseExpression()
	if err != nil {
		return nil, fmt.Errorf("array subscript: %w", err)
	}

	if fn, ok := index.(*core.FuncCall); ok && len(fn.Args) == 1 && subscriptModes[strings.ToUpper(fn.Name)] {
		idx.Mode = strings.ToUpper(fn.Name)
		if fn.Safe {
			idx.Mode = "SAFE_" + idx.Mode
		}
		index = fn.Args[0]
	}
	idx.Index = index

	if err := p.Expect(token.RBRACKET); err != nil {
		return nil, fmt.Errorf("array subscript: expected ]: %w", err)
	}

	idx.Span = token.Span{Start: left.Pos(), End: p.PrevEnd()}
	return idx, nil
}
