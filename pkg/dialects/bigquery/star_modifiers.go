package bigquery

import (
	"fmt"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// parseExcept handles * EXCEPT (col1, col2, ...).
// The EXCEPT keyword has already been consumed.
func parseExcept(p spi.ParserOps) (core.StarModifier, error) {
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("EXCEPT: %w", err)
	}

	var cols []string
	for {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, fmt.Errorf("EXCEPT: %w", err)
		}
		cols = append(cols, name)

		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("EXCEPT: %w", err)
	}

	return &core.ExceptModifier{Columns: cols}, nil
}

// parseReplace handles * REPLACE (expr AS col, ...).
// The REPLACE keyword has already been consumed.
func parseReplace(p spi.ParserOps) (core.StarModifier, error) {
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, fmt.Errorf("REPLACE: %w", err)
	}

	var items []core.ReplaceItem
	for {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, fmt.Errorf("REPLACE: %w", err)
		}

		if err := p.Expect(token.AS); err != nil {
			return nil, fmt.Errorf("REPLACE: expected AS after expression: %w", err)
		}

		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, fmt.Errorf("REPLACE: %w", err)
		}

		items = append(items, core.ReplaceItem{Expr: expr, Alias: name})

		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, fmt.Errorf("REPLACE: %w", err)
	}

	return &core.ReplaceModifier{Items: items}, nil
}
