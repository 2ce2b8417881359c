package dialect

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ---------- Standard Clause Handlers ----------
// These are stateless functions that can be composed into any dialect.
// The leading keyword has already been consumed when these are called.

// ParseWhere handles the standard WHERE clause.
func ParseWhere(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseGroupBy handles the standard GROUP BY clause.
func ParseGroupBy(p spi.ParserOps) (any, error) {
	if err := p.Expect(token.BY); err != nil {
		return nil, err
	}
	return p.ParseExpressionList()
}

// ParseHaving handles the standard HAVING clause.
func ParseHaving(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseWindow handles named window definitions:
//
//	WINDOW w1 AS (PARTITION BY a ORDER BY b), w2 AS w1
func ParseWindow(p spi.ParserOps) (any, error) {
	var defs []core.WindowDef
	for {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.AS); err != nil {
			return nil, err
		}

		var spec *core.WindowSpec
		if p.Check(token.LPAREN) {
			spec, err = p.ParseWindowSpec()
			if err != nil {
				return nil, err
			}
		} else {
			specStart := p.Position()
			ref, err := p.ParseIdentifier()
			if err != nil {
				return nil, err
			}
			spec = &core.WindowSpec{Name: ref}
			spec.Span = token.Span{Start: specStart, End: p.PrevEnd()}
		}

		defs = append(defs, core.WindowDef{Name: name, Spec: spec})

		if !p.Match(token.COMMA) {
			return defs, nil
		}
	}
}

// ParseOrderBy handles the standard ORDER BY clause.
func ParseOrderBy(p spi.ParserOps) (any, error) {
	if err := p.Expect(token.BY); err != nil {
		return nil, err
	}
	return p.ParseOrderByList()
}

// ParseLimit handles the standard LIMIT clause.
func ParseLimit(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseOffset handles the standard OFFSET clause.
func ParseOffset(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}

// ParseQualify handles the QUALIFY clause.
func ParseQualify(p spi.ParserOps) (any, error) {
	return p.ParseExpression()
}
