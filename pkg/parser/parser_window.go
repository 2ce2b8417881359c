package parser

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Window specification parsing: OVER clauses, PARTITION BY, ORDER BY, frame specs.
//
// Grammar:
//
//	window_spec   → "(" [identifier] [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec] ")"
//	frame_spec    → (ROWS|RANGE|GROUPS) frame_extent
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW | expr PRECEDING | expr FOLLOWING

// parseWindowSpec parses a parenthesised window specification.
func (p *Parser) parseWindowSpec() *core.WindowSpec {
	start := p.token.Pos
	spec := &core.WindowSpec{}

	if !p.expect(token.LPAREN) {
		return spec
	}

	// (base_window ORDER BY ...)
	if p.check(token.IDENT) {
		spec.Name = p.token.Literal
		p.nextToken()
	}

	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExpressionList()
	}

	if p.match(token.ORDER) {
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByList()
	}

	if p.check(token.ROWS) || p.check(token.RANGE) || p.check(token.GROUPS) {
		spec.Frame = p.parseFrameSpec()
	}

	p.expect(token.RPAREN)
	spec.Span = p.spanFrom(start)
	return spec
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *core.FrameSpec {
	frame := &core.FrameSpec{}

	switch {
	case p.match(token.ROWS):
		frame.Type = core.FrameRows
	case p.match(token.RANGE):
		frame.Type = core.FrameRange
	case p.match(token.GROUPS):
		frame.Type = core.FrameGroups
	}

	if p.match(token.BETWEEN) {
		frame.Start = p.parseFrameBound()
		p.expect(token.AND)
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	return frame
}

// parseFrameBound parses a frame bound.
func (p *Parser) parseFrameBound() *core.FrameBound {
	bound := &core.FrameBound{}

	switch {
	case p.match(token.UNBOUNDED):
		if p.match(token.PRECEDING) {
			bound.Type = core.FrameUnboundedPreceding
		} else {
			p.expect(token.FOLLOWING)
			bound.Type = core.FrameUnboundedFollowing
		}

	case p.match(token.CURRENT):
		p.expect(token.ROW)
		bound.Type = core.FrameCurrentRow

	default:
		// Bound offsets stop below AND so BETWEEN 1 PRECEDING AND ... parses.
		bound.Offset = p.parseExpr(core.PrecedenceAnd)
		if p.match(token.PRECEDING) {
			bound.Type = core.FrameExprPreceding
		} else {
			p.expect(token.FOLLOWING)
			bound.Type = core.FrameExprFollowing
		}
	}

	return bound
}
