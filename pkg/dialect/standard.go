package dialect

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// --- Standard Clause Definitions ---
// Pre-configured ClauseDefs that dialects compose. Handlers are explicitly
// typed to spi.ClauseHandler so the parser can type-assert them.

var (
	// StandardWhere is the standard WHERE clause definition.
	StandardWhere = core.ClauseDef{
		Token:   token.WHERE,
		Handler: spi.ClauseHandler(ParseWhere),
		Slot:    core.SlotWhere,
	}

	// StandardGroupBy is the standard GROUP BY clause definition.
	StandardGroupBy = core.ClauseDef{
		Token:    token.GROUP,
		Handler:  spi.ClauseHandler(ParseGroupBy),
		Slot:     core.SlotGroupBy,
		Keywords: []string{"GROUP", "BY"},
	}

	// StandardHaving is the standard HAVING clause definition.
	StandardHaving = core.ClauseDef{
		Token:   token.HAVING,
		Handler: spi.ClauseHandler(ParseHaving),
		Slot:    core.SlotHaving,
	}

	// StandardWindow is the standard WINDOW clause definition.
	StandardWindow = core.ClauseDef{
		Token:   token.WINDOW,
		Handler: spi.ClauseHandler(ParseWindow),
		Slot:    core.SlotWindow,
	}

	// StandardOrderBy is the standard ORDER BY clause definition.
	StandardOrderBy = core.ClauseDef{
		Token:    token.ORDER,
		Handler:  spi.ClauseHandler(ParseOrderBy),
		Slot:     core.SlotOrderBy,
		Keywords: []string{"ORDER", "BY"},
	}

	// StandardLimit is the standard LIMIT clause definition.
	StandardLimit = core.ClauseDef{
		Token:   token.LIMIT,
		Handler: spi.ClauseHandler(ParseLimit),
		Slot:    core.SlotLimit,
		Inline:  true,
	}

	// StandardOffset is the standard OFFSET clause definition.
	StandardOffset = core.ClauseDef{
		Token:   token.OFFSET,
		Handler: spi.ClauseHandler(ParseOffset),
		Slot:    core.SlotOffset,
		Inline:  true,
	}
)

// StandardSelectClauses is the typical ANSI SELECT clause sequence.
var StandardSelectClauses = []core.ClauseDef{
	StandardWhere,
	StandardGroupBy,
	StandardHaving,
	StandardWindow,
	StandardOrderBy,
	StandardLimit,
	StandardOffset,
}

// Qualify returns a QUALIFY clause definition bound to a dialect-registered token.
// QUALIFY is not an ANSI keyword, so each dialect registers its own token for it.
func Qualify(t token.TokenType) core.ClauseDef {
	return core.ClauseDef{
		Token:   t,
		Handler: spi.ClauseHandler(ParseQualify),
		Slot:    core.SlotQualify,
	}
}
