package dialect

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ANSIJoinTypes are INNER, LEFT/RIGHT/FULL [OUTER] and CROSS joins.
var ANSIJoinTypes = []JoinTypeDef{
	onJoin(token.INNER, core.JoinInner, 0),
	onJoin(token.LEFT, core.JoinLeft, token.OUTER),
	onJoin(token.RIGHT, core.JoinRight, token.OUTER),
	onJoin(token.FULL, core.JoinFull, token.OUTER),
	{Token: token.CROSS, Type: core.JoinCross},
}

// onJoin defines a join that takes ON or USING.
func onJoin(t token.TokenType, typ core.JoinType, optional token.TokenType) JoinTypeDef {
	return JoinTypeDef{
		Token:         t,
		Type:          typ,
		OptionalToken: optional,
		RequiresOn:    true,
		AllowsUsing:   true,
	}
}
