package core

import "github.com/leapstack-labs/bqlint/pkg/token"

// Join keywords accepted by BigQuery.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
)

// JoinTypeDef tells the parser how a join keyword behaves.
type JoinTypeDef struct {
	Token         token.TokenType // keyword starting the join
	Type          JoinType
	OptionalToken token.TokenType // OUTER after LEFT/RIGHT/FULL; 0 if none
	RequiresOn    bool
	AllowsUsing   bool
}
