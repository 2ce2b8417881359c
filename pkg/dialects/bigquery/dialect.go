// Package bigquery provides the BigQuery Standard SQL dialect definition.
// This package is pure Go with no client dependencies; it only describes
// how BigQuery SQL is tokenized, parsed and classified.
package bigquery

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

func init() {
	dialect.Register(BigQuery)
}

// BigQuery-specific tokens. These are not ANSI keywords, so they are
// registered dynamically rather than living in the builtin token set.
var (
	TokenQualify = token.Register("QUALIFY")
	TokenPivot   = token.Register("PIVOT")
	TokenUnpivot = token.Register("UNPIVOT")
	TokenFor     = token.Register("FOR")
	TokenArray   = token.Register("ARRAY")
	TokenStruct  = token.Register("STRUCT")
	TokenReplace = token.Register("REPLACE")
)

// BigQueryQualify is the QUALIFY clause for window function filtering.
var BigQueryQualify = dialect.Qualify(TokenQualify)

// BigQuery is the BigQuery dialect configuration.
var BigQuery = dialect.NewDialect("bigquery").
	Identifiers("`", "`", "\\`", core.NormCaseInsensitive).
	AddKeyword("QUALIFY", TokenQualify).
	AddKeyword("PIVOT", TokenPivot).
	AddKeyword("UNPIVOT", TokenUnpivot).
	AddKeyword("FOR", TokenFor).
	AddKeyword("ARRAY", TokenArray).
	AddKeyword("STRUCT", TokenStruct).
	AddKeyword("REPLACE", TokenReplace).
	Clauses(
		dialect.StandardWhere,
		dialect.StandardGroupBy,
		dialect.StandardHaving,
		BigQueryQualify,
		dialect.StandardWindow,
		dialect.StandardOrderBy,
		dialect.StandardLimit,
		dialect.StandardOffset,
	).
	Operators(
		dialect.ANSIOperators,
		dialect.BitwiseOperators,
	).
	JoinTypes(dialect.ANSIJoinTypes).
	// Star modifiers
	AddStarModifier(token.EXCEPT, parseExcept).
	AddStarModifier(TokenReplace, parseReplace).
	// Expression extensions
	AddPrefix(token.LBRACKET, parseArrayLiteral).
	AddPrefix(TokenArray, parseArray).
	AddPrefix(TokenStruct, parseStruct).
	AddInfixWithHandler(token.LBRACKET, spi.PrecedencePostfix, parseSubscript).
	// FROM extensions
	AddFromItem(TokenPivot, parsePivot).
	AddFromItem(TokenUnpivot, parseUnpivot).
	// Function classifications
	Aggregates(bigQueryAggregates...).
	Generators(bigQueryGenerators...).
	Windows(bigQueryWindows...).
	TableFunctions(bigQueryTableFunctions...).
	WithKeywords(bigQueryReservedWords...).
	WithDataTypes(bigQueryTypes...).
	Build()
