package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

func TestIsTableFunction(t *testing.T) {
	d := NewDialect("test").
		Identifiers("`", "`", "\\`", core.NormCaseInsensitive).
		TableFunctions("unnest", "external_query").
		Build()

	tests := []struct {
		name string
		want bool
	}{
		{"unnest", true},
		{"UNNEST", true},
		{"External_Query", true},
		{"unknown_func", false},
		{"sum", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.IsTableFunction(tt.name))
		})
	}
}

func TestFunctionKind_TableFunctionPriority(t *testing.T) {
	d := NewDialect("test").
		Aggregates("sum").
		TableFunctions("sum").
		Build()

	assert.Equal(t, core.FuncTable, d.FunctionKind("sum"))
}

func TestFunctionKind(t *testing.T) {
	d := NewDialect("test").
		Identifiers("`", "`", "\\`", core.NormCaseInsensitive).
		Aggregates("sum", "array_agg").
		Generators("current_date").
		Windows("row_number").
		Build()

	tests := []struct {
		name string
		want core.FunctionKind
	}{
		{"SUM", core.FuncAggregate},
		{"Array_Agg", core.FuncAggregate},
		{"CURRENT_DATE", core.FuncGenerator},
		{"row_number", core.FuncWindow},
		{"coalesce", core.FuncScalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.FunctionKind(tt.name))
		})
	}
}

func TestConfig(t *testing.T) {
	d := NewDialect("test").
		Aggregates("sum", "count").
		Generators("now").
		Windows("rank").
		TableFunctions("unnest").
		WithKeywords("select", "from").
		WithDataTypes("INT64", "STRING").
		Build()

	cfg := d.Config()
	assert.Equal(t, "test", cfg.Name)
	assert.Equal(t, []string{"count", "sum"}, cfg.Aggregates)
	assert.Equal(t, []string{"now"}, cfg.Generators)
	assert.Equal(t, []string{"rank"}, cfg.Windows)
	assert.Equal(t, []string{"unnest"}, cfg.TableFunctions)
	assert.Equal(t, []string{"FROM", "SELECT"}, cfg.Keywords)
	assert.Equal(t, []string{"INT64", "STRING"}, cfg.DataTypes)
}

func TestNormalizationStrategies(t *testing.T) {
	tests := []struct {
		name  string
		norm  core.NormalizationStrategy
		input string
		want  string
	}{
		{"lowercase", core.NormLowercase, "FooBar", "foobar"},
		{"uppercase", core.NormUppercase, "FooBar", "FOOBAR"},
		{"case sensitive", core.NormCaseSensitive, "FooBar", "FooBar"},
		{"case insensitive", core.NormCaseInsensitive, "FooBar", "foobar"},
		{"case insensitive unicode", core.NormCaseInsensitive, "STRASSE_Ä", "strasse_ä"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDialect("test").
				Identifiers(`"`, `"`, `""`, tt.norm).
				Build()

			assert.Equal(t, tt.want, d.NormalizeName(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "order_id", Fold("Order_ID"))
	assert.Equal(t, "ärger", Fold("ÄRGER"))
	assert.True(t, EqualFold("Ärger", "äRGER"))
	assert.False(t, EqualFold("a", "b"))
}

func TestQuoteIdentifier(t *testing.T) {
	d := NewDialect("test").
		Identifiers("`", "`", "\\`", core.NormCaseInsensitive).
		Build()

	assert.Equal(t, "`my col`", d.QuoteIdentifier("my col"))
	assert.Equal(t, "`a\\`b`", d.QuoteIdentifier("a`b"))
}

func TestBuilderParsingBehavior(t *testing.T) {
	qualify := token.Register("QUALIFY")
	d := NewDialect("test").
		AddKeyword("QUALIFY", qualify).
		Clauses(StandardWhere, StandardGroupBy, Qualify(qualify), StandardOrderBy).
		Operators(ANSIOperators, BitwiseOperators).
		JoinTypes(ANSIJoinTypes).
		Build()

	assert.Equal(t, []token.TokenType{token.WHERE, token.GROUP, qualify, token.ORDER}, d.ClauseSequence())
	assert.True(t, d.IsClauseToken(qualify))
	assert.False(t, d.IsClauseToken(token.HAVING))
	assert.NotNil(t, d.ClauseHandler(token.WHERE))
	assert.Nil(t, d.ClauseHandler(token.LIMIT))

	def, ok := d.ClauseDef(qualify)
	require.True(t, ok)
	assert.Equal(t, core.SlotQualify, def.Slot)

	kw, ok := d.LookupKeyword("qualify")
	assert.True(t, ok)
	assert.Equal(t, qualify, kw)
	_, ok = d.LookupKeyword("pivot")
	assert.False(t, ok)
	assert.True(t, d.IsReservedWord("Qualify"))

	assert.Equal(t, core.PrecedenceMultiply, d.Precedence(token.STAR))
	assert.Equal(t, core.PrecedenceBitOr, d.Precedence(token.PIPE))
	assert.Equal(t, core.PrecedenceNone, d.Precedence(token.COMMA))

	jt, ok := d.JoinTypeDef(token.LEFT)
	require.True(t, ok)
	assert.Equal(t, core.JoinLeft, jt.Type)
	assert.Equal(t, token.OUTER, jt.OptionalToken)
	assert.False(t, d.IsJoinTypeToken(token.NATURAL))

	name, ok := core.IsKnownClause(qualify)
	assert.True(t, ok)
	assert.Equal(t, "QUALIFY", name)
}

func TestRegistry(t *testing.T) {
	d := NewDialect("RegistryTest").Build()
	Register(d)

	got, ok := Get("registrytest")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Contains(t, List(), "registrytest")

	got, err := Lookup(" RegistryTest ")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, ok = Get("missing")
	assert.False(t, ok)

	_, err = Lookup("missing")
	require.ErrorIs(t, err, ErrUnknownDialect)
	assert.Contains(t, err.Error(), "registrytest")
}
