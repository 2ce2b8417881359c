package cteusage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialects/bigquery"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/cteusage"
	"github.com/leapstack-labs/bqlint/pkg/parser"
	"github.com/leapstack-labs/bqlint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, sql string) *core.SelectStmt {
	t.Helper()
	stmt, err := parser.ParseWithDialect(sql, bigquery.BigQuery)
	require.NoError(t, err)
	require.NotNil(t, stmt)
	return stmt
}

func unused(t testing.TB, sql string) []string {
	t.Helper()
	var names []string
	for _, v := range cteusage.Analyze(parse(t, sql)) {
		names = append(names, v.Column)
	}
	return names
}

func fixture(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name+".sql"))
	require.NoError(t, err)
	return string(data)
}

func TestAnalyzeFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    []string
	}{
		{"simple", []string{"unused_column1", "unused_column2"}},
		{"column_alias", []string{"unused_column", "column2"}},
		{"function_argument", []string{"unused_field"}},
		{"join_only", []string{"unused_field"}},
		{"complex", []string{"unused_field1", "unused_field2", "unused_amount_field", "unused_price_field", "another_unused"}},
		{"multiple_alias", []string{"email", "unused_field1", "unused_field2"}},
		{"table_alias_without_as", []string{"id", "name"}},
		{"where_with_qualified_table", []string{"contract_type", "base_fee", "account_fee", "free_account_count"}},
		{"qualify", []string{"unused_field"}},
		{"select_star_with_unused", []string{"unused_field1", "unused_field2"}},
		{"select_star_multiple_joins", []string{"id"}},
		{"aggregate_in_final_select", nil},
		{"join_where", nil},
		{"table_alias", nil},
		{"table_alias_join", nil},
		{"unnest_in_from", nil},
		{"pivot", nil},
		{"select_star_chain", nil},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			assert.Equal(t, tt.want, unused(t, fixture(t, tt.fixture)))
		})
	}
}

func TestAnalyzeQueries(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "no with clause",
			sql:  "select a, b from t",
		},
		{
			name: "cte never referenced",
			sql:  "with s as (select a from t) select 1 as x",
			want: []string{"a"},
		},
		{
			name: "case insensitive names",
			sql:  "with Src as (select ID, Name from t) select id, NAME from SRC",
		},
		{
			name: "qualified and unqualified references agree",
			sql:  "with s as (select a, b from t) select s.a from s",
			want: []string{"b"},
		},
		{
			name: "order by without limit does not consume",
			sql:  "with s as (select a, b from t), o as (select a from s order by b) select a from o",
			want: []string{"b"},
		},
		{
			name: "order by with limit consumes",
			sql:  "with s as (select a, b from t), o as (select a from s order by b limit 10) select a from o",
		},
		{
			name: "final order by consumes",
			sql:  "with s as (select a, b from t) select a from s order by b",
		},
		{
			name: "aggregate order by consumes",
			sql:  "with s as (select a, b from t), agg as (select array_agg(a order by b) as xs from s) select xs from agg",
		},
		{
			name: "window order by consumes",
			sql:  "with s as (select a, b, c from t) select a, sum(b) over (partition by a order by c) as running from s",
		},
		{
			name: "correlated subquery",
			sql:  "with s as (select id, v from t), o as (select id from t2) select (select max(s.v) from s where s.id = o.id) as m from o",
		},
		{
			name: "exists subquery",
			sql:  "with s as (select id, flag from t) select 1 as x from t2 where exists (select 1 from s where s.id = t2.id)",
			want: []string{"flag"},
		},
		{
			name: "in subquery",
			sql:  "with s as (select id, flag from t) select x from t2 where t2.id in (select id from s)",
			want: []string{"flag"},
		},
		{
			name: "derived table",
			sql:  "with s as (select a, b from t) select x.a from (select a from s) as x",
			want: []string{"b"},
		},
		{
			name: "union operands consume",
			sql:  "with s as (select a, b from t) select a from s union all select b from s",
		},
		{
			name: "union cte exposes first operand columns",
			sql:  "with u as (select a, b from t union all select c, d from t2) select a from u",
			want: []string{"b"},
		},
		{
			name: "explicit column list renames",
			sql:  "with s (x, y) as (select a, b from t) select x from s",
			want: []string{"y"},
		},
		{
			name: "star except leaves excluded column unused",
			sql:  "with s as (select a, b, c from t) select * except (c) from s",
			want: []string{"c"},
		},
		{
			name: "star replace consumes replaced column",
			sql:  "with s as (select a, b from t) select * replace (a + 1 as a) from s",
		},
		{
			name: "unaliased expression is not reportable",
			sql:  "with s as (select a + 1, b from t) select b from s",
		},
		{
			name: "aliased expression is reportable",
			sql:  "with s as (select a + 1 as a1, b from t) select b from s",
			want: []string{"a1"},
		},
		{
			name: "struct field access consumes the struct column",
			sql:  "with s as (select info, other from t) select info.city from s",
			want: []string{"other"},
		},
		{
			name: "implicit unnest of a cte column",
			sql:  "with s as (select id, tags, other from t) select s.id, tag from s, s.tags as tag",
			want: []string{"other"},
		},
		{
			name: "having consumes",
			sql:  "with s as (select a, b from t) select a from s group by a having max(b) > 1",
		},
		{
			name: "join condition consumes",
			sql:  "with a as (select id, k from t), b as (select k from t2) select a.id from a join b on a.k = b.k",
		},
		{
			name: "cross join without predicate",
			sql:  "with a as (select id, k from t), b as (select k from t2) select a.id from a cross join b",
			want: []string{"k", "k"},
		},
		{
			name: "ambiguous bare name marks every visible match",
			sql:  "with a as (select k from t), b as (select k from t2) select k from a cross join b",
		},
		{
			name: "array subquery order by consumes",
			sql:  "with s as (select id, tags, ts from t), a as (select id, array(select tag from unnest(tags) as tag order by ts) as xs from s) select id, xs from a",
		},
		{
			name: "parenthesised outermost query order by consumes",
			sql:  "with s as (select a, b from t) (select a from s order by b)",
		},
		{
			name: "parenthesised union operand order by does not consume",
			sql:  "with s as (select a, b from t) (select a from s order by b) union all select a from s",
			want: []string{"b"},
		},
		{
			name: "nested with does not leak into later ctes",
			sql:  "with a as (select x, y from t), b as (with a as (select z from t2) select z from a), c as (select x from a) select * from b, c",
			want: []string{"y"},
		},
		{
			name: "nested with in subquery does not leak",
			sql:  "with a as (select x, y from t) select (with a as (select z from t2) select max(z) from a) as m, x from a",
			want: []string{"y"},
		},
		{
			name: "cte alias as a value reads the whole row",
			sql:  "with s as (select a, b from t) select to_json_string(s) as j from s",
		},
		{
			name: "column name wins over cte alias",
			sql:  "with s as (select s, b from t) select s from s",
			want: []string{"b"},
		},
		{
			name: "qualify over star consumes every column",
			sql:  "with cte1 as (select category, value, unused_field from base), final as (select * from cte1 qualify row_number() over (partition by category) = 1) select * from final",
		},
		{
			name: "later cte does not see outer query scope",
			sql:  "with a as (select x, y from t), b as (select x from a) select x from b",
			want: []string{"y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unused(t, tt.sql))
		})
	}
}

func TestAnalyzeShadowedCTEIsStillChecked(t *testing.T) {
	sql := `with a as (select x, y from t),
b as (select x from a),
a as (select z from t2)
select x, z from b, a`

	violations := cteusage.Analyze(parse(t, sql))
	require.Len(t, violations, 1)
	assert.Equal(t, "a", violations[0].CTE)
	assert.Equal(t, "y", violations[0].Column)
}

func TestAnalyzeMalformedCTE(t *testing.T) {
	sql := `with broken as (select from where),
good as (select 1 as a, 2 as b)
select a from good`

	stmt, err := parser.ParseWithDialect(sql, bigquery.BigQuery)
	require.Error(t, err)
	require.NotNil(t, stmt)

	m := cteusage.Collect(stmt)
	require.Len(t, m.CTEs(), 2)
	assert.Empty(t, m.CTEs()[0].Columns)

	violations := cteusage.Resolve(m)
	require.Len(t, violations, 1)
	assert.Equal(t, "good", violations[0].CTE)
	assert.Equal(t, "b", violations[0].Column)
}

func TestAnalyzeNil(t *testing.T) {
	assert.Empty(t, cteusage.Analyze(nil))
}

func TestViolationSpan(t *testing.T) {
	violations := cteusage.Analyze(parse(t, fixture(t, "simple")))
	require.Len(t, violations, 2)

	v := violations[0]
	assert.Equal(t, "source", v.CTE)
	assert.Equal(t, 5, v.Line())
	assert.Equal(t, 9, v.ColumnStart())
	assert.Equal(t, 5, v.LineEnd())
	assert.Equal(t, 23, v.ColumnEnd())
	assert.Equal(t, "Unused column: unused_column1", v.Message())

	assert.Equal(t, 6, violations[1].Line())
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	stmt := parse(t, fixture(t, "complex"))

	first := cteusage.Analyze(stmt)
	second := cteusage.Analyze(stmt)
	assert.Equal(t, first, second)
}

func TestAnalyzeIsMonotonic(t *testing.T) {
	base := "with source as (select id, name, extra1, extra2 from t) select %s from source"

	tests := []struct {
		selected string
		want     []string
	}{
		{"id", []string{"name", "extra1", "extra2"}},
		{"id, name", []string{"extra1", "extra2"}},
		{"id, name, extra1", []string{"extra2"}},
		{"id, name, extra1, extra2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.selected, func(t *testing.T) {
			assert.Equal(t, tt.want, unused(t, fmt.Sprintf(base, tt.selected)))
		})
	}
}

func TestAnalyzeStarChain(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("depth %d", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("with step0 as (select a, b, c from t)")
			for i := 1; i <= n; i++ {
				fmt.Fprintf(&b, ",\nstep%d as (select * from step%d)", i, i-1)
			}
			fmt.Fprintf(&b, "\nselect a from step%d", n)

			assert.Empty(t, unused(t, b.String()))
		})
	}
}

func TestCollectModel(t *testing.T) {
	m := cteusage.Collect(parse(t, "with s as (select a, b + 1, c as d from t), r as (select * from s) select a from r"))

	require.Len(t, m.CTEs(), 2)
	s, ok := m.Lookup("S")
	require.True(t, ok)
	assert.Equal(t, 0, s.ID)

	require.Len(t, s.Columns, 3)
	assert.Equal(t, "a", s.Columns[0].Name)
	assert.Equal(t, "f0_", s.Columns[1].Name)
	assert.True(t, s.Columns[1].Anonymous)
	assert.Equal(t, "d", s.Columns[2].Name)

	r, ok := m.Lookup("r")
	require.True(t, ok)
	require.Len(t, r.Columns, 3)
	for _, col := range r.Columns {
		assert.True(t, col.IsStarExpansion)
		assert.False(t, col.Reportable())
	}

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

func TestScopeResolveAlias(t *testing.T) {
	m := cteusage.NewModel()
	def := m.RegisterCTE("base", token.Span{}, nil)

	outer := m.PushScope(nil)
	outer.Bind("b", def)
	inner := m.PushScope(outer)
	inner.Bind("x", nil)

	got, ok := m.ResolveAlias(inner, "B")
	require.True(t, ok)
	assert.Same(t, def, got)

	got, ok = m.ResolveAlias(inner, "x")
	assert.True(t, ok)
	assert.Nil(t, got)

	_, ok = m.ResolveAlias(outer, "x")
	assert.False(t, ok)
	assert.Same(t, outer, inner.Parent())
}

func benchSQL(ctes int) string {
	var b strings.Builder
	b.WriteString("with ")
	for i := 0; i < ctes; i++ {
		if i > 0 {
			b.WriteString(",\n")
		}
		src := "dataset.raw"
		if i > 0 {
			src = fmt.Sprintf("c%d", i-1)
		}
		fmt.Fprintf(&b, "c%d as (select id, amount, sum(amount) over (partition by id) as total, status from %s where status is not null)", i, src)
	}
	fmt.Fprintf(&b, "\nselect id, total from c%d", ctes-1)
	return b.String()
}

func benchmarkAnalyze(b *testing.B, ctes int) {
	stmt := parse(b, benchSQL(ctes))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cteusage.Analyze(stmt)
	}
}

func benchmarkParseAndAnalyze(b *testing.B, ctes int) {
	sql := benchSQL(ctes)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stmt, err := parser.ParseWithDialect(sql, bigquery.BigQuery)
		if err != nil {
			b.Fatal(err)
		}
		cteusage.Analyze(stmt)
	}
}

func BenchmarkAnalyze_small(b *testing.B)  { benchmarkAnalyze(b, 3) }
func BenchmarkAnalyze_medium(b *testing.B) { benchmarkAnalyze(b, 20) }
func BenchmarkAnalyze_large(b *testing.B)  { benchmarkAnalyze(b, 100) }

func BenchmarkParseAndAnalyze_small(b *testing.B)  { benchmarkParseAndAnalyze(b, 3) }
func BenchmarkParseAndAnalyze_medium(b *testing.B) { benchmarkParseAndAnalyze(b, 20) }
func BenchmarkParseAndAnalyze_large(b *testing.B)  { benchmarkParseAndAnalyze(b, 100) }
