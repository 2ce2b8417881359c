package parser_test

import (
	"testing"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/dialects/bigquery"
	"github.com/leapstack-labs/bqlint/pkg/parser"
	"github.com/leapstack-labs/bqlint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, sql string) *core.SelectStmt {
	t.Helper()
	stmt, err := parser.ParseWithDialect(sql, bigquery.BigQuery)
	require.NoError(t, err)
	require.NotNil(t, stmt)
	require.NotNil(t, stmt.Body)
	return stmt
}

func firstCore(t *testing.T, sql string) *core.SelectCore {
	t.Helper()
	stmt := parse(t, sql)
	require.NotNil(t, stmt.Body.Left)
	return stmt.Body.Left
}

func TestParseRequiresDialect(t *testing.T) {
	_, err := parser.ParseWithDialect("SELECT 1", nil)
	require.ErrorIs(t, err, dialect.ErrDialectRequired)
}

func TestParseSelectList(t *testing.T) {
	sc := firstCore(t, "SELECT a, b AS c, d e FROM t")

	require.Len(t, sc.Columns, 3)
	assert.Empty(t, sc.Columns[0].Alias)
	assert.Equal(t, "c", sc.Columns[1].Alias)
	assert.Equal(t, "e", sc.Columns[2].Alias)

	ref, ok := sc.Columns[0].Expr.(*core.ColumnRef)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Column)

	table, ok := sc.From.Source.(*core.TableName)
	require.True(t, ok)
	assert.Equal(t, "t", table.Name)
}

func TestParseTrailingComma(t *testing.T) {
	sc := firstCore(t, "SELECT a, b, FROM t")
	assert.Len(t, sc.Columns, 2)
}

func TestParseCTEs(t *testing.T) {
	stmt := parse(t, `WITH base AS (SELECT 1 AS a), derived (x) AS (SELECT a FROM base)
SELECT x FROM derived`)

	require.NotNil(t, stmt.With)
	require.Len(t, stmt.With.CTEs, 2)

	base := stmt.With.CTEs[0]
	assert.Equal(t, "base", base.Name)
	assert.Equal(t, token.Position{Line: 1, Column: 6, Offset: 5}, base.NameSpan.Start)
	assert.False(t, base.Malformed)
	require.NotNil(t, base.Select)

	derived := stmt.With.CTEs[1]
	assert.Equal(t, "derived", derived.Name)
	assert.Equal(t, []string{"x"}, derived.Columns)
}

func TestParseMalformedCTERecovers(t *testing.T) {
	sql := `WITH broken AS (SELECT FROM WHERE),
good AS (SELECT 1 AS a)
SELECT a FROM good`

	stmt, err := parser.ParseWithDialect(sql, bigquery.BigQuery)
	require.Error(t, err)
	require.NotNil(t, stmt, "recovered statement should be returned")

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Pos.Line)

	require.Len(t, stmt.With.CTEs, 2)
	assert.True(t, stmt.With.CTEs[0].Malformed)
	assert.Nil(t, stmt.With.CTEs[0].Select)
	assert.False(t, stmt.With.CTEs[1].Malformed)
	require.NotNil(t, stmt.Body.Left)
	assert.Len(t, stmt.Body.Left.Columns, 1)
}

func TestParseFatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr string
	}{
		{name: "missing table", sql: "SELECT a FROM", wantErr: "table name"},
		{name: "clause out of order", sql: "SELECT a FROM t ORDER BY a WHERE a > 1", wantErr: "out of order"},
		{name: "trailing input", sql: "SELECT a FROM t )", wantErr: "unexpected"},
		{name: "unbalanced CTE", sql: "WITH x AS (SELECT FROM", wantErr: "parse error"},
		{name: "empty case", sql: "SELECT CASE END", wantErr: "unexpected END"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseWithDialect(tt.sql, bigquery.BigQuery)
			require.Error(t, err)
			assert.Nil(t, stmt)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseQualify(t *testing.T) {
	sc := firstCore(t, `SELECT a FROM t
QUALIFY ROW_NUMBER() OVER (PARTITION BY a ORDER BY b DESC) = 1`)

	bin, ok := sc.Qualify.(*core.BinaryExpr)
	require.True(t, ok)
	fn, ok := bin.Left.(*core.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "ROW_NUMBER", fn.Name)
	require.NotNil(t, fn.Window)
	assert.Len(t, fn.Window.PartitionBy, 1)
	require.Len(t, fn.Window.OrderBy, 1)
	assert.True(t, fn.Window.OrderBy[0].Desc)
}

func TestParseOrderByPosition(t *testing.T) {
	sc := firstCore(t, "SELECT a FROM t\n  ORDER BY a LIMIT 10")

	assert.Equal(t, 2, sc.OrderByPos.Line)
	assert.Equal(t, 3, sc.OrderByPos.Column)
	assert.True(t, sc.HasLimit())
}

func TestParseTablePaths(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		wantCatalog string
		wantSchema  string
		wantName    string
		wantAlias   string
	}{
		{
			name:     "single name",
			sql:      "SELECT 1 FROM orders",
			wantName: "orders",
		},
		{
			name:       "dataset qualified",
			sql:        "SELECT 1 FROM sales.orders AS o",
			wantSchema: "sales",
			wantName:   "orders",
			wantAlias:  "o",
		},
		{
			name:        "backtick path is split",
			sql:         "SELECT 1 FROM `my-project.sales.orders` o",
			wantCatalog: "my-project",
			wantSchema:  "sales",
			wantName:    "orders",
			wantAlias:   "o",
		},
		{
			name:        "unquoted dashed project",
			sql:         "SELECT 1 FROM my-project.sales.orders",
			wantCatalog: "my-project",
			wantSchema:  "sales",
			wantName:    "orders",
		},
		{
			name:     "time travel",
			sql:      "SELECT 1 FROM orders FOR SYSTEM_TIME AS OF TIMESTAMP '2024-01-01'",
			wantName: "orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := firstCore(t, tt.sql)
			table, ok := sc.From.Source.(*core.TableName)
			require.True(t, ok)
			assert.Equal(t, tt.wantCatalog, table.Catalog)
			assert.Equal(t, tt.wantSchema, table.Schema)
			assert.Equal(t, tt.wantName, table.Name)
			assert.Equal(t, tt.wantAlias, table.Alias)
		})
	}
}

func TestParseJoins(t *testing.T) {
	sc := firstCore(t, `SELECT a.id
FROM a
JOIN b ON a.id = b.id
LEFT OUTER JOIN c USING (id)
CROSS JOIN d
, e`)

	require.Len(t, sc.From.Joins, 4)
	assert.Equal(t, core.JoinType(core.JoinInner), sc.From.Joins[0].Type)
	assert.NotNil(t, sc.From.Joins[0].Condition)
	assert.Equal(t, core.JoinType(core.JoinLeft), sc.From.Joins[1].Type)
	require.Len(t, sc.From.Joins[1].Using, 1)
	assert.Equal(t, "id", sc.From.Joins[1].Using[0].Column)
	assert.Equal(t, core.JoinType(core.JoinCross), sc.From.Joins[2].Type)
	assert.Equal(t, core.JoinComma, sc.From.Joins[3].Type)
}

func TestParseUnnestWithOffset(t *testing.T) {
	sc := firstCore(t, "SELECT x, pos FROM t, UNNEST(t.items) AS x WITH OFFSET AS pos")

	require.Len(t, sc.From.Joins, 1)
	tf, ok := sc.From.Joins[0].Right.(*core.TableFunction)
	require.True(t, ok)
	assert.Equal(t, "UNNEST", tf.Func.Name)
	assert.Equal(t, "x", tf.Alias)
	assert.True(t, tf.WithOffset)
	assert.Equal(t, "pos", tf.OffsetAlias)
}

func TestParsePivot(t *testing.T) {
	sc := firstCore(t, `SELECT * FROM sales
PIVOT (SUM(amount) AS total FOR quarter IN ('Q1' AS q1, 'Q2')) AS p`)

	pivot, ok := sc.From.Source.(*core.PivotTable)
	require.True(t, ok)
	require.Len(t, pivot.Aggregates, 1)
	assert.Equal(t, "SUM", pivot.Aggregates[0].Func.Name)
	assert.Equal(t, "total", pivot.Aggregates[0].Alias)
	assert.Equal(t, "quarter", pivot.ForColumn.Column)
	require.Len(t, pivot.InValues, 2)
	assert.Equal(t, "q1", pivot.InValues[0].Alias)
	assert.Equal(t, "p", pivot.Alias)
}

func TestParseUnpivot(t *testing.T) {
	sc := firstCore(t, `SELECT * FROM sales
UNPIVOT EXCLUDE NULLS (amount FOR quarter IN (q1 AS 'Q1', q2 AS 'Q2'))`)

	unpivot, ok := sc.From.Source.(*core.UnpivotTable)
	require.True(t, ok)
	assert.Equal(t, []string{"amount"}, unpivot.ValueColumns)
	assert.Equal(t, "quarter", unpivot.NameColumn)
	require.Len(t, unpivot.InColumns, 2)
	assert.Equal(t, "q1", unpivot.InColumns[0].Columns[0].Column)
	assert.Equal(t, "Q1", unpivot.InColumns[0].Alias)
}

func TestParseStarModifiers(t *testing.T) {
	sc := firstCore(t, "SELECT * EXCEPT (a, b) REPLACE (c + 1 AS c), t.* EXCEPT (id) FROM t")

	require.Len(t, sc.Columns, 2)
	star := sc.Columns[0]
	assert.True(t, star.Star)
	require.Len(t, star.Modifiers, 2)
	except, ok := star.Modifiers[0].(*core.ExceptModifier)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, except.Columns)
	_, ok = star.Modifiers[1].(*core.ReplaceModifier)
	assert.True(t, ok)

	tableStar := sc.Columns[1]
	assert.Equal(t, "t", tableStar.TableStar)
	assert.True(t, tableStar.IsStar())
	assert.Len(t, tableStar.Modifiers, 1)
}

func TestParseFunctionCalls(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, fn *core.FuncCall)
	}{
		{
			name: "count star",
			sql:  "SELECT COUNT(*) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				assert.Equal(t, "COUNT", fn.Name)
				assert.True(t, fn.Star)
			},
		},
		{
			name: "aggregate modifiers",
			sql:  "SELECT ARRAY_AGG(DISTINCT x IGNORE NULLS ORDER BY y DESC LIMIT 10) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				assert.Equal(t, "ARRAY_AGG", fn.Name)
				assert.True(t, fn.Distinct)
				assert.Equal(t, "IGNORE NULLS", fn.NullHandling)
				assert.Len(t, fn.OrderBy, 1)
				assert.NotNil(t, fn.Limit)
			},
		},
		{
			name: "safe prefix",
			sql:  "SELECT SAFE.PARSE_DATE('%Y%m%d', s) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				assert.Equal(t, "PARSE_DATE", fn.Name)
				assert.True(t, fn.Safe)
				assert.Len(t, fn.Args, 2)
			},
		},
		{
			name: "named arguments",
			sql:  "SELECT ML.PREDICT(model => m, threshold => 0.5) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				assert.Equal(t, "ML.PREDICT", fn.Name)
				assert.Len(t, fn.Args, 2)
			},
		},
		{
			name: "keyword function name",
			sql:  "SELECT LEFT(s, 3) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				assert.Equal(t, "LEFT", fn.Name)
			},
		},
		{
			name: "named window",
			sql:  "SELECT SUM(x) OVER w FROM t WINDOW w AS (ORDER BY y)",
			check: func(t *testing.T, fn *core.FuncCall) {
				require.NotNil(t, fn.Window)
				assert.Equal(t, "w", fn.Window.Name)
			},
		},
		{
			name: "window frame",
			sql:  "SELECT SUM(x) OVER (ORDER BY y ROWS BETWEEN 2 PRECEDING AND CURRENT ROW) FROM t",
			check: func(t *testing.T, fn *core.FuncCall) {
				require.NotNil(t, fn.Window)
				require.NotNil(t, fn.Window.Frame)
				assert.Equal(t, core.FrameRows, fn.Window.Frame.Type)
				assert.Equal(t, core.FrameExprPreceding, fn.Window.Frame.Start.Type)
				assert.Equal(t, core.FrameCurrentRow, fn.Window.Frame.End.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := firstCore(t, tt.sql)
			fn, ok := sc.Columns[0].Expr.(*core.FuncCall)
			require.True(t, ok, "expected FuncCall, got %T", sc.Columns[0].Expr)
			tt.check(t, fn)
		})
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want any
	}{
		{name: "cast", sql: "SELECT CAST(x AS INT64)", want: &core.CastExpr{}},
		{name: "safe cast", sql: "SELECT SAFE_CAST(x AS STRING)", want: &core.CastExpr{}},
		{name: "cast with format", sql: "SELECT CAST(d AS STRING FORMAT 'YYYY')", want: &core.CastExpr{}},
		{name: "case", sql: "SELECT CASE WHEN a > 1 THEN 'x' ELSE 'y' END", want: &core.CaseExpr{}},
		{name: "simple case", sql: "SELECT CASE a WHEN 1 THEN 'x' END", want: &core.CaseExpr{}},
		{name: "extract", sql: "SELECT EXTRACT(WEEK(MONDAY) FROM d)", want: &core.ExtractExpr{}},
		{name: "interval", sql: "SELECT INTERVAL 1 DAY", want: &core.IntervalExpr{}},
		{name: "exists", sql: "SELECT EXISTS (SELECT 1 FROM t)", want: &core.ExistsExpr{}},
		{name: "scalar subquery", sql: "SELECT (SELECT MAX(x) FROM t)", want: &core.SubqueryExpr{}},
		{name: "array subquery", sql: "SELECT ARRAY(SELECT x FROM t)", want: &core.SubqueryExpr{}},
		{name: "array literal", sql: "SELECT [1, 2, 3]", want: &core.ArrayLiteral{}},
		{name: "typed array", sql: "SELECT ARRAY<INT64>[1, 2]", want: &core.ArrayLiteral{}},
		{name: "struct", sql: "SELECT STRUCT(1 AS a, 'x' AS b)", want: &core.StructLiteral{}},
		{name: "tuple", sql: "SELECT (1, 2)", want: &core.StructLiteral{}},
		{name: "subscript", sql: "SELECT arr[OFFSET(0)] FROM t", want: &core.IndexExpr{}},
		{name: "in list", sql: "SELECT a IN (1, 2)", want: &core.InExpr{}},
		{name: "not in subquery", sql: "SELECT a NOT IN (SELECT b FROM t)", want: &core.InExpr{}},
		{name: "in unnest", sql: "SELECT a IN UNNEST(arr)", want: &core.InExpr{}},
		{name: "between", sql: "SELECT a BETWEEN 1 AND 10", want: &core.BetweenExpr{}},
		{name: "like", sql: "SELECT a NOT LIKE 'x%'", want: &core.LikeExpr{}},
		{name: "is null", sql: "SELECT a IS NOT NULL", want: &core.IsNullExpr{}},
		{name: "is distinct", sql: "SELECT a IS DISTINCT FROM b", want: &core.BinaryExpr{}},
		{name: "typed literal", sql: "SELECT DATE '2024-01-01'", want: &core.Literal{}},
		{name: "unary", sql: "SELECT -a", want: &core.UnaryExpr{}},
		{name: "not", sql: "SELECT NOT a", want: &core.UnaryExpr{}},
		{name: "struct field", sql: "SELECT t.s.inner_field FROM t", want: &core.ColumnRef{}},
		{name: "field of subscript", sql: "SELECT arr[OFFSET(0)].name FROM t", want: &core.FieldExpr{}},
		{name: "parameter", sql: "SELECT @limit_value", want: &core.ColumnRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := firstCore(t, tt.sql)
			require.Len(t, sc.Columns, 1)
			assert.IsType(t, tt.want, sc.Columns[0].Expr)
		})
	}
}

func TestParseTypeNames(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{sql: "SELECT CAST(x AS int64)", want: "INT64"},
		{sql: "SELECT CAST(x AS NUMERIC(10, 2))", want: "NUMERIC(10, 2)"},
		{sql: "SELECT CAST(x AS ARRAY<STRING>)", want: "ARRAY<STRING>"},
		{sql: "SELECT CAST(x AS ARRAY<STRUCT<a INT64, b STRING>>)", want: "ARRAY<STRUCT<a INT64, b STRING>>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			sc := firstCore(t, tt.sql)
			cast, ok := sc.Columns[0].Expr.(*core.CastExpr)
			require.True(t, ok)
			assert.Equal(t, tt.want, cast.TypeName)
		})
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	sc := firstCore(t, "SELECT 1 FROM t WHERE a = 1 OR b = 2 AND c = 3")

	or, ok := sc.Where.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.OR, or.Op)
	and, ok := or.Right.(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AND, and.Op)
}

func TestParseSetOperations(t *testing.T) {
	stmt := parse(t, "SELECT a FROM x UNION ALL SELECT a FROM y EXCEPT DISTINCT SELECT a FROM z")

	body := stmt.Body
	assert.Equal(t, core.SetOpUnion, body.Op)
	assert.True(t, body.All)
	require.NotNil(t, body.Right)
	assert.Equal(t, core.SetOpExcept, body.Right.Op)
	assert.False(t, body.Right.All)
}

func TestParseNestedSetOperand(t *testing.T) {
	stmt := parse(t, "(SELECT a FROM x) UNION ALL (SELECT a FROM y)")
	require.NotNil(t, stmt.Body.Nested)
	require.NotNil(t, stmt.Body.Right)
	assert.NotNil(t, stmt.Body.Right.Nested)
}

func TestParseSpans(t *testing.T) {
	sc := firstCore(t, "SELECT a + b AS total FROM t")

	item := sc.Columns[0]
	span := item.Expr.(*core.BinaryExpr).Span
	assert.Equal(t, token.Position{Line: 1, Column: 8, Offset: 7}, span.Start)
	assert.Equal(t, token.Position{Line: 1, Column: 13, Offset: 12}, span.End)
	assert.Equal(t, token.Position{Line: 1, Column: 17, Offset: 16}, item.AliasSpan.Start)
}

func TestParseFile(t *testing.T) {
	sql := `-- first
SELECT 1;
/* second */ SELECT 2;;
`
	file, err := parser.ParseFile(sql, bigquery.BigQuery)
	require.NoError(t, err)
	assert.Len(t, file.Statements, 2)
	require.Len(t, file.Comments, 2)
	assert.Equal(t, "first", file.Comments[0].Body())
	assert.True(t, file.Comments[1].IsBlockComment())
}

func TestParseFileMissingSeparator(t *testing.T) {
	_, err := parser.ParseFile("SELECT 1 SELECT 2", bigquery.BigQuery)
	require.Error(t, err)
}

func BenchmarkParse(b *testing.B) {
	sql := `WITH base AS (
  SELECT id, name, amount, created_at FROM ` + "`proj.ds.orders`" + `
), agg AS (
  SELECT id, SUM(amount) AS total FROM base GROUP BY id
)
SELECT b.id, b.name, a.total
FROM base b
JOIN agg a ON a.id = b.id
WHERE b.created_at > DATE '2024-01-01'
QUALIFY ROW_NUMBER() OVER (PARTITION BY b.id ORDER BY a.total DESC) = 1`

	b.ResetTimer()
	for b.Loop() {
		if _, err := parser.ParseWithDialect(sql, bigquery.BigQuery); err != nil {
			b.Fatal(err)
		}
	}
}
