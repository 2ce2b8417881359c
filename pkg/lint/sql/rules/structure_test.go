package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bqlint/pkg/lint"
)

func TestST01_UnusedCTEColumn(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "unused column",
			sql:  "WITH users AS (SELECT id, name, email FROM dataset.users) SELECT id, name FROM users",
			want: []string{"Unused column: email"},
		},
		{
			name: "all columns used",
			sql:  "WITH users AS (SELECT id, name FROM dataset.users) SELECT id, name FROM users",
		},
		{
			name: "no with clause",
			sql:  "SELECT id, name FROM dataset.users",
		},
		{
			name: "star in final select",
			sql:  "WITH users AS (SELECT id, name FROM dataset.users) SELECT * FROM users",
		},
		{
			name: "several unused columns in declaration order",
			sql: `WITH a AS (SELECT x, y FROM t),
b AS (SELECT x, z FROM a)
SELECT x FROM b`,
			want: []string{"Unused column: y", "Unused column: z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "ST01")
			var messages []string
			for _, d := range diags {
				messages = append(messages, d.Message)
			}
			assert.Equal(t, tt.want, messages)
		})
	}
}

func TestST01_Position(t *testing.T) {
	sql := `WITH users AS (
    SELECT
        id,
        email
    FROM dataset.users
)
SELECT id FROM users`

	diags := runRule(t, sql, "ST01")
	require.Len(t, diags, 1)
	assert.Equal(t, 4, diags[0].Line())
	assert.Equal(t, 9, diags[0].Column())
	assert.Equal(t, 14, diags[0].EndPos.Column)
}

func TestST01_IgnoreColumns(t *testing.T) {
	sql := "WITH users AS (SELECT id, name, Email FROM dataset.users) SELECT id FROM users"

	cfg := lint.NewConfig().SetRuleOptions("ST01", map[string]any{
		"ignore_columns": []any{"email"},
	})
	diags := runRuleWithConfig(t, sql, "ST01", cfg)
	require.Len(t, diags, 1)
	assert.Equal(t, "Unused column: name", diags[0].Message)
}

func TestST02_UnnecessaryOrderBy(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantCount int
	}{
		{
			name:      "order by in cte without limit",
			sql:       "WITH c AS (SELECT a FROM t ORDER BY a) SELECT a FROM c",
			wantCount: 1,
		},
		{
			name: "order by in cte with limit",
			sql:  "WITH c AS (SELECT a FROM t ORDER BY a LIMIT 10) SELECT a FROM c",
		},
		{
			name: "order by in cte with offset",
			sql:  "WITH c AS (SELECT a FROM t ORDER BY a LIMIT 10 OFFSET 5) SELECT a FROM c",
		},
		{
			name: "order by in outermost query",
			sql:  "WITH c AS (SELECT a FROM t) SELECT a FROM c ORDER BY a",
		},
		{
			name:      "order by in derived table",
			sql:       "SELECT a FROM (SELECT a FROM t ORDER BY a) AS sub",
			wantCount: 1,
		},
		{
			name:      "order by in scalar subquery",
			sql:       "SELECT (SELECT MAX(a) FROM t ORDER BY a) AS m",
			wantCount: 1,
		},
		{
			name:      "order by in IN subquery",
			sql:       "SELECT a FROM t WHERE a IN (SELECT b FROM u ORDER BY b)",
			wantCount: 1,
		},
		{
			name: "order by in aggregate",
			sql:  "WITH c AS (SELECT ARRAY_AGG(a ORDER BY b) AS xs FROM t) SELECT xs FROM c",
		},
		{
			name: "order by in window",
			sql:  "WITH c AS (SELECT ROW_NUMBER() OVER (ORDER BY a) AS rn FROM t) SELECT rn FROM c",
		},
		{
			name: "parenthesised outermost query",
			sql:  "(SELECT a FROM t ORDER BY a)",
		},
		{
			name:      "parenthesised set operation operand",
			sql:       "(SELECT a FROM t ORDER BY a) UNION ALL SELECT a FROM u",
			wantCount: 1,
		},
		{
			name: "order by in array subquery",
			sql:  "SELECT id, ARRAY(SELECT x FROM UNNEST(xs) AS x ORDER BY x) AS sorted FROM t",
		},
		{
			name:      "order by in scalar subquery inside array subquery",
			sql:       "SELECT ARRAY(SELECT (SELECT MAX(y) FROM u ORDER BY y) AS m FROM t) AS ms",
			wantCount: 1,
		},
		{
			name:      "one diagnostic per scope",
			sql:       "WITH c AS (SELECT a FROM t ORDER BY a), d AS (SELECT a FROM c ORDER BY a) SELECT a FROM d",
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "ST02")
			assert.Len(t, diags, tt.wantCount)
		})
	}
}

func TestST02_Position(t *testing.T) {
	diags := runRule(t, "WITH c AS (SELECT a FROM t ORDER BY a) SELECT a FROM c", "ST02")
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Line())
	assert.Equal(t, 28, diags[0].Column())
	assert.Contains(t, diags[0].Message, "Unnecessary ORDER BY")
}
