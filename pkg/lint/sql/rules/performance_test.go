package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPF01_TableSuffixSubquery(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantCount int
	}{
		{
			name:      "comparison with subquery",
			sql:       "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX > (SELECT MAX(s) FROM d.loaded)",
			wantCount: 1,
		},
		{
			name: "comparison with constant",
			sql:  "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX = '20240101'",
		},
		{
			name:      "in subquery",
			sql:       "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX IN (SELECT s FROM d.loaded)",
			wantCount: 1,
		},
		{
			name: "in list",
			sql:  "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX IN ('a', 'b')",
		},
		{
			name:      "between with subquery bound",
			sql:       "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX BETWEEN (SELECT MIN(s) FROM d.loaded) AND '20241231'",
			wantCount: 1,
		},
		{
			name: "between constants",
			sql:  "SELECT * FROM `p.d.events_*` WHERE _TABLE_SUFFIX BETWEEN '20240101' AND '20241231'",
		},
		{
			name:      "lowercase and qualified",
			sql:       "SELECT * FROM `p.d.events_*` AS e WHERE e._table_suffix >= (SELECT MAX(s) FROM d.loaded)",
			wantCount: 1,
		},
		{
			name:      "nested in a conjunction",
			sql:       "SELECT * FROM `p.d.events_*` WHERE x = 1 AND (_TABLE_SUFFIX < (SELECT MAX(s) FROM d.loaded))",
			wantCount: 1,
		},
		{
			name:      "inside a cte",
			sql:       "WITH c AS (SELECT x FROM `p.d.events_*` WHERE _TABLE_SUFFIX = (SELECT MAX(s) FROM d.loaded)) SELECT x FROM c",
			wantCount: 1,
		},
		{
			name: "outside a where clause",
			sql:  "SELECT _TABLE_SUFFIX = (SELECT MAX(s) FROM d.loaded) AS latest FROM `p.d.events_*`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "PF01")
			assert.Len(t, diags, tt.wantCount)
		})
	}
}

func TestPF01_Position(t *testing.T) {
	sql := "SELECT *\nFROM `p.d.events_*`\nWHERE _TABLE_SUFFIX > (SELECT MAX(s) FROM d.loaded)"
	diags := runRule(t, sql, "PF01")
	require.Len(t, diags, 1)
	assert.Equal(t, "Full scan will cause! Should not compare _TABLE_SUFFIX with subquery", diags[0].Message)
	assert.Equal(t, 3, diags[0].Line())
}
