package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCV01_CurrentDate(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantCount int
	}{
		{
			name:      "bare current_date",
			sql:       "SELECT CURRENT_DATE AS today",
			wantCount: 1,
		},
		{
			name:      "current_date call",
			sql:       "SELECT * FROM t WHERE event_date = CURRENT_DATE()",
			wantCount: 1,
		},
		{
			name:      "current_date with time zone",
			sql:       "SELECT current_date('Asia/Tokyo') AS today",
			wantCount: 1,
		},
		{
			name:      "inside a cte",
			sql:       "WITH c AS (SELECT DATE_SUB(CURRENT_DATE(), INTERVAL 1 DAY) AS d) SELECT d FROM c",
			wantCount: 1,
		},
		{
			name:      "every use",
			sql:       "SELECT CURRENT_DATE() AS a, current_date AS b",
			wantCount: 2,
		},
		{
			name: "current_timestamp",
			sql:  "SELECT CURRENT_TIMESTAMP() AS now",
		},
		{
			name: "column named current_date on a table",
			sql:  "SELECT t.current_date FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "CV01")
			assert.Len(t, diags, tt.wantCount)
		})
	}
}

func TestCV01_Position(t *testing.T) {
	diags := runRule(t, "SELECT CURRENT_DATE() AS today", "CV01")
	require.Len(t, diags, 1)
	assert.Equal(t, "CURRENT_DATE is used!", diags[0].Message)
	assert.Equal(t, 1, diags[0].Line())
	assert.Equal(t, 8, diags[0].Column())
}
