package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialects/bigquery"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	_ "github.com/leapstack-labs/bqlint/pkg/lint/sql/rules" // register rules
	"github.com/leapstack-labs/bqlint/pkg/parser"
)

// runRule parses sql and returns the diagnostics of one rule.
func runRule(t *testing.T, sqlText string, ruleID string) []lint.Diagnostic {
	t.Helper()
	return runRuleWithConfig(t, sqlText, ruleID, lint.NewConfig())
}

func runRuleWithConfig(t *testing.T, sqlText string, ruleID string, cfg *lint.Config) []lint.Diagnostic {
	t.Helper()
	stmt, err := parser.ParseWithDialect(sqlText, bigquery.BigQuery)
	require.NoError(t, err)

	analyzer := sql.NewAnalyzer(cfg, "bigquery")
	diags := analyzer.Analyze(stmt, bigquery.BigQuery)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func TestRegisteredRules(t *testing.T) {
	tests := []struct {
		id       string
		name     string
		severity core.Severity
	}{
		{"AM01", "ambiguous.invalid_group_by", core.SeverityError},
		{"CV01", "convention.current_date", core.SeverityWarning},
		{"PF01", "performance.table_suffix_subquery", core.SeverityError},
		{"ST01", "structure.unused_cte_column", core.SeverityWarning},
		{"ST02", "structure.unnecessary_order_by", core.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rule, ok := lint.GetSQLRuleByID(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.name, rule.Name())
			assert.Equal(t, tt.severity, rule.DefaultSeverity())
			assert.NotEmpty(t, rule.Description())

			doc, ok := rule.(lint.Documented)
			require.True(t, ok)
			assert.NotEmpty(t, doc.Rationale())
			assert.NotEmpty(t, doc.BadExample())
			assert.NotEmpty(t, doc.GoodExample())
		})
	}
}

func TestDiagnosticsCarryDocumentation(t *testing.T) {
	diags := runRule(t, "SELECT CURRENT_DATE() AS today", "CV01")
	require.Len(t, diags, 1)
	assert.Equal(t, lint.BuildDocURL("CV01"), diags[0].DocumentationURL)
	assert.Positive(t, diags[0].ImpactScore)
}

func TestConfigDisablesRule(t *testing.T) {
	cfg := lint.NewConfig().Disable("CV01")
	assert.Empty(t, runRuleWithConfig(t, "SELECT CURRENT_DATE() AS today", "CV01", cfg))
}

func TestConfigOverridesSeverity(t *testing.T) {
	cfg := lint.NewConfig().SetSeverity("CV01", core.SeverityError)
	diags := runRuleWithConfig(t, "SELECT CURRENT_DATE() AS today", "CV01", cfg)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
}
