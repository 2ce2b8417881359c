package rules

import (
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql/cteusage"
)

func init() {
	sql.Register(UnusedCTEColumn)
}

// UnusedCTEColumn reports CTE output columns that no downstream query reads.
var UnusedCTEColumn = sql.RuleDef{
	ID:          "ST01",
	Name:        "structure.unused_cte_column",
	Group:       "structure",
	Description: "CTE columns should be consumed by a downstream query.",
	Severity:    core.SeverityWarning,
	Check:       checkUnusedCTEColumn,
	ConfigKeys:  []string{"ignore_columns"},

	Rationale: `A column selected in a CTE but never referenced afterwards is dead weight.
In BigQuery every selected column of a base table is scanned and billed, so an
unused column projected from a wide table costs money on every run. It also
misleads readers about which data the query depends on.`,

	BadExample: `WITH users AS (
    SELECT id, name, email
    FROM dataset.users
)
SELECT id, name FROM users`,

	GoodExample: `WITH users AS (
    SELECT id, name
    FROM dataset.users
)
SELECT id, name FROM users`,

	Fix: "Remove the column from the CTE, or add it to ignore_columns if it is kept on purpose.",
}

type unusedCTEColumnOptions struct {
	IgnoreColumns []string `mapstructure:"ignore_columns"`
}

func checkUnusedCTEColumn(stmt *core.SelectStmt, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	if stmt == nil || stmt.With == nil {
		return nil
	}

	var options unusedCTEColumnOptions
	if err := lint.DecodeOptions(opts, &options); err != nil {
		options = unusedCTEColumnOptions{}
	}
	ignored := make(map[string]bool, len(options.IgnoreColumns))
	for _, name := range options.IgnoreColumns {
		ignored[dialect.Fold(name)] = true
	}

	var diagnostics []lint.Diagnostic
	for _, v := range cteusage.Analyze(stmt) {
		if ignored[dialect.Fold(v.Column)] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "ST01",
			Severity:         core.SeverityWarning,
			Message:          v.Message(),
			Pos:              v.Span.Start,
			EndPos:           v.Span.End,
			DocumentationURL: lint.BuildDocURL("ST01"),
			ImpactScore:      lint.ImpactHigh.Int(),
		})
	}
	return diagnostics
}
