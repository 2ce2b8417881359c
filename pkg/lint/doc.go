// Package lint provides the rule contracts, registry and configuration for
// BigQuery SQL linting.
//
// # Architecture
//
//  1. Root package (pkg/lint/): shared contracts, diagnostics, the registry and Config
//  2. SQL subsystem (pkg/lint/sql/): RuleDef, the Analyzer and AST helpers
//  3. Rules (pkg/lint/sql/rules/): rule implementations registered via init()
//
// # Rule Registration
//
// Rules are registered when their package is imported:
//
//	import _ "github.com/leapstack-labs/bqlint/pkg/lint/sql/rules"
//
// # Rule Categories
//
//   - AM (Ambiguous): constructs whose result is ill-defined
//   - CV (Convention): discouraged functions and idioms
//   - PF (Performance): patterns that defeat partition pruning
//   - ST (Structure): dead or redundant query structure
//
// # Using the Registry
//
//	rules := lint.AllRules()
//	rule, ok := lint.GetSQLRuleByID("ST01")
//	structure := lint.GetSQLRulesByGroup("structure")
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable("CV01")
//	config.SetSeverity("ST02", core.SeverityError)
//	config.SetRuleOptions("ST01", map[string]any{"ignore_columns": []string{"_loaded_at"}})
//
// Rules decode their options with DecodeOptions.
package lint
