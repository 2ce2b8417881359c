// Package sql provides SQL statement-level linting rules and analysis.
//
// This package contains:
//   - RuleDef for defining rules as data
//   - Analyzer for running rules against parsed statements
//   - AST utilities for rule implementation (internal/ast)
//
// Rules are registered via init() functions and stored in the registry in
// pkg/lint. The analyzer retrieves rules from the registry and filters by
// dialect at runtime.
//
// # Example Usage
//
//	import (
//	    "github.com/leapstack-labs/bqlint/pkg/dialects/bigquery"
//	    "github.com/leapstack-labs/bqlint/pkg/lint"
//	    "github.com/leapstack-labs/bqlint/pkg/lint/sql"
//	    _ "github.com/leapstack-labs/bqlint/pkg/lint/sql/rules" // register all rules
//	)
//
//	analyzer := sql.NewAnalyzer(lint.NewConfig(), "bigquery")
//	diagnostics := analyzer.Analyze(stmt, bigquery.BigQuery)
package sql
