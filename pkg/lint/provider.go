package lint

import "github.com/leapstack-labs/bqlint/pkg/core"

// Provider is the base interface for lint providers.
type Provider interface {
	Name() string
}

// SQLProvider analyzes individual SQL statements.
// Implemented by the SQL analyzer for statement-level linting.
type SQLProvider interface {
	Provider
	AnalyzeStatement(stmt *core.SelectStmt, dialect DialectInfo) []Diagnostic
}
