// Package core defines the shared language of bqlint.
//
// This package contains:
//   - The SQL syntax tree (statements, table references, expressions)
//   - Dialect configuration data (DialectConfig, clause and operator definitions)
//   - Lint severities and rule metadata
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
