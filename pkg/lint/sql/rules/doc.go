// Package rules contains the BigQuery lint rules.
//
// Rules are organized by prefix to indicate their category:
//
//   - am*.go: Ambiguous rules (queries BigQuery rejects or may misread)
//   - cv*.go: Convention rules (style and reproducibility)
//   - pf*.go: Performance rules (constructs that defeat pruning)
//   - st*.go: Structure rules (dead or redundant query parts)
//
// Import this package to register all rules:
//
//	import _ "github.com/leapstack-labs/bqlint/pkg/lint/sql/rules"
package rules
