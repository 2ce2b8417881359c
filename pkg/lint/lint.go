package lint

import (
	"cmp"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// DialectInfo is the slice of dialect behaviour rules depend on.
// Implemented by dialect.Dialect.
type DialectInfo interface {
	GetName() string
	NormalizeName(name string) string
	IsAggregate(name string) bool
	IsWindow(name string) bool
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Severity core.Severity
	Message  string
	Pos      token.Position
	EndPos   token.Position // Optional: end of the problematic range

	// DocumentationURL links to the rule's documentation page.
	DocumentationURL string
	// ImpactScore ranks findings for reporting (0-100).
	ImpactScore int
}

// Line returns the 1-based line of the diagnostic.
func (d Diagnostic) Line() int { return d.Pos.Line }

// Column returns the 1-based column of the diagnostic.
func (d Diagnostic) Column() int { return d.Pos.Column }

// Compare orders diagnostics by position, then rule ID.
func Compare(a, b Diagnostic) int {
	if c := cmp.Compare(a.Pos.Line, b.Pos.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Pos.Column, b.Pos.Column); c != 0 {
		return c
	}
	return strings.Compare(a.RuleID, b.RuleID)
}
