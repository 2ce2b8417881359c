package lint

import "github.com/leapstack-labs/bqlint/pkg/core"

// Rule is the base interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "ST01"
	ID() string

	// Name returns the human-readable name, e.g., "structure.unused_cte_column"
	Name() string

	// Group returns the category, e.g., "structure", "performance"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string
}

// SQLRule analyzes individual SQL statements.
type SQLRule interface {
	Rule

	// CheckSQL analyzes a statement and returns diagnostics.
	// The opts parameter contains rule-specific options from configuration.
	CheckSQL(stmt *core.SelectStmt, dialect DialectInfo, opts map[string]any) []Diagnostic

	// Dialects returns dialect restrictions; nil/empty means all dialects.
	Dialects() []string
}

// Documented is implemented by rules that carry long-form documentation.
type Documented interface {
	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
	}

	if sqlRule, ok := r.(SQLRule); ok {
		info.Dialects = sqlRule.Dialects()
	}
	if doc, ok := r.(Documented); ok {
		info.Rationale = doc.Rationale()
		info.BadExample = doc.BadExample()
		info.GoodExample = doc.GoodExample()
		info.Fix = doc.Fix()
	}

	return info
}
