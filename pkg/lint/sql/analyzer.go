package sql

import (
	"slices"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
)

// Analyzer runs SQL lint rules against parsed statements.
// An Analyzer holds no per-statement state and is safe for concurrent use.
type Analyzer struct {
	config  *lint.Config
	dialect string // Filter rules by dialect (empty = all)
}

var _ lint.SQLProvider = (*Analyzer)(nil)

// NewAnalyzer creates a new SQL analyzer with optional configuration.
func NewAnalyzer(config *lint.Config, dialect string) *Analyzer {
	if config == nil {
		config = lint.NewConfig()
	}
	return &Analyzer{
		config:  config,
		dialect: dialect,
	}
}

// Name implements lint.Provider.
func (a *Analyzer) Name() string { return "sql" }

// AnalyzeStatement implements lint.SQLProvider.
func (a *Analyzer) AnalyzeStatement(stmt *core.SelectStmt, dialect lint.DialectInfo) []lint.Diagnostic {
	return a.Analyze(stmt, dialect)
}

// Analyze runs all enabled rules against the statement. Diagnostics are
// ordered by position, then rule ID.
func (a *Analyzer) Analyze(stmt *core.SelectStmt, dialect lint.DialectInfo) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}

	dialectName := a.dialect
	if dialectName == "" && dialect != nil {
		dialectName = dialect.GetName()
	}

	var rules []lint.SQLRule
	if dialectName != "" {
		rules = lint.GetSQLRulesByDialect(dialectName)
	} else {
		rules = lint.GetAllSQLRules()
	}

	var diagnostics []lint.Diagnostic
	for _, rule := range rules {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		opts := a.config.GetRuleOptions(rule.ID())
		diags := rule.CheckSQL(stmt, dialect, opts)

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	slices.SortStableFunc(diagnostics, lint.Compare)
	return diagnostics
}

// AnalyzeMultiple runs analysis on multiple statements.
func (a *Analyzer) AnalyzeMultiple(stmts []*core.SelectStmt, dialect lint.DialectInfo) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, stmt := range stmts {
		diagnostics = append(diagnostics, a.Analyze(stmt, dialect)...)
	}
	return diagnostics
}
