package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/bqlint/internal/cli/config"
	"github.com/leapstack-labs/bqlint/internal/cli/output"
	"github.com/leapstack-labs/bqlint/internal/state"
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned by lint when findings remain after filtering.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
	Jobs     int      // Files analysed in parallel
	Baseline bool     // Suppress diagnostics recorded in the baseline
	Summary  bool     // Print per-rule counts
	Watch    bool     // Re-lint on change
	NoRecord bool     // Do not record the run in the state database
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint BigQuery SQL files",
		Long: `Analyze BigQuery SQL files for potential issues.

Directories are searched recursively for *.sql files. With no paths and
piped input, SQL is read from stdin. Each finding is printed as
path:line:col: message.

Rules can be configured in .bqlint.yaml. A finding on a line carrying
"-- noqa" (or "-- noqa: ST01") is suppressed.`,
		Example: `  # Lint the current directory
  bqlint lint .

  # Lint from stdin
  cat query.sql | bqlint lint

  # Output as JSON
  bqlint lint queries/ --format json

  # Disable specific rules
  bqlint lint --disable CV01,ST02 .

  # Only report errors
  bqlint lint --severity error .

  # Ignore findings already in the baseline
  bqlint lint --baseline .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return runLintWatch(cmd, args, opts)
			}
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files analysed in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Baseline, "baseline", false, "Suppress findings recorded by 'bqlint baseline update'")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Print a table of findings per rule")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when SQL files change")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not record the run in the state database")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// lintRun is the outcome of one lint pass.
type lintRun struct {
	Results    []fileResult
	Files      int
	Suppressed int
}

// Issues counts the diagnostics that remain.
func (lr *lintRun) Issues() int {
	n := 0
	for _, res := range lr.Results {
		n += len(res.Diagnostics)
	}
	return n
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)

	run, err := lintOnce(cmd.Context(), cmdCtx, cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}

	renderLintResults(cmdCtx.Renderer, run)
	if opts.Summary {
		renderLintSummaryTable(cmdCtx.Renderer, run)
	}

	if run.Issues() > 0 {
		return ErrLintIssues
	}
	return nil
}

// lintOnce collects inputs, analyses them, applies filters and the
// baseline, and records the run.
func lintOnce(ctx context.Context, cmdCtx *CommandContext, stdin io.Reader, args []string, opts *LintOptions) (*lintRun, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cmdCtx.Logger

	threshold := core.SeverityHint
	if opts.Severity != "" {
		var ok bool
		if threshold, ok = core.ParseSeverity(opts.Severity); !ok {
			return nil, fmt.Errorf("invalid severity %q (want error, warning, info or hint)", opts.Severity)
		}
	}
	lintCfg, err := buildLintConfig(cmdCtx.Cfg, opts)
	if err != nil {
		return nil, err
	}
	d, err := cmdCtx.Dialect()
	if err != nil {
		return nil, err
	}
	l := newLinter(lintCfg, d, logger, opts.Jobs)

	var results []fileResult
	if useStdin(args, stdin) {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		results = []fileResult{l.lintSource(StdinPath, string(src))}
	} else {
		if len(args) == 0 {
			args = []string{"."}
		}
		files, err := collectSQLFiles(args)
		if err != nil {
			return nil, err
		}
		logger.Debug("collected files", slog.Int("count", len(files)))
		if results, err = l.lintFiles(ctx, files); err != nil {
			return nil, err
		}
	}

	run := &lintRun{Files: len(results)}
	results = filterBySeverity(results, threshold)

	var store *state.SQLiteStore
	if opts.Baseline || !opts.NoRecord {
		store, err = cmdCtx.OpenStore(ctx)
		switch {
		case err == nil:
			defer func() { _ = store.Close() }()
		case opts.Baseline:
			return nil, err
		default:
			logger.Warn("state database unavailable, run not recorded", slog.String("error", err.Error()))
		}
	}

	if opts.Baseline {
		entries, err := store.ListBaseline(ctx)
		if err != nil {
			return nil, err
		}
		results, run.Suppressed = applyBaseline(results, state.NewBaseline(entries))
	}
	run.Results = results

	if store != nil && !opts.NoRecord {
		recordRun(ctx, store, run, logger)
	}
	return run, nil
}

// useStdin reports whether SQL should be read from stdin: either "-" was
// given, or no paths were given and stdin is not a terminal.
func useStdin(args []string, stdin io.Reader) bool {
	if len(args) == 1 && args[0] == "-" {
		return true
	}
	return len(args) == 0 && stdin != nil && !output.IsTerminal(stdin)
}

// recordRun stores run statistics. Failures are logged, not fatal.
func recordRun(ctx context.Context, store state.Store, run *lintRun, logger *slog.Logger) {
	rec, err := store.CreateRun(ctx, run.Files)
	if err != nil {
		logger.Warn("failed to record run", slog.String("error", err.Error()))
		return
	}
	if err := store.CompleteRun(ctx, rec.ID, run.Issues()); err != nil {
		logger.Warn("failed to complete run", slog.String("error", err.Error()))
	}
}

// buildLintConfig merges the project config with command-line flags.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	var fileCfg *config.LintConfig
	if cfg != nil {
		fileCfg = cfg.Lint
	}
	lintCfg, err := fileCfg.ToLintConfig()
	if err != nil {
		return nil, err
	}

	for _, id := range opts.Disable {
		if id = strings.TrimSpace(id); id != "" {
			lintCfg.Disable(id)
		}
	}
	for _, id := range opts.Rules {
		id = strings.TrimSpace(id)
		if _, ok := lint.GetSQLRuleByID(strings.ToUpper(id)); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		lintCfg.Only(id)
	}
	return lintCfg, nil
}

func filterBySeverity(results []fileResult, threshold core.Severity) []fileResult {
	filtered := make([]fileResult, 0, len(results))
	for _, r := range results {
		var diags []lint.Diagnostic
		for _, d := range r.Diagnostics {
			if d.Severity <= threshold {
				diags = append(diags, d)
			}
		}
		filtered = append(filtered, fileResult{Path: r.Path, Diagnostics: diags})
	}
	return filtered
}

func baselineEntry(path string, d lint.Diagnostic) state.BaselineEntry {
	return state.BaselineEntry{
		Path:    path,
		RuleID:  d.RuleID,
		Message: d.Message,
		Line:    d.Pos.Line,
		Column:  d.Pos.Column,
	}
}

// applyBaseline removes diagnostics present in the baseline.
func applyBaseline(results []fileResult, b state.Baseline) ([]fileResult, int) {
	suppressed := 0
	out := make([]fileResult, 0, len(results))
	for _, r := range results {
		var diags []lint.Diagnostic
		for _, d := range r.Diagnostics {
			if b.Suppress(baselineEntry(r.Path, d)) {
				suppressed++
				continue
			}
			diags = append(diags, d)
		}
		out = append(out, fileResult{Path: r.Path, Diagnostics: diags})
	}
	return out, suppressed
}

func summarize(run *lintRun) output.LintSummary {
	summary := output.LintSummary{
		FilesAnalyzed: run.Files,
		Suppressed:    run.Suppressed,
	}
	for _, res := range run.Results {
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			case core.SeverityInfo:
				summary.Info++
			case core.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func renderLintResults(r *output.Renderer, run *lintRun) {
	summary := summarize(run)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		doc := output.LintOutput{Summary: summary, Files: []output.LintFileResult{}}
		for _, res := range run.Results {
			if len(res.Diagnostics) == 0 {
				continue
			}
			fileResult := output.LintFileResult{Path: res.Path}
			for _, d := range res.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:           d.RuleID,
					Severity:         d.Severity.String(),
					Message:          d.Message,
					Line:             d.Pos.Line,
					Column:           d.Pos.Column,
					EndLine:          d.EndPos.Line,
					EndColumn:        d.EndPos.Column,
					DocumentationURL: d.DocumentationURL,
				})
			}
			doc.Files = append(doc.Files, fileResult)
		}
		_ = r.JSON(doc)
		return

	case output.ModeMarkdown:
		if summary.TotalIssues == 0 {
			r.Success("No lint issues found")
			return
		}
		r.Println("# Lint Results")
		r.Println("")
		for _, res := range run.Results {
			if len(res.Diagnostics) == 0 {
				continue
			}
			r.Printf("## %s\n\n", res.Path)
			for _, d := range res.Diagnostics {
				r.Printf("- `%d:%d` **%s** (%s): %s\n", d.Pos.Line, d.Pos.Column, d.RuleID, d.Severity, d.Message)
			}
			r.Println("")
		}
		r.Printf("**Summary:** %s in %d files\n", summaryText(summary), summary.FilesAnalyzed)
		return
	}

	if summary.TotalIssues == 0 {
		r.Success("No lint issues found")
		return
	}

	// path:line:col: message
	styles := r.Styles()
	for _, res := range run.Results {
		for _, d := range res.Diagnostics {
			r.Printf("%s:%d:%d: %s", styles.FilePath.Render(res.Path), d.Pos.Line, d.Pos.Column, d.Message)
			if r.IsTTY() {
				r.Printf("  %s %s", severityStyle(r, d.Severity), styles.Muted.Render(d.RuleID))
			}
			r.Println()
		}
	}
	if r.IsTTY() {
		r.Println("")
		r.Println(styles.Bold.Render(fmt.Sprintf("Summary: %s in %d files", summaryText(summary), summary.FilesAnalyzed)))
	}
}

func summaryText(s output.LintSummary) string {
	parts := []string{fmt.Sprintf("%d issues", s.TotalIssues)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	if s.Suppressed > 0 {
		parts = append(parts, fmt.Sprintf("%d suppressed by baseline", s.Suppressed))
	}
	return strings.Join(parts, ", ")
}

// renderLintSummaryTable prints findings per rule. Skipped in JSON mode,
// where the summary is part of the document.
func renderLintSummaryTable(r *output.Renderer, run *lintRun) {
	if r.EffectiveMode() == output.ModeJSON {
		return
	}

	type ruleCount struct {
		id       string
		severity core.Severity
		count    int
	}
	counts := make(map[string]*ruleCount)
	for _, res := range run.Results {
		for _, d := range res.Diagnostics {
			rc, ok := counts[d.RuleID]
			if !ok {
				rc = &ruleCount{id: d.RuleID, severity: d.Severity}
				counts[d.RuleID] = rc
			}
			rc.count++
		}
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]any, 0, len(ids))
	for _, id := range ids {
		rc := counts[id]
		name := id
		if rule, ok := lint.GetSQLRuleByID(id); ok {
			name = rule.Name()
		}
		rows = append(rows, []any{rc.id, name, rc.severity.String(), rc.count})
	}

	r.Println("")
	r.Table([]string{"Rule", "Name", "Severity", "Count"}, rows)
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
