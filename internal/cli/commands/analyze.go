package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/lint/sql"
	_ "github.com/leapstack-labs/bqlint/pkg/lint/sql/rules" // register SQL rules
	"github.com/leapstack-labs/bqlint/pkg/parser"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ParseRuleID identifies diagnostics for files that could not be parsed.
const ParseRuleID = "parse"

// StdinPath is the display path of SQL read from standard input.
const StdinPath = "<stdin>"

// fileResult holds lint results for a single file.
type fileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
}

// linter runs the analyzer over SQL sources. Each source is analysed
// independently, so files fan out across goroutines without locking.
type linter struct {
	analyzer *sql.Analyzer
	dialect  *dialect.Dialect
	logger   *slog.Logger
	jobs     int
}

func newLinter(cfg *lint.Config, d *dialect.Dialect, logger *slog.Logger, jobs int) *linter {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &linter{
		analyzer: sql.NewAnalyzer(cfg, d.Name),
		dialect:  d,
		logger:   logger,
		jobs:     jobs,
	}
}

// lintSource parses a script and analyses each statement.
// A parse failure yields a single parse diagnostic; statements the parser
// recovered are still analysed.
func (l *linter) lintSource(path, src string) fileResult {
	res := fileResult{Path: path}

	file, err := parser.ParseFile(src, l.dialect)
	if err != nil {
		l.logger.Debug("parse failed", slog.String("path", path), slog.String("error", err.Error()))
		res.Diagnostics = append(res.Diagnostics, parseDiagnostic(err))
	}
	if file == nil {
		return res
	}

	for _, stmt := range file.Statements {
		res.Diagnostics = append(res.Diagnostics, l.analyzer.Analyze(stmt, l.dialect)...)
	}
	res.Diagnostics = applyNoqa(res.Diagnostics, file.Comments)
	slices.SortStableFunc(res.Diagnostics, lint.Compare)
	return res
}

// lintFiles analyses files concurrently. Results keep the order of files.
func (l *linter) lintFiles(ctx context.Context, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path) //nolint:gosec // path comes from the user's arguments
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = l.lintSource(path, string(src))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Debug("analysed files", slog.Int("files", len(files)), slog.Int("jobs", l.jobs))
	return results, nil
}

// parseDiagnostic converts a parser error into a diagnostic.
func parseDiagnostic(err error) lint.Diagnostic {
	d := lint.Diagnostic{
		RuleID:   ParseRuleID,
		Severity: core.SeverityError,
		Message:  err.Error(),
	}

	var pe *parser.ParseError
	var le *parser.LexError
	switch {
	case errors.As(err, &pe):
		d.Pos = pe.Pos
		d.Message = "parse error: " + pe.Message
	case errors.As(err, &le):
		d.Pos = le.Pos
		d.Message = "lexer error: " + le.Message
	}
	return d
}

// applyNoqa drops diagnostics suppressed by a "-- noqa" comment on the same
// line. "-- noqa: ST01, CV01" limits suppression to the listed rules.
// Parse diagnostics cannot be suppressed.
func applyNoqa(diags []lint.Diagnostic, comments []*token.Comment) []lint.Diagnostic {
	if len(diags) == 0 || len(comments) == 0 {
		return diags
	}

	// line -> rule IDs; nil means every rule
	suppress := make(map[int]map[string]bool)
	for _, c := range comments {
		body := c.Body()
		if !strings.HasPrefix(strings.ToLower(body), "noqa") {
			continue
		}
		rest := strings.TrimSpace(body[len("noqa"):])
		line := c.Span.Start.Line
		if !strings.HasPrefix(rest, ":") {
			suppress[line] = nil
			continue
		}
		ids, ok := suppress[line]
		if ok && ids == nil {
			continue
		}
		if ids == nil {
			ids = make(map[string]bool)
			suppress[line] = ids
		}
		for _, id := range strings.Split(rest[1:], ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids[strings.ToUpper(id)] = true
			}
		}
	}

	kept := diags[:0]
	for _, d := range diags {
		ids, ok := suppress[d.Pos.Line]
		if ok && d.RuleID != ParseRuleID && (ids == nil || ids[strings.ToUpper(d.RuleID)]) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// collectSQLFiles expands paths into a sorted, de-duplicated list of files.
// Directories are walked recursively for *.sql files; hidden directories
// are skipped. Explicit file arguments are kept whatever their extension.
func collectSQLFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".sql") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}
