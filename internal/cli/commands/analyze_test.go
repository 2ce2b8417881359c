package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bqlint/internal/cli/testutil"
	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/dialects/bigquery"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/leapstack-labs/bqlint/pkg/parser"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

func newTestLinter(t *testing.T, jobs int) *linter {
	t.Helper()
	return newLinter(lint.NewConfig(), bigquery.BigQuery, nil, jobs)
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestCollectSQLFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSQLFiles(t, dir, map[string]string{
		"b.sql":          "SELECT 1",
		"a.SQL":          "SELECT 1",
		"sub/c.sql":      "SELECT 1",
		"notes.txt":      "not sql",
		".hidden/d.sql":  "SELECT 1",
		"sub/.git/e.sql": "SELECT 1",
		"explicit.bqsql": "SELECT 1",
	})

	t.Run("walks directories", func(t *testing.T) {
		files, err := collectSQLFiles([]string{dir})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.SQL"),
			filepath.Join(dir, "b.sql"),
			filepath.Join(dir, "sub", "c.sql"),
		}, files)
	})

	t.Run("keeps explicit files and dedups", func(t *testing.T) {
		explicit := filepath.Join(dir, "explicit.bqsql")
		files, err := collectSQLFiles([]string{explicit, filepath.Join(dir, "sub"), filepath.Join(dir, "sub", "c.sql")})
		require.NoError(t, err)
		assert.Equal(t, []string{explicit, filepath.Join(dir, "sub", "c.sql")}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := collectSQLFiles([]string{filepath.Join(dir, "missing")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLintSource(t *testing.T) {
	l := newTestLinter(t, 1)

	t.Run("finds issues in order", func(t *testing.T) {
		res := l.lintSource("q.sql", "WITH src AS (SELECT id, email FROM d.users)\nSELECT id, CURRENT_DATE AS today FROM src")
		assert.Equal(t, "q.sql", res.Path)
		assert.Equal(t, []string{"ST01", "CV01"}, ruleIDs(res.Diagnostics))
		assert.Equal(t, "Unused column: email", res.Diagnostics[0].Message)
	})

	t.Run("clean script", func(t *testing.T) {
		res := l.lintSource("q.sql", "SELECT id FROM d.users;\nSELECT name FROM d.users;")
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("parse error", func(t *testing.T) {
		res := l.lintSource("bad.sql", "SELECT FROM WHERE")
		require.NotEmpty(t, res.Diagnostics)
		d := res.Diagnostics[0]
		assert.Equal(t, ParseRuleID, d.RuleID)
		assert.Equal(t, core.SeverityError, d.Severity)
		assert.Contains(t, d.Message, "error: ")
	})

	t.Run("noqa", func(t *testing.T) {
		res := l.lintSource("q.sql", "SELECT CURRENT_DATE AS today -- noqa\n")
		assert.Empty(t, res.Diagnostics)

		res = l.lintSource("q.sql", "SELECT CURRENT_DATE AS today -- noqa: ST01\n")
		assert.Equal(t, []string{"CV01"}, ruleIDs(res.Diagnostics))
	})
}

func TestLintFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	files, err := collectSQLFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 3)

	results, err := newTestLinter(t, 2).lintFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, files[i], res.Path)
	}
	assert.Empty(t, results[0].Diagnostics)
	assert.Equal(t, []string{"CV01"}, ruleIDs(results[1].Diagnostics))
	assert.Equal(t, []string{"ST01"}, ruleIDs(results[2].Diagnostics))

	t.Run("unreadable file", func(t *testing.T) {
		_, err := newTestLinter(t, 1).lintFiles(context.Background(), []string{filepath.Join(dir, "gone.sql")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestParseDiagnostic(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7}

	d := parseDiagnostic(&parser.ParseError{Pos: pos, Message: "expected FROM"})
	assert.Equal(t, "parse error: expected FROM", d.Message)
	assert.Equal(t, pos, d.Pos)
	assert.Equal(t, ParseRuleID, d.RuleID)

	d = parseDiagnostic(&parser.LexError{Pos: pos, Message: "unterminated string"})
	assert.Equal(t, "lexer error: unterminated string", d.Message)
	assert.Equal(t, pos, d.Pos)
}

func TestApplyNoqa(t *testing.T) {
	diag := func(id string, line int) lint.Diagnostic {
		return lint.Diagnostic{RuleID: id, Pos: token.Position{Line: line, Column: 1}}
	}
	comment := func(text string, line int) *token.Comment {
		return &token.Comment{Text: text, Span: token.Span{Start: token.Position{Line: line}}}
	}

	diags := []lint.Diagnostic{diag("ST01", 1), diag("CV01", 1), diag("CV01", 2), diag(ParseRuleID, 3), diag("ST02", 4)}
	comments := []*token.Comment{
		comment("-- noqa: cv01", 1),
		comment("-- NOQA", 3),
		comment("-- unrelated", 4),
	}

	kept := applyNoqa(diags, comments)
	assert.Equal(t, []string{"ST01", "CV01", ParseRuleID, "ST02"}, ruleIDs(kept))
}
