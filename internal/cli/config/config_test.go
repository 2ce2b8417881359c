package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bqlint/pkg/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Nil(t, cfg.Lint)
	assert.Empty(t, GetConfigFileUsed())

	root, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yaml"), `
output: json
state_path: tmp/lint.db
lint:
  disabled: [CV01]
  severity:
    ST01: error
  rules:
    ST01:
      ignore_columns: [etl_loaded_at]
`)
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "tmp", "lint.db"), cfg.StatePath)
	assert.Equal(t, ".bqlint.yaml", filepath.Base(GetConfigFileUsed()))
	require.NotNil(t, cfg.Lint)
	assert.Equal(t, []string{"CV01"}, cfg.Lint.Disabled)
	assert.Equal(t, "error", cfg.Lint.Severity["ST01"])
	assert.Contains(t, cfg.Lint.Rules, "ST01")

	lc, err := cfg.Lint.ToLintConfig()
	require.NoError(t, err)
	assert.True(t, lc.IsDisabled("cv01"))
	assert.Equal(t, core.SeverityError, lc.GetSeverity("ST01", core.SeverityWarning))
	assert.NotNil(t, lc.GetRuleOptions("ST01"))
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yml"), "output: markdown\n")
	nested := filepath.Join(dir, "queries", "daily")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, ".bqlint.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "custom.yaml")
	writeFile(t, path, "output: text\n")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yaml"), "output: markdown\nverbose: false\n")
	t.Chdir(dir)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("BQLINT_OUTPUT", "json")
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("BQLINT_OUTPUT", "json")
		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{"-o", "text", "--verbose"}))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.OutputFormat)
		assert.True(t, cfg.Verbose)
	})

	t.Run("unset flags do not override", func(t *testing.T) {
		flags := newFlagSet()
		require.NoError(t, flags.Parse(nil))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("state flag maps to state_path", func(t *testing.T) {
		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{"--state", "other/state.db"}))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		abs, _ := filepath.Abs("other/state.db")
		assert.Equal(t, abs, cfg.StatePath)
	})

	t.Run("in-memory state", func(t *testing.T) {
		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{"--state", ":memory:"}))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, ":memory:", cfg.StatePath)
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yaml"), "output: text\n")
	writeFile(t, filepath.Join(dir, ".env"), "BQLINT_STATE_PATH=from-dotenv.db\n")
	t.Chdir(dir)
	// Registered so the variable set by godotenv is removed after the test.
	t.Setenv("BQLINT_STATE_PATH", "")
	require.NoError(t, os.Unsetenv("BQLINT_STATE_PATH"))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "from-dotenv.db"), cfg.StatePath)
}

func TestLoadConfig_InvalidSeverity(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yaml"), "lint:\n  severity:\n    ST01: loud\n")
	t.Chdir(dir)

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid severity "loud" for rule ST01`)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bqlint.yaml"), "lint: [unclosed\n")
	t.Chdir(dir)

	_, err := LoadConfig("", nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLintConfig_NilIsDefault(t *testing.T) {
	var lc *LintConfig
	cfg, err := lc.ToLintConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsDisabled("ST01"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetConfig(t *testing.T) {
	def := GetConfig(context.Background())
	assert.Equal(t, Default(), def)

	cfg := &Config{OutputFormat: "json"}
	ctx := context.WithValue(context.Background(), ConfigKey(), cfg)
	assert.Same(t, cfg, GetConfig(ctx))
}
