package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/bqlint/pkg/core"
)

func TestRulesCommand_List(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "")
		require.NoError(t, err)
		assert.Contains(t, out, "Lint Rules (5)")
		for _, id := range []string{"AM01", "CV01", "PF01", "ST01", "ST02"} {
			assert.Contains(t, out, id)
		}
		assert.Contains(t, out, "Structure")
	})

	t.Run("group filter", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "--group", "structure")
		require.NoError(t, err)
		assert.Contains(t, out, "Lint Rules (2)")
		assert.NotContains(t, out, "CV01")
	})

	t.Run("markdown", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "--format", "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "# Lint Rules")
		assert.Contains(t, out, "## Performance")
		assert.Contains(t, out, "- **PF01** - performance.table_suffix_subquery (`error`)")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "--format", "json")
		require.NoError(t, err)

		var doc RulesOutput
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, 5, doc.Count)
		require.Len(t, doc.Rules, 5)
		assert.Equal(t, "AM01", doc.Rules[0].ID)
		assert.Equal(t, core.SeverityError, doc.Rules[0].DefaultSeverity)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "default_severity: warning")

		var doc RulesOutput
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, 5, doc.Count)
	})
}

func TestRulesCommand_Show(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "st01")
		require.NoError(t, err)
		assert.Contains(t, out, "ST01 - structure.unused_cte_column")
		assert.Contains(t, out, "Description")
		assert.Contains(t, out, "Options: ignore_columns")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(testContext(t), NewRulesCommand(), "", "CV01", "--format", "json")
		require.NoError(t, err)

		var info core.RuleInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Equal(t, "CV01", info.ID)
		assert.Equal(t, "convention", info.Group)
		assert.Equal(t, core.SeverityWarning, info.DefaultSeverity)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := execute(testContext(t), NewRulesCommand(), "", "ZZ99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `rule "ZZ99" not found`)
	})
}

func TestTruncateOneLine(t *testing.T) {
	assert.Equal(t, "short", truncateOneLine("short", 10))
	assert.Equal(t, "first line second", truncateOneLine("first line\nsecond", 80))
	assert.Len(t, truncateOneLine("abcdefghijklmnop", 10), 10)
}
