package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bqlint/internal/cli/config"
	testlog "github.com/leapstack-labs/bqlint/internal/testutil"
)

// testContext returns a context carrying a config whose state database
// lives in a temp dir.
func testContext(t *testing.T) context.Context {
	t.Helper()
	cfg := &config.Config{
		ProjectRoot:  t.TempDir(),
		Dialect:      config.DefaultDialect,
		StatePath:    filepath.Join(t.TempDir(), "state.db"),
		OutputFormat: "text",
	}
	ctx := context.WithValue(context.Background(), config.ConfigKey(), cfg)
	return context.WithValue(ctx, config.LoggerKey(), testlog.NewTestLogger(t))
}

// execute runs cmd with args and returns stdout and stderr.
func execute(ctx context.Context, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}
