package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/bqlint/internal/cli/config"
	"github.com/leapstack-labs/bqlint/internal/cli/output"
	"github.com/leapstack-labs/bqlint/internal/state"
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	_ "github.com/leapstack-labs/bqlint/pkg/dialects/bigquery" // register dialect
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the loaded config.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.GetConfig(ctx)

	if format == "" {
		format = cfg.OutputFormat
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}
}

// Dialect returns the configured SQL dialect.
func (c *CommandContext) Dialect() (*dialect.Dialect, error) {
	return dialect.Lookup(c.Cfg.Dialect)
}

// OpenStore opens the state database. The caller closes it.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(ctx, c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state database %s: %w", c.Cfg.StatePath, err)
	}
	return store, nil
}
