package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/bqlint/internal/cli/output"
	"github.com/leapstack-labs/bqlint/internal/state"
	"github.com/spf13/cobra"
)

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the set of accepted findings",
		Long: `A baseline records the findings present today so that 'bqlint lint
--baseline' reports only new ones. Findings are matched by file, rule and
message, so they survive code moving up or down the file.`,
	}
	cmd.AddCommand(newBaselineUpdateCommand())
	cmd.AddCommand(newBaselineShowCommand())
	return cmd
}

func newBaselineUpdateCommand() *cobra.Command {
	opts := &LintOptions{Severity: "hint"}
	cmd := &cobra.Command{
		Use:   "update [paths...]",
		Short: "Replace the baseline with the current findings",
		Example: `  # Accept every current finding
  bqlint baseline update .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, "")
			ctx := cmd.Context()

			// Record the run below, once the baseline is stored.
			lintOpts := *opts
			lintOpts.NoRecord = true
			run, err := lintOnce(ctx, cmdCtx, cmd.InOrStdin(), args, &lintOpts)
			if err != nil {
				return err
			}

			var entries []state.BaselineEntry
			for _, res := range run.Results {
				for _, d := range res.Diagnostics {
					if d.RuleID == ParseRuleID {
						continue
					}
					entries = append(entries, baselineEntry(res.Path, d))
				}
			}

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.CreateRun(ctx, run.Files)
			if err != nil {
				return err
			}
			if err := store.ReplaceBaseline(ctx, rec.ID, entries); err != nil {
				return err
			}
			if err := store.CompleteRun(ctx, rec.ID, run.Issues()); err != nil {
				return err
			}

			cmdCtx.Logger.Debug("baseline updated", slog.String("run", rec.ID), slog.Int("entries", len(entries)))
			cmdCtx.Renderer.Success(fmt.Sprintf("Baseline updated: %d findings in %d files", len(entries), run.Files))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Record only specific rules")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files analysed in parallel (default GOMAXPROCS)")
	return cmd
}

func newBaselineShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the findings in the baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd, format)
			r := cmdCtx.Renderer

			store, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.ListBaseline(cmd.Context())
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				if entries == nil {
					entries = []state.BaselineEntry{}
				}
				return r.JSON(entries)
			}
			if len(entries) == 0 {
				r.Println("Baseline is empty")
				return nil
			}

			rows := make([][]any, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []any{e.Path, fmt.Sprintf("%d:%d", e.Line, e.Column), e.RuleID, e.Message})
			}
			r.Table([]string{"Path", "Position", "Rule", "Message"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lint runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd, format)
			r := cmdCtx.Renderer

			store, err := cmdCtx.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				if runs == nil {
					runs = []*state.Run{}
				}
				return r.JSON(runs)
			}
			if len(runs) == 0 {
				r.Println("No runs recorded")
				return nil
			}

			rows := make([][]any, 0, len(runs))
			for _, run := range runs {
				duration := "-"
				if run.CompletedAt != nil {
					duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				rows = append(rows, []any{
					run.StartedAt.Local().Format(time.DateTime),
					run.Files,
					run.Issues,
					duration,
				})
			}
			r.Table([]string{"Started", "Files", "Issues", "Duration"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}
