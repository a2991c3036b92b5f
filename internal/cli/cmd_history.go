package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odysseus0/headlines/internal/store"
)

func newHistoryCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var runID int64
	var source string
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List headlines saved by earlier runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			s, err := requireStore(app)
			if err != nil {
				return err
			}
			rows, err := s.ListHistory(cmd.Context(), HistoryOptions{
				RunID:  runID,
				Source: source,
				Search: search,
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), rows)
			case OutputOPML:
				return fmt.Errorf("invalid output format %q for history (expected table|json)", OutputOPML)
			default:
				writeHistoryTable(cmd.OutOrStdout(), rows)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&runID, "run", 0, "Only headlines from this run ID")
	cmd.Flags().StringVar(&source, "source", "", "Only headlines from this source")
	cmd.Flags().StringVar(&search, "search", "", "Full-text search over titles and sources")
	cmd.Flags().IntVar(&limit, "limit", 50, "Result limit")

	cmd.AddCommand(newHistoryRunsCmd(getApp, getOutput))
	cmd.AddCommand(newHistoryRunCmd(getApp, getOutput))
	return cmd
}

func newHistoryRunsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			s, err := requireStore(app)
			if err != nil {
				return err
			}
			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			writeRunsTable(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Result limit")
	return cmd
}

func newHistoryRunCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "run <id>",
		Short: "Show one archived run and how each source resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			s, err := requireStore(app)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
			}
			run, err := s.GetRun(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), run)
			}
			writeRunDetail(cmd.OutOrStdout(), run)
			return nil
		},
	}
}
