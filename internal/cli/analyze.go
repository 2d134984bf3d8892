package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskanalyzer/internal/app"
	"github.com/idilsaglam/taskanalyzer/internal/model"
	"github.com/idilsaglam/taskanalyzer/internal/store/jsonstore"
	"github.com/idilsaglam/taskanalyzer/internal/ui"
)

func newAnalyzeCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Rank the tasks in a JSON file",
		Long: `Rank the tasks listed in a JSON file, or stdin when the file is "-".

The file holds an array of tasks:

  [{"title": "Ship release", "due_date": "2025-01-05", "estimated_hours": 3, "importance": 8}]

Examples:
  taskanalyzer analyze tasks.json
  cat tasks.json | taskanalyzer analyze -
  taskanalyzer analyze --offline --json tasks.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("usage: taskanalyzer analyze <file|->")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, *flags)
			if err != nil {
				return err
			}
			defer e.close()

			var drafts []model.Draft
			if args[0] == "-" {
				drafts, err = jsonstore.Load(cmd.InOrStdin())
			} else {
				drafts, err = jsonstore.LoadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}

			var s app.State
			for i, d := range drafts {
				if s, _, err = app.AddTask(s, d, e.ids.Next()); err != nil {
					return fmt.Errorf("task %d: %w", i+1, err)
				}
			}

			if s, err = app.BeginAnalysis(s); err != nil {
				return err
			}
			res, err := e.prioritizer.Analyze(cmd.Context(), s.Store.Tasks())
			if err != nil {
				return err
			}
			s = app.CompleteAnalysis(s, res)
			if s.Notice != "" {
				ui.Warn(cmd.ErrOrStderr(), s.Notice)
			}

			if asJSON {
				return jsonstore.Save(cmd.OutOrStdout(), s.Ranked)
			}
			ui.Panel(cmd.OutOrStdout(), ui.RankedLines(s.Ranked, s.Source))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranked list as JSON")
	return cmd
}
