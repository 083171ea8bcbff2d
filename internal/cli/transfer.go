package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/transfer"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		sheet    string
		noHeader bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from an .xlsx or .csv file",
		Long: `Import tasks from a spreadsheet. Columns, in order:

  title, type, due date, priority, start page, end page,
  start question, end question, sub questions, vocab count, tags

Rows that fail to parse or validate are reported and skipped.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		importOpts := transfer.DefaultImportOptions()
		importOpts.SheetName = sheet
		importOpts.SkipHeader = !noHeader

		res, err := transfer.Import(args[0], importOpts)
		if err != nil {
			return err
		}

		created, failed := a.Service.ImportTasks(ctx, a.UserID, res.Drafts)

		out := cmd.OutOrStdout()
		for _, rowErr := range res.Errors {
			fmt.Fprintf(out, "  skipped %v\n", rowErr)
		}
		indexes := make([]int, 0, len(failed))
		for i := range failed {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		for _, i := range indexes {
			fmt.Fprintf(out, "  skipped row %d: %v\n", res.Rows[i], failed[i])
		}
		fmt.Fprintf(out, "Imported %d task(s), skipped %d row(s)\n", len(created), len(res.Errors)+len(failed))
		a.Log.Info("tasks imported", "file", args[0], "created", len(created), "skipped", len(res.Errors)+len(failed))
		return nil
	})
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Sheet name for .xlsx files")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "The first row is data, not a header")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export tasks as JSON",
		Long:  `Export tasks as JSON. Without a file, writes remdocs-<user>-<date>.json in the current directory.`,
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		parsed, err := task.ParseTab(tab)
		if err != nil {
			return err
		}
		now := time.Now()
		tasks, err := a.Service.ListTasks(ctx, a.UserID, task.ListFilter{Tab: parsed, Now: now})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		path := transfer.DefaultExportName(a.UserID, now)
		if len(args) == 1 {
			path = args[0]
		}
		if err := transfer.Export(path, a.UserID, tasks, now); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", len(tasks), path)
		return nil
	})
	cmd.Flags().StringVar(&tab, "tab", "all", "Filter: all|doing|done|todo|expired")
	return cmd
}
