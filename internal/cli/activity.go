package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/activity"
	"github.com/remdocs/remdocs/internal/util"
)

func newActivityCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		entries, err := activity.Read(a.Activity.Path())
		if err != nil {
			return err
		}
		entries = activity.Filter(entries, a.UserID, limit)

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No activity.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tEVENT\tTASK\tDETAILS")
		for _, e := range entries {
			taskID := "-"
			if e.TaskID != "" {
				taskID = util.ShortID(e.TaskID)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", formatAge(e.Timestamp), e.Event, taskID, formatData(e.Data))
		}
		return w.Flush()
	})
	cmd.Flags().IntVar(&limit, "limit", 20, "Show at most this many entries (0 for all)")
	return cmd
}

// formatData renders entry data as sorted key=value pairs.
func formatData(data map[string]interface{}) string {
	if len(data) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}
