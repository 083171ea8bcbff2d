package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/util"
)

func newTagCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove task tags",
	}

	addCmd := &cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Attach a tag to a task",
		Args:  cobra.ExactArgs(2),
	}
	addCmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		current, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}
		t, err := a.Service.AddTag(ctx, a.UserID, current.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to add tag: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tags for %s: %s\n", util.ShortID(t.ID), formatTags(t.Tags))
		return nil
	})

	removeCmd := &cobra.Command{
		Use:   "remove <id> <tag>",
		Short: "Detach a tag from a task",
		Args:  cobra.ExactArgs(2),
	}
	removeCmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		current, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}
		t, err := a.Service.RemoveTag(ctx, a.UserID, current.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to remove tag: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tags for %s: %s\n", util.ShortID(t.ID), formatTags(t.Tags))
		return nil
	})

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}
