package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/version"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	userID     string
}

// runFunc is a command body that receives an opened App.
type runFunc func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "remdocs",
		Short:         "Study task tracker with page, question and vocabulary progress",
		Long:          `Remdocs tracks problem sets and vocabulary decks, computes progress from what you have completed and reminds you before things are due. Run without arguments for the interactive UI.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.userID, "user", "", "User id to act as (overrides config)")

	cmd.AddCommand(
		newTaskCmd(opts),
		newTagCmd(opts),
		newProfileCmd(opts),
		newStatsCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newActivityCmd(opts),
		newRemindCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// run opens the App for the duration of fn.
func (o *rootOptions) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := Bootstrap(Options{
			ConfigPath: o.configPath,
			UserID:     o.userID,
			LogWriter:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, a, cmd, args)
	}
}
