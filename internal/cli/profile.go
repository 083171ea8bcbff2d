package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/styles"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit profiles",
	}

	showCmd := &cobra.Command{
		Use:   "show [user]",
		Short: "Show a profile with task statistics",
		Long:  `Show your own profile, or another user's profile if it is public.`,
		Args:  cobra.MaximumNArgs(1),
	}
	showCmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		owner := a.UserID
		if len(args) == 1 {
			owner = args[0]
		}
		pp, err := a.Service.GetPublicProfile(ctx, a.UserID, owner)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		printProfile(cmd.OutOrStdout(), pp.Profile, pp.Stats)
		return nil
	})

	var (
		name    string
		bio     string
		public  bool
		private bool
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
	}
	setCmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		var patch task.ProfilePatch
		if cmd.Flags().Changed("name") {
			patch.DisplayName = &name
		}
		if cmd.Flags().Changed("bio") {
			patch.Bio = &bio
		}
		switch {
		case public:
			v := true
			patch.IsPublic = &v
		case private:
			v := false
			patch.IsPublic = &v
		}

		p, err := a.Service.UpdateProfile(ctx, a.UserID, patch)
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s (%s)\n", p.DisplayName, visibility(p.IsPublic))
		return nil
	})
	setCmd.Flags().StringVar(&name, "name", "", "Display name")
	setCmd.Flags().StringVar(&bio, "bio", "", "Short bio")
	setCmd.Flags().BoolVar(&public, "public", false, "Make the profile visible to others")
	setCmd.Flags().BoolVar(&private, "private", false, "Hide the profile from others")
	setCmd.MarkFlagsMutuallyExclusive("public", "private")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

func printProfile(w io.Writer, p task.Profile, s task.Stats) {
	fmt.Fprintf(w, "%s (%s)\n", p.DisplayName, visibility(p.IsPublic))
	if p.Bio != "" {
		fmt.Fprintf(w, "  %s\n", p.Bio)
	}
	fmt.Fprintln(w)
	printStats(w, s)
}

func printStats(w io.Writer, s task.Stats) {
	fmt.Fprintf(w, "  Tasks:       %d\n", s.Total)
	fmt.Fprintf(w, "  Todo:        %d\n", s.Todo)
	fmt.Fprintf(w, "  Doing:       %d\n", s.Doing)
	fmt.Fprintf(w, "  Done:        %d\n", s.Done)
	fmt.Fprintf(w, "  Expired:     %d\n", s.Expired)
	fmt.Fprintf(w, "  Avg progress: %s\n", formatProgress(s.AverageProgress))
	fmt.Fprintf(w, "  Completion:   %s\n", styles.ProgressStyle(s.CompletionRate).Render(fmt.Sprintf("%d%%", s.CompletionRate)))
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize your tasks",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		s, err := a.Service.Stats(ctx, a.UserID)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		printStats(cmd.OutOrStdout(), s)
		return nil
	})
	return cmd
}
