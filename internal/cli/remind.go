package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/display"
	"github.com/remdocs/remdocs/internal/reminder"
	"github.com/remdocs/remdocs/internal/task"
)

func newRemindCmd(opts *rootOptions) *cobra.Command {
	var once, quiet bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due task reminders",
		Long: `Run the reminder scheduler in the foreground until interrupted.
Reminders are only sent between the configured start and end hours.
With --once, perform a single sweep and exit.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		lock := reminder.NewLock(a.Config.DataDir)
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer lock.Release()

		schedOpts := reminder.Options{
			Interval:  a.Config.Reminder.Interval,
			StartHour: a.Config.Reminder.StartHour,
			EndHour:   a.Config.Reminder.EndHour,
		}

		if once {
			var notifier reminder.Notifier = reminder.NewWriterNotifier(cmd.OutOrStdout())
			if quiet {
				notifier = reminder.NewLogNotifier(a.Log)
			}
			sched := reminder.New(a.DB, notifier, a.Activity, a.Log, schedOpts)
			sent, err := sched.Sweep(ctx)
			if err != nil {
				return fmt.Errorf("reminder sweep failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder(s)\n", sent)
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if quiet {
			sched := reminder.New(a.DB, reminder.NewLogNotifier(a.Log), a.Activity, a.Log, schedOpts)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			sched.Stop()
			return nil
		}

		status := display.New(cmd.OutOrStdout())
		schedOpts.OnSweep = status.RecordSweep
		notifier := reminder.NotifierFunc(func(ctx context.Context, t task.Task) error {
			status.PrintAbove("%s", reminder.FormatReminder(t))
			return nil
		})
		sched := reminder.New(a.DB, notifier, a.Activity, a.Log, schedOpts)

		fmt.Fprintf(cmd.OutOrStdout(), "Watching for reminders every %s. Press Ctrl+C to stop.\n", a.Config.Reminder.Interval)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		status.Start()
		<-ctx.Done()
		sched.Stop()
		status.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Stopped after %d reminder(s)\n", status.Snapshot().Sent)
		return nil
	})
	cmd.Flags().BoolVar(&once, "once", false, "Run a single sweep and exit")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Send reminders to the log instead of the terminal")
	return cmd
}
