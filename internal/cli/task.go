package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/util"
)

// rangeFlags maps the numeric range flags onto task.Ranges fields.
var rangeFlags = []struct {
	name  string
	usage string
	field func(*task.Ranges) **int
}{
	{"start-page", "First page of a problem set", func(r *task.Ranges) **int { return &r.StartPage }},
	{"end-page", "Last page of a problem set", func(r *task.Ranges) **int { return &r.EndPage }},
	{"start-question", "First question number", func(r *task.Ranges) **int { return &r.StartQuestion }},
	{"end-question", "Last question number", func(r *task.Ranges) **int { return &r.EndQuestion }},
	{"sub-questions", "Sub-questions per question", func(r *task.Ranges) **int { return &r.SubQuestions }},
	{"vocab-count", "Number of words in a vocabulary deck", func(r *task.Ranges) **int { return &r.VocabCount }},
}

func addRangeFlags(cmd *cobra.Command) {
	for _, f := range rangeFlags {
		cmd.Flags().Int(f.name, 0, f.usage)
	}
}

// applyRangeFlags overlays every changed range flag on r and reports
// whether any was set.
func applyRangeFlags(cmd *cobra.Command, r *task.Ranges) (bool, error) {
	changed := false
	for _, f := range rangeFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetInt(f.name)
		if err != nil {
			return false, err
		}
		if v < 0 {
			return false, fmt.Errorf("--%s must not be negative", f.name)
		}
		*f.field(r) = &v
		changed = true
	}
	return changed, nil
}

func rangesOf(t task.Task) task.Ranges {
	return task.Ranges{
		StartPage:     t.StartPage,
		EndPage:       t.EndPage,
		StartQuestion: t.StartQuestion,
		EndQuestion:   t.EndQuestion,
		SubQuestions:  t.SubQuestions,
		VocabCount:    t.VocabCount,
	}
}

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage study tasks",
		Long:  `Commands for creating, listing, editing and recording progress on tasks.`,
	}
	cmd.AddCommand(
		newTaskAddCmd(opts),
		newTaskListCmd(opts),
		newTaskShowCmd(opts),
		newTaskEditCmd(opts),
		newTaskProgressCmd(opts),
		newTaskDeleteCmd(opts),
	)
	return cmd
}

func newTaskAddCmd(opts *rootOptions) *cobra.Command {
	var (
		typ      string
		due      string
		priority string
		notifyAt string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		d := task.Draft{Title: args[0], Tags: tags}

		var err error
		if d.Type, err = task.ParseType(typ); err != nil {
			return err
		}
		if d.Priority, err = task.ParsePriority(priority); err != nil {
			return err
		}
		if d.DueDate, err = util.ParseDate(due, time.Local); err != nil {
			return fmt.Errorf("--due: %w", err)
		}
		if _, err := applyRangeFlags(cmd, &d.Ranges); err != nil {
			return err
		}
		if notifyAt != "" {
			at, err := util.ParseDate(notifyAt, time.Local)
			if err != nil {
				return fmt.Errorf("--notify-at: %w", err)
			}
			d.Notify = true
			d.NotifyTime = &at
		}

		t, err := a.Service.CreateTask(ctx, a.UserID, d)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", util.ShortID(t.ID), t.Title)
		return nil
	})

	cmd.Flags().StringVar(&typ, "type", "", "Task type: problem_set|vocab_deck")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: high|medium|low")
	cmd.Flags().StringVar(&notifyAt, "notify-at", "", "Send a reminder at this time")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")
	addRangeFlags(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	var (
		tab string
		tag string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		parsed, err := task.ParseTab(tab)
		if err != nil {
			return err
		}
		now := time.Now()
		tasks, err := a.Service.ListTasks(ctx, a.UserID, task.ListFilter{Tab: parsed, Tag: tag, Now: now})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPROGRESS\tSTATUS\tDUE\tTAGS")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n",
				util.ShortID(t.ID),
				t.Title,
				t.Type,
				t.Progress,
				task.DisplayStatus(t, now),
				formatDue(t.DueDate, now),
				formatTags(t.Tags),
			)
		}
		return w.Flush()
	})
	cmd.Flags().StringVar(&tab, "tab", "all", "Filter: all|doing|done|todo|expired")
	cmd.Flags().StringVar(&tag, "tag", "", "Only tasks with this tag")
	return cmd
}

func newTaskShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		t, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}
		printTask(cmd.OutOrStdout(), t, time.Now())
		return nil
	})
	return cmd
}

func newTaskEditCmd(opts *rootOptions) *cobra.Command {
	var (
		title    string
		typ      string
		due      string
		priority string
		status   string
		notifyAt string
		noNotify bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long:  `Edit task fields. Setting --status stores it as given; otherwise the status follows progress when range changes move it.`,
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		current, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}

		var p task.Patch
		flags := cmd.Flags()
		if flags.Changed("title") {
			p.Title = &title
		}
		if flags.Changed("type") {
			v, err := task.ParseType(typ)
			if err != nil {
				return err
			}
			p.Type = &v
		}
		if flags.Changed("due") {
			v, err := util.ParseDate(due, time.Local)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			p.DueDate = &v
		}
		if flags.Changed("priority") {
			v, err := task.ParsePriority(priority)
			if err != nil {
				return err
			}
			p.Priority = &v
		}
		if flags.Changed("status") {
			v, err := task.ParseStatus(status)
			if err != nil {
				return err
			}
			p.Status = &v
		}
		if flags.Changed("notify-at") {
			v, err := util.ParseDate(notifyAt, time.Local)
			if err != nil {
				return fmt.Errorf("--notify-at: %w", err)
			}
			on := true
			p.Notify = &on
			p.NotifyTime = &v
		}
		if noNotify {
			off := false
			p.Notify = &off
		}

		r := rangesOf(current)
		changed, err := applyRangeFlags(cmd, &r)
		if err != nil {
			return err
		}
		if changed {
			p.Ranges = &r
		}

		t, err := a.Service.EditTask(ctx, a.UserID, current.ID, p)
		if err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %d%% (%s)\n", util.ShortID(t.ID), t.Progress, t.Status)
		return nil
	})

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&typ, "type", "", "Task type: problem_set|vocab_deck")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: high|medium|low")
	cmd.Flags().StringVar(&status, "status", "", "Set status manually: todo|doing|done")
	cmd.Flags().StringVar(&notifyAt, "notify-at", "", "Send a reminder at this time")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Turn the reminder off")
	cmd.MarkFlagsMutuallyExclusive("notify-at", "no-notify")
	addRangeFlags(cmd)
	return cmd
}

func newTaskProgressCmd(opts *rootOptions) *cobra.Command {
	var (
		pages     int
		vocab     int
		questions string
		toggle    string
	)
	cmd := &cobra.Command{
		Use:   "progress <id>",
		Short: "Record completed pages, questions or words",
		Long: `Record what has been completed and recompute progress and status.

--questions replaces the completed question list, e.g. "1-5,8".
--toggle flips the listed questions.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		current, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}

		in := service.ProgressInput{
			CompletedPages:     current.CompletedPages,
			CompletedVocab:     current.CompletedVocab,
			CompletedQuestions: current.CompletedQuestions,
		}
		flags := cmd.Flags()
		if flags.Changed("pages") {
			in.CompletedPages = pages
		}
		if flags.Changed("vocab") {
			in.CompletedVocab = vocab
		}
		if flags.Changed("questions") {
			nums, err := util.ParseQuestionList(questions)
			if err != nil {
				return fmt.Errorf("--questions: %w", err)
			}
			in.CompletedQuestions = progress.NewQuestionSet(nums...)
		}
		if flags.Changed("toggle") {
			nums, err := util.ParseQuestionList(toggle)
			if err != nil {
				return fmt.Errorf("--toggle: %w", err)
			}
			for _, n := range nums {
				in.CompletedQuestions, _ = progress.Toggle(in.CompletedQuestions, n)
			}
		}

		t, err := a.Service.SaveProgress(ctx, a.UserID, current.ID, in)
		if err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %s (%s)\n", util.ShortID(t.ID), formatProgress(t.Progress), t.Status)
		return nil
	})

	cmd.Flags().IntVar(&pages, "pages", 0, "Completed page count")
	cmd.Flags().IntVar(&vocab, "vocab", 0, "Completed word count")
	cmd.Flags().StringVar(&questions, "questions", "", "Completed questions, e.g. 1-5,8")
	cmd.Flags().StringVar(&toggle, "toggle", "", "Questions to flip, e.g. 3,4")
	return cmd
}

func newTaskDeleteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error {
		t, err := a.Service.FindTask(ctx, a.UserID, args[0])
		if err != nil {
			return err
		}
		if err := a.Service.DeleteTask(ctx, a.UserID, t.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", util.ShortID(t.ID), t.Title)
		return nil
	})
	return cmd
}
