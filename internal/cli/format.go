package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/styles"
	"github.com/remdocs/remdocs/internal/util"
)

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	return formatAgeAt(t, time.Now())
}

func formatAgeAt(t, now time.Time) string {
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd ago", days)
}

// formatDue renders a due date relative to now, e.g. "in 3d" or "2d overdue".
func formatDue(due, now time.Time) string {
	date := due.Local().Format("2006-01-02")
	d := due.Sub(now)
	switch {
	case d < 0:
		days := int(-d.Hours()) / 24
		if days == 0 {
			return date + " (overdue)"
		}
		return fmt.Sprintf("%s (%dd overdue)", date, days)
	case d < 24*time.Hour:
		return date + " (today)"
	default:
		return fmt.Sprintf("%s (in %dd)", date, int(d.Hours())/24)
	}
}

// formatProgress renders a percentage coloured by band.
func formatProgress(p int) string {
	return styles.ProgressStyle(p).Render(fmt.Sprintf("%3d%%", p))
}

func formatOptional(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

// printTask writes the full detail view of a task.
func printTask(w io.Writer, t task.Task, now time.Time) {
	fmt.Fprintf(w, "%s\n", t.Title)
	fmt.Fprintf(w, "  ID:        %s\n", t.ID)
	fmt.Fprintf(w, "  Type:      %s\n", t.Type)
	fmt.Fprintf(w, "  Status:    %s\n", task.DisplayStatus(t, now))
	fmt.Fprintf(w, "  Progress:  %s\n", formatProgress(t.Progress))
	fmt.Fprintf(w, "  Priority:  %s\n", t.Priority)
	fmt.Fprintf(w, "  Due:       %s\n", formatDue(t.DueDate, now))

	switch t.Type {
	case task.TypeProblemSet:
		fmt.Fprintf(w, "  Pages:     %s-%s (%d done of %d)\n",
			formatOptional(t.StartPage), formatOptional(t.EndPage), t.CompletedPages, t.TotalPages())
		fmt.Fprintf(w, "  Questions: %s-%s", formatOptional(t.StartQuestion), formatOptional(t.EndQuestion))
		if t.SubQuestions != nil {
			fmt.Fprintf(w, " (%d sub-questions each)", *t.SubQuestions)
		}
		fmt.Fprintln(w)
		done := util.FormatQuestionList(t.CompletedQuestions.Sorted())
		if done == "" {
			done = "none"
		}
		fmt.Fprintf(w, "  Completed: %s\n", done)
	case task.TypeVocabDeck:
		fmt.Fprintf(w, "  Vocab:     %d of %s\n", t.CompletedVocab, formatOptional(t.VocabCount))
	}

	fmt.Fprintf(w, "  Tags:      %s\n", formatTags(t.Tags))
	if t.Notify && t.NotifyTime != nil {
		reminder := t.NotifyTime.Local().Format("2006-01-02 15:04")
		if t.RemindedAt != nil {
			reminder += " (sent)"
		}
		fmt.Fprintf(w, "  Reminder:  %s\n", reminder)
	}
	fmt.Fprintf(w, "  Updated:   %s\n", formatAgeAt(t.UpdatedAt, now))
}
