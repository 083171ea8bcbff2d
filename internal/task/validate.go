package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/remdocs/remdocs/internal/progress"
)

// Ranges holds the size fields of both task variants.
type Ranges struct {
	StartPage     *int
	EndPage       *int
	StartQuestion *int
	EndQuestion   *int
	SubQuestions  *int
	VocabCount    *int
}

// Draft is the input for creating a task.
type Draft struct {
	Title      string
	Type       Type
	Ranges     Ranges
	Priority   Priority
	DueDate    time.Time
	Notify     bool
	NotifyTime *time.Time
	Tags       []string
}

// Patch describes an edit. Nil fields are left unchanged; a non-nil Ranges
// replaces every range field at once.
type Patch struct {
	Title      *string
	Type       *Type
	Ranges     *Ranges
	Priority   *Priority
	DueDate    *time.Time
	Notify     *bool
	NotifyTime *time.Time
	Status     *Status
}

// New builds a fresh task from a draft. New tasks start with no completion,
// status todo and progress 0.
func New(id, userID string, d Draft, now time.Time) (Task, error) {
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	t := Task{
		ID:            id,
		UserID:        userID,
		Title:         strings.TrimSpace(d.Title),
		Type:          d.Type,
		StartPage:     cloneInt(d.Ranges.StartPage),
		EndPage:       cloneInt(d.Ranges.EndPage),
		StartQuestion: cloneInt(d.Ranges.StartQuestion),
		EndQuestion:   cloneInt(d.Ranges.EndQuestion),
		SubQuestions:  cloneInt(d.Ranges.SubQuestions),
		VocabCount:    cloneInt(d.Ranges.VocabCount),
		Progress:      0,
		Status:        StatusTodo,
		Priority:      d.Priority,
		DueDate:       d.DueDate,
		Notify:        d.Notify,
		NotifyTime:    cloneTime(d.NotifyTime),
		Tags:          []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, tag := range d.Tags {
		t.Tags, _ = AddTag(t.Tags, tag)
	}
	t.ClearInactiveVariant()

	if err := Validate(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Apply edits t in place. Progress is recomputed from the current inputs.
// An explicit status in the patch is kept as a manual override; otherwise the
// status follows progress whenever progress changes.
func Apply(t *Task, p Patch) error {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Ranges != nil {
		t.StartPage = cloneInt(p.Ranges.StartPage)
		t.EndPage = cloneInt(p.Ranges.EndPage)
		t.StartQuestion = cloneInt(p.Ranges.StartQuestion)
		t.EndQuestion = cloneInt(p.Ranges.EndQuestion)
		t.SubQuestions = cloneInt(p.Ranges.SubQuestions)
		t.VocabCount = cloneInt(p.Ranges.VocabCount)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Notify != nil {
		t.Notify = *p.Notify
	}
	if p.NotifyTime != nil {
		t.NotifyTime = cloneTime(p.NotifyTime)
		t.RemindedAt = nil
	}
	t.ClearInactiveVariant()

	before := t.Progress
	t.Progress = progress.Compute(t.Inputs())
	switch {
	case p.Status != nil:
		t.Status = *p.Status
	case t.Progress != before:
		t.Status = progress.DeriveStatus(t.Progress)
	}

	return Validate(*t)
}

// MaxQuestionSpan is the largest question range a task may declare.
const MaxQuestionSpan = 10000

// Validate checks the invariants a stored task must satisfy.
func Validate(t Task) error {
	if t.Title == "" {
		return invalidArgs("title is required")
	}
	if t.Type != TypeProblemSet && t.Type != TypeVocabDeck {
		return invalidArgs("unknown task type %q", t.Type)
	}
	if t.DueDate.IsZero() {
		return invalidArgs("due date is required")
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value *int
	}{
		{"start page", t.StartPage},
		{"end page", t.EndPage},
		{"start question", t.StartQuestion},
		{"end question", t.EndQuestion},
		{"sub questions", t.SubQuestions},
		{"vocab count", t.VocabCount},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			return invalidArgs("%s must not be negative", f.name)
		}
	}
	if lo, hi, ok := t.QuestionRange(); ok && hi >= lo && hi-lo >= MaxQuestionSpan {
		return invalidArgs("question range %d-%d exceeds %d questions", lo, hi, MaxQuestionSpan)
	}
	if t.CompletedPages < 0 || t.CompletedVocab < 0 {
		return invalidArgs("completed counts must not be negative")
	}
	if t.Notify && t.NotifyTime == nil {
		return invalidArgs("notify time is required when notify is on")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return invalidArgs("progress %d out of range", t.Progress)
	}
	return nil
}

// ParseOptional reads a non-negative integer field. Blank, non-numeric and
// negative input all mean the field is absent.
func ParseOptional(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// ParseCount reads a completion counter, treating unusable input as 0.
func ParseCount(s string) int {
	if v := ParseOptional(s); v != nil {
		return *v
	}
	return 0
}

// AddTag appends a trimmed tag unless it is empty or already present.
// It reports whether the tag was added.
func AddTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags, false
	}
	for _, existing := range tags {
		if existing == tag {
			return tags, false
		}
	}
	return append(append([]string(nil), tags...), tag), true
}

// RemoveTag drops tag and reports whether it was present.
func RemoveTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	out := make([]string, 0, len(tags))
	removed := false
	for _, existing := range tags {
		if existing == tag {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if !removed {
		return tags, false
	}
	return out, true
}
