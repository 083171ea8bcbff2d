// Package task defines the study task model and the rules that apply to it
// independently of how it is stored.
package task

import (
	"strings"
	"time"

	"github.com/remdocs/remdocs/internal/progress"
)

// Type identifies the kind of study task.
type Type = progress.Kind

// Task types.
const (
	TypeProblemSet = progress.KindProblemSet
	TypeVocabDeck  = progress.KindVocabDeck
)

// Status is the task lifecycle label.
type Status = progress.Status

// Task statuses.
const (
	StatusTodo  = progress.StatusTodo
	StatusDoing = progress.StatusDoing
	StatusDone  = progress.StatusDone
)

// Priority ranks tasks for display.
type Priority string

// Task priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Task is a unit of study work tracked to completion.
type Task struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Type   Type   `json:"type"`

	// Problem set range fields.
	StartPage     *int `json:"startPage,omitempty"`
	EndPage       *int `json:"endPage,omitempty"`
	StartQuestion *int `json:"startQuestion,omitempty"`
	EndQuestion   *int `json:"endQuestion,omitempty"`
	SubQuestions  *int `json:"subQuestions,omitempty"`

	// Vocabulary deck size.
	VocabCount *int `json:"vocabCount,omitempty"`

	CompletedPages     int                  `json:"completedPages"`
	CompletedVocab     int                  `json:"completedVocab"`
	CompletedQuestions progress.QuestionSet `json:"completedQuestionsList"`

	Progress int      `json:"progress"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`

	DueDate    time.Time  `json:"dueDate"`
	Notify     bool       `json:"notify"`
	NotifyTime *time.Time `json:"notifyTime,omitempty"`
	RemindedAt *time.Time `json:"remindedAt,omitempty"`

	Tags []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Inputs returns the fields the progress engine reads.
func (t Task) Inputs() progress.Inputs {
	return progress.Inputs{
		Kind:               t.Type,
		StartPage:          t.StartPage,
		EndPage:            t.EndPage,
		StartQuestion:      t.StartQuestion,
		EndQuestion:        t.EndQuestion,
		VocabCount:         t.VocabCount,
		CompletedPages:     t.CompletedPages,
		CompletedVocab:     t.CompletedVocab,
		CompletedQuestions: t.CompletedQuestions,
	}
}

// QuestionRange returns the inclusive question bounds, or ok=false when the
// task has no question dimension.
func (t Task) QuestionRange() (lo, hi int, ok bool) {
	if t.Type != TypeProblemSet || t.StartQuestion == nil || t.EndQuestion == nil {
		return 0, 0, false
	}
	if *t.EndQuestion < *t.StartQuestion {
		return 0, 0, false
	}
	return *t.StartQuestion, *t.EndQuestion, true
}

// TotalPages returns the size of the page range, or 0 when undefined.
func (t Task) TotalPages() int {
	if t.StartPage == nil || t.EndPage == nil {
		return 0
	}
	return max(0, *t.EndPage-*t.StartPage+1)
}

// IsExpired reports whether the task is past due and not finished.
func (t Task) IsExpired(now time.Time) bool {
	return !t.DueDate.IsZero() && t.DueDate.Before(now) && t.Status != StatusDone
}

// HasTag reports whether the task carries tag.
func (t Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can edit without touching the original.
func (t Task) Clone() Task {
	c := t
	c.StartPage = cloneInt(t.StartPage)
	c.EndPage = cloneInt(t.EndPage)
	c.StartQuestion = cloneInt(t.StartQuestion)
	c.EndQuestion = cloneInt(t.EndQuestion)
	c.SubQuestions = cloneInt(t.SubQuestions)
	c.VocabCount = cloneInt(t.VocabCount)
	c.NotifyTime = cloneTime(t.NotifyTime)
	c.RemindedAt = cloneTime(t.RemindedAt)
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	// QuestionSet is immutable, sharing it is safe.
	return c
}

// ClearInactiveVariant drops the fields that do not belong to the task's type.
func (t *Task) ClearInactiveVariant() {
	switch t.Type {
	case TypeProblemSet:
		t.VocabCount = nil
		t.CompletedVocab = 0
	case TypeVocabDeck:
		t.StartPage = nil
		t.EndPage = nil
		t.StartQuestion = nil
		t.EndQuestion = nil
		t.SubQuestions = nil
		t.CompletedPages = 0
		t.CompletedQuestions = progress.QuestionSet{}
	}
	if !t.Notify {
		t.NotifyTime = nil
	}
}

// ParseType accepts the canonical type names plus short aliases.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TypeProblemSet), "problem-set", "problems", "ps":
		return TypeProblemSet, nil
	case string(TypeVocabDeck), "vocab-deck", "vocab", "vd":
		return TypeVocabDeck, nil
	default:
		return "", invalidArgs("unknown task type %q", s)
	}
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusTodo, StatusDoing, StatusDone:
		return st, nil
	default:
		return "", invalidArgs("unknown status %q", s)
	}
}

// ParsePriority validates a priority name. Empty input means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", invalidArgs("unknown priority %q", s)
	}
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
