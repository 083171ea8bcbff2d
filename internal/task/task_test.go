package task

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/remdocs/remdocs/internal/progress"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

func newProblemSet(t *testing.T) Task {
	t.Helper()
	tk, err := New("id-1", "user-1", Draft{
		Title:   "  Calculus drills ",
		Type:    TypeProblemSet,
		Ranges:  Ranges{StartPage: intPtr(1), EndPage: intPtr(10), StartQuestion: intPtr(1), EndQuestion: intPtr(10)},
		DueDate: testNow.Add(48 * time.Hour),
		Tags:    []string{"math", " math ", ""},
	}, testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tk
}

func TestNew_Defaults(t *testing.T) {
	tk := newProblemSet(t)

	if tk.Title != "Calculus drills" {
		t.Errorf("expected trimmed title, got %q", tk.Title)
	}
	if tk.Status != StatusTodo {
		t.Errorf("expected status todo, got %q", tk.Status)
	}
	if tk.Progress != 0 {
		t.Errorf("expected progress 0, got %d", tk.Progress)
	}
	if tk.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %q", tk.Priority)
	}
	if !reflect.DeepEqual(tk.Tags, []string{"math"}) {
		t.Errorf("expected tags [math], got %v", tk.Tags)
	}
	if tk.CompletedQuestions.Len() != 0 {
		t.Errorf("expected no completed questions, got %v", tk.CompletedQuestions.Sorted())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
	}{
		{name: "missing title", draft: Draft{Title: "  ", Type: TypeVocabDeck, DueDate: testNow}},
		{name: "missing due date", draft: Draft{Title: "Words", Type: TypeVocabDeck}},
		{name: "unknown type", draft: Draft{Title: "Words", Type: "essay", DueDate: testNow}},
		{name: "negative vocab", draft: Draft{Title: "Words", Type: TypeVocabDeck, DueDate: testNow, Ranges: Ranges{VocabCount: intPtr(-1)}}},
		{name: "notify without time", draft: Draft{Title: "Words", Type: TypeVocabDeck, DueDate: testNow, Notify: true}},
		{name: "bad priority", draft: Draft{Title: "Words", Type: TypeVocabDeck, DueDate: testNow, Priority: "urgent"}},
		{name: "question range too wide", draft: Draft{Title: "Drills", Type: TypeProblemSet, DueDate: testNow, Ranges: Ranges{StartQuestion: intPtr(1), EndQuestion: intPtr(100000000)}}},
		{name: "question range to max int", draft: Draft{Title: "Drills", Type: TypeProblemSet, DueDate: testNow, Ranges: Ranges{StartQuestion: intPtr(0), EndQuestion: intPtr(math.MaxInt)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("id", "user", tt.draft, testNow)
			if !errors.Is(err, ErrTaskInvalidArgs) {
				t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
			}
		})
	}
}

func TestNew_QuestionRangeAtLimit(t *testing.T) {
	tk, err := New("id", "user", Draft{
		Title:   "Drills",
		Type:    TypeProblemSet,
		DueDate: testNow,
		Ranges:  Ranges{StartQuestion: intPtr(1), EndQuestion: intPtr(MaxQuestionSpan)},
	}, testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if lo, hi, _ := tk.QuestionRange(); hi-lo+1 != MaxQuestionSpan {
		t.Errorf("expected %d questions, got %d", MaxQuestionSpan, hi-lo+1)
	}
}

func TestApply_RejectsWideQuestionRange(t *testing.T) {
	tk := newProblemSet(t)
	err := Apply(&tk, Patch{Ranges: &Ranges{StartQuestion: intPtr(1), EndQuestion: intPtr(MaxQuestionSpan + 1)}})
	if !errors.Is(err, ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}

func TestNew_DropsNotifyTimeWhenNotifyOff(t *testing.T) {
	at := testNow.Add(time.Hour)
	tk, err := New("id", "user", Draft{
		Title:      "Words",
		Type:       TypeVocabDeck,
		DueDate:    testNow,
		NotifyTime: &at,
	}, testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tk.NotifyTime != nil {
		t.Errorf("expected notify time cleared, got %v", tk.NotifyTime)
	}
}

func TestApply_TypeChangeClearsOtherVariant(t *testing.T) {
	tk := newProblemSet(t)
	tk.CompletedPages = 4
	tk.CompletedQuestions = progress.NewQuestionSet(1, 2)

	vocab := TypeVocabDeck
	err := Apply(&tk, Patch{
		Type:   &vocab,
		Ranges: &Ranges{StartPage: intPtr(1), EndPage: intPtr(10), VocabCount: intPtr(100)},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if tk.StartPage != nil || tk.EndPage != nil || tk.StartQuestion != nil || tk.EndQuestion != nil {
		t.Errorf("expected problem set ranges cleared")
	}
	if tk.CompletedPages != 0 || tk.CompletedQuestions.Len() != 0 {
		t.Errorf("expected problem set completion cleared")
	}
	if tk.VocabCount == nil || *tk.VocabCount != 100 {
		t.Errorf("expected vocab count 100, got %v", tk.VocabCount)
	}
}

func TestApply_ManualStatusKept(t *testing.T) {
	tk := newProblemSet(t)
	done := StatusDone

	if err := Apply(&tk, Patch{Status: &done}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if tk.Status != StatusDone {
		t.Errorf("expected manual status done, got %q", tk.Status)
	}

	title := "Renamed"
	if err := Apply(&tk, Patch{Title: &title}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if tk.Status != StatusDone {
		t.Errorf("expected manual status to survive an unrelated edit, got %q", tk.Status)
	}
}

func TestApply_RangeChangeRecomputes(t *testing.T) {
	tk := newProblemSet(t)
	tk.CompletedPages = 5
	tk.CompletedQuestions = progress.NewQuestionSet(1, 2, 3, 4, 5)

	if err := Apply(&tk, Patch{Ranges: &Ranges{StartPage: intPtr(1), EndPage: intPtr(5)}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if tk.Progress != 100 {
		t.Errorf("expected progress 100, got %d", tk.Progress)
	}
	if tk.Status != StatusDone {
		t.Errorf("expected derived status done, got %q", tk.Status)
	}
}

func TestApply_InvalidLeavesError(t *testing.T) {
	tk := newProblemSet(t)
	empty := ""
	if err := Apply(&tk, Patch{Title: &empty}); !errors.Is(err, ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}

func TestClone_IsDeep(t *testing.T) {
	tk := newProblemSet(t)
	c := tk.Clone()
	*c.StartPage = 99
	c.Tags[0] = "changed"

	if *tk.StartPage != 1 {
		t.Errorf("expected original start page 1, got %d", *tk.StartPage)
	}
	if tk.Tags[0] != "math" {
		t.Errorf("expected original tag math, got %q", tk.Tags[0])
	}
}

func TestQuestionRange(t *testing.T) {
	tk := newProblemSet(t)
	lo, hi, ok := tk.QuestionRange()
	if !ok || lo != 1 || hi != 10 {
		t.Errorf("expected (1, 10, true), got (%d, %d, %v)", lo, hi, ok)
	}

	tk.EndQuestion = intPtr(0)
	if _, _, ok := tk.QuestionRange(); ok {
		t.Errorf("expected no range for inverted bounds")
	}
}

func TestParseOptional(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"  ", nil},
		{"abc", nil},
		{"-3", nil},
		{"1.5", nil},
		{"0", intPtr(0)},
		{" 42 ", intPtr(42)},
	}
	for _, tt := range tests {
		got := ParseOptional(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseOptional(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ParseCount("x") != 0 {
		t.Errorf("expected ParseCount of junk to be 0")
	}
}

func TestAddRemoveTag(t *testing.T) {
	tags, added := AddTag(nil, " go ")
	if !added || !reflect.DeepEqual(tags, []string{"go"}) {
		t.Fatalf("expected [go] added, got %v %v", tags, added)
	}
	tags, added = AddTag(tags, "go")
	if added || len(tags) != 1 {
		t.Errorf("expected duplicate ignored, got %v", tags)
	}
	tags, added = AddTag(tags, "   ")
	if added || len(tags) != 1 {
		t.Errorf("expected blank ignored, got %v", tags)
	}

	tags, removed := RemoveTag(tags, "missing")
	if removed || len(tags) != 1 {
		t.Errorf("expected missing tag to be a no-op, got %v", tags)
	}
	tags, removed = RemoveTag(tags, "go")
	if !removed || len(tags) != 0 {
		t.Errorf("expected go removed, got %v", tags)
	}
}

func TestParseType(t *testing.T) {
	if typ, err := ParseType("vocab"); err != nil || typ != TypeVocabDeck {
		t.Errorf("expected vocab_deck, got %q %v", typ, err)
	}
	if typ, err := ParseType("problem_set"); err != nil || typ != TypeProblemSet {
		t.Errorf("expected problem_set, got %q %v", typ, err)
	}
	if _, err := ParseType("novel"); !errors.Is(err, ErrTaskInvalidArgs) {
		t.Errorf("expected ErrTaskInvalidArgs, got %v", err)
	}
}
