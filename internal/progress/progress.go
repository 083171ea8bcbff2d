// Package progress converts a task's completion inputs into a percentage and
// lifecycle status, and owns the selection rules for marking questions done.
package progress

import (
	"math"
	"math/bits"
)

// Kind identifies which set of completion inputs applies to a task.
type Kind string

const (
	KindProblemSet Kind = "problem_set"
	KindVocabDeck  Kind = "vocab_deck"
)

// Status is the lifecycle label derived from progress.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Inputs holds the fields the engine reads. Nil range fields are absent.
type Inputs struct {
	Kind Kind

	StartPage     *int
	EndPage       *int
	StartQuestion *int
	EndQuestion   *int
	VocabCount    *int

	CompletedPages     int
	CompletedVocab     int
	CompletedQuestions QuestionSet
}

// Result is the derived pair persisted after a progress save.
type Result struct {
	Progress int
	Status   Status
}

// Evaluate computes progress and the status derived from it.
func Evaluate(in Inputs) Result {
	p := Compute(in)
	return Result{Progress: p, Status: DeriveStatus(p)}
}

// Compute returns the completion percentage in [0, 100].
func Compute(in Inputs) int {
	switch in.Kind {
	case KindProblemSet:
		return computeProblemSet(in)
	case KindVocabDeck:
		return computeVocabDeck(in)
	default:
		return 0
	}
}

func computeProblemSet(in Inputs) int {
	totalPages := span(in.StartPage, in.EndPage)
	totalQuestions := span(in.StartQuestion, in.EndQuestion)

	var pageProgress int
	switch {
	case totalPages > 0:
		pageProgress = percent(in.CompletedPages, totalPages)
	case totalQuestions == 0:
		pageProgress = 100
	}

	var questionProgress int
	switch {
	case totalQuestions > 0:
		// Entries left over from an earlier range do not count.
		done := in.CompletedQuestions.CountInRange(*in.StartQuestion, *in.EndQuestion)
		questionProgress = percent(done, totalQuestions)
	case totalPages == 0:
		questionProgress = 100
	}

	switch {
	case totalPages > 0 && totalQuestions > 0:
		return min(pageProgress, questionProgress)
	case totalPages > 0:
		return pageProgress
	case totalQuestions > 0:
		return questionProgress
	default:
		return 0
	}
}

func computeVocabDeck(in Inputs) int {
	if in.VocabCount == nil || *in.VocabCount <= 0 {
		return 0
	}
	return percent(in.CompletedVocab, *in.VocabCount)
}

// DeriveStatus maps a percentage to its lifecycle status.
func DeriveStatus(progress int) Status {
	switch {
	case progress >= 100:
		return StatusDone
	case progress > 0:
		return StatusDoing
	default:
		return StatusTodo
	}
}

// span returns end-start+1, or 0 when either bound is missing or the range is
// empty. Ranges wider than math.MaxInt saturate.
func span(start, end *int) int {
	if start == nil || end == nil || *end < *start {
		return 0
	}
	n := uint64(*end) - uint64(*start) + 1
	if n == 0 || n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// percent rounds done/total*100 half up and clamps to [0, 100]. total must be positive.
func percent(done, total int) int {
	if done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	// (done*200 + total) / (2*total) in 128 bits.
	hi, lo := bits.Mul64(uint64(done), 200)
	lo, carry := bits.Add64(lo, uint64(total), 0)
	q, _ := bits.Div64(hi+carry, lo, 2*uint64(total))
	return min(int(q), 100)
}
