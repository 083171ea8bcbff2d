package progress

import (
	"encoding/json"
	"sort"
)

// DragIntent is the target state a drag gesture paints onto cells.
type DragIntent int

const (
	// IntentNone means no gesture is active.
	IntentNone DragIntent = iota
	IntentAdding
	IntentRemoving
)

// String returns the intent name.
func (d DragIntent) String() string {
	switch d {
	case IntentAdding:
		return "adding"
	case IntentRemoving:
		return "removing"
	default:
		return "none"
	}
}

// QuestionSet is an immutable set of completed question numbers.
// The zero value is an empty set. Mutating operations return a new set.
type QuestionSet struct {
	members map[int]struct{}
}

// NewQuestionSet builds a set from the given numbers, dropping duplicates.
func NewQuestionSet(nums ...int) QuestionSet {
	members := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		members[n] = struct{}{}
	}
	return QuestionSet{members: members}
}

// Has reports whether n is in the set.
func (s QuestionSet) Has(n int) bool {
	_, ok := s.members[n]
	return ok
}

// Len returns the number of members.
func (s QuestionSet) Len() int {
	return len(s.members)
}

// CountInRange returns how many members lie within [lo, hi].
func (s QuestionSet) CountInRange(lo, hi int) int {
	count := 0
	for n := range s.members {
		if n >= lo && n <= hi {
			count++
		}
	}
	return count
}

// Sorted materializes the set as an ascending slice.
func (s QuestionSet) Sorted() []int {
	out := make([]int, 0, len(s.members))
	for n := range s.members {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// With returns a copy of the set including n.
func (s QuestionSet) With(n int) QuestionSet {
	if s.Has(n) {
		return s
	}
	next := s.clone(len(s.members) + 1)
	next.members[n] = struct{}{}
	return next
}

// Without returns a copy of the set excluding n.
func (s QuestionSet) Without(n int) QuestionSet {
	if !s.Has(n) {
		return s
	}
	next := s.clone(len(s.members))
	delete(next.members, n)
	return next
}

// Equal reports whether both sets hold the same members.
func (s QuestionSet) Equal(other QuestionSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for n := range s.members {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

func (s QuestionSet) clone(capacity int) QuestionSet {
	members := make(map[int]struct{}, capacity)
	for n := range s.members {
		members[n] = struct{}{}
	}
	return QuestionSet{members: members}
}

// MarshalJSON encodes the set as a sorted array.
func (s QuestionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of numbers, dropping duplicates.
func (s *QuestionSet) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	*s = NewQuestionSet(nums...)
	return nil
}

// Toggle flips membership of n. The returned intent is the state n moved to,
// which a drag gesture started on n then applies to every cell it enters.
func Toggle(sel QuestionSet, n int) (QuestionSet, DragIntent) {
	if sel.Has(n) {
		return sel.Without(n), IntentRemoving
	}
	return sel.With(n), IntentAdding
}

// DragOver applies an active gesture's intent to n. Cells already in the
// target state are left alone.
func DragOver(sel QuestionSet, n int, intent DragIntent) QuestionSet {
	switch intent {
	case IntentAdding:
		return sel.With(n)
	case IntentRemoving:
		return sel.Without(n)
	default:
		return sel
	}
}
