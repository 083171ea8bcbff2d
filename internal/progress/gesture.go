package progress

// Gesture tracks a single drag-select interaction over question cells.
// It is either idle or dragging with a fixed intent; the intent is set by
// the press that started the drag and cleared by the release.
type Gesture struct {
	intent DragIntent
	last   int
}

// Dragging reports whether a gesture is in progress.
func (g Gesture) Dragging() bool {
	return g.intent != IntentNone
}

// Intent returns the active intent, or IntentNone when idle.
func (g Gesture) Intent() DragIntent {
	return g.intent
}

// Press toggles n and starts a drag with the resulting intent.
// A press while already dragging restarts the gesture from n.
func (g Gesture) Press(sel QuestionSet, n int) (Gesture, QuestionSet) {
	next, intent := Toggle(sel, n)
	return Gesture{intent: intent, last: n}, next
}

// Enter applies the active intent to n. Idle gestures and repeated
// events for the cell last visited leave the selection unchanged.
func (g Gesture) Enter(sel QuestionSet, n int) (Gesture, QuestionSet) {
	if !g.Dragging() || n == g.last {
		return g, sel
	}
	g.last = n
	return g, DragOver(sel, n, g.intent)
}

// Release ends the gesture. It is valid in any state.
func (g Gesture) Release() Gesture {
	return Gesture{}
}
