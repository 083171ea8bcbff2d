package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/tui/styles"
)

// QuestionGrid lays out the question numbers Lo..Hi as rows of fixed-width
// cells separated by one space. Each row is one terminal line.
type QuestionGrid struct {
	Lo    int
	Hi    int
	Width int // available width in columns
}

// NewQuestionGrid creates a grid for the inclusive range lo..hi.
func NewQuestionGrid(lo, hi, width int) QuestionGrid {
	return QuestionGrid{Lo: lo, Hi: hi, Width: width}
}

// Count is the number of cells.
func (g QuestionGrid) Count() int {
	if g.Hi < g.Lo {
		return 0
	}
	return g.Hi - g.Lo + 1
}

// cellWidth is the rendered width of one cell, excluding the gap.
func (g QuestionGrid) cellWidth() int {
	return len(strconv.Itoa(g.Hi)) + 2
}

func (g QuestionGrid) stride() int {
	return g.cellWidth() + 1
}

// Columns is the number of cells per row.
func (g QuestionGrid) Columns() int {
	// The last cell in a row needs no trailing gap.
	cols := (g.Width + 1) / g.stride()
	return max(cols, 1)
}

// Rows is the number of lines the grid occupies.
func (g QuestionGrid) Rows() int {
	n := g.Count()
	if n == 0 {
		return 0
	}
	cols := g.Columns()
	return (n + cols - 1) / cols
}

// CellAt maps a position relative to the grid's top-left corner to the
// question drawn there. Gaps and positions past the last cell map to nothing.
func (g QuestionGrid) CellAt(x, y int) (int, bool) {
	if x < 0 || y < 0 || g.Count() == 0 {
		return 0, false
	}
	col := x / g.stride()
	if x%g.stride() >= g.cellWidth() || col >= g.Columns() {
		return 0, false
	}
	idx := y*g.Columns() + col
	if idx >= g.Count() {
		return 0, false
	}
	return g.Lo + idx, true
}

// Move returns the question reached from n by moving dx cells across and dy
// rows down, staying on n when the move leaves the grid.
func (g QuestionGrid) Move(n, dx, dy int) int {
	if g.Count() == 0 {
		return n
	}
	idx := n - g.Lo
	cols := g.Columns()
	col, row := idx%cols+dx, idx/cols+dy
	if col < 0 || col >= cols || row < 0 {
		return n
	}
	next := row*cols + col
	if next >= g.Count() {
		return n
	}
	return g.Lo + next
}

// View renders the grid. Completed questions are highlighted; cursor is
// marked when showCursor is set.
func (g QuestionGrid) View(sel progress.QuestionSet, cursor int, showCursor bool) string {
	n := g.Count()
	if n == 0 {
		return ""
	}
	digits := len(strconv.Itoa(g.Hi))
	cols := g.Columns()

	var lines []string
	var row []string
	for i := 0; i < n; i++ {
		q := g.Lo + i
		label := fmt.Sprintf(" %*d ", digits, q)
		style := styles.CellStyle
		switch {
		case showCursor && q == cursor:
			style = styles.CellCursorStyle
			if sel.Has(q) {
				style = styles.CellDoneStyle.Underline(true)
			}
		case sel.Has(q):
			style = styles.CellDoneStyle
		}
		row = append(row, style.Render(label))
		if len(row) == cols {
			lines = append(lines, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}
