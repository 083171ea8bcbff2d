package components

import (
	"fmt"
	"strings"

	"github.com/remdocs/remdocs/internal/tui/styles"
)

const (
	filledChar = "■"
	emptyChar  = "□"
)

// Progress renders a progress bar like: ■■■■□□□□ 50%
// The bar is coloured by progress band.
type Progress struct {
	Percent int
	Width   int // character width of the bar portion
}

// NewProgress creates a new Progress instance.
func NewProgress(percent, width int) Progress {
	return Progress{
		Percent: percent,
		Width:   width,
	}
}

// View returns the rendered progress bar string.
func (p Progress) View() string {
	if p.Width <= 0 {
		return ""
	}

	percent := min(max(p.Percent, 0), 100)
	filled := (percent * p.Width) / 100

	bar := strings.Repeat(filledChar, filled) + strings.Repeat(emptyChar, p.Width-filled)
	return styles.ProgressStyle(percent).Render(fmt.Sprintf("%s %d%%", bar, percent))
}
