package util

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NewTaskID returns a random identifier for a new task.
func NewTaskID() string {
	return uuid.NewString()
}

// ShortID returns the first block of a task ID for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IsTaskID reports whether s parses as a full task identifier.
func IsTaskID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Slug converts a string to kebab-case.
// It lowercases the string, replaces spaces and underscores with hyphens,
// removes non-alphanumeric characters (except hyphens), collapses multiple
// consecutive hyphens, and trims leading/trailing hyphens.
func Slug(s string) string {
	var result strings.Builder

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(unicode.ToLower(r))
		} else if r == ' ' || r == '_' || r == '-' {
			result.WriteRune('-')
		}
	}

	str := result.String()
	for strings.Contains(str, "--") {
		str = strings.ReplaceAll(str, "--", "-")
	}

	return strings.Trim(str, "-")
}

// MaxListRange bounds how many question numbers a single list may expand to.
const MaxListRange = 10000

// ParseQuestionList parses a list like "1-5,8,10" into question numbers.
// Whitespace is ignored; an empty string yields no numbers. Lists expanding
// to more than MaxListRange numbers are rejected.
func ParseQuestionList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid question number %q", part)
			}
			out = append(out, n)
			continue
		}

		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid range start in %q", part)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid range end in %q", part)
		}
		if to < from {
			return nil, fmt.Errorf("range %q is reversed", part)
		}
		if to-from >= MaxListRange-len(out) {
			return nil, fmt.Errorf("question list exceeds %d numbers", MaxListRange)
		}
		for n := from; ; n++ {
			out = append(out, n)
			if n == to {
				break
			}
		}
	}
	return out, nil
}

// FormatQuestionList is the inverse of ParseQuestionList for sorted input,
// collapsing consecutive runs into ranges.
func FormatQuestionList(nums []int) string {
	if len(nums) == 0 {
		return ""
	}
	var parts []string
	start, prev := nums[0], nums[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range nums[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()
	return strings.Join(parts, ",")
}
