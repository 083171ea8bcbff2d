// Package transfer moves tasks in and out of spreadsheet and JSON files.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/util"
)

// Column order of an import sheet.
const (
	colTitle = iota
	colType
	colDueDate
	colPriority
	colStartPage
	colEndPage
	colStartQuestion
	colEndQuestion
	colSubQuestions
	colVocabCount
	colTags
)

// Header is the expected first row of an import file.
var Header = []string{
	"title", "type", "due date", "priority",
	"start page", "end page", "start question", "end question",
	"sub questions", "vocab count", "tags",
}

// ImportOptions configures how rows are read.
type ImportOptions struct {
	SheetName  string // xlsx only
	SkipHeader bool
	Location   *time.Location
}

// DefaultImportOptions reads Sheet1 and skips the header row.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		SheetName:  "Sheet1",
		SkipHeader: true,
		Location:   time.Local,
	}
}

// RowError reports a row that could not be turned into a task.
type RowError struct {
	Row int // 1-based, as shown by spreadsheet tools
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ImportResult holds the drafts parsed from a file. Rows[i] is the source
// row of Drafts[i].
type ImportResult struct {
	Drafts []task.Draft
	Rows   []int
	Errors []RowError
}

// Import reads tasks from an .xlsx or .csv file. Bad rows are collected in
// the result and do not stop the import.
func Import(path string, opts ImportOptions) (*ImportResult, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		rows, err = readExcel(path, opts.SheetName)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported import format %q (want .xlsx or .csv)", ext)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 1
		if opts.SkipHeader && i == 0 {
			continue
		}
		if blankRow(row) {
			continue
		}
		d, err := ParseRow(row, opts.Location)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: err})
			continue
		}
		result.Drafts = append(result.Drafts, d)
		result.Rows = append(result.Rows, rowNum)
	}
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRow converts one sheet row into a draft. Missing trailing cells are
// treated as blank.
func ParseRow(row []string, loc *time.Location) (task.Draft, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	d := task.Draft{Title: cell(colTitle)}
	if d.Title == "" {
		return d, errors.New("title cannot be empty")
	}

	typ, err := task.ParseType(cell(colType))
	if err != nil {
		return d, err
	}
	d.Type = typ

	due, err := util.ParseDate(cell(colDueDate), loc)
	if err != nil {
		return d, fmt.Errorf("due date: %w", err)
	}
	d.DueDate = due

	prio, err := task.ParsePriority(cell(colPriority))
	if err != nil {
		return d, err
	}
	d.Priority = prio

	fields := []struct {
		col  int
		name string
		dst  **int
	}{
		{colStartPage, "start page", &d.Ranges.StartPage},
		{colEndPage, "end page", &d.Ranges.EndPage},
		{colStartQuestion, "start question", &d.Ranges.StartQuestion},
		{colEndQuestion, "end question", &d.Ranges.EndQuestion},
		{colSubQuestions, "sub questions", &d.Ranges.SubQuestions},
		{colVocabCount, "vocab count", &d.Ranges.VocabCount},
	}
	for _, f := range fields {
		v, err := parseCount(cell(f.col))
		if err != nil {
			return d, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	for _, tag := range strings.Split(cell(colTags), ",") {
		d.Tags, _ = task.AddTag(d.Tags, tag)
	}
	return d, nil
}

// parseCount accepts a blank cell or a non-negative integer.
func parseCount(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &n, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
