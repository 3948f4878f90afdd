// Package gradebook reads final grades from the faculty grade workbook.
//
// The workbook carries a sheet named FFG. Row 7 holds the column headers; the
// EG column is the final grade and REMARKS the remark. Student rows start at
// row 11 and are keyed by the student ID in column C.
package gradebook

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	Sheet = "FFG"

	HeaderRow    = 7
	FirstDataRow = 11
	IDColumn     = "C"

	GradeHeader   = "EG"
	RemarksHeader = "REMARKS"
)

// Entry holds one student's values. An empty field means the cell was empty.
type Entry struct {
	Grade   string
	Remarks string
}

// Grades maps student IDs to their entries.
type Grades map[string]Entry

// Read parses a workbook from r.
func Read(r io.Reader) (Grades, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return readSheet(f)
}

// ReadFile parses the workbook at path.
func ReadFile(path string) (Grades, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file %s: %w", path, err)
	}
	defer f.Close()

	return readSheet(f)
}

func readSheet(f *excelize.File) (Grades, error) {
	if idx, err := f.GetSheetIndex(Sheet); err != nil || idx < 0 {
		return nil, sheetNotFoundError(Sheet, f.GetSheetList())
	}

	gradeCol, remarksCol, err := findColumns(f)
	if err != nil {
		return nil, err
	}

	grades := make(Grades)
	for row := FirstDataRow; ; row++ {
		idCell := IDColumn + strconv.Itoa(row)
		raw, err := cellValue(f, idCell)
		if err != nil {
			return nil, err
		}
		if raw.text == "" {
			break
		}

		id, ok := raw.studentID()
		if !ok {
			continue
		}

		grade, err := cellValue(f, gradeCol+strconv.Itoa(row))
		if err != nil {
			return nil, err
		}
		remarks, err := cellValue(f, remarksCol+strconv.Itoa(row))
		if err != nil {
			return nil, err
		}

		grades[id] = Entry{Grade: grade.clean(), Remarks: remarks.clean()}
	}

	return grades, nil
}

// findColumns locates the grade and remarks columns in the header row. When
// a header repeats, the rightmost column wins.
func findColumns(f *excelize.File) (gradeCol, remarksCol string, err error) {
	rows, err := f.GetRows(Sheet)
	if err != nil {
		return "", "", fmt.Errorf("failed to read Excel rows: %w", err)
	}

	if len(rows) >= HeaderRow {
		for i, value := range rows[HeaderRow-1] {
			name, convErr := excelize.ColumnNumberToName(i + 1)
			if convErr != nil {
				return "", "", fmt.Errorf("failed to name column %d: %w", i+1, convErr)
			}
			switch strings.ToUpper(strings.TrimSpace(value)) {
			case GradeHeader:
				gradeCol = name
			case RemarksHeader:
				remarksCol = name
			}
		}
	}

	if gradeCol == "" {
		return "", "", headerNotFoundError(GradeHeader, HeaderRow)
	}
	if remarksCol == "" {
		return "", "", headerNotFoundError(RemarksHeader, HeaderRow)
	}
	return gradeCol, remarksCol, nil
}

// cell is a raw cell value together with whether the workbook stores it as a
// number.
type cell struct {
	text    string
	numeric bool
	number  float64
}

func cellValue(f *excelize.File, ref string) (cell, error) {
	text, err := f.GetCellValue(Sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return cell{}, fmt.Errorf("failed to read cell %s: %w", ref, err)
	}

	typ, err := f.GetCellType(Sheet, ref)
	if err != nil {
		return cell{}, fmt.Errorf("failed to read type of cell %s: %w", ref, err)
	}

	c := cell{text: text}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
	default:
		if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			c.numeric = true
			c.number = n
		}
	}
	return c, nil
}

// studentID renders the ID the way the grade sheet stores it. Numbers are
// truncated to integers; text must parse as an integer.
func (c cell) studentID() (string, bool) {
	if c.numeric {
		if math.IsInf(c.number, 0) || math.IsNaN(c.number) {
			return "", false
		}
		return strconv.FormatInt(int64(c.number), 10), true
	}

	n, err := strconv.Atoi(strings.TrimSpace(c.text))
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n), true
}

// clean renders numbers with one decimal place and keeps text verbatim.
func (c cell) clean() string {
	if c.numeric {
		return strconv.FormatFloat(c.number, 'f', 1, 64)
	}
	return c.text
}
