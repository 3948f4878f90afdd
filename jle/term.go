package jle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unknown is used for academic year and semester when a file name carries
// no term digits.
const Unknown = "Unknown"

var termPattern = regexp.MustCompile(`(\d{4})(\d)`)

var semesterNames = map[string]string{
	"1": "1st Semester",
	"2": "2nd Semester",
	"3": "Summer",
}

// Term is the file-level academic year and semester.
type Term struct {
	AcademicYear string `json:"academic_year"`
	Semester     string `json:"semester"`
}

// ExtractTerm derives the term from the first run of five digits in a file
// name, e.g. "DSO_20243_565.JLE" gives 2024-2025 Summer.
func ExtractTerm(filename string) Term {
	m := termPattern.FindStringSubmatch(filename)
	if m == nil {
		return Term{AcademicYear: Unknown, Semester: Unknown}
	}

	year, _ := strconv.Atoi(m[1])
	semester, ok := semesterNames[m[2]]
	if !ok {
		semester = fmt.Sprintf("%sth Term", m[2])
	}

	return Term{
		AcademicYear: fmt.Sprintf("%s-%d", m[1], year+1),
		Semester:     semester,
	}
}

// SemesterDigit maps a semester name back to its term digit. Names outside
// the three regular terms map to "0".
func SemesterDigit(semester string) string {
	switch semester {
	case "1st Semester":
		return "1"
	case "2nd Semester":
		return "2"
	case "Summer":
		return "3"
	default:
		return "0"
	}
}

// YearSemester renders the term as the starting year followed by the
// semester digit ("20243").
func (t Term) YearSemester() string {
	year, _, _ := strings.Cut(t.AcademicYear, "-")
	return year + SemesterDigit(t.Semester)
}
