package datasource

import (
	"path/filepath"
	"strings"

	"eclass/reconciler/jle"
)

// GradeSheetName is the parsed form of ORG_YEARSEM_SUBJNUM_SUBJCODE_ID.DBF.
type GradeSheetName struct {
	Organization  string
	YearSemester  string
	SubjectNumber string
	SubjectCode   string
	ID            string
}

// ParseGradeSheetName splits a grade sheet file name into its parts. Names
// with fewer than four underscore-separated segments are rejected with
// ErrUnableToExtractInfo.
func ParseGradeSheetName(filename string) (*GradeSheetName, error) {
	name := strings.TrimSuffix(filepath.Base(filename), ".dbf")
	name = strings.TrimSuffix(name, ".DBF")

	parts := strings.Split(name, "_")
	if len(parts) < 4 {
		return nil, ErrUnableToExtractInfo
	}

	gs := &GradeSheetName{
		Organization:  parts[0],
		YearSemester:  parts[1],
		SubjectNumber: parts[2],
		SubjectCode:   parts[3],
	}
	if len(parts) > 4 {
		gs.ID = strings.Join(parts[4:], "_")
	}
	return gs, nil
}

// GradeSheetExtractor extracts info for DBF grade sheets.
type GradeSheetExtractor struct{}

// NewGradeSheetExtractor creates a new GradeSheetExtractor.
func NewGradeSheetExtractor() *GradeSheetExtractor {
	return &GradeSheetExtractor{}
}

// ExtractInfo extracts the organisation and term from a grade sheet name.
func (e *GradeSheetExtractor) ExtractInfo(filename string) (*SourceInfo, error) {
	gs, err := ParseGradeSheetName(filename)
	if err != nil {
		return nil, err
	}

	return &SourceInfo{
		DataSource:   GradeSheet,
		Organization: gs.Organization,
		Term:         jle.ExtractTerm(gs.YearSemester),
	}, nil
}
