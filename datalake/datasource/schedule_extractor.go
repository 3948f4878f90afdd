package datasource

import (
	"path/filepath"
	"strings"

	"eclass/reconciler/jle"
)

// ScheduleExtractor extracts info for JLE schedule dumps such as
// "DSO_20243_565.JLE" and for CSV exports named after them.
type ScheduleExtractor struct{}

// NewScheduleExtractor creates a new ScheduleExtractor.
func NewScheduleExtractor() *ScheduleExtractor {
	return &ScheduleExtractor{}
}

// ExtractInfo returns the organisation prefix and term of a JLE or CSV file
// name. A name without term digits still yields info, with an unknown term.
func (e *ScheduleExtractor) ExtractInfo(filename string) (*SourceInfo, error) {
	base := filepath.Base(filename)

	var source DataSource
	switch strings.ToLower(filepath.Ext(base)) {
	case ".jle":
		source = ScheduleDump
	case ".csv":
		source = CourseExport
	default:
		return nil, ErrUnableToExtractInfo
	}

	org, _, _ := strings.Cut(strings.TrimSuffix(base, filepath.Ext(base)), "_")

	return &SourceInfo{
		DataSource:   source,
		Organization: org,
		Term:         jle.ExtractTerm(base),
	}, nil
}
