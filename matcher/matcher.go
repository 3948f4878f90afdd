// Package matcher pairs grade-sheet file names with decoded course records.
package matcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/jle"
)

// Match returns the first record whose year/semester, subject number and
// subject code equal the matching segments of target. Comparison is exact and
// case-sensitive. A name with fewer than four segments never matches.
func Match(target string, records []jle.CourseRecord) (jle.CourseRecord, bool) {
	name, err := datasource.ParseGradeSheetName(target)
	if err != nil {
		return jle.CourseRecord{}, false
	}

	for _, rec := range records {
		if matches(name, rec) {
			return rec, true
		}
	}
	return jle.CourseRecord{}, false
}

func matches(name *datasource.GradeSheetName, rec jle.CourseRecord) bool {
	return name.YearSemester == rec.YearSemester() &&
		name.SubjectNumber == rec.SubjectNumber &&
		name.SubjectCode == rec.SubjectCode
}

// Found is a grade sheet located by FindGradeSheet.
type Found struct {
	Path   string
	Record jle.CourseRecord
}

// FindGradeSheet scans dir in name order for the first .dbf file matching
// any of records. ok is false when nothing matches.
func FindGradeSheet(dir string, records []jle.CourseRecord) (found Found, ok bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Found{}, false, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".dbf") {
			continue
		}
		if rec, hit := Match(entry.Name(), records); hit {
			return Found{Path: filepath.Join(dir, entry.Name()), Record: rec}, true, nil
		}
	}
	return Found{}, false, nil
}
