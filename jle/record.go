// Package jle decodes the binary course-schedule dumps ("JLE" files) written
// by the registrar's software into ordered course records.
//
// The format has no published schema. Records are recovered from the text
// projection of the bytes with a chain of pattern heuristics; every
// extraction either finds a value or leaves it empty, so decoding never
// fails on malformed content.
package jle

// Lecturer heuristics that can fire for a record.
const (
	StrategyPrimary  = "primary"
	StrategyFallback = "fallback"
	StrategyNone     = ""
)

// CourseRecord is one course entry recovered from a JLE file.
//
// Credit and Lecturer are empty when the decoder could not find them.
// AcademicYear and Semester are copied from the file name and are the same
// for every record of one file.
type CourseRecord struct {
	SubjectNumber    string `json:"subject_number"`
	SubjectCode      string `json:"subject_code"`
	Title            string `json:"title"`
	Schedule         string `json:"schedule"`
	LectureSchedule  string `json:"lecture_schedule"`
	LabSchedule      string `json:"lab_schedule"`
	Credit           string `json:"credit,omitempty"`
	Lecturer         string `json:"lecturer,omitempty"`
	AcademicYear     string `json:"academic_year"`
	Semester         string `json:"semester"`
	LecturerStrategy string `json:"lecturer_strategy,omitempty"`
}

// YearSemester renders the record's term in the YYYYT form used by grade
// sheet file names.
func (r CourseRecord) YearSemester() string {
	return Term{AcademicYear: r.AcademicYear, Semester: r.Semester}.YearSemester()
}

// File is a decoded JLE file.
type File struct {
	Name    string
	Size    int
	Term    Term
	Records []CourseRecord
}

// CourseCodes returns the subject codes of the file's records in order.
func (f *File) CourseCodes() []string {
	codes := make([]string, 0, len(f.Records))
	for _, r := range f.Records {
		codes = append(codes, r.SubjectCode)
	}
	return codes
}
