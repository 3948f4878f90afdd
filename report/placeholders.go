// Package report fills the grade report template with course and roster data.
package report

import (
	"strconv"
	"time"

	"eclass/reconciler/jle"
	"eclass/reconciler/matcher"
)

const (
	NotAvailable = "N/A"
	NoMatchFound = "NO MATCH FOUND"

	dateLayout = "2006-01-02"
)

// Placeholder keys understood by the template, written as [Insert KEY].
const (
	KeySchoolYear      = "SY"
	KeySubjectCode     = "SC"
	KeySubjectNumber   = "SN"
	KeySemester        = "SEM"
	KeyLecturer        = "LECTURER"
	KeyCredit          = "CREDIT"
	KeySchedule        = "SCHED"
	KeyTitle           = "TITLE"
	KeyStudentCount    = "STUDENT_COUNT"
	KeySubjectTitle    = "ST"
	KeySem             = "Sem"
	KeyOfferingCode    = "OC"
	KeyTime            = "Time"
	KeyFaculty         = "Faculty"
	KeyLectureSched    = "LeS"
	KeyLaboratorySched = "LaS"
)

// Placeholders builds the placeholder values for course. A nil course fills
// every course field with NoMatchFound. A negative student count renders as
// NotAvailable.
func Placeholders(course *jle.CourseRecord, students int, now time.Time) map[string]string {
	count := NotAvailable
	if students >= 0 {
		count = strconv.Itoa(students)
	}

	values := map[string]string{
		KeyStudentCount: count,
		KeyTime:         now.Format(dateLayout),
	}

	if course == nil {
		for _, key := range []string{
			KeySchoolYear, KeySubjectCode, KeySubjectNumber, KeySemester, KeyLecturer,
			KeyCredit, KeySchedule, KeyTitle, KeySubjectTitle, KeySem, KeyOfferingCode,
			KeyFaculty, KeyLectureSched, KeyLaboratorySched,
		} {
			values[key] = NoMatchFound
		}
		return values
	}

	set := func(key, value string) {
		if value == "" {
			value = NotAvailable
		}
		values[key] = value
	}
	set(KeySchoolYear, course.AcademicYear)
	set(KeySubjectCode, course.SubjectCode)
	set(KeySubjectNumber, course.SubjectNumber)
	set(KeySemester, course.Semester)
	set(KeyLecturer, course.Lecturer)
	set(KeyCredit, course.Credit)
	set(KeySchedule, course.Schedule)
	set(KeyTitle, course.Title)
	set(KeySubjectTitle, course.Title)
	set(KeySem, course.Semester)
	set(KeyOfferingCode, course.SubjectNumber)
	set(KeyFaculty, course.Lecturer)
	set(KeyLectureSched, course.LectureSchedule)
	set(KeyLaboratorySched, course.LabSchedule)

	return values
}

// SelectCourse picks the course a report is about. The grade sheet name is
// matched first; failing that, a schedule holding a single course yields
// that course. exact reports whether the name matched.
func SelectCourse(target string, records []jle.CourseRecord) (course *jle.CourseRecord, exact bool) {
	if rec, ok := matcher.Match(target, records); ok {
		return &rec, true
	}
	if len(records) == 1 {
		rec := records[0]
		return &rec, false
	}
	return nil, false
}
