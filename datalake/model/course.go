package model

import "eclass/reconciler/jle"

// Course is a decoded course record as stored in the catalog.
type Course struct {
	Organization    string `bson:"organization"`
	SubjectNumber   string `bson:"subjectNumber"`
	SubjectCode     string `bson:"subjectCode"`
	Title           string `bson:"title"`
	Schedule        string `bson:"schedule"`
	LectureSchedule string `bson:"lectureSchedule"`
	LabSchedule     string `bson:"labSchedule"`
	Credit          string `bson:"credit"`
	Lecturer        string `bson:"lecturer"`
	AcademicYear    string `bson:"academicYear"`
	Semester        string `bson:"semester"`
	SourceFile      string `bson:"sourceFile"`
}

// NewCourse tags rec with the organisation and file it was read from.
func NewCourse(rec jle.CourseRecord, organization, sourceFile string) Course {
	return Course{
		Organization:    organization,
		SubjectNumber:   rec.SubjectNumber,
		SubjectCode:     rec.SubjectCode,
		Title:           rec.Title,
		Schedule:        rec.Schedule,
		LectureSchedule: rec.LectureSchedule,
		LabSchedule:     rec.LabSchedule,
		Credit:          rec.Credit,
		Lecturer:        rec.Lecturer,
		AcademicYear:    rec.AcademicYear,
		Semester:        rec.Semester,
		SourceFile:      sourceFile,
	}
}

// Record converts c back to the decoder's record type.
func (c Course) Record() jle.CourseRecord {
	return jle.CourseRecord{
		SubjectNumber:   c.SubjectNumber,
		SubjectCode:     c.SubjectCode,
		Title:           c.Title,
		Schedule:        c.Schedule,
		LectureSchedule: c.LectureSchedule,
		LabSchedule:     c.LabSchedule,
		Credit:          c.Credit,
		Lecturer:        c.Lecturer,
		AcademicYear:    c.AcademicYear,
		Semester:        c.Semester,
	}
}
