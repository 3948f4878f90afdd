// Package csv exports decoded course records as CSV and reads such exports
// back.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/jle"
)

// Header is the column order of an export.
var Header = []string{
	"Subject Num",
	"Subject Code",
	"Subject Title",
	"Schedule",
	"LEC_Schedule",
	"LAB_Schedule",
	"Credit",
	"Lecturer",
	"Academic Year",
	"Semester",
}

var errMissingColumn = errors.New("required column missing")

func MissingColumnError(column string) error {
	return fmt.Errorf("%w, %s", errMissingColumn, column)
}

// WriteCourses writes records to w, header first.
func WriteCourses(w io.Writer, records []jle.CourseRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.SubjectNumber,
			r.SubjectCode,
			r.Title,
			r.Schedule,
			r.LectureSchedule,
			r.LabSchedule,
			r.Credit,
			r.Lecturer,
			r.AcademicYear,
			r.Semester,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseCourses reads an export from filePath. Rows without a subject number
// or subject code are skipped with a warning.
//
//nolint:funlen
func ParseCourses(ctx context.Context, filePath string) ([]jle.CourseRecord, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Parsing courses from csv", "filePath", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil // Handle empty file gracefully
		}
		return nil, fmt.Errorf("failed to read CSV header from file %s: %w", filePath, err)
	}
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range Header[:2] {
		if _, ok := colIndex[strings.ToLower(required)]; !ok {
			return nil, MissingColumnError(required)
		}
	}

	get := func(record []string, column string) string {
		i, ok := colIndex[strings.ToLower(column)]
		if !ok {
			return ""
		}
		return safeGet(record, i)
	}

	var courses []jle.CourseRecord
	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record from CSV in file %s: %w", filePath, readErr)
		}

		course := jle.CourseRecord{
			SubjectNumber:   get(record, "Subject Num"),
			SubjectCode:     get(record, "Subject Code"),
			Title:           get(record, "Subject Title"),
			Schedule:        get(record, "Schedule"),
			LectureSchedule: get(record, "LEC_Schedule"),
			LabSchedule:     get(record, "LAB_Schedule"),
			Credit:          get(record, "Credit"),
			Lecturer:        get(record, "Lecturer"),
			AcademicYear:    get(record, "Academic Year"),
			Semester:        get(record, "Semester"),
		}
		if course.SubjectNumber == "" || course.SubjectCode == "" {
			logger.WarnContext(ctx, "Skipping invalid record", "reason", "missing subject", "file", filePath)
			continue
		}

		courses = append(courses, course)
	}

	return courses, nil
}

// safeGet retrieves slice[index] safely.
func safeGet(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}

	return ""
}
