package csv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eclass/reconciler/jle"
)

// createTempCSV creates a temporary CSV file with the given content.
func createTempCSV(t *testing.T, filename, content string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test CSV file: %v", err)
	}
	return filePath
}

var accounting = jle.CourseRecord{
	SubjectNumber:   "2506F",
	SubjectCode:     "BACC104",
	Title:           "Introduction, to Accounting",
	Schedule:        "730AM- 900AM  MWF  C203",
	LectureSchedule: "730AM- 900AM  MWF  C203",
	Credit:          "3",
	Lecturer:        "JOHN DOE",
	AcademicYear:    "2024-2025",
	Semester:        "Summer",
}

func TestWriteCourses(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCourses(&buf, []jle.CourseRecord{accounting}); err != nil {
		t.Fatalf("WriteCourses failed: %v", err)
	}

	expected := "Subject Num,Subject Code,Subject Title,Schedule,LEC_Schedule,LAB_Schedule,Credit,Lecturer,Academic Year,Semester\n" +
		`2506F,BACC104,"Introduction, to Accounting",730AM- 900AM  MWF  C203,730AM- 900AM  MWF  C203,,3,JOHN DOE,2024-2025,Summer` + "\n"
	if buf.String() != expected {
		t.Errorf("Expected CSV\n%s\ngot\n%s", expected, buf.String())
	}
}

func TestWriteCourses_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCourses(&buf, nil); err != nil {
		t.Fatalf("WriteCourses failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("Expected header only, got %q", buf.String())
	}
}

func TestParseCourses_Success(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCourses(&buf, []jle.CourseRecord{accounting}); err != nil {
		t.Fatalf("WriteCourses failed: %v", err)
	}
	filePath := createTempCSV(t, "DSO_20243_565.csv", buf.String())

	courses, err := ParseCourses(context.Background(), filePath)
	if err != nil {
		t.Fatalf("ParseCourses failed: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(courses))
	}
	if courses[0] != accounting {
		t.Errorf("Expected course %+v, got %+v", accounting, courses[0])
	}
}

func TestParseCourses_ReorderedAndPartialColumns(t *testing.T) {
	csvContent := `subject code,Subject Num,Lecturer
MATH101,1001A,JANE ROE
,1002B,
PE103,1003C`
	filePath := createTempCSV(t, "partial.csv", csvContent)

	courses, err := ParseCourses(context.Background(), filePath)
	if err != nil {
		t.Fatalf("ParseCourses failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(courses))
	}

	expected := jle.CourseRecord{SubjectNumber: "1001A", SubjectCode: "MATH101", Lecturer: "JANE ROE"}
	if courses[0] != expected {
		t.Errorf("Expected first course %+v, got %+v", expected, courses[0])
	}
	if courses[1].SubjectCode != "PE103" || courses[1].Lecturer != "" {
		t.Errorf("Unexpected second course %+v", courses[1])
	}
}

func TestParseCourses_MissingColumn(t *testing.T) {
	filePath := createTempCSV(t, "bad.csv", "Subject Num,Title\n1001A,Algebra\n")

	_, err := ParseCourses(context.Background(), filePath)
	if !errors.Is(err, errMissingColumn) {
		t.Fatalf("Expected errMissingColumn, got %v", err)
	}
}

func TestParseCourses_EmptyFile(t *testing.T) {
	filePath := createTempCSV(t, "empty.csv", "")

	courses, err := ParseCourses(context.Background(), filePath)
	if err != nil {
		t.Fatalf("Expected ParseCourses to succeed for empty file, but got error: %v", err)
	}
	if courses != nil {
		t.Errorf("Expected no courses, got %v", courses)
	}
}

func TestParseCourses_FileNotFound(t *testing.T) {
	_, err := ParseCourses(context.Background(), "non_existent_file.csv")
	if err == nil {
		t.Fatalf("Expected ParseCourses to fail for file not found, but got nil error")
	}
	expectedErrorMsg := "failed to open file"
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("Expected error message to contain '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}
