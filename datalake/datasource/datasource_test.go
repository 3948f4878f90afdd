package datasource_test

import (
	"errors"
	"testing"

	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/jle"
)

func TestScheduleExtractor_NewScheduleExtractor(t *testing.T) {
	extractor := datasource.NewScheduleExtractor()
	if extractor == nil {
		t.Errorf("NewScheduleExtractor() returned nil, expected a ScheduleExtractor instance")
	}
}

func TestScheduleExtractor_ExtractInfo_Success(t *testing.T) {
	extractor := datasource.NewScheduleExtractor()
	tests := []struct {
		filename    string
		expectedOrg string
		expected    jle.Term
	}{
		{"DSO_20243_565.JLE", "DSO", jle.Term{AcademicYear: "2024-2025", Semester: "Summer"}},
		{"uploads/CBA_20251_12.jle", "CBA", jle.Term{AcademicYear: "2025-2026", Semester: "1st Semester"}},
		{"schedule.jle", "schedule", jle.Term{AcademicYear: jle.Unknown, Semester: jle.Unknown}},
	}

	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			info, err := extractor.ExtractInfo(test.filename)
			if err != nil {
				t.Fatalf("ExtractInfo(%s) returned an unexpected error: %v", test.filename, err)
			}
			if info.DataSource != datasource.ScheduleDump {
				t.Errorf("ExtractInfo(%s) DataSource got %s, want %s", test.filename, info.DataSource, datasource.ScheduleDump)
			}
			if info.Organization != test.expectedOrg {
				t.Errorf("ExtractInfo(%s) Organization got %s, want %s", test.filename, info.Organization, test.expectedOrg)
			}
			if info.Term != test.expected {
				t.Errorf("ExtractInfo(%s) Term got %+v, want %+v", test.filename, info.Term, test.expected)
			}
		})
	}
}

func TestScheduleExtractor_ExtractInfo_NoMatch(t *testing.T) {
	extractor := datasource.NewScheduleExtractor()
	tests := []string{
		"DSO_20243_565.DBF",
		"grades.xlsx",
		"jle",
	}

	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			info, err := extractor.ExtractInfo(filename)
			if !errors.Is(err, datasource.ErrUnableToExtractInfo) {
				t.Errorf("ExtractInfo(%s) expected ErrUnableToExtractInfo, got %v", filename, err)
			}
			if info != nil {
				t.Errorf("ExtractInfo(%s) returned info %v, expected nil", filename, info)
			}
		})
	}
}

func TestScheduleExtractor_ExtractInfo_CourseExport(t *testing.T) {
	info, err := datasource.NewScheduleExtractor().ExtractInfo("exports/DSO_20242_565.csv")
	if err != nil {
		t.Fatalf("ExtractInfo returned an error: %v", err)
	}
	if info.DataSource != datasource.CourseExport {
		t.Errorf("DataSource got %s, want %s", info.DataSource, datasource.CourseExport)
	}
	if info.Organization != "DSO" {
		t.Errorf("Organization got %s, want DSO", info.Organization)
	}
	if info.Term.Semester != "2nd Semester" {
		t.Errorf("Semester got %s, want 2nd Semester", info.Term.Semester)
	}
}

func TestParseGradeSheetName(t *testing.T) {
	tests := []struct {
		filename string
		want     datasource.GradeSheetName
	}{
		{
			"DSO_20243_2506B_BACC104_565.DBF",
			datasource.GradeSheetName{Organization: "DSO", YearSemester: "20243", SubjectNumber: "2506B", SubjectCode: "BACC104", ID: "565"},
		},
		{
			"DSO_20243_2506B_BACC104.dbf",
			datasource.GradeSheetName{Organization: "DSO", YearSemester: "20243", SubjectNumber: "2506B", SubjectCode: "BACC104"},
		},
		{
			"dir/CBA_20251_1001A_MATH101_7_b.DBF",
			datasource.GradeSheetName{Organization: "CBA", YearSemester: "20251", SubjectNumber: "1001A", SubjectCode: "MATH101", ID: "7_b"},
		},
	}

	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			got, err := datasource.ParseGradeSheetName(test.filename)
			if err != nil {
				t.Fatalf("ParseGradeSheetName(%s) returned an unexpected error: %v", test.filename, err)
			}
			if *got != test.want {
				t.Errorf("ParseGradeSheetName(%s) got %+v, want %+v", test.filename, *got, test.want)
			}
		})
	}
}

func TestGradeSheetExtractor_ExtractInfo(t *testing.T) {
	extractor := datasource.NewGradeSheetExtractor()

	info, err := extractor.ExtractInfo("DSO_20243_2506B_BACC104_565.DBF")
	if err != nil {
		t.Fatalf("ExtractInfo returned an unexpected error: %v", err)
	}
	if info.DataSource != datasource.GradeSheet || info.Organization != "DSO" {
		t.Errorf("ExtractInfo got %+v", info)
	}
	if info.Term.Semester != "Summer" || info.Term.AcademicYear != "2024-2025" {
		t.Errorf("ExtractInfo Term got %+v", info.Term)
	}

	for _, filename := range []string{"DSO_20243_565.DBF", "grades.dbf", ""} {
		if _, err := extractor.ExtractInfo(filename); !errors.Is(err, datasource.ErrUnableToExtractInfo) {
			t.Errorf("ExtractInfo(%q) expected ErrUnableToExtractInfo, got %v", filename, err)
		}
	}
}
