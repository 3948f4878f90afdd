package synthetic

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/config"
	"eclass/reconciler/datalake/model"
	"eclass/reconciler/dbf"
	"eclass/reconciler/gradebook"
	"eclass/reconciler/jle"
	"eclass/reconciler/storage"

	"github.com/xuri/excelize/v2"
)

const studentsPerClass = 12

// GradeSheetFields is the layout of generated grade sheets.
var GradeSheetFields = []dbf.Field{
	{Name: "NO", Type: 'N', Length: 3},
	{Name: "NAME", Type: 'C', Length: 30},
	{Name: "GRADE", Type: 'C', Length: 5},
	{Name: "REMARKS", Type: 'C', Length: 10},
	{Name: "COURSE", Type: 'C', Length: 8},
	{Name: "IDNO", Type: 'C', Length: 10},
}

// Output describes one generated data set.
type Output struct {
	JLEPath        string
	GradeSheetPath string
	GradebookPath  string
	Term           jle.Term
	Organization   string
	Records        []jle.CourseRecord
	// Course is the record the grade sheet belongs to.
	Course   jle.CourseRecord
	Students []Student
}

// GenerateSyntheticData writes a JLE dump with rows courses to dir, plus a
// grade sheet and grade workbook for one of its courses.
func GenerateSyntheticData(rows int, dir string) (*Output, error) {
	return generate(rand.New(rand.NewSource(time.Now().UnixNano())), rows, dir)
}

func generate(rng *rand.Rand, rows int, dir string) (*Output, error) {
	if rows < 1 {
		return nil, fmt.Errorf("rows must be positive, got %d", rows)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	org := pick(rng, organizations)
	yearSemester := fmt.Sprintf("%d%d", 2020+rng.Intn(6), 1+rng.Intn(3))
	jleName := fmt.Sprintf("%s_%s_%d.JLE", org, yearSemester, 100+rng.Intn(900))
	term := jle.ExtractTerm(jleName)

	out := &Output{
		JLEPath:      filepath.Join(dir, jleName),
		Term:         term,
		Organization: org,
		Records:      randomCourses(rng, rows, term),
		Students:     randomStudents(rng, studentsPerClass),
	}
	out.Course = out.Records[rng.Intn(len(out.Records))]

	if err := os.WriteFile(out.JLEPath, EncodeJLE(out.Records), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write file '%s': %w", out.JLEPath, err)
	}

	base := fmt.Sprintf("%s_%s_%s_%s_%d", org, yearSemester, out.Course.SubjectNumber, out.Course.SubjectCode, 1+rng.Intn(999))
	out.GradeSheetPath = filepath.Join(dir, base+".DBF")
	if err := writeGradeSheet(out.GradeSheetPath, out.Course, out.Students); err != nil {
		return nil, err
	}

	out.GradebookPath = filepath.Join(dir, base+".xlsx")
	if err := writeGradebook(out.GradebookPath, out.Students); err != nil {
		return nil, err
	}

	return out, nil
}

// writeGradeSheet writes the class list with empty grade and remark fields.
func writeGradeSheet(path string, course jle.CourseRecord, students []Student) error {
	table, err := dbf.Create(GradeSheetFields)
	if err != nil {
		return fmt.Errorf("failed to create grade sheet: %w", err)
	}
	for i, s := range students {
		if err := table.Append(fmt.Sprintf("%d", i+1), s.Name, "", "", course.SubjectCode, s.ID); err != nil {
			return fmt.Errorf("failed to add student %s: %w", s.ID, err)
		}
	}
	if err := table.WriteFile(path); err != nil {
		return fmt.Errorf("failed to write grade sheet: %w", err)
	}
	return nil
}

// writeGradebook writes the FFG sheet the grade updater reads. Numeric
// grades are stored as numbers, the rest as text.
func writeGradebook(path string, students []Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradebook.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := gradebook.HeaderRow
	cells := map[string]any{
		fmt.Sprintf("A%d", header): "No.",
		fmt.Sprintf("C%d", header): "ID Number",
		fmt.Sprintf("D%d", header): "Name",
		fmt.Sprintf("H%d", header): gradebook.GradeHeader,
		fmt.Sprintf("J%d", header): gradebook.RemarksHeader,
	}
	for i, s := range students {
		row := gradebook.FirstDataRow + i
		id, _ := parseNumber(s.ID)
		cells[fmt.Sprintf("A%d", row)] = i + 1
		cells[fmt.Sprintf("C%d", row)] = id
		cells[fmt.Sprintf("D%d", row)] = s.Name
		if s.Grade != "" {
			if g, ok := parseNumber(s.Grade); ok {
				cells[fmt.Sprintf("H%d", row)] = g
			} else {
				cells[fmt.Sprintf("H%d", row)] = s.Grade
			}
		}
		if s.Remarks != "" {
			cells[fmt.Sprintf("J%d", row)] = s.Remarks
		}
	}

	for ref, v := range cells {
		if err := f.SetCellValue(gradebook.Sheet, ref, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", ref, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook '%s': %w", path, err)
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// RunGenerateSyntheticData generates synthetic data for testing.
func RunGenerateSyntheticData(ctx context.Context, args []string, cfg *config.Config) error {
	logger := appcontext.LoggerFromContext(ctx)

	genFlagSet := flag.NewFlagSet("generate-synthetic-data", flag.ContinueOnError)
	rows := genFlagSet.Int("rows", cfg.SyntheticDataRows, "Number of courses to generate")
	dir := genFlagSet.String("dir", cfg.SyntheticDataDir, "Directory to write synthetic data to")
	persist := genFlagSet.Bool("persist", false, "Store the generated courses in the configured store")
	if err := genFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	logger.InfoContext(ctx, "Generating synthetic data", "rows", *rows, "dir", *dir)
	out, err := GenerateSyntheticData(*rows, *dir)
	if err != nil {
		return fmt.Errorf("failed to generate synthetic data: %w", err)
	}
	logger.InfoContext(
		ctx,
		"Synthetic data generated successfully",
		"jle", out.JLEPath,
		"gradeSheet", out.GradeSheetPath,
		"gradebook", out.GradebookPath,
	)

	if !*persist {
		return nil
	}

	store, err := storage.Open(ctx, cfg.StorageDriver, cfg.StoreTarget())
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StorageDriver, err)
	}
	defer func() {
		if deferErr := store.Close(ctx); deferErr != nil {
			logger.ErrorContext(ctx, "Error closing the course store", "error", deferErr)
		}
	}()

	courses := make([]model.Course, 0, len(out.Records))
	for _, rec := range out.Records {
		courses = append(courses, model.NewCourse(rec, out.Organization, filepath.Base(out.JLEPath)))
	}
	if err := store.BulkUpsertCourses(ctx, courses); err != nil {
		return fmt.Errorf("failed to persist synthetic courses: %w", err)
	}
	logger.InfoContext(ctx, "Synthetic courses persisted", "driver", cfg.StorageDriver, "courses", len(courses))
	return nil
}
