package synthetic

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"

	"eclass/reconciler/jle"
)

// Pools the generator draws from. Titles avoid the LEC/LAB letter runs and
// digits so that they decode back unchanged.
var (
	organizations = []string{"DSO", "CBA", "CAS", "CCS"}
	codePrefixes  = []string{"ACC", "MKT", "CHEM", "HIST", "ETH", "MATH", "ART", "COM", "FIN"}
	titles        = []string{
		"Introduction to Accounting",
		"Principles of Marketing",
		"General Chemistry",
		"Philippine History",
		"Business Ethics",
		"Calculus",
		"Art Appreciation",
		"Purposive Communication",
		"Readings in History",
		"Financial Management",
	}
	lecturers = []string{"JOHN DOE", "MA. CRUZ-SANTOS", "ANA REYES", "PEDRO SANTOS", "IVY TAN", "MARK LEE"}
	times     = []string{"730AM- 900AM", "900AM-1030AM", "1030AM-1200PM", "100PM- 230PM", "230PM- 400PM", "400PM- 530PM"}
	days      = []string{"MWF", "TTh", "S", "MW"}
	rooms     = []string{"A101", "B201", "C203", "L101", "L305", "G110"}

	firstNames = []string{"JUAN", "MARIA", "JOSE", "ANA", "PAOLO", "LIZA", "MARK", "GRACE"}
	lastNames  = []string{"DELA CRUZ", "SANTOS", "REYES", "GARCIA", "MENDOZA", "TAN", "LIM", "BAUTISTA"}
)

// Student is one generated class-list entry. Grade and Remarks hold the
// values the grade workbook renders, so they can be compared with the grade
// sheet after an update.
type Student struct {
	ID      string
	Name    string
	Grade   string
	Remarks string
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func schedule(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s %s", pick(rng, times), pick(rng, days), pick(rng, rooms))
}

// randomCourses returns n courses with distinct subject numbers.
func randomCourses(rng *rand.Rand, n int, term jle.Term) []jle.CourseRecord {
	records := make([]jle.CourseRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := jle.CourseRecord{
			SubjectNumber:    fmt.Sprintf("%04d%c", 1000+i, 'A'+rune(rng.Intn(26))),
			SubjectCode:      fmt.Sprintf("%s%d", pick(rng, codePrefixes), 100+rng.Intn(300)),
			Title:            pick(rng, titles),
			Credit:           fmt.Sprintf("%d", 1+rng.Intn(5)),
			Lecturer:         pick(rng, lecturers),
			AcademicYear:     term.AcademicYear,
			Semester:         term.Semester,
			LecturerStrategy: jle.StrategyPrimary,
		}

		rec.LectureSchedule = schedule(rng)
		rec.Schedule = rec.LectureSchedule
		if rng.Intn(4) == 0 {
			rec.LabSchedule = schedule(rng)
			rec.Schedule += " / " + rec.LabSchedule
		}

		records = append(records, rec)
	}
	return records
}

// EncodeJLE lays records out the way registrar dumps do: subject number,
// padding, the section letter fused to the code, then the free-text body,
// with control bytes between entries.
func EncodeJLE(records []jle.CourseRecord) []byte {
	var buf bytes.Buffer
	for _, rec := range records {
		schedules := strings.ReplaceAll(rec.Schedule, " / ", " ")
		fmt.Fprintf(&buf, "%s   %s%s %s %s %s      %s",
			rec.SubjectNumber[:4], rec.SubjectNumber[4:], rec.SubjectCode,
			rec.Title, schedules, rec.Credit, rec.Lecturer,
		)
		buf.WriteString("\x00\x00\n")
	}
	buf.WriteByte(0x1a)
	return buf.Bytes()
}

// randomStudents returns n students with distinct numeric IDs. Grades step
// by halves so their one-decimal rendering is exact.
func randomStudents(rng *rand.Rand, n int) []Student {
	students := make([]Student, 0, n)
	for i := 0; i < n; i++ {
		s := Student{
			ID:   fmt.Sprintf("%d", 20240001+i),
			Name: fmt.Sprintf("%s, %s", pick(rng, lastNames), pick(rng, firstNames)),
		}

		switch r := rng.Intn(10); {
		case r == 0:
			s.Remarks = "DROPPED"
		case r == 1:
			s.Grade = "INC"
		case r == 2:
			s.Grade = "5.0"
			s.Remarks = "FAILED"
		default:
			s.Grade = fmt.Sprintf("%.1f", 1+float64(rng.Intn(5))*0.5)
			s.Remarks = "PASSED"
		}

		students = append(students, s)
	}
	return students
}
