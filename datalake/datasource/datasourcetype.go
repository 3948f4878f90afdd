package datasource

// DataSource represents the kind of file a name belongs to.
type DataSource string

const (
	// ScheduleDump is a JLE course-schedule dump.
	ScheduleDump DataSource = "jle"
	// CourseExport is a CSV export of decoded course records.
	CourseExport DataSource = "csv"
	// GradeSheet is a DBF grade sheet for one course.
	GradeSheet DataSource = "dbf"
	// Gradebook is an Excel class record.
	Gradebook DataSource = "xlsx"
)
