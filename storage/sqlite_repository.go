package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/datalake/model"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

const schema = `
CREATE TABLE IF NOT EXISTS courses (
	organization     TEXT NOT NULL,
	academic_year    TEXT NOT NULL,
	semester         TEXT NOT NULL,
	subject_number   TEXT NOT NULL,
	subject_code     TEXT NOT NULL,
	title            TEXT NOT NULL DEFAULT '',
	schedule         TEXT NOT NULL DEFAULT '',
	lecture_schedule TEXT NOT NULL DEFAULT '',
	lab_schedule     TEXT NOT NULL DEFAULT '',
	credit           TEXT NOT NULL DEFAULT '',
	lecturer         TEXT NOT NULL DEFAULT '',
	source_file      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (organization, academic_year, semester, subject_number, subject_code)
);
CREATE TABLE IF NOT EXISTS data_sync (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL DEFAULT '',
	collection_name  TEXT NOT NULL,
	source_file      TEXT NOT NULL DEFAULT '',
	sync_timestamp   INTEGER NOT NULL,
	records_uploaded INTEGER NOT NULL
);
`

const upsertCourse = `
	INSERT INTO courses (
		organization, academic_year, semester, subject_number, subject_code,
		title, schedule, lecture_schedule, lab_schedule, credit, lecturer, source_file
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(organization, academic_year, semester, subject_number, subject_code) DO UPDATE SET
		title = excluded.title,
		schedule = excluded.schedule,
		lecture_schedule = excluded.lecture_schedule,
		lab_schedule = excluded.lab_schedule,
		credit = excluded.credit,
		lecturer = excluded.lecturer,
		source_file = excluded.source_file
`

// SQLiteRepository keeps the course catalog in a local SQLite file, for
// installations without a MongoDB server.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// sqliteDSN carries the pragmas in the connection string so that the driver
// applies them to every pooled connection, not just the first. Immediate
// transactions take the write lock up front and wait on busy_timeout.
func sqliteDSN(path string) string {
	return path + "?_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
}

// NewSQLiteRepository opens (creating when needed) the database at path and
// initializes the schema.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	appcontext.LoggerFromContext(ctx).DebugContext(ctx, "Opened SQLite course catalog", "path", path)
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// BulkUpsertCourses writes courses and their sync log entry in one
// transaction.
func (r *SQLiteRepository) BulkUpsertCourses(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertCourse)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range courses {
		_, err = stmt.ExecContext(ctx,
			c.Organization, c.AcademicYear, c.Semester, c.SubjectNumber, c.SubjectCode,
			c.Title, c.Schedule, c.LectureSchedule, c.LabSchedule, c.Credit, c.Lecturer, c.SourceFile,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert course %s %s: %w", c.SubjectNumber, c.SubjectCode, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO data_sync (run_id, collection_name, source_file, sync_timestamp, records_uploaded)
		VALUES (?, ?, ?, ?, ?)`,
		appcontext.RunIDFromContext(ctx), CoursesCollection, courses[0].SourceFile, r.now().Unix(), len(courses),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into data_sync: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit courses: %w", err)
	}
	return nil
}

// Courses returns the stored courses of one organisation and term, ordered
// by subject number and code.
func (r *SQLiteRepository) Courses(ctx context.Context, organization, academicYear, semester string) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT organization, academic_year, semester, subject_number, subject_code,
			title, schedule, lecture_schedule, lab_schedule, credit, lecturer, source_file
		FROM courses
		WHERE organization = ? AND academic_year = ? AND semester = ?
		ORDER BY subject_number, subject_code`,
		organization, academicYear, semester,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.Organization, &c.AcademicYear, &c.Semester, &c.SubjectNumber, &c.SubjectCode,
			&c.Title, &c.Schedule, &c.LectureSchedule, &c.LabSchedule, &c.Credit, &c.Lecturer, &c.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read courses: %w", err)
	}
	return courses, nil
}

// SyncLogs returns the sync log, oldest first.
func (r *SQLiteRepository) SyncLogs(ctx context.Context) ([]model.SyncLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, collection_name, source_file, sync_timestamp, records_uploaded
		FROM data_sync
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query data_sync: %w", err)
	}
	defer rows.Close()

	var logs []model.SyncLog
	for rows.Next() {
		var (
			l  model.SyncLog
			ts int64
		)
		if err := rows.Scan(&l.RunID, &l.CollectionName, &l.SourceFile, &ts, &l.RecordsUploaded); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		l.SyncTimestamp = time.Unix(ts, 0)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync logs: %w", err)
	}
	return logs, nil
}

// Close closes the database.
func (r *SQLiteRepository) Close(context.Context) error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
