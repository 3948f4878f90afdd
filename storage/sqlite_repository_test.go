package storage_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/datalake/model"
	"eclass/reconciler/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openSQLite(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "db", "eclass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func TestSQLiteRepository_BulkUpsertCourses(t *testing.T) {
	ctx := appcontext.WithRunID(context.Background(), "run-7")
	repo := openSQLite(t)

	courses := []model.Course{
		{Organization: "DSO", SubjectNumber: "2506F", SubjectCode: "BACC104", Title: "Accounting", AcademicYear: "2024-2025", Semester: "Summer", SourceFile: "DSO_20243_565.JLE"},
		{Organization: "DSO", SubjectNumber: "1002B", SubjectCode: "ENG102", Title: "English", AcademicYear: "2024-2025", Semester: "Summer", SourceFile: "DSO_20243_565.JLE"},
		{Organization: "DSO", SubjectNumber: "1002B", SubjectCode: "ENG102", Title: "English", AcademicYear: "2025-2026", Semester: "1st Semester", SourceFile: "DSO_20251_565.JLE"},
	}
	require.NoError(t, repo.BulkUpsertCourses(ctx, courses))

	got, err := repo.Courses(ctx, "DSO", "2024-2025", "Summer")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1002B", got[0].SubjectNumber)
	assert.Equal(t, courses[0], got[1])

	logs, err := repo.SyncLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "run-7", logs[0].RunID)
	assert.Equal(t, storage.CoursesCollection, logs[0].CollectionName)
	assert.Equal(t, "DSO_20243_565.JLE", logs[0].SourceFile)
	assert.Equal(t, int64(3), logs[0].RecordsUploaded)
}

func TestSQLiteRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	course := model.Course{Organization: "DSO", SubjectNumber: "2506F", SubjectCode: "BACC104", Lecturer: "JOHN", AcademicYear: "2024-2025", Semester: "Summer"}
	require.NoError(t, repo.BulkUpsertCourses(ctx, []model.Course{course}))

	course.Lecturer = "JOHN DOE"
	require.NoError(t, repo.BulkUpsertCourses(ctx, []model.Course{course}))

	got, err := repo.Courses(ctx, "DSO", "2024-2025", "Summer")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "JOHN DOE", got[0].Lecturer)

	logs, err := repo.SyncLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestSQLiteRepository_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	const workers, rounds = 8, 20
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		course := model.Course{
			Organization:  "DSO",
			AcademicYear:  "2024-2025",
			Semester:      "Summer",
			SubjectNumber: fmt.Sprintf("%04dA", w),
			SubjectCode:   "MATH101",
		}
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				course.Title = fmt.Sprintf("round %d", i)
				if err := repo.BulkUpsertCourses(gctx, []model.Course{course}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got, err := repo.Courses(ctx, "DSO", "2024-2025", "Summer")
	require.NoError(t, err)
	assert.Len(t, got, workers)
	for _, c := range got {
		assert.Equal(t, fmt.Sprintf("round %d", rounds-1), c.Title)
	}

	logs, err := repo.SyncLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, workers*rounds)
}

func TestSQLiteRepository_Empty(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	require.NoError(t, repo.BulkUpsertCourses(ctx, nil))

	logs, err := repo.SyncLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "eclass.db"))
	require.NoError(t, err)
	defer store.Close(ctx)

	assert.NoError(t, store.BulkUpsertCourses(ctx, []model.Course{{Organization: "X", SubjectNumber: "1001A", SubjectCode: "B"}}))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), "postgres", "")
	assert.ErrorContains(t, err, "unknown storage driver")
}
