package synthetic

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"eclass/reconciler/config"
	"eclass/reconciler/dbf"
	"eclass/reconciler/gradebook"
	"eclass/reconciler/jle"
	"eclass/reconciler/matcher"
	"eclass/reconciler/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJLE_DecodesBack(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			term := jle.Term{AcademicYear: "2024-2025", Semester: "Summer"}
			records := randomCourses(rng, 20, term)

			assert.Equal(t, records, jle.Decode(EncodeJLE(records), term))
		})
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "synthetic")
			out, err := generate(rand.New(rand.NewSource(seed)), 8, dir)
			require.NoError(t, err)

			file, err := jle.DecodeFile(out.JLEPath)
			require.NoError(t, err)
			assert.Equal(t, out.Term, file.Term)
			assert.Equal(t, out.Records, file.Records)

			found, ok, err := matcher.FindGradeSheet(dir, file.Records)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, out.GradeSheetPath, found.Path)
			assert.Equal(t, out.Course, found.Record)

			grades, err := gradebook.ReadFile(out.GradebookPath)
			require.NoError(t, err)
			assert.Len(t, grades, len(out.Students))

			table, err := dbf.Open(out.GradeSheetPath)
			require.NoError(t, err)
			res, err := dbf.ApplyGrades(table, grades)
			require.NoError(t, err)
			assert.Equal(t, len(out.Students), res.Matched)
			assert.Empty(t, res.Failures)

			for i, s := range out.Students {
				rec := table.Record(i)
				grade, err := rec.Value(dbf.GradeField)
				require.NoError(t, err)
				remarks, err := rec.Value(dbf.RemarksField)
				require.NoError(t, err)
				assert.Equal(t, s.Grade, grade, "student %s", s.ID)
				assert.Equal(t, s.Remarks, remarks, "student %s", s.ID)
			}
		})
	}
}

func TestGenerate_InvalidRows(t *testing.T) {
	_, err := generate(rand.New(rand.NewSource(1)), 0, t.TempDir())
	assert.ErrorContains(t, err, "rows must be positive")
}

func TestRunGenerateSyntheticData_Persist(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "eclass.db")
	cfg := &config.Config{
		StorageDriver:     config.StorageSQLite,
		SQLitePath:        dbPath,
		SyntheticDataDir:  dir,
		SyntheticDataRows: 4,
	}

	ctx := context.Background()
	require.NoError(t, RunGenerateSyntheticData(ctx, []string{"-persist"}, cfg))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	repo, err := storage.NewSQLiteRepository(ctx, dbPath)
	require.NoError(t, err)
	defer repo.Close(ctx)

	logs, err := repo.SyncLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(4), logs[0].RecordsUploaded)
}

func TestRunGenerateSyntheticData_BadFlag(t *testing.T) {
	err := RunGenerateSyntheticData(context.Background(), []string{"-bogus"}, &config.Config{})
	assert.ErrorContains(t, err, "failed to parse flags")
}
