package datalake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/csv"
	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/datalake/model"
	"eclass/reconciler/datalake/repository"
	"eclass/reconciler/jle"
	"eclass/reconciler/metrics"

	"golang.org/x/sync/errgroup"
)

// Options controls one ingestion run.
type Options struct {
	UnprocessedDir     string
	ProcessedDir       string
	MoveProcessedFiles bool
	// Workers bounds the number of files decoded at once. Values below 1
	// mean one.
	Workers int
	// MaxFileBytes rejects larger files before they are read. Zero disables
	// the check.
	MaxFileBytes int64
	Metrics      *metrics.Metrics
}

// IngestJLEFiles decodes every JLE file (and CSV export) in
// opts.UnprocessedDir and upserts the courses into repo. Per-file failures
// are recorded in the returned Stats; only an unreadable directory or a
// cancelled context fails the run.
func IngestJLEFiles(
	ctx context.Context,
	repo repository.Repository,
	extractor datasource.InfoExtractor,
	opts Options,
) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Reading data from sink", "sink", opts.UnprocessedDir)
	start := time.Now()

	files, err := os.ReadDir(opts.UnprocessedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	stats := NewStats()
	stats.RunID = appcontext.RunIDFromContext(ctx)
	stats.TotalFiles = len(files)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, file := range files {
		if !validateFile(file) {
			reason := "Not a JLE or CSV file"
			stats.AddFailure(file.Name(), reason)
			opts.Metrics.RecordFile(metrics.StatusSkipped)
			logger.WarnContext(ctx, "file was not processed", "fileName", file.Name(), "reason", reason)
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			courses, err := processFile(gctx, repo, extractor, file, opts)
			if err != nil {
				stats.AddFailure(file.Name(), err.Error())
				opts.Metrics.RecordFile(metrics.StatusFailed)
				logger.ErrorContext(gctx, "failed to process file", "file", file.Name(), "error", err)
				return nil
			}

			stats.IncrementProcessed(courses)
			opts.Metrics.RecordFile(metrics.StatusProcessed)
			return nil
		})
	}

	err = g.Wait()
	opts.Metrics.ObserveIngest(time.Since(start).Seconds())
	if err != nil {
		return stats, fmt.Errorf("ingestion interrupted: %w", err)
	}

	return stats, nil
}

// Return true only if the entry pointed to by FILE is valid.
func validateFile(
	file os.DirEntry,
) bool {
	if file.IsDir() {
		return false
	}
	switch strings.ToLower(filepath.Ext(file.Name())) {
	case ".jle", ".csv":
		return true
	}
	return false
}

// Process the file and return the number of courses stored.
func processFile(
	ctx context.Context,
	repo repository.Repository,
	extractor datasource.InfoExtractor,
	file os.DirEntry,
	opts Options,
) (int, error) {
	sourceInfo, err := extractor.ExtractInfo(file.Name())
	if err != nil {
		return 0, fmt.Errorf("failed to extract source info: %w", err)
	}

	cleanFileName := filepath.Clean(file.Name())
	if strings.HasPrefix(cleanFileName, "../") {
		return 0, invalidFileNameError(file.Name())
	}

	if opts.MaxFileBytes > 0 {
		info, err := file.Info()
		if err != nil {
			return 0, fmt.Errorf("failed to stat file: %w", err)
		}
		if info.Size() > opts.MaxFileBytes {
			return 0, fileTooLargeError(file.Name(), info.Size(), opts.MaxFileBytes)
		}
	}

	filePath := filepath.Join(opts.UnprocessedDir, cleanFileName)
	records, err := readRecords(ctx, filePath, sourceInfo.DataSource)
	if err != nil {
		return 0, err
	}

	courses := mapRecordsToCourses(ctx, records, sourceInfo.Organization, cleanFileName)
	if err = repo.BulkUpsertCourses(ctx, courses); err != nil {
		return 0, fmt.Errorf("failed to bulk upsert courses: %w", err)
	}
	opts.Metrics.RecordCourses(string(sourceInfo.DataSource), records)

	if opts.MoveProcessedFiles {
		err = moveFile(filePath, opts.ProcessedDir)
		if err != nil {
			return 0, fmt.Errorf("failed to move file: %w", err)
		}
	}

	return len(courses), nil
}

func readRecords(ctx context.Context, filePath string, source datasource.DataSource) ([]jle.CourseRecord, error) {
	switch source {
	case datasource.ScheduleDump:
		file, err := jle.DecodeFile(filePath)
		if err != nil {
			return nil, err
		}
		return file.Records, nil
	case datasource.CourseExport:
		return csv.ParseCourses(ctx, filePath)
	default:
		return nil, unsupportedError(string(source))
	}
}

// mapRecordsToCourses tags decoded records with their organisation and
// source file.
func mapRecordsToCourses(
	ctx context.Context,
	records []jle.CourseRecord,
	organization string,
	sourceFile string,
) []model.Course {
	logger := appcontext.LoggerFromContext(ctx)
	courses := make([]model.Course, 0, len(records))

	for _, rec := range records {
		if rec.LecturerStrategy != jle.StrategyPrimary {
			logger.DebugContext(
				ctx,
				"Lecturer not found by the primary heuristic",
				"file", sourceFile,
				"subjectNumber", rec.SubjectNumber,
				"strategy", rec.LecturerStrategy,
			)
		}
		courses = append(courses, model.NewCourse(rec, organization, sourceFile))
	}

	return courses
}

func moveFile(filePath, processedDir string) error {
	var err error
	if _, err = os.Stat(processedDir); os.IsNotExist(err) {
		if err = os.MkdirAll(processedDir, 0o750); err != nil {
			return fmt.Errorf("failed to create processed directory '%s': %w", processedDir, err)
		}
	}

	fileName := filepath.Base(filePath)
	newPath := filepath.Join(processedDir, fileName)

	if err = os.Rename(filePath, newPath); err != nil {
		return fmt.Errorf("failed to move file from '%s' to '%s': %w", filePath, newPath, err)
	}

	return nil
}
