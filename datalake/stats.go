package datalake

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Stats holds statistics about the file processing. It is safe for
// concurrent use by the ingestion workers.
type Stats struct {
	mu sync.Mutex

	RunID          string
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	Courses        int
	Failures       map[string]string
}

// NewStats creates and initializes a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Failures: make(map[string]string),
	}
}

// AddFailure records a failed file and its reason.
func (s *Stats) AddFailure(file, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedFiles++
	s.Failures[file] = reason
}

// IncrementProcessed counts a successfully processed file and the courses
// it held.
func (s *Stats) IncrementProcessed(courses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProcessedFiles++
	s.Courses += courses
}

// Log prints the final statistics to the provided logger.
func (s *Stats) Log(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("--- Ingestion Stats ---")
	logger.Info(fmt.Sprintf("Run ID: %s", s.RunID))
	logger.Info(fmt.Sprintf("Total files found: %d", s.TotalFiles))
	logger.Info(fmt.Sprintf("Files processed: %d", s.ProcessedFiles))
	logger.Info(fmt.Sprintf("Courses stored: %d", s.Courses))
	logger.Info(fmt.Sprintf("Files failed/skipped: %d", s.FailedFiles))
	if s.FailedFiles > 0 {
		logger.Info("Failed files:")
		files := make([]string, 0, len(s.Failures))
		for file := range s.Failures {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			logger.Info(fmt.Sprintf("- %s: %s", file, s.Failures[file]))
		}
	}
	logger.Info("-----------------------")
}
