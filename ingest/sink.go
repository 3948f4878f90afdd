package ingest

import (
	"context"
	"fmt"
	"os"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/config"
	"eclass/reconciler/datalake"
	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/metrics"
	"eclass/reconciler/storage"

	"github.com/google/uuid"
)

// SinkDependencies holds all the dependencies for the Sink.
type SinkDependencies struct {
	Config         *config.Config
	Extractor      datasource.InfoExtractor
	DatalakeClient datalake.Client
	Metrics        *metrics.Metrics
	// OpenStore defaults to storage.Open.
	OpenStore func(ctx context.Context, driver, target string) (storage.Store, error)
}

// Sink orchestrates the data ingestion process by calling datalake.IngestJLEFiles.
// It holds all the necessary dependencies and configuration for that call.
type Sink struct {
	deps               SinkDependencies
	UnprocessedDir     string
	ProcessedDir       string
	MoveProcessedFiles bool
}

// NewSink creates a new Sink instance.
func NewSink(deps SinkDependencies) *Sink {
	if deps.OpenStore == nil {
		deps.OpenStore = storage.Open
	}
	if deps.Extractor == nil {
		deps.Extractor = datasource.NewScheduleExtractor()
	}
	if deps.DatalakeClient == nil {
		deps.DatalakeClient = datalake.NewClient()
	}
	return &Sink{
		deps:               deps,
		UnprocessedDir:     deps.Config.UnprocessedDir,
		ProcessedDir:       deps.Config.ProcessedDir,
		MoveProcessedFiles: deps.Config.MoveProcessedFiles,
	}
}

// Ingest handles the main data ingestion process.
func (s *Sink) Ingest(ctx context.Context) error {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Starting data ingestion process")

	// Directory existence check
	if _, err := os.Stat(s.UnprocessedDir); err != nil {
		logger.ErrorContext(
			ctx,
			"The directory does not exist. Please create it and place your JLE files inside.",
			"dir", s.UnprocessedDir,
			"error", err,
		)
		return fmt.Errorf("stat check for directory %s: %w", s.UnprocessedDir, err)
	}

	cfg := s.deps.Config
	store, err := s.deps.OpenStore(ctx, cfg.StorageDriver, cfg.StoreTarget())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open the course store", "driver", cfg.StorageDriver, "error", err)
		return fmt.Errorf("connection to %s store failed: %w", cfg.StorageDriver, err)
	}
	defer func() {
		if deferErr := store.Close(ctx); deferErr != nil {
			logger.ErrorContext(ctx, "Error closing the course store", "error", deferErr)
		}
	}()
	logger.InfoContext(ctx, "Successfully opened the course store.", "driver", cfg.StorageDriver)

	runID := uuid.NewString()
	ctx = appcontext.WithRunID(ctx, runID)
	logger = logger.With("runID", runID)

	stats, err := s.deps.DatalakeClient.IngestJLEFiles(
		ctx,
		store,
		s.deps.Extractor,
		datalake.Options{
			UnprocessedDir:     s.UnprocessedDir,
			ProcessedDir:       s.ProcessedDir,
			MoveProcessedFiles: s.MoveProcessedFiles,
			Workers:            cfg.IngestWorkers,
			MaxFileBytes:       cfg.MaxJLEBytes,
			Metrics:            s.deps.Metrics,
		},
	)
	if err != nil {
		logger.ErrorContext(ctx, "Error ingesting JLE files", "error", err)
		return fmt.Errorf("ingestion of JLE files failed: %w", err)
	}

	logger.InfoContext(ctx, "Data ingestion process completed successfully.")
	stats.Log(logger)

	if cfg.MetricsTextfile != "" {
		if err := s.deps.Metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
		logger.DebugContext(ctx, "Wrote metrics textfile", "path", cfg.MetricsTextfile)
	}

	return nil
}
