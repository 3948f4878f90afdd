package config

import (
	"log/slog"
	"time"
)

// Storage drivers.
const (
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	MongoURI           string
	StorageDriver      string
	SQLitePath         string
	JLEDir             string
	UnprocessedDir     string
	ProcessedDir       string
	MoveProcessedFiles bool
	IngestWorkers      int
	MaxJLEBytes        int64
	MetricsTextfile    string
	ReportTemplate     string
	LogLevel           slog.Level
	SyntheticDataDir   string
	SyntheticDataRows  int
	Timeout            time.Duration
}

// StoreTarget returns the MongoDB URI or the SQLite path, whichever the
// storage driver uses.
func (c *Config) StoreTarget() string {
	if c.StorageDriver == StorageSQLite {
		return c.SQLitePath
	}
	return c.MongoURI
}
