package config

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default values for testing.
const (
	defaultTimeoutSeconds     = 30
	defaultMongoURI           = "mongodb://localhost:27017/eclass"
	defaultMongoHost          = "localhost"
	defaultMongoPort          = "27017"
	defaultJLEDir             = "./data"
	defaultProcessedDir       = "processed"
	defaultUnprocessedDir     = "unprocessed"
	defaultMoveProcessedFiles = false
	defaultStorageDriver      = StorageMongo
	defaultSQLitePath         = "eclass.db"
	defaultIngestWorkers      = 4
	defaultMaxJLEBytes        = 16 << 20
	defaultSyntheticDataDir   = "tmp/synthetic"
	defaultSyntheticDataRows  = 30
	envMongoURI               = "MONGO_URI"
	envMongoHost              = "MONGO_HOST"
	envJLEDirectory           = "JLE_DIR"
	envProcessedDirectory     = "PROCESSED_DIR"
	envUnprocessedDirectory   = "UNPROCESSED_DIR"
	envMoveProcessedFiles     = "MOVE_PROCESSED_FILES"
	envMongoUser              = "MONGO_USER"
	envMongoPassword          = "MONGO_PASSWORD"
	envStorageDriver          = "STORAGE_DRIVER"
	envSQLitePath             = "SQLITE_PATH"
	envIngestWorkers          = "INGEST_WORKERS"
	envMaxJLEBytes            = "MAX_JLE_BYTES"
	envMetricsTextfile        = "METRICS_TEXTFILE"
	envReportTemplate         = "REPORT_TEMPLATE"
	envLogLevel               = "LOG_LEVEL"
)

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LogLevel reads LOG_LEVEL ("debug", "info", "warn", "error"). Unset or
// invalid values give slog.LevelInfo.
func LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(os.Getenv(envLogLevel)))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig loads the application configuration from environment variables or uses default values.
func LoadConfig(ctx context.Context, logger *slog.Logger) *Config {
	mongoURI := os.Getenv(envMongoURI)
	mongoURI = formatMongoURI(ctx, mongoURI, logger)

	jleDirectory := setEnvJLEDir(ctx, *logger)

	// Configure the dirs for processed/unprocessed files.
	unprocessedDir := setUnprocessedDir(ctx, jleDirectory, *logger)
	processedDir := setProcessedDir(ctx, jleDirectory, *logger)

	logger.DebugContext(ctx, "Constructed directory paths", "unprocessed", unprocessedDir, "processed", processedDir)

	moveProcessedFilesStr := os.Getenv(envMoveProcessedFiles)
	moveProcessedFiles := defaultMoveProcessedFiles
	if moveProcessedFilesStr != "" {
		parsedBool, err := strconv.ParseBool(moveProcessedFilesStr)
		if err != nil {
			logger.WarnContext(
				ctx,
				"Invalid value for MOVE_PROCESSED_FILES, using default",
				"value", moveProcessedFilesStr,
				"default", defaultMoveProcessedFiles,
				"error", err,
			)
		} else {
			moveProcessedFiles = parsedBool
			logger.DebugContext(ctx, "Set moveProcessedFiles from environment variable", "value", moveProcessedFiles)
		}
	} else {
		logger.DebugContext(ctx, "Using default value for moveProcessedFiles", "value", defaultMoveProcessedFiles)
	}

	return &Config{
		MongoURI:           mongoURI,
		StorageDriver:      getStorageDriver(ctx, logger),
		SQLitePath:         getString(ctx, logger, envSQLitePath, defaultSQLitePath),
		JLEDir:             jleDirectory,
		UnprocessedDir:     unprocessedDir,
		ProcessedDir:       processedDir,
		MoveProcessedFiles: moveProcessedFiles,
		IngestWorkers:      int(getPositiveInt(ctx, logger, envIngestWorkers, defaultIngestWorkers)),
		MaxJLEBytes:        getPositiveInt(ctx, logger, envMaxJLEBytes, defaultMaxJLEBytes),
		MetricsTextfile:    getString(ctx, logger, envMetricsTextfile, ""),
		ReportTemplate:     getString(ctx, logger, envReportTemplate, ""),
		LogLevel:           LogLevel(),
		SyntheticDataDir:   defaultSyntheticDataDir,
		SyntheticDataRows:  defaultSyntheticDataRows,
		Timeout:            defaultTimeoutSeconds * time.Second,
	}
}

func setEnvJLEDir(ctx context.Context, logger slog.Logger) string {
	jleDirectory := os.Getenv(envJLEDirectory)
	if jleDirectory == "" {
		jleDirectory = defaultJLEDir
		logger.DebugContext(ctx, "Using default JLE directory", "dir", jleDirectory)
	} else {
		logger.DebugContext(ctx, "Using JLE directory from environment variable", "dir", jleDirectory)
	}

	return jleDirectory
}

// Format the directory in which unprocessed data files exist.
func setUnprocessedDir(ctx context.Context, jleDirectory string, logger slog.Logger) string {
	return fmt.Sprintf("%s/%s", jleDirectory, setUnprocessedDirName(ctx, logger))
}

// Format the directory in which processed data files are moved to.
func setProcessedDir(ctx context.Context, jleDirectory string, logger slog.Logger) string {
	return fmt.Sprintf("%s/%s", jleDirectory, getProcessedDirName(ctx, logger))
}

// Fetch the `processedDirName` env var or set to a default value.
func getProcessedDirName(ctx context.Context, logger slog.Logger) string {
	processedDirName := os.Getenv(envProcessedDirectory)
	if processedDirName == "" {
		processedDirName = defaultProcessedDir
		logger.DebugContext(ctx, "Using default processed directory name", "dir", processedDirName)
	} else {
		logger.DebugContext(ctx, "Using processed directory name from environment variable", "dir", processedDirName)
	}

	return processedDirName
}

// Fetch the `unprocessedDirName` env var or set to a default value.
func setUnprocessedDirName(ctx context.Context, logger slog.Logger) string {
	unprocessedDirName := os.Getenv(envUnprocessedDirectory)
	if unprocessedDirName == "" {
		unprocessedDirName = defaultUnprocessedDir
		logger.DebugContext(ctx, "Using default unprocessed directory name", "dir", unprocessedDirName)
	} else {
		logger.DebugContext(ctx, "Using unprocessed directory name from environment variable",
			"dir", unprocessedDirName)
	}

	return unprocessedDirName
}

func getStorageDriver(ctx context.Context, logger *slog.Logger) string {
	driver := strings.ToLower(os.Getenv(envStorageDriver))
	switch driver {
	case StorageMongo, StorageSQLite:
		logger.DebugContext(ctx, "Using storage driver from environment variable", "driver", driver)
		return driver
	case "":
		logger.DebugContext(ctx, "Using default storage driver", "driver", defaultStorageDriver)
	default:
		logger.WarnContext(ctx, "Invalid value for STORAGE_DRIVER, using default",
			"value", driver, "default", defaultStorageDriver)
	}
	return defaultStorageDriver
}

func getString(ctx context.Context, logger *slog.Logger, key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.DebugContext(ctx, "Using default value", "key", key, "value", fallback)
		return fallback
	}
	logger.DebugContext(ctx, "Using value from environment variable", "key", key, "value", value)
	return value
}

func getPositiveInt(ctx context.Context, logger *slog.Logger, key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		logger.DebugContext(ctx, "Using default value", "key", key, "value", fallback)
		return fallback
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		logger.WarnContext(ctx, "Invalid value, using default", "key", key, "value", raw, "default", fallback, "error", err)
		return fallback
	}
	logger.DebugContext(ctx, "Using value from environment variable", "key", key, "value", value)
	return value
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable", "uri", mongoURI)
		return mongoURI
	}

	mongoHost := os.Getenv(envMongoHost)
	if mongoHost == "" {
		mongoHost = defaultMongoHost
		logger.DebugContext(ctx, "Using default MongoDB host", "host", mongoHost)
	} else {
		logger.DebugContext(ctx, "Using MongoDB host from environment variable", "host", mongoHost)
	}

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		hostPort := net.JoinHostPort(mongoHost, defaultMongoPort)
		mongoURI = fmt.Sprintf(
			"mongodb://%s:%s@%s/eclass?authSource=admin",
			mongoUser,
			mongoPassword,
			hostPort,
		)
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "host", hostPort)
	} else {
		mongoURI = defaultMongoURI
		logger.DebugContext(ctx, "Using default MongoDB URI", "uri", mongoURI)
	}
	return mongoURI
}
