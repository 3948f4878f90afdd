// main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/config"
	"eclass/reconciler/ingest"
	"eclass/reconciler/metrics"
	"eclass/reconciler/synthetic"

	"github.com/prometheus/client_golang/prometheus"
)

const usage = `Usage: reconciler <command> [options]

Commands:
  decode <file.jle> [-format json|csv]
  match <file.jle> <gradesheet.dbf>
  find <file.jle> [-dir dir]
  update-dbf -excel book.xlsx -dbf sheet.dbf [-out path]
  report -jle file.jle -dbf sheet.dbf [-template t.docx] [-out report.docx]
  ingest
  generate-synthetic-data [-rows n] [-dir d] [-persist]`

func main() {
	// A .env file only seeds variables that are not already set.
	dotEnvErr := config.LoadDotEnv()

	// Create the logger instance at the very beginning.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(),
	}))
	if dotEnvErr != nil {
		logger.Warn("Ignoring .env file", "error", dotEnvErr)
	}

	if len(os.Args) < 2 {
		logger.Error(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := run(logger, command, args); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string, args []string) error {
	ctx := appcontext.WithLogger(context.Background(), logger)
	cfg := config.LoadConfig(ctx, logger)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	logger.DebugContext(ctx, "Running command", "command", command)

	switch command {
	case "decode":
		return runDecode(ctx, os.Stdout, args, cfg)
	case "match":
		return runMatch(ctx, os.Stdout, args, cfg)
	case "find":
		return runFind(ctx, os.Stdout, args, cfg)
	case "update-dbf":
		return runUpdateDBF(ctx, args)
	case "report":
		return runReport(ctx, args, cfg)
	case "generate-synthetic-data":
		return synthetic.RunGenerateSyntheticData(ctx, args, cfg)
	case "ingest":
		sink := ingest.NewSink(ingest.SinkDependencies{
			Config:  cfg,
			Metrics: metrics.New(prometheus.NewRegistry()),
		})
		return sink.Ingest(ctx)
	default:
		return fmt.Errorf("unknown command: %s\n%s", command, usage)
	}
}
