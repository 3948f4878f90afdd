package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eclass/reconciler/appcontext"
	"eclass/reconciler/config"
	"eclass/reconciler/csv"
	"eclass/reconciler/datalake/datasource"
	"eclass/reconciler/dbf"
	"eclass/reconciler/gradebook"
	"eclass/reconciler/jle"
	"eclass/reconciler/matcher"
	"eclass/reconciler/report"
)

var errUsage = errors.New("invalid arguments")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w, %s", errUsage, fmt.Sprintf(format, args...))
}

// splitArgs separates leading positional arguments from flags so that
// "decode file.jle -format csv" parses like "decode -format csv file.jle".
func splitArgs(args []string) (positional, flags []string) {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func runDecode(ctx context.Context, w io.Writer, args []string, cfg *config.Config) error {
	positional, rest := splitArgs(args)

	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	format := fs.String("format", "json", "Output format: json or csv")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	positional = append(positional, fs.Args()...)
	if len(positional) != 1 {
		return usageError("decode takes one JLE file")
	}

	file, err := jle.DecodeFileLimit(positional[0], cfg.MaxJLEBytes)
	if err != nil {
		return err
	}
	appcontext.LoggerFromContext(ctx).InfoContext(ctx, "Decoded JLE file",
		"file", file.Name, "bytes", file.Size, "records", len(file.Records))

	switch *format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(file.Records); err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		return nil
	case "csv":
		return csv.WriteCourses(w, file.Records)
	default:
		return usageError("unknown format %s", *format)
	}
}

func runMatch(ctx context.Context, w io.Writer, args []string, cfg *config.Config) error {
	if len(args) != 2 {
		return usageError("match takes a JLE file and a grade sheet name")
	}

	file, err := jle.DecodeFileLimit(args[0], cfg.MaxJLEBytes)
	if err != nil {
		return err
	}

	rec, ok := matcher.Match(filepath.Base(args[1]), file.Records)
	if !ok {
		appcontext.LoggerFromContext(ctx).InfoContext(ctx, "No matching record", "gradeSheet", args[1])
		_, err = fmt.Fprintln(w, "no match")
		return err
	}
	return printRecord(w, rec)
}

func runFind(ctx context.Context, w io.Writer, args []string, cfg *config.Config) error {
	positional, rest := splitArgs(args)

	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Directory holding the grade sheets")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	positional = append(positional, fs.Args()...)
	if len(positional) != 1 {
		return usageError("find takes one JLE file")
	}

	file, err := jle.DecodeFileLimit(positional[0], cfg.MaxJLEBytes)
	if err != nil {
		return err
	}

	found, ok, err := matcher.FindGradeSheet(*dir, file.Records)
	if err != nil {
		return err
	}
	if !ok {
		appcontext.LoggerFromContext(ctx).InfoContext(ctx, "No grade sheet matches", "dir", *dir)
		_, err = fmt.Fprintln(w, "no match")
		return err
	}

	if _, err := fmt.Fprintln(w, found.Path); err != nil {
		return err
	}
	return printRecord(w, found.Record)
}

func printRecord(w io.Writer, rec jle.CourseRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

func runUpdateDBF(ctx context.Context, args []string) error {
	logger := appcontext.LoggerFromContext(ctx)

	fs := flag.NewFlagSet("update-dbf", flag.ContinueOnError)
	excelPath := fs.String("excel", "", "Grade workbook with an FFG sheet")
	dbfPath := fs.String("dbf", "", "Grade sheet to update")
	outPath := fs.String("out", "", "Write the updated sheet here instead of in place")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *excelPath == "" || *dbfPath == "" {
		return usageError("update-dbf needs -excel and -dbf")
	}
	if *outPath == "" {
		*outPath = *dbfPath
	}

	grades, err := gradebook.ReadFile(*excelPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Read grade workbook", "file", *excelPath, "students", len(grades))

	if info, err := datasource.NewGradeSheetExtractor().ExtractInfo(*dbfPath); err != nil {
		logger.WarnContext(ctx, "Grade sheet name does not follow the naming convention", "file", *dbfPath)
	} else {
		logger.InfoContext(ctx, "Updating grade sheet",
			"organization", info.Organization, "academicYear", info.Term.AcademicYear, "semester", info.Term.Semester)
	}

	table, err := dbf.Open(*dbfPath)
	if err != nil {
		return err
	}

	res, err := dbf.ApplyGrades(table, grades)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		logger.WarnContext(ctx, "Record not updated", "error", f)
	}

	if err := table.WriteFile(*outPath); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Grade sheet updated",
		"file", *outPath, "matched", res.Matched, "failed", len(res.Failures))
	return nil
}

func runReport(ctx context.Context, args []string, cfg *config.Config) error {
	logger := appcontext.LoggerFromContext(ctx)

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	jlePath := fs.String("jle", "", "JLE schedule dump")
	dbfPath := fs.String("dbf", "", "Grade sheet of the class")
	templatePath := fs.String("template", cfg.ReportTemplate, "DOCX template; a built-in one is used when empty")
	outPath := fs.String("out", "report.docx", "Output document")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *jlePath == "" || *dbfPath == "" {
		return usageError("report needs -jle and -dbf")
	}

	file, err := jle.DecodeFileLimit(*jlePath, cfg.MaxJLEBytes)
	if err != nil {
		return err
	}
	table, err := dbf.Open(*dbfPath)
	if err != nil {
		return err
	}
	roster, err := report.RosterFromTable(table)
	if err != nil {
		return err
	}

	course, exact := report.SelectCourse(filepath.Base(*dbfPath), file.Records)
	if course != nil && !exact {
		logger.WarnContext(ctx, "No exact match; using the only course in the file", "subjectCode", course.SubjectCode)
	}

	template, err := loadTemplate(*templatePath)
	if err != nil {
		return err
	}

	res, err := report.Fill(template, report.Placeholders(course, len(roster), time.Now()), roster)
	if err != nil {
		return err
	}
	if len(res.Unfilled) > 0 {
		logger.WarnContext(ctx, "Placeholders left in the document", "placeholders", res.Unfilled)
	}
	if res.Statistics != nil {
		logger.InfoContext(ctx, "Roster filled", "statistics", res.Statistics.String())
	}

	if err := os.WriteFile(*outPath, res.Document, 0o600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", *outPath, err)
	}
	logger.InfoContext(ctx, "Report written", "file", *outPath)
	return nil
}

func loadTemplate(path string) ([]byte, error) {
	if path == "" {
		return report.BlankTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return data, nil
}
