package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/lukasjarosch/go-docx"
)

const (
	documentPart = "word/document.xml"

	placeholderOpen  = "[Insert "
	placeholderClose = "]"
)

var unfilledPattern = regexp.MustCompile(`\[Insert [^\]]*\]`)

func init() {
	docx.ChangeOpenCloseDelimiter('[', ']')
}

// Result is a filled document.
type Result struct {
	Document []byte
	// Unfilled lists the placeholders still present, sorted.
	Unfilled []string
	// Statistics is nil when no roster table was filled.
	Statistics *Statistics
}

// Fill substitutes placeholders in the body, headers and footers of the DOCX
// template and writes roster into its roster table.
func Fill(template []byte, placeholders map[string]string, roster Roster) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, notDocxError(err.Error())
	}
	if !hasPart(zr, documentPart) {
		return nil, notDocxError("missing " + documentPart)
	}

	replaced, err := replacePlaceholders(template, placeholders)
	if err != nil {
		return nil, err
	}
	zr, err = zip.NewReader(bytes.NewReader(replaced), int64(len(replaced)))
	if err != nil {
		return nil, fmt.Errorf("failed to reopen document: %w", err)
	}

	res := &Result{}
	unfilled := map[string]struct{}{}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		if !isTextPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}

		data, err := readPart(f)
		if err != nil {
			return nil, err
		}

		xmlText := string(data)
		if f.Name == documentPart && len(roster) > 0 {
			var stats *Statistics
			xmlText, stats = fillRoster(xmlText, roster)
			res.Statistics = stats
		}
		for _, p := range findUnfilled(xmlText) {
			unfilled[p] = struct{}{}
		}

		header := f.FileHeader
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(w, xmlText); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish document: %w", err)
	}

	res.Document = out.Bytes()
	for p := range unfilled {
		res.Unfilled = append(res.Unfilled, p)
	}
	sort.Strings(res.Unfilled)
	return res, nil
}

// replacePlaceholders swaps every "[Insert KEY]" of the document, header and
// footer parts for its value. Word often splits a placeholder over several
// runs; the value lands in the first run and keeps its formatting.
func replacePlaceholders(template []byte, placeholders map[string]string) ([]byte, error) {
	doc, err := docx.OpenBytes(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	values := make(docx.PlaceholderMap, len(placeholders))
	for key, value := range placeholders {
		values[placeholderOpen+key+placeholderClose] = sanitize(value)
	}
	if err := doc.ReplaceAll(values); err != nil {
		return nil, fmt.Errorf("failed to replace placeholders: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}

func hasPart(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// isTextPart reports whether name is the main document or a header/footer.
func isTextPart(name string) bool {
	if name == documentPart {
		return true
	}
	dir, file := path.Split(name)
	return dir == "word/" && path.Ext(file) == ".xml" &&
		(strings.HasPrefix(file, "header") || strings.HasPrefix(file, "footer"))
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}

func findUnfilled(xmlText string) []string {
	var out []string
	eachParagraph(xmlText, func(p string) string {
		out = append(out, unfilledPattern.FindAllString(text(p), -1)...)
		return p
	})
	return out
}
