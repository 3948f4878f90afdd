package jle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var (
	// Four digit subject number, whitespace, then the code token. The first
	// letter of the token belongs to the subject number: "2506   FBACC104" is
	// subject 2506F, code BACC104.
	recordStartPattern = regexp.MustCompile(`(\d{4})` + ws + `+([A-Z][A-Z0-9]{2,10})`)

	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]+`)
)

// marker is a located record-start marker. match covers the whole marker,
// number and token are the submatch ranges.
type marker struct {
	match, number, token span
}

// Decode recovers the course records of a JLE file. The term is copied onto
// every record. A buffer without record markers yields no records.
func Decode(data []byte, term Term) []CourseRecord {
	text := latin1(data)

	markers := findMarkers(text)
	records := make([]CourseRecord, 0, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].match.start
		}
		records = append(records, decodeSegment(text, m, end, term))
	}

	return records
}

// DecodeReader reads a whole JLE stream and decodes it, taking the term
// from name. Read failures are the only error.
func DecodeReader(r io.Reader, name string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JLE data %s: %w", name, err)
	}

	term := ExtractTerm(filepath.Base(name))
	return &File{
		Name:    name,
		Size:    len(data),
		Term:    term,
		Records: Decode(data, term),
	}, nil
}

// ErrFileTooLarge is returned by DecodeFileLimit for files over the limit.
var ErrFileTooLarge = errors.New("JLE file exceeds the size limit")

func fileTooLargeError(path string, size, limit int64) error {
	return fmt.Errorf("%w, %s is %d bytes, limit %d", ErrFileTooLarge, path, size, limit)
}

// DecodeFile opens and decodes the JLE file at path.
func DecodeFile(path string) (*File, error) {
	return DecodeFileLimit(path, 0)
}

// DecodeFileLimit is DecodeFile for files of at most maxBytes. A limit of
// zero or less disables the check.
func DecodeFileLimit(path string, maxBytes int64) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	if maxBytes > 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
		}
		if info.Size() > maxBytes {
			return nil, fileTooLargeError(path, info.Size(), maxBytes)
		}
	}

	file, err := DecodeReader(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// latin1 maps every byte to the code point of the same value.
func latin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return b.String()
}

func findMarkers(text string) []marker {
	locs := recordStartPattern.FindAllStringSubmatchIndex(text, -1)
	markers := make([]marker, 0, len(locs))
	for _, loc := range locs {
		markers = append(markers, marker{
			match:  span{loc[0], loc[1]},
			number: span{loc[2], loc[3]},
			token:  span{loc[4], loc[5]},
		})
	}
	return markers
}

// decodeSegment builds the record for the segment [m.match.start, end).
func decodeSegment(text string, m marker, end int, term Term) CourseRecord {
	token := text[m.token.start:m.token.end]

	rec := CourseRecord{
		SubjectNumber: text[m.number.start:m.number.end] + token[:1],
		SubjectCode:   token[1:],
		AcademicYear:  term.AcademicYear,
		Semester:      term.Semester,
	}

	body := trimSpace(strings.ReplaceAll(text[m.match.end:end], "\n", " "))

	lm, strategy, found := extractLecturer(body)
	if found {
		rec.Credit = lm.Credit
		rec.Lecturer = lm.Lecturer
		rec.LecturerStrategy = strategy
		body = trimSpace(body[:lm.Start])
	}

	sched := extractSchedules(body)
	rec.Schedule = sched.combined()
	rec.LectureSchedule = sched.lecture
	rec.LabSchedule = sched.lab

	rec.Title = extractTitle(body, rec.Credit, rec.Lecturer)

	return rec
}

// extractTitle is what is left of body once schedules, the credit/lecturer
// pair and control bytes are removed.
func extractTitle(body, credit, lecturer string) string {
	title := schedulePattern.ReplaceAllString(body, "")
	if credit != "" && lecturer != "" {
		title = dropCreditLecturer(title, credit, lecturer)
	}
	title = controlChars.ReplaceAllString(title, " ")
	return collapseSpace(title)
}

// dropCreditLecturer removes every "credit, whitespace, lecturer" run from
// title. The lecturer is compared without regard to case.
func dropCreditLecturer(title, credit, lecturer string) string {
	var b strings.Builder
	for i := 0; i < len(title); {
		if strings.HasPrefix(title[i:], credit) {
			j := i + len(credit)
			k := skipSpace(title, j)
			if k > j && len(title)-k >= len(lecturer) && strings.EqualFold(title[k:k+len(lecturer)], lecturer) {
				i = k + len(lecturer)
				continue
			}
		}
		b.WriteByte(title[i])
		i++
	}
	return b.String()
}
