// Package dbf reads and rewrites dBase III tables in place.
//
// Only fixed-width character, numeric, date and logical fields are handled;
// memo files are left alone. Field text is ISO-8859-1.
package dbf

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

const (
	headerSize     = 32
	descriptorSize = 32

	fieldTerminator = 0x0D
	endOfFile       = 0x1A

	recordLive    = ' '
	recordDeleted = '*'

	versionDBase3 = 0x03
)

// Field describes one column.
type Field struct {
	Name     string
	Type     byte
	Length   int
	Decimals int

	offset int
}

// rightAligned reports whether values are padded on the left.
func (f Field) rightAligned() bool {
	return f.Type == 'N' || f.Type == 'F'
}

// Table is an in-memory dBase table.
type Table struct {
	Fields []Field

	header    []byte
	records   [][]byte
	recordLen int
	tail      []byte
	modified  bool
	now       func() time.Time
}

// Open reads the table at path.
func Open(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dbf file %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dbf file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a table from its file bytes.
func Parse(data []byte) (*Table, error) {
	if len(data) < headerSize+1 {
		return nil, invalidHeaderError("file shorter than header")
	}

	numRecords := int(binary.LittleEndian.Uint32(data[4:8]))
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(data[10:12]))

	if headerLen < headerSize+1 || headerLen > len(data) {
		return nil, invalidHeaderError(fmt.Sprintf("header length %d", headerLen))
	}
	if recordLen < 1 {
		return nil, invalidHeaderError(fmt.Sprintf("record length %d", recordLen))
	}

	fields, err := parseFields(data[:headerLen])
	if err != nil {
		return nil, err
	}

	width := 1
	for _, f := range fields {
		width += f.Length
	}
	if width != recordLen {
		return nil, invalidHeaderError(fmt.Sprintf("fields span %d bytes, record length is %d", width, recordLen))
	}

	end := headerLen + numRecords*recordLen
	if end > len(data) {
		return nil, invalidHeaderError(fmt.Sprintf("%d records do not fit in %d bytes", numRecords, len(data)))
	}

	t := &Table{
		Fields:    fields,
		header:    append([]byte(nil), data[:headerLen]...),
		records:   make([][]byte, 0, numRecords),
		recordLen: recordLen,
		tail:      append([]byte(nil), data[end:]...),
		now:       time.Now,
	}
	for off := headerLen; off < end; off += recordLen {
		t.records = append(t.records, append([]byte(nil), data[off:off+recordLen]...))
	}

	return t, nil
}

func parseFields(header []byte) ([]Field, error) {
	var fields []Field
	offset := 1

	for pos := headerSize; ; pos += descriptorSize {
		if pos >= len(header) {
			return nil, invalidHeaderError("missing field terminator")
		}
		if header[pos] == fieldTerminator {
			break
		}
		if pos+descriptorSize > len(header) {
			return nil, invalidHeaderError("truncated field descriptor")
		}

		d := header[pos : pos+descriptorSize]
		name, _, _ := strings.Cut(string(d[:11]), "\x00")
		f := Field{
			Name:     strings.TrimSpace(name),
			Type:     d[11],
			Length:   int(d[16]),
			Decimals: int(d[17]),
			offset:   offset,
		}
		offset += f.Length
		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return nil, invalidHeaderError("no fields")
	}
	return fields, nil
}

// Create returns an empty table with the given fields.
func Create(fields []Field) (*Table, error) {
	if len(fields) == 0 {
		return nil, invalidHeaderError("no fields")
	}

	headerLen := headerSize + descriptorSize*len(fields) + 1
	header := make([]byte, headerLen)
	header[0] = versionDBase3

	recordLen := 1
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Length < 1 || f.Length > 255 {
			return nil, invalidHeaderError(fmt.Sprintf("field %s has length %d", f.Name, f.Length))
		}
		if len(f.Name) > 10 {
			return nil, invalidHeaderError(fmt.Sprintf("field name %s longer than 10 bytes", f.Name))
		}

		d := header[headerSize+i*descriptorSize:]
		copy(d[:11], f.Name)
		d[11] = f.Type
		d[16] = byte(f.Length)
		d[17] = byte(f.Decimals)

		f.offset = recordLen
		out[i] = f
		recordLen += f.Length
	}
	header[headerLen-1] = fieldTerminator

	binary.LittleEndian.PutUint16(header[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordLen))

	t := &Table{
		Fields:    out,
		header:    header,
		recordLen: recordLen,
		tail:      []byte{endOfFile},
		now:       time.Now,
	}
	t.stamp()
	return t, nil
}

// Append adds a live record holding values, one per field in order. Missing
// trailing values are left blank.
func (t *Table) Append(values ...string) error {
	if len(values) > len(t.Fields) {
		return fieldIndexError(len(values)-1, len(t.Fields))
	}

	data := make([]byte, t.recordLen)
	for i := range data {
		data[i] = ' '
	}
	data[0] = recordLive

	rec := &Record{table: t, data: data}
	for i, v := range values {
		if err := rec.Set(i, v); err != nil {
			return err
		}
	}

	t.records = append(t.records, data)
	t.modified = true
	return nil
}

// Len returns the number of records, deleted ones included.
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns a read-only view of record i.
func (t *Table) Record(i int) *Record {
	return &Record{table: t, data: t.records[i], index: i}
}

// FieldIndex returns the position of the named field, ignoring case, or -1.
func (t *Table) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Update runs fn against a copy of record i and commits the copy only when fn
// returns nil.
func (t *Table) Update(i int, fn func(*Record) error) error {
	work := append([]byte(nil), t.records[i]...)
	rec := &Record{table: t, data: work, index: i}

	if err := fn(rec); err != nil {
		return err
	}

	t.records[i] = work
	t.modified = true
	return nil
}

// Bytes renders the table in file form. A modified table gets today's date
// in its header.
func (t *Table) Bytes() []byte {
	if t.modified {
		t.stamp()
	}
	binary.LittleEndian.PutUint32(t.header[4:8], uint32(len(t.records)))

	out := make([]byte, 0, len(t.header)+len(t.records)*t.recordLen+len(t.tail))
	out = append(out, t.header...)
	for _, r := range t.records {
		out = append(out, r...)
	}
	return append(out, t.tail...)
}

func (t *Table) stamp() {
	now := t.now()
	t.header[1] = byte(now.Year() - 1900)
	t.header[2] = byte(now.Month())
	t.header[3] = byte(now.Day())
}

// WriteFile writes the table to path through a temporary file in the same
// directory, so readers never see a partial table.
func (t *Table) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dbf-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(t.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", tmp.Name(), path, err)
	}
	return nil
}

// Record is one row of a Table.
type Record struct {
	table *Table
	data  []byte
	index int
}

// Index returns the record's position in its table.
func (r *Record) Index() int {
	return r.index
}

// Deleted reports whether the record carries the deletion flag.
func (r *Record) Deleted() bool {
	return r.data[0] == recordDeleted
}

// Value returns field i with padding removed.
func (r *Record) Value(i int) (string, error) {
	f, err := r.field(i)
	if err != nil {
		return "", err
	}

	raw := r.data[f.offset : f.offset+f.Length]
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode field %s: %w", f.Name, err)
	}
	return strings.TrimSpace(string(text)), nil
}

// Set stores value in field i, padded to the field width.
func (r *Record) Set(i int, value string) error {
	f, err := r.field(i)
	if err != nil {
		return err
	}

	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(value))
	if err != nil {
		return fmt.Errorf("failed to encode %q for field %s: %w", value, f.Name, err)
	}
	if len(raw) > f.Length {
		return valueTooLongError(f, value)
	}

	cell := r.data[f.offset : f.offset+f.Length]
	for j := range cell {
		cell[j] = ' '
	}
	if f.rightAligned() {
		copy(cell[f.Length-len(raw):], raw)
	} else {
		copy(cell, raw)
	}
	return nil
}

func (r *Record) field(i int) (Field, error) {
	if i < 0 || i >= len(r.table.Fields) {
		return Field{}, fieldIndexError(i, len(r.table.Fields))
	}
	return r.table.Fields[i], nil
}
