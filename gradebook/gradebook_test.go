package gradebook

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an xlsx with the given sheet and cell values.
func workbook(t *testing.T, sheet string, cells map[string]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, ref, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	data := workbook(t, Sheet, map[string]any{
		"A7": "No.", "C7": "ID", "H7": " eg ", "J7": "Remarks",
		"C11": 1001, "H11": 85, "J11": "PASSED",
		"C12": "1002", "H12": 72.5, "J12": "PASSED",
		"C13": "n/a", "H13": 99, "J13": "skipped",
		"C14": 1004.9, "J14": "DROPPED",
		"C15": 1005, "H15": "INC",
		"C17": 1007, "H17": 90,
	})

	grades, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, Grades{
		"1001": {Grade: "85.0", Remarks: "PASSED"},
		"1002": {Grade: "72.5", Remarks: "PASSED"},
		"1004": {Remarks: "DROPPED"},
		"1005": {Grade: "INC"},
	}, grades)
}

func TestRead_MissingSheet(t *testing.T) {
	data := workbook(t, "Grades", map[string]any{"H7": "EG", "J7": "REMARKS"})

	_, err := Read(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrSheetNotFound)
	assert.Contains(t, err.Error(), "Sheet1, Grades")
}

func TestRead_MissingHeaders(t *testing.T) {
	tests := []struct {
		name   string
		cells  map[string]any
		header string
	}{
		{"no grade header", map[string]any{"J7": "REMARKS"}, "EG"},
		{"no remarks header", map[string]any{"H7": "EG"}, "REMARKS"},
		{"headers on wrong row", map[string]any{"H6": "EG", "J6": "REMARKS"}, "EG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(workbook(t, Sheet, tt.cells)))
			require.ErrorIs(t, err, ErrHeaderNotFound)
			assert.Contains(t, err.Error(), "'"+tt.header+"'")
		})
	}
}

func TestRead_NoStudents(t *testing.T) {
	grades, err := Read(bytes.NewReader(workbook(t, Sheet, map[string]any{"H7": "EG", "J7": "REMARKS"})))
	require.NoError(t, err)
	assert.Empty(t, grades)
}

func TestRead_NotAWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("plain text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open Excel file")
}

func TestReadFile(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", Sheet))
	require.NoError(t, f.SetCellValue(Sheet, "D7", "EG"))
	require.NoError(t, f.SetCellValue(Sheet, "E7", "REMARKS"))
	require.NoError(t, f.SetCellValue(Sheet, "C11", 42))
	require.NoError(t, f.SetCellValue(Sheet, "D11", 1.5))

	path := filepath.Join(t.TempDir(), "grades.xlsx")
	require.NoError(t, f.SaveAs(path))

	grades, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Grades{"42": {Grade: "1.5"}}, grades)
}
