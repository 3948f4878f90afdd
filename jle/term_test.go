package jle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTerm(t *testing.T) {
	tests := []struct {
		filename string
		want     Term
	}{
		{"DSO_20243_565.JLE", Term{"2024-2025", "Summer"}},
		{"DSO_20251_565.JLE", Term{"2025-2026", "1st Semester"}},
		{"CBA_20242.jle", Term{"2024-2025", "2nd Semester"}},
		{"X_19997_1.jle", Term{"1999-2000", "7th Term"}},
		{"X_20240.jle", Term{"2024-2025", "0th Term"}},
		{"schedule202431.jle", Term{"2024-2025", "Summer"}},
		{"DSO_565.JLE", Term{Unknown, Unknown}},
		{"ABC_1234_5.jle", Term{Unknown, Unknown}},
		{"", Term{Unknown, Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTerm(tt.filename))
		})
	}
}

func TestSemesterDigitInvertsExtractTerm(t *testing.T) {
	for _, digit := range []string{"1", "2", "3"} {
		term := ExtractTerm("ORG_2024" + digit + ".jle")
		assert.Equal(t, digit, SemesterDigit(term.Semester))
		assert.Equal(t, "2024"+digit, term.YearSemester())
	}

	assert.Equal(t, "0", SemesterDigit("7th Term"))
	assert.Equal(t, "0", SemesterDigit(Unknown))
	assert.Equal(t, "Unknown0", Term{Unknown, Unknown}.YearSemester())
}
