package jle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLecturerStrategies(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantPrimary  bool
		wantFallback bool
		credit       string
		lecturer     string
	}{
		{
			name:         "name closes body",
			body:         "Accounting 3 JOHN DOE",
			wantPrimary:  true,
			wantFallback: true,
			credit:       "3",
			lecturer:     "JOHN DOE",
		},
		{
			name:         "punctuated name",
			body:         "Ethics 2 MA. CRUZ-SANTOS",
			wantPrimary:  true,
			wantFallback: true,
			credit:       "2",
			lecturer:     "MA. CRUZ-SANTOS",
		},
		{
			name:         "digits after name",
			body:         "Statistics 3 JOHN DOE 12",
			wantPrimary:  false,
			wantFallback: true,
			credit:       "3",
			lecturer:     "JOHN",
		},
		{
			name: "no credit digit",
			body: "Physical Education",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := findPrimaryLecturer(tt.body)
			assert.Equal(t, tt.wantPrimary, ok)
			if ok {
				assert.Equal(t, tt.credit, p.Credit)
				assert.Equal(t, tt.lecturer, p.Lecturer)
			}

			_, ok = findFallbackLecturer(tt.body)
			assert.Equal(t, tt.wantFallback, ok)

			m, strategy, found := extractLecturer(tt.body)
			assert.Equal(t, tt.wantPrimary || tt.wantFallback, found)
			if found {
				assert.Equal(t, tt.credit, m.Credit)
				assert.Equal(t, tt.lecturer, m.Lecturer)
				if tt.wantPrimary {
					assert.Equal(t, StrategyPrimary, strategy)
				} else {
					assert.Equal(t, StrategyFallback, strategy)
				}
			} else {
				assert.Equal(t, StrategyNone, strategy)
			}
		})
	}
}

// The two heuristics disagree on where a name ends once another capital
// follows it; the fallback stops at the first word.
func TestLecturerStrategies_Disagree(t *testing.T) {
	body := "Accounting 3 JOHN DOE"

	p, _ := findPrimaryLecturer(body)
	f, _ := findFallbackLecturer(body)

	assert.Equal(t, "JOHN DOE", p.Lecturer)
	assert.Equal(t, "JOHN", f.Lecturer)
	assert.Equal(t, p.Start, f.Start)
}

func TestMarkedSchedules(t *testing.T) {
	body := "LEC 800AM- 930AM TTh B201 LEC 100PM- 400PM F L305"
	spans := findSpans(schedulePattern, body)

	got := markedSchedules(lectureMarker, body, spans)
	assert.Equal(t, []string{"800AM- 930AM TTh B201", "100PM- 400PM F L305"}, got)

	assert.Empty(t, markedSchedules(labMarker, body, spans))
}
