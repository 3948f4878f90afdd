package jle

import "regexp"

var (
	// A credit digit and an uppercase name that closes the body, optionally
	// followed by trailing control bytes.
	primaryLecturerPattern = regexp.MustCompile(`(\d)` + ws + `+([A-Z][A-Z.\-` + spaceClass + `]*[A-Z])(?:` + ws + `*$|[\x00-\x1f\x7f` + spaceClass + `]*$)`)

	// Same shape with a looser right edge: the name stops before the next
	// "digit space capital" run or at the end of the body.
	fallbackLecturerPattern = regexp.MustCompile(`(\d)` + ws + `+([A-Z][A-Z.\-` + spaceClass + `]+?)(?:` + ws + `+(?:\d` + ws + `+)?[A-Z]|$)`)
)

// lecturerMatch is the result of one lecturer heuristic over a body.
// Start is the offset where the credit digit begins; the text before it is
// what remains for schedule and title extraction.
type lecturerMatch struct {
	Credit   string
	Lecturer string
	Start    int
}

type lecturerStrategy struct {
	name string
	find func(body string) (lecturerMatch, bool)
}

// lecturerStrategies are tried in order; the first hit wins.
var lecturerStrategies = []lecturerStrategy{
	{name: StrategyPrimary, find: findPrimaryLecturer},
	{name: StrategyFallback, find: findFallbackLecturer},
}

func findPrimaryLecturer(body string) (lecturerMatch, bool) {
	return matchLecturer(primaryLecturerPattern, body)
}

func findFallbackLecturer(body string) (lecturerMatch, bool) {
	return matchLecturer(fallbackLecturerPattern, body)
}

func matchLecturer(re *regexp.Regexp, body string) (lecturerMatch, bool) {
	loc := re.FindStringSubmatchIndex(body)
	if loc == nil {
		return lecturerMatch{}, false
	}
	return lecturerMatch{
		Credit:   body[loc[2]:loc[3]],
		Lecturer: trimSpace(body[loc[4]:loc[5]]),
		Start:    loc[0],
	}, true
}

// extractLecturer runs the strategy list and reports which one fired.
func extractLecturer(body string) (lecturerMatch, string, bool) {
	for _, s := range lecturerStrategies {
		if m, ok := s.find(body); ok {
			return m, s.name, true
		}
	}
	return lecturerMatch{}, StrategyNone, false
}
