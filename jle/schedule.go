package jle

import (
	"regexp"
	"strings"
)

const scheduleSeparator = " / "

var (
	// Time range, day letters and room: "730AM- 900AM  MWF  C203".
	schedulePattern = regexp.MustCompile(`\d{1,4}[AP]M-` + ws + `*\d{1,4}[AP]M` + ws + `+[A-Za-z]+` + ws + `+[A-Z0-9]+`)

	lectureMarker = regexp.MustCompile(`(?i)LEC`)
	labMarker     = regexp.MustCompile(`(?i)LAB`)
)

// span is a half-open [start, end) byte range into a body.
type span struct {
	start, end int
}

type schedules struct {
	all     []string
	lecture string
	lab     string
}

func (s schedules) combined() string {
	return strings.Join(s.all, scheduleSeparator)
}

// extractSchedules finds every schedule triple in body and splits them into
// lecture and lab slots. Explicit LEC/LAB tokens win; without them the first
// schedule is taken as the lecture and the second as the lab.
func extractSchedules(body string) schedules {
	spans := findSpans(schedulePattern, body)

	var s schedules
	for _, sp := range spans {
		s.all = append(s.all, body[sp.start:sp.end])
	}

	s.lecture = strings.Join(markedSchedules(lectureMarker, body, spans), scheduleSeparator)
	s.lab = strings.Join(markedSchedules(labMarker, body, spans), scheduleSeparator)

	if s.lecture == "" && s.lab == "" {
		if len(s.all) > 0 {
			s.lecture = s.all[0]
		}
		if len(s.all) > 1 {
			s.lab = s.all[1]
		}
	}

	return s
}

// markedSchedules returns the schedules claimed by marker tokens. Each token
// claims the first schedule that starts after it; the scan then resumes past
// the claimed schedule, so one token never claims two schedules.
func markedSchedules(marker *regexp.Regexp, body string, spans []span) []string {
	var out []string
	cursor := 0
	next := 0

	for cursor < len(body) && next < len(spans) {
		loc := marker.FindStringIndex(body[cursor:])
		if loc == nil {
			break
		}
		tokenEnd := cursor + loc[1]

		for next < len(spans) && spans[next].start < tokenEnd {
			next++
		}
		if next == len(spans) {
			break
		}

		out = append(out, body[spans[next].start:spans[next].end])
		cursor = spans[next].end
		next++
	}

	return out
}

func findSpans(re *regexp.Regexp, s string) []span {
	locs := re.FindAllStringIndex(s, -1)
	spans := make([]span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return spans
}
