package report

import (
	"fmt"
	"strconv"
	"strings"

	"eclass/reconciler/dbf"
)

// Student is one roster line.
type Student struct {
	Name    string
	Grade   string
	Remarks string
}

// Roster lists students in grade sheet order.
type Roster []Student

// Column name hints, tried in order against the grade sheet field names.
var (
	nameHints    = []string{"name", "student_name", "studname", "lastname", "student"}
	gradeHints   = []string{"grade", "eg", "score", "mark"}
	remarksHints = []string{"remarks", "remark", "comment", "status"}
)

// RosterFromTable reads the live records of a grade sheet. Columns are found
// by name hints; when no hint matches, the first column is used.
func RosterFromTable(t *dbf.Table) (Roster, error) {
	nameCol := findColumn(t, nameHints)
	gradeCol := findColumn(t, gradeHints)
	remarksCol := findColumn(t, remarksHints)

	var roster Roster
	for i := 0; i < t.Len(); i++ {
		rec := t.Record(i)
		if rec.Deleted() {
			continue
		}

		var s Student
		for _, c := range []struct {
			col int
			dst *string
		}{{nameCol, &s.Name}, {gradeCol, &s.Grade}, {remarksCol, &s.Remarks}} {
			v, err := rec.Value(c.col)
			if err != nil {
				return nil, fmt.Errorf("failed to read record %d: %w", i, err)
			}
			*c.dst = v
		}
		roster = append(roster, s)
	}
	return roster, nil
}

func findColumn(t *dbf.Table, hints []string) int {
	for _, hint := range hints {
		for i, f := range t.Fields {
			if strings.Contains(strings.ToLower(f.Name), hint) {
				return i
			}
		}
	}
	return 0
}

// Statistics counts remarks by outcome.
type Statistics struct {
	Passed  int
	NoGrade int
	Failed  int
	Dropped int
	Total   int
}

func (s Statistics) String() string {
	return fmt.Sprintf("STATISTICS   :   Passed=%d  No Grade=%d  Failed=%d  Dropped=%d  TOTAL=%d",
		s.Passed, s.NoGrade, s.Failed, s.Dropped, s.Total)
}

// Remark outcome keywords, checked in this order against the upper-cased
// remark. The first group with a keyword inside the remark wins.
var (
	passedKeywords  = []string{"PASSED", "PASS", "OK", "COMPLETED"}
	noGradeKeywords = []string{"NO GRADE", "N/A", "NO REMARK", "NONE", "INC", "INCOMPLETE"}
	failedKeywords  = []string{"FAILED", "FAIL"}
	droppedKeywords = []string{"DROPPED", "DROP", "WITHDRAWN", "WITHDREW", "DRP"}
)

// Tally counts the roster's remarks.
func (r Roster) Tally() Statistics {
	stats := Statistics{Total: len(r)}
	for _, s := range r {
		remark := strings.ToUpper(s.Remarks)
		switch {
		case containsAny(remark, passedKeywords):
			stats.Passed++
		case containsAny(remark, noGradeKeywords):
			stats.NoGrade++
		case containsAny(remark, failedKeywords):
			stats.Failed++
		case containsAny(remark, droppedKeywords):
			stats.Dropped++
		}
	}
	return stats
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

var rosterHeaders = []string{"NO", "NAME", "GRADE", "REMARKS"}

const (
	rosterHeaderMinimum = 3

	doubleBottomBorder = `<w:bottom w:val="double" w:sz="6" w:space="0" w:color="000000"/>`
)

// fillRoster writes roster into the first roster table of a document part.
// The table's second row is the template for student rows: existing rows
// after the header are filled in order and the template is cloned for the
// rest. The last row gets a double bottom border and a statistics paragraph
// follows the table.
func fillRoster(doc string, roster Roster) (string, *Statistics) {
	for _, tbl := range elements(doc, "w:tbl") {
		table := doc[tbl.start:tbl.end]
		rows := elements(table, "w:tr")
		if len(rows) == 0 || !isRosterHeader(table[rows[0].start:rows[0].end]) {
			continue
		}
		if len(rows) < 2 {
			return doc, nil
		}

		stats := roster.Tally()
		filled := fillRows(table, rows, roster)
		statsParagraph := "<w:p>" + run("", stats.String()) + "</w:p>"

		return doc[:tbl.start] + filled + statsParagraph + doc[tbl.end:], &stats
	}
	return doc, nil
}

func isRosterHeader(row string) bool {
	var cells []string
	for _, c := range elements(row, "w:tc") {
		cells = append(cells, cellText(row[c.start:c.end]))
	}
	joined := strings.ToUpper(strings.Join(cells, " "))

	found := 0
	for _, h := range rosterHeaders {
		if strings.Contains(joined, h) {
			found++
		}
	}
	return found >= rosterHeaderMinimum
}

func cellText(cell string) string {
	var paras []string
	for _, p := range elements(cell, "w:p") {
		paras = append(paras, text(cell[p.start:p.end]))
	}
	return strings.Join(paras, "\n")
}

func fillRows(table string, rows []span, roster Roster) string {
	template := table[rows[1].start:rows[1].end]
	slots := rows[1:]

	var out []string
	for i, s := range roster {
		row := template
		if i < len(slots) {
			row = table[slots[i].start:slots[i].end]
		}
		out = append(out, setRow(row, i+1, s))
	}
	for i := len(roster); i < len(slots); i++ {
		out = append(out, table[slots[i].start:slots[i].end])
	}
	out[len(out)-1] = withDoubleBottomBorder(out[len(out)-1])

	last := rows[len(rows)-1]
	return table[:rows[1].start] + strings.Join(out, "") + table[last.end:]
}

// setRow fills a row's cells: number, name and grade in the first three and
// remarks in the last; any cell in between is blanked.
func setRow(row string, number int, s Student) string {
	cells := elements(row, "w:tc")
	i := 0
	return replaceSpans(row, cells, func(cell string) string {
		var value string
		switch {
		case i == 0:
			value = strconv.Itoa(number)
		case i == 1:
			value = s.Name
		case i == 2:
			value = s.Grade
		case i == len(cells)-1:
			value = s.Remarks
		}
		i++
		return setCellText(cell, value)
	})
}

// setCellText replaces a cell's content with a single paragraph holding
// value, keeping the cell properties and the first paragraph's formatting.
func setCellText(cell, value string) string {
	open, content, closing := inner(cell)
	tcPr, _ := first(content, "w:tcPr")

	p := "<w:p>"
	pPr, rPr := "", ""
	if para, ok := first(content, "w:p"); ok {
		p, pPr, rPr = paragraphShell(para)
	}

	body := p + pPr
	if value != "" {
		body += run(rPr, value)
	}
	body += "</w:p>"

	return open + tcPr + body + closing
}

// Elements that precede w:tcBorders inside w:tcPr.
var beforeBorders = []string{"w:cnfStyle", "w:tcW", "w:gridSpan", "w:hMerge", "w:vMerge"}

// Elements that follow w:bottom inside w:tcBorders.
var afterBottom = []string{"w:end", "w:right", "w:insideH", "w:insideV", "w:tl2br", "w:tr2bl"}

func withDoubleBottomBorder(row string) string {
	return replaceSpans(row, elements(row, "w:tc"), func(cell string) string {
		open, content, closing := inner(cell)

		pr, ok := first(content, "w:tcPr")
		if !ok {
			return open + "<w:tcPr><w:tcBorders>" + doubleBottomBorder + "</w:tcBorders></w:tcPr>" + content + closing
		}

		return open + strings.Replace(content, pr, withBottomBorder(pr), 1) + closing
	})
}

func withBottomBorder(tcPr string) string {
	open, content, _ := inner(tcPr)
	if strings.HasSuffix(open, "/>") {
		return "<w:tcPr><w:tcBorders>" + doubleBottomBorder + "</w:tcBorders></w:tcPr>"
	}

	borders, ok := first(content, "w:tcBorders")
	if !ok {
		at := insertionPoint(content, beforeBorders)
		return open + content[:at] + "<w:tcBorders>" + doubleBottomBorder + "</w:tcBorders>" + content[at:] + "</w:tcPr>"
	}

	bOpen, bContent, _ := inner(borders)
	if strings.HasSuffix(bOpen, "/>") {
		bOpen = "<w:tcBorders>"
	}
	if old, ok := first(bContent, "w:bottom"); ok {
		bContent = strings.Replace(bContent, old, "", 1)
	}
	at := len(bContent)
	for _, name := range afterBottom {
		if spans := elements(bContent, name); len(spans) > 0 && spans[0].start < at {
			at = spans[0].start
		}
	}
	newBorders := bOpen + bContent[:at] + doubleBottomBorder + bContent[at:] + "</w:tcBorders>"

	return open + strings.Replace(content, borders, newBorders, 1) + "</w:tcPr>"
}

// insertionPoint returns the offset just past the last element of content
// named in before.
func insertionPoint(content string, before []string) int {
	at := 0
	for _, name := range before {
		for _, sp := range elements(content, name) {
			if sp.end > at {
				at = sp.end
			}
		}
	}
	return at
}
