package report

import (
	"bytes"
	"encoding/xml"
	"html"
	"strings"
)

// span is a half-open byte range into an XML part.
type span struct {
	start, end int
}

// elements returns the outermost <name>…</name> elements of s, self-closing
// ones included. Nested elements of the same name stay inside their parent.
func elements(s, name string) []span {
	open := "<" + name
	closing := "</" + name + ">"

	var out []span
	depth, start := 0, 0
	for pos := 0; pos < len(s); {
		o := indexOpenTag(s, pos, open)
		c := strings.Index(s[pos:], closing)
		if c >= 0 {
			c += pos
		}
		if o < 0 && c < 0 {
			break
		}

		if o >= 0 && (c < 0 || o < c) {
			end := strings.IndexByte(s[o:], '>')
			if end < 0 {
				break
			}
			end += o + 1

			if s[end-2] == '/' {
				if depth == 0 {
					out = append(out, span{o, end})
				}
			} else {
				if depth == 0 {
					start = o
				}
				depth++
			}
			pos = end
			continue
		}

		if depth > 0 {
			depth--
			if depth == 0 {
				out = append(out, span{start, c + len(closing)})
			}
		}
		pos = c + len(closing)
	}
	return out
}

// indexOpenTag finds the next "<name" that is a whole tag name, so that
// "<w:t" does not match "<w:tbl" or "<w:tab/>".
func indexOpenTag(s string, pos int, open string) int {
	for pos < len(s) {
		i := strings.Index(s[pos:], open)
		if i < 0 {
			return -1
		}
		i += pos
		next := i + len(open)
		if next < len(s) {
			switch s[next] {
			case '>', '/', ' ', '\t', '\n', '\r':
				return i
			}
		}
		pos = next
	}
	return -1
}

// first returns the first outermost element called name in s.
func first(s, name string) (string, bool) {
	spans := elements(s, name)
	if len(spans) == 0 {
		return "", false
	}
	return s[spans[0].start:spans[0].end], true
}

// inner splits an element into its opening tag, content and closing tag.
// Self-closing elements have empty content and closing tag.
func inner(el string) (open, content, closing string) {
	end := strings.IndexByte(el, '>') + 1
	if strings.HasSuffix(el[:end], "/>") {
		return el[:end], "", ""
	}
	c := strings.LastIndex(el, "</")
	return el[:end], el[end:c], el[c:]
}

// text returns the unescaped text of every w:t element in s.
func text(s string) string {
	var b strings.Builder
	for _, sp := range elements(s, "w:t") {
		_, content, _ := inner(s[sp.start:sp.end])
		b.WriteString(html.UnescapeString(content))
	}
	return b.String()
}

// replaceSpans rewrites every span of s with fn.
func replaceSpans(s string, spans []span, fn func(string) string) string {
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		b.WriteString(fn(s[sp.start:sp.end]))
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// eachParagraph applies fn to every innermost paragraph of s. Paragraphs
// holding other paragraphs, as text boxes do, are descended into rather than
// rewritten.
func eachParagraph(s string, fn func(string) string) string {
	return replaceSpans(s, elements(s, "w:p"), func(p string) string {
		open, content, closing := inner(p)
		if closing != "" && len(elements(content, "w:p")) > 0 {
			return open + eachParagraph(content, fn) + closing
		}
		return fn(p)
	})
}

// sanitize drops NUL and replaces the other control characters XML cannot
// carry with '?'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0:
			return -1
		case r < 0x20 && r != '\t' && r != '\n' && r != '\r':
			return '?'
		}
		return r
	}, s)
}

func escape(s string) string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// run renders one text run. rPr may be empty.
func run(rPr, s string) string {
	return "<w:r>" + rPr + `<w:t xml:space="preserve">` + escape(sanitize(s)) + "</w:t></w:r>"
}

// paragraphShell returns a paragraph's opening tag and properties together
// with the run properties of its first run.
func paragraphShell(p string) (open, pPr, rPr string) {
	open, content, _ := inner(p)
	if strings.HasSuffix(open, "/>") {
		open = strings.TrimSuffix(open, "/>") + ">"
	}
	pPr, _ = first(content, "w:pPr")
	if r, ok := first(content, "w:r"); ok {
		rPr, _ = first(r, "w:rPr")
	}
	return open, pPr, rPr
}
