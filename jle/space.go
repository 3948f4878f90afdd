package jle

import (
	"strings"
	"unicode/utf8"
)

// spaceClass is the whitespace of a Latin-1 decoded dump: ASCII whitespace,
// vertical tab, the information separators 0x1c-0x1f, NEL and no-break space.
// It is spliced into character classes of the decoder patterns.
const spaceClass = `\t\n\v\f\r \x1c-\x1f\x85\xa0`

const ws = `[` + spaceClass + `]`

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x85, 0xa0:
		return true
	}
	return r >= 0x1c && r <= 0x1f
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// collapseSpace joins the words of s with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// skipSpace returns the offset of the first non-space rune at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isSpace(r) {
			break
		}
		i += size
	}
	return i
}
