package web

import "strings"

// ValidEmail is the landing screen's syntactic email check. After trimming,
// the value must be non-empty, contain no space, have an '@' that is not the
// first character, and have a '.' at least two positions after that '@'
// which is not the last character. Nothing more is checked.
func ValidEmail(value string) bool {
	e := trim(value)
	if e == "" {
		return false
	}
	if strings.Contains(e, " ") {
		return false
	}

	at := strings.Index(e, "@")
	if at <= 0 {
		return false
	}

	from := at + 2
	if from > len(e) {
		return false
	}
	i := strings.Index(e[from:], ".")
	if i == -1 {
		return false
	}
	if from+i == len(e)-1 {
		return false
	}
	return true
}

// trim strips the characters browsers treat as whitespace around form input
// (String.prototype.trim): Unicode Zs, tab, vertical tab, form feed, BOM and
// line terminators.
func trim(s string) string {
	return strings.TrimFunc(s, isTrimSpace)
}

func isTrimSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
