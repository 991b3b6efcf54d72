// Package stamp encodes structured facts as stamps inside free-text notes.
//
// A stamp is a single contiguous substring such as @lintAt(2024-06-15),
// @lint(P_EMPTY,P_OVERDUE) or @waitingSince(2024-03-01). Each pattern matches
// at most one span per note; note text outside stamp spans is never changed
// beyond the blank-line collapse performed by Remove.
package stamp

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the zero-padded calendar date format used inside stamps.
const DateLayout = "2006-01-02"

// Stamp patterns.
var (
	LintAtRE  = regexp.MustCompile(`@lintAt\(\d{4}-\d{2}-\d{2}\)`)
	LintRE    = regexp.MustCompile(`@lint\([A-Z_]+(?:,[A-Z_]+)*\)`)
	WaitingRE = regexp.MustCompile(`@waitingSince\(\d{4}-\d{2}-\d{2}\)`)

	waitingDateRE = regexp.MustCompile(`@waitingSince\((\d{4}-\d{2}-\d{2})\)`)
	lintAtDateRE  = regexp.MustCompile(`@lintAt\((\d{4}-\d{2}-\d{2})\)`)
	lintCodesRE   = regexp.MustCompile(`@lint\(([A-Z_]+(?:,[A-Z_]+)*)\)`)
	blankRunRE    = regexp.MustCompile(`\n{3,}`)
)

// Upsert replaces the first span of note matching re with stamp. When nothing
// matches, stamp is appended on its own line.
func Upsert(note string, re *regexp.Regexp, stamp string) string {
	if loc := re.FindStringIndex(note); loc != nil {
		return note[:loc[0]] + stamp + note[loc[1]:]
	}
	if note == "" {
		return stamp
	}
	if strings.HasSuffix(note, "\n") {
		return note + stamp
	}
	return note + "\n" + stamp
}

// Remove deletes every span matching re, collapses runs of three or more
// newlines to two and strips trailing newlines.
func Remove(note string, re *regexp.Regexp) string {
	result := re.ReplaceAllLiteralString(note, "")
	result = blankRunRE.ReplaceAllLiteralString(result, "\n\n")
	return strings.TrimRight(result, "\n")
}

// ReadWaitingSince returns the date of the first @waitingSince stamp as a
// local calendar date. It reports false when there is no stamp or the date
// is not a real calendar day.
func ReadWaitingSince(note string) (time.Time, bool) {
	m := waitingDateRE.FindStringSubmatch(note)
	if m == nil {
		return time.Time{}, false
	}
	return ParseDate(m[1])
}

// ReadLint returns the reason list of the first @lint stamp, as written.
func ReadLint(note string) (string, bool) {
	m := lintCodesRE.FindStringSubmatch(note)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ReadLintAt returns the date text of the first @lintAt stamp.
func ReadLintAt(note string) (string, bool) {
	m := lintAtDateRE.FindStringSubmatch(note)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseDate parses a strict YYYY-MM-DD string as midnight local time.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FormatDate renders t's local calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LintAt builds the lint timestamp stamp for day.
func LintAt(day time.Time) string {
	return "@lintAt(" + FormatDate(day) + ")"
}

// Lint builds the lint reasons stamp from reason codes, preserving order.
func Lint(codes []string) string {
	return "@lint(" + strings.Join(codes, ",") + ")"
}

// WaitingSince builds the waiting-since stamp for day.
func WaitingSince(day time.Time) string {
	return "@waitingSince(" + FormatDate(day) + ")"
}
