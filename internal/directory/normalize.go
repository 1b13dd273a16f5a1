// Package directory resolves decoded payer names against the practice's
// contracted-payer directory and classifies whether a verified patient is
// billable. Coverage and billability are different questions: a patient can
// hold active coverage with a payer the practice has no contract with.
package directory

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^A-Z0-9\s]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName canonicalizes a payer name for matching: uppercase, strip
// everything outside [A-Z0-9\s], collapse whitespace runs, trim. The
// operation is idempotent.
func NormalizeName(name string) string {
	s := strings.ToUpper(name)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// firstWord returns the first normalized token of a name, the key used by
// the low-confidence fuzzy tier.
func firstWord(normalized string) string {
	if i := strings.IndexByte(normalized, ' '); i >= 0 {
		return normalized[:i]
	}
	return normalized
}
