package agent

import (
	"regexp"
	"strings"
)

// LocationExtractor pulls a place name out of free text.
type LocationExtractor interface {
	ExtractLocation(text string) (string, bool)
}

// locationSpace is the whitespace a location may contain: ASCII whitespace
// plus the Unicode space separators, line/paragraph separators and BOM.
const locationSpace = "\t\n\v\f\r \u00a0\u1680\u2000\u2001\u2002\u2003\u2004\u2005" +
	"\u2006\u2007\u2008\u2009\u200a\u2028\u2029\u202f\u205f\u3000\ufeff"

// weatherLocationPattern captures the run of ASCII letters and spaces after
// "weather for|in|at". Anything else (punctuation, digits) ends the capture,
// so "weather in New York City, please" yields "New York City". Only the
// keyword is case-insensitive; folding the letter class would also admit
// U+017F and U+212A.
var weatherLocationPattern = regexp.MustCompile(
	`(?i:weather (?:for|in|at)) ([a-zA-Z\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+)`,
)

// RegexExtractor is the pattern-matching LocationExtractor.
type RegexExtractor struct{}

func (RegexExtractor) ExtractLocation(text string) (string, bool) {
	m := weatherLocationPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	loc := strings.Trim(m[1], locationSpace)
	return loc, loc != ""
}
