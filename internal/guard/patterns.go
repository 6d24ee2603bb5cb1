package guard

import "regexp"

// Pattern pairs a compiled regular expression with the verdict and message
// it produces when matched.
type Pattern struct {
	Regexp  *regexp.Regexp
	Verdict Verdict
	Message string
}

// NewPattern compiles a pattern. The expression must be a valid regular
// expression; patterns are declared at package init time, so a bad
// expression is a programming error.
func NewPattern(expr string, verdict Verdict, message string) Pattern {
	return Pattern{
		Regexp:  regexp.MustCompile(expr),
		Verdict: verdict,
		Message: message,
	}
}

// PatternList is an ordered list of patterns evaluated top to bottom.
// The first matching pattern determines a checker's verdict and message;
// later patterns are not consulted.
type PatternList []Pattern

// Match returns the first pattern that matches the given string,
// and false if none match.
func (l PatternList) Match(s string) (Pattern, bool) {
	for _, pattern := range l {
		if pattern.Regexp.MatchString(s) {
			return pattern, true
		}
	}
	return Pattern{}, false
}
