package scan

import (
	"regexp"
	"strings"
)

// Matcher decides whether a line belongs in the result set. Matchers are
// resolved once per scan and must be safe for repeated calls.
type Matcher interface {
	Match(line string) bool
}

type literalMatcher struct {
	needle string
}

func (m literalMatcher) Match(line string) bool {
	return strings.Contains(strings.ToLower(line), m.needle)
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(line string) bool {
	return m.re.MatchString(line)
}

// NewMatcher builds a matcher for pattern. Literal patterns match
// case-insensitively anywhere in the line; regex patterns keep their
// written case and match anywhere unless anchored. A regex that fails
// to compile returns an *InvalidPatternError.
func NewMatcher(pattern string, isRegex bool) (Matcher, error) {
	if isRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: pattern, Err: err}
		}
		return regexMatcher{re: re}, nil
	}
	return literalMatcher{needle: strings.ToLower(pattern)}, nil
}
