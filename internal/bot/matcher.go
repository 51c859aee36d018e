package bot

import (
	"regexp"
	"strings"
)

// Matcher detects an intent in normalized text. It is either a literal
// substring or a regular expression, never both.
type Matcher struct {
	literal string
	pattern *regexp.Regexp
}

// Literal returns a matcher that hits when the text contains s as a substring.
func Literal(s string) Matcher {
	return Matcher{literal: s}
}

// Pattern returns a matcher that hits when re tests true against the text.
func Pattern(re *regexp.Regexp) Matcher {
	return Matcher{pattern: re}
}

// Hits reports whether the matcher fires on the given normalized text.
// A zero-value matcher never hits.
func (m Matcher) Hits(text string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(text)
	}
	return m.literal != "" && strings.Contains(text, m.literal)
}
