package bot

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares raw user input for matching: lowercase, NFKD
// decomposition with combining marks stripped (so "café" matches "cafe"),
// and trimmed whitespace. It is total and idempotent; the worst case for
// any input is the empty string.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
