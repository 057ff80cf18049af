package textutil

import (
	"regexp"
	"strings"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle reduces a title to lowercase alphanumerics for fuzzy
// comparison against provider search results.
func NormalizeTitle(title string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(title), "")
}

// CollapseSpaces trims the string and folds runs of whitespace into single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
