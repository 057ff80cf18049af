package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"tanko/internal/textutil"
)

var (
	// Parenthesized release tags like "(Digital)" or "(CM)", including any
	// space that precedes them.
	parenTagPattern = regexp.MustCompile(`\s*\([^)]*\)`)
	// Part suffixes appended to a volume marker, e.g. "v71_1_1" -> "v71".
	partSuffixPattern = regexp.MustCompile(`(?i)(v\s*\d+)(?:_\d+)+`)
	// The volume marker itself. The first match wins.
	volumeMarkerPattern = regexp.MustCompile(`(?i)\bv\s*0*(\d+)`)
)

// Canonical is a parsed volume filename in canonical form.
type Canonical struct {
	Series string // series name, may be empty
	Volume int    // extracted volume number, non-negative
	Ext    string // lowercase extension including the dot
}

// String renders the canonical filename "<series> v<NNN>.<ext>". The volume
// number is zero-padded to three digits; larger numbers print in full.
func (c Canonical) String() string {
	marker := fmt.Sprintf("v%03d", c.Volume)
	if c.Series == "" {
		return marker + c.Ext
	}
	return c.Series + " " + marker + c.Ext
}

// Normalize parses a raw volume filename. ok is false when no volume marker
// is present; the caller decides whether that is a warning.
//
// Normalize is idempotent: feeding a rendered Canonical back in yields the
// same Canonical.
func Normalize(filename string) (Canonical, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	stem = parenTagPattern.ReplaceAllString(stem, "")
	stem = textutil.CollapseSpaces(stem)
	stem = partSuffixPattern.ReplaceAllString(stem, "$1")

	match := volumeMarkerPattern.FindStringSubmatchIndex(stem)
	if match == nil {
		return Canonical{}, false
	}

	volume, err := strconv.Atoi(stem[match[2]:match[3]])
	if err != nil {
		// Digit run too large to represent; treat as unparseable.
		return Canonical{}, false
	}

	series := textutil.CollapseSpaces(stem[:match[0]])
	return Canonical{Series: series, Volume: volume, Ext: ext}, true
}
