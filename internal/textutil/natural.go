package textutil

import (
	"sort"
	"strings"
)

// NaturalLess reports whether a sorts before b under natural ordering.
// Digit runs compare by numeric value, other segments case-insensitively.
func NaturalLess(a, b string) bool {
	return naturalCompare(strings.ToLower(a), strings.ToLower(b)) < 0
}

// SortNatural sorts names in place using natural ordering.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

func naturalCompare(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ca, cb := a[ia], b[ib]
		da, db := isDigit(ca), isDigit(cb)

		switch {
		case da && db:
			na, ea := digitRun(a, ia)
			nb, eb := digitRun(b, ib)
			if cmp := compareDigitRuns(na, nb); cmp != 0 {
				return cmp
			}
			ia, ib = ea, eb
		case da:
			// Digits sort before letters so "2.jpg" precedes "a.jpg".
			return -1
		case db:
			return 1
		default:
			if ca != cb {
				if ca < cb {
					return -1
				}
				return 1
			}
			ia++
			ib++
		}
	}
	switch {
	case ia < len(a):
		return 1
	case ib < len(b):
		return -1
	default:
		return 0
	}
}

// digitRun returns the digit substring starting at i, trimmed of leading
// zeros, and the index just past it.
func digitRun(s string, i int) (string, int) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	run := strings.TrimLeft(s[i:j], "0")
	return run, j
}

func compareDigitRuns(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
