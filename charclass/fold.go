package charclass

import (
	"unicode"

	"golang.org/x/text/cases"
)

// Fold returns the canonical member of r's simple case-folding orbit: the
// smallest rune that folds together with r. Two runes compare equal under
// ignore-case exactly when their Fold values are equal.
func Fold(r rune) rune {
	if r < 0x80 {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}
	lo := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lo {
			lo = f
		}
	}
	if 'A' <= lo && lo <= 'Z' {
		lo += 'a' - 'A'
	}
	return lo
}

// EqualFold reports whether a and b are equal under simple case folding.
func EqualFold(a, b rune) bool {
	return a == b || Fold(a) == Fold(b)
}

// IsUpper reports whether r is an upper-case letter.
func IsUpper(r rune) bool {
	if r < 0x80 {
		return 'A' <= r && r <= 'Z'
	}
	return unicode.IsUpper(r)
}

// IsLower reports whether r is a lower-case letter.
func IsLower(r rune) bool {
	if r < 0x80 {
		return 'a' <= r && r <= 'z'
	}
	return unicode.IsLower(r)
}

// FoldString applies full Unicode case folding to s. The result may differ
// in length from s, so it is only suitable for containment checks (such as
// rejecting a line that cannot hold a required literal), never for offsets.
//
// Full folding maps every pair of runes that Fold treats as equal to the
// same sequence, so a negative containment result is always safe.
func FoldString(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			// cases.Caser is stateful; a fresh one per call keeps this
			// safe for concurrent use.
			return cases.Fold().String(s)
		}
	}
	return s
}
