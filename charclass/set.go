package charclass

import (
	"strings"
	"unicode"
)

// Range is an inclusive rune range.
type Range struct {
	Lo, Hi rune
}

// Set is a parsed collection ("[...]"). The newline alternative of "\_[]"
// is not part of the set; the parser emits it as a separate branch.
type Set struct {
	Negated bool
	Runes   []rune
	Ranges  []Range
	Classes []Posix
}

// AddRune adds a single rune.
func (s *Set) AddRune(r rune) { s.Runes = append(s.Runes, r) }

// AddRange adds lo-hi; a reversed range is the caller's error to report.
func (s *Set) AddRange(lo, hi rune) {
	if lo == hi {
		s.AddRune(lo)
		return
	}
	s.Ranges = append(s.Ranges, Range{lo, hi})
}

// AddClass adds a bracket class.
func (s *Set) AddClass(p Posix) { s.Classes = append(s.Classes, p) }

// Matches reports whether r is accepted by the collection, taking
// negation into account. With ic set, runes and ranges compare under case
// folding; bracket classes never fold.
func (s *Set) Matches(r rune, ic bool, t *Tables) bool {
	return s.contains(r, ic, t) != s.Negated
}

func (s *Set) contains(r rune, ic bool, t *Tables) bool {
	for _, p := range s.Classes {
		if p.Matches(r, t) {
			return true
		}
	}
	for _, c := range s.Runes {
		if c == r || (ic && EqualFold(c, r)) {
			return true
		}
	}
	for _, rg := range s.Ranges {
		if rg.Lo <= r && r <= rg.Hi {
			return true
		}
	}
	if ic {
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			for _, rg := range s.Ranges {
				if rg.Lo <= f && f <= rg.Hi {
					return true
				}
			}
		}
	}
	return false
}

// ASCIIOnly reports whether every rune the set can accept is below 128.
func (s *Set) ASCIIOnly() bool {
	if s.Negated {
		return false
	}
	for _, r := range s.Runes {
		if r >= 0x80 {
			return false
		}
	}
	for _, rg := range s.Ranges {
		if rg.Hi >= 0x80 {
			return false
		}
	}
	for _, p := range s.Classes {
		switch p {
		case PosixLower, PosixUpper, PosixPrint:
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Negated {
		b.WriteByte('^')
	}
	for _, p := range s.Classes {
		b.WriteString(p.String())
	}
	for _, r := range s.Runes {
		b.WriteRune(r)
	}
	for _, rg := range s.Ranges {
		b.WriteRune(rg.Lo)
		b.WriteByte('-')
		b.WriteRune(rg.Hi)
	}
	b.WriteByte(']')
	return b.String()
}
