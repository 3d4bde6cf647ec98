package charclass

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// Default option values, matching the editor's defaults on Unix.
const (
	DefaultIsKeyword = "@,48-57,_,192-255"
	DefaultIsIdent   = "@,48-57,_,192-255"
	DefaultIsFname   = "@,48-57,/,.,-,_,+,,,#,$,%,~,="
	DefaultIsPrint   = "@,161-255"
)

// Tables holds the option-driven classifications for code points below 256.
// Code points at or above 256 are classified by fixed rules.
//
// A Tables value is immutable after construction and safe for concurrent
// use.
type Tables struct {
	keyword [256]bool
	ident   [256]bool
	fname   [256]bool
	print   [256]bool
}

// OptionError reports a malformed option string.
type OptionError struct {
	Option string
	Value  string
	Offset int
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("charclass: invalid %s value %q at offset %d", e.Option, e.Value, e.Offset)
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the shared tables built from the default options.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		t, err := NewTables(DefaultIsKeyword, DefaultIsIdent, DefaultIsFname, DefaultIsPrint)
		if err != nil {
			panic(err)
		}
		defaultTables = t
	})
	return defaultTables
}

// NewTables parses the four option strings. An empty string selects the
// default for that option.
func NewTables(iskeyword, isident, isfname, isprint string) (*Tables, error) {
	t := &Tables{}
	for c := 0x20; c <= 0x7e; c++ {
		t.print[c] = true
	}
	specs := []struct {
		name, val, def string
		tab            *[256]bool
	}{
		{"iskeyword", iskeyword, DefaultIsKeyword, &t.keyword},
		{"isident", isident, DefaultIsIdent, &t.ident},
		{"isfname", isfname, DefaultIsFname, &t.fname},
		{"isprint", isprint, DefaultIsPrint, &t.print},
	}
	for _, s := range specs {
		v := s.val
		if v == "" {
			v = s.def
		}
		if err := parseOption(s.name, v, s.tab); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parseOption applies a comma separated list of parts to tab. A part is a
// character or decimal number, optionally followed by "-" and a range end,
// optionally preceded by "^" to exclude. "@" alone stands for all letters.
func parseOption(name, v string, tab *[256]bool) error {
	fail := func(off int) error {
		return &OptionError{Option: name, Value: v, Offset: off}
	}
	p := 0
	for p < len(v) {
		start := p
		exclude := false
		if v[p] == '^' && p+1 < len(v) {
			exclude = true
			p++
		}
		lo, n := optionChar(v[p:])
		p += n
		hi := -1
		if p+1 < len(v) && v[p] == '-' {
			p++
			hi, n = optionChar(v[p:])
			p += n
		}
		if lo <= 0 || lo >= 256 || (hi != -1 && hi < lo) || hi >= 256 {
			return fail(start)
		}
		if p < len(v) && v[p] != ',' {
			return fail(p)
		}
		letters := false
		if hi == -1 {
			if lo == '@' {
				letters = true
				lo, hi = 1, 255
			} else {
				hi = lo
			}
		}
		for c := lo; c <= hi; c++ {
			if letters && !IsLower(rune(c)) && !IsUpper(rune(c)) {
				continue
			}
			tab[c] = !exclude
		}
		if p < len(v) {
			p++ // ','
			if p == len(v) {
				return fail(p)
			}
		}
	}
	return nil
}

func optionChar(s string) (int, int) {
	if s == "" {
		return 0, 0
	}
	if s[0] >= '0' && s[0] <= '9' {
		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		v, err := strconv.Atoi(s[:n])
		if err != nil {
			return -1, n
		}
		return v, n
	}
	r, size := utf8.DecodeRuneInString(s)
	return int(r), size
}

// IsKeyword reports whether r is a keyword character (\k).
func (t *Tables) IsKeyword(r rune) bool {
	if r >= 0x100 {
		return WordClass(r, t) >= 2
	}
	return r > 0 && t.keyword[r]
}

// IsIdent reports whether r is an identifier character (\i). Code points
// at or above 256 never are.
func (t *Tables) IsIdent(r rune) bool {
	return r > 0 && r < 0x100 && t.ident[r]
}

// IsFname reports whether r is a file name character (\f).
func (t *Tables) IsFname(r rune) bool {
	if r >= 0x100 {
		return true
	}
	return r > 0 && t.fname[r]
}

// IsPrint reports whether r is printable (\p).
func (t *Tables) IsPrint(r rune) bool {
	if r >= 0x100 {
		return utfPrintable(r)
	}
	return r > 0 && t.print[r]
}

// nonPrintable lists the code points above 255 that are not printable.
var nonPrintable = []struct{ lo, hi rune }{
	{0x070f, 0x070f}, {0x180b, 0x180e}, {0x200b, 0x200f}, {0x202a, 0x202e},
	{0x2060, 0x206f}, {0xd800, 0xdfff}, {0xfeff, 0xfeff}, {0xfff9, 0xfffb},
	{0xfffe, 0xffff},
}

func utfPrintable(r rune) bool {
	for _, iv := range nonPrintable {
		if r < iv.lo {
			return true
		}
		if r <= iv.hi {
			return false
		}
	}
	return true
}

// String renders the keyword table in option syntax; handy in logs.
func (t *Tables) String() string {
	var b strings.Builder
	for c := 1; c < 256; c++ {
		if !t.keyword[c] {
			continue
		}
		e := c
		for e+1 < 256 && t.keyword[e+1] {
			e++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if e == c {
			b.WriteString(strconv.Itoa(c))
		} else {
			fmt.Fprintf(&b, "%d-%d", c, e)
		}
		c = e
	}
	return b.String()
}
