package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/vimre/charclass"
)

const (
	// Escapes that are special inside [].
	collInRange = "]^-n\\"
	// Escapes that stand for a control character or a number.
	collAbbrev = "nrtebdoxuU"
)

// bracket parses a collection whose opening [ is already consumed. start
// is the offset of the atom; withNewline is set for \_[.
func (p *parser) bracket(start int, withNewline bool) error {
	src := p.lex.src
	open := p.lex.pos
	end := skipAnyOf(src, open)
	if end >= len(src) {
		if p.flags.StrictBrackets {
			return p.errorAt(ErrUnterminatedCollection, start)
		}
		p.emit(Token{Op: OpChar, Rune: '['})
		return nil
	}

	set, newline, err := p.collection(src[open:end], open)
	if err != nil {
		return err
	}
	p.lex.advance(end + 1 - open)

	p.sets = append(p.sets, set)
	p.emit(Token{Op: OpCollection, Set: len(p.sets) - 1})
	if newline || withNewline {
		p.orNewline()
	}
	return nil
}

// collection parses the body of [...] without the brackets. base is the
// offset of body in the pattern, for error reporting. newline reports a
// \n item that must also match a line break.
func (p *parser) collection(body string, base int) (set *charclass.Set, newline bool, err error) {
	set = &charclass.Set{}
	i := 0
	if i < len(body) && body[i] == '^' {
		set.Negated = true
		i++
	}
	startc := rune(-1)
	if i < len(body) && body[i] == '-' {
		startc = '-'
		set.AddRune('-')
		i++
	}

	pendingRange := false
	for i < len(body) {
		prevc := startc
		startc = -1
		lineBreak := false
		collChar := false
		adv := 0

		if body[i] == '[' {
			if cls, n, ok := posixAt(body[i:]); ok {
				set.AddClass(cls)
				i += n
				continue
			}
			if r, n, ok := equivAt(body[i:]); ok {
				for _, e := range charclass.Equivalents(r) {
					set.AddRune(e)
				}
				i += n
				continue
			}
			if r, n, ok := collatingAt(body[i:]); ok {
				startc = r
				adv = n
			}
		}

		if startc == -1 && body[i] == '-' && prevc != -1 {
			pendingRange = true
			startc = prevc
			i++
			continue
		}

		if startc == -1 && body[i] == '\\' && i+1 < len(body) &&
			strings.IndexByte(collInRange+collAbbrev, body[i+1]) >= 0 {
			i++
			switch c := body[i]; c {
			case 'n':
				if p.flags.MultiLine {
					lineBreak = true
				} else {
					startc = '\n'
				}
				adv = 1
			case 'd', 'o', 'x', 'u', 'U':
				if nr, n := collNumber(body[i:]); n > 0 {
					startc = nr
					adv = n
					collChar = true
				} else {
					// Not a number: the backslash is literal and the
					// letter is read next.
					startc = '\\'
				}
			default:
				startc = escapeChar(c)
				adv = 1
			}
		}

		if startc == -1 && !lineBreak {
			r, n := utf8.DecodeRuneInString(body[i:])
			startc = r
			adv = n
		}

		switch {
		case pendingRange:
			if lineBreak {
				return nil, false, p.errorAt(ErrBadRange, base+i)
			}
			lo, hi := prevc, startc
			if lo > hi {
				return nil, false, p.errorAt(ErrBadRange, base+i)
			}
			if lo == 0 {
				lo = 1
			}
			set.AddRange(lo, hi)
			pendingRange = false
			startc = -1
		case lineBreak:
			if !set.Negated {
				newline = true
			}
		case collChar && startc == 0:
			set.AddRune('\n')
		default:
			set.AddRune(startc)
		}
		i += adv
	}
	if pendingRange {
		set.AddRune('-')
	}
	return set, newline, nil
}

func escapeChar(c byte) rune {
	switch c {
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'e':
		return 0x1b
	case 'b':
		return '\b'
	}
	return rune(c)
}

// collNumber reads \d123, \o40, \x2a, \u20ac or \U0001f600 inside a
// collection; s starts at the letter. n is 0 when no valid number follows.
func collNumber(s string) (r rune, n int) {
	var nr int64
	var digits int
	switch s[0] {
	case 'd':
		nr, digits = decimalAt(s[1:])
	case 'o':
		nr, digits = octalAt(s[1:])
	case 'x':
		nr, digits = hexAt(s[1:], 2)
	case 'u':
		nr, digits = hexAt(s[1:], 4)
	case 'U':
		nr, digits = hexAt(s[1:], 8)
	}
	if digits == 0 || nr < 0 || nr > unicode.MaxRune {
		return 0, 0
	}
	return rune(nr), 1 + digits
}

// skipAnyOf returns the offset of the ] closing the collection whose body
// starts at i, or len(s) when there is none.
func skipAnyOf(s string, i int) int {
	if i < len(s) && s[i] == '^' {
		i++
	}
	if i < len(s) && (s[i] == ']' || s[i] == '-') {
		i++
	}
	for i < len(s) && s[i] != ']' {
		switch {
		case s[i] >= utf8.RuneSelf:
			_, n := utf8.DecodeRuneInString(s[i:])
			i += n
		case s[i] == '-':
			i++
			if i < len(s) && s[i] != ']' {
				_, n := utf8.DecodeRuneInString(s[i:])
				i += n
			}
		case s[i] == '\\' && i+1 < len(s) && strings.IndexByte(collInRange+collAbbrev, s[i+1]) >= 0:
			i += 2
		case s[i] == '[':
			if _, n, ok := posixAt(s[i:]); ok {
				i += n
			} else if _, n, ok := equivAt(s[i:]); ok {
				i += n
			} else if _, n, ok := collatingAt(s[i:]); ok {
				i += n
			} else {
				i++
			}
		default:
			i++
		}
	}
	return i
}

var posixNames = []string{
	"alnum", "alpha", "blank", "cntrl", "digit", "graph", "lower", "print",
	"punct", "space", "upper", "xdigit", "tab", "return", "backspace", "escape",
}

// posixAt recognizes "[:name:]" at the start of s.
func posixAt(s string) (charclass.Posix, int, bool) {
	if !strings.HasPrefix(s, "[:") {
		return 0, 0, false
	}
	for _, name := range posixNames {
		item := "[:" + name + ":]"
		if strings.HasPrefix(s, item) {
			cls, _ := charclass.LookupPosix(name)
			return cls, len(item), true
		}
	}
	return 0, 0, false
}

// equivAt recognizes "[=x=]" at the start of s.
func equivAt(s string) (rune, int, bool) {
	if len(s) < 3 || s[1] != '=' {
		return 0, 0, false
	}
	r, n := utf8.DecodeRuneInString(s[2:])
	if strings.HasPrefix(s[2+n:], "=]") {
		return r, n + 4, true
	}
	return 0, 0, false
}

// collatingAt recognizes "[.x.]" at the start of s; x may carry composing
// marks, which are ignored.
func collatingAt(s string) (rune, int, bool) {
	if len(s) < 3 || s[1] != '.' {
		return 0, 0, false
	}
	r, n := charclass.DecodeCluster(s[2:])
	if strings.HasPrefix(s[2+n:], ".]") {
		return r, n + 4, true
	}
	return 0, 0, false
}
