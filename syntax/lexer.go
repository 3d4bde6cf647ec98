package syntax

import (
	"strings"
	"unicode/utf8"
)

// lexChar is one lexed pattern character. magic is set when the character
// has its special meaning at the current magic level, either by itself or
// by a toggling backslash.
type lexChar struct {
	r     rune
	magic bool
	end   bool
}

// is reports whether c is the magic form of r.
func (c lexChar) is(r rune) bool { return c.magic && !c.end && c.r == r }

// lit reports whether c is r, magic or not.
func (c lexChar) lit(r rune) bool { return !c.end && c.r == r }

// metaChars toggle their magic when preceded by a backslash. ^ and $ are
// missing: \^ and \$ are only magic under \V.
var metaChars = func() (tab [128]bool) {
	for _, c := range "%&()*+.123456789<=>?@ACDFHIKLMOPSUVWXZ[_acdfhiklmnopsuvwxz{|~" {
		tab[c] = true
	}
	return tab
}()

// Characters magic only under \v.
const veryMagicChars = "(){%+=?@!&|<>#\"',-:;`/"

// lexer turns pattern bytes into lexChars. It keeps one character of
// lookahead plus the previous two characters, which decide whether ^ and *
// are magic. The whole state is a value so the parser can save and restore
// it to re-parse an atom.
type lexer struct {
	src   string
	pos   int
	magic Magic

	cur, next         lexChar
	haveCur, haveNext bool
	prev, prevprev    lexChar

	atStart     bool
	prevAtStart bool
	afterSlash  int
}

func newLexer(src string, m Magic) lexer {
	return lexer{src: src, magic: m, atStart: true}
}

// peek returns the next character without consuming it.
func (l *lexer) peek() lexChar {
	if !l.haveCur {
		l.cur = l.scan()
		l.haveCur = true
	}
	return l.cur
}

func (l *lexer) scan() lexChar {
	if l.pos >= len(l.src) {
		return lexChar{end: true}
	}
	c := rune(l.src[l.pos])
	switch {
	case c == '.' || c == '[' || c == '~':
		return lexChar{r: c, magic: l.magic >= MagicOn}

	case strings.ContainsRune(veryMagicChars, c):
		return lexChar{r: c, magic: l.magic == MagicAll}

	case c == '*':
		magic := l.magic >= MagicOn &&
			!l.atStart &&
			!(l.prevAtStart && l.prev.is('^')) &&
			(l.afterSlash > 0 || (!l.prev.is('(') && !l.prev.is('&') && !l.prev.is('|')))
		return lexChar{r: c, magic: magic}

	case c == '^':
		if l.magic >= MagicOff && (l.atStart ||
			l.magic == MagicAll ||
			l.prev.is('(') || l.prev.is('|') || l.prev.is('&') || l.prev.is('n') ||
			(l.prev.lit('(') && l.prevprev.is('%'))) {
			l.atStart = true
			l.prevAtStart = false
			return lexChar{r: c, magic: true}
		}
		return lexChar{r: c}

	case c == '$':
		return lexChar{r: c, magic: l.magic >= MagicOff && l.dollarIsMagic()}

	case c == '\\':
		if l.pos+1 >= len(l.src) {
			return lexChar{r: '\\'}
		}
		n := l.src[l.pos+1]
		switch {
		case n < utf8.RuneSelf && metaChars[n]:
			l.prevAtStart = l.atStart
			l.atStart = false
			l.pos++
			l.afterSlash++
			ch := l.scan()
			l.pos--
			l.afterSlash--
			ch.magic = !ch.magic
			return ch
		case n == 'r':
			return lexChar{r: '\r'}
		case n == 't':
			return lexChar{r: '\t'}
		case n == 'e':
			return lexChar{r: 0x1b}
		case n == 'b':
			return lexChar{r: '\b'}
		case l.magic == MagicNone && (n == '$' || n == '^'):
			return lexChar{r: rune(n), magic: true}
		}
		r, _ := utf8.DecodeRuneInString(l.src[l.pos+1:])
		return lexChar{r: r}
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return lexChar{r: r}
}

// dollarIsMagic reports whether the $ at pos ends a branch: it is followed
// by the end of the pattern, \|, \&, \) or \n, possibly after flag items.
func (l *lexer) dollarIsMagic() bool {
	veryMagic := l.magic == MagicAll
	s := l.src[l.pos+1:]
	for len(s) >= 2 && s[0] == '\\' && strings.IndexByte("cCmMvVZ", s[1]) >= 0 {
		switch s[1] {
		case 'v':
			veryMagic = true
		case 'm', 'M', 'V':
			veryMagic = false
		}
		s = s[2:]
	}
	switch {
	case s == "":
		return true
	case len(s) >= 2 && s[0] == '\\' && strings.IndexByte("|&)n", s[1]) >= 0:
		return true
	case veryMagic && strings.IndexByte("|&)", s[0]) >= 0:
		return true
	}
	return l.magic == MagicAll
}

// skip consumes the character returned by peek.
func (l *lexer) skip() {
	n := 0
	if l.pos < len(l.src) && l.src[l.pos] == '\\' {
		n = 1
	}
	if l.pos+n < len(l.src) {
		_, size := utf8.DecodeRuneInString(l.src[l.pos+n:])
		n += size
	}
	l.pos += n
	l.prevAtStart = l.atStart
	l.atStart = false
	l.prevprev = l.prev
	if l.haveCur {
		l.prev = l.cur
	} else {
		l.prev = lexChar{}
	}
	l.cur, l.haveCur = l.next, l.haveNext
	l.haveNext = false
}

// skipKeepStart consumes a flag item such as \c without disturbing the
// start-of-branch state.
func (l *lexer) skipKeepStart() {
	as, pr, prpr := l.prevAtStart, l.prev, l.prevprev
	l.skip()
	l.atStart, l.prev, l.prevprev = as, pr, prpr
}

// get consumes and returns the next character.
func (l *lexer) get() lexChar {
	c := l.peek()
	l.skip()
	return c
}

// invalidate drops the lookahead after the parser read raw bytes.
func (l *lexer) invalidate() {
	l.haveCur = false
	l.haveNext = false
}

// decimal reads decimal digits at pos. It returns -1 when there are none.
func (l *lexer) decimal() int64 {
	nr, n := decimalAt(l.src[l.pos:])
	l.advance(n)
	return nr
}

// hex reads up to maxDigits hex digits at pos, -1 when there are none.
func (l *lexer) hex(maxDigits int) int64 {
	nr, n := hexAt(l.src[l.pos:], maxDigits)
	l.advance(n)
	return nr
}

// octal reads up to three octal digits while the value stays below 040,
// so that "\%o400" reads as 040 followed by '0'.
func (l *lexer) octal() int64 {
	nr, n := octalAt(l.src[l.pos:])
	l.advance(n)
	return nr
}

// advance moves past n raw bytes.
func (l *lexer) advance(n int) {
	if n > 0 {
		l.pos += n
		l.invalidate()
	}
}

func hexAt(s string, maxDigits int) (int64, int) {
	var nr int64
	i := 0
	for ; i < maxDigits && i < len(s); i++ {
		d := hexDigit(s[i])
		if d < 0 {
			break
		}
		nr = nr<<4 | int64(d)
	}
	if i == 0 {
		return -1, 0
	}
	return nr, i
}

func octalAt(s string) (int64, int) {
	var nr int64
	i := 0
	for ; i < 3 && i < len(s) && nr < 040; i++ {
		if s[i] < '0' || s[i] > '7' {
			break
		}
		nr = nr<<3 | int64(s[i]-'0')
	}
	if i == 0 {
		return -1, 0
	}
	return nr, i
}

func decimalAt(s string) (int64, int) {
	var nr int64
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if nr < 1<<40 {
			nr = nr*10 + int64(s[i]-'0')
		}
	}
	if i == 0 {
		return -1, 0
	}
	return nr, i
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
