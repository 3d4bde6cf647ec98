package syntax

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/vimre/charclass"
)

// repeatInf is the upper bound of an open-ended \{n,} repeat.
const repeatInf = math.MaxInt32

// MaxRepeat bounds the counts of \{n,m}. Every count copies the atom into
// the postfix stream.
const MaxRepeat = 1000

type parenKind uint8

const (
	parenNone parenKind = iota
	parenCapture
	parenNoCapture
	parenExternal
)

type multiKind uint8

const (
	notMulti multiKind = iota
	multiOne           // \@ \= \?
	multiMany          // * \+ \{
)

func multiType(c lexChar) multiKind {
	switch {
	case c.is('@'), c.is('='), c.is('?'):
		return multiOne
	case c.is('*'), c.is('+'), c.is('{'):
		return multiMany
	}
	return notMulti
}

type parser struct {
	lex     lexer
	flags   Flags
	maxNest int

	out      []Token
	sets     []*charclass.Set
	clusters [][]rune

	groups     int
	extGroups  int
	closed     [MaxGroups]bool
	forward    []forwardRef
	depth      int
	inOptional int

	hasBackref    bool
	hasZend       bool
	hasNewline    bool
	hasLookbehind bool
	external      ExternalUse

	ignoreCase      bool
	noIgnoreCase    bool
	ignoreCombining bool
}

// forwardRef is a back reference written before its group was closed.
type forwardRef struct {
	n, offset int
}

// parseState is what re-parsing an atom for \+ and \{} restores. Group
// numbers are part of it so every copy of "\(a\)" fills the same group.
type parseState struct {
	lex       lexer
	groups    int
	extGroups int
}

func (p *parser) save() parseState {
	return parseState{lex: p.lex, groups: p.groups, extGroups: p.extGroups}
}

func (p *parser) restore(s parseState) {
	p.lex = s.lex
	p.groups = s.groups
	p.extGroups = s.extGroups
}

// Parse converts pattern to postfix form.
//
// The whole pattern is wrapped in group 0. Inline flags (\c, \C, \Z) are
// reported in the result rather than applied; the matcher honors them.
func Parse(pattern string, flags Flags) (*Postfix, error) {
	if flags.Magic == 0 {
		flags.Magic = MagicOn
	}
	p := &parser{
		lex:       newLexer(pattern, flags.Magic),
		flags:     flags,
		maxNest:   flags.MaxNest,
		groups:    1,
		extGroups: 1,
	}
	if p.maxNest <= 0 {
		p.maxNest = DefaultMaxNest
	}
	if err := p.reg(parenNone, 0); err != nil {
		return nil, err
	}
	p.emit(Token{Op: OpGroup, N: 0})
	for _, ref := range p.forward {
		if !p.closed[ref.n] {
			return nil, p.errorAt(ErrBadBackref, ref.offset)
		}
	}

	return &Postfix{
		Pattern:         pattern,
		Tokens:          p.out,
		Sets:            p.sets,
		Clusters:        p.clusters,
		Groups:          p.groups,
		ExtGroups:       p.extGroups,
		HasBackref:      p.hasBackref,
		HasZend:         p.hasZend,
		HasNewline:      p.hasNewline,
		HasLookbehind:   p.hasLookbehind,
		MultiLine:       p.flags.MultiLine,
		External:        p.external,
		IgnoreCase:      p.ignoreCase,
		NoIgnoreCase:    p.noIgnoreCase,
		IgnoreCombining: p.ignoreCombining,
	}, nil
}

func (p *parser) emit(t Token) { p.out = append(p.out, t) }

func (p *parser) emitOp(op Op) { p.out = append(p.out, Token{Op: op}) }

func (p *parser) errorAt(kind ErrorKind, offset int) error {
	return &Error{Kind: kind, Offset: offset, Pattern: p.lex.src}
}

func (p *parser) errorHere(kind ErrorKind) error {
	return p.errorAt(kind, p.lex.pos)
}

// reg parses branches separated by \| up to the closing paren of the group
// opened at offset open.
func (p *parser) reg(paren parenKind, open int) error {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxNest {
		return p.errorAt(ErrNestTooDeep, open)
	}

	parno := 0
	switch paren {
	case parenCapture:
		if p.groups >= MaxGroups {
			return p.errorAt(ErrTooManyGroups, open)
		}
		parno = p.groups
		p.groups++
	case parenExternal:
		if p.extGroups >= MaxGroups {
			return p.errorAt(ErrTooManyExtGroups, open)
		}
		parno = p.extGroups
		p.extGroups++
	}

	if err := p.branch(); err != nil {
		return err
	}
	for p.lex.peek().is('|') {
		p.lex.skip()
		if err := p.branch(); err != nil {
			return err
		}
		p.emitOp(OpOr)
	}

	if paren != parenNone {
		if !p.lex.get().is(')') {
			return p.errorAt(ErrUnmatchedOpen, open)
		}
	} else if !p.lex.peek().end {
		return p.errorHere(ErrUnmatchedClose)
	}

	switch paren {
	case parenCapture:
		p.closed[parno] = true
		p.emit(Token{Op: OpGroup, N: parno})
	case parenExternal:
		p.emit(Token{Op: OpExtGroup, N: parno})
	}
	return nil
}

// branch parses concats separated by \&. Every concat but the last
// becomes a look-ahead, so the last one decides what is matched.
func (p *parser) branch() error {
	start := len(p.out)
	if err := p.concat(); err != nil {
		return err
	}
	for p.lex.peek().is('&') {
		p.lex.skip()
		if len(p.out) == start {
			p.emitOp(OpEmpty)
		}
		p.emitOp(OpNoCapture)
		p.emitOp(OpLookahead)
		start = len(p.out)
		if err := p.concat(); err != nil {
			return err
		}
		if len(p.out) == start {
			p.emitOp(OpEmpty)
		}
		p.emitOp(OpConcat)
	}
	if len(p.out) == start {
		p.emitOp(OpEmpty)
	}
	return nil
}

// concat parses pieces up to \|, \&, \) or the end, applying flag items
// along the way.
func (p *parser) concat() error {
	first := true
	for {
		c := p.lex.peek()
		switch {
		case c.end, c.is('|'), c.is('&'), c.is(')'):
			return nil
		case c.is('Z'):
			p.ignoreCombining = true
			p.lex.skipKeepStart()
		case c.is('c'):
			p.ignoreCase = true
			p.lex.skipKeepStart()
		case c.is('C'):
			p.noIgnoreCase = true
			p.lex.skipKeepStart()
		case c.is('v'), c.is('m'), c.is('M'), c.is('V'):
			p.lex.magic = magicLevel(c.r)
			p.lex.skipKeepStart()
			p.lex.invalidate()
		default:
			if err := p.piece(); err != nil {
				return err
			}
			if !first {
				p.emitOp(OpConcat)
			}
			first = false
		}
	}
}

func magicLevel(r rune) Magic {
	switch r {
	case 'v':
		return MagicAll
	case 'M':
		return MagicOff
	case 'V':
		return MagicNone
	}
	return MagicOn
}

// piece parses an atom and an optional multi.
func (p *parser) piece() error {
	saved := p.save()
	start := len(p.out)
	if err := p.atom(); err != nil {
		return err
	}

	op := p.lex.peek()
	if multiType(op) == notMulti {
		return nil
	}
	opOffset := p.lex.pos
	p.lex.skip()

	switch op.r {
	case '*':
		p.emitOp(OpStar)

	case '+':
		// atom\+ is atom atom*, so a group inside keeps the text of the
		// last repetition.
		p.restore(saved)
		if err := p.atom(); err != nil {
			return err
		}
		p.emitOp(OpStar)
		p.emitOp(OpConcat)
		p.lex.peek()
		p.lex.skip()

	case '@':
		if err := p.lookaround(opOffset); err != nil {
			return err
		}

	case '?', '=':
		p.emitOp(OpQuest)

	case '{':
		done, err := p.repeat(saved, start)
		if err != nil || done {
			return err
		}
	}

	if multiType(p.lex.peek()) != notMulti {
		return p.errorHere(ErrNestedMulti)
	}
	return nil
}

func (p *parser) lookaround(offset int) error {
	limit := p.lex.decimal()
	c := p.lex.get()
	var op Op
	switch {
	case c.lit('='):
		op = OpLookahead
	case c.lit('!'):
		op = OpNegLookahead
	case c.lit('<'):
		switch c2 := p.lex.get(); {
		case c2.lit('='):
			op = OpLookbehind
		case c2.lit('!'):
			op = OpNegLookbehind
		}
	case c.lit('>'):
		op = OpAtomic
	}
	if op == 0 {
		return p.errorAt(ErrBadLookaround, offset)
	}
	t := Token{Op: op}
	if op == OpLookbehind || op == OpNegLookbehind {
		p.hasLookbehind = true
		if limit > 0 {
			t.N = int(min(limit, math.MaxInt32))
		}
	}
	p.emit(t)
	return nil
}

// repeat expands \{n,m}: n mandatory copies of the atom followed by m-n
// optional ones, or a starred copy when m is open. done reports that the
// atom was replaced by OpEmpty and no multi check should follow.
func (p *parser) repeat(saved parseState, start int) (done bool, err error) {
	lazy := false
	if p.lex.peek().lit('-') {
		p.lex.skip()
		lazy = true
	}
	lo, hi, err := p.readLimits()
	if err != nil {
		return false, err
	}

	star, quest := OpStar, OpQuest
	if lazy {
		star, quest = OpStarLazy, OpQuestLazy
	}
	if lo == 0 && hi == repeatInf {
		p.emitOp(star)
		return false, nil
	}
	if hi == 0 {
		p.out = p.out[:start]
		p.emitOp(OpEmpty)
		return true, nil
	}
	if lo > MaxRepeat || (hi != repeatInf && hi > MaxRepeat) {
		return false, p.errorHere(ErrBadRepeat)
	}

	p.out = p.out[:start]
	after := p.save()
	for i := 0; i < hi; i++ {
		p.restore(saved)
		old := len(p.out)
		if err := p.atom(); err != nil {
			return false, err
		}
		if i+1 > lo {
			if hi == repeatInf {
				p.emitOp(star)
			} else {
				p.emitOp(quest)
			}
		}
		if old != start {
			p.emitOp(OpConcat)
		}
		if i+1 > lo && hi == repeatInf {
			break
		}
	}
	p.restore(after)
	p.lex.invalidate()
	return false, nil
}

// readLimits reads "n,m}" after \{ (the optional - already consumed).
// A missing n is 0, a missing m is unbounded and "\{n}" means exactly n.
// The closing brace may be escaped.
func (p *parser) readLimits() (lo, hi int, err error) {
	s := p.lex.src
	i := p.lex.pos
	v, n := decimalAt(s[i:])
	i += n
	if n > 0 {
		lo = int(min(v, repeatInf))
	}
	switch {
	case i < len(s) && s[i] == ',':
		i++
		if v2, n2 := decimalAt(s[i:]); n2 > 0 {
			hi = int(min(v2, repeatInf))
			i += n2
		} else {
			hi = repeatInf
		}
	case n > 0:
		hi = lo
	default:
		hi = repeatInf
	}
	if i < len(s) && s[i] == '\\' {
		i++
	}
	if i >= len(s) || s[i] != '}' {
		return 0, 0, p.errorAt(ErrBadRepeat, i)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	p.lex.pos = i
	p.lex.invalidate()
	p.lex.skip()
	return lo, hi, nil
}

// atom parses the smallest unit of a pattern.
func (p *parser) atom() error {
	start := p.lex.pos
	startOfBranch := p.lex.prevAtStart
	c := p.lex.get()
	if c.end {
		return p.errorAt(ErrUnexpectedEnd, start)
	}
	if !c.magic {
		return p.literal(c.r, start)
	}

	switch c.r {
	case '^':
		p.emitOp(OpBOL)
	case '$':
		p.emitOp(OpEOL)
	case '<':
		p.emitOp(OpBOW)
	case '>':
		p.emitOp(OpEOW)
	case '_':
		return p.underscore(start)
	case 'n':
		p.newline()
	case '.':
		if r, ok := p.nextRune(); ok && charclass.IsComposing(r) {
			// A dot before a composing mark matches the mark on any base.
			at := p.lex.pos
			return p.literal(p.lex.get().r, at)
		}
		p.emitOp(OpAny)
	case '(':
		if p.inOptional > 0 {
			return p.errorAt(ErrBadOptionalItem, start)
		}
		return p.reg(parenCapture, start)
	case ')':
		return p.errorAt(ErrUnmatchedClose, start)
	case '|', '&':
		return p.errorAt(ErrMisplacedOperator, start)
	case '=', '?', '+', '@', '*', '{':
		return p.errorAt(ErrMisplacedMulti, start)
	case '~':
		return p.lastSubstitute(start)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := int(c.r - '0')
		if !p.closed[n] {
			if !lookbehindFollows(p.lex.src[start:]) {
				return p.errorAt(ErrBadBackref, start)
			}
			p.forward = append(p.forward, forwardRef{n: n, offset: start})
		}
		p.hasBackref = true
		p.emit(Token{Op: OpBackref, N: n})
	case 'z':
		return p.zItem(start)
	case '%':
		return p.percent(start, startOfBranch)
	case '[':
		return p.bracket(start, false)
	default:
		if k, ok := charclass.KindFromLetter(c.r); ok {
			p.emit(Token{Op: OpClass, Class: k})
			return nil
		}
		return p.literal(c.r, start)
	}
	return nil
}

func (p *parser) nextRune() (rune, bool) {
	rest := p.lex.src[p.lex.pos:]
	for _, r := range rest {
		return r, true
	}
	return 0, false
}

// literal emits r, merging it with composing marks that follow it in the
// pattern. A mark without a base becomes a cluster of its own.
func (p *parser) literal(r rune, start int) error {
	escaped := start < len(p.lex.src) && p.lex.src[start] == '\\'
	if !escaped || charclass.IsComposing(r) {
		marks := p.trailingMarks()
		if len(marks) > 0 || charclass.IsComposing(r) {
			cluster := append([]rune{r}, marks...)
			p.clusters = append(p.clusters, cluster)
			p.emit(Token{Op: OpComposing, N: len(p.clusters) - 1})
			return nil
		}
	}
	p.emit(Token{Op: OpChar, Rune: r})
	return nil
}

func (p *parser) trailingMarks() []rune {
	var marks []rune
	rest := p.lex.src[p.lex.pos:]
	n := 0
	for n < len(rest) && len(marks) < charclass.MaxComposing {
		r, size := utf8.DecodeRuneInString(rest[n:])
		if !charclass.IsComposing(r) {
			break
		}
		marks = append(marks, r)
		n += size
	}
	p.lex.advance(n)
	return marks
}

func (p *parser) newline() {
	if p.flags.MultiLine {
		p.hasNewline = true
		p.emitOp(OpNewline)
		return
	}
	p.emit(Token{Op: OpChar, Rune: '\n'})
}

// orNewline makes the fragment on top also accept a line break.
func (p *parser) orNewline() {
	p.hasNewline = true
	if p.flags.MultiLine {
		p.emitOp(OpNewline)
	} else {
		p.emit(Token{Op: OpChar, Rune: '\n'})
	}
	p.emitOp(OpOr)
}

// underscore handles \_x: \_^ and \_$ anywhere, \_[ and classes plus a
// line break.
func (p *parser) underscore(start int) error {
	c := p.lex.get()
	switch {
	case c.end:
		return p.errorAt(ErrUnexpectedEnd, start)
	case c.lit('^'):
		p.emitOp(OpBOL)
		return nil
	case c.lit('$'):
		p.emitOp(OpEOL)
		return nil
	case c.lit('['):
		return p.bracket(start, true)
	case c.lit('.'):
		p.emitOp(OpAny)
	default:
		k, ok := charclass.KindFromLetter(c.r)
		if !ok {
			return p.errorAt(ErrBadClass, start)
		}
		p.emit(Token{Op: OpClass, Class: k})
	}
	p.emitOp(OpNewline)
	p.emitOp(OpOr)
	p.hasNewline = true
	return nil
}

// lastSubstitute expands ~ to the literal text of the last substitution,
// wrapped as a non-capturing group.
func (p *parser) lastSubstitute(start int) error {
	if p.flags.LastSubstitute == nil {
		return p.errorAt(ErrNoPreviousSubstitute, start)
	}
	n := 0
	for _, r := range *p.flags.LastSubstitute {
		p.emit(Token{Op: OpChar, Rune: r})
		if n > 0 {
			p.emitOp(OpConcat)
		}
		n++
	}
	if n == 0 {
		p.emitOp(OpEmpty)
	}
	p.emitOp(OpNoCapture)
	return nil
}

func (p *parser) zItem(start int) error {
	c := p.lex.get()
	switch {
	case c.lit('s'), c.lit('e'):
		if c.r == 's' {
			p.emitOp(OpMatchStart)
		} else {
			p.hasZend = true
			p.emitOp(OpMatchEnd)
		}
		if multiType(p.lex.peek()) == multiMany {
			return p.errorHere(ErrMisplacedMulti)
		}
	case !c.end && c.r >= '1' && c.r <= '9':
		if p.flags.External != ExternalAllowUse {
			return p.errorAt(ErrExternalNotAllowed, start)
		}
		p.external = ExternalRefer
		p.emit(Token{Op: OpExtRef, N: int(c.r - '0')})
	case c.lit('('):
		if p.inOptional > 0 {
			return p.errorAt(ErrBadOptionalItem, start)
		}
		if p.flags.External != ExternalAllowDefine {
			return p.errorAt(ErrExternalNotAllowed, start)
		}
		if err := p.reg(parenExternal, start); err != nil {
			return err
		}
		p.external = ExternalDefine
	default:
		return p.errorAt(ErrBadExternal, start)
	}
	return nil
}

func (p *parser) percent(start int, startOfBranch bool) error {
	c := p.lex.get()
	if c.end {
		return p.errorAt(ErrBadPercent, start)
	}
	switch c.r {
	case '(':
		if p.inOptional > 0 {
			return p.errorAt(ErrBadOptionalItem, start)
		}
		if err := p.reg(parenNoCapture, start); err != nil {
			return err
		}
		p.emitOp(OpNoCapture)
		return nil
	case 'd', 'o', 'x', 'u', 'U':
		var nr int64
		switch c.r {
		case 'd':
			nr = p.lex.decimal()
		case 'o':
			nr = p.lex.octal()
		case 'x':
			nr = p.lex.hex(2)
		case 'u':
			nr = p.lex.hex(4)
		case 'U':
			nr = p.lex.hex(8)
		}
		if nr < 0 || nr > unicode.MaxRune {
			return p.errorAt(ErrBadNumericChar, start)
		}
		if nr == 0 {
			// NUL is stored in the text as NL.
			nr = '\n'
		}
		p.emit(Token{Op: OpChar, Rune: rune(nr)})
		return nil
	case '^':
		p.emitOp(OpBOF)
		return nil
	case '$':
		p.emitOp(OpEOF)
		return nil
	case '#':
		p.emitOp(OpCursor)
		return nil
	case 'V':
		p.emitOp(OpVisual)
		return nil
	case 'C':
		p.emitOp(OpAnyComposing)
		return nil
	case '[':
		return p.optionalSequence(start)
	}
	return p.positionTest(c, start, startOfBranch)
}

// optionalSequence parses \%[abc], a sequence of atoms that match as much
// of the sequence as possible.
func (p *parser) optionalSequence(start int) error {
	if p.inOptional > 0 {
		return p.errorAt(ErrBadOptionalItem, start)
	}
	p.inOptional++
	defer func() { p.inOptional-- }()

	n := 0
	for {
		c := p.lex.peek()
		if c.end {
			return p.errorAt(ErrUnterminatedOptional, start)
		}
		if !c.magic && c.r == ']' {
			break
		}
		if err := p.atom(); err != nil {
			return err
		}
		n++
	}
	p.lex.skip()
	if n == 0 {
		return p.errorAt(ErrEmptyOptional, start)
	}
	p.emit(Token{Op: OpOptChars, N: n})
	p.emitOp(OpNoCapture)
	return nil
}

// positionTest parses \%23l, \%<23c, \%>23v and \%'m, \%<'m, \%>'m. c is
// the character after \%.
func (p *parser) positionTest(c lexChar, start int, startOfBranch bool) error {
	cmp := CmpEqual
	switch {
	case c.lit('<'):
		cmp = CmpLess
		c = p.lex.get()
	case c.lit('>'):
		cmp = CmpGreater
		c = p.lex.get()
	}
	n := 0
	for !c.end && !c.magic && c.r >= '0' && c.r <= '9' {
		if n < math.MaxInt32/10 {
			n = n*10 + int(c.r-'0')
		}
		c = p.lex.get()
	}
	switch {
	case c.lit('l'):
		p.emit(Token{Op: OpLine, N: n, Cmp: cmp})
		if startOfBranch {
			p.lex.atStart = true
		}
		return nil
	case c.lit('c'):
		p.emit(Token{Op: OpColumn, N: n, Cmp: cmp})
		return nil
	case c.lit('v'):
		p.emit(Token{Op: OpVirtColumn, N: n, Cmp: cmp})
		return nil
	case c.lit('\'') && n == 0:
		m := p.lex.get()
		if m.end || !validMark(m.r) {
			return p.errorAt(ErrBadMark, start)
		}
		p.emit(Token{Op: OpMark, Rune: m.r, Cmp: cmp})
		return nil
	}
	return p.errorAt(ErrBadPercent, start)
}

func validMark(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '\'', '`', '[', ']', '<', '>', '"', '^', '.':
		return true
	}
	return false
}

// lookbehindFollows reports whether rest contains "@<=" or "@<!". A
// back reference may then name a group that is only closed later in the
// pattern, because the look-behind matches text before the reference.
func lookbehindFollows(rest string) bool {
	return strings.Contains(rest, "@<=") || strings.Contains(rest, "@<!")
}
