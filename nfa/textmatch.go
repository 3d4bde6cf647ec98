package nfa

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/syntax"
)

// skipToStart returns the offset of the first r at or after col.
func skipToStart(text string, col int, r rune, ic bool) (int, bool) {
	for i := col; i < len(text); {
		c, n := utf8.DecodeRuneInString(text[i:])
		if c == r || ic && charclass.EqualFold(c, r) {
			return i, true
		}
		i += n
	}
	return 0, false
}

// matchTextAt checks the literal rest after the first rune at col. The
// match must not end in front of a composing mark.
func matchTextAt(text string, col int, rest string, ic bool) (int, bool) {
	_, n := utf8.DecodeRuneInString(text[col:])
	i := col + n
	for _, r := range rest {
		c, n := utf8.DecodeRuneInString(text[i:])
		if n == 0 || c != r && !(ic && charclass.EqualFold(c, r)) {
			return 0, false
		}
		i += n
	}
	if i < len(text) {
		if c, _ := utf8.DecodeRuneInString(text[i:]); charclass.IsComposing(c) {
			return 0, false
		}
	}
	return i, true
}

// matchPrefix reports whether text starts with pat and returns the bytes
// of text that matched. Under ignore-case the lengths may differ.
func matchPrefix(pat, text string, ic bool) (int, bool) {
	if !ic {
		if strings.HasPrefix(text, pat) {
			return len(pat), true
		}
		return 0, false
	}
	i := 0
	for _, r := range pat {
		c, n := utf8.DecodeRuneInString(text[i:])
		if n == 0 || c != r && !charclass.EqualFold(c, r) {
			return 0, false
		}
		i += n
	}
	return i, true
}

// matchBackref compares the text of group n with rest. A group that is
// unset matches the empty string; one that spans lines never matches.
// The parser rejects references to groups that do not exist.
func (c *MatchContext) matchBackref(caps []Pos, n int, rest string) (int, bool) {
	if n <= 0 || n >= c.prog.groups {
		panic(internalf(InvalidState, "back reference to group %d of %d", n, c.prog.groups))
	}
	start, end := caps[2*n], caps[2*n+1]
	if !start.IsSet() || !end.IsSet() {
		return 0, true
	}
	if start.Line != end.Line {
		return 0, false
	}
	if end.Col <= start.Col {
		return 0, true
	}
	src := c.line(start.Line)
	if end.Col > len(src) {
		return 0, false
	}
	return matchPrefix(src[start.Col:end.Col], rest, c.ic)
}

// matchExtRef compares external match n with rest. A missing one matches
// the empty string.
func (c *MatchContext) matchExtRef(n int, rest string) (int, bool) {
	if c.opts.External == nil {
		return 0, true
	}
	s, ok := c.opts.External.Get(n)
	if !ok || s == "" {
		return 0, true
	}
	return matchPrefix(s, rest, c.ic)
}

// matchComposing matches a pattern cluster against a text character with
// base and composing marks. A pattern starting with a mark ignores the
// base; \Z ignores the marks. Otherwise every mark of the pattern must be
// present, in any order.
func (c *MatchContext) matchComposing(pat []rune, base rune, marks string) bool {
	lone := charclass.IsComposing(pat[0])
	if !lone {
		if pat[0] != base && !(c.ic && charclass.EqualFold(pat[0], base)) {
			return false
		}
		if c.icombine {
			return true
		}
		pat = pat[1:]
	}
	for _, m := range pat {
		if !strings.ContainsRune(marks, m) {
			return false
		}
	}
	return true
}

func numCmp(val int, cmp syntax.Cmp, pos int) bool {
	switch cmp {
	case syntax.CmpGreater:
		return pos > val
	case syntax.CmpLess:
		return pos < val
	}
	return pos == val
}

func (c *MatchContext) atCursor(at Pos) bool {
	ci, ok := c.in.(CursorInput)
	if !ok {
		return false
	}
	cur, ok := ci.Cursor()
	return ok && cur == at
}

// matchMark compares the position of a mark with at.
func (c *MatchContext) matchMark(s *State, at Pos) bool {
	mi, ok := c.in.(MarkInput)
	if !ok {
		return false
	}
	m, ok := mi.Mark(s.r)
	if !ok || !m.IsSet() {
		return false
	}
	switch {
	case m == at:
		return s.cmp == syntax.CmpEqual
	case m.Less(at):
		return s.cmp == syntax.CmpGreater
	}
	return s.cmp == syntax.CmpLess
}

// inVisual reports whether at lies inside the Visual area.
func (c *MatchContext) inVisual(at Pos, text string) bool {
	vi, ok := c.in.(VisualInput)
	if !ok {
		return false
	}
	v, ok := vi.Visual()
	if !ok {
		return false
	}
	top, bot := v.Start, v.End
	if bot.Less(top) {
		top, bot = bot, top
	}
	if at.Line < top.Line || at.Line > bot.Line {
		return false
	}
	switch v.Mode {
	case VisualChar:
		last := bot.Col
		if !v.Exclusive {
			last++
		}
		if at.Line == top.Line && at.Col < top.Col || at.Line == bot.Line && at.Col >= last {
			return false
		}
	case VisualBlock:
		ts := c.opts.TabStop
		s1, e1 := vcolRange(c.line(top.Line), top.Col, ts)
		s2, e2 := vcolRange(c.line(bot.Line), bot.Col, ts)
		start, end := min(s1, s2), max(e1, e2)
		if v.ToEOL {
			end = math.MaxInt
		}
		if v.Exclusive {
			end--
		}
		cols := virtCol(text, at.Col, ts)
		if cols < start || cols > end {
			return false
		}
	}
	return true
}

// vcolRange returns the first and last screen column of the character at
// byte offset col.
func vcolRange(line string, col, tabStop int) (int, int) {
	if tabStop <= 0 {
		tabStop = defaultTabStop
	}
	start := virtCol(line, col, tabStop)
	if col >= len(line) {
		return start, start
	}
	r, _ := utf8.DecodeRuneInString(line[col:])
	return start, start + max(cellWidth(r, start, tabStop), 1) - 1
}
