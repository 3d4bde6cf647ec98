package nfa

import (
	"github.com/coregx/vimre/charclass"
)

// lookaround runs the fragment of the look-around or atomic state id one
// level deeper, starting from the captures in base at position at, and
// reports whether the assertion holds. For a positive assertion that
// holds, res holds the captures of the nested match; it is only valid
// until the next nested run at the same depth.
//
// Past MaxLookDepth the assertion fails and the outcome is marked
// degraded.
func (c *MatchContext) lookaround(depth int, id StateID, base []Pos, at Pos) (holds bool, res []Pos) {
	s := &c.prog.states[id]
	if depth+1 > c.maxDepth {
		c.degraded = true
		return false, nil
	}

	f := c.frame(depth + 1)
	copy(f.init, base)
	f.init[0], f.init[1] = unsetPos, unsetPos

	start := at
	var endp *Pos
	if s.kind.isBehind() {
		end := at
		endp = &end
		start = c.rewind(at, s.val)
	}

	_, matched := c.regmatch(depth+1, s.out, start, endp)
	if c.stopped() {
		return false, nil
	}
	neg := s.kind.isNegative()
	if matched == neg {
		return false, nil
	}
	if neg {
		return true, nil
	}
	return true, f.result
}

// rewind returns where a look-behind starts looking: limit bytes before
// at, or the start of the previous line when there is no limit. Without
// enough bytes on the line it continues from the end of the previous
// line in multi-line mode.
func (c *MatchContext) rewind(at Pos, limit int) Pos {
	multi := c.prog.multiLine
	if limit <= 0 {
		if multi && at.Line > 0 {
			return Pos{Line: at.Line - 1}
		}
		return Pos{Line: at.Line}
	}
	p := at
	if multi && p.Col < limit {
		if p.Line == 0 {
			return Pos{Line: 0}
		}
		p.Line--
		p.Col = len(c.line(p.Line))
	}
	if p.Col < limit {
		return Pos{Line: p.Line}
	}
	return Pos{Line: p.Line, Col: charclass.ClusterHead(c.line(p.Line), p.Col-limit)}
}
