package nfa

import (
	"github.com/coregx/vimre/syntax"
)

// MaxStates bounds the arena. Edges pack a state ID and one selector bit
// into 32 bits.
const MaxStates = 1 << 31

// Compile turns a postfix stream into a Program.
//
// The first pass counts the states every token needs, the second builds
// them into an arena of exactly that size. The analyzer then fills in the
// search hints and marks look-arounds that are tried first.
//
// A malformed stream (stack underflow, leftover fragments, or a count that
// differs between the passes) panics with *InternalError.
func Compile(p *syntax.Postfix) (*Program, error) {
	if p == nil || len(p.Tokens) == 0 {
		return nil, ErrEmptyPostfix
	}
	n := countStates(p.Tokens)
	if n > MaxStates {
		return nil, &ResourceError{Limit: LimitStates, Value: n}
	}

	c := &compiler{
		postfix: p,
		b:       NewBuilder(n),
		stack:   make([]frag, 0, 16),
	}
	start := c.build()
	if c.b.Len() != n {
		panic(internalf(InvalidState, "built %d states, counted %d", c.b.Len(), n))
	}
	states := c.b.finish()

	prog := &Program{
		pattern:       p.Pattern,
		states:        states,
		start:         start,
		groups:        p.Groups,
		extGroups:     p.ExtGroups,
		hasBackref:    p.HasBackref,
		hasZend:       p.HasZend,
		hasLookbehind: p.HasLookbehind,
		external:      p.External,
		multiLine:     p.MultiLine,
		ignoreCase:    p.IgnoreCase,
		noIgnoreCase:  p.NoIgnoreCase,
		icombine:      p.IgnoreCombining,
	}
	postprocess(states)
	prog.anchored = anchored(states, start, 0)
	prog.regstart = regStart(states, start, 0)
	prog.matchText, prog.hasMatchText = matchText(states, start)
	return prog, nil
}

// countStates is the first pass. It must agree with build token by token.
func countStates(tokens []syntax.Token) int {
	n := 0
	for _, t := range tokens {
		switch t.Op {
		case syntax.OpConcat:
		case syntax.OpOptChars:
			n += t.N
		case syntax.OpLookahead, syntax.OpNegLookahead,
			syntax.OpLookbehind, syntax.OpNegLookbehind:
			n += 2
		case syntax.OpAtomic:
			n += 4
		case syntax.OpGroup, syntax.OpExtGroup, syntax.OpNoCapture,
			syntax.OpBackref, syntax.OpExtRef:
			n += 2
		default:
			n++
		}
	}
	return n + 1
}

type compiler struct {
	postfix *syntax.Postfix
	b       *Builder
	stack   []frag
}

func (c *compiler) push(f frag) {
	c.stack = append(c.stack, f)
}

func (c *compiler) pop(t syntax.Token) frag {
	if len(c.stack) == 0 {
		panic(internalf(InvalidState, "fragment stack underflow at %s", t))
	}
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return f
}

// single pushes a one-state fragment whose out edge dangles.
func (c *compiler) single(id StateID) {
	c.push(frag{start: id, out: patchList{outEdge(id)}})
}

// build is the second pass. It returns the start state.
func (c *compiler) build() StateID {
	b := c.b
	for _, t := range c.postfix.Tokens {
		switch t.Op {
		case syntax.OpConcat:
			e2 := c.pop(t)
			e1 := c.pop(t)
			b.patch(e1.out, e2.start)
			c.push(frag{start: e1.start, out: e2.out})

		case syntax.OpOr:
			e2 := c.pop(t)
			e1 := c.pop(t)
			s := b.AddSplit(e1.start, e2.start)
			c.push(frag{start: s, out: append(e1.out, e2.out...)})

		case syntax.OpStar:
			e := c.pop(t)
			s := b.AddSplit(e.start, InvalidState)
			b.patch(e.out, s)
			c.push(frag{start: s, out: patchList{out1Edge(s)}})

		case syntax.OpStarLazy:
			e := c.pop(t)
			s := b.AddSplit(InvalidState, e.start)
			b.patch(e.out, s)
			c.push(frag{start: s, out: patchList{outEdge(s)}})

		case syntax.OpQuest:
			e := c.pop(t)
			s := b.AddSplit(e.start, InvalidState)
			c.push(frag{start: s, out: append(e.out, out1Edge(s))})

		case syntax.OpQuestLazy:
			e := c.pop(t)
			s := b.AddSplit(InvalidState, e.start)
			c.push(frag{start: s, out: append(e.out, outEdge(s))})

		case syntax.OpEmpty:
			c.single(b.AddEpsilon())

		case syntax.OpOptChars:
			c.optChars(t)

		case syntax.OpLookahead, syntax.OpNegLookahead,
			syntax.OpLookbehind, syntax.OpNegLookbehind:
			c.lookaround(t)

		case syntax.OpAtomic:
			e := c.pop(t)
			end := b.AddKind(StateAtomicEnd)
			s := b.AddLook(StateAtomicStart, e.start, end, 0)
			skip := b.AddKind(StateSkip)
			zend := b.AddKind(StateMatchEnd)
			b.state(zend).out = end
			b.state(end).out = skip
			b.patch(e.out, zend)
			c.push(frag{start: s, out: patchList{outEdge(skip)}})

		case syntax.OpGroup:
			c.group(t, StateOpen, StateClose)
		case syntax.OpExtGroup:
			c.group(t, StateExtOpen, StateExtClose)
		case syntax.OpNoCapture:
			c.group(t, StateEpsilon, StateEpsilon)

		case syntax.OpBackref, syntax.OpExtRef:
			k := StateBackref
			if t.Op == syntax.OpExtRef {
				k = StateExtRef
			}
			s := b.AddGroup(k, t.N)
			skip := b.AddKind(StateSkip)
			b.state(s).out = skip
			c.push(frag{start: s, out: patchList{outEdge(skip)}})

		case syntax.OpChar:
			c.single(b.AddChar(t.Rune))
		case syntax.OpClass:
			c.single(b.AddClass(t.Class))
		case syntax.OpCollection:
			c.single(b.AddSet(c.postfix.Sets[t.Set]))
		case syntax.OpComposing:
			c.single(b.AddComposing(c.postfix.Clusters[t.N]))

		case syntax.OpLine:
			c.single(b.AddPosition(StateLine, t.N, t.Cmp))
		case syntax.OpColumn:
			c.single(b.AddPosition(StateColumn, t.N, t.Cmp))
		case syntax.OpVirtColumn:
			c.single(b.AddPosition(StateVirtColumn, t.N, t.Cmp))
		case syntax.OpMark:
			c.single(b.AddMark(t.Rune, t.Cmp))

		default:
			k, ok := simpleKinds[t.Op]
			if !ok {
				panic(internalf(InvalidState, "unknown postfix token %s", t))
			}
			c.single(b.AddKind(k))
		}
	}

	e := c.pop(syntax.Token{})
	if len(c.stack) != 0 {
		panic(internalf(InvalidState, "%d fragments left on the stack", len(c.stack)))
	}
	m := b.AddMatch()
	b.patch(e.out, m)
	return e.start
}

var simpleKinds = map[syntax.Op]StateKind{
	syntax.OpAny:          StateAny,
	syntax.OpNewline:      StateNewline,
	syntax.OpBOL:          StateBOL,
	syntax.OpEOL:          StateEOL,
	syntax.OpBOW:          StateBOW,
	syntax.OpEOW:          StateEOW,
	syntax.OpBOF:          StateBOF,
	syntax.OpEOF:          StateEOF,
	syntax.OpCursor:       StateCursor,
	syntax.OpVisual:       StateVisual,
	syntax.OpMatchStart:   StateMatchStart,
	syntax.OpMatchEnd:     StateMatchEnd,
	syntax.OpAnyComposing: StateAnyComposing,
}

// group wraps the top fragment in an open and a close state. An empty
// stack stands for an empty group.
func (c *compiler) group(t syntax.Token, open, closing StateKind) {
	b := c.b
	if len(c.stack) == 0 {
		s := b.AddGroup(open, t.N)
		s1 := b.AddGroup(closing, t.N)
		b.state(s).out = s1
		c.single(s1)
		c.stack[len(c.stack)-1].start = s
		return
	}
	e := c.pop(t)
	s := b.AddGroup(open, t.N)
	s1 := b.AddGroup(closing, t.N)
	b.state(s).out = e.start
	b.patch(e.out, s1)
	c.push(frag{start: s, out: patchList{outEdge(s1)}})
}

// optChars builds \%[abc] as a chain of splits where each item may end
// the sequence:
//
//	split -> a -> split -> b -> split -> c -> next
//	  |            |            '-> next
//	  |            '-> next
//	  '-> next
//
// The items are popped last first.
func (c *compiler) optChars(t syntax.Token) {
	b := c.b
	var out patchList
	next := InvalidState
	s := InvalidState
	for i := 0; i < t.N; i++ {
		e := c.pop(t)
		s = b.AddSplit(e.start, InvalidState)
		if i == 0 {
			out = append(out, e.out...)
		} else {
			b.patch(e.out, next)
		}
		out = append(out, out1Edge(s))
		next = s
	}
	c.push(frag{start: s, out: out})
}

var lookKinds = map[syntax.Op][2]StateKind{
	syntax.OpLookahead:     {StateLookahead, StateLookEnd},
	syntax.OpNegLookahead:  {StateNegLookahead, StateLookEndNeg},
	syntax.OpLookbehind:    {StateLookbehind, StateLookEnd},
	syntax.OpNegLookbehind: {StateNegLookbehind, StateLookEndNeg},
}

// lookaround surrounds the top fragment with a look-around start and end.
// A look-behind without an explicit byte limit gets the estimated maximum
// width of its fragment, or 0 when that is unknown.
func (c *compiler) lookaround(t syntax.Token) {
	b := c.b
	kinds := lookKinds[t.Op]
	e := c.pop(t)
	end := b.AddKind(kinds[1])
	limit := 0
	if kinds[0].isBehind() {
		limit = t.N
	}
	s := b.AddLook(kinds[0], e.start, end, 0)
	b.patch(e.out, end)
	if kinds[0].isBehind() && limit <= 0 {
		limit = max(maxWidth(b.states, e.start, 0), 0)
	}
	b.state(s).val = limit
	c.push(frag{start: s, out: patchList{outEdge(end)}})
}
