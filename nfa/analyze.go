package nfa

import (
	"unicode/utf8"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/syntax"
)

// maxClusterBytes is the longest byte sequence one character position can
// span: a base rune plus the composing marks kept with it.
const maxClusterBytes = utf8.UTFMax * (1 + charclass.MaxComposing)

// The walks below stop at a small depth. Splits inside loops would
// otherwise recurse forever.
const (
	analyzeDepth = 4
	followsDepth = 10
)

// anchored reports whether every path from id reaches a start-of-line or
// start-of-file assertion before consuming input.
func anchored(states []State, id StateID, depth int) bool {
	if depth > analyzeDepth {
		return false
	}
	for id != InvalidState {
		s := &states[id]
		switch s.kind {
		case StateBOL, StateBOF:
			return true
		case StateMatchStart, StateMatchEnd, StateCursor, StateVisual,
			StateOpen, StateExtOpen, StateEpsilon:
			id = s.out
		case StateSplit:
			return anchored(states, s.out, depth+1) && anchored(states, s.out1, depth+1)
		default:
			return false
		}
	}
	return false
}

// regStart returns the literal rune every match starts with, or 0.
func regStart(states []State, id StateID, depth int) rune {
	if depth > analyzeDepth {
		return 0
	}
	for id != InvalidState {
		s := &states[id]
		switch s.kind {
		case StateBOL, StateBOF, StateBOW, StateEOW, StateMatchStart, StateMatchEnd,
			StateCursor, StateVisual, StateLine, StateColumn, StateVirtColumn, StateMark,
			StateOpen, StateExtOpen, StateEpsilon:
			id = s.out
		case StateSplit:
			c1 := regStart(states, s.out, depth+1)
			c2 := regStart(states, s.out1, depth+1)
			if c1 == c2 {
				return c1
			}
			return 0
		case StateChar:
			return s.r
		default:
			return 0
		}
	}
	return 0
}

// matchText returns the literal text after the first rune when the whole
// program is group 0 around a run of plain characters.
func matchText(states []State, start StateID) (string, bool) {
	s := &states[start]
	if s.kind != StateOpen || s.val != 0 {
		return "", false
	}
	var runes []rune
	id := s.out
	for states[id].kind == StateChar {
		runes = append(runes, states[id].r)
		id = states[id].out
	}
	end := &states[id]
	if len(runes) == 0 || end.kind != StateClose || end.val != 0 ||
		states[end.out].kind != StateMatch {
		return "", false
	}
	return string(runes[1:]), true
}

// maxWidth estimates the most bytes the fragment starting at id can
// match before its look-around end. It returns -1 when there is no bound.
func maxWidth(states []State, id StateID, depth int) int {
	if depth > analyzeDepth {
		return -1
	}
	n := 0
	for id != InvalidState {
		s := &states[id]
		switch s.kind {
		case StateLookEnd, StateLookEndNeg:
			return n
		case StateSplit:
			l := maxWidth(states, s.out, depth+1)
			r := maxWidth(states, s.out1, depth+1)
			if l < 0 || r < 0 {
				return -1
			}
			return n + max(l, r)
		case StateAny, StateSet:
			n += maxClusterBytes
		case StateClass:
			if s.class.ASCIIOnly() {
				n++
			} else {
				n += utf8.UTFMax
			}
		case StateChar:
			n += utf8.RuneLen(s.r)
		case StateComposing:
			for _, r := range s.runes {
				n += utf8.RuneLen(r)
			}
		case StateLookahead, StateNegLookahead, StateLookbehind, StateNegLookbehind:
			id = states[s.out1].out
			continue
		case StateNewline, StateSkip, StateBackref, StateExtRef, StateAtomicStart,
			StateAnyComposing:
			return -1
		case StateMatch:
			return -1
		}
		id = s.out
	}
	return -1
}

// failureChance estimates how likely a thread in state id is to die at
// the next step, from 0 (always survives) to 99.
func failureChance(states []State, id StateID, depth int) int {
	if depth > analyzeDepth {
		return 1
	}
	s := &states[id]
	switch s.kind {
	case StateSplit:
		if states[s.out].kind == StateSplit || states[s.out1].kind == StateSplit {
			return 1
		}
		return min(failureChance(states, s.out, depth+1), failureChance(states, s.out1, depth+1))
	case StateAny:
		return 1
	case StateMatch, StateAnyComposing:
		return 0
	case StateClose:
		if s.val == 0 {
			return 0
		}
		return failureChance(states, s.out, depth+1)
	case StateLookahead, StateNegLookahead, StateLookbehind, StateNegLookbehind,
		StateAtomicStart:
		return 5
	case StateBOL, StateEOL, StateBOF, StateEOF, StateNewline:
		return 99
	case StateBOW, StateEOW:
		return 90
	case StateOpen, StateExtOpen, StateExtClose, StateEpsilon:
		return failureChance(states, s.out, depth+1)
	case StateBackref, StateExtRef:
		return 94
	case StateVisual:
		return 85
	case StateLine, StateColumn, StateVirtColumn, StateMark:
		switch {
		case s.cmp != syntax.CmpEqual:
			return 85
		case s.kind == StateLine:
			return 90
		}
		return 98
	case StateCursor:
		return 98
	case StateChar, StateComposing:
		return 95
	}
	return 50
}

// matchFollows reports whether state id can reach the end of the match
// (or of a look-around) without consuming input.
func matchFollows(states []State, id StateID, depth int) bool {
	if depth > followsDepth {
		return false
	}
	for id != InvalidState {
		s := &states[id]
		switch s.kind {
		case StateMatch, StateLookEnd, StateLookEndNeg, StateAtomicEnd:
			return true
		case StateClose:
			if s.val == 0 {
				return true
			}
		case StateSplit:
			return matchFollows(states, s.out, depth+1) || matchFollows(states, s.out1, depth+1)
		case StateLookahead, StateNegLookahead, StateLookbehind, StateNegLookbehind:
			id = states[s.out1].out
			continue
		case StateAny, StateClass, StateSet, StateNewline, StateChar, StateComposing:
			return false
		}
		id = s.out
	}
	return false
}

// postprocess decides for every look-around whether it is tried right away
// or postponed until what follows has matched. A look-around is tried first
// when the match may end right after it, or when it is more likely to fail
// than what follows. Unbounded look-behind is always postponed unless what
// follows cannot fail.
func postprocess(states []State) {
	for i := range states {
		s := &states[i]
		if !s.kind.isLookaround() {
			continue
		}
		follows := states[s.out1].out
		if matchFollows(states, follows, 0) {
			s.first = true
			continue
		}
		chInvisible := failureChance(states, s.out, 0)
		chFollows := failureChance(states, follows, 0)
		if s.kind.isBehind() {
			if s.val <= 0 && chFollows > 0 {
				s.first = false
			} else {
				s.first = chFollows*10 < chInvisible
			}
		} else {
			s.first = chFollows < chInvisible
		}
	}
}
