package nfa

import (
	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/internal/conv"
	"github.com/coregx/vimre/syntax"
)

// edge names one outgoing pointer of a state: the state ID shifted left by
// one, with the low bit selecting out1.
type edge uint32

func outEdge(id StateID) edge  { return edge(id << 1) }
func out1Edge(id StateID) edge { return edge(id<<1 | 1) }

// patchList holds the dangling edges of a fragment.
type patchList []edge

// frag is a partially built automaton: its entry state and the edges that
// still have to be pointed at whatever follows.
type frag struct {
	start StateID
	out   patchList
}

// Builder constructs the state arena. The capacity is fixed up front by
// the counting pass; exceeding it is an internal error.
type Builder struct {
	states []State
}

// NewBuilder creates a builder for exactly capacity states.
func NewBuilder(capacity int) *Builder {
	return &Builder{states: make([]State, 0, capacity)}
}

// add appends s and returns its ID.
func (b *Builder) add(s State) StateID {
	if len(b.states) == cap(b.states) {
		panic(internalf(InvalidState, "state arena of %d exhausted", cap(b.states)))
	}
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, s)
	return id
}

// AddMatch adds the accepting state.
func (b *Builder) AddMatch() StateID {
	return b.add(State{kind: StateMatch, out: InvalidState, out1: InvalidState})
}

// AddSplit adds an epsilon fork preferring out. Either edge may be
// InvalidState and patched later.
func (b *Builder) AddSplit(out, out1 StateID) StateID {
	return b.add(State{kind: StateSplit, out: out, out1: out1})
}

// AddEpsilon adds an epsilon transition.
func (b *Builder) AddEpsilon() StateID {
	return b.add(State{kind: StateEpsilon, out: InvalidState, out1: InvalidState})
}

// AddChar adds a literal rune.
func (b *Builder) AddChar(r rune) StateID {
	return b.add(State{kind: StateChar, r: r, out: InvalidState, out1: InvalidState})
}

// AddClass adds a backslash class.
func (b *Builder) AddClass(k charclass.Kind) StateID {
	return b.add(State{kind: StateClass, class: k, out: InvalidState, out1: InvalidState})
}

// AddSet adds a collection.
func (b *Builder) AddSet(set *charclass.Set) StateID {
	return b.add(State{kind: StateSet, set: set, out: InvalidState, out1: InvalidState})
}

// AddComposing adds a base character with composing marks. A cluster
// whose first rune is itself a mark matches any character carrying the
// marks.
func (b *Builder) AddComposing(runes []rune) StateID {
	return b.add(State{kind: StateComposing, runes: runes, out: InvalidState, out1: InvalidState})
}

// AddKind adds a state that needs nothing but its kind: assertions,
// \zs, \ze, any character and line breaks.
func (b *Builder) AddKind(k StateKind) StateID {
	return b.add(State{kind: k, out: InvalidState, out1: InvalidState})
}

// AddGroup adds an open or close state for group n.
func (b *Builder) AddGroup(k StateKind, n int) StateID {
	return b.add(State{kind: k, val: n, out: InvalidState, out1: InvalidState})
}

// AddPosition adds a line, column or virtual column test.
func (b *Builder) AddPosition(k StateKind, n int, cmp syntax.Cmp) StateID {
	return b.add(State{kind: k, val: n, cmp: cmp, out: InvalidState, out1: InvalidState})
}

// AddMark adds a mark position test.
func (b *Builder) AddMark(name rune, cmp syntax.Cmp) StateID {
	return b.add(State{kind: StateMark, r: name, cmp: cmp, out: InvalidState, out1: InvalidState})
}

// AddLook adds a look-around start state. out is the inner fragment and
// out1 the end state; limit is the look-behind byte limit.
func (b *Builder) AddLook(k StateKind, inner, end StateID, limit int) StateID {
	return b.add(State{kind: k, out: inner, out1: end, val: limit})
}

// patch points every edge in l at target.
func (b *Builder) patch(l patchList, target StateID) {
	for _, e := range l {
		id := int(e >> 1)
		if id >= len(b.states) {
			panic(internalf(StateID(conv.IntToUint32(id)), "patch of unknown state"))
		}
		if e&1 == 0 {
			b.states[id].out = target
		} else {
			b.states[id].out1 = target
		}
	}
}

// Len returns the number of states added so far.
func (b *Builder) Len() int {
	return len(b.states)
}

// finish returns the arena. The builder must not be used afterwards.
func (b *Builder) finish() []State {
	s := b.states
	b.states = nil
	return s
}

func (b *Builder) state(id StateID) *State {
	return &b.states[id]
}
