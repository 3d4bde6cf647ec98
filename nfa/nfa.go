package nfa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/syntax"
)

// StateID uniquely identifies an NFA state.
// It is an index into the Program's state arena.
type StateID uint32

// InvalidState marks an edge that has not been patched.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which fields are valid.
type StateKind uint8

const (
	// StateMatch is the accepting state.
	StateMatch StateKind = iota

	// StateSplit is an epsilon transition to out (preferred) and out1.
	StateSplit

	// StateEpsilon is an epsilon transition to out. Used for empty atoms
	// and the borders of non-capturing groups.
	StateEpsilon

	// StateOpen and StateClose record the start and end of capture group val.
	StateOpen
	StateClose

	// StateExtOpen and StateExtClose do the same for \z( group val.
	StateExtOpen
	StateExtClose

	// StateMatchStart (\zs) and StateMatchEnd (\ze) move the borders of
	// group 0.
	StateMatchStart
	StateMatchEnd

	// Character consumers.
	StateChar         // rune r
	StateClass        // backslash class
	StateSet          // collection
	StateComposing    // base plus composing marks, runes
	StateAny          // any character but end of line
	StateAnyComposing // \%C, zero-width
	StateNewline      // line break

	// StateBackref and StateExtRef match the text of group val. Their out
	// is a StateSkip that consumes the rest of a multi-byte match.
	StateBackref
	StateExtRef
	StateSkip

	// Look-around. out is the inner fragment, out1 the matching end state.
	// For look-behind val is the byte limit, 0 when unbounded.
	StateLookahead
	StateNegLookahead
	StateLookbehind
	StateNegLookbehind
	StateLookEnd
	StateLookEndNeg

	// StateAtomicStart runs its inner fragment once and skips over the
	// text it matched. out1 is the StateAtomicEnd.
	StateAtomicStart
	StateAtomicEnd

	// Zero-width assertions.
	StateBOL
	StateEOL
	StateBOW
	StateEOW
	StateBOF
	StateEOF
	StateCursor
	StateVisual

	// Position tests compare val (or mark r) with cmp.
	StateLine
	StateColumn
	StateVirtColumn
	StateMark
)

var kindNames = [...]string{
	StateMatch: "Match", StateSplit: "Split", StateEpsilon: "Epsilon",
	StateOpen: "Open", StateClose: "Close", StateExtOpen: "ExtOpen", StateExtClose: "ExtClose",
	StateMatchStart: "MatchStart", StateMatchEnd: "MatchEnd",
	StateChar: "Char", StateClass: "Class", StateSet: "Set", StateComposing: "Composing",
	StateAny: "Any", StateAnyComposing: "AnyComposing", StateNewline: "Newline",
	StateBackref: "Backref", StateExtRef: "ExtRef", StateSkip: "Skip",
	StateLookahead: "Lookahead", StateNegLookahead: "NegLookahead",
	StateLookbehind: "Lookbehind", StateNegLookbehind: "NegLookbehind",
	StateLookEnd: "LookEnd", StateLookEndNeg: "LookEndNeg",
	StateAtomicStart: "AtomicStart", StateAtomicEnd: "AtomicEnd",
	StateBOL: "BOL", StateEOL: "EOL", StateBOW: "BOW", StateEOW: "EOW",
	StateBOF: "BOF", StateEOF: "EOF", StateCursor: "Cursor", StateVisual: "Visual",
	StateLine: "Line", StateColumn: "Column", StateVirtColumn: "VirtColumn", StateMark: "Mark",
}

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// isLookaround reports whether k starts a look-around assertion.
func (k StateKind) isLookaround() bool {
	return k >= StateLookahead && k <= StateNegLookbehind
}

// isNegative reports whether a look-around of kind k succeeds when its
// inner fragment fails.
func (k StateKind) isNegative() bool {
	return k == StateNegLookahead || k == StateNegLookbehind
}

// isBehind reports whether a look-around of kind k must end at the
// current position.
func (k StateKind) isBehind() bool {
	return k == StateLookbehind || k == StateNegLookbehind
}

// State is a single NFA state. The kind decides which fields are valid.
type State struct {
	kind  StateKind
	out   StateID
	out1  StateID
	val   int
	r     rune
	cmp   syntax.Cmp
	class charclass.Kind
	set   *charclass.Set
	runes []rune

	// first is set on look-around states that are tried before what
	// follows them.
	first bool
}

// Kind returns the state's type
func (s *State) Kind() StateKind { return s.kind }

// Out returns the primary successor.
func (s *State) Out() StateID { return s.out }

// Out1 returns the secondary successor: the alternative of a split or the
// end state of a look-around or atomic group.
func (s *State) Out1() StateID { return s.out1 }

// Val returns the group index, byte limit or number of the state.
func (s *State) Val() int { return s.val }

// Rune returns the literal rune of a StateChar or the mark name of a StateMark.
func (s *State) Rune() rune { return s.r }

// Cmp returns the comparison of a position test.
func (s *State) Cmp() syntax.Cmp { return s.cmp }

// First reports whether a look-around is evaluated before what follows.
func (s *State) First() bool { return s.first }

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool { return s.kind == StateMatch }

func (s *State) String() string {
	var b strings.Builder
	b.WriteString(s.kind.String())
	switch s.kind {
	case StateChar:
		b.WriteString(" " + strconv.QuoteRune(s.r))
	case StateClass:
		b.WriteString(" " + s.class.String())
	case StateSet:
		b.WriteString(" " + s.set.String())
	case StateComposing:
		b.WriteString(" " + strconv.Quote(string(s.runes)))
	case StateOpen, StateClose, StateExtOpen, StateExtClose, StateBackref, StateExtRef:
		fmt.Fprintf(&b, " %d", s.val)
	case StateLookbehind, StateNegLookbehind:
		if s.val > 0 {
			fmt.Fprintf(&b, " %d", s.val)
		}
	case StateLine, StateColumn, StateVirtColumn:
		fmt.Fprintf(&b, " %s%d", s.cmp, s.val)
	case StateMark:
		fmt.Fprintf(&b, " %s'%c", s.cmp, s.r)
	}
	if s.first {
		b.WriteString(" first")
	}
	switch s.kind {
	case StateMatch:
	case StateSplit, StateLookahead, StateNegLookahead, StateLookbehind,
		StateNegLookbehind, StateAtomicStart:
		fmt.Fprintf(&b, " -> %d, %d", s.out, s.out1)
	default:
		fmt.Fprintf(&b, " -> %d", s.out)
	}
	return b.String()
}

// Program is a compiled pattern. It is immutable and safe for concurrent
// use; all per-match state lives in a MatchContext.
type Program struct {
	pattern string
	states  []State
	start   StateID

	groups    int
	extGroups int

	hasBackref    bool
	hasZend       bool
	hasLookbehind bool
	external      syntax.ExternalUse
	multiLine     bool

	// Inline flags from the pattern.
	ignoreCase   bool
	noIgnoreCase bool
	icombine     bool

	// Hints computed by the analyzer.
	anchored     bool
	regstart     rune
	matchText    string
	hasMatchText bool
}

// Pattern returns the source pattern.
func (p *Program) Pattern() string { return p.pattern }

// States returns the number of states.
func (p *Program) States() int { return len(p.states) }

// State returns the state with the given ID, or nil if it is out of range.
func (p *Program) State(id StateID) *State {
	if int(id) >= len(p.states) {
		return nil
	}
	return &p.states[id]
}

// Start returns the initial state, the opening of group 0.
func (p *Program) Start() StateID { return p.start }

// Groups returns the number of capture groups including group 0.
func (p *Program) Groups() int { return p.groups }

// ExtGroups returns the number of \z( slots including the unused slot 0.
func (p *Program) ExtGroups() int { return p.extGroups }

// HasBackref reports whether the pattern uses \1..\9.
func (p *Program) HasBackref() bool { return p.hasBackref }

// External reports how the pattern uses external matches.
func (p *Program) External() syntax.ExternalUse { return p.external }

// MultiLine reports whether \n in the pattern is a line break.
func (p *Program) MultiLine() bool { return p.multiLine }

// CaseOverride returns the case sensitivity forced by \c or \C. ok is
// false when the pattern has neither.
func (p *Program) CaseOverride() (ignore, ok bool) {
	switch {
	case p.ignoreCase:
		return true, true
	case p.noIgnoreCase:
		return false, true
	}
	return false, false
}

// IgnoreCombining reports whether the pattern contains \Z.
func (p *Program) IgnoreCombining() bool { return p.icombine }

// Anchored reports whether every match must start at the start of a line.
func (p *Program) Anchored() bool { return p.anchored }

// RegStart returns the rune every match starts with, or 0.
func (p *Program) RegStart() rune { return p.regstart }

// MatchText returns the literal text that follows RegStart when the whole
// pattern is a plain string.
func (p *Program) MatchText() (string, bool) { return p.matchText, p.hasMatchText }

// String dumps the states, one per line.
func (p *Program) String() string {
	var b strings.Builder
	for i := range p.states {
		mark := "  "
		if StateID(i) == p.start {
			mark = "> "
		}
		fmt.Fprintf(&b, "%s%d: %s\n", mark, i, p.states[i].String())
	}
	return b.String()
}
