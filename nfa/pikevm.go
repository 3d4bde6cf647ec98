package nfa

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/internal/conv"
	"github.com/coregx/vimre/internal/sparse"
	"github.com/coregx/vimre/syntax"
)

// Defaults for ExecOptions.
const (
	DefaultMaxLookDepth = 64
	DefaultMaxThreads   = 1 << 20
)

// listIDReset is the list id past which a reused context clears its
// stamps before the next call.
const listIDReset = math.MaxUint32 / 2

// ExecOptions are the per-call settings of PikeVM.Exec.
type ExecOptions struct {
	// Cancel is polled once per text position. May be nil.
	Cancel Canceller

	// External supplies \z1..\z9. May be nil, which makes them match
	// the empty string.
	External ExternalRefs

	// IgnoreCase is the case sensitivity when the pattern has neither
	// \c nor \C.
	IgnoreCase bool

	// Tables classify \i \k \f \p and words. nil means the defaults.
	Tables *charclass.Tables

	TabStop      int
	MaxLookDepth int
	MaxThreads   int

	// MaxCol stops trying new start positions at this byte offset of
	// the first line. 0 means no limit.
	MaxCol int
}

// Status is the outcome of one Exec call.
type Status uint8

const (
	NoMatch Status = iota
	Matched
	Cancelled
)

func (s Status) String() string {
	switch s {
	case NoMatch:
		return "NoMatch"
	case Matched:
		return "Matched"
	case Cancelled:
		return "Cancelled"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Outcome is the result of PikeVM.Exec.
type Outcome struct {
	Status Status

	// Captures holds a start and end position per group, group 0 first.
	// Unset groups have Line -1.
	Captures []Pos

	// External holds the \z( groups the same way when the pattern
	// defines any.
	External []Pos

	// Degraded is set when a look-around nested deeper than
	// MaxLookDepth and was treated as failing.
	Degraded bool
}

// thread is one path through the automaton.
type thread struct {
	state StateID
	caps  []Pos
	pim   *pim

	// count is the number of bytes a StateSkip still has to consume.
	count int
}

// threadList holds the threads of one text position in priority order.
type threadList struct {
	threads []thread
	id      uint32
	hasPIM  bool
	arena   capArena
}

func (l *threadList) reset() {
	l.threads = l.threads[:0]
	l.hasPIM = false
	l.arena.reset()
}

// frame is the state of one simulation level. Level 0 is the search
// itself; look-around and atomic groups run one level deeper.
type frame struct {
	lists  [2]threadList
	stamps *sparse.Stamps

	init    []Pos // captures the run starts from
	work    []Pos // scratch for addstate
	result  []Pos // captures of the match
	matched bool
}

// MatchContext holds all mutable state of a match. It can be reused for
// further calls on the same Program but must not be shared between
// goroutines.
type MatchContext struct {
	prog   *Program
	nslots int
	frames []*frame
	listID uint32
	added  []thread

	in         Input
	lineCount  int
	opts       ExecOptions
	tables     *charclass.Tables
	ic         bool
	icombine   bool
	maxDepth   int
	maxThreads int

	degraded  bool
	cancelled bool
	err       error
}

// NewMatchContext creates a context for prog.
func NewMatchContext(prog *Program) *MatchContext {
	c := &MatchContext{}
	c.Reset(prog)
	return c
}

// Reset binds the context to prog. Buffers are kept when prog is the
// program the context was used with before.
func (c *MatchContext) Reset(prog *Program) {
	if c.prog != prog {
		c.frames = c.frames[:0]
		c.listID = 0
	}
	c.prog = prog
	c.nslots = 2*prog.groups + 2*prog.extGroups
}

func (c *MatchContext) begin(in Input, opts ExecOptions) {
	c.in = in
	c.lineCount = in.LineCount()
	c.opts = opts
	c.tables = opts.Tables
	if c.tables == nil {
		c.tables = charclass.DefaultTables()
	}
	c.ic = opts.IgnoreCase
	if ic, ok := c.prog.CaseOverride(); ok {
		c.ic = ic
	}
	c.icombine = c.prog.icombine
	c.maxDepth = opts.MaxLookDepth
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxLookDepth
	}
	c.maxThreads = opts.MaxThreads
	if c.maxThreads <= 0 {
		c.maxThreads = DefaultMaxThreads
	}
	c.degraded, c.cancelled, c.err = false, false, nil
	if c.listID > listIDReset {
		for _, f := range c.frames {
			f.stamps.Reset()
		}
		c.listID = 0
	}
}

// end drops the references to the caller's input.
func (c *MatchContext) end() {
	c.in = nil
	c.opts = ExecOptions{}
}

func (c *MatchContext) frame(depth int) *frame {
	for len(c.frames) <= depth {
		c.frames = append(c.frames, &frame{
			stamps: sparse.NewStamps(len(c.prog.states)),
			init:   make([]Pos, c.nslots),
			work:   make([]Pos, c.nslots),
			result: make([]Pos, c.nslots),
		})
	}
	return c.frames[depth]
}

func (c *MatchContext) newID() uint32 {
	if c.listID == math.MaxUint32 {
		c.err = &ResourceError{Limit: LimitListID, Value: conv.Uint32ToInt(c.listID)}
		return c.listID
	}
	c.listID++
	return c.listID
}

func (c *MatchContext) stopped() bool {
	return c.err != nil || c.cancelled
}

// line returns line i of the input. The line after the last one and
// lines the input cannot supply are empty.
func (c *MatchContext) line(i int) string {
	if i < 0 || i >= c.lineCount {
		return ""
	}
	s, _ := c.in.Line(i)
	return s
}

// PikeVM executes a Program. It holds no mutable state and is safe for
// concurrent use as long as every goroutine passes its own MatchContext.
type PikeVM struct {
	prog *Program
}

// NewPikeVM creates a simulator for prog.
func NewPikeVM(prog *Program) *PikeVM {
	return &PikeVM{prog: prog}
}

// Program returns the program the simulator runs.
func (vm *PikeVM) Program() *Program { return vm.prog }

// NewContext creates a MatchContext for this simulator's program.
func (vm *PikeVM) NewContext() *MatchContext {
	return NewMatchContext(vm.prog)
}

// Exec tries to match at line, col of in and, failing that, at every
// later position of that line. A match may continue on following lines
// when the program is multi-line.
//
// A nil error with Status NoMatch or Cancelled is not a failure. The
// error is a *ResourceError when a thread list or the list ids run out.
func (vm *PikeVM) Exec(ctx *MatchContext, in Input, line, col int, opts ExecOptions) (Outcome, error) {
	prog := vm.prog
	ctx.Reset(prog)
	ctx.begin(in, opts)
	defer ctx.end()

	if line < 0 || line > ctx.lineCount || col < 0 {
		return Outcome{Status: NoMatch}, nil
	}
	text := ctx.line(line)
	if col > len(text) || prog.anchored && col > 0 {
		return Outcome{Status: NoMatch}, nil
	}
	if prog.regstart != 0 {
		var ok bool
		if col, ok = skipToStart(text, col, prog.regstart, ctx.ic); !ok {
			return Outcome{Status: NoMatch}, nil
		}
		if prog.hasMatchText && !ctx.icombine {
			return ctx.findMatchText(line, text, col), nil
		}
	}
	if opts.MaxCol > 0 && col >= opts.MaxCol {
		return Outcome{Status: NoMatch}, nil
	}

	f := ctx.frame(0)
	resetCaps(f.init)
	endPos, matched := ctx.regmatch(0, prog.start, Pos{Line: line, Col: col}, nil)
	switch {
	case ctx.err != nil:
		return Outcome{}, ctx.err
	case ctx.cancelled:
		return Outcome{Status: Cancelled, Degraded: ctx.degraded}, nil
	case !matched:
		return Outcome{Status: NoMatch, Degraded: ctx.degraded}, nil
	}

	res := f.result
	if !res[0].IsSet() {
		res[0] = Pos{Line: line, Col: col}
	}
	if !res[1].IsSet() {
		res[1] = endPos
	}
	if res[1].Less(res[0]) {
		res[1] = res[0]
	}
	n := 2 * prog.groups
	out := Outcome{
		Status:   Matched,
		Captures: append([]Pos(nil), res[:n]...),
		Degraded: ctx.degraded,
	}
	if prog.external == syntax.ExternalDefine {
		out.External = append([]Pos(nil), res[n:]...)
	}
	return out, nil
}

// findMatchText is the search for a pattern that is a plain string.
func (c *MatchContext) findMatchText(line int, text string, col int) Outcome {
	prog := c.prog
	for {
		if c.opts.MaxCol > 0 && col >= c.opts.MaxCol {
			return Outcome{Status: NoMatch}
		}
		if end, ok := matchTextAt(text, col, prog.matchText, c.ic); ok {
			caps := make([]Pos, 2*prog.groups)
			resetCaps(caps)
			caps[0] = Pos{Line: line, Col: col}
			caps[1] = Pos{Line: line, Col: end}
			return Outcome{Status: Matched, Captures: caps}
		}
		_, n := utf8.DecodeRuneInString(text[col:])
		var ok bool
		if col, ok = skipToStart(text, col+n, prog.regstart, c.ic); !ok {
			return Outcome{Status: NoMatch}
		}
	}
}

// regmatch runs the simulation at the given depth from pos, seeding
// threads with f.init. endp is set for look-behind, whose match must end
// there. It returns the position where the run stopped and whether a
// match was found; the captures of the match are in f.result.
func (c *MatchContext) regmatch(depth int, start StateID, pos Pos, endp *Pos) (Pos, bool) {
	prog := c.prog
	states := prog.states
	f := c.frame(depth)
	f.matched = false
	toplevel := depth == 0
	startLine := pos.Line

	this, next := &f.lists[0], &f.lists[1]
	this.reset()
	next.reset()
	this.id = c.newID()

	lnum, col := pos.Line, pos.Col
	text := c.line(lnum)

	copy(f.work, f.init)
	if toplevel {
		f.work[0] = pos
		c.addstate(f, this, states[start].out, f.work, nil, pos, -1)
	} else {
		c.addstate(f, this, start, f.work, nil, pos, -1)
	}

run:
	for !c.stopped() {
		if c.opts.Cancel != nil && c.opts.Cancel.Cancelled() {
			c.cancelled = true
			break
		}
		if len(this.threads) == 0 {
			break
		}
		here := Pos{Line: lnum, Col: col}
		if endp != nil && endp.Less(here) {
			break
		}

		curc, clen := charclass.DecodeCluster(text[col:])
		_, baseLen := utf8.DecodeRuneInString(text[col:])
		goNextLine := false

		next.reset()
		next.id = c.newID()

	threads:
		for i := 0; i < len(this.threads); i++ {
			t := this.threads[i]
			s := &states[t.state]
			addState := InvalidState
			addHere := false
			addCount := 0
			nextPos := Pos{Line: lnum, Col: col + clen}

			switch s.kind {
			case StateMatch:
				if !c.icombine && charclass.IsComposing(curc) {
					break
				}
				f.matched = true
				copy(f.result, t.caps)
				// Lower priority threads are dropped. When nothing is
				// left to extend the match, stop here.
				if len(next.threads) == 0 {
					clen = 0
				}
				break threads

			case StateLookEnd, StateLookEndNeg, StateAtomicEnd:
				if endp != nil && here != *endp {
					break
				}
				if s.kind != StateLookEndNeg {
					copy(f.result, t.caps)
				}
				f.matched = true
				if len(next.threads) == 0 {
					clen = 0
				}
				break threads

			case StateLookahead, StateNegLookahead, StateLookbehind, StateNegLookbehind:
				if t.pim != nil || s.first {
					holds, res := c.lookaround(depth, t.state, t.caps, here)
					if c.stopped() {
						break run
					}
					if !holds {
						break
					}
					if res != nil {
						copy(t.caps[2:], res[2:])
						if prog.hasZend && res[1].IsSet() {
							t.caps[1] = res[1]
						}
					}
					addHere = true
					addState = states[s.out1].out
				} else {
					p := &pim{
						state: t.state,
						end:   here,
						snap:  append([]Pos(nil), t.caps...),
					}
					copy(f.work, t.caps)
					c.addstateHere(f, this, states[s.out1].out, f.work, p, here, &i)
					if c.err != nil {
						break run
					}
				}

			case StateAtomicStart:
				skip := states[s.out1].out
				follow := states[skip].out
				if c.stateInList(f, next, skip, t.caps) ||
					c.stateInList(f, next, follow, t.caps) ||
					c.stateInList(f, this, follow, t.caps) {
					break
				}
				holds, res := c.lookaround(depth, t.state, t.caps, here)
				if c.stopped() {
					break run
				}
				if !holds {
					break
				}
				copy(t.caps[2:], res[2:])
				end := res[1]
				if end.Line != lnum || end.Col < col {
					break
				}
				switch n := end.Col - col; {
				case n == 0:
					addHere = true
					addState = follow
				case n <= clen:
					addState = follow
				default:
					addState = skip
					addCount = n - clen
				}

			case StateBOL:
				if col == 0 {
					addHere, addState = true, s.out
				}
			case StateEOL:
				if clen == 0 {
					addHere, addState = true, s.out
				}
			case StateBOW:
				if clen > 0 {
					cls := charclass.WordClass(curc, c.tables)
					if cls > 1 && c.prevClass(text, col) != cls {
						addHere, addState = true, s.out
					}
				}
			case StateEOW:
				if col > 0 {
					prev := c.prevClass(text, col)
					if charclass.WordClass(curc, c.tables) != prev && prev > 1 {
						addHere, addState = true, s.out
					}
				}
			case StateBOF:
				if lnum == 0 && col == 0 {
					addHere, addState = true, s.out
				}
			case StateEOF:
				if lnum == max(c.lineCount-1, 0) && clen == 0 {
					addHere, addState = true, s.out
				}
			case StateCursor:
				if c.atCursor(here) {
					addHere, addState = true, s.out
				}
			case StateVisual:
				if c.inVisual(here, text) {
					addHere, addState = true, s.out
				}
			case StateLine:
				if prog.multiLine && numCmp(s.val, s.cmp, lnum+1) {
					addHere, addState = true, s.out
				}
			case StateColumn:
				if numCmp(s.val, s.cmp, col+1) {
					addHere, addState = true, s.out
				}
			case StateVirtColumn:
				if numCmp(s.val, s.cmp, virtCol(text, col, c.opts.TabStop)+1) {
					addHere, addState = true, s.out
				}
			case StateMark:
				if c.matchMark(s, here) {
					addHere, addState = true, s.out
				}

			case StateNewline:
				if prog.multiLine {
					if clen == 0 && lnum < c.lineCount {
						goNextLine = true
						addState = s.out
						nextPos = Pos{Line: lnum + 1}
					}
				} else if curc == '\n' {
					addState = s.out
				}

			case StateChar:
				if clen > 0 && (s.r == curc || c.ic && charclass.EqualFold(s.r, curc)) &&
					(clen == baseLen || c.icombine || states[s.out].kind == StateAnyComposing) {
					addState = s.out
				}
			case StateClass:
				if clen > 0 && s.class.Matches(curc, c.tables) {
					addState = s.out
				}
			case StateSet:
				if clen > 0 && s.set.Matches(curc, c.ic, c.tables) {
					addState = s.out
				}
			case StateAny:
				if clen > 0 {
					addState = s.out
				}
			case StateComposing:
				if clen > 0 && c.matchComposing(s.runes, curc, text[col+baseLen:col+clen]) {
					addState = s.out
				}
			case StateAnyComposing:
				addState = s.out
				if clen == 0 || !charclass.IsComposing(curc) {
					addHere = true
				}

			case StateBackref, StateExtRef:
				var n int
				var ok bool
				if s.kind == StateBackref {
					n, ok = c.matchBackref(t.caps, s.val, text[col:])
				} else {
					n, ok = c.matchExtRef(s.val, text[col:])
				}
				if !ok {
					break
				}
				skip := s.out
				switch {
				case n == 0:
					addHere = true
					addState = states[skip].out
				case n <= clen:
					addState = states[skip].out
				default:
					addState = skip
					addCount = n - clen
				}

			case StateSkip:
				if t.count-clen <= 0 {
					addState = s.out
				} else {
					addState = t.state
					addCount = t.count - clen
				}
			}

			if addState == InvalidState {
				continue
			}

			p := t.pim
			if p != nil && (clen == 0 || matchFollows(states, addState, 0)) {
				if p.status == pimTodo {
					holds, res := c.lookaround(depth, p.state, p.snap, p.end)
					if c.stopped() {
						break run
					}
					p.status = pimNoMatch
					if holds {
						p.status = pimMatch
						if res != nil {
							p.caps = append([]Pos(nil), res...)
						}
					}
				}
				if p.status == pimNoMatch {
					continue
				}
				if p.caps != nil {
					mergeCaps(t.caps, p.snap, p.caps)
				}
				p = nil
			}

			copy(f.work, t.caps)
			if addHere {
				c.addstateHere(f, this, addState, f.work, p, here, &i)
			} else {
				c.addstate(f, next, addState, f.work, p, nextPos, -1)
				if addCount > 0 && c.err == nil {
					next.threads[len(next.threads)-1].count = addCount
				}
			}
			if c.err != nil {
				break run
			}
		}

		// Try a new match starting at the next position, unless one
		// was found already.
		if !f.matched && !c.stopped() {
			nextCol := col + clen
			switch {
			case toplevel && lnum == startLine && clen != 0 &&
				(c.opts.MaxCol == 0 || col < c.opts.MaxCol):
				add := true
				if prog.regstart != 0 {
					if len(next.threads) == 0 {
						found, ok := skipToStart(text, nextCol, prog.regstart, c.ic)
						if !ok {
							break run
						}
						col = found - clen
						nextCol = found
					} else {
						r, _ := utf8.DecodeRuneInString(text[nextCol:])
						add = r == prog.regstart || c.ic && charclass.EqualFold(r, prog.regstart)
					}
				}
				if add {
					at := Pos{Line: lnum, Col: nextCol}
					resetCaps(f.work)
					f.work[0] = at
					c.addstate(f, next, states[start].out, f.work, nil, at, -1)
				}
			case endp != nil && here.Less(*endp):
				at := Pos{Line: lnum, Col: nextCol}
				if clen == 0 && prog.multiLine && lnum < endp.Line {
					at = Pos{Line: lnum + 1}
				}
				copy(f.work, f.init)
				c.addstate(f, next, start, f.work, nil, at, -1)
			}
		}

		this, next = next, this
		switch {
		case clen != 0:
			col += clen
		case goNextLine || endp != nil && prog.multiLine && lnum < endp.Line:
			lnum++
			col = 0
			text = c.line(lnum)
		default:
			break run
		}
	}
	return Pos{Line: lnum, Col: col}, f.matched
}

// addstate adds state id to l, following every transition that does not
// consume input. caps is updated on the way and restored before
// returning. here is the index of the thread being processed when adding
// to the current list, or -1.
func (c *MatchContext) addstate(f *frame, l *threadList, id StateID, caps []Pos, p *pim, pos Pos, here int) {
	if c.err != nil {
		return
	}
	prog := c.prog
	s := &prog.states[id]

	switch {
	case s.kind == StateSplit, s.kind == StateClose, s.kind == StateExtClose,
		s.kind == StateMatchEnd, s.kind == StateOpen && s.val == 0:
		// Only their successors go into the list.
	case (s.kind == StateBOL || s.kind == StateBOF) && pos.Col > 0:
		return
	default:
		sid := uint32(id)
		if f.stamps.Marked(sid, l.id) && s.kind != StateSkip {
			if !prog.hasBackref && p == nil && !l.hasPIM && s.kind != StateMatch &&
				(here < 0 || inPrefix(l, id, here)) {
				return
			}
			if c.hasStateWithPos(l, id, caps, p) {
				return
			}
		}
		if len(l.threads) >= c.maxThreads {
			c.err = &ResourceError{Limit: LimitThreads, Value: c.maxThreads}
			return
		}
		f.stamps.Mark(sid, l.id)
		l.threads = append(l.threads, thread{state: id, caps: l.arena.alloc(caps), pim: p})
		if p != nil {
			l.hasPIM = true
		}
	}

	switch s.kind {
	case StateSplit:
		c.addstate(f, l, s.out, caps, p, pos, here)
		c.addstate(f, l, s.out1, caps, p, pos, here)
	case StateEpsilon:
		c.addstate(f, l, s.out, caps, p, pos, here)
	case StateOpen, StateExtOpen, StateMatchStart:
		i := c.startSlot(s)
		saveStart, saveEnd := caps[i], caps[i+1]
		caps[i], caps[i+1] = pos, unsetPos
		c.addstate(f, l, s.out, caps, p, pos, here)
		caps[i], caps[i+1] = saveStart, saveEnd
	case StateClose, StateExtClose, StateMatchEnd:
		if s.kind == StateClose && s.val == 0 && prog.hasZend && caps[1].IsSet() {
			// Keep the end set by \ze.
			c.addstate(f, l, s.out, caps, p, pos, here)
			return
		}
		i := c.startSlot(s) + 1
		save := caps[i]
		caps[i] = pos
		c.addstate(f, l, s.out, caps, p, pos, here)
		caps[i] = save
	}
}

// startSlot returns the capture slot of the group start s refers to.
func (c *MatchContext) startSlot(s *State) int {
	switch s.kind {
	case StateExtOpen, StateExtClose:
		return 2*c.prog.groups + 2*s.val
	case StateMatchStart, StateMatchEnd:
		return 0
	}
	return 2 * s.val
}

// inPrefix reports whether id is among the first n threads of l.
func inPrefix(l *threadList, id StateID, n int) bool {
	for k := 0; k < n && k < len(l.threads); k++ {
		if l.threads[k].state == id {
			return true
		}
	}
	return false
}

// addstateHere adds id to the current list in place of the thread at *ip,
// so the new threads are processed next with that thread's priority.
func (c *MatchContext) addstateHere(f *frame, l *threadList, id StateID, caps []Pos, p *pim, pos Pos, ip *int) {
	tlen := len(l.threads)
	idx := *ip
	c.addstate(f, l, id, caps, p, pos, idx)

	// The current thread was the last one: the new ones follow anyway.
	if idx+1 == tlen {
		return
	}
	n := len(l.threads)
	count := n - tlen
	switch {
	case count == 0:
		return
	case count == 1:
		l.threads[idx] = l.threads[n-1]
	default:
		c.added = append(c.added[:0], l.threads[tlen:]...)
		copy(l.threads[idx+count:], l.threads[idx+1:tlen])
		copy(l.threads[idx:], c.added)
	}
	l.threads = l.threads[:n-1]
	*ip = idx - 1
}

// stateInList reports whether a thread in state id with matching
// captures is already in l.
func (c *MatchContext) stateInList(f *frame, l *threadList, id StateID, caps []Pos) bool {
	if !f.stamps.Marked(uint32(id), l.id) {
		return false
	}
	return !c.prog.hasBackref || c.hasStateWithPos(l, id, caps, nil)
}

// prevClass returns the word class of the character before col, or -1 at
// the start of the line.
func (c *MatchContext) prevClass(text string, col int) int {
	if col == 0 {
		return -1
	}
	r, _ := charclass.PrevCluster(text, col)
	return charclass.WordClass(r, c.tables)
}
