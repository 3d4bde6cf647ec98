package nfa

// Capture slots are laid out as [start0, end0, start1, end1, ...] for the
// normal groups followed by the same pairs for the \z( groups.

// capChunk is the allocation unit of a capArena, in slots.
const capChunk = 4096

// capArena hands out capture slices for the threads of one list. Slices
// stay valid until reset; growing never moves them.
type capArena struct {
	chunks [][]Pos
	cur    int
	off    int
}

// alloc returns a copy of src.
func (a *capArena) alloc(src []Pos) []Pos {
	n := len(src)
	for {
		if a.cur == len(a.chunks) {
			a.chunks = append(a.chunks, make([]Pos, max(capChunk, n)))
		}
		c := a.chunks[a.cur]
		if a.off+n <= len(c) {
			dst := c[a.off : a.off+n : a.off+n]
			a.off += n
			copy(dst, src)
			return dst
		}
		a.cur++
		a.off = 0
	}
}

func (a *capArena) reset() {
	a.cur = 0
	a.off = 0
}

// pimStatus is the state of a postponed look-around.
type pimStatus uint8

const (
	pimTodo pimStatus = iota
	pimMatch
	pimNoMatch
)

// pim is a postponed invisible match: a look-around that is checked only
// once what follows it may end the match. Threads copied from the one
// that postponed it share the pim, so it is run at most once.
type pim struct {
	state  StateID
	status pimStatus
	end    Pos   // where the look-around was reached
	snap   []Pos // thread captures at that point
	caps   []Pos // captures after a successful run
}

// pimEqual reports whether two threads wait on the same look-around.
func pimEqual(a, b *pim) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.state == b.state && a.end == b.end
}

func resetCaps(caps []Pos) {
	for i := range caps {
		caps[i] = unsetPos
	}
}

// mergeCaps copies into dst every slot past group 0 that the nested run
// changed relative to base.
func mergeCaps(dst, base, res []Pos) {
	for i := 2; i < len(res); i++ {
		if res[i] != base[i] {
			dst[i] = res[i]
		}
	}
}

// sameCaps compares the slots that tell two threads in the same state
// apart. Ends only matter for back-references; the \z( slots only when
// the pattern defines them.
func (c *MatchContext) sameCaps(a, b []Pos) bool {
	n := 2 * c.prog.groups
	for i := 0; i < n; i += 2 {
		if a[i] != b[i] {
			return false
		}
		if c.prog.hasBackref && a[i+1] != b[i+1] {
			return false
		}
	}
	if c.prog.extGroups > 1 {
		for i := n; i < len(a); i++ {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// hasStateWithPos reports whether l already holds a thread in state id
// with the same captures and postponed look-around.
func (c *MatchContext) hasStateWithPos(l *threadList, id StateID, caps []Pos, p *pim) bool {
	for i := range l.threads {
		t := &l.threads[i]
		if t.state == id && c.sameCaps(t.caps, caps) && pimEqual(t.pim, p) {
			return true
		}
	}
	return false
}
