// Package prefilter finds candidate lines and columns for a pattern before
// the NFA runs.
//
// A prefilter scans a line for the literals extracted by package literal.
// A line without a candidate cannot hold a match and is skipped. A
// candidate is never a match by itself: the caller always runs the NFA to
// verify it.
//
// The builder picks a searcher by the shape of the literal set:
//   - One single-byte literal: memchr
//   - One longer literal: memmem, anchored on its rarest byte
//   - Several literals: an Aho-Corasick automaton
//   - Ignore case: full case folding of the line, containment only
//
// Example usage:
//
//	p, _ := syntax.Parse(`\(hello\|world\)`, syntax.Flags{})
//	e := literal.New(literal.DefaultConfig())
//	pf := prefilter.NewBuilder(e.ExtractExact(p), e.ExtractInner(p), false).Build()
//
//	pos := pf.Find([]byte("foo hello bar"), 0)
//	// pos == 4, and pf.IsPrefix() is true: a match can only start there
package prefilter

import (
	"github.com/coregx/vimre/literal"
)

// Prefilter finds candidates in one line.
type Prefilter interface {
	// Find returns the first candidate at or after start, or -1 when the
	// rest of the line cannot hold a match.
	//
	// When IsPrefix reports true the result is a column where a match may
	// start, and no match starts between start and that column. Otherwise
	// the result is only a yes/no answer: any value >= 0 means "verify the
	// line from start".
	Find(haystack []byte, start int) int

	// IsPrefix reports whether Find returns match start columns.
	IsPrefix() bool

	// HeapBytes returns the heap memory used by the prefilter.
	HeapBytes() int

	// String names the searcher, for debug logging.
	String() string
}

// Builder selects a prefilter for a literal set.
type Builder struct {
	exact      *literal.Seq
	inner      *literal.Seq
	ignoreCase bool
}

// NewBuilder creates a builder. exact lists the strings every match starts
// with and inner lists strings one of which occurs in every match; either
// may be empty. With ignoreCase the prefilter folds case and only answers
// containment.
func NewBuilder(exact, inner *literal.Seq, ignoreCase bool) *Builder {
	return &Builder{exact: exact, inner: inner, ignoreCase: ignoreCase}
}

// Build returns the prefilter, or nil when the literals cannot reject
// anything.
func (b *Builder) Build() Prefilter {
	if b.ignoreCase {
		seq := b.inner
		if !usable(seq) {
			seq = b.exact
		}
		if !usable(seq) {
			return nil
		}
		return newFoldPrefilter(seq)
	}
	if usable(b.exact) {
		// Only match starts matter, so a literal with a kept prefix adds
		// nothing.
		seq := b.exact.Clone()
		seq.Minimize()
		return selectPrefilter(seq, true)
	}
	if usable(b.inner) {
		return selectPrefilter(b.inner, false)
	}
	return nil
}

func selectPrefilter(seq *literal.Seq, prefix bool) Prefilter {
	if seq.Len() == 1 {
		lit := seq.Get(0).Bytes
		if len(lit) == 1 {
			return &memchrPrefilter{needle: lit[0], prefix: prefix}
		}
		return newMemmemPrefilter(lit, prefix)
	}
	pf, err := newAhoPrefilter(seq, prefix)
	if err != nil {
		return nil
	}
	return pf
}

func usable(s *literal.Seq) bool {
	return !s.IsEmpty() && s.MinLen() > 0
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle byte
	prefix bool
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := memchr(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	if !p.prefix {
		return start
	}
	return start + i
}

func (p *memchrPrefilter) IsPrefix() bool { return p.prefix }
func (p *memchrPrefilter) HeapBytes() int { return 0 }
func (p *memchrPrefilter) String() string { return "memchr(" + string(p.needle) + ")" }

// memmemPrefilter searches for a single substring.
type memmemPrefilter struct {
	needle []byte
	rare   int
	prefix bool
}

func newMemmemPrefilter(needle []byte, prefix bool) *memmemPrefilter {
	return &memmemPrefilter{needle: needle, rare: rareByte(needle), prefix: prefix}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := memmem(haystack[start:], p.needle, p.rare)
	if i < 0 {
		return -1
	}
	if !p.prefix {
		return start
	}
	return start + i
}

func (p *memmemPrefilter) IsPrefix() bool { return p.prefix }
func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }
func (p *memmemPrefilter) String() string { return "memmem(" + string(p.needle) + ")" }
