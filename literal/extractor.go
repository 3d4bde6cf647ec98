package literal

import (
	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/syntax"
)

// ExtractorConfig configures literal extraction limits.
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternatives in a sequence. Longer
	// alternations are dropped. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal. Longer literals
	// are cut and stop being exact. Default: 64.
	MaxLiteralLen int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
	}
}

// Extractor extracts literal sequences from a postfix token stream.
//
// It evaluates the stream the way the NFA builder does, but every fragment
// yields facts about the text it consumes instead of states:
//   - exact: the fragment consumes one of these strings
//   - prefix, suffix: it starts or ends with one of these
//   - inner: one of these occurs somewhere in it
//
// Zero-width assertions consume the empty string; literals that were only
// found under an assertion are marked incomplete.
//
// Example:
//
//	p, _ := syntax.Parse(`\(foo\|bar\)baz`, syntax.Flags{})
//	e := literal.New(literal.DefaultConfig())
//	e.ExtractExact(p) // ["foobaz", "barbaz"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor. Zero limits take the defaults.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	return &Extractor{config: config}
}

// fragment holds what is known about one postfix fragment. nil means
// nothing is known.
type fragment struct {
	exact  *Seq
	prefix *Seq
	suffix *Seq
	inner  *Seq
}

// ExtractExact returns the strings a match run consumes from its start
// position, in priority order, or an empty Seq when that set is unknown,
// too large or holds the empty string. Every match starts where one of
// them occurs. Case folding is not applied.
func (e *Extractor) ExtractExact(p *syntax.Postfix) *Seq {
	f, ok := e.walk(p)
	if !ok || !usable(f.exact) {
		return NewSeq()
	}
	return f.exact
}

// ExtractInner returns literals one of which occurs in every match, or an
// empty Seq when there are none. The sequence is minimized.
func (e *Extractor) ExtractInner(p *syntax.Postfix) *Seq {
	f, ok := e.walk(p)
	if !ok || !usable(f.inner) {
		return NewSeq()
	}
	inner := f.inner.Clone()
	inner.Minimize()
	return inner
}

// walk evaluates the postfix stream. It reports false for a malformed
// stream.
func (e *Extractor) walk(p *syntax.Postfix) (fragment, bool) {
	if p == nil || len(p.Tokens) == 0 {
		return fragment{}, false
	}
	stack := make([]fragment, 0, 16)
	pop := func() (fragment, bool) {
		if len(stack) == 0 {
			return fragment{}, false
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, true
	}
	zeroWidth := func() fragment {
		return whole(NewSeq(NewLiteral(nil, false)))
	}

	for _, t := range p.Tokens {
		switch t.Op {
		case syntax.OpChar:
			stack = append(stack, e.literal(string(t.Rune)))

		case syntax.OpComposing:
			// The marks may come in any order; only the base is fixed.
			var f fragment
			if t.N < len(p.Clusters) {
				if base := p.Clusters[t.N][0]; !charclass.IsComposing(base) {
					b := NewSeq(NewLiteral([]byte(string(base)), false))
					f = fragment{prefix: b, inner: b}
				}
			}
			stack = append(stack, f)

		case syntax.OpEmpty:
			stack = append(stack, whole(NewSeq(NewLiteral(nil, true))))

		case syntax.OpConcat:
			b, ok1 := pop()
			a, ok2 := pop()
			if !ok1 || !ok2 {
				return fragment{}, false
			}
			stack = append(stack, e.concat(a, b))

		case syntax.OpOr:
			b, ok1 := pop()
			a, ok2 := pop()
			if !ok1 || !ok2 {
				return fragment{}, false
			}
			stack = append(stack, e.alternate(a, b))

		case syntax.OpStar, syntax.OpStarLazy, syntax.OpQuest, syntax.OpQuestLazy:
			if _, ok := pop(); !ok {
				return fragment{}, false
			}
			stack = append(stack, fragment{})

		case syntax.OpOptChars:
			for i := 0; i < t.N; i++ {
				if _, ok := pop(); !ok {
					return fragment{}, false
				}
			}
			stack = append(stack, fragment{})

		case syntax.OpGroup, syntax.OpExtGroup, syntax.OpNoCapture:
			if len(stack) == 0 {
				return fragment{}, false
			}

		case syntax.OpLookahead, syntax.OpLookbehind:
			// The asserted text is on the same line in single-line use,
			// so its literals are still required.
			f, ok := pop()
			if !ok {
				return fragment{}, false
			}
			z := zeroWidth()
			if usable(f.inner) {
				z.inner = f.inner
			}
			stack = append(stack, z)

		case syntax.OpNegLookahead, syntax.OpNegLookbehind:
			if _, ok := pop(); !ok {
				return fragment{}, false
			}
			stack = append(stack, zeroWidth())

		case syntax.OpAtomic:
			// An atomic group consumes a subset of what its content can.
			f, ok := pop()
			if !ok {
				return fragment{}, false
			}
			f.exact = incomplete(f.exact)
			stack = append(stack, f)

		case syntax.OpBOL, syntax.OpEOL, syntax.OpBOW, syntax.OpEOW,
			syntax.OpBOF, syntax.OpEOF, syntax.OpCursor, syntax.OpVisual,
			syntax.OpMatchStart, syntax.OpMatchEnd,
			syntax.OpLine, syntax.OpColumn, syntax.OpVirtColumn, syntax.OpMark:
			stack = append(stack, zeroWidth())

		default:
			// Classes, collections, any, line breaks, references and \%C.
			stack = append(stack, fragment{})
		}
	}
	if len(stack) != 1 {
		return fragment{}, false
	}
	return stack[0], true
}

// whole is the fragment that consumes exactly one of s.
func whole(s *Seq) fragment {
	return fragment{exact: s, prefix: s, suffix: s, inner: s}
}

func (e *Extractor) literal(s string) fragment {
	seq := NewSeq(NewLiteral([]byte(s), true))
	if len(s) > e.config.MaxLiteralLen {
		cut := seq.truncate(e.config.MaxLiteralLen)
		return fragment{prefix: cut, suffix: seq.truncateTail(e.config.MaxLiteralLen), inner: cut}
	}
	return whole(seq)
}

func (e *Extractor) concat(a, b fragment) fragment {
	maxLits, maxLen := e.config.MaxLiterals, e.config.MaxLiteralLen
	if a.exact != nil && b.exact != nil {
		if x := a.exact.cross(b.exact, maxLits); x != nil {
			if x.maxLen() <= maxLen {
				return whole(x)
			}
			head, tail := x.truncate(maxLen), x.truncateTail(maxLen)
			return fragment{prefix: head, suffix: tail, inner: head}
		}
	}

	var f fragment
	switch {
	case a.exact == nil:
		f.prefix = a.prefix
	case b.prefix != nil:
		f.prefix = capHead(a.exact.cross(b.prefix, maxLits), maxLen)
	default:
		f.prefix = incomplete(a.exact)
	}
	switch {
	case b.exact == nil:
		f.suffix = b.suffix
	case a.suffix != nil:
		f.suffix = capTail(a.suffix.cross(b.exact, maxLits), maxLen)
	default:
		f.suffix = incomplete(b.exact)
	}
	var mid *Seq
	if a.suffix != nil && b.prefix != nil {
		mid = capHead(a.suffix.cross(b.prefix, maxLits), maxLen)
	}
	f.inner = better(better(better(better(a.inner, b.inner), mid), f.prefix), f.suffix)
	return f
}

func (e *Extractor) alternate(a, b fragment) fragment {
	maxLits := e.config.MaxLiterals
	var f fragment
	if a.exact != nil && b.exact != nil {
		f.exact = a.exact.union(b.exact, maxLits)
	}
	if a.prefix != nil && b.prefix != nil {
		f.prefix = a.prefix.union(b.prefix, maxLits)
	}
	if a.suffix != nil && b.suffix != nil {
		f.suffix = a.suffix.union(b.suffix, maxLits)
	}
	if usable(a.inner) && usable(b.inner) {
		f.inner = a.inner.union(b.inner, maxLits)
	}
	return f
}

// capHead cuts the literals of s to their first n bytes.
func capHead(s *Seq, n int) *Seq {
	if s == nil || s.maxLen() <= n {
		return s
	}
	return s.truncate(n)
}

// capTail cuts the literals of s to their last n bytes.
func capTail(s *Seq, n int) *Seq {
	if s == nil || s.maxLen() <= n {
		return s
	}
	return s.truncateTail(n)
}

// incomplete returns s with every literal marked incomplete.
func incomplete(s *Seq) *Seq {
	if s == nil {
		return nil
	}
	out := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		out[i] = Literal{Bytes: lit.Bytes}
	}
	return &Seq{literals: out}
}

// usable reports whether s can reject a line: it is not empty and holds
// no empty literal.
func usable(s *Seq) bool {
	return !s.IsEmpty() && s.MinLen() > 0
}

// better picks the more selective of two inner sequences: the longer
// shortest literal wins, then the smaller set, then a.
func better(a, b *Seq) *Seq {
	switch {
	case !usable(b):
		if usable(a) {
			return a
		}
		return nil
	case !usable(a):
		return b
	}
	if la, lb := a.MinLen(), b.MinLen(); la != lb {
		if la > lb {
			return a
		}
		return b
	}
	if b.Len() < a.Len() {
		return b
	}
	return a
}
