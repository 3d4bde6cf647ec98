package vimre

import (
	"strings"

	"github.com/coregx/vimre/nfa"
)

// Pos is a position in a TextSource: a 0-based line index and a byte
// offset into that line. Line is -1 for a group that did not take part in
// the match.
type Pos = nfa.Pos

// Status tells whether a call matched, found nothing or was cancelled.
type Status = nfa.Status

const (
	NoMatch   = nfa.NoMatch
	Matched   = nfa.Matched
	Cancelled = nfa.Cancelled
)

// Span is the text between two positions. End is exclusive.
type Span struct {
	Start Pos
	End   Pos
}

// Valid reports whether the span was set by the match.
func (s Span) Valid() bool {
	return s.Start.IsSet() && s.End.IsSet()
}

// Result is the outcome of a match call.
type Result struct {
	Status Status

	// Captures holds group 0 (the whole match) followed by \1..\9. It is
	// nil unless Status is Matched.
	Captures []Span

	// External holds the \z( groups when the pattern defines any. The
	// caller owns one reference.
	External *ExternalMatch

	// Degraded is set when a look-around nested deeper than the
	// configured limit and was treated as failing.
	Degraded bool
}

// Matched reports whether the call found a match.
func (r Result) Matched() bool { return r.Status == Matched }

// Span returns the whole match.
func (r Result) Span() Span {
	if len(r.Captures) == 0 {
		return Span{Start: Pos{Line: -1, Col: -1}, End: Pos{Line: -1, Col: -1}}
	}
	return r.Captures[0]
}

// Text returns the text of group i in src. Lines of a span that covers a
// line break are joined with "\n".
func (r Result) Text(src TextSource, i int) (string, bool) {
	if i < 0 || i >= len(r.Captures) || !r.Captures[i].Valid() {
		return "", false
	}
	return spanText(src, r.Captures[i]), true
}

func newResult(out nfa.Outcome, src TextSource) Result {
	res := Result{Status: out.Status, Degraded: out.Degraded}
	if out.Status != nfa.Matched {
		return res
	}
	res.Captures = spans(out.Captures)
	if len(out.External) > 0 {
		res.External = newExternalMatch(src, spans(out.External))
	}
	return res
}

func spans(pos []nfa.Pos) []Span {
	out := make([]Span, len(pos)/2)
	for i := range out {
		out[i] = Span{Start: pos[2*i], End: pos[2*i+1]}
	}
	return out
}

// spanText extracts the text of sp. The line after the last one reads as
// empty.
func spanText(src TextSource, sp Span) string {
	line := func(i int) string {
		if i < 0 || i >= src.LineCount() {
			return ""
		}
		s, _ := src.Line(i)
		return s
	}
	clamp := func(s string, col int) int {
		return max(0, min(col, len(s)))
	}

	first := line(sp.Start.Line)
	if sp.End.Line == sp.Start.Line {
		lo, hi := clamp(first, sp.Start.Col), clamp(first, sp.End.Col)
		if hi < lo {
			return ""
		}
		return first[lo:hi]
	}
	var b strings.Builder
	b.WriteString(first[clamp(first, sp.Start.Col):])
	for l := sp.Start.Line + 1; l < sp.End.Line; l++ {
		b.WriteByte('\n')
		b.WriteString(line(l))
	}
	last := line(sp.End.Line)
	b.WriteByte('\n')
	b.WriteString(last[:clamp(last, sp.End.Col)])
	return b.String()
}
