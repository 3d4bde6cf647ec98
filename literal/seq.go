// Package literal extracts literal strings from a compiled pattern's postfix
// stream. The strings feed the line prefilters: a line that holds none of
// the required literals cannot hold a match.
//
// Key concepts:
//   - A Literal is a byte string that occurs in matches
//   - A Seq is a set of alternative literals (from \| alternations)
//   - An exact Seq lists every string a pattern can match; an inner Seq
//     lists strings one of which occurs in every match
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte string extracted from a pattern. Complete is set when
// the literal is a whole match rather than a part of one.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debug representation: literal{bytes, complete=bool}.
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals. A nil Seq is empty.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns literal i. Panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		n = min(n, len(lit.Bytes))
	}
	return n
}

// Strings returns the literals as strings, in order.
func (s *Seq) Strings() []string {
	if s.IsEmpty() {
		return nil
	}
	out := make([]string, len(s.literals))
	for i, lit := range s.literals {
		out[i] = string(lit.Bytes)
	}
	return out
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{Bytes: bytes.Clone(lit.Bytes), Complete: lit.Complete}
	}
	return &Seq{literals: cloned}
}

// Minimize drops every literal that has a shorter kept literal as its
// prefix: wherever the longer one occurs, the shorter one occurs at the
// same offset. Literals of equal length keep their relative order.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(current.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		prefix = commonPrefix(prefix, lit.Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}
	return bytes.Clone(prefix)
}

// cross returns every concatenation of a literal of s with one of t, in
// priority order, or nil when there would be more than maxLits.
func (s *Seq) cross(t *Seq, maxLits int) *Seq {
	if s.Len()*t.Len() > maxLits {
		return nil
	}
	out := make([]Literal, 0, s.Len()*t.Len())
	for _, a := range s.literals {
		for _, b := range t.literals {
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(append(joined, a.Bytes...), b.Bytes...)
			out = append(out, Literal{Bytes: joined, Complete: a.Complete && b.Complete})
		}
	}
	return &Seq{literals: out}
}

// union returns the literals of s followed by those of t, or nil when
// there would be more than maxLits.
func (s *Seq) union(t *Seq, maxLits int) *Seq {
	if s.Len()+t.Len() > maxLits {
		return nil
	}
	out := make([]Literal, 0, s.Len()+t.Len())
	out = append(out, s.literals...)
	out = append(out, t.literals...)
	return &Seq{literals: out}
}

// truncate cuts every literal to n bytes and marks it incomplete.
func (s *Seq) truncate(n int) *Seq {
	out := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		b := lit.Bytes
		if len(b) > n {
			b = b[:n]
		}
		out[i] = Literal{Bytes: b}
	}
	return &Seq{literals: out}
}

// truncateTail cuts every literal to its last n bytes and marks it
// incomplete.
func (s *Seq) truncateTail(n int) *Seq {
	out := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		b := lit.Bytes
		if len(b) > n {
			b = b[len(b)-n:]
		}
		out[i] = Literal{Bytes: b}
	}
	return &Seq{literals: out}
}

// maxLen returns the length of the longest literal.
func (s *Seq) maxLen() int {
	n := 0
	for _, lit := range s.literals {
		n = max(n, len(lit.Bytes))
	}
	return n
}

func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
