package vimre

import "sync/atomic"

// ExternalMatch holds the text of the \z( groups of one match, for use by
// \z1..\z9 in a later match with another pattern. Syntax highlighting
// uses it to end a region with the word that started it.
//
// The strings are immutable. The reference count lets several holders
// share one ExternalMatch; after the last Release, Get reports nothing.
type ExternalMatch struct {
	refs  atomic.Int32
	texts [10]string
	set   [10]bool
}

// NewExternalMatch builds an ExternalMatch from explicit texts; texts[0]
// is \z1. The caller owns one reference.
func NewExternalMatch(texts ...string) *ExternalMatch {
	m := &ExternalMatch{}
	for i, s := range texts {
		if i+1 >= len(m.texts) {
			break
		}
		m.texts[i+1] = s
		m.set[i+1] = true
	}
	m.refs.Store(1)
	return m
}

func newExternalMatch(src TextSource, groups []Span) *ExternalMatch {
	m := &ExternalMatch{}
	for i := 1; i < len(groups) && i < len(m.texts); i++ {
		if groups[i].Valid() {
			m.texts[i] = spanText(src, groups[i])
			m.set[i] = true
		}
	}
	m.refs.Store(1)
	return m
}

// Retain adds a reference and returns m.
func (m *ExternalMatch) Retain() *ExternalMatch {
	m.refs.Add(1)
	return m
}

// Release drops a reference and returns how many are left.
func (m *ExternalMatch) Release() int {
	n := m.refs.Add(-1)
	if n < 0 {
		m.refs.Store(0)
		return 0
	}
	return int(n)
}

// Refs returns the current reference count.
func (m *ExternalMatch) Refs() int {
	return int(m.refs.Load())
}

// Get returns the text of \z(i). It reports false for an unset group, an
// index outside 1..9 and a released match.
func (m *ExternalMatch) Get(i int) (string, bool) {
	if m == nil || i < 1 || i >= len(m.texts) || m.refs.Load() <= 0 {
		return "", false
	}
	return m.texts[i], m.set[i]
}
