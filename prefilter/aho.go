package prefilter

import (
	"strconv"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/literal"
)

// ahoPrefilter searches for several literals at once.
type ahoPrefilter struct {
	auto   *ahocorasick.Automaton
	count  int
	bytes  int
	prefix bool
}

func newAhoPrefilter(seq *literal.Seq, prefix bool) (*ahoPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	size := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i).Bytes
		builder.AddPattern(lit)
		size += len(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoPrefilter{auto: auto, count: seq.Len(), bytes: size, prefix: prefix}, nil
}

func (p *ahoPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	if !p.prefix {
		if p.auto.IsMatch(haystack[start:]) {
			return start
		}
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoPrefilter) IsPrefix() bool { return p.prefix }

// HeapBytes is an estimate: the automaton does not report its size.
func (p *ahoPrefilter) HeapBytes() int { return p.bytes * 8 }

func (p *ahoPrefilter) String() string {
	return "aho-corasick(" + strconv.Itoa(p.count) + " literals)"
}

// foldPrefilter answers containment under full case folding. Folding can
// change byte lengths, so it never reports columns.
type foldPrefilter struct {
	needles []string
}

func newFoldPrefilter(seq *literal.Seq) *foldPrefilter {
	needles := make([]string, seq.Len())
	for i := range needles {
		needles[i] = charclass.FoldString(string(seq.Get(i).Bytes))
	}
	return &foldPrefilter{needles: needles}
}

func (p *foldPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	line := charclass.FoldString(string(haystack[start:]))
	for _, n := range p.needles {
		if strings.Contains(line, n) {
			return start
		}
	}
	return -1
}

func (p *foldPrefilter) IsPrefix() bool { return false }

func (p *foldPrefilter) HeapBytes() int {
	n := 0
	for _, s := range p.needles {
		n += len(s)
	}
	return n
}

func (p *foldPrefilter) String() string {
	return "fold(" + strings.Join(p.needles, "|") + ")"
}
