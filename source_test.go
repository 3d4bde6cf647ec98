package vimre

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want Lines
	}{
		{"", Lines{""}},
		{"a", Lines{"a"}},
		{"a\nb", Lines{"a", "b"}},
		{"a\nb\n", Lines{"a", "b"}},
		{"a\n\nb", Lines{"a", "", "b"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitLines(tt.in)); diff != "" {
			t.Errorf("SplitLines(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestSources(t *testing.T) {
	l := Lines{"a", "b"}
	assert.Equal(t, l.LineCount(), 2)
	s, ok := l.Line(1)
	assert.Assert(t, ok)
	assert.Equal(t, s, "b")
	_, ok = l.Line(2)
	assert.Assert(t, !ok)

	str := String("abc")
	assert.Equal(t, str.LineCount(), 1)
	s, ok = str.Line(0)
	assert.Assert(t, ok)
	assert.Equal(t, s, "abc")
	_, ok = str.Line(1)
	assert.Assert(t, !ok)
}

// buffer is a source that knows its own cursor and marks.
type buffer struct {
	Lines
	cursor Pos
}

func (b buffer) Cursor() (Pos, bool) { return b.cursor, true }

func (b buffer) Mark(name rune) (Pos, bool) {
	if name == 'x' {
		return Pos{Line: 1, Col: 0}, true
	}
	return Pos{}, false
}

func TestEditorStateFromSource(t *testing.T) {
	src := buffer{Lines: Lines{"abc", "def"}, cursor: Pos{Line: 0, Col: 1}}

	res, err := MustCompile(`\%#.`).Search(src, 0, 0, nil)
	assert.NilError(t, err)
	assert.Equal(t, res.Span(), Span{Start: Pos{Col: 1}, End: Pos{Col: 2}})

	// Options take precedence; a mark missing from them falls back to
	// the source.
	opts := MatchOptions{
		Cursor: &Pos{Line: 1, Col: 2},
		Marks:  map[rune]Pos{'y': {Line: 0, Col: 2}},
	}
	res, err = MustCompile(`\%#.`).SearchWith(src, 0, 0, opts)
	assert.NilError(t, err)
	assert.Equal(t, res.Span(), Span{Start: Pos{Line: 1, Col: 2}, End: Pos{Line: 1, Col: 3}})

	res, err = MustCompile(`\%'x.`).SearchWith(src, 0, 0, opts)
	assert.NilError(t, err)
	assert.Equal(t, res.Span(), Span{Start: Pos{Line: 1}, End: Pos{Line: 1, Col: 1}})

	res, err = MustCompile(`\%'y.`).SearchWith(src, 0, 0, opts)
	assert.NilError(t, err)
	assert.Equal(t, res.Span(), Span{Start: Pos{Col: 2}, End: Pos{Col: 3}})
}

func TestResultText(t *testing.T) {
	src := Lines{"abc", "def", "ghi"}
	res := Result{
		Status: Matched,
		Captures: []Span{
			{Start: Pos{Line: 0, Col: 1}, End: Pos{Line: 2, Col: 1}},
			{Start: Pos{Line: -1, Col: -1}, End: Pos{Line: -1, Col: -1}},
			{Start: Pos{Line: 1, Col: 1}, End: Pos{Line: 1, Col: 3}},
		},
	}
	s, ok := res.Text(src, 0)
	assert.Assert(t, ok)
	assert.Equal(t, s, "bc\ndef\ng")

	_, ok = res.Text(src, 1)
	assert.Assert(t, !ok)
	_, ok = res.Text(src, 5)
	assert.Assert(t, !ok)

	s, _ = res.Text(src, 2)
	assert.Equal(t, s, "ef")

	assert.Assert(t, !Result{}.Span().Valid())
}
