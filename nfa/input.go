package nfa

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Pos is a position in the text: a line index and a byte offset into that
// line. Line is -1 for an unset capture.
type Pos struct {
	Line int
	Col  int
}

// unsetPos marks a capture slot that was never written.
var unsetPos = Pos{Line: -1, Col: -1}

// IsSet reports whether p holds a position.
func (p Pos) IsSet() bool { return p.Line >= 0 }

// Less reports whether p comes before q.
func (p Pos) Less(q Pos) bool {
	return p.Line < q.Line || p.Line == q.Line && p.Col < q.Col
}

// Input is the text being matched, one line at a time. Lines do not
// contain their line break. Line is called with indexes in
// [0, LineCount()); the simulator treats the line after the last one as
// empty.
type Input interface {
	Line(i int) (string, bool)
	LineCount() int
}

// CursorInput is implemented by inputs that know the cursor position,
// used by \%#.
type CursorInput interface {
	Cursor() (Pos, bool)
}

// MarkInput is implemented by inputs with named marks, used by \%'m.
type MarkInput interface {
	Mark(name rune) (Pos, bool)
}

// VisualMode is the shape of a Visual area.
type VisualMode uint8

const (
	VisualChar VisualMode = iota
	VisualLine
	VisualBlock
)

// VisualArea describes the text selected in Visual mode.
type VisualArea struct {
	Start, End Pos
	Mode       VisualMode

	// Exclusive leaves out the character at End.
	Exclusive bool

	// ToEOL extends a block to the end of every line.
	ToEOL bool
}

// VisualInput is implemented by inputs with a Visual area, used by \%V.
type VisualInput interface {
	Visual() (VisualArea, bool)
}

// ExternalRefs supplies the text for \z1..\z9.
type ExternalRefs interface {
	Get(i int) (string, bool)
}

// Canceller is polled once per text position.
type Canceller interface {
	Cancelled() bool
}

// defaultTabStop is used when ExecOptions.TabStop is not positive.
const defaultTabStop = 8

// virtCol returns the screen column (0-based) at which byte offset col of
// line starts. Tabs advance to the next multiple of tabStop and control
// characters take two cells, as in ^A.
func virtCol(line string, col, tabStop int) int {
	if tabStop <= 0 {
		tabStop = defaultTabStop
	}
	v := 0
	for i := 0; i < col && i < len(line); {
		r, n := utf8.DecodeRuneInString(line[i:])
		v += cellWidth(r, v, tabStop)
		i += n
	}
	return v
}

// cellWidth returns the cells r takes when drawn at screen column v.
func cellWidth(r rune, v, tabStop int) int {
	switch {
	case r == '\t':
		return tabStop - v%tabStop
	case r < 0x20 || r == 0x7f:
		return 2
	}
	return runewidth.RuneWidth(r)
}
