package vimre

import (
	"strings"

	"github.com/coregx/vimre/nfa"
)

// TextSource is the text a pattern is matched against, one line at a
// time. Lines do not include their line break. A TextSource may also
// implement Cursor() (Pos, bool), Mark(rune) (Pos, bool) and
// Visual() (VisualArea, bool) for \%#, \%'m and \%V; MatchOptions can
// supply the same state for sources that do not.
type TextSource = nfa.Input

// VisualArea is the selected text for \%V.
type VisualArea = nfa.VisualArea

// VisualMode is the shape of a VisualArea.
type VisualMode = nfa.VisualMode

const (
	VisualChar  = nfa.VisualChar
	VisualLine  = nfa.VisualLine
	VisualBlock = nfa.VisualBlock
)

// Lines is a TextSource over a slice of lines.
type Lines []string

// SplitLines splits s at "\n" into Lines. A trailing line break does not
// start another line.
func SplitLines(s string) Lines {
	if s == "" {
		return Lines{""}
	}
	s = strings.TrimSuffix(s, "\n")
	return Lines(strings.Split(s, "\n"))
}

// Line returns line i.
func (l Lines) Line(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i], true
}

// LineCount returns the number of lines.
func (l Lines) LineCount() int { return len(l) }

// String is a TextSource of a single line.
type String string

// Line returns s for line 0.
func (s String) Line(i int) (string, bool) {
	if i != 0 {
		return "", false
	}
	return string(s), true
}

// LineCount returns 1.
func (s String) LineCount() int { return 1 }

// editorSource adds the editor state of MatchOptions to a TextSource.
// State missing from the options is taken from the source itself.
type editorSource struct {
	TextSource
	opts *MatchOptions
}

func withEditorState(src TextSource, opts *MatchOptions) TextSource {
	if opts.Cursor == nil && opts.Marks == nil && opts.Visual == nil {
		return src
	}
	return editorSource{TextSource: src, opts: opts}
}

func (e editorSource) Cursor() (Pos, bool) {
	if e.opts.Cursor != nil {
		return *e.opts.Cursor, true
	}
	if c, ok := e.TextSource.(nfa.CursorInput); ok {
		return c.Cursor()
	}
	return Pos{}, false
}

func (e editorSource) Mark(name rune) (Pos, bool) {
	if p, ok := e.opts.Marks[name]; ok {
		return p, true
	}
	if m, ok := e.TextSource.(nfa.MarkInput); ok {
		return m.Mark(name)
	}
	return Pos{}, false
}

func (e editorSource) Visual() (VisualArea, bool) {
	if e.opts.Visual != nil {
		return *e.opts.Visual, true
	}
	if v, ok := e.TextSource.(nfa.VisualInput); ok {
		return v.Visual()
	}
	return VisualArea{}, false
}
