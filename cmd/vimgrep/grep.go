package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coregx/vimre"
	"github.com/leaanthony/go-ansi-parser"
	"golang.org/x/text/unicode/norm"
)

var errTimeout = errors.New("search timed out")

type grepOptions struct {
	lineNumbers  bool
	column       bool
	count        bool
	withFilename bool
	stripANSI    bool
	normalize    bool
	timeout      time.Duration
}

type grepper struct {
	re   *vimre.Regex
	opts grepOptions
	hl   *highlighter
	w    io.Writer
}

// lineMatches holds the matched byte ranges of each line with a match.
type lineMatches struct {
	order  []int
	ranges map[int][][2]int
}

func (m *lineMatches) add(line, start, end int) {
	if _, ok := m.ranges[line]; !ok {
		m.order = append(m.order, line)
	}
	m.ranges[line] = append(m.ranges[line], [2]int{start, end})
}

// stripANSI removes escape sequences, keeping the text.
func stripANSI(line string) string {
	elements, err := ansi.Parse(line)
	if err != nil {
		return line
	}
	var b strings.Builder
	for _, element := range elements {
		b.WriteString(element.Label)
	}
	return b.String()
}

// find collects every match in src. A match that spans lines marks each
// line it covers.
func (g *grepper) find(src vimre.Lines) (*lineMatches, error) {
	var cancel *vimre.CancelToken
	if g.opts.timeout > 0 {
		var stop func()
		cancel, stop = vimre.WithTimeout(g.opts.timeout)
		defer stop()
	}

	found := &lineMatches{ranges: make(map[int][][2]int)}
	at := vimre.Pos{}
	for at.Line < len(src) {
		res, err := g.re.Search(src, at.Line, at.Col, cancel)
		if err != nil {
			return found, err
		}
		switch res.Status {
		case vimre.Cancelled:
			return found, errTimeout
		case vimre.NoMatch:
			return found, nil
		}
		if res.Degraded {
			slog.Debug("degraded match", "line", res.Span().Start.Line)
		}

		sp := res.Span()
		for l := sp.Start.Line; l <= sp.End.Line && l < len(src); l++ {
			start, end := 0, len(src[l])
			if l == sp.Start.Line {
				start = sp.Start.Col
			}
			if l == sp.End.Line {
				if l != sp.Start.Line && sp.End.Col == 0 {
					break
				}
				end = sp.End.Col
			}
			found.add(l, start, end)
		}
		at = advance(src, at, sp)
	}
	return found, nil
}

// advance returns where the next search starts. An empty match, or one
// that ends where the search started, moves on by one character.
func advance(src vimre.Lines, at vimre.Pos, sp vimre.Span) vimre.Pos {
	if sp.Start != sp.End && at.Less(sp.End) {
		return sp.End
	}
	p := sp.End
	if p.Less(at) {
		p = at
	}
	if p.Line >= len(src) {
		return vimre.Pos{Line: len(src)}
	}
	if line := src[p.Line]; p.Col < len(line) {
		_, size := utf8.DecodeRuneInString(line[p.Col:])
		return vimre.Pos{Line: p.Line, Col: p.Col + size}
	}
	return vimre.Pos{Line: p.Line + 1}
}

// grep searches lines and prints the result. It returns the number of
// lines with a match.
func (g *grepper) grep(name string, lines []string) (int, error) {
	for i, l := range lines {
		if g.opts.stripANSI {
			l = stripANSI(l)
		}
		if g.opts.normalize {
			l = norm.NFC.String(l)
		}
		lines[i] = l
	}
	src := vimre.Lines(lines)

	found, err := g.find(src)
	if err != nil {
		return len(found.order), fmt.Errorf("%s: %w", name, err)
	}

	if g.opts.count {
		if g.opts.withFilename {
			fmt.Fprintf(g.w, "%s:", g.hl.fileName.Sprint(name))
		}
		fmt.Fprintln(g.w, len(found.order))
		return len(found.order), nil
	}

	for _, l := range found.order {
		ranges := found.ranges[l]
		var prefix strings.Builder
		if g.opts.withFilename {
			prefix.WriteString(g.hl.fileName.Sprint(name))
			prefix.WriteByte(':')
		}
		if g.opts.lineNumbers {
			prefix.WriteString(g.hl.lineNumber.Sprint(strconv.Itoa(l + 1)))
			prefix.WriteByte(':')
		}
		if g.opts.column {
			prefix.WriteString(strconv.Itoa(displayColumn(src[l], ranges[0][0])))
			prefix.WriteByte(':')
		}
		fmt.Fprintf(g.w, "%s%s\n", prefix.String(), g.hl.render(src[l], ranges))
	}
	return len(found.order), nil
}
