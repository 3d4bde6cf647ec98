package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var foregrounds = map[string]color.Attribute{
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
	"hiblack":   color.FgHiBlack,
	"hired":     color.FgHiRed,
	"higreen":   color.FgHiGreen,
	"hiyellow":  color.FgHiYellow,
	"hiblue":    color.FgHiBlue,
	"himagenta": color.FgHiMagenta,
	"hicyan":    color.FgHiCyan,
	"hiwhite":   color.FgHiWhite,
}

// bgOffset is the distance between a foreground code and the matching
// background code.
const bgOffset = color.BgBlack - color.FgBlack

// newColor builds a style from colour names. Empty names are left unset.
func newColor(g ColorGroup, enabled bool) (*color.Color, error) {
	c := color.New()
	if g.Foreground != "" {
		fg, ok := foregrounds[strings.ToLower(g.Foreground)]
		if !ok {
			return nil, fmt.Errorf("unknown color: %s", g.Foreground)
		}
		c.Add(fg)
	}
	if g.Background != "" {
		bg, ok := foregrounds[strings.ToLower(g.Background)]
		if !ok {
			return nil, fmt.Errorf("unknown color: %s", g.Background)
		}
		c.Add(bg + bgOffset)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c, nil
}

// highlighter paints matches and line prefixes.
type highlighter struct {
	match      *color.Color
	lineNumber *color.Color
	fileName   *color.Color
}

func newHighlighter(cfg ColorConfig, enabled bool) (*highlighter, error) {
	match, err := newColor(cfg.Match, enabled)
	if err != nil {
		return nil, err
	}
	lineNumber, err := newColor(cfg.LineNumber, enabled)
	if err != nil {
		return nil, err
	}
	fileName, err := newColor(cfg.FileName, enabled)
	if err != nil {
		return nil, err
	}
	return &highlighter{match: match, lineNumber: lineNumber, fileName: fileName}, nil
}

// render returns line with the byte ranges painted. Ranges are sorted and
// may be empty.
func (h *highlighter) render(line string, ranges [][2]int) string {
	var b strings.Builder
	last := 0
	for _, r := range ranges {
		start, end := max(r[0], last), min(r[1], len(line))
		if start >= end {
			continue
		}
		b.WriteString(line[last:start])
		b.WriteString(h.match.Sprint(line[start:end]))
		last = end
	}
	b.WriteString(line[last:])
	return b.String()
}

// displayColumn is the 1-based screen column of byte offset col.
func displayColumn(line string, col int) int {
	col = min(max(col, 0), len(line))
	return runewidth.StringWidth(line[:col]) + 1
}
