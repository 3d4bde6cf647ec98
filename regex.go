// Package vimre is a regular expression engine for the Vim pattern
// dialect.
//
// Patterns are compiled to a Thompson NFA and run by a PikeVM that keeps
// one thread per NFA state, so matching never backtracks exponentially.
// Back-references, look-around and atomic groups are evaluated by bounded
// recursive sub-matches layered on top of the simulation.
//
// The engine supports the full Vim syntax:
//   - Four magic levels (\v \m \M \V), \c \C \Z
//   - Groups, \%( \), \{n,m} repeats with lazy forms, \%[] optional sequences
//   - \zs \ze, \@= \@! \@<= \@<! \@>, back-references \1..\9
//   - Buffer tests \%l \%c \%v \%'m \%# \%V and multi-line matching
//   - External groups \z( shared between patterns (syntax highlighting)
//
// Basic usage:
//
//	re := vimre.MustCompile(`\<\(\w\+\)\s\+\1\>`)
//	res, err := re.Match(vimre.String("it is is here"), 0, 0, nil)
//	if err == nil && res.Matched() {
//	    fmt.Println(res.Span()) // {{0 3} {0 8}}
//	}
//
// Text is addressed as lines. A TextSource supplies them; Lines and
// String adapt a slice and a single string. With Config.MultiLine a
// match may run across line breaks (\n, \_s and friends).
//
// The string helpers (MatchString, FindString, ReplaceAllString...) cover
// the common case of a single string. With MultiLine they split the
// string at "\n" and report byte offsets into the whole string.
package vimre

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/vimre/meta"
)

// Regex represents a compiled pattern.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := vimre.MustCompile(`hello`)
//	if re.MatchString("hello world") {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// MatchOptions are the per-call inputs of MatchWith and SearchWith.
type MatchOptions struct {
	// Cancel stops the match when cancelled. May be nil.
	Cancel *CancelToken

	// External supplies \z1..\z9 for patterns compiled with
	// syntax.ExternalAllowUse. May be nil, which makes them match the
	// empty string.
	External *ExternalMatch

	// Cursor, Marks and Visual supply editor state for \%#, \%'m and
	// \%V. They take precedence over state the TextSource provides.
	Cursor *Pos
	Marks  map[rune]Pos
	Visual *VisualArea

	// MaxCol stops trying start positions at this byte offset of the
	// first line. 0 means no limit.
	MaxCol int
}

func (o *MatchOptions) exec() meta.ExecOptions {
	var eo meta.ExecOptions
	if o.Cancel != nil {
		eo.Cancel = o.Cancel
	}
	if o.External != nil {
		eo.External = o.External
	}
	eo.MaxCol = o.MaxCol
	return eo
}

// Compile compiles a pattern with the default configuration.
//
// Example:
//
//	re, err := vimre.Compile(`\d\+`)
//	if err != nil {
//	    return err
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails.
//
// Example:
//
//	var wordRe = vimre.MustCompile(`\<\k\+\>`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("vimre: Compile(" + strconv.Quote(pattern) + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// An invalid configuration is reported as *meta.ConfigError. A pattern
// that cannot be compiled is reported as *CompileError.
//
// Example:
//
//	config := vimre.DefaultConfig()
//	config.CaseMode = meta.CaseSmart
//	config.MultiLine = true
//	re, err := vimre.CompileWithConfig(`foo\_s\+bar`, config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	engine, err := meta.Compile(pattern, config)
	if err != nil {
		var cfgErr *meta.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return &Regex{engine: engine, pattern: pattern}, nil
}

// DefaultConfig returns the default configuration: magic dialect,
// case-sensitive, single-line, prefilters enabled.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta escapes the characters that are special in the default magic
// dialect, so the result matches s literally.
func QuoteMeta(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(`\^$.*[~`, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// String returns the source pattern.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of capture groups, not counting the whole
// match.
func (r *Regex) NumSubexp() int {
	return r.engine.Program().Groups() - 1
}

// Strategy returns the search strategy chosen at compile time.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

// Stats returns the engine's execution statistics.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// Match finds the first match that starts on line at byte offset col or
// later on that line. With MultiLine the match may continue on the lines
// after it.
//
// Not finding a match and being cancelled are reported in Result.Status.
// The error is an *nfa.ResourceError when a limit is exceeded.
func (r *Regex) Match(src TextSource, line, col int, cancel *CancelToken) (Result, error) {
	return r.MatchWith(src, line, col, MatchOptions{Cancel: cancel})
}

// MatchWith is Match with external references and editor state.
func (r *Regex) MatchWith(src TextSource, line, col int, opts MatchOptions) (Result, error) {
	out, err := r.engine.Exec(withEditorState(src, &opts), line, col, opts.exec())
	if err != nil {
		return Result{}, err
	}
	return newResult(out, src), nil
}

// Search is Match that goes on with the following lines, each from its
// start, until a match is found or the source ends.
func (r *Regex) Search(src TextSource, line, col int, cancel *CancelToken) (Result, error) {
	return r.SearchWith(src, line, col, MatchOptions{Cancel: cancel})
}

// SearchWith is Search with external references and editor state.
func (r *Regex) SearchWith(src TextSource, line, col int, opts MatchOptions) (Result, error) {
	_, out, err := r.engine.Search(withEditorState(src, &opts), line, col, opts.exec())
	if err != nil {
		return Result{}, err
	}
	return newResult(out, src), nil
}

// text is a string prepared for the string helpers.
type text struct {
	s      string
	src    TextSource
	starts []int
}

func (r *Regex) text(s string) *text {
	if !r.engine.Config().MultiLine {
		return &text{s: s, src: String(s), starts: []int{0}}
	}
	lines := strings.Split(s, "\n")
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	return &text{s: s, src: Lines(lines), starts: starts}
}

// offset converts p to a byte offset into the string, or -1 when unset.
func (t *text) offset(p Pos) int {
	if !p.IsSet() {
		return -1
	}
	if p.Line >= len(t.starts) {
		return len(t.s)
	}
	return min(t.starts[p.Line]+p.Col, len(t.s))
}

// next returns the position one character after p, or false at the end.
func (t *text) next(p Pos) (Pos, bool) {
	line, _ := t.src.Line(p.Line)
	if p.Col < len(line) {
		_, size := utf8.DecodeRuneInString(line[p.Col:])
		return Pos{Line: p.Line, Col: p.Col + size}, true
	}
	if p.Line+1 >= t.src.LineCount() {
		return Pos{}, false
	}
	return Pos{Line: p.Line + 1}, true
}

// each calls fn for up to n successive non-overlapping matches; n < 0
// means all. An empty match right after the previous match is skipped. A
// resource error ends the iteration.
func (r *Regex) each(t *text, n int, fn func(Result)) {
	at := Pos{}
	prevEnd := Pos{Line: -1, Col: -1}
	for count := 0; n < 0 || count < n; {
		res, err := r.Search(t.src, at.Line, at.Col, nil)
		if err != nil || !res.Matched() {
			return
		}
		sp := res.Span()
		if sp.Start != sp.End || sp.End != prevEnd {
			fn(res)
			count++
			prevEnd = sp.End
		}
		next := sp.End
		if !at.Less(next) || sp.Start == sp.End {
			var ok bool
			if next, ok = t.next(later(at, sp.End)); !ok {
				return
			}
		}
		at = next
	}
}

func later(a, b Pos) Pos {
	if a.Less(b) {
		return b
	}
	return a
}

// submatches returns the byte offsets of every group, -1 for unset.
func (t *text) submatches(res Result) []int {
	idx := make([]int, 0, 2*len(res.Captures))
	for _, sp := range res.Captures {
		if !sp.Valid() {
			idx = append(idx, -1, -1)
			continue
		}
		idx = append(idx, t.offset(sp.Start), t.offset(sp.End))
	}
	return idx
}

// MatchString reports whether s contains a match. A resource error counts
// as no match.
func (r *Regex) MatchString(s string) bool {
	return r.IsMatchString(s)
}

// IsMatchString reports whether s contains a match.
func (r *Regex) IsMatchString(s string) bool {
	t := r.text(s)
	res, err := r.Search(t.src, 0, 0, nil)
	return err == nil && res.Matched()
}

// FindStringIndex returns the byte offsets of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	t := r.text(s)
	res, err := r.Search(t.src, 0, 0, nil)
	if err != nil || !res.Matched() {
		return nil
	}
	sp := res.Span()
	return []int{t.offset(sp.Start), t.offset(sp.End)}
}

// FindString returns the text of the first match, or "" when there is
// none.
func (r *Regex) FindString(s string) string {
	loc := r.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// FindStringSubmatchIndex returns the byte offsets of the first match and
// its groups, -1 for a group that did not take part.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	t := r.text(s)
	res, err := r.Search(t.src, 0, 0, nil)
	if err != nil || !res.Matched() {
		return nil
	}
	return t.submatches(res)
}

// FindStringSubmatch returns the text of the first match and its groups.
func (r *Regex) FindStringSubmatch(s string) []string {
	idx := r.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx)/2)
	for i := range out {
		if idx[2*i] >= 0 {
			out[i] = s[idx[2*i]:idx[2*i+1]]
		}
	}
	return out
}

// FindAllStringIndex returns the byte offsets of up to n successive
// matches; n < 0 returns all.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	t := r.text(s)
	var out [][]int
	r.each(t, n, func(res Result) {
		sp := res.Span()
		out = append(out, []int{t.offset(sp.Start), t.offset(sp.End)})
	})
	return out
}

// FindAllString returns the text of up to n successive matches.
func (r *Regex) FindAllString(s string, n int) []string {
	locs := r.FindAllStringIndex(s, n)
	if locs == nil {
		return nil
	}
	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = s[loc[0]:loc[1]]
	}
	return out
}

// ReplaceAllLiteralString replaces every match with repl, taken as is.
func (r *Regex) ReplaceAllLiteralString(src, repl string) string {
	return r.replaceAll(src, func(b *strings.Builder, _ []int) {
		b.WriteString(repl)
	})
}

// ReplaceAllString replaces every match with repl, expanded the way
// :substitute does: & and \0 insert the match, \1..\9 a group, \& a
// literal &, \n and \r a line break, \t a tab and \\ a backslash.
func (r *Regex) ReplaceAllString(src, repl string) string {
	return r.replaceAll(src, func(b *strings.Builder, idx []int) {
		expand(b, repl, src, idx)
	})
}

func (r *Regex) replaceAll(src string, fn func(*strings.Builder, []int)) string {
	t := r.text(src)
	var b strings.Builder
	last := 0
	r.each(t, -1, func(res Result) {
		idx := t.submatches(res)
		b.WriteString(src[last:idx[0]])
		fn(&b, idx)
		last = idx[1]
	})
	if last == 0 && b.Len() == 0 {
		return src
	}
	b.WriteString(src[last:])
	return b.String()
}

func expand(b *strings.Builder, repl, src string, idx []int) {
	group := func(n int) {
		if 2*n+1 < len(idx) && idx[2*n] >= 0 {
			b.WriteString(src[idx[2*n]:idx[2*n+1]])
		}
	}
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '&':
			group(0)
		case c == '\\' && i+1 < len(repl):
			i++
			switch d := repl[i]; {
			case d >= '0' && d <= '9':
				group(int(d - '0'))
			case d == 'n' || d == 'r':
				b.WriteByte('\n')
			case d == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(d)
			}
		default:
			b.WriteByte(c)
		}
	}
}
