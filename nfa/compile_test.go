package nfa

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/vimre/syntax"
)

func mustCompile(t *testing.T, pattern string, flags syntax.Flags) *Program {
	t.Helper()
	p, err := syntax.Parse(pattern, flags)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	prog, err := Compile(p)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return prog
}

func TestCompileStateCount(t *testing.T) {
	patterns := []string{
		"a",
		"abc",
		`a\|b\|c`,
		`a*b\+c\=`,
		`a\{-1,3}`,
		`\(a\)\(b\(c\)\)`,
		`\%(ab\)*`,
		`\(abc\)\1`,
		`foo\(bar\)\@=`,
		`\(foo\)\@<!bar`,
		`\(x\)\@3<=y`,
		`\(a*\)\@>b`,
		`fu\%[nction]`,
		`\<word\>`,
		`^\s*\d\+$`,
		`[a-z]\+\.`,
		`foo\zsbar\zebaz`,
		`\%3l\%>2c\%<5v`,
		`a\&b`,
		`\(\)`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			p, err := syntax.Parse(pattern, syntax.Flags{MultiLine: true})
			assert.NilError(t, err)
			prog, err := Compile(p)
			assert.NilError(t, err)
			assert.Equal(t, prog.States(), countStates(p.Tokens))
			assert.Equal(t, prog.State(prog.Start()).Kind(), StateOpen)

			matches := 0
			for i := 0; i < prog.States(); i++ {
				s := prog.State(StateID(i))
				if s.IsMatch() {
					matches++
					continue
				}
				if s.Out() == InvalidState {
					t.Errorf("state %d (%s) has an unpatched out edge", i, s)
				}
			}
			assert.Equal(t, matches, 1)
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	_, err := Compile(nil)
	assert.Assert(t, errors.Is(err, ErrEmptyPostfix))

	_, err = Compile(&syntax.Postfix{})
	assert.ErrorContains(t, err, "empty postfix")
}

func TestCompileMalformedPanics(t *testing.T) {
	tests := []struct {
		name   string
		tokens []syntax.Token
	}{
		{"underflow", []syntax.Token{{Op: syntax.OpConcat}}},
		{"leftover", []syntax.Token{{Op: syntax.OpChar, Rune: 'a'}, {Op: syntax.OpChar, Rune: 'b'}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(*InternalError)
				if !ok {
					t.Fatalf("recovered %v, want *InternalError", r)
				}
				assert.Assert(t, errors.Is(err, ErrInternal))
			}()
			_, _ = Compile(&syntax.Postfix{Tokens: tt.tokens, Groups: 1, ExtGroups: 1})
		})
	}
}

func TestAnalyzerHints(t *testing.T) {
	tests := []struct {
		pattern   string
		anchored  bool
		regstart  rune
		matchText string
		plain     bool
	}{
		{"abc", false, 'a', "bc", true},
		{"a", false, 'a', "", true},
		{"^abc", true, 'a', "", false},
		{`^a\|^b`, true, 0, "", false},
		{`\_^x`, true, 'x', "", false},
		{`a\|b`, false, 0, "", false},
		{`a\|ab`, false, 'a', "", false},
		{`\(a\)b`, false, 'a', "", false},
		{"x*", false, 0, "", false},
		{`\<foo`, false, 'f', "", false},
		{"[ab]c", false, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			prog := mustCompile(t, tt.pattern, syntax.Flags{})
			assert.Equal(t, prog.Anchored(), tt.anchored)
			assert.Equal(t, prog.RegStart(), tt.regstart)
			text, ok := prog.MatchText()
			assert.Equal(t, ok, tt.plain)
			assert.Equal(t, text, tt.matchText)
		})
	}
}

func findKind(prog *Program, k StateKind) *State {
	for i := 0; i < prog.States(); i++ {
		if s := prog.State(StateID(i)); s.Kind() == k {
			return s
		}
	}
	return nil
}

func TestPostprocess(t *testing.T) {
	tests := []struct {
		pattern string
		kind    StateKind
		first   bool
	}{
		// Nothing follows: checked right away.
		{`foo\(bar\)\@=`, StateLookahead, true},
		// A likely failing look-behind before equally likely text waits.
		{`\(foo\)\@<=bar`, StateLookbehind, false},
		{`\(foo\)\@<!bar`, StateNegLookbehind, false},
		// What follows cannot fail.
		{`\(foo\)\@<=.*`, StateLookbehind, true},
		{`\(x\)\@!y`, StateNegLookahead, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			prog := mustCompile(t, tt.pattern, syntax.Flags{})
			s := findKind(prog, tt.kind)
			assert.Assert(t, s != nil)
			assert.Equal(t, s.First(), tt.first)
		})
	}
}

func TestLookbehindLimit(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{`\(foo\)\@<=bar`, 3},
		{`\(x\)\@2<=y`, 2},
		{`\(a*\)\@<=b`, 0},
		{`\(é\)\@<=b`, 2},
		{`\(ab\|c\)\@<!d`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			prog := mustCompile(t, tt.pattern, syntax.Flags{})
			s := findKind(prog, StateLookbehind)
			if s == nil {
				s = findKind(prog, StateNegLookbehind)
			}
			assert.Assert(t, s != nil)
			assert.Equal(t, s.Val(), tt.want)
		})
	}
}

func TestProgramString(t *testing.T) {
	prog := mustCompile(t, `\(ab\)\1`, syntax.Flags{})
	dump := prog.String()
	for _, want := range []string{"> ", "Open 1", "Char 'a'", "Backref 1", "Skip", "Match"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
	assert.Equal(t, prog.Groups(), 2)
	assert.Assert(t, prog.HasBackref())
}
