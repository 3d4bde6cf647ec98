package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coregx/vimre"
	"github.com/coregx/vimre/meta"
	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func plainHighlighter(t *testing.T) *highlighter {
	t.Helper()
	hl, err := newHighlighter(NewDefaultConfig().Colors, false)
	assert.NilError(t, err)
	return hl
}

func newGrepper(t *testing.T, pattern string, config meta.Config, opts grepOptions) (*grepper, *bytes.Buffer) {
	t.Helper()
	re, err := vimre.CompileWithConfig(pattern, config)
	assert.NilError(t, err)
	var buf bytes.Buffer
	return &grepper{re: re, opts: opts, hl: plainHighlighter(t), w: &buf}, &buf
}

func TestGrep(t *testing.T) {
	multi := meta.DefaultConfig()
	multi.MultiLine = true

	tests := []struct {
		name    string
		pattern string
		config  meta.Config
		opts    grepOptions
		lines   []string
		want    string
		count   int
	}{
		{
			name:    "word",
			pattern: `\<foo\>`,
			config:  meta.DefaultConfig(),
			opts:    grepOptions{lineNumbers: true},
			lines:   []string{"a foo", "foobar", "bar foo baz"},
			want:    "1:a foo\n3:bar foo baz\n",
			count:   2,
		},
		{
			name:    "filename and column",
			pattern: `b\+`,
			config:  meta.DefaultConfig(),
			opts:    grepOptions{withFilename: true, column: true},
			lines:   []string{"aab", "ccc", "日本b"},
			want:    "f:3:aab\nf:5:日本b\n",
			count:   2,
		},
		{
			name:    "count",
			pattern: `x`,
			config:  meta.DefaultConfig(),
			opts:    grepOptions{count: true},
			lines:   []string{"x", "y", "xx"},
			want:    "2\n",
			count:   2,
		},
		{
			name:    "multiline",
			pattern: `b\nc`,
			config:  multi,
			opts:    grepOptions{lineNumbers: true},
			lines:   []string{"ab", "cd", "x"},
			want:    "1:ab\n2:cd\n",
			count:   2,
		},
		{
			name:    "empty matches",
			pattern: `x*`,
			config:  meta.DefaultConfig(),
			lines:   []string{"ab", ""},
			want:    "ab\n\n",
			count:   2,
		},
		{
			name:    "nfc",
			pattern: "caf\u00e9$",
			config:  meta.DefaultConfig(),
			opts:    grepOptions{normalize: true},
			lines:   []string{"cafe\u0301", "cafe"},
			want:    "caf\u00e9\n",
			count:   1,
		},
		{
			name:    "strip ansi",
			pattern: `^red plain$`,
			config:  meta.DefaultConfig(),
			opts:    grepOptions{stripANSI: true},
			lines:   []string{"\x1b[31mred\x1b[0m plain"},
			want:    "red plain\n",
			count:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, buf := newGrepper(t, tt.pattern, tt.config, tt.opts)
			n, err := g.grep("f", tt.lines)
			assert.NilError(t, err)
			assert.Equal(t, n, tt.count)
			assert.Equal(t, buf.String(), tt.want)
		})
	}
}

func TestFindRanges(t *testing.T) {
	multi := meta.DefaultConfig()
	multi.MultiLine = true
	g, _ := newGrepper(t, `o\+\|b\_.c`, multi, grepOptions{})

	found, err := g.find(vimre.Lines{"foo boo", "ab", "cd"})
	assert.NilError(t, err)

	want := map[int][][2]int{
		0: {{1, 3}, {5, 7}},
		1: {{1, 2}},
		2: {{0, 1}},
	}
	if diff := cmp.Diff(want, found.ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	assert.DeepEqual(t, found.order, []int{0, 1, 2})
}

func TestAdvance(t *testing.T) {
	src := vimre.Lines{"aé", ""}
	tests := []struct {
		at   vimre.Pos
		sp   vimre.Span
		want vimre.Pos
	}{
		{vimre.Pos{}, vimre.Span{Start: vimre.Pos{}, End: vimre.Pos{Col: 1}}, vimre.Pos{Col: 1}},
		{vimre.Pos{}, vimre.Span{Start: vimre.Pos{}, End: vimre.Pos{}}, vimre.Pos{Col: 1}},
		{vimre.Pos{Col: 1}, vimre.Span{Start: vimre.Pos{Col: 1}, End: vimre.Pos{Col: 1}}, vimre.Pos{Col: 3}},
		{vimre.Pos{Col: 3}, vimre.Span{Start: vimre.Pos{Col: 3}, End: vimre.Pos{Col: 3}}, vimre.Pos{Line: 1}},
		{vimre.Pos{Line: 1}, vimre.Span{Start: vimre.Pos{Line: 1}, End: vimre.Pos{Line: 1}}, vimre.Pos{Line: 2}},
	}
	for _, tt := range tests {
		if got := advance(src, tt.at, tt.sp); got != tt.want {
			t.Errorf("advance(%v, %v) = %v, want %v", tt.at, tt.sp, got, tt.want)
		}
	}
}

func TestGrepTimeout(t *testing.T) {
	g, _ := newGrepper(t, `\(\(a*\)*\)*\d`, meta.DefaultConfig(), grepOptions{timeout: time.Nanosecond})

	lines := make([]string, 5000)
	for i := range lines {
		lines[i] = strings.Repeat("a", 1000)
	}
	_, err := g.grep("slow", lines)
	assert.Assert(t, errors.Is(err, errTimeout))
	assert.Check(t, is.ErrorContains(err, "slow: search timed out"))
}

func TestRender(t *testing.T) {
	plain := plainHighlighter(t)
	assert.Equal(t, plain.render("a foo b", [][2]int{{2, 5}, {6, 6}}), "a foo b")

	cfg := NewDefaultConfig().Colors
	hl, err := newHighlighter(cfg, true)
	assert.NilError(t, err)
	got := hl.render("a foo b", [][2]int{{2, 5}})
	assert.Check(t, strings.HasPrefix(got, "a \x1b[31mfoo"), "got %q", got)
	assert.Check(t, strings.HasSuffix(got, "m b"), "got %q", got)
}

func TestNewColorUnknown(t *testing.T) {
	_, err := newColor(ColorGroup{Foreground: "mauve"}, true)
	assert.Check(t, is.ErrorContains(err, "unknown color: mauve"))

	_, err = newColor(ColorGroup{Foreground: "Red", Background: "hiblue"}, true)
	assert.NilError(t, err)
}

func TestDisplayColumn(t *testing.T) {
	assert.Equal(t, displayColumn("abc", 0), 1)
	assert.Equal(t, displayColumn("日本x", 6), 5)
	assert.Equal(t, displayColumn("ab", 10), 3)
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, stripANSI("\x1b[1;32mok\x1b[0m done"), "ok done")
	assert.Equal(t, stripANSI("plain"), "plain")
}

func TestReadInput(t *testing.T) {
	lines, err := readInput(strings.NewReader("a\r\nb\nc"))
	assert.NilError(t, err)
	assert.DeepEqual(t, lines, []string{"a", "b", "c"})
}

func TestColorEnabled(t *testing.T) {
	tests := []struct {
		mode string
		tty  bool
		want bool
	}{
		{"always", false, true},
		{"never", true, false},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		got, err := colorEnabled(tt.mode, tt.tty)
		assert.NilError(t, err)
		assert.Equal(t, got, tt.want, "mode %q tty %v", tt.mode, tt.tty)
	}
	_, err := colorEnabled("sometimes", true)
	assert.Check(t, is.ErrorContains(err, "unknown color mode"))
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	appDir = t.TempDir()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--color", "never"}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommand(t *testing.T) {
	out, err := runCommand(t, "Foo one\nbar\nfoo two\n", "-n", "-s", "foo")
	assert.NilError(t, err)
	assert.Equal(t, out, "1:Foo one\n3:foo two\n")

	out, err = runCommand(t, "Foo one\nbar\n", "-c", "-d", "very-magic", "(bar|baz)$")
	assert.NilError(t, err)
	assert.Equal(t, out, "1\n")

	out, err = runCommand(t, "cafe\u0301\n", "--nfc", "-c", "caf\u00e9")
	assert.NilError(t, err)
	assert.Equal(t, out, "1\n")

	out, err = runCommand(t, "a\nb\n", "-M", `a\nb`)
	assert.NilError(t, err)
	assert.Equal(t, out, "a\nb\n")
}

func TestCommandErrors(t *testing.T) {
	_, err := runCommand(t, "abc\n", "xyz")
	assert.Assert(t, errors.Is(err, errNoMatch))

	_, err = runCommand(t, "abc\n", `\(abc`)
	assert.Assert(t, errors.Is(err, vimre.ErrInvalidPattern))

	_, err = runCommand(t, "abc\n", "--color", "sometimes", "abc")
	assert.Check(t, is.ErrorContains(err, "unknown color mode"))
}
