package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/vimre/charclass"
)

func TestParsePostfix(t *testing.T) {
	multi := Flags{MultiLine: true}
	sub := "ab"
	tests := []struct {
		pattern string
		flags   Flags
		want    string
	}{
		{"ab", Flags{}, "'a' 'b' CONCAT GROUP0"},
		{`a\|b`, Flags{}, "'a' 'b' OR GROUP0"},
		{"a*", Flags{}, "'a' STAR GROUP0"},
		{"*a", Flags{}, "'*' 'a' CONCAT GROUP0"},
		{`a\*`, Flags{}, "'a' '*' CONCAT GROUP0"},
		{`a\+`, Flags{}, "'a' 'a' STAR CONCAT GROUP0"},
		{`a\=`, Flags{}, "'a' QUEST GROUP0"},
		{`a\?`, Flags{}, "'a' QUEST GROUP0"},
		{`a\{2,4}`, Flags{}, "'a' 'a' CONCAT 'a' QUEST CONCAT 'a' QUEST CONCAT GROUP0"},
		{`\va{2,4}`, Flags{}, "'a' 'a' CONCAT 'a' QUEST CONCAT 'a' QUEST CONCAT GROUP0"},
		{"a{2,4}", Flags{Magic: MagicAll}, "'a' 'a' CONCAT 'a' QUEST CONCAT 'a' QUEST CONCAT GROUP0"},
		{`a\{-1,}`, Flags{}, "'a' 'a' STAR_LAZY CONCAT GROUP0"},
		{`a\{-,2}`, Flags{}, "'a' QUEST_LAZY 'a' QUEST_LAZY CONCAT GROUP0"},
		{`a\{}`, Flags{}, "'a' STAR GROUP0"},
		{`a\{3}`, Flags{}, "'a' 'a' CONCAT 'a' CONCAT GROUP0"},
		{`a\{3\}`, Flags{}, "'a' 'a' CONCAT 'a' CONCAT GROUP0"},
		{`ab\{0}`, Flags{}, "'a' EMPTY CONCAT GROUP0"},
		{`\(a\)\(b\)`, Flags{}, "'a' GROUP1 'b' GROUP2 CONCAT GROUP0"},
		{`\(a\)\{2}`, Flags{}, "'a' GROUP1 'a' GROUP1 CONCAT GROUP0"},
		{`\(abc\)\1`, Flags{}, "'a' 'b' CONCAT 'c' CONCAT GROUP1 BACKREF1 CONCAT GROUP0"},
		{`\(\)`, Flags{}, "EMPTY GROUP1 GROUP0"},
		{`\%(a\)`, Flags{}, "'a' NOPEN GROUP0"},
		{`\(*a\)`, Flags{}, "'*' 'a' CONCAT GROUP1 GROUP0"},
		{`fo\(ba\)\@=`, Flags{}, "'f' 'o' CONCAT 'b' 'a' CONCAT GROUP1 LOOKAHEAD CONCAT GROUP0"},
		{`\(x\)\@!y`, Flags{}, "'x' GROUP1 NEG_LOOKAHEAD 'y' CONCAT GROUP0"},
		{`\(foo\)\@<!b`, Flags{}, "'f' 'o' CONCAT 'o' CONCAT GROUP1 NEG_LOOKBEHIND 'b' CONCAT GROUP0"},
		{`\(x\)\@2<=y`, Flags{}, "'x' GROUP1 LOOKBEHIND2 'y' CONCAT GROUP0"},
		{`a\@>`, Flags{}, "'a' ATOMIC GROUP0"},
		{`a\&b`, Flags{}, "'a' NOPEN LOOKAHEAD 'b' CONCAT GROUP0"},
		{`\&b`, Flags{}, "EMPTY NOPEN LOOKAHEAD 'b' CONCAT GROUP0"},
		{`a\|`, Flags{}, "'a' EMPTY OR GROUP0"},
		{"^abc", Flags{}, "BOL 'a' CONCAT 'b' CONCAT 'c' CONCAT GROUP0"},
		{"a^", Flags{}, "'a' '^' CONCAT GROUP0"},
		{"^*", Flags{}, "BOL '*' CONCAT GROUP0"},
		{"a$", Flags{}, "'a' EOL CONCAT GROUP0"},
		{"a$b", Flags{}, "'a' '$' CONCAT 'b' CONCAT GROUP0"},
		{`a$\|b`, Flags{}, "'a' EOL CONCAT 'b' OR GROUP0"},
		{`a\|^b`, Flags{}, "'a' BOL 'b' CONCAT OR GROUP0"},
		{`\_^a\_$`, Flags{}, "BOL 'a' CONCAT EOL CONCAT GROUP0"},
		{`\V.*`, Flags{}, "'.' '*' CONCAT GROUP0"},
		{`\V\^a\$`, Flags{}, "BOL 'a' CONCAT EOL CONCAT GROUP0"},
		{`\Ma*`, Flags{}, "'a' '*' CONCAT GROUP0"},
		{`\Ma\*`, Flags{}, "'a' STAR GROUP0"},
		{`\va|b`, Flags{}, "'a' 'b' OR GROUP0"},
		{`\v(a)`, Flags{}, "'a' GROUP1 GROUP0"},
		{`\v<ab>`, Flags{}, "BOW 'a' CONCAT 'b' CONCAT EOW CONCAT GROUP0"},
		{`\<a\>`, Flags{}, "BOW 'a' CONCAT EOW CONCAT GROUP0"},
		{".", Flags{}, "ANY GROUP0"},
		{`\.`, Flags{}, "'.' GROUP0"},
		{`\d\+`, Flags{}, `\d \d STAR CONCAT GROUP0`},
		{`\_s`, multi, `\s NEWL OR GROUP0`},
		{`\_.`, multi, "ANY NEWL OR GROUP0"},
		{`a\nb`, multi, "'a' NEWL CONCAT 'b' CONCAT GROUP0"},
		{`a\nb`, Flags{}, `'a' '\n' CONCAT 'b' CONCAT GROUP0`},
		{`\t\e`, Flags{}, `'\t' '\x1b' CONCAT GROUP0`},
		{"[abc]", Flags{}, "COLL0 GROUP0"},
		{`\_[ab]`, multi, "COLL0 NEWL OR GROUP0"},
		{`[a\n]`, multi, "COLL0 NEWL OR GROUP0"},
		{"[abc", Flags{}, "'[' 'a' CONCAT 'b' CONCAT 'c' CONCAT GROUP0"},
		{`\%[abc]`, Flags{}, "'a' 'b' 'c' OPT_CHARS3 NOPEN GROUP0"},
		{`\%23l`, Flags{}, "LNUM23 GROUP0"},
		{`\%<5c`, Flags{}, "COL<5 GROUP0"},
		{`\%>3v`, Flags{}, "VCOL>3 GROUP0"},
		{`\%'a`, Flags{}, "MARKa GROUP0"},
		{`\%<'m`, Flags{}, "MARK<m GROUP0"},
		{`\%^\%$\%#\%V\%C`, Flags{}, "BOF EOF CONCAT CURSOR CONCAT VISUAL CONCAT ANY_COMPOSING CONCAT GROUP0"},
		{`\zsfo\ze`, Flags{}, "ZSTART 'f' CONCAT 'o' CONCAT ZEND CONCAT GROUP0"},
		{`\%d65\%x42\%u20ac`, Flags{}, "'A' 'B' CONCAT '€' CONCAT GROUP0"},
		{`\%o101\%d0`, Flags{}, `'A' '\n' CONCAT GROUP0`},
		{"e\u0301x", Flags{}, "COMPOSING0 'x' CONCAT GROUP0"},
		{"~", Flags{LastSubstitute: &sub}, "'a' 'b' CONCAT NOPEN GROUP0"},
		{`\cfoo`, Flags{}, "'f' 'o' CONCAT 'o' CONCAT GROUP0"},
		{`\z(a\)`, Flags{External: ExternalAllowDefine}, "'a' ZGROUP1 GROUP0"},
		{`\z1`, Flags{External: ExternalAllowUse}, "ZREF1 GROUP0"},
		{`\v#`, Flags{}, "'#' GROUP0"},
		{`a\`, Flags{}, `'a' '\\' CONCAT GROUP0`},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := Parse(tt.pattern, tt.flags)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.pattern, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("Parse(%q)\n got: %s\nwant: %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseFacts(t *testing.T) {
	p, err := Parse(`\c\(a\)\(b\)\2\ze`, Flags{})
	assert.NilError(t, err)
	assert.Equal(t, p.Groups, 3)
	assert.Equal(t, p.ExtGroups, 1)
	assert.Check(t, p.IgnoreCase)
	assert.Check(t, p.HasBackref)
	assert.Check(t, p.HasZend)
	assert.Check(t, !p.HasLookbehind)

	p, err = Parse(`\C\Z\(x\)\@<=y$`, Flags{})
	assert.NilError(t, err)
	assert.Check(t, p.NoIgnoreCase)
	assert.Check(t, p.IgnoreCombining)
	assert.Check(t, p.HasLookbehind)

	p, err = Parse(`\z(a\)\z(b\)`, Flags{External: ExternalAllowDefine})
	assert.NilError(t, err)
	assert.Equal(t, p.ExtGroups, 3)
	assert.Equal(t, p.External, ExternalDefine)

	p, err = Parse(`a$\c`, Flags{})
	assert.NilError(t, err)
	assert.Equal(t, p.String(), "'a' EOL CONCAT GROUP0")
	assert.Check(t, p.IgnoreCase)

	p, err = Parse("e\u0301\u0302", Flags{})
	assert.NilError(t, err)
	assert.DeepEqual(t, p.Clusters, [][]rune{{'e', 0x301, 0x302}})
}

func TestParseCollections(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    *charclass.Set
	}{
		{`[a-c\]x[:digit:]]`, Flags{}, &charclass.Set{
			Runes:   []rune{'a', ']', 'x'},
			Ranges:  []charclass.Range{{Lo: 'a', Hi: 'c'}},
			Classes: []charclass.Posix{charclass.PosixDigit},
		}},
		{"[^-a]", Flags{}, &charclass.Set{Negated: true, Runes: []rune{'-', 'a'}}},
		{"[a-]", Flags{}, &charclass.Set{Runes: []rune{'a', '-'}}},
		{"[]a]", Flags{}, &charclass.Set{Runes: []rune{']', 'a'}}},
		{`[\d97\x62]`, Flags{}, &charclass.Set{Runes: []rune{'a', 'b'}}},
		{`[\xg]`, Flags{}, &charclass.Set{Runes: []rune{'\\', 'x', 'g'}}},
		{`[\t\\]`, Flags{}, &charclass.Set{Runes: []rune{'\t', '\\'}}},
		{`[\n]`, Flags{}, &charclass.Set{Runes: []rune{'\n'}}},
		{"[[.a.]-c]", Flags{}, &charclass.Set{Runes: []rune{'a'}, Ranges: []charclass.Range{{Lo: 'a', Hi: 'c'}}}},
		{"[a-ab]", Flags{}, &charclass.Set{Runes: []rune{'a', 'a', 'b'}}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := Parse(tt.pattern, tt.flags)
			assert.NilError(t, err)
			assert.Equal(t, len(p.Sets), 1)
			if diff := cmp.Diff(tt.want, p.Sets[0]); diff != "" {
				t.Errorf("set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEquivalenceClass(t *testing.T) {
	p, err := Parse("[[=e=]x]", Flags{})
	assert.NilError(t, err)
	set := p.Sets[0]
	assert.Check(t, set.Matches('\u00e9', false, nil))
	assert.Check(t, set.Matches('e', false, nil))
	assert.Check(t, set.Matches('x', false, nil))
	assert.Check(t, !set.Matches('a', false, nil))

	p, err = Parse("[[=o=]]", Flags{})
	assert.NilError(t, err)
	set = p.Sets[0]
	assert.Check(t, set.Matches('\u00f8', false, nil))
	assert.Check(t, set.Matches('\u01ff', false, nil))
	assert.Check(t, !set.Matches('O', false, nil))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		kind    ErrorKind
	}{
		{`\(a`, Flags{}, ErrUnmatchedOpen},
		{`a\)`, Flags{}, ErrUnmatchedClose},
		{"a**", Flags{}, ErrNestedMulti},
		{`a*\@=`, Flags{}, ErrNestedMulti},
		{`\+`, Flags{}, ErrMisplacedMulti},
		{`\v+`, Flags{}, ErrMisplacedMulti},
		{`\zs*`, Flags{}, ErrMisplacedMulti},
		{`a\{2`, Flags{}, ErrBadRepeat},
		{`a\{1001}`, Flags{}, ErrBadRepeat},
		{`a\@x`, Flags{}, ErrBadLookaround},
		{`\%[]`, Flags{}, ErrEmptyOptional},
		{`\%[abc`, Flags{}, ErrUnterminatedOptional},
		{`\%[\(a\)]`, Flags{}, ErrBadOptionalItem},
		{`\%[a\%[b]]`, Flags{}, ErrBadOptionalItem},
		{`\%xg`, Flags{}, ErrBadNumericChar},
		{`\%q`, Flags{}, ErrBadPercent},
		{`\%`, Flags{}, ErrBadPercent},
		{`\z1`, Flags{}, ErrExternalNotAllowed},
		{`\z(a\)`, Flags{External: ExternalAllowUse}, ErrExternalNotAllowed},
		{`\zq`, Flags{}, ErrBadExternal},
		{"~", Flags{}, ErrNoPreviousSubstitute},
		{"[z-a]", Flags{}, ErrBadRange},
		{"[abc", Flags{StrictBrackets: true}, ErrUnterminatedCollection},
		{strings.Repeat(`\(a\)`, 10), Flags{}, ErrTooManyGroups},
		{strings.Repeat(`\z(a\)`, 10), Flags{External: ExternalAllowDefine}, ErrTooManyExtGroups},
		{`\(\(\(a\)\)\)`, Flags{MaxNest: 3}, ErrNestTooDeep},
		{`\%'!`, Flags{}, ErrBadMark},
		{`\_q`, Flags{}, ErrBadClass},
		{`\_`, Flags{}, ErrUnexpectedEnd},
		{`\%[a\|b]`, Flags{}, ErrMisplacedOperator},
		{`\1a`, Flags{}, ErrBadBackref},
		{`\(a\1\)`, Flags{}, ErrBadBackref},
		{`\2\(a\)`, Flags{}, ErrBadBackref},
		{`\(a\)\2\(b\)`, Flags{}, ErrBadBackref},
		{`\3\@<=\(a\)`, Flags{}, ErrBadBackref},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern, tt.flags)
			assert.ErrorIs(t, err, &Error{Kind: tt.kind})
		})
	}
}

// TestBackrefBeforeGroupWithLookbehind tests that a reference may name a
// group closed later when a look-behind follows it.
func TestBackrefBeforeGroupWithLookbehind(t *testing.T) {
	for _, pattern := range []string{`\(\1\)\@<=x\(a\)`, `\2\@<!\(a\)\(b\)`, `\(a\)\(b\)\2\1`} {
		_, err := Parse(pattern, Flags{})
		assert.NilError(t, err, pattern)
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := Parse("[z-a]", Flags{})
	assert.Error(t, err, `vimre: reverse range in character class at offset 3 in "[z-a]"`)
}

func TestHasUppercase(t *testing.T) {
	tests := []struct {
		pattern string
		magic   Magic
		want    bool
	}{
		{"foo", MagicOn, false},
		{"Foo", MagicOn, true},
		{`\Sfoo`, MagicOn, false},
		{`\_Xa`, MagicOn, false},
		{`\%Vx`, MagicOn, false},
		{"%Ax", MagicOn, true},
		{"%Ax", MagicAll, false},
		{`\v_Ax`, MagicOn, false},
		{"\u00e9", MagicOn, false},
		{"\u00c9", MagicOn, true},
	}
	for _, tt := range tests {
		if got := HasUppercase(tt.pattern, tt.magic); got != tt.want {
			t.Errorf("HasUppercase(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}
