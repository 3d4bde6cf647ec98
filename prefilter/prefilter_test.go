package prefilter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/coregx/vimre/literal"
)

func seqOf(strs ...string) *literal.Seq {
	lits := make([]literal.Literal, len(strs))
	for i, s := range strs {
		lits[i] = literal.NewLiteral([]byte(s), true)
	}
	return literal.NewSeq(lits...)
}

func TestMemchrSWAR(t *testing.T) {
	hay := []byte("the quick brown fox jumps over the lazy dog\x00\xff")
	for _, needle := range []byte("tqz \x00\xff#") {
		for start := 0; start <= len(hay); start++ {
			want := bytes.IndexByte(hay[start:], needle)
			if got := memchrSWAR(hay[start:], needle); got != want {
				t.Errorf("memchrSWAR(hay[%d:], %q) = %d, want %d", start, needle, got, want)
			}
			if got := memchr(hay[start:], needle); got != want {
				t.Errorf("memchr(hay[%d:], %q) = %d, want %d", start, needle, got, want)
			}
		}
	}
}

func TestMemmem(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
	}{
		{"hello world", "world"},
		{"hello world", "hello"},
		{"hello world", "o w"},
		{"hello world", "worlds"},
		{"aaaaaaaab", "aab"},
		{"abcabcabd", "abd"},
		{"short", "much longer needle"},
		{"", "x"},
		{"xyz", "xyz"},
		{"zzQzzQzzQx", "Qx"},
	}
	for _, tt := range tests {
		t.Run(tt.haystack+"/"+tt.needle, func(t *testing.T) {
			n := []byte(tt.needle)
			want := strings.Index(tt.haystack, tt.needle)
			if got := memmem([]byte(tt.haystack), n, rareByte(n)); got != want {
				t.Errorf("memmem = %d, want %d", got, want)
			}
		})
	}
}

func TestRareByte(t *testing.T) {
	tests := []struct {
		needle string
		want   int
	}{
		{"ez", 1},
		{"Qe", 0},
		{"e t", 2},
		{"x", 0},
	}
	for _, tt := range tests {
		if got := rareByte([]byte(tt.needle)); got != tt.want {
			t.Errorf("rareByte(%q) = %d, want %d", tt.needle, got, tt.want)
		}
	}
}

func TestBuilderSelect(t *testing.T) {
	tests := []struct {
		name       string
		exact      *literal.Seq
		inner      *literal.Seq
		ignoreCase bool
		want       string
		prefix     bool
	}{
		{"nothing", nil, nil, false, "", false},
		{"empty seqs", literal.NewSeq(), literal.NewSeq(), false, "", false},
		{"empty literal", seqOf("a", ""), nil, false, "", false},
		{"single byte", seqOf("a"), nil, false, "memchr(a)", true},
		{"substring", seqOf("hello"), nil, false, "memmem(hello)", true},
		{"minimized", seqOf("foobar", "foo"), nil, false, "memmem(foo)", true},
		{"alternation", seqOf("foo", "bar"), nil, false, "aho-corasick(2 literals)", true},
		{"inner only", nil, seqOf("bcd"), false, "memmem(bcd)", false},
		{"inner alternation", nil, seqOf("ab", "cd", "ef"), false, "aho-corasick(3 literals)", false},
		{"ignore case", seqOf("Foo"), seqOf("Foo"), true, "fold(foo)", false},
		{"ignore case exact only", seqOf("Bar"), nil, true, "fold(bar)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := NewBuilder(tt.exact, tt.inner, tt.ignoreCase).Build()
			if tt.want == "" {
				if pf != nil {
					t.Fatalf("Build() = %v, want nil", pf)
				}
				return
			}
			if pf == nil {
				t.Fatalf("Build() = nil, want %s", tt.want)
			}
			if got := pf.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := pf.IsPrefix(); got != tt.prefix {
				t.Errorf("IsPrefix() = %v, want %v", got, tt.prefix)
			}
		})
	}
}

func TestBuilderDoesNotModifyInput(t *testing.T) {
	exact := seqOf("foobar", "foo")
	NewBuilder(exact, nil, false).Build()
	if exact.Len() != 2 {
		t.Errorf("exact was minimized in place: %q", exact.Strings())
	}
}

func TestPrefilterFind(t *testing.T) {
	tests := []struct {
		name     string
		exact    *literal.Seq
		inner    *literal.Seq
		ic       bool
		haystack string
		start    int
		want     int
	}{
		{"memchr hit", seqOf("o"), nil, false, "hello world", 0, 4},
		{"memchr after start", seqOf("o"), nil, false, "hello world", 5, 7},
		{"memchr at end", seqOf("o"), nil, false, "hello", 5, -1},
		{"memchr past end", seqOf("o"), nil, false, "hello", 9, -1},
		{"memchr miss", seqOf("x"), nil, false, "hello", 0, -1},
		{"memmem hit", seqOf("wor"), nil, false, "hello world", 0, 6},
		{"memmem miss", seqOf("word"), nil, false, "hello world", 0, -1},
		{"memmem empty haystack", seqOf("ab"), nil, false, "", 0, -1},
		{"aho leftmost", seqOf("foo", "bar"), nil, false, "xx bar foo", 0, 3},
		{"aho after start", seqOf("foo", "bar"), nil, false, "xx bar foo", 4, 7},
		{"aho miss", seqOf("foo", "bar"), nil, false, "baz", 0, -1},
		{"inner answers start", nil, seqOf("bcd"), false, "a...bcd", 1, 1},
		{"inner miss", nil, seqOf("bcd"), false, "a...bce", 1, -1},
		{"inner aho", nil, seqOf("ab", "cd"), false, "xxcdxx", 0, 0},
		{"inner before start", nil, seqOf("ab"), false, "abxx", 1, -1},
		{"fold", seqOf("hello"), nil, true, "say HeLLo", 0, 0},
		{"fold full", nil, seqOf("straße"), true, "STRASSE", 0, 0},
		{"fold miss", nil, seqOf("hello"), true, "HELP", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := NewBuilder(tt.exact, tt.inner, tt.ic).Build()
			if pf == nil {
				t.Fatal("Build() = nil")
			}
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestHeapBytes(t *testing.T) {
	if got := NewBuilder(seqOf("a"), nil, false).Build().HeapBytes(); got != 0 {
		t.Errorf("memchr HeapBytes() = %d, want 0", got)
	}
	if got := NewBuilder(seqOf("abc"), nil, false).Build().HeapBytes(); got != 3 {
		t.Errorf("memmem HeapBytes() = %d, want 3", got)
	}
	if got := NewBuilder(seqOf("ab", "cd"), nil, false).Build().HeapBytes(); got <= 0 {
		t.Errorf("aho HeapBytes() = %d, want > 0", got)
	}
}

func BenchmarkPrefilterMemmem(b *testing.B) {
	line := []byte(strings.Repeat("the quick brown fox ", 8) + "jumps over the lazy dog")
	pf := NewBuilder(seqOf("lazy"), nil, false).Build()
	b.SetBytes(int64(len(line)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pf.Find(line, 0)
	}
}

func BenchmarkMemchrSWAR(b *testing.B) {
	line := []byte(strings.Repeat("a", 256) + "z")
	b.SetBytes(int64(len(line)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		memchrSWAR(line, 'z')
	}
}
